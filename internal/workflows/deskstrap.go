// SPDX-License-Identifier: Apache-2.0

package workflows

import (
	"github.com/automa-saga/automa"

	"github.com/deskstrap/deskstrap/internal/core"
	"github.com/deskstrap/deskstrap/internal/workflows/steps"
)

func NewSelfInstallWorkflow() *automa.WorkflowBuilder {
	return automa.NewWorkflowBuilder().WithId("self-install-workflow").Steps(
		CheckPrivilegesStep(),
		steps.SetupHomeDirectoryStructure(core.Paths()),
		steps.InstallDeskstrap(core.Paths().BinDir),
	)
}

// NewUninstallWorkflow removes the cron entry, the installed binary, its
// symlink and the deskstrap home directory.
func NewUninstallWorkflow() *automa.WorkflowBuilder {
	return automa.NewWorkflowBuilder().WithId("uninstall-workflow").Steps(
		CheckPrivilegesStep(),
		steps.UnschedulePinRefresh(),
		steps.RemoveDeskstrap(core.Paths().BinDir),
	)
}
