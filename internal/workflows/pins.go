// SPDX-License-Identifier: Apache-2.0

package workflows

import (
	"github.com/automa-saga/automa"

	"github.com/deskstrap/deskstrap/internal/config"
	"github.com/deskstrap/deskstrap/internal/workflows/steps"
)

// NewPinsInitWorkflow writes the APT preferences file from the detected
// component versions.
func NewPinsInitWorkflow(cfg config.Config) *automa.WorkflowBuilder {
	return automa.NewWorkflowBuilder().WithId("pins-init-workflow").Steps(
		CheckPrivilegesStep(),
		steps.InitializeVersionPins(cfg.Apt.PreferencesPath),
	)
}

// NewPinsRefreshWorkflow moves the version locks forward to the current
// candidate versions and re-synchronizes the package index when the file
// changed. This is the workflow the weekly cron entry runs.
func NewPinsRefreshWorkflow(cfg config.Config) *automa.WorkflowBuilder {
	return automa.NewWorkflowBuilder().WithId("pins-refresh-workflow").Steps(
		CheckPrivilegesStep(),
		steps.RefreshVersionPins(cfg.Apt.PreferencesPath, cfg.Apt.QueryTimeout()),
		steps.RefreshSystemPackageIndex(),
	)
}

// NewScheduleWorkflow installs the weekly refresh cron entry.
func NewScheduleWorkflow(cfg config.Config) *automa.WorkflowBuilder {
	return automa.NewWorkflowBuilder().WithId("pins-schedule-workflow").Steps(
		CheckPrivilegesStep(),
		steps.SchedulePinRefresh(cfg.Refresh.Schedule),
	)
}

// NewUnscheduleWorkflow removes the weekly refresh cron entry.
func NewUnscheduleWorkflow() *automa.WorkflowBuilder {
	return automa.NewWorkflowBuilder().WithId("pins-unschedule-workflow").Steps(
		CheckPrivilegesStep(),
		steps.UnschedulePinRefresh(),
	)
}
