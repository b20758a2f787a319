// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"github.com/spf13/cobra"

	"github.com/deskstrap/deskstrap/cmd/deskstrap/commands/common"
	"github.com/deskstrap/deskstrap/internal/workflows"
)

var (
	installCmd = &cobra.Command{
		Use:   "install",
		Short: "Install the deskstrap binary and its home directory structure",
		Long: "Copy the running binary into the deskstrap home directory, create the directory layout " +
			"and link the binary into the system path",
		RunE: func(cmd *cobra.Command, args []string) error {
			common.RunWorkflow(cmd.Context(), workflows.NewSelfInstallWorkflow())
			return nil
		},
	}

	uninstallCmd = &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the installed deskstrap binary, its schedule and home directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			common.RunWorkflow(cmd.Context(), workflows.NewUninstallWorkflow())
			return nil
		},
	}
)

func init() {
	// install runs before any installation exists, so it cannot require one
	common.SkipGlobalChecks(installCmd)
	common.SkipGlobalChecks(uninstallCmd)
}

func getInstallCmd() *cobra.Command {
	return installCmd
}

func getUninstallCmd() *cobra.Command {
	return uninstallCmd
}
