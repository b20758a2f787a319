// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/joomcode/errorx"
	"github.com/spf13/cobra"

	"github.com/deskstrap/deskstrap/cmd/deskstrap/commands/common"
	"github.com/deskstrap/deskstrap/internal/config"
	"github.com/deskstrap/deskstrap/internal/workflows"
)

var (
	flagSetupStopOnError     bool
	flagSetupRollbackOnError bool
	flagSetupContinueOnError bool
	flagSetupGpuVendor       string
	flagSetupAssumeYes       bool

	setupCmd = &cobra.Command{
		Use:   "setup",
		Short: "Provision this machine as a Debian desktop workstation",
		Long: "Rewrite APT sources, install the curated desktop package sets, pin component versions, " +
			"configure networking, theming and the kernel profile, and schedule the weekly pin refresh",
		RunE: runSetup,
	}
)

var (
	planTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	planLabelStyle  = lipgloss.NewStyle().Bold(true).Width(14)
	planBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

func init() {
	common.FlagStopOnError.SetVar(setupCmd, &flagSetupStopOnError, false)
	common.FlagRollbackOnError.SetVar(setupCmd, &flagSetupRollbackOnError, false)
	common.FlagContinueOnError.SetVar(setupCmd, &flagSetupContinueOnError, false)
	common.FlagGpuVendor.SetVar(setupCmd, &flagSetupGpuVendor, false)
	common.FlagAssumeYes.SetVar(setupCmd, &flagSetupAssumeYes, false)

	setupCmd.PersistentPreRunE = common.RunGlobalChecks
}

func getSetupCmd() *cobra.Command {
	return setupCmd
}

// renderSetupPlan composes a human readable summary of what the setup
// workflow is about to change on this machine.
func renderSetupPlan(cfg config.Config) string {
	sets := workflows.SelectPackageSets(cfg.Packages)
	setNames := make([]string, 0, len(sets))
	for _, set := range sets {
		setNames = append(setNames, set.Name)
	}

	gpuVendor := cfg.Gpu.Vendor
	if gpuVendor == "" {
		gpuVendor = config.GpuVendorAuto
	}

	rows := []struct {
		label string
		value string
	}{
		{"Sources", fmt.Sprintf("%s (security: %s)", cfg.Apt.Mirror, cfg.Apt.SecurityMirror)},
		{"Package sets", strings.Join(setNames, ", ")},
		{"Extra", strings.Join(cfg.Packages.Extra, ", ")},
		{"GPU driver", gpuVendor},
		{"Theme", fmt.Sprintf("%s / %s", cfg.Theme.GtkTheme, cfg.Theme.IconTheme)},
		{"Pin refresh", cfg.Refresh.Schedule},
	}

	var sb strings.Builder
	for _, row := range rows {
		if row.value == "" {
			continue
		}
		sb.WriteString(planLabelStyle.Render(row.label))
		sb.WriteString(row.value)
		sb.WriteString("\n")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		planTitleStyle.Render("Setup plan"),
		planBorderStyle.Render(strings.TrimRight(sb.String(), "\n")),
	)
}

// confirmSetup shows the plan and asks for confirmation unless --yes is set.
func confirmSetup(cmd *cobra.Command, cfg config.Config) (bool, error) {
	cmd.Println(renderSetupPlan(cfg))

	if flagSetupAssumeYes {
		return true, nil
	}

	confirmed := false
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title("Apply these changes to this machine?").
			Affirmative("Apply").
			Negative("Abort").
			Value(&confirmed),
	))

	if err := form.Run(); err != nil {
		return false, errorx.IllegalState.Wrap(err, "failed to read confirmation")
	}

	return confirmed, nil
}

func runSetup(cmd *cobra.Command, args []string) error {
	execMode, err := common.GetExecutionMode(flagSetupContinueOnError, flagSetupStopOnError, flagSetupRollbackOnError)
	if err != nil {
		return err
	}

	config.OverrideGpuConfig(config.GpuConfig{Vendor: flagSetupGpuVendor})
	cfg := config.Get()

	confirmed, err := confirmSetup(cmd, cfg)
	if err != nil {
		return err
	}
	if !confirmed {
		cmd.Println("Aborted. No changes were made.")
		return nil
	}

	b := workflows.NewSetupWorkflow(cfg).WithExecutionMode(execMode)
	common.RunWorkflow(cmd.Context(), b)
	return nil
}
