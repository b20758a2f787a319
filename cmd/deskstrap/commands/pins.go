// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/deskstrap/deskstrap/cmd/deskstrap/commands/common"
	"github.com/deskstrap/deskstrap/internal/config"
	"github.com/deskstrap/deskstrap/internal/state"
	"github.com/deskstrap/deskstrap/internal/workflows"
	"github.com/deskstrap/deskstrap/internal/workflows/steps"
	"github.com/deskstrap/deskstrap/pkg/apt"
	"github.com/deskstrap/deskstrap/pkg/cronspec"
	"github.com/deskstrap/deskstrap/pkg/fsx"
)

var (
	flagPinsSchedule string

	pinsCmd = &cobra.Command{
		Use:   "pins",
		Short: "Manage APT channel priorities and version locks",
		Long:  "Manage the APT preferences file that pins release channels and locks kernel and desktop shell versions",
		RunE:  common.DefaultRunE,
	}

	pinsInitCmd = &cobra.Command{
		Use:   "init",
		Short: "Write the APT preferences file from the detected component versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			common.RunWorkflow(cmd.Context(), workflows.NewPinsInitWorkflow(config.Get()))
			return nil
		},
	}

	pinsRefreshCmd = &cobra.Command{
		Use:   "refresh",
		Short: "Advance the version locks to the current candidate versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			common.RunWorkflow(cmd.Context(), workflows.NewPinsRefreshWorkflow(config.Get()))
			return nil
		},
	}

	pinsShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Print the current version pins and refresh schedule",
		RunE:  runPinsShow,
	}

	pinsScheduleCmd = &cobra.Command{
		Use:   "schedule",
		Short: "Install the cron entry for the periodic pin refresh",
		RunE: func(cmd *cobra.Command, args []string) error {
			config.OverrideRefreshConfig(config.RefreshConfig{Schedule: flagPinsSchedule})
			common.RunWorkflow(cmd.Context(), workflows.NewScheduleWorkflow(config.Get()))
			return nil
		},
	}

	pinsUnscheduleCmd = &cobra.Command{
		Use:   "unschedule",
		Short: "Remove the cron entry for the periodic pin refresh",
		RunE: func(cmd *cobra.Command, args []string) error {
			common.RunWorkflow(cmd.Context(), workflows.NewUnscheduleWorkflow())
			return nil
		},
	}
)

func init() {
	common.FlagSchedule.SetVar(pinsScheduleCmd, &flagPinsSchedule, false)

	// show is read-only and must work before deskstrap is installed
	common.SkipGlobalChecks(pinsShowCmd)

	pinsCmd.PersistentPreRunE = common.RunGlobalChecks
	pinsCmd.AddCommand(pinsInitCmd)
	pinsCmd.AddCommand(pinsRefreshCmd)
	pinsCmd.AddCommand(pinsShowCmd)
	pinsCmd.AddCommand(pinsScheduleCmd)
	pinsCmd.AddCommand(pinsUnscheduleCmd)
}

func getPinsCmd() *cobra.Command {
	return pinsCmd
}

func runPinsShow(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	store, err := apt.NewPreferencesStore(cfg.Apt.PreferencesPath)
	if err != nil {
		return err
	}

	if !store.Exists() {
		cmd.Printf("No preferences file at %s. Run 'deskstrap pins init' first.\n", cfg.Apt.PreferencesPath)
		return nil
	}

	prefs, err := store.Load(cmd.Context())
	if err != nil {
		return err
	}

	cmd.Printf("Preferences file: %s\n\n", cfg.Apt.PreferencesPath)
	cmd.Println("Channels:")
	for _, s := range prefs.Stanzas {
		if archive, ok := s.ReleaseArchive(); ok {
			cmd.Printf("  %-20s priority %d\n", archive, s.Priority)
		}
	}

	cmd.Println("\nVersion locks:")
	for _, s := range prefs.Stanzas {
		if constraint, ok := s.VersionConstraint(); ok {
			cmd.Printf("  %-20s %s (priority %d)\n", s.Package, constraint, s.Priority)
		}
	}

	pinsState, err := state.LoadPinsState()
	if err != nil {
		return err
	}
	if !pinsState.UpdatedAt.IsZero() {
		cmd.Printf("\nLast refreshed: %s\n", pinsState.UpdatedAt.Format(time.RFC3339))
	}

	mg, err := fsx.NewManager()
	if err != nil {
		return err
	}
	if _, exists, err := mg.PathExists(steps.CronFilePath); err == nil && exists {
		if next, err := cronspec.Next(cfg.Refresh.Schedule, time.Now()); err == nil {
			cmd.Printf("Next scheduled refresh: %s (%s)\n", next.Format(time.RFC3339), cfg.Refresh.Schedule)
		}
	} else {
		cmd.Println("\nNo refresh schedule installed. Run 'deskstrap pins schedule' to add one.")
	}

	return nil
}
