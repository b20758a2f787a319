// SPDX-License-Identifier: Apache-2.0

package steps

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/automa-saga/automa"
	"github.com/automa-saga/logx"

	"github.com/deskstrap/deskstrap/internal/core"
	"github.com/deskstrap/deskstrap/internal/workflows/notify"
	"github.com/deskstrap/deskstrap/pkg/fsx"
)

// grubThemeFile is the theme shipped by the desktop-base package.
const grubThemeFile = "/usr/share/desktop-base/active-theme/grub/theme.txt"

// ConfigureGrubTheme points GRUB_THEME in /etc/default/grub at the Debian
// desktop theme and regenerates the bootloader configuration. The previous
// file is backed up and restored on rollback.
func ConfigureGrubTheme() automa.Builder {
	return automa.NewStepBuilder().WithId("configure-grub-theme").
		WithExecute(func(ctx context.Context, stp automa.Step) *automa.Report {
			mg, err := fsx.NewManager()
			if err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}

			payload, err := mg.ReadFile(GrubDefaultPath, maxSourcesFileSize)
			if err != nil {
				return automa.FailureReport(stp,
					automa.WithError(
						automa.StepExecutionError.Wrap(err, "failed to read %s", GrubDefaultPath)))
			}

			backupFile, err := mg.BackupFile(GrubDefaultPath, core.Paths().BackupDir)
			if err != nil {
				return automa.FailureReport(stp,
					automa.WithError(
						automa.StepExecutionError.Wrap(err, "failed to backup %s", GrubDefaultPath)))
			}
			stp.State().Local().Set(KeyBackupFile, backupFile)

			updated := upsertShellVariable(payload, "GRUB_THEME", grubThemeFile)
			if err := mg.ReplaceFile(GrubDefaultPath, updated, core.DefaultFilePerm); err != nil {
				return automa.FailureReport(stp,
					automa.WithError(
						automa.StepExecutionError.Wrap(err, "failed to write %s", GrubDefaultPath)))
			}

			if err := RunCmd("update-grub"); err != nil {
				return automa.FailureReport(stp,
					automa.WithError(
						automa.StepExecutionError.Wrap(err, "failed to regenerate GRUB configuration")))
			}

			logx.As().Info().
				Str("grub_theme", grubThemeFile).
				Str(KeyBackupFile, backupFile).
				Msg("GRUB theme configured")

			return automa.SuccessReport(stp, automa.WithMetadata(map[string]string{
				"grub_theme": grubThemeFile,
				KeyBackupFile: backupFile,
			}))
		}).
		WithRollback(func(ctx context.Context, stp automa.Step) *automa.Report {
			backupFile, _ := stp.State().Local().String(KeyBackupFile)
			if backupFile == "" {
				return automa.SkippedReport(stp, automa.WithDetail("no GRUB backup recorded, nothing to restore"))
			}

			mg, err := fsx.NewManager()
			if err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}

			payload, err := mg.ReadFile(backupFile, maxSourcesFileSize)
			if err != nil {
				return automa.FailureReport(stp,
					automa.WithError(
						automa.StepExecutionError.Wrap(err, "failed to read GRUB backup %s", backupFile)))
			}

			if err := mg.ReplaceFile(GrubDefaultPath, payload, core.DefaultFilePerm); err != nil {
				return automa.FailureReport(stp,
					automa.WithError(
						automa.StepExecutionError.Wrap(err, "failed to restore %s from %s", GrubDefaultPath, backupFile)))
			}

			if err := RunCmd("update-grub"); err != nil {
				logx.As().Warn().Err(err).Msg("Failed to regenerate GRUB configuration during rollback")
			}

			return automa.SuccessReport(stp, automa.WithMetadata(map[string]string{
				KeyBackupFile: backupFile,
			}))
		}).
		WithPrepare(func(ctx context.Context, stp automa.Step) (context.Context, error) {
			notify.As().StepStart(ctx, stp, "Configuring GRUB theme")
			return ctx, nil
		}).
		WithOnCompletion(func(ctx context.Context, stp automa.Step, report *automa.Report) {
			notify.As().StepCompletion(ctx, stp, report, "GRUB theme configured")
		}).
		WithOnFailure(func(ctx context.Context, stp automa.Step, report *automa.Report) {
			notify.As().StepFailure(ctx, stp, report, "Failed to configure GRUB theme")
		})
}

// upsertShellVariable replaces the assignment of name in a shell-env style
// file, or appends it when absent. Commented-out assignments are replaced so
// a distribution default like `#GRUB_THEME=...` becomes active.
func upsertShellVariable(payload []byte, name, value string) []byte {
	assignment := fmt.Sprintf("%s=%q", name, value)

	var out bytes.Buffer
	replaced := false

	scanner := bufio.NewScanner(bytes.NewReader(payload))
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimLeft(line, "# \t")
		if !replaced && strings.HasPrefix(trimmed, name+"=") {
			out.WriteString(assignment)
			replaced = true
		} else {
			out.WriteString(line)
		}
		out.WriteByte('\n')
	}

	if !replaced {
		out.WriteString(assignment)
		out.WriteByte('\n')
	}

	return out.Bytes()
}
