// SPDX-License-Identifier: Apache-2.0

package steps

import (
	"context"

	"github.com/automa-saga/automa"
	"github.com/automa-saga/logx"

	"github.com/deskstrap/deskstrap/internal/core"
	"github.com/deskstrap/deskstrap/internal/workflows/notify"
	"github.com/deskstrap/deskstrap/pkg/apt"
	"github.com/deskstrap/deskstrap/pkg/fsx"
	"github.com/deskstrap/deskstrap/pkg/sanity"
)

// maxSourcesFileSize bounds how much of an existing sources.list is read back
// during rollback.
const maxSourcesFileSize = 1 << 20

// RewriteAptSources replaces the APT sources list with the deskstrap layout:
// testing, stable, stable-backports and the security suites, all with the
// contrib, non-free and non-free-firmware components enabled. The previous
// file is backed up first and restored on rollback.
func RewriteAptSources(sourcesPath, mirror, securityMirror string) automa.Builder {
	return automa.NewStepBuilder().WithId("rewrite-apt-sources").
		WithExecute(func(ctx context.Context, stp automa.Step) *automa.Report {
			if err := sanity.ValidateMirrorURL(mirror); err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}
			if err := sanity.ValidateMirrorURL(securityMirror); err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}

			rendered, err := apt.RenderSources(apt.DefaultSources(mirror, securityMirror))
			if err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}

			mg, err := fsx.NewManager()
			if err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}

			meta := map[string]string{
				"sources_path": sourcesPath,
			}

			_, exists, err := mg.PathExists(sourcesPath)
			if err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}

			if exists {
				backupFile, err := mg.BackupFile(sourcesPath, core.Paths().BackupDir)
				if err != nil {
					return automa.FailureReport(stp,
						automa.WithError(
							automa.StepExecutionError.Wrap(err, "failed to backup %s", sourcesPath)))
				}

				stp.State().Local().Set(KeyBackupFile, backupFile)
				meta[KeyBackupFile] = backupFile
			}

			if err := mg.ReplaceFile(sourcesPath, rendered, core.DefaultFilePerm); err != nil {
				return automa.FailureReport(stp,
					automa.WithError(
						automa.StepExecutionError.Wrap(err, "failed to write sources list %s", sourcesPath)))
			}

			logx.As().Info().
				Str("sources_path", sourcesPath).
				Str("mirror", mirror).
				Str("security_mirror", securityMirror).
				Msg("APT sources list rewritten")

			return automa.SuccessReport(stp, automa.WithMetadata(meta))
		}).
		WithRollback(func(ctx context.Context, stp automa.Step) *automa.Report {
			backupFile, _ := stp.State().Local().String(KeyBackupFile)
			if backupFile == "" {
				return automa.SkippedReport(stp, automa.WithDetail("no sources backup recorded, nothing to restore"))
			}

			mg, err := fsx.NewManager()
			if err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}

			payload, err := mg.ReadFile(backupFile, maxSourcesFileSize)
			if err != nil {
				return automa.FailureReport(stp,
					automa.WithError(
						automa.StepExecutionError.Wrap(err, "failed to read sources backup %s", backupFile)))
			}

			if err := mg.ReplaceFile(sourcesPath, payload, core.DefaultFilePerm); err != nil {
				return automa.FailureReport(stp,
					automa.WithError(
						automa.StepExecutionError.Wrap(err, "failed to restore sources list from %s", backupFile)))
			}

			return automa.SuccessReport(stp, automa.WithMetadata(map[string]string{
				KeyBackupFile: backupFile,
			}))
		}).
		WithPrepare(func(ctx context.Context, stp automa.Step) (context.Context, error) {
			notify.As().StepStart(ctx, stp, "Rewriting APT sources list")
			return ctx, nil
		}).
		WithOnCompletion(func(ctx context.Context, stp automa.Step, report *automa.Report) {
			notify.As().StepCompletion(ctx, stp, report, "APT sources list configured")
		}).
		WithOnFailure(func(ctx context.Context, stp automa.Step, report *automa.Report) {
			notify.As().StepFailure(ctx, stp, report, "Failed to rewrite APT sources list")
		})
}
