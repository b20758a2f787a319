// SPDX-License-Identifier: Apache-2.0

package steps

import (
	"context"

	"github.com/automa-saga/automa"
	"github.com/automa-saga/logx"

	"github.com/deskstrap/deskstrap/internal/core"
	"github.com/deskstrap/deskstrap/internal/state"
	"github.com/deskstrap/deskstrap/internal/workflows/notify"
	"github.com/deskstrap/deskstrap/pkg/apt"
	"github.com/deskstrap/deskstrap/pkg/detect"
	"github.com/deskstrap/deskstrap/pkg/fsx"
)

// InitializeVersionPins writes the APT preferences file from scratch: the
// three release channels plus version locks for the running kernel and the
// desktop shell. Versions are detected before the first filesystem mutation
// so a detection failure leaves the system untouched. An existing preferences
// file is backed up and restored on rollback.
func InitializeVersionPins(preferencesPath string) automa.Builder {
	return automa.NewStepBuilder().WithId("initialize-version-pins").
		WithExecute(func(ctx context.Context, stp automa.Step) *automa.Report {
			detector := detect.NewDetector(detect.WithLogger(*logx.As()))

			// all detection happens up front, before any mutation
			kernelVersion, err := detector.KernelMajorMinor()
			if err != nil {
				return automa.FailureReport(stp,
					automa.WithError(
						automa.StepExecutionError.Wrap(err, "failed to detect running kernel version")))
			}

			// a missing shell degrades to the version about to be installed
			shellVersion := detector.ShellMajor(ctx)

			locks := []apt.VersionLock{
				apt.KernelLock(kernelVersion),
				apt.DesktopShellLock(shellVersion),
			}

			prefs := apt.NewPreferences(apt.DefaultChannels(), locks)
			if err := prefs.Validate(); err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}

			store, err := apt.NewPreferencesStore(preferencesPath)
			if err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}

			if store.Exists() {
				mg, err := fsx.NewManager()
				if err != nil {
					return automa.FailureReport(stp, automa.WithError(err))
				}

				backupFile, err := mg.BackupFile(preferencesPath, core.Paths().BackupDir)
				if err != nil {
					return automa.FailureReport(stp,
						automa.WithError(
							automa.StepExecutionError.Wrap(err, "failed to backup %s", preferencesPath)))
				}

				stp.State().Local().Set(KeyBackupFile, backupFile)
			}

			if err := store.Store(ctx, prefs); err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}

			for _, lock := range locks {
				if err := state.RecordLockVersion(lock.Name, lock.Version); err != nil {
					logx.As().Warn().Err(err).
						Str("lock", lock.Name).
						Msg("Failed to record pinned version in the state file")
				}
			}

			logx.As().Info().
				Str("preferences_path", preferencesPath).
				Str("kernel_version", kernelVersion).
				Str("shell_version", shellVersion).
				Msg("APT version pins initialized")

			return automa.SuccessReport(stp, automa.WithMetadata(map[string]string{
				"preferences_path": preferencesPath,
				"kernel_version":   kernelVersion,
				"shell_version":    shellVersion,
			}))
		}).
		WithRollback(func(ctx context.Context, stp automa.Step) *automa.Report {
			mg, err := fsx.NewManager()
			if err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}

			backupFile, _ := stp.State().Local().String(KeyBackupFile)
			if backupFile == "" {
				// no preferences file existed before this step, remove ours
				if err := mg.RemoveAll(preferencesPath); err != nil {
					return automa.FailureReport(stp,
						automa.WithError(
							automa.StepExecutionError.Wrap(err, "failed to remove %s", preferencesPath)))
				}
				return automa.SuccessReport(stp)
			}

			payload, err := mg.ReadFile(backupFile, maxSourcesFileSize)
			if err != nil {
				return automa.FailureReport(stp,
					automa.WithError(
						automa.StepExecutionError.Wrap(err, "failed to read preferences backup %s", backupFile)))
			}

			if err := mg.ReplaceFile(preferencesPath, payload, core.DefaultFilePerm); err != nil {
				return automa.FailureReport(stp,
					automa.WithError(
						automa.StepExecutionError.Wrap(err, "failed to restore preferences from %s", backupFile)))
			}

			return automa.SuccessReport(stp, automa.WithMetadata(map[string]string{
				KeyBackupFile: backupFile,
			}))
		}).
		WithPrepare(func(ctx context.Context, stp automa.Step) (context.Context, error) {
			notify.As().StepStart(ctx, stp, "Initializing APT version pins")
			return ctx, nil
		}).
		WithOnCompletion(func(ctx context.Context, stp automa.Step, report *automa.Report) {
			notify.As().StepCompletion(ctx, stp, report, "APT version pins initialized")
		}).
		WithOnFailure(func(ctx context.Context, stp automa.Step, report *automa.Report) {
			notify.As().StepFailure(ctx, stp, report, "Failed to initialize APT version pins")
		})
}
