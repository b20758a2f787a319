// SPDX-License-Identifier: Apache-2.0

package steps

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/automa-saga/automa"
	"github.com/automa-saga/logx"
	"github.com/joomcode/errorx"

	"github.com/deskstrap/deskstrap/internal/core"
	"github.com/deskstrap/deskstrap/internal/doctor"
	"github.com/deskstrap/deskstrap/internal/version"
)

var errDeskstrapInstallationRequired = errorx.IllegalState.
	New("deskstrap installation or re-installation required").
	WithProperty(doctor.ErrPropertyResolution, "install or re-install the deskstrap binary, run `sudo deskstrap install`")

// CheckDeskstrapInstallation checks if deskstrap is installed at the given binDir.
func CheckDeskstrapInstallation(binDir string) *automa.StepBuilder {
	return automa.NewStepBuilder().WithId("check-deskstrap-installation").
		WithExecute(func(ctx context.Context, stp automa.Step) *automa.Report {
			exePath, err := os.Executable()
			if err != nil {
				return automa.FailureReport(stp,
					automa.WithError(errorx.InternalError.Wrap(err, "failed to locate current executable")))
			}

			expectedPath := filepath.Join(binDir, core.BinaryName)
			if exePath != expectedPath {
				logx.As().Error().
					Str("exePath", exePath).
					Str("expectedPath", expectedPath).
					Msg("Deskstrap installation check failed: current executable is not in the expected bin directory")
				return automa.FailureReport(stp,
					automa.WithError(errDeskstrapInstallationRequired))
			}

			meta := map[string]string{
				"deskstrap_path":    exePath,
				"installed_version": version.Number(),
				"installed_commit":  version.Commit(),
			}

			return automa.SuccessReport(stp, automa.WithMetadata(meta))
		})
}

// InstallDeskstrap installs deskstrap at the given binDir by copying the current executable to that location.
// It also attempts to create a symlink in /usr/local/bin for easier access.
// Note: This step requires elevated permissions to write to the target binDir.
func InstallDeskstrap(binDir string) *automa.StepBuilder {
	return automa.NewStepBuilder().WithId("install-deskstrap").
		WithExecute(func(ctx context.Context, stp automa.Step) *automa.Report {
			srcPath, err := os.Executable()
			if err != nil {
				return automa.FailureReport(stp,
					automa.WithError(errorx.InternalError.Wrap(err, "failed to locate current executable")))
			}

			if err := os.MkdirAll(binDir, core.DefaultDirOrExecPerm); err != nil {
				return automa.FailureReport(stp,
					automa.WithError(errorx.InternalError.Wrap(err, "failed to create bin directory %s", binDir)))
			}

			destPath := filepath.Join(binDir, core.BinaryName)

			src, err := os.Open(srcPath)
			if err != nil {
				return automa.FailureReport(stp,
					automa.WithError(errorx.InternalError.Wrap(err, "failed to open source executable %s", srcPath)))
			}
			defer src.Close()

			// write to a temp file in the destination dir then rename
			tmpFile, err := os.CreateTemp(binDir, core.BinaryName+".tmp.*")
			if err != nil {
				return automa.FailureReport(stp,
					automa.WithError(errorx.InternalError.
						Wrap(err, "failed to create temp file in %s", binDir)))
			}
			tmpPath := tmpFile.Name()

			if _, err := io.Copy(tmpFile, src); err != nil {
				_ = tmpFile.Close()
				_ = os.Remove(tmpPath)
				return automa.FailureReport(stp,
					automa.WithError(errorx.InternalError.Wrap(err, "failed to copy binary")))
			}

			if err := tmpFile.Close(); err != nil {
				_ = os.Remove(tmpPath)
				return automa.FailureReport(stp,
					automa.WithError(errorx.InternalError.Wrap(err, "failed to finalize temp file")))
			}

			// ensure executable permission
			if err := os.Chmod(tmpPath, core.DefaultDirOrExecPerm); err != nil {
				_ = os.Remove(tmpPath)
				return automa.FailureReport(stp,
					automa.WithError(errorx.InternalError.
						Wrap(err, "failed to set executable permission")))
			}

			// atomically move into place
			if err := os.Rename(tmpPath, destPath); err != nil {
				_ = os.Remove(tmpPath)
				return automa.FailureReport(stp,
					automa.WithError(errorx.InternalError.
						Wrap(err, "failed to install binary to %s", destPath)))
			}

			// create a symlink in /usr/local/bin if possible
			symlinkPath := filepath.Join(core.SystemBinDir, core.BinaryName)
			_ = os.Remove(symlinkPath) // ignore error
			if err := os.Symlink(destPath, symlinkPath); err != nil {
				logx.As().Warn().
					Str("deskstrap_path", destPath).
					Str("symlink_path", symlinkPath).
					Err(err).
					Msg("Failed to create symlink to deskstrap binary in /usr/local/bin")
			} else {
				logx.As().Info().
					Str("deskstrap_path", destPath).
					Str("symlink_path", symlinkPath).
					Msg("Created symlink to deskstrap binary in /usr/local/bin")
			}

			logx.As().Info().
				Str("deskstrap_path", destPath).
				Msg("Deskstrap installed successfully")

			return automa.SuccessReport(stp)
		})
}

// RemoveDeskstrap removes the installed deskstrap binary, its symlink and the
// deskstrap home directory tree.
func RemoveDeskstrap(binDir string) *automa.StepBuilder {
	return automa.NewStepBuilder().WithId("remove-deskstrap").
		WithExecute(func(ctx context.Context, stp automa.Step) *automa.Report {
			symlinkPath := filepath.Join(core.SystemBinDir, core.BinaryName)
			if err := os.Remove(symlinkPath); err != nil && !os.IsNotExist(err) {
				return automa.FailureReport(stp,
					automa.WithError(errorx.InternalError.Wrap(err, "failed to remove symlink %s", symlinkPath)))
			}

			destPath := filepath.Join(binDir, core.BinaryName)
			if err := os.Remove(destPath); err != nil && !os.IsNotExist(err) {
				return automa.FailureReport(stp,
					automa.WithError(errorx.InternalError.Wrap(err, "failed to remove binary %s", destPath)))
			}

			if err := os.RemoveAll(core.Paths().HomeDir); err != nil {
				return automa.FailureReport(stp,
					automa.WithError(errorx.InternalError.Wrap(err, "failed to remove %s", core.Paths().HomeDir)))
			}

			logx.As().Info().
				Str("deskstrap_path", destPath).
				Str("home_dir", core.Paths().HomeDir).
				Msg("Deskstrap uninstalled")

			return automa.SuccessReport(stp)
		})
}
