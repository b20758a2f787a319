// SPDX-License-Identifier: Apache-2.0

package steps

import (
	"context"
	"os"

	"github.com/automa-saga/automa"
	"github.com/automa-saga/logx"

	"github.com/deskstrap/deskstrap/internal/core"
	"github.com/deskstrap/deskstrap/internal/network"
	"github.com/deskstrap/deskstrap/internal/templates"
	"github.com/deskstrap/deskstrap/internal/workflows/notify"
	"github.com/deskstrap/deskstrap/pkg/fsx"
	osx "github.com/deskstrap/deskstrap/pkg/os"
)

// ConfigureNetworkManager writes the NetworkManager drop-in that makes it
// the single owner of network configuration, optionally taking over devices
// still declared in /etc/network/interfaces. The previous drop-in, when one
// exists, is backed up and restored on rollback.
func ConfigureNetworkManager(manageIfupdownDevices, restartService bool) automa.Builder {
	return automa.NewStepBuilder().WithId("configure-network-manager").
		WithExecute(func(ctx context.Context, stp automa.Step) *automa.Report {
			mg, err := fsx.NewManager()
			if err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}

			dropInPath := network.DropInPath()
			meta := map[string]string{
				"drop_in_path": dropInPath,
			}

			hasIfupdown, err := network.HasIfupdownInterfaces()
			if err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}
			if hasIfupdown && !manageIfupdownDevices {
				logx.As().Warn().
					Str("interfaces_file", network.InterfacesFile).
					Msg("Legacy ifupdown interfaces found but takeover is disabled, those devices stay unmanaged")
				meta[KeyWarnings] = "legacy ifupdown interfaces remain unmanaged"
			}

			if err := mg.CreateDirectory(network.DropInDir, true); err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}

			_, exists, err := mg.PathExists(dropInPath)
			if err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}
			if exists {
				backupFile, err := mg.BackupFile(dropInPath, core.Paths().BackupDir)
				if err != nil {
					return automa.FailureReport(stp,
						automa.WithError(
							automa.StepExecutionError.Wrap(err, "failed to backup %s", dropInPath)))
				}
				stp.State().Local().Set(KeyBackupFile, backupFile)
				meta[KeyBackupFile] = backupFile
			}

			if _, err := network.WriteDropIn(mg, templates.NetworkManagerData{
				ManageIfupdownDevices: manageIfupdownDevices,
			}); err != nil {
				return automa.FailureReport(stp,
					automa.WithError(
						automa.StepExecutionError.Wrap(err, "failed to write NetworkManager drop-in")))
			}

			if restartService {
				if err := osx.RestartService(ctx, network.ServiceName); err != nil {
					return automa.FailureReport(stp,
						automa.WithError(
							automa.StepExecutionError.Wrap(err, "failed to restart %s", network.ServiceName)))
				}
				meta["service_restarted"] = network.ServiceName
			}

			return automa.SuccessReport(stp, automa.WithMetadata(meta))
		}).
		WithRollback(func(ctx context.Context, stp automa.Step) *automa.Report {
			mg, err := fsx.NewManager()
			if err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}

			dropInPath := network.DropInPath()
			backupFile, _ := stp.State().Local().String(KeyBackupFile)
			if backupFile == "" {
				// no drop-in existed before this step, remove ours
				if err := mg.RemoveAll(dropInPath); err != nil && !os.IsNotExist(err) {
					return automa.FailureReport(stp, automa.WithError(err))
				}
				return automa.SuccessReport(stp)
			}

			payload, err := mg.ReadFile(backupFile, maxSourcesFileSize)
			if err != nil {
				return automa.FailureReport(stp,
					automa.WithError(
						automa.StepExecutionError.Wrap(err, "failed to read drop-in backup %s", backupFile)))
			}

			if err := mg.ReplaceFile(dropInPath, payload, core.DefaultFilePerm); err != nil {
				return automa.FailureReport(stp,
					automa.WithError(
						automa.StepExecutionError.Wrap(err, "failed to restore drop-in from %s", backupFile)))
			}

			return automa.SuccessReport(stp, automa.WithMetadata(map[string]string{
				KeyBackupFile: backupFile,
			}))
		}).
		WithPrepare(func(ctx context.Context, stp automa.Step) (context.Context, error) {
			notify.As().StepStart(ctx, stp, "Configuring NetworkManager")
			return ctx, nil
		}).
		WithOnCompletion(func(ctx context.Context, stp automa.Step, report *automa.Report) {
			notify.As().StepCompletion(ctx, stp, report, "NetworkManager configured")
		}).
		WithOnFailure(func(ctx context.Context, stp automa.Step, report *automa.Report) {
			notify.As().StepFailure(ctx, stp, report, "Failed to configure NetworkManager")
		})
}
