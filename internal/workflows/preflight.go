// SPDX-License-Identifier: Apache-2.0

package workflows

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"strings"

	"github.com/automa-saga/automa"
	"github.com/automa-saga/logx"
	"github.com/joomcode/errorx"

	"github.com/deskstrap/deskstrap/internal/core"
	"github.com/deskstrap/deskstrap/internal/doctor"
	"github.com/deskstrap/deskstrap/internal/workflows/notify"
	"github.com/deskstrap/deskstrap/internal/workflows/steps"
	"github.com/deskstrap/deskstrap/pkg/detect"
)

// CheckPrivilegesStep validates that the current user has superuser privileges
func CheckPrivilegesStep() automa.Builder {
	return automa.NewStepBuilder().WithId("validate-privileges").
		WithExecute(func(ctx context.Context, stp automa.Step) *automa.Report {
			current, err := user.Current()
			if err != nil {
				return automa.FailureReport(stp,
					automa.WithError(errorx.IllegalState.Wrap(err, "failed to get current user")))
			}

			if current.Uid != "0" {
				return automa.FailureReport(stp,
					automa.WithError(
						errorx.IllegalState.New("requires superuser privilege").
							WithProperty(doctor.ErrPropertyResolution,
								fmt.Sprintf("Run the command with 'sudo' or as root user: `sudo %s`",
									strings.Join(os.Args, " ")))))
			}

			logx.As().Info().Msg("Superuser privilege validated")
			return automa.SuccessReport(stp)
		}).
		WithPrepare(func(ctx context.Context, stp automa.Step) (context.Context, error) {
			notify.As().StepStart(ctx, stp, "Starting privilege validation")
			return ctx, nil

		}).
		WithOnFailure(func(ctx context.Context, stp automa.Step, rpt *automa.Report) {
			notify.As().StepFailure(ctx, stp, rpt, "Privilege validation failed")
		}).
		WithOnCompletion(func(ctx context.Context, stp automa.Step, rpt *automa.Report) {
			notify.As().StepCompletion(ctx, stp, rpt, "Privilege validation step completed successfully")
		})
}

// CheckDebianStep validates that the host runs Debian, the only distribution
// the provisioner knows how to configure.
func CheckDebianStep() automa.Builder {
	return automa.NewStepBuilder().WithId("validate-os").
		WithExecute(func(ctx context.Context, stp automa.Step) *automa.Report {
			osInfo, err := detect.NewOSManager().GetOSInfo()
			if err != nil {
				return automa.FailureReport(stp,
					automa.WithError(errorx.IllegalState.Wrap(err, "failed to detect operating system")))
			}

			if osInfo.Flavor != detect.OSFlavorLinuxDebian {
				return automa.FailureReport(stp,
					automa.WithError(
						errorx.IllegalState.New("unsupported operating system flavor: %q", osInfo.Flavor).
							WithProperty(doctor.ErrPropertyResolution,
								"deskstrap provisions Debian workstations only, run it on a Debian host")))
			}

			logx.As().Info().
				Str("flavor", osInfo.Flavor).
				Str("version", osInfo.Version).
				Str("codename", osInfo.CodeName).
				Str("arch", osInfo.Architecture).
				Msg("Operating system validated")

			return automa.SuccessReport(stp, automa.WithMetadata(map[string]string{
				"os_flavor":   osInfo.Flavor,
				"os_version":  osInfo.Version,
				"os_codename": osInfo.CodeName,
			}))
		}).
		WithPrepare(func(ctx context.Context, stp automa.Step) (context.Context, error) {
			notify.As().StepStart(ctx, stp, "Starting OS validation")
			return ctx, nil
		}).
		WithOnFailure(func(ctx context.Context, stp automa.Step, rpt *automa.Report) {
			notify.As().StepFailure(ctx, stp, rpt, "OS validation failed")
		}).
		WithOnCompletion(func(ctx context.Context, stp automa.Step, rpt *automa.Report) {
			notify.As().StepCompletion(ctx, stp, rpt, "OS validation step completed successfully")
		})
}

// CheckDeskstrapInstallationWorkflow verifies that the running binary is the
// installed one, so provisioning artifacts like the cron job reference a
// stable path.
func CheckDeskstrapInstallationWorkflow() *automa.WorkflowBuilder {
	return automa.NewWorkflowBuilder().WithId("check-deskstrap-installation-workflow").Steps(
		steps.CheckDeskstrapInstallation(core.Paths().BinDir),
	)
}
