// SPDX-License-Identifier: Apache-2.0

package steps

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/automa-saga/automa"
	"github.com/automa-saga/logx"

	"github.com/deskstrap/deskstrap/internal/core"
	"github.com/deskstrap/deskstrap/internal/templates"
	"github.com/deskstrap/deskstrap/internal/workflows/notify"
	"github.com/deskstrap/deskstrap/pkg/cronspec"
	"github.com/deskstrap/deskstrap/pkg/fsx"
)

const cronJobTemplate = "files/cron/deskstrap-pins"

// cronLogFileName is where the cron job appends the refresh run's combined
// output, under the deskstrap logs directory.
const cronLogFileName = "pins_refresh.log"

// SchedulePinRefresh installs the cron.d entry running the weekly pin
// refresh. The schedule is validated before anything is written, and an
// existing entry is simply replaced.
func SchedulePinRefresh(schedule string) automa.Builder {
	return automa.NewStepBuilder().WithId("schedule-pin-refresh").
		WithExecute(func(ctx context.Context, stp automa.Step) *automa.Report {
			binaryPath := filepath.Join(core.Paths().BinDir, core.BinaryName)

			entry := cronspec.Entry{
				Schedule: schedule,
				User:     "root",
				Command:  binaryPath + " pins refresh",
			}
			if err := entry.Validate(); err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}

			content, err := templates.Render(cronJobTemplate, templates.CronJobData{
				Schedule:   schedule,
				BinaryPath: binaryPath,
				LogPath:    filepath.Join(core.Paths().LogsDir, cronLogFileName),
			})
			if err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}

			mg, err := fsx.NewManager()
			if err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}

			if err := mg.ReplaceFile(CronFilePath, []byte(content), core.DefaultFilePerm); err != nil {
				return automa.FailureReport(stp,
					automa.WithError(
						automa.StepExecutionError.Wrap(err, "failed to write cron file %s", CronFilePath)))
			}

			meta := map[string]string{
				"cron_file": CronFilePath,
				"schedule":  schedule,
			}

			if next, err := cronspec.Next(schedule, time.Now()); err == nil {
				meta["next_run"] = next.Format(time.RFC3339)
			}

			logx.As().Info().
				Str("cron_file", CronFilePath).
				Str("schedule", schedule).
				Msg("Weekly pin refresh scheduled")

			return automa.SuccessReport(stp, automa.WithMetadata(meta))
		}).
		WithRollback(func(ctx context.Context, stp automa.Step) *automa.Report {
			mg, err := fsx.NewManager()
			if err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}

			if err := mg.RemoveAll(CronFilePath); err != nil && !os.IsNotExist(err) {
				return automa.FailureReport(stp, automa.WithError(err))
			}

			return automa.SuccessReport(stp)
		}).
		WithPrepare(func(ctx context.Context, stp automa.Step) (context.Context, error) {
			notify.As().StepStart(ctx, stp, "Scheduling weekly pin refresh")
			return ctx, nil
		}).
		WithOnCompletion(func(ctx context.Context, stp automa.Step, report *automa.Report) {
			notify.As().StepCompletion(ctx, stp, report, "Weekly pin refresh scheduled")
		}).
		WithOnFailure(func(ctx context.Context, stp automa.Step, report *automa.Report) {
			notify.As().StepFailure(ctx, stp, report, "Failed to schedule weekly pin refresh")
		})
}

// UnschedulePinRefresh removes the cron.d entry for the weekly pin refresh.
// A missing entry is not an error.
func UnschedulePinRefresh() automa.Builder {
	return automa.NewStepBuilder().WithId("unschedule-pin-refresh").
		WithExecute(func(ctx context.Context, stp automa.Step) *automa.Report {
			mg, err := fsx.NewManager()
			if err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}

			_, exists, err := mg.PathExists(CronFilePath)
			if err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}
			if !exists {
				return automa.SkippedReport(stp,
					automa.WithDetail("no pin refresh cron entry is installed"))
			}

			if err := mg.RemoveAll(CronFilePath); err != nil {
				return automa.FailureReport(stp,
					automa.WithError(
						automa.StepExecutionError.Wrap(err, "failed to remove cron file %s", CronFilePath)))
			}

			logx.As().Info().Str("cron_file", CronFilePath).Msg("Weekly pin refresh unscheduled")
			return automa.SuccessReport(stp, automa.WithMetadata(map[string]string{
				"cron_file": CronFilePath,
			}))
		}).
		WithPrepare(func(ctx context.Context, stp automa.Step) (context.Context, error) {
			notify.As().StepStart(ctx, stp, "Removing weekly pin refresh schedule")
			return ctx, nil
		}).
		WithOnCompletion(func(ctx context.Context, stp automa.Step, report *automa.Report) {
			notify.As().StepCompletion(ctx, stp, report, "Weekly pin refresh unscheduled")
		}).
		WithOnFailure(func(ctx context.Context, stp automa.Step, report *automa.Report) {
			notify.As().StepFailure(ctx, stp, report, "Failed to unschedule weekly pin refresh")
		})
}
