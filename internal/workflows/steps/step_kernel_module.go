// SPDX-License-Identifier: Apache-2.0

package steps

import (
	"context"
	"fmt"

	"github.com/automa-saga/automa"
	"github.com/automa-saga/logx"

	"github.com/deskstrap/deskstrap/internal/workflows/notify"
	"github.com/deskstrap/deskstrap/pkg/kernel"
)

// InstallKernelModule loads a kernel module and persists it across reboots.
// If the module is already loaded and persisted, the step is skipped.
func InstallKernelModule(name string) automa.Builder {
	var loadedByThisStep bool
	stepId := fmt.Sprintf("load-module-%s", name)

	return automa.NewStepBuilder().WithId(stepId).
		WithExecute(func(ctx context.Context, stp automa.Step) *automa.Report {
			mod, err := kernel.NewModule(name)
			if err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}

			loaded, persisted, err := mod.IsLoaded()
			if err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}

			if loaded && persisted {
				return automa.SkippedReport(stp,
					automa.WithDetail(fmt.Sprintf("kernel module %q is already loaded and persisted", name)))
			}

			if err := mod.Load(true); err != nil {
				return automa.FailureReport(stp,
					automa.WithError(
						automa.StepExecutionError.Wrap(err, "failed to load kernel module %q", name)))
			}
			loadedByThisStep = true

			logx.As().Info().Str("module", name).Msg("Kernel module loaded and persisted")
			return automa.SuccessReport(stp, automa.WithMetadata(map[string]string{
				"module": name,
			}))
		}).
		WithRollback(func(ctx context.Context, stp automa.Step) *automa.Report {
			if !loadedByThisStep {
				return automa.SkippedReport(stp,
					automa.WithDetail(fmt.Sprintf("kernel module %q was not loaded by this step", name)))
			}

			mod, err := kernel.NewModule(name)
			if err != nil {
				return automa.FailureReport(stp, automa.WithError(err))
			}

			if err := mod.Unload(true); err != nil {
				return automa.FailureReport(stp,
					automa.WithError(
						automa.StepExecutionError.Wrap(err, "failed to unload kernel module %q", name)))
			}

			return automa.SuccessReport(stp)
		}).
		WithPrepare(func(ctx context.Context, stp automa.Step) (context.Context, error) {
			notify.As().StepStart(ctx, stp, "Loading kernel module %q", name)
			return ctx, nil
		}).
		WithOnCompletion(func(ctx context.Context, stp automa.Step, report *automa.Report) {
			notify.As().StepCompletion(ctx, stp, report, "Kernel module %q step completed", name)
		}).
		WithOnFailure(func(ctx context.Context, stp automa.Step, report *automa.Report) {
			notify.As().StepFailure(ctx, stp, report, "Kernel module %q step failed", name)
		})
}
