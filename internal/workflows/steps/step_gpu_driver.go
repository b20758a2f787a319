// SPDX-License-Identifier: Apache-2.0

package steps

import (
	"context"

	"github.com/automa-saga/automa"
	"github.com/joomcode/errorx"

	"github.com/deskstrap/deskstrap/internal/workflows/notify"
	"github.com/deskstrap/deskstrap/pkg/detect"
	"github.com/deskstrap/deskstrap/pkg/software"
)

// InstallGpuDrivers installs the driver stack for the given GPU vendor.
// NVIDIA hardware gets the proprietary driver set plus the nvidia kernel
// module; AMD ships its driver in the kernel so only firmware and the Mesa
// user space are added; anything else gets the plain Mesa stack.
func InstallGpuDrivers(vendor string) automa.Builder {
	var driverSteps []automa.Builder

	switch vendor {
	case detect.GPUVendorNvidia.String():
		driverSteps = []automa.Builder{
			InstallPackageSet(software.NvidiaDriverSet),
			InstallKernelModule("nvidia"),
		}
	case detect.GPUVendorAmd.String():
		driverSteps = []automa.Builder{
			InstallPackageSet(software.AmdGraphicsSet),
		}
	case detect.GPUVendorOther.String():
		driverSteps = []automa.Builder{
			InstallPackageSet(software.MesaGraphicsSet),
		}
	default:
		return automa.NewStepBuilder().WithId("install-gpu-drivers").
			WithExecute(func(ctx context.Context, stp automa.Step) *automa.Report {
				return automa.FailureReport(stp,
					automa.WithError(errorx.IllegalArgument.New("unsupported GPU vendor: %q", vendor)))
			})
	}

	return automa.NewWorkflowBuilder().WithId("install-gpu-drivers").
		Steps(driverSteps...).
		WithPrepare(func(ctx context.Context, stp automa.Step) (context.Context, error) {
			notify.As().StepStart(ctx, stp, "Installing GPU drivers for vendor %q", vendor)
			return ctx, nil
		}).
		WithOnCompletion(func(ctx context.Context, stp automa.Step, report *automa.Report) {
			notify.As().StepCompletion(ctx, stp, report, "GPU drivers for vendor %q installed", vendor)
		}).
		WithOnFailure(func(ctx context.Context, stp automa.Step, report *automa.Report) {
			notify.As().StepFailure(ctx, stp, report, "Failed to install GPU drivers for vendor %q", vendor)
		})
}
