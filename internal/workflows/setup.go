// SPDX-License-Identifier: Apache-2.0

package workflows

import (
	"context"

	"github.com/automa-saga/automa"
	"github.com/automa-saga/logx"

	"github.com/deskstrap/deskstrap/internal/config"
	"github.com/deskstrap/deskstrap/internal/core"
	"github.com/deskstrap/deskstrap/internal/workflows/notify"
	"github.com/deskstrap/deskstrap/internal/workflows/steps"
	"github.com/deskstrap/deskstrap/pkg/detect"
	"github.com/deskstrap/deskstrap/pkg/software"
)

// ResolveGpuVendor returns the GPU vendor the driver selection should use:
// the configured override when one is set, otherwise the vendor of the
// primary GPU found on the PCI bus.
func ResolveGpuVendor(cfg config.GpuConfig) string {
	if cfg.Vendor != "" && cfg.Vendor != config.GpuVendorAuto {
		return cfg.Vendor
	}

	gpu := detect.NewDetector(detect.WithLogger(*logx.As())).PrimaryGPU()
	return gpu.Vendor.String()
}

// SelectPackageSets filters the base provisioning sets by the configured
// skip list.
func SelectPackageSets(cfg config.PackagesConfig) []software.PackageSet {
	skipped := make(map[string]bool, len(cfg.SkipSets))
	for _, name := range cfg.SkipSets {
		skipped[name] = true
	}

	var sets []software.PackageSet
	for _, set := range software.BaseProvisioningSets() {
		if skipped[set.Name] {
			logx.As().Info().Str("set", set.Name).Msg("Package set skipped by configuration")
			continue
		}
		sets = append(sets, set)
	}

	return sets
}

// NewSetupWorkflow builds the full provisioning run: package sources and
// curated sets, GPU drivers, version pins, network, theming, the desktop
// sysctl profile and the weekly refresh schedule.
func NewSetupWorkflow(cfg config.Config) *automa.WorkflowBuilder {
	setupSteps := []automa.Builder{
		CheckPrivilegesStep(),
		CheckDebianStep(),
		steps.SetupHomeDirectoryStructure(core.Paths()),
		steps.RewriteAptSources(cfg.Apt.SourcesPath, cfg.Apt.Mirror, cfg.Apt.SecurityMirror),
		steps.RefreshSystemPackageIndex(),
	}

	for _, set := range SelectPackageSets(cfg.Packages) {
		setupSteps = append(setupSteps, steps.InstallPackageSet(set))
	}

	for _, name := range cfg.Packages.Extra {
		pkgName := name
		setupSteps = append(setupSteps, steps.InstallSystemPackage(pkgName, func() (software.Package, error) {
			return software.NewPackage(pkgName)
		}))
	}

	setupSteps = append(setupSteps,
		steps.InstallGpuDrivers(ResolveGpuVendor(cfg.Gpu)),
		steps.InitializeVersionPins(cfg.Apt.PreferencesPath),
		steps.ConfigureNetworkManager(cfg.Network.ManageIfupdownDevices, cfg.Network.RestartService),
		steps.InstallPackageSet(software.ThemeSet),
		steps.ApplyGtkTheme(cfg.Theme.GtkTheme, cfg.Theme.IconTheme, cfg.Theme.ApplyToExistingUsers),
		steps.InstallPackageSet(software.GrubThemeSet),
		steps.ConfigureGrubTheme(),
		steps.ConfigureDesktopSysctl(),
		steps.SchedulePinRefresh(cfg.Refresh.Schedule),
		steps.AutoRemoveOrphanedPackages(),
	)

	return automa.NewWorkflowBuilder().
		WithId("setup-workflow").
		Steps(setupSteps...).
		WithPrepare(func(ctx context.Context, stp automa.Step) (context.Context, error) {
			notify.As().StepStart(ctx, stp, "Starting workstation provisioning")
			return ctx, nil
		}).
		WithOnCompletion(func(ctx context.Context, stp automa.Step, rpt *automa.Report) {
			notify.As().StepCompletion(ctx, stp, rpt, "Workstation provisioning completed successfully")
		}).
		WithOnFailure(func(ctx context.Context, stp automa.Step, rpt *automa.Report) {
			notify.As().StepFailure(ctx, stp, rpt, "Workstation provisioning failed")
		})
}
