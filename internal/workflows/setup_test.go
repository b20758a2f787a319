// SPDX-License-Identifier: Apache-2.0

package workflows

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deskstrap/deskstrap/internal/config"
)

func TestResolveGpuVendor_Override(t *testing.T) {
	require.Equal(t, "nvidia", ResolveGpuVendor(config.GpuConfig{Vendor: config.GpuVendorNvidia}))
	require.Equal(t, "amd", ResolveGpuVendor(config.GpuConfig{Vendor: config.GpuVendorAmd}))
	require.Equal(t, "other", ResolveGpuVendor(config.GpuConfig{Vendor: config.GpuVendorOther}))
}

func TestSelectPackageSets_SkipList(t *testing.T) {
	sets := SelectPackageSets(config.PackagesConfig{SkipSets: []string{"multimedia", "graphics"}})

	names := make([]string, 0, len(sets))
	for _, set := range sets {
		names = append(names, set.Name)
	}

	require.Equal(t, []string{"utilities", "desktop", "fonts"}, names)
}

func TestNewSetupWorkflow_Builds(t *testing.T) {
	cfg := config.Get()
	cfg.Gpu.Vendor = config.GpuVendorOther
	cfg.Packages.Extra = []string{"vim", "git"}

	wf, err := NewSetupWorkflow(cfg).Build()
	require.NoError(t, err)
	require.NotNil(t, wf)
}

func TestPinsWorkflows_Build(t *testing.T) {
	cfg := config.Get()

	wf, err := NewPinsInitWorkflow(cfg).Build()
	require.NoError(t, err)
	require.NotNil(t, wf)

	wf, err = NewPinsRefreshWorkflow(cfg).Build()
	require.NoError(t, err)
	require.NotNil(t, wf)

	wf, err = NewScheduleWorkflow(cfg).Build()
	require.NoError(t, err)
	require.NotNil(t, wf)

	wf, err = NewUnscheduleWorkflow().Build()
	require.NoError(t, err)
	require.NotNil(t, wf)

	wf, err = NewSelfInstallWorkflow().Build()
	require.NoError(t, err)
	require.NotNil(t, wf)

	wf, err = NewUninstallWorkflow().Build()
	require.NoError(t, err)
	require.NotNil(t, wf)
}
