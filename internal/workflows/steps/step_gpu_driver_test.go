// SPDX-License-Identifier: Apache-2.0

package steps

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInstallGpuDrivers_UnsupportedVendor(t *testing.T) {
	step, err := InstallGpuDrivers("matrox").Build()
	require.NoError(t, err)

	report := step.Execute(context.Background())
	require.Error(t, report.Error)
}

func TestInstallGpuDrivers_KnownVendorsBuild(t *testing.T) {
	for _, vendor := range []string{"nvidia", "amd", "other"} {
		_, err := InstallGpuDrivers(vendor).Build()
		require.NoErrorf(t, err, "workflow for vendor %q should build", vendor)
	}
}
