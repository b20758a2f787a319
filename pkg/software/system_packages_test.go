// SPDX-License-Identifier: Apache-2.0

package software

import (
	"os"
	"runtime"
	"testing"

	"github.com/bluet/syspkg/manager"
	"github.com/stretchr/testify/require"

	"github.com/deskstrap/deskstrap/pkg/sanity"
)

func requireLinux(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("only runs on Linux")
	}
}

func requireRoot(t *testing.T) {
	if os.Geteuid() != 0 {
		t.Skip("requires root privileges")
	}
}

func allPackageSets() []PackageSet {
	return []PackageSet{
		DesktopSet,
		MultimediaSet,
		GraphicsSet,
		FontsSet,
		UtilitiesSet,
		NvidiaDriverSet,
		AmdGraphicsSet,
		MesaGraphicsSet,
		ThemeSet,
		GrubThemeSet,
	}
}

func TestPackageSets_WellFormed(t *testing.T) {
	for _, set := range allPackageSets() {
		t.Run(set.Name, func(t *testing.T) {
			req := require.New(t)
			req.NoError(sanity.ValidateIdentifier(set.Name))
			req.NotEmpty(set.Packages)

			seen := map[string]bool{}
			for _, name := range set.Packages {
				req.NoError(sanity.ValidatePinPattern(name), name)
				req.False(seen[name], "duplicate package %s", name)
				seen[name] = true
			}
		})
	}
}

func TestBaseProvisioningSets(t *testing.T) {
	req := require.New(t)

	sets := BaseProvisioningSets()
	req.Len(sets, 5)

	// Utilities install first so the tools later steps shell out to exist.
	req.Equal(UtilitiesSet.Name, sets[0].Name)

	names := map[string]bool{}
	for _, set := range sets {
		names[set.Name] = true
	}
	req.True(names[DesktopSet.Name])
	req.True(names[MultimediaSet.Name])
	req.True(names[GraphicsSet.Name])
	req.True(names[FontsSet.Name])

	// Driver sets are chosen by the GPU branch, never installed wholesale.
	req.False(names[NvidiaDriverSet.Name])
	req.False(names[AmdGraphicsSet.Name])
}

// TestPackageInstallUninstall exercises the full install/uninstall cycle for
// one small utility package against the live package manager.
func TestPackageInstallUninstall(t *testing.T) {
	requireLinux(t)
	requireRoot(t)

	// Refresh package index to ensure we have the latest package information.
	// This is especially important in CI environments where the package cache
	// may be stale.
	err := RefreshPackageIndex()
	require.NoError(t, err, "failed to refresh package index")

	const expectedName = "zip"
	pkg, err := NewPackage(expectedName)
	require.NoError(t, err, "failed to create %s package", expectedName)
	require.NotNil(t, pkg, "package should not be nil")
	require.Equal(t, expectedName, pkg.Name(), "package name mismatch")

	// Ensure clean state: uninstall the package if it's already installed
	if pkg.IsInstalled() {
		t.Logf("Package %s is already installed, uninstalling for clean test state", expectedName)
		_, err := pkg.Uninstall()
		require.NoError(t, err, "failed to uninstall pre-existing %s", expectedName)
	}

	info, err := pkg.Install()
	require.NoError(t, err, "failed to install %s", expectedName)
	require.Equal(t, expectedName, info.Name, "package name mismatch after installation")
	require.Equal(t, manager.PackageStatusInstalled, info.Status, "package should be installed after installation")
	require.True(t, pkg.IsInstalled(), "package should be installed after installation")

	verifyInfo, err := pkg.Info()
	require.NoError(t, err, "failed to get package info")
	require.Equal(t, expectedName, verifyInfo.Name, "package name mismatch in info")

	info, err = pkg.Uninstall()
	require.NoError(t, err, "failed to uninstall %s", expectedName)
	require.Equal(t, expectedName, info.Name, "package name mismatch after uninstallation")
	require.NotEqual(t, manager.PackageStatusInstalled, info.Status, "package status should be empty after uninstallation")
	require.False(t, pkg.IsInstalled(), "package should not be installed after uninstallation")
}
