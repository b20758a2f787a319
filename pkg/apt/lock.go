// SPDX-License-Identifier: Apache-2.0

package apt

// Version-locked package group names.
const (
	LockKernel       = "kernel"
	LockDesktopShell = "desktop-shell"
)

// VersionLock is a package group whose major version is pinned above every
// channel. Pattern is the preference stanza's package pattern; QueryPackage
// is the concrete package whose candidate version the refresher asks the
// index for, since a glob pattern cannot be queried directly.
type VersionLock struct {
	Name         string
	Pattern      string
	QueryPackage string
	Version      string
}

// Stanza returns the preference stanza locking the group to its major
// version at LockPriority.
func (l VersionLock) Stanza() Stanza {
	return Stanza{
		Package:  l.Pattern,
		Pin:      VersionPin(l.Version),
		Priority: LockPriority,
	}
}

// KernelLock locks the linux-image packages to the given major version. The
// candidate query goes through the architecture metapackage because the
// image packages themselves carry the version in their name.
func KernelLock(version string) VersionLock {
	return VersionLock{
		Name:         LockKernel,
		Pattern:      "linux-image-*",
		QueryPackage: "linux-image-amd64",
		Version:      version,
	}
}

// DesktopShellLock locks gnome-shell to the given major version.
func DesktopShellLock(version string) VersionLock {
	return VersionLock{
		Name:         LockDesktopShell,
		Pattern:      "gnome-shell",
		QueryPackage: "gnome-shell",
		Version:      version,
	}
}
