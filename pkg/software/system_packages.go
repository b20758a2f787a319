// SPDX-License-Identifier: Apache-2.0

package software

// NewPackage returns a non-interactive installer for a single system package.
func NewPackage(name string) (Package, error) {
	return NewPackageInstaller(WithPackageName(name))
}

// PackageSet is a named, ordered list of packages installed together. Sets
// install package by package so a failed set rolls back exactly the packages
// it added.
type PackageSet struct {
	Name     string
	Packages []string
}

// Curated workstation sets. Names stay stable; they key step ids, config
// overrides and state records.
var (
	DesktopSet = PackageSet{
		Name: "desktop",
		Packages: []string{
			"gnome-core",
			"gnome-tweaks",
			"network-manager-gnome",
			"firefox-esr",
		},
	}

	MultimediaSet = PackageSet{
		Name: "multimedia",
		Packages: []string{
			"vlc",
			"ffmpeg",
			"gstreamer1.0-plugins-good",
			"gstreamer1.0-plugins-bad",
			"gstreamer1.0-plugins-ugly",
			"gstreamer1.0-libav",
			"libavcodec-extra",
		},
	}

	GraphicsSet = PackageSet{
		Name: "graphics",
		Packages: []string{
			"gimp",
			"inkscape",
			"imagemagick",
		},
	}

	FontsSet = PackageSet{
		Name: "fonts",
		Packages: []string{
			"fonts-liberation",
			"fonts-dejavu",
			"fonts-noto",
			"fonts-noto-color-emoji",
			"fonts-cantarell",
		},
	}

	UtilitiesSet = PackageSet{
		Name: "utilities",
		Packages: []string{
			"curl",
			"wget",
			"rsync",
			"htop",
			"zip",
			"unzip",
			"p7zip-full",
			"ca-certificates",
			"bash-completion",
		},
	}

	// Driver sets selected by the GPU vendor branch. The nvidia set needs
	// contrib/non-free components in the sources list; amdgpu ships in the
	// kernel so the amd set only adds firmware and the Mesa user space.
	NvidiaDriverSet = PackageSet{
		Name: "nvidia-drivers",
		Packages: []string{
			"nvidia-driver",
			"nvidia-settings",
			"firmware-misc-nonfree",
		},
	}

	AmdGraphicsSet = PackageSet{
		Name: "amd-graphics",
		Packages: []string{
			"firmware-amd-graphics",
			"mesa-vulkan-drivers",
			"mesa-utils",
		},
	}

	MesaGraphicsSet = PackageSet{
		Name: "mesa-graphics",
		Packages: []string{
			"mesa-vulkan-drivers",
			"mesa-utils",
		},
	}

	ThemeSet = PackageSet{
		Name: "theme",
		Packages: []string{
			"arc-theme",
			"papirus-icon-theme",
		},
	}

	GrubThemeSet = PackageSet{
		Name: "grub-theme",
		Packages: []string{
			"desktop-base",
		},
	}
)

// BaseProvisioningSets returns the sets every workstation gets, in install
// order. GPU, theme and bootloader sets are selected by their own steps.
func BaseProvisioningSets() []PackageSet {
	return []PackageSet{
		UtilitiesSet,
		DesktopSet,
		MultimediaSet,
		GraphicsSet,
		FontsSet,
	}
}
