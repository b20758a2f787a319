// SPDX-License-Identifier: Apache-2.0

package software

import (
	"sync"

	"github.com/bluet/syspkg"
	"github.com/bluet/syspkg/manager"
	"github.com/bluet/syspkg/manager/apt"
)

var (
	pkgManager syspkg.PackageManager
	once       sync.Once
)

// DefaultInstallOptions returns the non-interactive options every
// provisioning install runs with. Provisioning has no terminal to answer
// prompts on.
func DefaultInstallOptions() manager.Options {
	return manager.Options{DryRun: false, Interactive: false, AssumeYes: true}
}

func GetPackageManager() (syspkg.PackageManager, error) {
	var initErr error
	once.Do(func() {
		includeOptions := syspkg.IncludeOptions{AllAvailable: true}
		sysPackageManager, err := syspkg.New(includeOptions)
		if err != nil {
			initErr = NewInstallationError(err, "package-manager")
			return
		}

		// Let syspkg automatically detect the best available package manager
		pm, err := sysPackageManager.GetPackageManager("") // Empty string returns first available
		if err != nil {
			initErr = NewInstallationError(err, "package-manager")
			return
		}

		pkgManager = pm
	})

	return pkgManager, initErr
}

// RefreshPackageIndex re-synchronizes the local package index, the step the
// pin refresher runs after rewriting the preferences file.
func RefreshPackageIndex() error {
	pm, err := GetPackageManager()
	if err != nil {
		return err
	}

	opts := DefaultInstallOptions()
	return pm.Refresh(&opts)
}

// AutoRemover is an interface for package managers that support removing
// orphaned dependencies.
type AutoRemover interface {
	AutoRemove(opts *manager.Options) ([]manager.PackageInfo, error)
}

// AutoRemove removes orphaned dependencies to free disk space, equivalent to
// `apt autoremove -y` on Debian systems.
func AutoRemove() error {
	pm, err := GetPackageManager()
	if err != nil {
		return err
	}

	autoRemover, ok := pm.(AutoRemover)
	if !ok {
		return NewUninstallationError(nil, "autoremove")
	}

	opts := DefaultInstallOptions()
	if _, err = autoRemover.AutoRemove(&opts); err != nil {
		return NewUninstallationError(err, "autoremove")
	}

	return nil
}

type option func(*PackageInstaller)

// PackageInstaller is the default implementation of the Package interface
// that manages a system package through the host package manager.
type PackageInstaller struct {
	pkgName    string
	pkgOptions manager.Options
	pkgManager syspkg.PackageManager
}

func (p *PackageInstaller) Name() string {
	return p.pkgName
}

func (p *PackageInstaller) Install() (*syspkg.PackageInfo, error) {
	_, err := p.pkgManager.Install([]string{p.pkgName}, &p.pkgOptions)
	if err != nil {
		return nil, NewInstallationError(err, p.pkgName)
	}

	return p.Info()
}

func (p *PackageInstaller) Uninstall() (*syspkg.PackageInfo, error) {
	_, err := p.pkgManager.Delete([]string{p.pkgName}, &p.pkgOptions)
	if err != nil {
		return nil, NewUninstallationError(err, p.pkgName)
	}

	return p.Info()
}

func (p *PackageInstaller) Upgrade() (*syspkg.PackageInfo, error) {
	pm, ok := p.pkgManager.(*apt.PackageManager)
	if !ok {
		return nil, NewInstallationError(nil, p.pkgName)
	}

	_, err := pm.Upgrade([]string{p.pkgName}, &p.pkgOptions)
	if err != nil {
		return nil, NewInstallationError(err, p.pkgName)
	}

	return p.Info()
}

func (p *PackageInstaller) IsInstalled() bool {
	info, err := p.Info()
	if err != nil {
		return false
	}

	return info.Status == manager.PackageStatusInstalled
}

func (p *PackageInstaller) Info() (*syspkg.PackageInfo, error) {
	// Find is more reliable than ListInstalled here: the syspkg apt
	// ListInstalled implementation does not distinguish a removed package
	// whose config files remain.
	resp, err := p.pkgManager.Find([]string{p.pkgName}, &p.pkgOptions)
	if err != nil {
		return nil, NewPackageInfoError(err, p.pkgName)
	}

	for _, pkg := range resp {
		if pkg.Name == p.pkgName {
			return &pkg, nil
		}
	}

	return nil, NewPackageInfoError(nil, p.pkgName)
}

func WithPackageName(name string) func(*PackageInstaller) {
	return func(pb *PackageInstaller) {
		pb.pkgName = name
	}
}

func WithPackageOptions(opts manager.Options) func(*PackageInstaller) {
	return func(pb *PackageInstaller) {
		pb.pkgOptions = opts
	}
}

func WithPackageManager(pm syspkg.PackageManager) func(*PackageInstaller) {
	return func(pb *PackageInstaller) {
		pb.pkgManager = pm
	}
}

func NewPackageInstaller(opts ...option) (*PackageInstaller, error) {
	p := &PackageInstaller{
		pkgOptions: DefaultInstallOptions(),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.pkgManager == nil {
		pm, err := GetPackageManager()
		if err != nil {
			return nil, err
		}
		p.pkgManager = pm
	}

	return p, nil
}
