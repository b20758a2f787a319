// SPDX-License-Identifier: Apache-2.0

package software

import (
	"github.com/joomcode/errorx"
)

var (
	ErrorsNamespace      = errorx.NewNamespace("software")
	InstallationError    = ErrorsNamespace.NewType("installation_error")
	UninstallationError  = ErrorsNamespace.NewType("uninstallation_error")
	PackageInfoError     = ErrorsNamespace.NewType("package_info_error")
	ProgramNotFoundError = ErrorsNamespace.NewType("program_not_found", errorx.NotFound())
	VersionProbeError    = ErrorsNamespace.NewType("version_probe_error")

	packageNameProperty = errorx.RegisterPrintableProperty("package_name")
	programNameProperty = errorx.RegisterPrintableProperty("program_name")
	programPathProperty = errorx.RegisterPrintableProperty("program_path")
)

const (
	installationErrorMsg    = "failed to install package '%s'"
	uninstallationErrorMsg  = "failed to uninstall package '%s'"
	packageInfoErrorMsg     = "failed to read state of package '%s'"
	programNotFoundErrorMsg = "program '%s' was not found on this host"
	versionProbeErrorMsg    = "failed to read version of program at '%s'"
)

func NewInstallationError(cause error, packageName string) *errorx.Error {
	err := InstallationError.New(installationErrorMsg, packageName).
		WithProperty(packageNameProperty, packageName)

	if cause != nil {
		err = err.WithUnderlyingErrors(cause)
	}

	return err
}

func NewUninstallationError(cause error, packageName string) *errorx.Error {
	err := UninstallationError.New(uninstallationErrorMsg, packageName).
		WithProperty(packageNameProperty, packageName)

	if cause != nil {
		err = err.WithUnderlyingErrors(cause)
	}

	return err
}

func NewPackageInfoError(cause error, packageName string) *errorx.Error {
	err := PackageInfoError.New(packageInfoErrorMsg, packageName).
		WithProperty(packageNameProperty, packageName)

	if cause != nil {
		err = err.WithUnderlyingErrors(cause)
	}

	return err
}

func NewProgramNotFoundError(cause error, programName string) *errorx.Error {
	err := ProgramNotFoundError.New(programNotFoundErrorMsg, programName).
		WithProperty(programNameProperty, programName)

	if cause != nil {
		err = err.WithUnderlyingErrors(cause)
	}

	return err
}

func NewVersionProbeError(cause error, programPath string) *errorx.Error {
	err := VersionProbeError.New(versionProbeErrorMsg, programPath).
		WithProperty(programPathProperty, programPath)

	if cause != nil {
		err = err.WithUnderlyingErrors(cause)
	}

	return err
}
