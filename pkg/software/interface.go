// SPDX-License-Identifier: Apache-2.0

package software

import (
	"context"
	"os"

	"github.com/bluet/syspkg"
)

// Package manages one system package through the host package manager.
type Package interface {
	Name() string
	Install() (*syspkg.PackageInfo, error)
	Uninstall() (*syspkg.PackageInfo, error)
	Upgrade() (*syspkg.PackageInfo, error)
	Info() (*syspkg.PackageInfo, error)
	IsInstalled() bool
}

// ProgramInfo describes an executable located on the host.
type ProgramInfo interface {
	GetPath() string
	GetVersion() string
	GetHash() string
	GetFileMode() os.FileMode
	IsExecAll() bool
	IsExecAny() bool
	IsExecOwner() bool
	IsExecGroup() bool
}

// VersionQuery describes how to ask a program for its version: the arguments
// to pass and a regular expression whose first match in the output is taken
// as the version string.
type VersionQuery struct {
	Args    []string
	Pattern string
}

// ProgramDetector locates executables on the host and reads their versions.
// The check command uses it to report the state of the tools provisioning
// depends on.
type ProgramDetector interface {
	DetectExecutablePath(name string) (string, error)
	DetectProgramVersion(path string, query VersionQuery) (string, error)
	GetProgramInfo(ctx context.Context, name string, defaultLocation string, query VersionQuery) (ProgramInfo, error)
}
