// SPDX-License-Identifier: Apache-2.0

package core

import "path"

// DeskstrapPaths describes the on-disk layout of the deskstrap home
// directory. Steps receive an explicit instance instead of computing
// locations themselves so tests can redirect everything under a temp root.
type DeskstrapPaths struct {
	HomeDir        string `yaml:"homeDir" json:"homeDir"`
	BinDir         string `yaml:"binDir" json:"binDir"`
	LogsDir        string `yaml:"logsDir" json:"logsDir"`
	TempDir        string `yaml:"tempDir" json:"tempDir"`
	BackupDir      string `yaml:"backupDir" json:"backupDir"`
	StateDir       string `yaml:"stateDir" json:"stateDir"`
	DiagnosticsDir string `yaml:"diagnosticsDir" json:"diagnosticsDir"`

	// AllDirectories lists every directory above in creation order.
	AllDirectories []string `yaml:"-" json:"-"`
}

var globalPaths = NewDeskstrapPaths(DeskstrapHomeDir)

// NewDeskstrapPaths builds the directory layout rooted at home.
func NewDeskstrapPaths(home string) *DeskstrapPaths {
	p := &DeskstrapPaths{
		HomeDir:        home,
		BinDir:         path.Join(home, "bin"),
		LogsDir:        path.Join(home, "logs"),
		TempDir:        path.Join(home, "temp"),
		BackupDir:      path.Join(home, "backups"),
		StateDir:       path.Join(home, "state"),
		DiagnosticsDir: path.Join(home, "diagnostics"),
	}

	p.AllDirectories = []string{
		p.HomeDir,
		p.BinDir,
		p.LogsDir,
		p.TempDir,
		p.BackupDir,
		p.StateDir,
		p.DiagnosticsDir,
	}

	return p
}

// Paths returns the active directory layout.
func Paths() *DeskstrapPaths {
	return globalPaths
}

// SetPaths replaces the active layout. It is intended for tests that
// need to sandbox the tool under a temporary home.
func SetPaths(p *DeskstrapPaths) {
	if p != nil {
		globalPaths = p
	}
}

// Clone returns a deep copy so callers cannot mutate the active layout.
func (p *DeskstrapPaths) Clone() *DeskstrapPaths {
	if p == nil {
		return nil
	}

	c := *p
	c.AllDirectories = make([]string, len(p.AllDirectories))
	copy(c.AllDirectories, p.AllDirectories)

	return &c
}
