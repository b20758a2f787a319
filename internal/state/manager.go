// SPDX-License-Identifier: Apache-2.0

package state

import (
	"fmt"
	"path"

	"github.com/joomcode/errorx"

	"github.com/deskstrap/deskstrap/internal/core"
	"github.com/deskstrap/deskstrap/pkg/fsx"
)

// Type represents the type of state being managed
type Type string

const (
	// TypeInstalled indicates software installation state
	TypeInstalled Type = "installed"
	// TypeConfigured indicates system configuration state
	TypeConfigured Type = "configured"
)

// Manager handles state persistence for provisioning steps so that repeated
// runs can skip work that already completed.
type Manager struct {
	fileManager fsx.Manager
}

// NewManager creates a new state manager
func NewManager(fileManager fsx.Manager) *Manager {
	return &Manager{
		fileManager: fileManager,
	}
}

// getStatePath returns the path to the state file for a given component and state type
func (m *Manager) getStatePath(component string, stateType Type) string {
	return path.Join(core.Paths().StateDir, fmt.Sprintf("%s.%s", component, stateType))
}

// Exists checks if the state file exists for the given component and state type
func (m *Manager) Exists(component string, stateType Type) (bool, error) {
	statePath := m.getStatePath(component, stateType)
	_, exists, err := m.fileManager.PathExists(statePath)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// RecordState creates a state file for the given component and state type
func (m *Manager) RecordState(component string, stateType Type, version string) error {
	// Ensure state directory exists
	stateDir := core.Paths().StateDir
	if err := m.fileManager.CreateDirectory(stateDir, true); err != nil {
		return errorx.IllegalState.Wrap(err, "failed to create state directory")
	}

	statePath := m.getStatePath(component, stateType)
	content := []byte(fmt.Sprintf("%s at version %s\n", stateType, version))

	err := m.fileManager.WriteFile(statePath, content, core.DefaultFilePerm)
	if err != nil {
		return errorx.IllegalState.Wrap(err, "failed to create state file for type %s", stateType)
	}

	return nil
}

// RemoveState removes the state file for the given component and state type
func (m *Manager) RemoveState(component string, stateType Type) error {
	statePath := m.getStatePath(component, stateType)
	return m.fileManager.RemoveAll(statePath)
}
