// SPDX-License-Identifier: Apache-2.0

package state

import (
	"bytes"
	"os"
	"path"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joomcode/errorx"

	"github.com/deskstrap/deskstrap/internal/core"
	"github.com/deskstrap/deskstrap/internal/tomlx"
)

// pinsStateSchemaVersion tracks the on-disk layout of the pins state record.
const pinsStateSchemaVersion = 1

// pinsStateFile is the record of the most recent pin maintenance run. It is
// informational: the preferences file itself remains the source of truth.
const pinsStateFile = "pins.toml"

// PinsState records the outcome of the most recent pin maintenance run.
type PinsState struct {
	SchemaVersion int               `toml:"schemaVersion"`
	UpdatedAt     time.Time         `toml:"updatedAt"`
	Locks         map[string]string `toml:"locks"`
}

// PinsStatePath returns the location of the pins state record.
func PinsStatePath() string {
	return path.Join(core.Paths().StateDir, pinsStateFile)
}

// LoadPinsState reads the pins state record. A missing record is not an
// error; it returns a zero-valued state so callers can treat the first run
// uniformly.
func LoadPinsState() (*PinsState, error) {
	var ps PinsState

	data, err := os.ReadFile(PinsStatePath())
	if err != nil {
		if os.IsNotExist(err) {
			return &PinsState{SchemaVersion: pinsStateSchemaVersion, Locks: map[string]string{}}, nil
		}
		return nil, errorx.IllegalState.Wrap(err, "failed to read pins state record")
	}

	if err := toml.Unmarshal(data, &ps); err != nil {
		return nil, errorx.IllegalFormat.Wrap(err, "failed to parse pins state record")
	}

	if ps.Locks == nil {
		ps.Locks = map[string]string{}
	}

	return &ps, nil
}

// SavePinsState writes the pins state record, stamping the schema version and
// update time.
func SavePinsState(ps *PinsState) error {
	ps.SchemaVersion = pinsStateSchemaVersion
	ps.UpdatedAt = time.Now().UTC()

	if err := os.MkdirAll(core.Paths().StateDir, core.DefaultDirOrExecPerm); err != nil {
		return errorx.IllegalState.Wrap(err, "failed to create state directory")
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(ps); err != nil {
		return errorx.IllegalState.Wrap(err, "failed to encode pins state record")
	}

	if err := os.WriteFile(PinsStatePath(), buf.Bytes(), core.DefaultFilePerm); err != nil {
		return errorx.IllegalState.Wrap(err, "failed to write pins state record")
	}

	return nil
}

// RecordLockVersion updates a single lock entry in the pins state record
// without rewriting the rest of the file. The record is created when absent.
func RecordLockVersion(group string, version string) error {
	if _, err := os.Stat(PinsStatePath()); os.IsNotExist(err) {
		return SavePinsState(&PinsState{Locks: map[string]string{group: version}})
	}

	tcm := tomlx.NewTomlConfigManager()
	updates := map[string]interface{}{
		"updatedAt": time.Now().UTC(),
		"locks": map[string]interface{}{
			group: version,
		},
	}

	if err := tcm.UpdateTomlFile(PinsStatePath(), updates); err != nil {
		return errorx.IllegalState.Wrap(err, "failed to update pins state record")
	}

	return nil
}
