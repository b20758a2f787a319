// SPDX-License-Identifier: Apache-2.0

package state

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deskstrap/deskstrap/internal/core"
)

func withTempStateDir(t *testing.T) {
	t.Helper()

	orig := core.Paths().Clone()
	t.Cleanup(func() { core.SetPaths(orig) })

	p := core.NewDeskstrapPaths(t.TempDir())
	core.SetPaths(p)
}

func TestLoadPinsStateMissingRecord(t *testing.T) {
	withTempStateDir(t)

	ps, err := LoadPinsState()
	require.NoError(t, err)
	require.Empty(t, ps.Locks)
	require.Equal(t, 1, ps.SchemaVersion)
}

func TestSaveAndLoadPinsState(t *testing.T) {
	withTempStateDir(t)

	err := SavePinsState(&PinsState{
		Locks: map[string]string{
			"kernel":        "6.10",
			"desktop-shell": "48",
		},
	})
	require.NoError(t, err)

	ps, err := LoadPinsState()
	require.NoError(t, err)
	require.Equal(t, "6.10", ps.Locks["kernel"])
	require.Equal(t, "48", ps.Locks["desktop-shell"])
	require.False(t, ps.UpdatedAt.IsZero())
}

func TestRecordLockVersion(t *testing.T) {
	withTempStateDir(t)

	// creates the record when absent
	require.NoError(t, RecordLockVersion("kernel", "6.10"))

	// merges into the existing record without dropping other locks
	require.NoError(t, RecordLockVersion("desktop-shell", "48"))
	require.NoError(t, RecordLockVersion("kernel", "6.11"))

	ps, err := LoadPinsState()
	require.NoError(t, err)
	require.Equal(t, "6.11", ps.Locks["kernel"])
	require.Equal(t, "48", ps.Locks["desktop-shell"])
}
