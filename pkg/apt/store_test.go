// SPDX-License-Identifier: Apache-2.0

package apt

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/joomcode/errorx"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, opts ...StoreOption) (*PreferencesStore, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "preferences")
	store, err := NewPreferencesStore(path, opts...)
	require.NoError(t, err)

	return store, path
}

func TestPreferencesStore_StoreLoadRoundTrip(t *testing.T) {
	req := require.New(t)

	store, path := testStore(t)
	ctx := context.Background()

	req.False(store.Exists())

	original := defaultTestPreferences()
	req.NoError(store.Store(ctx, original))
	req.True(store.Exists())

	loaded, err := store.Load(ctx)
	req.NoError(err)
	req.Equal(original.Stanzas, loaded.Stanzas)

	payload, err := os.ReadFile(path)
	req.NoError(err)
	req.Equal(defaultRendered, string(payload))
}

func TestPreferencesStore_LoadMissingFile(t *testing.T) {
	req := require.New(t)

	store, _ := testStore(t)

	_, err := store.Load(context.Background())
	req.Error(err)
	req.True(errorx.IsOfType(err, PreferencesNotFoundError))
}

func TestPreferencesStore_StoreRejectsInvalidSet(t *testing.T) {
	req := require.New(t)

	store, path := testStore(t)

	prefs := NewPreferences(DefaultChannels(), nil)
	prefs.Stanzas = append(prefs.Stanzas, Stanza{Package: "gnome-shell", Pin: "version 46*", Priority: 100})

	err := store.Store(context.Background(), prefs)
	req.Error(err)
	req.True(errorx.IsOfType(err, PriorityInvariantError))

	_, err = os.Stat(path)
	req.True(os.IsNotExist(err))
}

func TestPreferencesStore_UpdateRewritesLocks(t *testing.T) {
	req := require.New(t)

	store, _ := testStore(t)
	ctx := context.Background()

	req.NoError(store.Store(ctx, defaultTestPreferences()))

	changed, err := store.Update(ctx, func(p *Preferences) error {
		if _, err := p.SetVersionLock("linux-image-*", "6.11"); err != nil {
			return err
		}
		_, err := p.SetVersionLock("gnome-shell", "47")
		return err
	})
	req.NoError(err)
	req.True(changed)

	loaded, err := store.Load(ctx)
	req.NoError(err)

	kernel, found := loaded.FindVersionLock("linux-image-*")
	req.True(found)
	req.Equal("version 6.11*", kernel.Pin)

	shell, found := loaded.FindVersionLock("gnome-shell")
	req.True(found)
	req.Equal("version 47*", shell.Pin)
}

func TestPreferencesStore_UpdateIsIdempotent(t *testing.T) {
	req := require.New(t)

	store, path := testStore(t)
	ctx := context.Background()

	req.NoError(store.Store(ctx, defaultTestPreferences()))

	refresh := func(p *Preferences) error {
		if _, err := p.SetVersionLock("linux-image-*", "6.10"); err != nil {
			return err
		}
		_, err := p.SetVersionLock("gnome-shell", "46")
		return err
	}

	changed, err := store.Update(ctx, refresh)
	req.NoError(err)
	req.False(changed)

	first, err := os.ReadFile(path)
	req.NoError(err)

	changed, err = store.Update(ctx, refresh)
	req.NoError(err)
	req.False(changed)

	second, err := os.ReadFile(path)
	req.NoError(err)
	req.Equal(first, second)
}

func TestPreferencesStore_UpdateAbortsWithoutPartialWrite(t *testing.T) {
	req := require.New(t)

	store, path := testStore(t)
	ctx := context.Background()

	req.NoError(store.Store(ctx, defaultTestPreferences()))
	before, err := os.ReadFile(path)
	req.NoError(err)

	// The kernel lock mutation succeeds in memory, then the shell lookup
	// fails; the file must stay exactly as it was before the cycle.
	_, err = store.Update(ctx, func(p *Preferences) error {
		if _, err := p.SetVersionLock("linux-image-*", "6.99"); err != nil {
			return err
		}
		return NoCandidateError.New("package %q has no candidate version in the package index", "gnome-shell")
	})
	req.Error(err)
	req.True(errorx.IsOfType(err, NoCandidateError))

	after, err := os.ReadFile(path)
	req.NoError(err)
	req.Equal(before, after)
}

func TestPreferencesStore_UpdateTimesOutWhenLocked(t *testing.T) {
	req := require.New(t)

	store, path := testStore(t, WithLockTimeout(100*time.Millisecond))
	ctx := context.Background()

	req.NoError(store.Store(ctx, defaultTestPreferences()))

	// Hold the exclusive lock on a separate descriptor so the update below
	// cannot acquire it.
	holder := flock.New(path + ".lock")
	locked, err := holder.TryLock()
	req.NoError(err)
	req.True(locked)
	defer func() {
		req.NoError(holder.Unlock())
	}()

	_, err = store.Update(ctx, func(p *Preferences) error { return nil })
	req.Error(err)
	req.True(errorx.IsOfType(err, LockTimeoutError))
}
