// SPDX-License-Identifier: Apache-2.0

package apt

import (
	"bytes"
	"context"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/joomcode/errorx"
	"github.com/rs/zerolog"

	"github.com/deskstrap/deskstrap/pkg/fsx"
)

const (
	// DefaultPreferencesPath is where APT reads pin priorities from.
	DefaultPreferencesPath = "/etc/apt/preferences"

	// DefaultLockTimeout bounds how long a load or store waits for the file
	// lock before giving up.
	DefaultLockTimeout = 30 * time.Second

	lockRetryInterval = time.Second

	preferencesFileMode = 0o644
	maxPreferencesSize  = 1 << 20
)

// PreferencesStore performs locked load-mutate-write cycles against one APT
// preferences file. Writers hold an exclusive flock for the whole cycle and
// replace the file atomically, so no reader ever observes a half-written
// file and concurrent invocations serialize instead of clobbering each
// other.
type PreferencesStore struct {
	path        string
	lockTimeout time.Duration
	fs          fsx.Manager
	log         zerolog.Logger
}

type StoreOption func(*PreferencesStore)

// WithLockTimeout overrides the file-lock acquisition timeout.
func WithLockTimeout(d time.Duration) StoreOption {
	return func(s *PreferencesStore) {
		s.lockTimeout = d
	}
}

// WithStoreLogger attaches a logger to the store.
func WithStoreLogger(log zerolog.Logger) StoreOption {
	return func(s *PreferencesStore) {
		s.log = log
	}
}

// WithFileManager overrides the filesystem manager, primarily for tests.
func WithFileManager(fs fsx.Manager) StoreOption {
	return func(s *PreferencesStore) {
		s.fs = fs
	}
}

// NewPreferencesStore returns a store for the preferences file at path.
func NewPreferencesStore(path string, opts ...StoreOption) (*PreferencesStore, error) {
	s := &PreferencesStore{
		path:        path,
		lockTimeout: DefaultLockTimeout,
		log:         zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.fs == nil {
		fs, err := fsx.NewManager()
		if err != nil {
			return nil, err
		}
		s.fs = fs
	}

	return s, nil
}

// Path returns the preferences file path the store operates on.
func (s *PreferencesStore) Path() string {
	return s.path
}

// Exists reports whether the preferences file is present.
func (s *PreferencesStore) Exists() bool {
	return s.fs.IsRegularFile(s.path)
}

// Load parses the current preferences file under a shared lock.
func (s *PreferencesStore) Load(ctx context.Context) (*Preferences, error) {
	unlock, err := s.acquireLock(ctx, false)
	if err != nil {
		return nil, err
	}
	defer unlock()

	return s.loadLocked()
}

// Store validates and writes the given preference set under an exclusive
// lock, replacing the file atomically.
func (s *PreferencesStore) Store(ctx context.Context, prefs *Preferences) error {
	unlock, err := s.acquireLock(ctx, true)
	if err != nil {
		return err
	}
	defer unlock()

	return s.storeLocked(prefs)
}

// Update runs one locked load-mutate-write cycle: parse the file, apply
// mutate to the parsed set, validate and write the result. The write is
// skipped when the rendered output is byte-identical to the current file.
// It reports whether the file content changed.
func (s *PreferencesStore) Update(ctx context.Context, mutate func(*Preferences) error) (bool, error) {
	unlock, err := s.acquireLock(ctx, true)
	if err != nil {
		return false, err
	}
	defer unlock()

	before, err := s.fs.ReadFile(s.path, maxPreferencesSize)
	if err != nil {
		if errorx.IsOfType(err, fsx.FileNotFound) {
			return false, PreferencesNotFoundError.Wrap(err, "preferences file %q does not exist, run pin setup first", s.path)
		}
		return false, err
	}

	prefs, err := ParsePreferences(bytes.NewReader(before))
	if err != nil {
		return false, err
	}

	if err := mutate(prefs); err != nil {
		return false, err
	}

	if err := prefs.Validate(); err != nil {
		return false, err
	}

	after := prefs.Render()
	if bytes.Equal(before, after) {
		s.log.Debug().Str("path", s.path).Msg("Preferences unchanged, skipping write")
		return false, nil
	}

	if err := s.fs.ReplaceFile(s.path, after, preferencesFileMode); err != nil {
		return false, err
	}

	s.log.Info().Str("path", s.path).Int("stanzas", len(prefs.Stanzas)).Msg("Preferences file rewritten")
	return true, nil
}

func (s *PreferencesStore) loadLocked() (*Preferences, error) {
	payload, err := s.fs.ReadFile(s.path, maxPreferencesSize)
	if err != nil {
		if errorx.IsOfType(err, fsx.FileNotFound) {
			return nil, PreferencesNotFoundError.Wrap(err, "preferences file %q does not exist, run pin setup first", s.path)
		}
		return nil, err
	}

	return ParsePreferences(bytes.NewReader(payload))
}

func (s *PreferencesStore) storeLocked(prefs *Preferences) error {
	if err := prefs.Validate(); err != nil {
		return err
	}

	if err := s.fs.ReplaceFile(s.path, prefs.Render(), preferencesFileMode); err != nil {
		return err
	}

	s.log.Info().Str("path", s.path).Int("stanzas", len(prefs.Stanzas)).Msg("Preferences file written")
	return nil
}

// acquireLock takes the advisory lock guarding the preferences file. The
// lock file lives next to the preferences file so every writer on the host
// contends on the same path.
func (s *PreferencesStore) acquireLock(ctx context.Context, exclusive bool) (func(), error) {
	lockPath := s.lockPath()
	fileLock := flock.New(lockPath)

	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	var (
		locked bool
		err    error
	)
	if exclusive {
		locked, err = fileLock.TryLockContext(lockCtx, lockRetryInterval)
	} else {
		locked, err = fileLock.TryRLockContext(lockCtx, lockRetryInterval)
	}

	if err != nil {
		return nil, LockTimeoutError.Wrap(err, "failed to acquire lock for preferences file %q", s.path)
	}
	if !locked {
		return nil, LockTimeoutError.New("timed out acquiring lock for preferences file %q", s.path)
	}

	unlock := func() {
		if e := fileLock.Unlock(); e != nil {
			s.log.Warn().Err(e).Str("lockPath", lockPath).Msg("failed to unlock preferences file lock")
		}
	}

	return unlock, nil
}

func (s *PreferencesStore) lockPath() string {
	ext := filepath.Ext(s.path)
	if len(ext) > 0 && len(ext) < len(s.path) {
		return s.path[:len(s.path)-len(ext)] + ".lock"
	}

	return s.path + ".lock"
}
