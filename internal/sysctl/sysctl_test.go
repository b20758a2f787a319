// SPDX-License-Identifier: Apache-2.0

package sysctl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPathFromKey(t *testing.T) {
	p, err := PathFromKey("vm.swappiness")
	require.NoError(t, err)
	require.Equal(t, "/proc/sys/vm/swappiness", p)

	p, err = PathFromKey("fs.inotify.max_user_watches")
	require.NoError(t, err)
	require.Equal(t, "/proc/sys/fs/inotify/max_user_watches", p)

	_, err = PathFromKey("")
	require.Error(t, err)

	// leading dash (sysctl's ignore-errors marker) is stripped
	p, err = PathFromKey("-kernel.sysrq")
	require.NoError(t, err)
	require.Equal(t, "/proc/sys/kernel/sysrq", p)
}

func TestFindSysctlConfigFiles(t *testing.T) {
	dir := t.TempDir()

	origDir := sysctlConfigDestinationDir
	sysctlConfigDestinationDir = dir
	defer func() { sysctlConfigDestinationDir = origDir }()

	// empty directory yields no config files
	files, err := FindSysctlConfigFiles()
	require.NoError(t, err)
	require.Empty(t, files)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "99-desktop.conf"), []byte("vm.swappiness = 10\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "10-other.conf"), []byte("kernel.sysrq = 1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("not a config\n"), 0o644))

	files, err = FindSysctlConfigFiles()
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "10-other.conf"),
		filepath.Join(dir, "99-desktop.conf"),
	}, files)
}

func TestRestoreSettingsMissingBackup(t *testing.T) {
	err := RestoreSettings(filepath.Join(t.TempDir(), "missing.conf"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestCopyAndDeleteConfiguration(t *testing.T) {
	dir := t.TempDir()

	origDir := sysctlConfigDestinationDir
	sysctlConfigDestinationDir = dir
	defer func() { sysctlConfigDestinationDir = origDir }()

	files, err := CopyConfiguration()
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, filepath.Join(dir, "99-deskstrap-desktop.conf"), files[0])

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	require.Contains(t, string(data), "vm.swappiness = 10")

	removed, err := DeleteConfiguration()
	require.NoError(t, err)
	require.Equal(t, files, removed)
}
