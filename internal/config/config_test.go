// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitializeWithMissingFile(t *testing.T) {
	err := Initialize("/nonexistent/config.yaml")
	require.Error(t, err)
}

func TestInitializeWithEmptyPathKeepsDefaults(t *testing.T) {
	require.NoError(t, Initialize(""))

	cfg := Get()
	require.Equal(t, "http://deb.debian.org/debian", cfg.Apt.Mirror)
	require.Equal(t, "/etc/apt/preferences", cfg.Apt.PreferencesPath)
	require.Equal(t, "0 7 * * 1", cfg.Refresh.Schedule)
	require.Equal(t, GpuVendorAuto, cfg.Gpu.Vendor)
	require.True(t, cfg.Theme.ApplyToExistingUsers)
}

func TestInitializeReadsYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	payload := []byte(`
apt:
  mirror: "https://mirror.example.debian.org/debian"
  queryTimeoutSeconds: 15
theme:
  gtkTheme: "Adwaita"
refresh:
  schedule: "30 6 * * 0"
`)
	require.NoError(t, os.WriteFile(path, payload, 0o644))

	require.NoError(t, Initialize(path))

	cfg := Get()
	require.Equal(t, "https://mirror.example.debian.org/debian", cfg.Apt.Mirror)
	require.Equal(t, 15, cfg.Apt.QueryTimeoutSeconds)
	require.Equal(t, "Adwaita", cfg.Theme.GtkTheme)
	require.Equal(t, "30 6 * * 0", cfg.Refresh.Schedule)
}

func TestInitializeRejectsInvalidSchedule(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("refresh:\n  schedule: \"not a cron line\"\n"), 0o644))

	err := Initialize(path)
	require.Error(t, err)
}
