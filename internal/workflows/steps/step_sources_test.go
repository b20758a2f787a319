// SPDX-License-Identifier: Apache-2.0

package steps

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/automa-saga/automa"
	"github.com/stretchr/testify/require"

	"github.com/deskstrap/deskstrap/pkg/apt"
)

func TestRewriteAptSources_WritesRenderedSources(t *testing.T) {
	withTempPaths(t)
	sourcesPath := filepath.Join(t.TempDir(), "sources.list")

	step, err := RewriteAptSources(sourcesPath, apt.DefaultMirrorURL, apt.DefaultSecurityMirrorURL).Build()
	require.NoError(t, err)

	report := step.Execute(context.Background())
	require.NoError(t, report.Error)
	require.Equal(t, automa.StatusSuccess, report.Status)

	data, err := os.ReadFile(sourcesPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "deb http://deb.debian.org/debian testing")
	require.Contains(t, string(data), "non-free-firmware")
}

func TestRewriteAptSources_BacksUpExistingFile(t *testing.T) {
	dp := withTempPaths(t)

	sourcesPath := filepath.Join(t.TempDir(), "sources.list")
	require.NoError(t, os.WriteFile(sourcesPath, []byte("deb http://deb.debian.org/debian stable main\n"), 0o644))

	step, err := RewriteAptSources(sourcesPath, apt.DefaultMirrorURL, apt.DefaultSecurityMirrorURL).Build()
	require.NoError(t, err)

	report := step.Execute(context.Background())
	require.NoError(t, report.Error)

	entries, err := os.ReadDir(dp.BackupDir)
	require.NoError(t, err)
	require.NotEmpty(t, entries, "previous sources list should be backed up")
}

func TestRewriteAptSources_RejectsNonDebianMirror(t *testing.T) {
	withTempPaths(t)
	sourcesPath := filepath.Join(t.TempDir(), "sources.list")

	step, err := RewriteAptSources(sourcesPath, "http://evil.example.com/debian", apt.DefaultSecurityMirrorURL).Build()
	require.NoError(t, err)

	report := step.Execute(context.Background())
	require.Error(t, report.Error)

	_, statErr := os.Stat(sourcesPath)
	require.True(t, os.IsNotExist(statErr), "no sources list should be written for an invalid mirror")
}
