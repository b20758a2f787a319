// SPDX-License-Identifier: Apache-2.0

package templates

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCopyAndRemoveTemplateFiles(t *testing.T) {
	dir := t.TempDir()

	copied, err := CopyTemplateFiles("files/theme", dir)
	require.NoError(t, err)
	require.Len(t, copied, 3)

	for _, f := range copied {
		_, err := os.Stat(f)
		require.NoError(t, err)
	}

	removed, err := RemoveTemplateFiles("files/theme", dir)
	require.NoError(t, err)
	require.ElementsMatch(t, copied, removed)

	_, err = os.Stat(filepath.Join(dir, "settings.ini"))
	require.True(t, os.IsNotExist(err))
}

func TestCopyTemplateFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	err := CopyTemplateFile("files/missing.conf", filepath.Join(dir, "missing.conf"))
	require.Error(t, err)
}
