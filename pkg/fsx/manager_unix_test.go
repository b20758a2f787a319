// SPDX-License-Identifier: Apache-2.0

//go:build !windows

package fsx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joomcode/errorx"
	"github.com/stretchr/testify/require"
)

func TestManager_CreateDirectory(t *testing.T) {
	mg, err := NewManager()
	require.NoError(t, err)

	tmp := t.TempDir()

	// nested creation requires the recursive flag
	nested := filepath.Join(tmp, "a", "b", "c")
	err = mg.CreateDirectory(nested, false)
	require.Error(t, err)
	require.True(t, errorx.IsOfType(err, FileNotFound))

	err = mg.CreateDirectory(nested, true)
	require.NoError(t, err)
	require.True(t, mg.IsDirectory(nested))

	// creating an existing directory is a no-op
	err = mg.CreateDirectory(nested, false)
	require.NoError(t, err)
}

func TestManager_WriteAndReadFile(t *testing.T) {
	mg, err := NewManager()
	require.NoError(t, err)

	tmp := t.TempDir()
	target := filepath.Join(tmp, "payload.txt")

	err = mg.WriteFile(target, []byte("hello"), 0644)
	require.NoError(t, err)

	data, err := mg.ReadFile(target, -1)
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), data)

	perms, err := mg.ReadPermissions(target)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0644), perms)

	// max file size is enforced
	_, err = mg.ReadFile(target, 2)
	require.Error(t, err)
}

func TestManager_ReplaceFile(t *testing.T) {
	mg, err := NewManager()
	require.NoError(t, err)

	tmp := t.TempDir()
	target := filepath.Join(tmp, "config")

	// replace works when the target does not exist yet
	err = mg.ReplaceFile(target, []byte("first"), 0644)
	require.NoError(t, err)

	data, err := mg.ReadFile(target, -1)
	require.NoError(t, err)
	require.Equal(t, []byte("first"), data)

	// and when it does
	err = mg.ReplaceFile(target, []byte("second"), 0644)
	require.NoError(t, err)

	data, err = mg.ReadFile(target, -1)
	require.NoError(t, err)
	require.Equal(t, []byte("second"), data)

	// no temp file debris is left behind
	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	// missing parent directory fails cleanly
	err = mg.ReplaceFile(filepath.Join(tmp, "no-such-dir", "config"), []byte("x"), 0644)
	require.Error(t, err)
	require.True(t, errorx.IsOfType(err, FileNotFound))
}

func TestManager_BackupFile(t *testing.T) {
	mg, err := NewManager()
	require.NoError(t, err)

	tmp := t.TempDir()
	src := filepath.Join(tmp, "sources.list")
	backupDir := filepath.Join(tmp, "backups")

	err = mg.WriteFile(src, []byte("deb http://deb.debian.org/debian testing main\n"), 0644)
	require.NoError(t, err)

	backupPath, err := mg.BackupFile(src, backupDir)
	require.NoError(t, err)
	require.True(t, mg.IsRegularFile(backupPath))

	data, err := mg.ReadFile(backupPath, -1)
	require.NoError(t, err)
	require.Contains(t, string(data), "deb.debian.org")

	// the original is untouched
	require.True(t, mg.IsRegularFile(src))

	// backing up a missing file fails
	_, err = mg.BackupFile(filepath.Join(tmp, "missing"), backupDir)
	require.Error(t, err)
	require.True(t, errorx.IsOfType(err, FileNotFound))
}

func TestManager_CopyFile(t *testing.T) {
	mg, err := NewManager()
	require.NoError(t, err)

	tmp := t.TempDir()
	src := filepath.Join(tmp, "src.txt")
	dst := filepath.Join(tmp, "dst.txt")

	err = mg.WriteFile(src, []byte("content"), 0644)
	require.NoError(t, err)

	err = mg.CopyFile(src, dst, false)
	require.NoError(t, err)

	// overwrite disabled
	err = mg.CopyFile(src, dst, false)
	require.Error(t, err)
	require.True(t, errorx.IsOfType(err, FileAlreadyExists))

	// overwrite enabled
	err = mg.CopyFile(src, dst, true)
	require.NoError(t, err)

	// copying into a directory keeps the source name
	subDir := filepath.Join(tmp, "sub")
	require.NoError(t, mg.CreateDirectory(subDir, false))
	err = mg.CopyFile(src, subDir, false)
	require.NoError(t, err)
	require.True(t, mg.IsRegularFile(filepath.Join(subDir, "src.txt")))
}

func TestManager_CreateSymbolicLink(t *testing.T) {
	mg, err := NewManager()
	require.NoError(t, err)

	tmp := t.TempDir()
	src := filepath.Join(tmp, "bin")
	link := filepath.Join(tmp, "link")

	err = mg.WriteFile(src, []byte("#!/bin/sh\n"), 0755)
	require.NoError(t, err)

	err = mg.CreateSymbolicLink(src, link, false)
	require.NoError(t, err)
	require.True(t, mg.IsSymbolicLink(link))

	err = mg.CreateSymbolicLink(src, link, false)
	require.Error(t, err)

	err = mg.CreateSymbolicLink(src, link, true)
	require.NoError(t, err)
}
