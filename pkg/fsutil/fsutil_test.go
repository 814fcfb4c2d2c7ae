package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/bladefmt/pkg/fsutil"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "a.blade.php", "@if($a)\n@endif\n")

	content, info, err := fsutil.ReadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "@if($a)\n@endif\n", string(content))
	assert.Equal(t, path, info.Path)
	assert.Equal(t, int64(len(content)), info.Size)
	assert.Equal(t, fsutil.Sum(content), info.Hash)
	assert.Equal(t, os.FileMode(0o600), info.Mode.Perm())
}

func TestReadFile_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, _, err := fsutil.ReadFile(context.Background(), filepath.Join(dir, "missing"))
	require.ErrorIs(t, err, fsutil.ErrNotFound)

	_, _, err = fsutil.ReadFile(context.Background(), dir)
	require.ErrorIs(t, err, fsutil.ErrIsDirectory)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = fsutil.ReadFile(ctx, dir)
	require.ErrorIs(t, err, context.Canceled)
}

func TestReadAll(t *testing.T) {
	t.Parallel()

	got, err := fsutil.ReadAll(context.Background(), strings.NewReader("x\n"))
	require.NoError(t, err)
	assert.Equal(t, "x\n", string(got))
}

func TestCheckModified(t *testing.T) {
	t.Parallel()

	t.Run("unchanged", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, t.TempDir(), "a.blade.php", "one")
		_, info, err := fsutil.ReadFile(context.Background(), path)
		require.NoError(t, err)

		modified, err := fsutil.CheckModified(context.Background(), info)
		require.NoError(t, err)
		assert.False(t, modified)
	})

	t.Run("same size and mtime but different content", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, t.TempDir(), "a.blade.php", "one")
		_, info, err := fsutil.ReadFile(context.Background(), path)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(path, []byte("two"), 0o600))
		require.NoError(t, os.Chtimes(path, time.Time{}, info.ModTime))

		modified, err := fsutil.CheckModified(context.Background(), info)
		require.NoError(t, err)
		assert.True(t, modified)
	})

	t.Run("deleted", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, t.TempDir(), "a.blade.php", "one")
		_, info, err := fsutil.ReadFile(context.Background(), path)
		require.NoError(t, err)
		require.NoError(t, os.Remove(path))

		modified, err := fsutil.CheckModified(context.Background(), info)
		require.NoError(t, err)
		assert.True(t, modified)
	})

	t.Run("nil info", func(t *testing.T) {
		t.Parallel()
		_, err := fsutil.CheckModified(context.Background(), nil)
		require.ErrorIs(t, err, fsutil.ErrNilFileInfo)
	})
}

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "a.blade.php", "old")

	require.NoError(t, fsutil.WriteAtomic(context.Background(), path, []byte("new"), 0o640))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))

	stat, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), stat.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestWriteAtomic_DefaultMode(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "new.blade.php")
	require.NoError(t, fsutil.WriteAtomic(context.Background(), path, nil, 0))

	stat, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, fsutil.DefaultFileMode, stat.Mode().Perm())
}

func TestWriteAtomic_MissingDir(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nope", "a.blade.php")
	require.Error(t, fsutil.WriteAtomic(context.Background(), path, []byte("x"), 0))
}

func TestBackups(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "a.blade.php", "original")
	assert.Equal(t, path+".bladefmt.bak", fsutil.BackupPath(path))

	created, err := fsutil.CreateBackup(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, created)

	require.NoError(t, os.WriteFile(path, []byte("changed"), 0o600))

	created, err = fsutil.CreateBackup(context.Background(), path)
	require.NoError(t, err)
	assert.False(t, created, "existing backup must not be overwritten")

	backup, err := os.ReadFile(fsutil.BackupPath(path))
	require.NoError(t, err)
	assert.Equal(t, "original", string(backup))

	removed, err := fsutil.RemoveBackup(path)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = fsutil.RemoveBackup(path)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestCreateBackup_MissingOriginal(t *testing.T) {
	t.Parallel()

	created, err := fsutil.CreateBackup(context.Background(), filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.False(t, created)
}
