package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/bladefmt/pkg/runner"
)

// makeTree creates files (relative paths) under a fresh temp dir.
func makeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func relAll(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestDiscover_Directory(t *testing.T) {
	t.Parallel()

	root := makeTree(t, map[string]string{
		"resources/views/welcome.blade.php":      "",
		"resources/views/layouts/app.blade.php":  "",
		"resources/views/partials/nav.blade.php": "",
		"app/Http/Controller.php":                "",
		"vendor/laravel/x.blade.php":             "",
		"node_modules/pkg/y.blade.php":           "",
		"storage/framework/views/z.blade.php":    "",
		".cache/hidden.blade.php":                "",
		"resources/views/.hidden.blade.php":      "",
		"README.md":                              "",
	})

	files, err := runner.Discover(context.Background(), runner.Options{WorkingDir: root})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"resources/views/layouts/app.blade.php",
		"resources/views/partials/nav.blade.php",
		"resources/views/welcome.blade.php",
	}, relAll(t, root, files))
}

func TestDiscover_ExcludeGlobs(t *testing.T) {
	t.Parallel()

	root := makeTree(t, map[string]string{
		"views/a.blade.php":         "",
		"views/emails/b.blade.php":  "",
		"views/c.min.blade.php":     "",
		"views/deep/er/d.blade.php": "",
	})

	files, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir:   root,
		ExcludeGlobs: []string{"views/emails/**", "*.min.blade.php", "**/er/**"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"views/a.blade.php"}, relAll(t, root, files))
}

func TestDiscover_Markdown(t *testing.T) {
	t.Parallel()

	root := makeTree(t, map[string]string{
		"docs/guide.md":     "",
		"views/a.blade.php": "",
	})

	files, err := runner.Discover(context.Background(), runner.Options{WorkingDir: root})
	require.NoError(t, err)
	assert.Equal(t, []string{"views/a.blade.php"}, relAll(t, root, files))

	files, err = runner.Discover(context.Background(), runner.Options{WorkingDir: root, Markdown: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"docs/guide.md", "views/a.blade.php"}, relAll(t, root, files))
}

func TestDiscover_CustomExtensions(t *testing.T) {
	t.Parallel()

	root := makeTree(t, map[string]string{
		"a.blade.php": "",
		"b.tpl":       "",
	})

	files, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir: root,
		Extensions: []string{".tpl"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"b.tpl"}, relAll(t, root, files))
}

func TestDiscover_ExplicitFilesAndDedup(t *testing.T) {
	t.Parallel()

	root := makeTree(t, map[string]string{
		"vendor/pkg/x.blade.php": "",
		"views/a.blade.php":      "",
		"views/notes.txt":        "",
	})

	files, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir: root,
		Paths:      []string{"vendor/pkg/x.blade.php", "views", "views/a.blade.php", "views/notes.txt"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"vendor/pkg/x.blade.php", "views/a.blade.php"}, relAll(t, root, files))
}

func TestDiscover_NonExistentPath(t *testing.T) {
	t.Parallel()

	_, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir: t.TempDir(),
		Paths:      []string{"missing"},
	})
	require.Error(t, err)
}

func TestDiscover_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Discover(ctx, runner.Options{WorkingDir: t.TempDir()})
	require.ErrorIs(t, err, context.Canceled)
}

func TestDiscover_DirectorySymlinks(t *testing.T) {
	t.Parallel()

	root := makeTree(t, map[string]string{"real/a.blade.php": ""})
	outside := makeTree(t, map[string]string{"b.blade.php": ""})
	if err := os.Symlink(outside, filepath.Join(root, "linked")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	files, err := runner.Discover(context.Background(), runner.Options{WorkingDir: root})
	require.NoError(t, err)
	assert.Len(t, files, 1)

	files, err = runner.Discover(context.Background(), runner.Options{WorkingDir: root, FollowSymlinks: true})
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestExcluded(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	assert.True(t, runner.Excluded(root, filepath.Join(root, "views", "emails", "a.blade.php"), []string{"views/emails/**"}))
	assert.True(t, runner.Excluded(root, filepath.Join(root, "x", "a.min.blade.php"), []string{"*.min.blade.php"}))
	assert.False(t, runner.Excluded(root, filepath.Join(root, "views", "a.blade.php"), []string{"views/emails/**"}))
}
