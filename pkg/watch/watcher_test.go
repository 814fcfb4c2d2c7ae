package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/bladefmt/pkg/config"
	"github.com/yaklabco/bladefmt/pkg/runner"
	"github.com/yaklabco/bladefmt/pkg/watch"
)

const (
	unformatted = "@if($a)\n<p>x</p>\n@endif\n"
	formatted   = "@if($a)\n    <p>x</p>\n@endif\n"
)

type outcome struct {
	path   string
	result *runner.PipelineResult
	err    error
}

// start runs a watcher on root and returns the outcome channel plus a stop
// function that waits for Run to return.
func start(t *testing.T, root string, exclude ...string) (<-chan outcome, func()) {
	t.Helper()

	pipeline := runner.PipelineOptionsFromConfig(config.NewConfig())
	pipeline.Backup = false

	outcomes := make(chan outcome, 16)
	w, err := watch.New(watch.Options{
		Root:         root,
		Debounce:     20 * time.Millisecond,
		ExcludeGlobs: exclude,
		Pipeline:     pipeline,
		OnResult: func(path string, result *runner.PipelineResult, err error) {
			outcomes <- outcome{path: path, result: result, err: err}
		},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			cancel()
			select {
			case err := <-done:
				assert.NoError(t, err)
			case <-time.After(5 * time.Second):
				t.Error("watcher did not stop")
			}
		})
	}
	t.Cleanup(stop)
	return outcomes, stop
}

func waitFor(t *testing.T, outcomes <-chan outcome) outcome {
	t.Helper()
	select {
	case got := <-outcomes:
		return got
	case <-time.After(5 * time.Second):
		t.Fatal("no formatting outcome")
		return outcome{}
	}
}

func TestWatcher_FormatsOnWrite(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	outcomes, stop := start(t, root)

	path := filepath.Join(root, "welcome.blade.php")
	require.NoError(t, os.WriteFile(path, []byte(unformatted), 0o600))

	got := waitFor(t, outcomes)
	require.NoError(t, got.err)
	assert.Equal(t, path, got.path)

	require.Eventually(t, func() bool {
		content, err := os.ReadFile(path)
		return err == nil && string(content) == formatted
	}, 5*time.Second, 20*time.Millisecond)

	stop()
}

func TestWatcher_NewDirectory(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	outcomes, _ := start(t, root)

	dir := filepath.Join(root, "components")
	require.NoError(t, os.Mkdir(dir, 0o750))

	path := filepath.Join(dir, "card.blade.php")
	require.Eventually(t, func() bool {
		// The new directory is watched asynchronously, so rewrite until
		// an event is seen.
		if err := os.WriteFile(path, []byte(unformatted), 0o600); err != nil {
			return false
		}
		select {
		case got := <-outcomes:
			return got.path == path
		case <-time.After(200 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	outcomes, _ := start(t, root, "skip/**")

	require.NoError(t, os.Mkdir(filepath.Join(root, "skip"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "skip", "a.blade.php"), []byte(unformatted), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Kernel.php"), []byte(unformatted), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".hidden.blade.php"), []byte(unformatted), 0o600))

	select {
	case got := <-outcomes:
		t.Fatalf("unexpected formatting of %s", got.path)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_AlreadyFormatted(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	outcomes, _ := start(t, root)

	path := filepath.Join(root, "ok.blade.php")
	require.NoError(t, os.WriteFile(path, []byte(formatted), 0o600))

	got := waitFor(t, outcomes)
	require.NoError(t, got.err)
	assert.False(t, got.result.Written)
	assert.False(t, got.result.Changed())
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	_, err := watch.New(watch.Options{Root: filepath.Join(t.TempDir(), "missing")})
	require.Error(t, err)

	file := filepath.Join(t.TempDir(), "a.blade.php")
	require.NoError(t, os.WriteFile(file, nil, 0o600))
	_, err = watch.New(watch.Options{Root: file})
	require.ErrorIs(t, err, watch.ErrNotDirectory)
}

func TestWatcher_CloseWithoutRun(t *testing.T) {
	t.Parallel()

	w, err := watch.New(watch.Options{Root: t.TempDir()})
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}
