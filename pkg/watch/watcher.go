// Package watch reformats Blade templates as they are saved.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yaklabco/bladefmt/internal/logging"
	"github.com/yaklabco/bladefmt/pkg/langdetect"
	"github.com/yaklabco/bladefmt/pkg/runner"
)

// DefaultDebounce is the quiet period after the last event on a file before
// it is formatted.
const DefaultDebounce = 200 * time.Millisecond

// ErrNotDirectory is returned when the watch root is not a directory.
var ErrNotDirectory = errors.New("watch root is not a directory")

// Options configures a Watcher.
type Options struct {
	// Root is the directory tree to watch.
	Root string

	// Debounce is the quiet period per file. Defaults to DefaultDebounce.
	Debounce time.Duration

	// ExcludeGlobs are doublestar patterns, relative to Root, that are
	// neither watched nor formatted.
	ExcludeGlobs []string

	// Pipeline controls per-file formatting. Write is forced on.
	Pipeline runner.PipelineOptions

	// OnResult, when set, is called after each formatting attempt.
	OnResult func(path string, result *runner.PipelineResult, err error)
}

// Watcher formats templates under a directory tree whenever they change.
type Watcher struct {
	opts     Options
	root     string
	pipeline *runner.Pipeline
	fsw      *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]*time.Timer
	closed  bool
	ready   chan string
	done    chan struct{}
	wg      sync.WaitGroup
}

// New creates a Watcher and registers every directory under opts.Root.
// Events are buffered until Run; call Close if Run is never called.
func New(opts Options) (*Watcher, error) {
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve watch root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat watch root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	opts.Pipeline.Write = true

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	w := &Watcher{
		opts:     opts,
		root:     root,
		pipeline: runner.NewPipeline(),
		fsw:      fsw,
		pending:  make(map[string]*time.Timer),
		ready:    make(chan string),
		done:     make(chan struct{}),
	}
	if err := w.addTree(root); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Run formats changed templates until ctx is cancelled or the underlying
// watcher stops. It closes the Watcher before returning.
func (w *Watcher) Run(ctx context.Context) error {
	logger := logging.FromContext(ctx)
	defer func() { _ = w.Close() }()

	logger.Info("watching for template changes", logging.FieldPath, w.root)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", logging.FieldError, err)

		case path := <-w.ready:
			w.format(ctx, path)
		}
	}
}

// Close stops pending timers and releases the file watcher. It is safe to
// call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.done)
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()

	w.wg.Wait()
	if err := w.fsw.Close(); err != nil {
		return fmt.Errorf("close file watcher: %w", err)
	}
	return nil
}

// addTree adds a watch for dir and every directory below it that discovery
// would descend into.
func (w *Watcher) addTree(dir string) error {
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if os.IsPermission(walkErr) || os.IsNotExist(walkErr) {
				return nil
			}
			return walkErr
		}
		if !entry.IsDir() {
			return nil
		}
		if path != w.root && runner.SkipDirectory(w.root, path, w.opts.ExcludeGlobs) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("add watches under %s: %w", dir, err)
	}
	return nil
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	logger := logging.FromContext(ctx)

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		return
	}

	if info.IsDir() {
		if event.Has(fsnotify.Create) {
			if err := w.addTree(event.Name); err != nil {
				logger.Warn("cannot watch new directory",
					logging.FieldPath, event.Name, logging.FieldError, err)
			}
		}
		return
	}

	if !w.selected(event.Name) {
		return
	}
	logger.Debug("template changed", logging.FieldPath, event.Name, logging.FieldEvent, event.Op.String())
	w.schedule(event.Name)
}

// selected reports whether path is a template this watcher formats.
func (w *Watcher) selected(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	kind := langdetect.IsBlade(path, w.opts.Pipeline.Extensions) ||
		(w.opts.Pipeline.Markdown && langdetect.IsMarkdown(path))
	return kind && !runner.Excluded(w.root, path, w.opts.ExcludeGlobs)
}

// schedule (re)starts the quiet period for path.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if timer, ok := w.pending[path]; ok {
		timer.Reset(w.opts.Debounce)
		return
	}

	w.pending[path] = time.AfterFunc(w.opts.Debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		if w.closed {
			w.mu.Unlock()
			return
		}
		w.wg.Add(1)
		w.mu.Unlock()
		defer w.wg.Done()

		select {
		case w.ready <- path:
		case <-w.done:
		}
	})
}

func (w *Watcher) format(ctx context.Context, path string) {
	logger := logging.FromContext(ctx)

	result, err := w.pipeline.ProcessFile(ctx, path, w.opts.Pipeline)
	switch {
	case err != nil:
		logger.Error("format failed", logging.FieldPath, path, logging.FieldError, err)
	case result.Written:
		logger.Info("formatted", logging.FieldPath, path, logging.FieldLinesChanged, result.LinesChanged())
	case result.Skipped:
		logger.Debug("skipped", logging.FieldPath, path, "reason", result.SkipReason)
	}

	if w.opts.OnResult != nil {
		w.opts.OnResult(path, result, err)
	}
}
