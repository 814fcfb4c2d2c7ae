package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/yaklabco/bladefmt/pkg/langdetect"
)

// skipDirs are directory names never descended into.
//
//nolint:gochecknoglobals // Read-only lookup table.
var skipDirs = map[string]bool{
	"vendor":       true,
	"node_modules": true,
	"storage":      true,
}

// Discover finds the templates selected by opts. It returns a sorted,
// de-duplicated list of absolute paths. Files named explicitly are kept
// even inside skipped directories, but still honor ExcludeGlobs.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	d := &discoverer{
		workDir:    workDir,
		extensions: opts.effectiveExtensions(),
		opts:       opts,
		seen:       make(map[string]struct{}),
	}

	for _, inputPath := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		absPath := inputPath
		if !filepath.IsAbs(inputPath) {
			absPath = filepath.Join(workDir, inputPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", inputPath, err)
		}

		if info.IsDir() {
			if err := d.walk(ctx, absPath); err != nil {
				return nil, err
			}
			continue
		}
		if d.matchesFile(absPath) {
			d.add(absPath)
		}
	}

	slices.Sort(d.files)
	return d.files, nil
}

type discoverer struct {
	workDir    string
	extensions []string
	opts       Options
	seen       map[string]struct{}
	files      []string
}

func (d *discoverer) add(path string) {
	if _, ok := d.seen[path]; ok {
		return
	}
	d.seen[path] = struct{}{}
	d.files = append(d.files, path)
}

func (d *discoverer) rel(path string) string {
	relPath, err := filepath.Rel(d.workDir, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(relPath)
}

func (d *discoverer) walk(ctx context.Context, root string) error {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		relPath := d.rel(path)

		if entry.IsDir() {
			if path == root {
				return nil
			}
			if skipDir(entry.Name(), relPath, d.opts.ExcludeGlobs) {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			realPath, err := filepath.EvalSymlinks(path)
			if err != nil {
				return nil //nolint:nilerr // broken symlinks are skipped
			}
			info, err := os.Stat(realPath)
			if err != nil {
				return nil //nolint:nilerr // unreadable targets are skipped
			}
			if info.IsDir() {
				if !d.opts.FollowSymlinks {
					return nil
				}
				return d.walk(ctx, realPath)
			}
		}

		if strings.HasPrefix(entry.Name(), ".") {
			return nil
		}
		if d.matchesFile(path) {
			d.add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

func skipDir(name, relPath string, patterns []string) bool {
	return strings.HasPrefix(name, ".") || skipDirs[name] ||
		langdetect.IsVendored(relPath+"/") || excluded(relPath, patterns)
}

// matchesFile reports whether path is a template (or Markdown document when
// enabled) that no exclude pattern covers.
func (d *discoverer) matchesFile(path string) bool {
	selected := langdetect.IsBlade(path, d.extensions) ||
		(d.opts.Markdown && langdetect.IsMarkdown(path))
	if !selected {
		return false
	}
	return !excluded(d.rel(path), d.opts.ExcludeGlobs)
}

// excluded reports whether relPath matches any pattern. Patterns without a
// slash also match against the base name, so "*.min.blade.php" works at any
// depth.
func excluded(relPath string, patterns []string) bool {
	base := filepath.Base(relPath)
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if ok, _ := doublestar.Match(pattern, base); ok {
				return true
			}
		}
	}
	return false
}

// resolveWorkDir resolves the working directory, defaulting to os.Getwd().
func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

// Excluded reports whether path, relative to workDir, matches any of the
// doublestar patterns. The watcher uses it to filter events.
func Excluded(workDir, path string, patterns []string) bool {
	d := &discoverer{workDir: workDir}
	return excluded(d.rel(path), patterns)
}

// SkipDirectory reports whether discovery would skip the directory at path:
// hidden directories, vendor trees, storage and excluded paths.
func SkipDirectory(workDir, path string, patterns []string) bool {
	d := &discoverer{workDir: workDir}
	return skipDir(filepath.Base(path), d.rel(path), patterns)
}
