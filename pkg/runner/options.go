// Package runner discovers Blade templates and formats them concurrently.
package runner

import (
	"github.com/yaklabco/bladefmt/pkg/config"
	"github.com/yaklabco/bladefmt/pkg/langdetect"
)

// Options controls multi-file formatting behavior.
type Options struct {
	// Paths are the user-specified paths (files or directories) to process.
	// If empty, defaults to the current working directory.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths.
	// If empty, the current process working directory is used.
	WorkingDir string

	// Extensions are the file suffixes treated as Blade templates.
	// Defaults to langdetect.DefaultBladeExtensions.
	Extensions []string

	// Markdown also selects Markdown files for blade fence formatting.
	Markdown bool

	// ExcludeGlobs are doublestar patterns, relative to WorkingDir, for
	// files or directories to skip. They merge config ignore and --ignore.
	ExcludeGlobs []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means "auto" (runtime.NumCPU()).
	Jobs int

	// Pipeline controls per-file processing.
	Pipeline PipelineOptions
}

// OptionsFromConfig derives run options from a resolved configuration.
func OptionsFromConfig(cfg *config.Config, paths []string) Options {
	return Options{
		Paths:        paths,
		Extensions:   cfg.Extensions,
		Markdown:     cfg.MarkdownEnabled(),
		ExcludeGlobs: cfg.Ignore,
		Jobs:         cfg.Jobs,
		Pipeline:     PipelineOptionsFromConfig(cfg),
	}
}

// effectiveExtensions returns the extensions to use, defaulting if empty.
func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return langdetect.DefaultBladeExtensions
	}
	return o.Extensions
}

// effectivePaths returns the paths to process, defaulting to "." if empty.
func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
