package runner

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/yaklabco/bladefmt/pkg/config"
	"github.com/yaklabco/bladefmt/pkg/fix"
	"github.com/yaklabco/bladefmt/pkg/format"
	"github.com/yaklabco/bladefmt/pkg/fsutil"
	"github.com/yaklabco/bladefmt/pkg/langdetect"
	"github.com/yaklabco/bladefmt/pkg/markdown"
)

// Pipeline error types for categorization.
var (
	// ErrFileNotFound indicates the file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrFormatFailure indicates the template could not be formatted.
	ErrFormatFailure = errors.New("format failure")

	// ErrWriteFailure indicates a write error.
	ErrWriteFailure = errors.New("write failure")
)

// PipelineOptions controls how a single file is processed.
type PipelineOptions struct {
	// Format holds the indentation settings. Region limits which lines change.
	Format format.Options

	// Enabled is false when formatting is switched off in config; files are
	// then reported unchanged.
	Enabled bool

	// Extensions are the Blade suffixes used to classify the file.
	Extensions []string

	// Markdown formats blade fences in Markdown files.
	Markdown bool

	// Write rewrites changed files in place.
	Write bool

	// Diff attaches a unified diff to changed results.
	Diff bool

	// Backup writes a sidecar backup before the first rewrite of a file.
	Backup bool
}

// PipelineOptionsFromConfig derives pipeline options from cfg.
func PipelineOptionsFromConfig(cfg *config.Config) PipelineOptions {
	return PipelineOptions{
		Format:     format.OptionsFrom(format.SettingsFromConfig(cfg)),
		Enabled:    cfg.FormatEnabled(),
		Extensions: cfg.Extensions,
		Markdown:   cfg.MarkdownEnabled(),
		Write:      cfg.Write,
		Diff:       cfg.Output == config.FormatDiff,
		Backup:     cfg.BackupsEnabled(),
	}
}

// PipelineResult is the outcome of processing one file.
type PipelineResult struct {
	// Path is the file path that was processed.
	Path string

	// Kind is how the file was classified.
	Kind langdetect.Kind

	// OriginalInfo is the file state before processing (nil for stdin).
	OriginalInfo *fsutil.FileInfo

	// Original is the content as read.
	Original []byte

	// Formatted is the content after formatting. Equal to Original when
	// nothing changed.
	Formatted []byte

	// Edits are the whitespace replacements that produced Formatted.
	Edits []fix.TextEdit

	// Diff is the unified diff, set when requested and the file changed.
	Diff *fix.Diff

	// Skipped is true if the file was left alone.
	Skipped bool

	// SkipReason explains why the file was skipped.
	SkipReason string

	// BackupCreated is true if a backup was created for this file.
	BackupCreated bool

	// Written is true if the file was written to disk.
	Written bool
}

// Changed reports whether formatting altered the file.
func (pr *PipelineResult) Changed() bool {
	return pr != nil && len(pr.Edits) > 0
}

// LinesChanged returns the number of re-indented lines.
func (pr *PipelineResult) LinesChanged() int {
	if pr == nil {
		return 0
	}
	return len(pr.Edits)
}

// Summary returns a human-readable summary of the pipeline result.
func (pr *PipelineResult) Summary() string {
	switch {
	case pr.Skipped:
		return "skipped: " + pr.SkipReason
	case pr.Written && pr.BackupCreated:
		return "formatted (backup created)"
	case pr.Written:
		return "formatted"
	case pr.Changed():
		return "needs formatting"
	default:
		return "ok"
	}
}

// Pipeline formats individual files safely: it reads and hashes, formats
// in memory, refuses to overwrite a file changed in the meantime, backs up,
// and writes atomically.
type Pipeline struct{}

// NewPipeline creates a Pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// ProcessFile runs the full pipeline for the file at path.
func (p *Pipeline) ProcessFile(ctx context.Context, path string, opts PipelineOptions) (*PipelineResult, error) {
	content, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, categorizeError(err)
	}

	result, err := p.ProcessContent(ctx, path, content, opts)
	if err != nil {
		return nil, err
	}
	result.OriginalInfo = info

	if !result.Changed() || !opts.Write {
		return result, nil
	}

	modified, err := fsutil.CheckModified(ctx, info)
	if err != nil {
		return nil, fmt.Errorf("check modified: %w", err)
	}
	if modified {
		result.Skipped = true
		result.SkipReason = "file modified during processing"
		return result, nil
	}

	if opts.Backup {
		created, err := fsutil.CreateBackup(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("create backup: %w", err)
		}
		result.BackupCreated = created
	}

	if err := fsutil.WriteAtomic(ctx, path, result.Formatted, info.Mode); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	result.Written = true

	return result, nil
}

// ProcessContent formats content in memory. path is used for
// classification and diff headers only; it is never read or written.
func (p *Pipeline) ProcessContent(
	ctx context.Context,
	path string,
	content []byte,
	opts PipelineOptions,
) (*PipelineResult, error) {
	result := &PipelineResult{
		Path:      path,
		Kind:      langdetect.Detect(path, content, opts.Extensions),
		Original:  content,
		Formatted: content,
	}

	if !opts.Enabled {
		result.Skipped = true
		result.SkipReason = "formatting disabled"
		return result, nil
	}

	switch {
	case result.Kind == langdetect.KindMarkdown && opts.Markdown:
		out, err := markdown.FormatFences(ctx, content, opts.Format)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFormatFailure, err)
		}
		result.Edits, result.Formatted = out.Edits, out.Formatted

	case result.Kind == langdetect.KindBlade || path == "":
		out, err := format.Source(ctx, path, content, opts.Format)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFormatFailure, err)
		}
		result.Edits, result.Formatted = out.Edits, out.Formatted

	default:
		result.Skipped = true
		result.SkipReason = "not a blade template"
		return result, nil
	}

	if opts.Diff && result.Changed() {
		result.Diff = fix.GenerateDiff(path, content, result.Formatted)
	}
	return result, nil
}

// categorizeError wraps an error with the appropriate pipeline error type.
func categorizeError(err error) error {
	if errors.Is(err, fsutil.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	}
	if errors.Is(err, fsutil.ErrPermissionDenied) || errors.Is(err, os.ErrPermission) {
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}
	return err
}

// IsPipelineError checks if an error is a known pipeline error type.
func IsPipelineError(err error) bool {
	return errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrFormatFailure) ||
		errors.Is(err, ErrWriteFailure)
}
