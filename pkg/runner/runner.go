package runner

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/bladefmt/internal/logging"
)

// Runner orchestrates multi-file formatting using a Pipeline.
type Runner struct {
	// Pipeline handles per-file processing with safety guarantees.
	Pipeline *Pipeline
}

// New creates a new Runner with the given pipeline.
func New(pipeline *Pipeline) *Runner {
	if pipeline == nil {
		pipeline = NewPipeline()
	}
	return &Runner{Pipeline: pipeline}
}

// Run discovers files under opts.Paths and formats them with at most
// opts.Jobs workers. Per-file failures are recorded on the outcome; the
// returned error is reserved for discovery failures and cancellation.
// Outcomes are ordered by path regardless of completion order.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx)
	logger.Debug("discovered files", logging.FieldFilesDiscovered, len(files))

	result := &Result{Stats: Stats{FilesDiscovered: len(files)}}
	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	pipelineOpts := opts.Pipeline
	if pipelineOpts.Extensions == nil {
		pipelineOpts.Extensions = opts.Extensions
	}
	pipelineOpts.Markdown = pipelineOpts.Markdown || opts.Markdown

	outcomes := make([]FileOutcome, len(files))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(jobs)

	for i, path := range files {
		if groupCtx.Err() != nil {
			break
		}
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			outcome := FileOutcome{Path: path}
			fileCtx := logging.With(groupCtx, logging.FieldPath, path)
			pr, err := r.Pipeline.ProcessFile(fileCtx, path, pipelineOpts)
			if err != nil {
				logging.FromContext(fileCtx).Debug("format failed", logging.FieldError, err)
				outcome.Error = err
			} else {
				outcome.Result = pr
			}
			outcomes[i] = outcome
			return nil
		})
	}

	waitErr := group.Wait()

	for _, outcome := range outcomes {
		if outcome.Path != "" {
			result.accumulate(outcome)
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}
	if waitErr != nil {
		return result, fmt.Errorf("run: %w", waitErr)
	}

	logger.Debug("run complete",
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesChanged, result.Stats.FilesChanged,
		logging.FieldLinesChanged, result.Stats.LinesChanged,
	)
	return result, nil
}
