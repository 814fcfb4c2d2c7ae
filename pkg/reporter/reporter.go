// Package reporter writes the outcome of a formatting run in one of several
// formats: styled text, JSON, unified diffs, or a summary block.
package reporter

import (
	"context"

	"github.com/yaklabco/bladefmt/pkg/runner"
)

// Reporter writes run results.
type Reporter interface {
	// Report writes the result and returns the number of files that need
	// or received formatting.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// New returns the reporter for opts.Format. An empty format selects text.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format, err := ParseFormat(string(opts.Format))
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatDiff:
		return NewDiffReporter(opts), nil
	case FormatSummary:
		return NewSummaryReporter(opts), nil
	default:
		return NewTextReporter(opts), nil
	}
}
