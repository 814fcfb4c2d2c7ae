package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/bladefmt/internal/ui/pretty"
	"github.com/yaklabco/bladefmt/pkg/runner"
)

// TextReporter formats results as styled terminal output, one line per
// file that needs attention.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(ctx context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No templates to format."))
		}
		return 0, nil
	}

	var changed int
	for _, file := range result.Files {
		if err := ctx.Err(); err != nil {
			return changed, fmt.Errorf("report cancelled: %w", err)
		}
		if r.writeFile(file) {
			changed++
		}
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return changed, nil
}

// writeFile writes the line for one file and reports whether it changed.
func (r *TextReporter) writeFile(file runner.FileOutcome) bool {
	path := r.styles.FilePath.Render(r.opts.displayPath(file.Path))

	if file.Error != nil {
		fmt.Fprintf(r.bw, "%s: %s\n", path,
			r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)))
		return false
	}

	res := file.Result
	switch {
	case res == nil:
		return false
	case res.Skipped:
		if r.opts.Verbose {
			fmt.Fprintf(r.bw, "%s: %s\n", path, r.styles.Dim.Render(res.Summary()))
		}
		return false
	case !res.Changed():
		if r.opts.Verbose {
			fmt.Fprintf(r.bw, "%s: %s\n", path, r.styles.Success.Render(res.Summary()))
		}
		return false
	}

	status := r.styles.Warning.Render(res.Summary())
	if res.Written {
		status = r.styles.Success.Render(res.Summary())
	}
	fmt.Fprintf(r.bw, "%s: %s %s\n", path, status,
		r.styles.Dim.Render(fmt.Sprintf("(%d %s)", res.LinesChanged(), plural(res.LinesChanged(), "line", "lines"))))

	if r.opts.Verbose {
		for _, edit := range res.Edits {
			fmt.Fprintf(r.bw, "  %s  %s\n",
				r.styles.Location.Render(fmt.Sprintf("%s:%d", r.opts.displayPath(file.Path), edit.Line)),
				r.styles.Message.Render(fmt.Sprintf("indent to %q", edit.NewText)))
		}
	}
	return true
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
