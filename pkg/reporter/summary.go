package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/bladefmt/internal/ui/pretty"
	"github.com/yaklabco/bladefmt/pkg/runner"
)

// Layout for the per-file table printed above the summary block.
const (
	defaultTableWidth = 80
	maxTableWidth     = 120
	countColWidth     = 12
)

// SummaryReporter lists changed files with their line counts, then prints
// the aggregate summary block.
type SummaryReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
	width  int
}

// NewSummaryReporter creates a new summary reporter.
func NewSummaryReporter(opts Options) *SummaryReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
		width:  min(pretty.TerminalWidth(opts.Writer, defaultTableWidth), maxTableWidth),
	}
}

// Report implements Reporter.
func (r *SummaryReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		result = &runner.Result{}
	}

	var changed int
	for _, file := range result.Files {
		switch {
		case file.Error != nil:
			r.writeRow(file.Path, r.styles.Error.Render("error"))
		case file.Result.Changed():
			changed++
			count := fmt.Sprintf("%d %s", file.Result.LinesChanged(), plural(file.Result.LinesChanged(), "line", "lines"))
			r.writeRow(file.Path, r.styles.Warning.Render(count))
		}
	}

	fmt.Fprint(r.bw, r.styles.FormatSummary(result.Stats))
	return changed, nil
}

// writeRow writes a path left-aligned and a status right-aligned, truncating
// the path from the left to fit.
func (r *SummaryReporter) writeRow(path, status string) {
	display := r.opts.displayPath(path)
	room := r.width - countColWidth - 2
	if room > 3 && lipgloss.Width(display) > room {
		display = "..." + display[len(display)-(room-3):]
	}

	pad := r.width - 2 - lipgloss.Width(display) - lipgloss.Width(status)
	if pad < 1 {
		pad = 1
	}
	fmt.Fprintf(r.bw, "  %s%s%s\n", r.styles.FilePath.Render(display), strings.Repeat(" ", pad), status)
}
