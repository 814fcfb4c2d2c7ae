package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/bladefmt/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "2 files need formatting (7 lines), 12 checked, 1 error".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	var parts []string

	switch {
	case stats.FilesChanged == 0:
		parts = append(parts, s.Success.Render("All templates formatted")+
			s.Dim.Render(fmt.Sprintf(" (%d %s checked)",
				stats.FilesProcessed, plural(stats.FilesProcessed, wordFile, wordFiles))))
	case stats.FilesWritten > 0:
		parts = append(parts, s.Success.Render(fmt.Sprintf("Formatted %d %s (%d %s)",
			stats.FilesWritten, plural(stats.FilesWritten, wordFile, wordFiles),
			stats.LinesChanged, plural(stats.LinesChanged, "line", "lines"))))
		parts = append(parts, fmt.Sprintf("%d checked", stats.FilesProcessed))
	default:
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d %s formatting (%d %s)",
			stats.FilesChanged, plural(stats.FilesChanged, "file needs", "files need"),
			stats.LinesChanged, plural(stats.LinesChanged, "line", "lines"))))
		parts = append(parts, fmt.Sprintf("%d checked", stats.FilesProcessed))
	}

	if stats.BackupsCreated > 0 {
		parts = append(parts, s.Dim.Render(fmt.Sprintf("%d %s",
			stats.BackupsCreated, plural(stats.BackupsCreated, "backup", "backups"))))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d %s",
			stats.FilesErrored, plural(stats.FilesErrored, "error", "errors"))))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Files discovered:  " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesDiscovered)) + "\n")
	builder.WriteString("  Files checked:     " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesProcessed)) + "\n")

	if stats.FilesSkipped > 0 {
		builder.WriteString("  Files skipped:     " +
			s.Dim.Render(strconv.Itoa(stats.FilesSkipped)) + "\n")
	}
	if stats.FilesChanged > 0 {
		builder.WriteString("  Files changed:     " +
			s.Warning.Render(strconv.Itoa(stats.FilesChanged)) + "\n")
		builder.WriteString("  Lines re-indented: " +
			s.SummaryValue.Render(strconv.Itoa(stats.LinesChanged)) + "\n")
	}
	if stats.FilesWritten > 0 {
		builder.WriteString("  Files written:     " +
			s.Success.Render(strconv.Itoa(stats.FilesWritten)) + "\n")
	}
	if stats.BackupsCreated > 0 {
		builder.WriteString("  Backups created:   " +
			s.SummaryValue.Render(strconv.Itoa(stats.BackupsCreated)) + "\n")
	}
	if stats.FilesErrored > 0 {
		builder.WriteString("  Files errored:     " +
			s.Failure.Render(strconv.Itoa(stats.FilesErrored)) + "\n")
	}

	builder.WriteString("\n")

	switch {
	case stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Formatting failed with errors"))
	case stats.FilesChanged > stats.FilesWritten:
		builder.WriteString(s.Warning.Render("Some templates need formatting"))
	default:
		builder.WriteString(s.Success.Render("All templates formatted"))
	}
	builder.WriteString("\n")

	return builder.String()
}
