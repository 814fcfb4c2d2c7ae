package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/bladefmt/pkg/format"
	"github.com/yaklabco/bladefmt/pkg/reporter"
	"github.com/yaklabco/bladefmt/pkg/runner"
)

const (
	unformatted = "@if($a)\n<div>\n<p>x</p>\n</div>\n@endif\n"
	formatted   = "@if($a)\n    <div>\n        <p>x</p>\n    </div>\n@endif\n"
)

func process(t *testing.T, path, content string) *runner.PipelineResult {
	t.Helper()
	res, err := runner.NewPipeline().ProcessContent(context.Background(), path, []byte(content),
		runner.PipelineOptions{Format: format.Options{Width: 4}, Enabled: true})
	require.NoError(t, err)
	return res
}

// createTestResult returns a run over three files: one needing formatting,
// one already formatted, and one that failed to read.
func createTestResult(t *testing.T) *runner.Result {
	t.Helper()
	return &runner.Result{
		Files: []runner.FileOutcome{
			{Path: "/work/views/a.blade.php", Result: process(t, "/work/views/a.blade.php", unformatted)},
			{Path: "/work/views/b.blade.php", Result: process(t, "/work/views/b.blade.php", formatted)},
			{Path: "/work/views/c.blade.php", Error: errors.New("permission denied")},
		},
		Stats: runner.Stats{
			FilesDiscovered: 3,
			FilesProcessed:  2,
			FilesErrored:    1,
			FilesChanged:    1,
			LinesChanged:    3,
		},
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    reporter.Format
		wantErr bool
	}{
		{name: "empty defaults to text", input: "", want: reporter.FormatText},
		{name: "text", input: "text", want: reporter.FormatText},
		{name: "json", input: "json", want: reporter.FormatJSON},
		{name: "diff", input: "diff", want: reporter.FormatDiff},
		{name: "summary", input: "summary", want: reporter.FormatSummary},
		{name: "unknown format", input: "sarif", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := reporter.ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.IsValid())
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  reporter.Format
		wantErr bool
	}{
		{name: "text reporter", format: reporter.FormatText},
		{name: "json reporter", format: reporter.FormatJSON},
		{name: "diff reporter", format: reporter.FormatDiff},
		{name: "summary reporter", format: reporter.FormatSummary},
		{name: "empty defaults to text", format: ""},
		{name: "unknown format", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			rep, err := reporter.New(reporter.Options{Writer: &buf, Format: tt.format, Color: "never"})
			if tt.wantErr {
				require.Error(t, err)
				require.Nil(t, rep)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, rep)
		})
	}
}

func TestTextReporter_NilResult(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never", ShowSummary: true})

	count, err := rep.Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Contains(t, buf.String(), "No templates to format")
}

func TestTextReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{
		Writer:      &buf,
		Color:       "never",
		ShowSummary: true,
		WorkingDir:  "/work",
	})

	count, err := rep.Report(context.Background(), createTestResult(t))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	output := buf.String()
	assert.Contains(t, output, "views/a.blade.php: needs formatting (3 lines)")
	assert.NotContains(t, output, "views/b.blade.php", "formatted files are quiet")
	assert.Contains(t, output, "views/c.blade.php: error: permission denied")
	assert.Contains(t, output, "1 file needs formatting (3 lines), 2 checked, 1 error")
}

func TestTextReporter_Verbose(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never", Verbose: true})

	result := createTestResult(t)
	result.Files = append(result.Files, runner.FileOutcome{
		Path:   "/work/README.txt",
		Result: process(t, "/work/README.txt", "hello\n"),
	})

	_, err := rep.Report(context.Background(), result)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "/work/views/a.blade.php:2  indent to \"    \"")
	assert.Contains(t, output, "/work/views/a.blade.php:3  indent to \"        \"")
	assert.Contains(t, output, "/work/views/b.blade.php: ok")
	assert.Contains(t, output, "/work/README.txt: skipped: not a blade template")
}

func TestTextReporter_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	_, err := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never"}).
		Report(ctx, createTestResult(t))
	require.ErrorIs(t, err, context.Canceled)
}

func TestJSONReporter_NilResult(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf})

	count, err := rep.Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, count)

	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))
	assert.Equal(t, "1.0.0", output.Version)
	assert.Empty(t, output.Files)
}

func TestJSONReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf, Compact: true, WorkingDir: "/work"})

	count, err := rep.Report(context.Background(), createTestResult(t))
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"), "compact output is a single line")

	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))
	require.Len(t, output.Files, 3)

	a := output.Files[0]
	assert.Equal(t, "views/a.blade.php", a.Path)
	assert.Equal(t, "blade", a.Kind)
	assert.Equal(t, "needs formatting", a.Status)
	assert.True(t, a.Changed)
	assert.Equal(t, 3, a.LinesChanged)
	require.Len(t, a.Edits, 3)
	assert.Equal(t, reporter.JSONEdit{Line: 2, StartOffset: 8, EndOffset: 8, NewText: "    "}, a.Edits[0])

	assert.Equal(t, "ok", output.Files[1].Status)
	assert.Empty(t, output.Files[1].Edits)

	assert.Equal(t, "error", output.Files[2].Status)
	assert.Equal(t, "permission denied", output.Files[2].Error)

	assert.Equal(t, reporter.JSONSummary{
		FilesDiscovered: 3,
		FilesChecked:    2,
		FilesChanged:    1,
		FilesErrored:    1,
		LinesChanged:    3,
	}, output.Summary)
}

func TestDiffReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewDiffReporter(reporter.Options{
		Writer:      &buf,
		Color:       "never",
		ShowSummary: true,
		WorkingDir:  "/work",
	})

	count, err := rep.Report(context.Background(), createTestResult(t))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	output := buf.String()
	assert.Contains(t, output, "diff --git a/views/a.blade.php b/views/a.blade.php\n--- a/views/a.blade.php\n+++ b/views/a.blade.php\n")
	assert.Contains(t, output, "-<div>\n")
	assert.Contains(t, output, "+    <div>\n")
	assert.Contains(t, output, "+        <p>x</p>\n")
	assert.Contains(t, output, " @if($a)\n")
	assert.NotContains(t, output, "b.blade.php")
	assert.Contains(t, output, "views/c.blade.php: error: permission denied")
	assert.Contains(t, output, "1 file changed, 3 insertions(+), 3 deletions(-)")
}

func TestDiffReporter_NilResult(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	count, err := reporter.NewDiffReporter(reporter.Options{Writer: &buf, Color: "never"}).
		Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, buf.String())
}

func TestSummaryReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewSummaryReporter(reporter.Options{Writer: &buf, Color: "never", WorkingDir: "/work"})

	count, err := rep.Report(context.Background(), createTestResult(t))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	output := buf.String()
	lines := strings.Split(output, "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	assert.True(t, strings.HasPrefix(lines[0], "  views/a.blade.php"))
	assert.True(t, strings.HasSuffix(lines[0], "3 lines"))
	assert.Len(t, lines[0], 80)
	assert.True(t, strings.HasSuffix(lines[1], "error"))
	assert.Contains(t, output, "Files changed:     1")
	assert.Contains(t, output, "Formatting failed with errors")
}

func TestSummaryReporter_TruncatesLongPaths(t *testing.T) {
	t.Parallel()

	long := "/work/" + strings.Repeat("deep/", 30) + "x.blade.php"
	result := &runner.Result{
		Files: []runner.FileOutcome{{Path: long, Result: process(t, long, unformatted)}},
		Stats: runner.Stats{FilesProcessed: 1, FilesChanged: 1, LinesChanged: 3},
	}

	var buf bytes.Buffer
	_, err := reporter.NewSummaryReporter(reporter.Options{Writer: &buf, Color: "never"}).
		Report(context.Background(), result)
	require.NoError(t, err)

	first, _, _ := strings.Cut(buf.String(), "\n")
	assert.True(t, strings.HasPrefix(first, "  ..."))
	assert.True(t, strings.HasSuffix(first, "3 lines"))
	assert.Contains(t, first, "x.blade.php")
	assert.LessOrEqual(t, len(first), 80)
}
