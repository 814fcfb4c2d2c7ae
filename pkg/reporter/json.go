package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/bladefmt/pkg/runner"
)

// jsonSchemaVersion is bumped whenever JSONOutput changes incompatibly.
const jsonSchemaVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path          string     `json:"path"`
	Kind          string     `json:"kind,omitempty"`
	Status        string     `json:"status"`
	Changed       bool       `json:"changed"`
	Written       bool       `json:"written,omitempty"`
	BackupCreated bool       `json:"backupCreated,omitempty"`
	LinesChanged  int        `json:"linesChanged"`
	Edits         []JSONEdit `json:"edits,omitempty"`
	Error         string     `json:"error,omitempty"`
}

// JSONEdit represents one whitespace replacement.
type JSONEdit struct {
	Line        int    `json:"line"`
	StartOffset int    `json:"startOffset"`
	EndOffset   int    `json:"endOffset"`
	NewText     string `json:"newText"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesDiscovered int `json:"filesDiscovered"`
	FilesChecked    int `json:"filesChecked"`
	FilesSkipped    int `json:"filesSkipped"`
	FilesChanged    int `json:"filesChanged"`
	FilesWritten    int `json:"filesWritten"`
	FilesErrored    int `json:"filesErrored"`
	BackupsCreated  int `json:"backupsCreated"`
	LinesChanged    int `json:"linesChanged"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.FilesChanged, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonSchemaVersion,
		Files:   make([]JSONFileResult, 0),
	}

	if result == nil {
		return output
	}

	output.Files = make([]JSONFileResult, 0, len(result.Files))
	for _, file := range result.Files {
		output.Files = append(output.Files, r.buildFile(file))
	}

	stats := result.Stats
	output.Summary = JSONSummary{
		FilesDiscovered: stats.FilesDiscovered,
		FilesChecked:    stats.FilesProcessed,
		FilesSkipped:    stats.FilesSkipped,
		FilesChanged:    stats.FilesChanged,
		FilesWritten:    stats.FilesWritten,
		FilesErrored:    stats.FilesErrored,
		BackupsCreated:  stats.BackupsCreated,
		LinesChanged:    stats.LinesChanged,
	}

	return output
}

func (r *JSONReporter) buildFile(file runner.FileOutcome) JSONFileResult {
	out := JSONFileResult{Path: r.opts.displayPath(file.Path)}

	if file.Error != nil {
		out.Status = "error"
		out.Error = file.Error.Error()
		return out
	}
	res := file.Result
	if res == nil {
		out.Status = "error"
		return out
	}

	out.Kind = res.Kind.String()
	out.Status = res.Summary()
	out.Changed = res.Changed()
	out.Written = res.Written
	out.BackupCreated = res.BackupCreated
	out.LinesChanged = res.LinesChanged()

	for _, edit := range res.Edits {
		out.Edits = append(out.Edits, JSONEdit{
			Line:        edit.Line,
			StartOffset: edit.StartOffset,
			EndOffset:   edit.EndOffset,
			NewText:     edit.NewText,
		})
	}

	return out
}
