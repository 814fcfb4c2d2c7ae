// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldWorkingDir = "working_dir"

	// Configuration fields.
	FieldConfig      = "config"
	FieldIndentWidth = "indent_width"
	FieldUseTabs     = "use_tabs"
	FieldWrite       = "write"
	FieldCheck       = "check"
	FieldJobs        = "jobs"

	// Formatting fields.
	FieldLine      = "line"
	FieldOffset    = "offset"
	FieldLength    = "length"
	FieldEdits     = "edits"
	FieldApplied   = "applied"
	FieldTextDelta = "text_delta"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesProcessed  = "files_processed"
	FieldFilesChanged    = "files_changed"
	FieldLinesChanged    = "lines_changed"

	// Server fields.
	FieldURI     = "uri"
	FieldMethod  = "method"
	FieldEvent   = "event"
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
