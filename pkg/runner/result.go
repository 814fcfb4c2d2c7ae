package runner

// FileOutcome pairs a path with its pipeline result or error.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Result contains the pipeline result for this file.
	// Nil if the file encountered an error during processing.
	Result *PipelineResult

	// Error is set if the file could not be processed.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the total number of files found during discovery.
	FilesDiscovered int

	// FilesProcessed is the number of files processed without error.
	FilesProcessed int

	// FilesSkipped is the number of files left alone (disabled, not a
	// template, or modified concurrently).
	FilesSkipped int

	// FilesErrored is the number of files that encountered errors.
	FilesErrored int

	// FilesChanged is the number of files whose formatting differs.
	FilesChanged int

	// FilesWritten is the number of files rewritten on disk.
	FilesWritten int

	// BackupsCreated is the number of sidecar backups written.
	BackupsCreated int

	// LinesChanged is the number of re-indented lines across all files.
	LinesChanged int
}

// Result is the overall runner result.
type Result struct {
	// Files contains the outcome for each processed file, ordered by path.
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats
}

// NewResult builds a Result from outcomes produced outside Run, such as
// standard input or a single-file line range.
func NewResult(discovered int, outcomes []FileOutcome) *Result {
	result := &Result{Stats: Stats{FilesDiscovered: discovered}}
	for _, outcome := range outcomes {
		result.accumulate(outcome)
	}
	return result
}

// HasChanges reports whether any file needs (or received) formatting.
func (r *Result) HasChanges() bool {
	return r != nil && r.Stats.FilesChanged > 0
}

// HasErrors reports whether any file failed to process.
func (r *Result) HasErrors() bool {
	return r != nil && r.Stats.FilesErrored > 0
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}
	if outcome.Result == nil {
		return
	}

	r.Stats.FilesProcessed++

	pr := outcome.Result
	if pr.Skipped {
		r.Stats.FilesSkipped++
	}
	if pr.Changed() {
		r.Stats.FilesChanged++
		r.Stats.LinesChanged += pr.LinesChanged()
	}
	if pr.Written {
		r.Stats.FilesWritten++
	}
	if pr.BackupCreated {
		r.Stats.BackupsCreated++
	}
}
