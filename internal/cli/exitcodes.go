package cli

import (
	"errors"
	"fmt"

	"github.com/yaklabco/bladefmt/pkg/runner"
)

// Exit codes for bladefmt.
const (
	// ExitSuccess indicates every template is formatted (or was written).
	ExitSuccess = 0

	// ExitUnformatted indicates --check found templates that need formatting.
	ExitUnformatted = 1

	// ExitFailure indicates a usage, configuration or I/O error.
	ExitFailure = 2
)

// ErrUnformatted is returned by fmt --check when templates need formatting.
// The reporter has already described them, so callers should not log it.
var ErrUnformatted = errors.New("templates need formatting")

// ErrFilesFailed is returned when one or more files could not be processed.
// Per-file errors have already been reported.
var ErrFilesFailed = errors.New("some files could not be formatted")

// ExitError carries a specific exit code out of a command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// Reported reports whether err was already written to the user by a
// reporter, so main should exit without logging it again.
func Reported(err error) bool {
	return errors.Is(err, ErrUnformatted) || errors.Is(err, ErrFilesFailed)
}

// ExitCode maps an error returned from the root command to a process exit
// code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if errors.Is(err, ErrUnformatted) {
		return ExitUnformatted
	}
	return ExitFailure
}

// ExitCodeFromResult determines the exit code of a run. Errored files take
// precedence; unformatted files only fail the run in check mode.
func ExitCodeFromResult(result *runner.Result, check bool) int {
	if result == nil {
		return ExitSuccess
	}
	if result.HasErrors() {
		return ExitFailure
	}
	if check && result.Stats.FilesChanged > result.Stats.FilesWritten {
		return ExitUnformatted
	}
	return ExitSuccess
}

// resultError converts a run's exit code into the error a command returns.
func resultError(result *runner.Result, check bool) error {
	switch ExitCodeFromResult(result, check) {
	case ExitFailure:
		return &ExitError{Code: ExitFailure, Err: ErrFilesFailed}
	case ExitUnformatted:
		return &ExitError{Code: ExitUnformatted, Err: ErrUnformatted}
	default:
		return nil
	}
}
