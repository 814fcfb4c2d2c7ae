package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/bladefmt/internal/ui/pretty"
	"github.com/yaklabco/bladefmt/pkg/fsutil"
)

// ErrNoInput is returned when a command needs a template but was given
// neither a file nor piped standard input.
var ErrNoInput = errors.New("no input: pass a file or pipe a template on standard input")

// readInput reads the template named by args, or standard input when args
// is empty or "-". It returns the content and the absolute path (empty for
// stdin).
func readInput(ctx context.Context, cmd *cobra.Command, args []string) ([]byte, string, error) {
	if len(args) == 0 || args[0] == "-" {
		in := cmd.InOrStdin()
		if f, ok := in.(*os.File); ok && pretty.IsTerminal(f) {
			return nil, "", &ExitError{Code: ExitFailure, Err: ErrNoInput}
		}
		content, err := fsutil.ReadAll(ctx, in)
		if err != nil {
			return nil, "", &ExitError{Code: ExitFailure, Err: fmt.Errorf("read standard input: %w", err)}
		}
		return content, "", nil
	}

	path, err := filepath.Abs(args[0])
	if err != nil {
		return nil, "", fmt.Errorf("resolve path: %w", err)
	}
	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, "", &ExitError{Code: ExitFailure, Err: err}
	}
	return content, path, nil
}

// configDir returns the directory config discovery should start from for
// path, falling back to workDir for stdin.
func configDir(path, workDir string) string {
	if path == "" {
		return workDir
	}
	return filepath.Dir(path)
}

// writeString writes s to w, wrapping any error.
func writeString(w io.Writer, s string) error {
	if _, err := io.WriteString(w, s); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
