package cli

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/bladefmt/internal/logging"
	"github.com/yaklabco/bladefmt/pkg/config"
	"github.com/yaklabco/bladefmt/pkg/format"
	"github.com/yaklabco/bladefmt/pkg/fsutil"
	"github.com/yaklabco/bladefmt/pkg/reporter"
	"github.com/yaklabco/bladefmt/pkg/runner"
)

// ErrInvalidLines is returned for a malformed --lines value.
var ErrInvalidLines = errors.New("invalid --lines value")

type fmtFlags struct {
	format        string
	indentWidth   int
	tabs          bool
	markdown      bool
	ignore        []string
	stdin         bool
	stdinFilename string
	lines         string
	verbose       bool
	compact       bool
}

func newFmtCommand(globals *globalFlags) *cobra.Command {
	cliCfg := &config.Config{}
	flags := &fmtFlags{}

	cmd := &cobra.Command{
		Use:   "fmt [paths...]",
		Short: "Re-indent Blade templates",
		Long:  fmtLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(cmd, args, globals, cliCfg, flags)
		},
	}

	addFmtFlags(cmd, cliCfg, flags)

	return cmd
}

const fmtLongDescription = `Re-indent Blade templates.

By default, checks every *.blade.php file under the current directory and
reports the ones whose indentation would change. Use --write to rewrite them
in place (a .bladefmt.bak backup is kept unless --no-backups is given), or
--check to fail with exit code 1 when any template needs formatting.

Examples:
  bladefmt fmt                          # Report unformatted templates
  bladefmt fmt -w resources/views       # Rewrite templates in place
  bladefmt fmt --check                  # Fail CI when formatting is needed
  bladefmt fmt --format diff            # Show unified diffs
  bladefmt fmt --stdin < page.blade.php # Format standard input
  bladefmt fmt --lines 10:20 page.blade.php
  bladefmt fmt --markdown docs/         # Format blade fences in Markdown`

func addFmtFlags(cmd *cobra.Command, cfg *config.Config, flags *fmtFlags) {
	cmd.Flags().BoolVarP(&cfg.Write, "write", "w", false, "write formatted templates back to their files")
	cmd.Flags().BoolVar(&cfg.Check, "check", false, "exit with code 1 if any template needs formatting")
	cmd.Flags().StringVar(&flags.format, "format", "", "output format: text, json, diff, summary")
	cmd.Flags().IntVar(&flags.indentWidth, "indent-width", 0, "columns per indentation level")
	cmd.Flags().BoolVar(&flags.tabs, "tabs", false, "indent with tabs instead of spaces")
	cmd.Flags().IntVarP(&cfg.Jobs, "jobs", "j", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "additional glob patterns to ignore")
	cmd.Flags().BoolVar(&cfg.NoBackups, "no-backups", false, "do not keep a backup when writing")
	cmd.Flags().BoolVar(&flags.markdown, "markdown", false, "also format blade fences in Markdown files")
	cmd.Flags().BoolVar(&flags.stdin, "stdin", false, "read a template from standard input")
	cmd.Flags().StringVar(&flags.stdinFilename, "stdin-filename", "",
		"file name used to classify standard input and resolve config")
	cmd.Flags().StringVar(&flags.lines, "lines", "", "only re-indent lines FROM:TO (1-based, inclusive)")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "list every re-indented line")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output (json)")
}

func runFmt(cmd *cobra.Command, args []string, globals *globalFlags, cliCfg *config.Config, flags *fmtFlags) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	// Only values set on the command line override the config files.
	if cmd.Flags().Changed("format") {
		cliCfg.Output = config.OutputFormat(flags.format)
	}
	if cmd.Flags().Changed("indent-width") {
		cliCfg.IndentWidth = flags.indentWidth
	}
	if cmd.Flags().Changed("tabs") {
		cliCfg.UseTabs = config.Bool(flags.tabs)
	}
	if cmd.Flags().Changed("markdown") {
		cliCfg.Markdown = config.Bool(flags.markdown)
	}

	workDir, err := workingDir()
	if err != nil {
		return err
	}

	cfg, err := loadConfig(ctx, globals, workDir, cliCfg)
	if err != nil {
		return err
	}
	cfg.Ignore = append(cfg.Ignore, flags.ignore...)

	fromStdin := flags.stdin || (len(args) == 1 && args[0] == "-")
	if fromStdin && cfg.Write {
		return usageError("--write cannot be used with standard input")
	}

	region, err := parseLines(flags.lines)
	if err != nil {
		return usageError(err.Error())
	}
	if region != nil && !fromStdin && len(args) != 1 {
		return usageError("--lines requires exactly one file or --stdin")
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		ErrorWriter: cmd.ErrOrStderr(),
		Format:      cfg.Output,
		Color:       globals.color,
		ShowSummary: true,
		Verbose:     flags.verbose,
		Compact:     flags.compact,
		WorkingDir:  workDir,
	})
	if err != nil {
		return usageError(err.Error())
	}

	var result *runner.Result
	switch {
	case fromStdin:
		result, err = formatStdin(ctx, cmd, cfg, flags.stdinFilename, region)
		if err != nil || result == nil {
			return err
		}
	case region != nil:
		result = formatFileLines(ctx, args[0], cfg, region)
	default:
		opts := runner.OptionsFromConfig(cfg, args)
		opts.WorkingDir = workDir

		logger.Debug("starting format run",
			logging.FieldPaths, opts.Paths,
			logging.FieldWorkingDir, opts.WorkingDir,
			logging.FieldJobs, opts.Jobs,
		)

		result, err = runner.New(nil).Run(ctx, opts)
		if err != nil {
			return errors.Join(errors.New("format run failed"), err)
		}
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	return resultError(result, cfg.Check)
}

// formatStdin formats standard input. In plain text mode without --check
// the formatted template is written to stdout and no result is returned;
// otherwise the outcome is returned for the reporter.
func formatStdin(
	ctx context.Context,
	cmd *cobra.Command,
	cfg *config.Config,
	filename string,
	region *lineRange,
) (*runner.Result, error) {
	content, err := fsutil.ReadAll(ctx, cmd.InOrStdin())
	if err != nil {
		return nil, &ExitError{Code: ExitFailure, Err: fmt.Errorf("read standard input: %w", err)}
	}

	opts := runner.PipelineOptionsFromConfig(cfg)
	if region != nil {
		r, err := format.LinesRegion(content, region.from, region.to)
		if err != nil {
			return nil, usageError(err.Error())
		}
		opts.Format.Region = &r
	}

	res, err := runner.NewPipeline().ProcessContent(ctx, filename, content, opts)
	if err != nil {
		return nil, &ExitError{Code: ExitFailure, Err: err}
	}

	if cfg.Output == config.FormatText && !cfg.Check {
		if _, err := cmd.OutOrStdout().Write(res.Formatted); err != nil {
			return nil, fmt.Errorf("write standard output: %w", err)
		}
		return nil, nil
	}

	path := filename
	if path == "" {
		path = "<stdin>"
	}
	res.Path = path
	if res.Diff != nil {
		res.Diff.Path = path
	}
	return singleResult(runner.FileOutcome{Path: path, Result: res}), nil
}

// formatFileLines formats the given line range of a single file.
func formatFileLines(ctx context.Context, path string, cfg *config.Config, region *lineRange) *runner.Result {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return singleResult(runner.FileOutcome{Path: path, Error: err})
	}

	content, _, err := fsutil.ReadFile(ctx, absPath)
	if err != nil {
		return singleResult(runner.FileOutcome{Path: absPath, Error: err})
	}

	opts := runner.PipelineOptionsFromConfig(cfg)
	r, err := format.LinesRegion(content, region.from, region.to)
	if err != nil {
		return singleResult(runner.FileOutcome{Path: absPath, Error: err})
	}
	opts.Format.Region = &r

	res, err := runner.NewPipeline().ProcessFile(ctx, absPath, opts)
	return singleResult(runner.FileOutcome{Path: absPath, Result: res, Error: err})
}

// singleResult builds a run result for one file outcome.
func singleResult(outcome runner.FileOutcome) *runner.Result {
	return runner.NewResult(1, []runner.FileOutcome{outcome})
}

// lineRange is a 1-based inclusive line range from --lines.
type lineRange struct {
	from int
	to   int
}

// parseLines parses "FROM:TO", "FROM:" or "N". An empty value means no range.
func parseLines(value string) (*lineRange, error) {
	if value == "" {
		return nil, nil
	}

	fromStr, toStr, hasColon := strings.Cut(value, ":")
	from, err := strconv.Atoi(fromStr)
	if err != nil || from < 1 {
		return nil, fmt.Errorf("%w %q: start must be a positive line number", ErrInvalidLines, value)
	}

	to := from
	if hasColon {
		if toStr == "" {
			to = math.MaxInt
		} else if to, err = strconv.Atoi(toStr); err != nil || to < from {
			return nil, fmt.Errorf("%w %q: end must be a line number >= start", ErrInvalidLines, value)
		}
	}
	return &lineRange{from: from, to: to}, nil
}

func usageError(msg string) error {
	return &ExitError{Code: ExitFailure, Err: errors.New(msg)}
}
