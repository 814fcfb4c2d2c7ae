package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/bladefmt/internal/logging"
	"github.com/yaklabco/bladefmt/pkg/bladeast"
	"github.com/yaklabco/bladefmt/pkg/config"
	"github.com/yaklabco/bladefmt/pkg/format"
	"github.com/yaklabco/bladefmt/pkg/indent"
)

// ErrLineOutOfRange is returned when --line names a line the template does
// not have.
var ErrLineOutOfRange = errors.New("line out of range")

// styleFlags are the indentation overrides shared by indent and debug.
type styleFlags struct {
	indentWidth int
	tabs        bool
}

func (f *styleFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.indentWidth, "indent-width", 0, "columns per indentation level")
	cmd.Flags().BoolVar(&f.tabs, "tabs", false, "indent with tabs instead of spaces")
}

// cliConfig returns the overrides for the flags that were set.
func (f *styleFlags) cliConfig(cmd *cobra.Command) *config.Config {
	cfg := &config.Config{}
	if cmd.Flags().Changed("indent-width") {
		cfg.IndentWidth = f.indentWidth
	}
	if cmd.Flags().Changed("tabs") {
		cfg.UseTabs = config.Bool(f.tabs)
	}
	return cfg
}

type indentFlags struct {
	styleFlags

	line   int
	column bool
}

func newIndentCommand(globals *globalFlags) *cobra.Command {
	flags := &indentFlags{}

	cmd := &cobra.Command{
		Use:   "indent --line N [file]",
		Short: "Auto-indent a single line",
		Long: `Re-indent one line the way an editor does after Enter is pressed.

The template is parsed in live mode, so a line that was just typed inside an
open block is indented even though the block is not yet closed. The whole
template is printed with only that line changed; --column prints just the
target indentation column instead.

Reads standard input when no file is given.

Examples:
  bladefmt indent --line 12 resources/views/welcome.blade.php
  bladefmt indent --line 3 --column < page.blade.php`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndent(cmd, args, globals, flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&flags.line, "line", 0, "1-based line number to indent (required)")
	cmd.Flags().BoolVar(&flags.column, "column", false,
		"print the target column (tab count with --tabs) instead of the template")
	_ = cmd.MarkFlagRequired("line")

	return cmd
}

func runIndent(cmd *cobra.Command, args []string, globals *globalFlags, flags *indentFlags) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	content, path, err := readInput(ctx, cmd, args)
	if err != nil {
		return err
	}

	workDir, err := workingDir()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(ctx, globals, configDir(path, workDir), flags.cliConfig(cmd))
	if err != nil {
		return err
	}

	lines := bladeast.BuildLines(content)
	if flags.line < 1 || flags.line > len(lines) {
		return &ExitError{
			Code: ExitFailure,
			Err:  fmt.Errorf("%w: line %d of %d", ErrLineOutOfRange, flags.line, len(lines)),
		}
	}

	if flags.column {
		col := targetColumn(content, flags.line, cfg)
		if !cfg.IndentEnabled() {
			logger.Warn("auto-indentation is disabled in configuration")
			col = currentColumn(content, lines[flags.line-1], cfg)
		}
		return writeString(cmd.OutOrStdout(), fmt.Sprintf("%d\n", col))
	}

	service := format.NewService(format.StaticStore{Prefs: format.SettingsFromConfig(cfg)})
	doc := format.NewStringDocument(string(content))

	res, err := service.IndentLine(ctx, doc, lines[flags.line-1].StartOffset)
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}
	if res.Skipped {
		logger.Warn("auto-indentation is disabled in configuration")
	}
	logger.Debug("indented line", logging.FieldLine, flags.line, logging.FieldApplied, res.Applied)

	return writeString(cmd.OutOrStdout(), doc.String())
}

// targetColumn returns the live-mode indentation column for line, or 0 when
// no construct claims it.
func targetColumn(content []byte, line int, cfg *config.Config) int {
	width := cfg.Width()
	if cfg.TabsEnabled() {
		width = 1
	}
	for _, rec := range indent.CalculateSource(content, true) {
		if rec.Line == line {
			return rec.Column(width)
		}
	}
	return 0
}

// currentColumn measures the existing leading whitespace of line in the
// same unit targetColumn reports.
func currentColumn(content []byte, line bladeast.LineInfo, cfg *config.Config) int {
	col := 0
	for _, ch := range content[line.StartOffset:line.IndentEnd] {
		if ch == '\t' {
			col += cfg.Width()
		} else {
			col++
		}
	}
	if cfg.TabsEnabled() {
		return col / cfg.Width()
	}
	return col
}
