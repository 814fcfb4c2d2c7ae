package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/bladefmt/internal/configloader"
	"github.com/yaklabco/bladefmt/internal/logging"
	"github.com/yaklabco/bladefmt/pkg/config"
)

type initFlags struct {
	styleFlags

	force  bool
	format string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a bladefmt configuration file",
		Long: `Write a commented .bladefmt.yml with the default settings to the current
directory. --indent-width and --tabs record the project's indentation style
in the generated file.

Examples:
  bladefmt init                      Create .bladefmt.yml
  bladefmt init --format toml        Create .bladefmt.toml instead
  bladefmt init --indent-width 2     Two columns per level
  bladefmt init --output custom.yml  Write to a custom file path`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runInit(flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing configuration file")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "file format: yaml or toml")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "",
		"output file path (default: .bladefmt.yml or .bladefmt.toml)")

	return cmd
}

func runInit(flags *initFlags) error {
	logger := logging.NewInteractive()

	if flags.format != "yaml" && flags.format != "toml" {
		return usageError(fmt.Sprintf("invalid format %q: must be yaml or toml", flags.format))
	}
	if flags.indentWidth != 0 &&
		(flags.indentWidth < config.MinIndentWidth || flags.indentWidth > config.MaxIndentWidth) {
		return usageError(fmt.Sprintf("--indent-width must be between %d and %d",
			config.MinIndentWidth, config.MaxIndentWidth))
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = ".bladefmt." + map[string]string{"yaml": "yml", "toml": "toml"}[flags.format]
	}
	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if flags.force {
		if err := os.Remove(absPath); err == nil {
			logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove existing file: %w", err)
		}
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Format:      flags.format,
		IndentWidth: flags.indentWidth,
		UseTabs:     flags.tabs,
	})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if err := configloader.WriteConfig(absPath, content); err != nil {
		if errors.Is(err, os.ErrExist) {
			return usageError(fmt.Sprintf("file %q already exists; use --force to overwrite", outputPath))
		}
		return &ExitError{Code: ExitFailure, Err: err}
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	return nil
}
