// Package cli provides the Cobra command structure for bladefmt.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/bladefmt/internal/configloader"
	"github.com/yaklabco/bladefmt/internal/logging"
	"github.com/yaklabco/bladefmt/pkg/config"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	debug      bool
	configPath string
	color      string
}

// NewRootCommand creates the root bladefmt command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	globals := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "bladefmt",
		Short: "An indentation formatter for Laravel Blade templates",
		Long: `bladefmt re-indents Laravel Blade templates.

It understands Blade directives (@if, @foreach, @section and friends), HTML
element nesting and the regions that must never be touched: {{-- comments --}},
@verbatim and @php blocks, <script>, <style> and <pre> bodies. Only leading
whitespace is changed. bladefmt can format files in place, check them in CI,
watch a directory, or serve editors over the Language Server Protocol.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if globals.debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&globals.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&globals.configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&globals.color, "color", "auto",
		"colorize output: auto, always, never")

	// Add subcommands.
	rootCmd.AddCommand(newFmtCommand(globals))
	rootCmd.AddCommand(newIndentCommand(globals))
	rootCmd.AddCommand(newDebugCommand(globals))
	rootCmd.AddCommand(newLSPCommand(globals, info))
	rootCmd.AddCommand(newWatchCommand(globals))
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	applyHelp(rootCmd, globals)

	return rootCmd
}

// commandContext returns the command's context, or a background context
// when the command was executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadConfig resolves the layered configuration for workDir with cliCfg on
// top, logging any warnings. Failures are usage errors.
func loadConfig(ctx context.Context, globals *globalFlags, workDir string, cliCfg *config.Config) (*config.Config, error) {
	logger := logging.FromContext(ctx)

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: globals.configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, &ExitError{
			Code: ExitFailure,
			Err:  errors.Join(errors.New("failed to load configuration"), err),
		}
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, loadResult.LoadedFrom)
	}

	cfg := loadResult.Config
	logger.Debug("configuration loaded",
		logging.FieldIndentWidth, cfg.Width(),
		logging.FieldUseTabs, cfg.TabsEnabled(),
		logging.FieldWrite, cfg.Write,
		logging.FieldCheck, cfg.Check,
		logging.FieldJobs, cfg.Jobs,
	)
	return cfg, nil
}

// workingDir returns the process working directory.
func workingDir() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return wd, nil
}
