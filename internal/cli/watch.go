package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yaklabco/bladefmt/internal/logging"
	"github.com/yaklabco/bladefmt/pkg/config"
	"github.com/yaklabco/bladefmt/pkg/runner"
	"github.com/yaklabco/bladefmt/pkg/watch"
)

type watchFlags struct {
	styleFlags

	debounce time.Duration
	ignore   []string
	markdown bool
}

func newWatchCommand(globals *globalFlags) *cobra.Command {
	cliCfg := &config.Config{}
	flags := &watchFlags{}

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Re-indent templates as they are saved",
		Long: `Watch a directory tree and rewrite each Blade template shortly after it
changes. Hidden directories, vendor/, node_modules/, storage/ and ignored
paths are not watched. Backups follow the usual configuration.

Stops on Ctrl-C.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args, globals, cliCfg, flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().DurationVar(&flags.debounce, "debounce", watch.DefaultDebounce,
		"quiet period after the last change before a file is formatted")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "additional glob patterns to ignore")
	cmd.Flags().BoolVar(&cliCfg.NoBackups, "no-backups", false, "do not keep a backup when writing")
	cmd.Flags().BoolVar(&flags.markdown, "markdown", false, "also format blade fences in Markdown files")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string, globals *globalFlags, cliCfg *config.Config, flags *watchFlags) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	overrides := flags.cliConfig(cmd)
	overrides.NoBackups = cliCfg.NoBackups
	if cmd.Flags().Changed("markdown") {
		overrides.Markdown = config.Bool(flags.markdown)
	}

	cfg, err := loadConfig(ctx, globals, root, overrides)
	if err != nil {
		return err
	}

	logger := logging.NewInteractive()
	if globals.debug {
		logger.SetLevel(logging.Default().GetLevel())
	}
	ctx = logging.WithLogger(ctx, logger)

	watcher, err := watch.New(watch.Options{
		Root:         root,
		Debounce:     flags.debounce,
		ExcludeGlobs: append(cfg.Ignore, flags.ignore...),
		Pipeline:     runner.PipelineOptionsFromConfig(cfg),
	})
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}

	if err := watcher.Run(ctx); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	logger.Info("stopped watching")
	return nil
}
