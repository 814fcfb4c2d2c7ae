package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/bladefmt/internal/configloader"
	"github.com/yaklabco/bladefmt/internal/logging"
	"github.com/yaklabco/bladefmt/pkg/format"
	"github.com/yaklabco/bladefmt/pkg/lsp"
)

func newLSPCommand(globals *globalFlags, info BuildInfo) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Run the Blade formatting language server on stdio",
		Long: `Serve document formatting, range formatting and on-type formatting
(auto-indent after Enter) over the Language Server Protocol on stdin/stdout.

Configuration is resolved per document from the document's directory and
re-read on every request, so edits to .bladefmt.yml apply immediately.
Client formatting options (tabSize, insertSpaces) take precedence.
Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLSP(cmd, globals, info)
		},
	}

	return cmd
}

func runLSP(cmd *cobra.Command, globals *globalFlags, info BuildInfo) error {
	level := "info"
	verbosity := 0
	if globals.debug {
		level = "debug"
		verbosity = 2
	}
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), level)

	workDir, err := workingDir()
	if err != nil {
		return err
	}

	server := lsp.NewServer(lsp.Options{
		Version: info.Version,
		StoreFor: func(path string) format.PreferenceStore {
			return configloader.NewLiveStore(configloader.LoadOptions{
				WorkingDir:   configDir(path, workDir),
				ExplicitPath: globals.configPath,
			})
		},
		Logger:    logger,
		Verbosity: verbosity,
	})

	logger.Info("starting language server", logging.FieldVersion, info.Version)
	if err := server.RunStdio(); err != nil {
		return fmt.Errorf("language server: %w", err)
	}
	return nil
}
