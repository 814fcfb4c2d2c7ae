package cli_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/bladefmt/internal/cli"
	"github.com/yaklabco/bladefmt/pkg/fix"
	"github.com/yaklabco/bladefmt/pkg/runner"
)

func testInfo() cli.BuildInfo {
	return cli.BuildInfo{Version: "test", Commit: "test", Date: "test"}
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	require.NotNil(t, cmd)

	assert.Equal(t, "bladefmt", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	for _, name := range []string{"debug", "color", "config"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "persistent flag %q", name)
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, name := range []string{"fmt", "indent", "debug", "lsp", "watch", "init", "version"} {
		subCmd, _, err := cmd.Find([]string{name})
		require.NoError(t, err, "subcommand %q", name)
		assert.Equal(t, name, subCmd.Name())
	}
}

func TestFmtCommandFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	fmtCmd, _, err := cmd.Find([]string{"fmt"})
	require.NoError(t, err)

	flags := map[string]string{
		"write":          "w",
		"check":          "",
		"format":         "",
		"indent-width":   "",
		"tabs":           "",
		"jobs":           "j",
		"ignore":         "",
		"no-backups":     "",
		"stdin":          "",
		"stdin-filename": "",
		"lines":          "",
		"markdown":       "",
		"verbose":        "v",
	}
	for name, short := range flags {
		flag := fmtCmd.Flags().Lookup(name)
		require.NotNil(t, flag, "flag %q", name)
		assert.Equal(t, short, flag.Shorthand, "shorthand of %q", name)
	}
}

func TestIndentCommandRequiresLine(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	indentCmd, _, err := cmd.Find([]string{"indent"})
	require.NoError(t, err)

	flag := indentCmd.Flags().Lookup("line")
	require.NotNil(t, flag)
	assert.Equal(t, []string{"true"}, flag.Annotations[cobra.BashCompOneRequiredFlag])
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, cli.ExitSuccess},
		{"unformatted", cli.ErrUnformatted, cli.ExitUnformatted},
		{"wrapped unformatted", fmt.Errorf("run: %w", cli.ErrUnformatted), cli.ExitUnformatted},
		{"explicit code", &cli.ExitError{Code: cli.ExitUnformatted}, cli.ExitUnformatted},
		{"plain error", errors.New("boom"), cli.ExitFailure},
		{"failure", &cli.ExitError{Code: cli.ExitFailure, Err: errors.New("bad config")}, cli.ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, cli.ExitCode(tt.err))
		})
	}
}

func TestExitError(t *testing.T) {
	t.Parallel()

	inner := errors.New("bad config")
	err := &cli.ExitError{Code: cli.ExitFailure, Err: inner}
	assert.Equal(t, "bad config", err.Error())
	require.ErrorIs(t, err, inner)

	assert.Equal(t, "exit status 1", (&cli.ExitError{Code: 1}).Error())
}

func TestReported(t *testing.T) {
	t.Parallel()

	assert.True(t, cli.Reported(&cli.ExitError{Code: cli.ExitUnformatted, Err: cli.ErrUnformatted}))
	assert.True(t, cli.Reported(cli.ErrFilesFailed))
	assert.False(t, cli.Reported(errors.New("boom")))
	assert.False(t, cli.Reported(nil))
}

func TestExitCodeFromResult(t *testing.T) {
	t.Parallel()

	changed := &runner.PipelineResult{Path: "a.blade.php"}
	changed.Edits = make([]fix.TextEdit, 1)
	written := &runner.PipelineResult{Path: "b.blade.php", Written: true}
	written.Edits = make([]fix.TextEdit, 1)

	tests := []struct {
		name     string
		outcomes []runner.FileOutcome
		check    bool
		want     int
	}{
		{"empty", nil, true, cli.ExitSuccess},
		{"unformatted without check", []runner.FileOutcome{{Path: "a", Result: changed}}, false, cli.ExitSuccess},
		{"unformatted with check", []runner.FileOutcome{{Path: "a", Result: changed}}, true, cli.ExitUnformatted},
		{"written with check", []runner.FileOutcome{{Path: "b", Result: written}}, true, cli.ExitSuccess},
		{"errored", []runner.FileOutcome{{Path: "c", Error: errors.New("denied")}}, false, cli.ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := runner.NewResult(len(tt.outcomes), tt.outcomes)
			assert.Equal(t, tt.want, cli.ExitCodeFromResult(result, tt.check))
		})
	}

	assert.Equal(t, cli.ExitSuccess, cli.ExitCodeFromResult(nil, true))
}
