package cli

import (
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/yaklabco/bladefmt/internal/configloader"
	"github.com/yaklabco/bladefmt/internal/ui/pretty"
)

const helpTemplates = `{{define "usage"}}{{heading "Usage:"}}
{{- if .Runnable}}
  {{command .UseLine}}{{end}}
{{- if .HasAvailableSubCommands}}
  {{command .CommandPath}} [command]{{end}}
{{- if gt (len .Aliases) 0}}

{{heading "Aliases:"}}
  {{dim (join .Aliases ", ")}}{{end}}
{{- if .HasExample}}

{{heading "Examples:"}}
{{dim .Example}}{{end}}
{{- if .HasAvailableSubCommands}}

{{heading "Commands:"}}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{subcommand (rpad .Name .NamePadding)}} {{.Short}}{{end}}{{end}}{{end}}
{{- if .HasAvailableLocalFlags}}

{{heading "Flags:"}}
{{flags .LocalFlags}}{{end}}
{{- if .HasAvailableInheritedFlags}}

{{heading "Global Flags:"}}
{{flags .InheritedFlags}}{{end}}
{{- if not .HasParent}}

{{heading "Environment:"}}
{{environment}}

{{heading "Exit Codes:"}}
{{exitCodes}}{{end}}
{{- if .HasAvailableSubCommands}}

Use "{{command (print .CommandPath " [command] --help")}}" for more information about a command.{{end}}
{{end}}

{{- define "help"}}{{with (or .Long .Short)}}{{trimRight .}}

{{end}}{{template "usage" .}}{{end}}`

// helpRenderer prints cobra help and usage with the report styles.
// Styles are chosen when help is printed, after --color has been parsed.
type helpRenderer struct {
	globals *globalFlags
	styles  *pretty.Styles
}

// applyHelp installs styled help and usage output on root and, through
// inheritance, on every subcommand.
func applyHelp(root *cobra.Command, globals *globalFlags) {
	h := &helpRenderer{globals: globals, styles: pretty.NewStyles(false)}
	tmpl := template.Must(template.New("bladefmt").Funcs(h.funcs()).Parse(helpTemplates))

	root.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		h.resolve(cmd)
		if err := tmpl.ExecuteTemplate(cmd.OutOrStdout(), "help", cmd); err != nil {
			cmd.PrintErrln(err)
		}
	})
	root.SetUsageFunc(func(cmd *cobra.Command) error {
		h.resolve(cmd)
		if err := tmpl.ExecuteTemplate(cmd.OutOrStderr(), "usage", cmd); err != nil {
			return fmt.Errorf("render usage: %w", err)
		}
		return nil
	})
}

func (h *helpRenderer) resolve(cmd *cobra.Command) {
	h.styles = pretty.NewStyles(pretty.IsColorEnabled(h.globals.color, cmd.OutOrStdout()))
}

func (h *helpRenderer) funcs() template.FuncMap {
	return template.FuncMap{
		"heading":     func(s string) string { return h.styles.Bold.Render(s) },
		"command":     func(s string) string { return h.styles.Info.Render(s) },
		"subcommand":  func(s string) string { return h.styles.Success.Render(s) },
		"dim":         func(s string) string { return h.styles.Dim.Render(s) },
		"flags":       h.flags,
		"environment": h.environment,
		"exitCodes":   h.exitCodes,
		"rpad":        rpad,
		"join":        strings.Join,
		"trimRight":   func(s string) string { return strings.TrimRight(s, " \t\n") },
	}
}

// flags styles the flag names of a pflag usage block. pflag aligns the
// descriptions, and styling leaves the visible width unchanged.
func (h *helpRenderer) flags(set interface{ FlagUsages() string }) string {
	lines := strings.Split(strings.TrimRight(set.FlagUsages(), "\n"), "\n")
	for i, line := range lines {
		body := strings.TrimLeft(line, " ")
		names, desc, ok := strings.Cut(body, "  ")
		if !ok || !strings.HasPrefix(names, "-") {
			continue
		}
		lines[i] = line[:len(line)-len(body)] + h.styles.Label.Render(names) + "  " + desc
	}
	return strings.Join(lines, "\n")
}

// environment lists the BLADEFMT_* variables understood by the config loader.
func (h *helpRenderer) environment() string {
	vars := configloader.ListEnvVars()
	width := 0
	for _, v := range vars {
		width = max(width, len(v.Name))
	}

	lines := make([]string, 0, len(vars))
	for _, v := range vars {
		lines = append(lines, "  "+h.styles.Label.Render(rpad(v.Name, width))+"   "+v.Description)
	}
	return strings.Join(lines, "\n")
}

func (h *helpRenderer) exitCodes() string {
	codes := []struct {
		code int
		desc string
	}{
		{ExitSuccess, "all templates formatted"},
		{ExitUnformatted, "--check found templates that need formatting"},
		{ExitFailure, "usage, configuration or I/O error"},
	}

	lines := make([]string, 0, len(codes))
	for _, c := range codes {
		lines = append(lines, "  "+h.styles.Label.Render(strconv.Itoa(c.code))+"   "+c.desc)
	}
	return strings.Join(lines, "\n")
}

func rpad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
