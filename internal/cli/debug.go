package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/bladefmt/internal/ui/pretty"
	"github.com/yaklabco/bladefmt/pkg/bladeast"
	"github.com/yaklabco/bladefmt/pkg/indent"
	"github.com/yaklabco/bladefmt/pkg/parser/blade"
)

// debugTextWidth is the number of source bytes shown per record row.
const debugTextWidth = 40

type debugFlags struct {
	live bool
	tree bool
}

func newDebugCommand(globals *globalFlags) *cobra.Command {
	flags := &debugFlags{}

	cmd := &cobra.Command{
		Use:   "debug [file]",
		Short: "Show the indentation records of a template",
		Long: `Print one row per claimed line: the combined level, the Blade and HTML
nesting that make it up, the event that claimed the line and the construct
behind it. Frozen lines (raw blocks, <pre>, multi-line tags) are marked.
--tree prints the parsed syntax tree instead.

Reads standard input when no file is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDebug(cmd, args, globals, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.live, "live", false, "parse in live mode, as auto-indent does")
	cmd.Flags().BoolVar(&flags.tree, "tree", false, "print the syntax tree instead of line records")

	return cmd
}

func runDebug(cmd *cobra.Command, args []string, globals *globalFlags, flags *debugFlags) error {
	ctx := commandContext(cmd)

	content, path, err := readInput(ctx, cmd, args)
	if err != nil {
		return err
	}

	tpl, err := blade.New(blade.Options{Live: flags.live}).Parse(ctx, path, content)
	if err != nil {
		return fmt.Errorf("parse template: %w", err)
	}

	out := cmd.OutOrStdout()
	styles := pretty.NewStyles(pretty.IsColorEnabled(globals.color, out))

	var builder strings.Builder
	if flags.tree {
		writeTree(&builder, styles, tpl)
	} else {
		writeRecords(&builder, styles, tpl, indent.Calculate(tpl))
	}
	return writeString(out, builder.String())
}

func writeRecords(w io.StringWriter, styles *pretty.Styles, tpl *bladeast.Template, records []indent.Record) {
	header := fmt.Sprintf("%5s  %5s  %5s  %4s  %-15s  %-16s  %s",
		"LINE", "LEVEL", "BLADE", "HTML", "CLAIM", "LABEL", "TEXT")
	_, _ = w.WriteString(styles.Bold.Render(header) + "\n")

	for _, rec := range records {
		line, _ := tpl.Line(rec.Line)
		text := string(tpl.Content[line.IndentEnd:line.NewlineStart])
		if len(text) > debugTextWidth {
			text = text[:debugTextWidth-3] + "..."
		}

		row := fmt.Sprintf("%5d  %5d  %5d  %4d  %-15s  %-16s  %s",
			rec.Line, rec.Level(), rec.Indent, rec.HTMLIndent, rec.Claim, rec.Label, text)
		if line.Frozen {
			row = styles.Dim.Render(row + "  (frozen)")
		}
		_, _ = w.WriteString(row + "\n")
	}
}

func writeTree(w io.StringWriter, styles *pretty.Styles, tpl *bladeast.Template) {
	depth := 0
	//nolint:errcheck // callbacks never fail
	bladeast.WalkWithContext(tpl.Root,
		func(n *bladeast.Node) error {
			label := n.Kind.String()
			if n.Name != "" {
				label += " " + styles.Label.Render(n.Name)
			}
			loc := strconv.Itoa(tpl.LineAt(n.Span.StartOffset))
			if n.Closed {
				loc += "-" + strconv.Itoa(tpl.LineAt(n.End.StartOffset))
			}
			_, _ = w.WriteString(strings.Repeat("  ", depth) + label + " " + styles.Location.Render(loc) + "\n")
			if n.HasChildren() {
				depth++
			}
			return nil
		},
		func(n *bladeast.Node) error {
			if n.HasChildren() {
				depth--
			}
			return nil
		},
	)
}
