package config

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Format is the output format: "yaml" or "toml".
	Format string

	// IndentWidth seeds indent_width. Zero means DefaultIndentWidth.
	IndentWidth int

	// UseTabs seeds use_tabs.
	UseTabs bool
}

// GenerateTemplate creates a commented configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	var body string
	switch strings.ToLower(opts.Format) {
	case "", "yaml", "yml":
		body = yamlTemplate
	case "toml":
		body = tomlTemplate
	default:
		return nil, fmt.Errorf("unsupported template format %q; must be yaml or toml", opts.Format)
	}

	style := strings.NewReplacer(
		"$WIDTH", strconv.Itoa(cmp.Or(opts.IndentWidth, DefaultIndentWidth)),
		"$TABS", strconv.FormatBool(opts.UseTabs),
	)
	return []byte(DefaultTemplateHeader() + style.Replace(body)), nil
}

// DefaultTemplateHeader returns the comment header written at the top of
// generated config files.
func DefaultTemplateHeader() string {
	return `# bladefmt configuration
# See: https://github.com/yaklabco/bladefmt

`
}

const yamlTemplate = `# Columns per indentation level (1-16)
indent_width: $WIDTH

# Indent with tabs instead of spaces
use_tabs: $TABS

# Live auto-indentation for editor integrations
indent: true

# Whole-document and range formatting
format: true

# File suffixes treated as Blade templates
extensions:
  - ".blade.php"

# Format blade code fences inside Markdown files
# markdown: false

# Number of parallel workers (0 = auto)
# jobs: 0

# File patterns to ignore (doublestar globs)
# ignore:
#   - "vendor/**"
#   - "storage/**"

# Backups written before files are modified with --write
backups:
  enabled: true
  mode: sidecar
`

const tomlTemplate = `# Columns per indentation level (1-16)
indent_width = $WIDTH

# Indent with tabs instead of spaces
use_tabs = $TABS

# Live auto-indentation for editor integrations
indent = true

# Whole-document and range formatting
format = true

# File suffixes treated as Blade templates
extensions = [".blade.php"]

# Format blade code fences inside Markdown files
# markdown = false

# Number of parallel workers (0 = auto)
# jobs = 0

# File patterns to ignore (doublestar globs)
# ignore = ["vendor/**", "storage/**"]

# Backups written before files are modified with --write
[backups]
  enabled = true
  mode = "sidecar"
`
