// Package config defines core configuration types for bladefmt.
package config

// Default values for a fresh configuration.
const (
	DefaultIndentWidth = 4
	MinIndentWidth     = 1
	MaxIndentWidth     = 16
	DefaultBackupMode  = "sidecar"
)

// DefaultExtensions are the file suffixes treated as Blade templates.
//
//nolint:gochecknoglobals // Read-only defaults.
var DefaultExtensions = []string{".blade.php"}

// BackupsConfig controls backup behavior when writing formatted files.
type BackupsConfig struct {
	// Enabled controls whether backups are created before writing.
	Enabled bool `yaml:"enabled" toml:"enabled"`

	// Mode specifies the backup strategy: "sidecar" or "none".
	Mode string `yaml:"mode" toml:"mode"`
}

// OutputFormat specifies how formatting results are reported.
type OutputFormat string

// Supported output formats.
const (
	FormatText    OutputFormat = "text"
	FormatJSON    OutputFormat = "json"
	FormatDiff    OutputFormat = "diff"
	FormatSummary OutputFormat = "summary"
)

// IsValid returns true if the output format is one of the known values.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatDiff, FormatSummary:
		return true
	default:
		return false
	}
}

// Config is the root configuration for bladefmt.
type Config struct {
	// IndentWidth is the number of columns per indentation level.
	IndentWidth int `yaml:"indent_width,omitempty" toml:"indent_width,omitempty"`

	// UseTabs emits one tab per level instead of IndentWidth spaces.
	UseTabs *bool `yaml:"use_tabs,omitempty" toml:"use_tabs,omitempty"`

	// Indent enables live auto-indentation (editor integrations).
	Indent *bool `yaml:"indent,omitempty" toml:"indent,omitempty"`

	// Format enables whole-document and range formatting.
	Format *bool `yaml:"format,omitempty" toml:"format,omitempty"`

	// Extensions lists file suffixes treated as Blade templates.
	Extensions []string `yaml:"extensions,omitempty" toml:"extensions,omitempty"`

	// Ignore lists doublestar glob patterns for files to skip.
	Ignore []string `yaml:"ignore,omitempty" toml:"ignore,omitempty"`

	// Markdown formats ```blade fences inside Markdown files.
	Markdown *bool `yaml:"markdown,omitempty" toml:"markdown,omitempty"`

	// Jobs is the number of parallel workers (0 = auto).
	Jobs int `yaml:"jobs,omitempty" toml:"jobs,omitempty"`

	// Backups configures backup behavior when writing files.
	Backups BackupsConfig `yaml:"backups" toml:"backups"`

	// CLI-only options (not persisted to config files)

	// Write rewrites files in place instead of reporting.
	Write bool `yaml:"-" toml:"-"`

	// Check reports unformatted files and exits non-zero.
	Check bool `yaml:"-" toml:"-"`

	// Output is the report format.
	Output OutputFormat `yaml:"-" toml:"-"`

	// NoBackups disables backups regardless of Backups.Enabled.
	NoBackups bool `yaml:"-" toml:"-"`
}

// NewConfig creates a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		IndentWidth: DefaultIndentWidth,
		UseTabs:     boolPtr(false),
		Indent:      boolPtr(true),
		Format:      boolPtr(true),
		Extensions:  append([]string(nil), DefaultExtensions...),
		Markdown:    boolPtr(false),
		Backups: BackupsConfig{
			Enabled: true,
			Mode:    DefaultBackupMode,
		},
		Output: FormatText,
	}
}

// Width returns the indentation width, falling back to the default when unset.
func (c *Config) Width() int {
	if c == nil || c.IndentWidth <= 0 {
		return DefaultIndentWidth
	}
	return c.IndentWidth
}

// TabsEnabled reports whether tabs are used for indentation.
func (c *Config) TabsEnabled() bool {
	return c != nil && boolValue(c.UseTabs, false)
}

// IndentEnabled reports whether live auto-indentation is on.
func (c *Config) IndentEnabled() bool {
	return c == nil || boolValue(c.Indent, true)
}

// FormatEnabled reports whether document and range formatting is on.
func (c *Config) FormatEnabled() bool {
	return c == nil || boolValue(c.Format, true)
}

// MarkdownEnabled reports whether Blade fences in Markdown are formatted.
func (c *Config) MarkdownEnabled() bool {
	return c != nil && boolValue(c.Markdown, false)
}

// BackupsEnabled reports whether a backup is written before modifying a file.
func (c *Config) BackupsEnabled() bool {
	if c == nil || c.NoBackups {
		return false
	}
	return c.Backups.Enabled && c.Backups.Mode != "none"
}

// Bool returns a pointer to b, for populating optional fields.
func Bool(b bool) *bool {
	return boolPtr(b)
}

func boolPtr(b bool) *bool {
	return &b
}

func boolValue(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
