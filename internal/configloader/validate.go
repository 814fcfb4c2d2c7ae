package configloader

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/yaklabco/bladefmt/pkg/config"
)

// ValidationError describes one invalid configuration value.
type ValidationError struct {
	// Field is the config key, e.g. "backups.mode" or "ignore[2]".
	Field string

	Value any

	Message string

	// FilePath is the config file the value came from, when known.
	FilePath string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, 3)
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	return strings.Join(append(parts, e.Message), ": ")
}

// ValidationResult collects the findings for one configuration. Errors stop
// loading; warnings are logged.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// Valid reports whether there are no errors.
func (r *ValidationResult) Valid() bool { return len(r.Errors) == 0 }

// HasWarnings reports whether there are warnings.
func (r *ValidationResult) HasWarnings() bool { return len(r.Warnings) > 0 }

// AllMessages returns every finding prefixed by its severity.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

func (r *ValidationResult) fail(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warn(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// Validate checks a merged configuration. A nil config is valid.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.IndentWidth < config.MinIndentWidth || cfg.IndentWidth > config.MaxIndentWidth {
		result.fail("indent_width", cfg.IndentWidth,
			"indent_width must be between %d and %d", config.MinIndentWidth, config.MaxIndentWidth)
	}
	if cfg.Output != "" && !cfg.Output.IsValid() {
		result.fail("output", cfg.Output,
			"invalid output format %q; must be one of: text, json, diff, summary", cfg.Output)
	}
	if cfg.Jobs < 0 {
		result.fail("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}
	switch cfg.Backups.Mode {
	case "", "sidecar", "none":
	default:
		result.fail("backups.mode", cfg.Backups.Mode,
			"invalid backup mode %q; must be one of: sidecar, none", cfg.Backups.Mode)
	}

	validateExtensions(cfg.Extensions, result)
	for i, pattern := range cfg.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			result.fail(fmt.Sprintf("ignore[%d]", i), pattern, "invalid glob pattern %q", pattern)
		}
	}

	return result
}

// validateExtensions requires dotted suffixes and warns about suffixes that
// would select plain PHP, whose code the template grammar reads as text.
func validateExtensions(exts []string, result *ValidationResult) {
	if exts != nil && len(exts) == 0 {
		result.warn("extensions", exts, "no template extensions configured; only explicitly named files are formatted")
	}
	for i, ext := range exts {
		field := fmt.Sprintf("extensions[%d]", i)
		switch {
		case !strings.HasPrefix(ext, "."):
			result.fail(field, ext, "extension %q must start with a dot", ext)
		case strings.EqualFold(ext, ".php"):
			result.warn(field, ext, "extension %q selects every PHP file, not only Blade templates", ext)
		}
	}
}

// ValidateWithFile validates cfg and attributes every finding to filePath.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)
	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}
	return result
}
