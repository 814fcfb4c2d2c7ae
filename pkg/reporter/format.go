package reporter

import (
	"fmt"

	"github.com/yaklabco/bladefmt/pkg/config"
)

// Format selects a reporter. It is the configured output format.
type Format = config.OutputFormat

// Output formats supported by the reporter.
const (
	FormatText    = config.FormatText
	FormatJSON    = config.FormatJSON
	FormatDiff    = config.FormatDiff
	FormatSummary = config.FormatSummary
)

// ParseFormat parses a --format value. The empty string selects text.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatText, nil
	}
	if f := Format(s); f.IsValid() {
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q; valid formats: text, json, diff, summary", s)
}
