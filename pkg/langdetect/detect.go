// Package langdetect classifies files as Blade templates, Markdown, or
// something bladefmt should leave alone. It uses go-enry's linguist data
// for extensions and vendored paths, with content sniffing for stdin.
package langdetect

import (
	"bytes"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Kind is the class of a file as far as bladefmt is concerned.
type Kind int

const (
	// KindOther is any file bladefmt does not format.
	KindOther Kind = iota
	// KindBlade is a Blade template.
	KindBlade
	// KindMarkdown is a Markdown document that may contain blade fences.
	KindMarkdown
)

func (k Kind) String() string {
	switch k {
	case KindBlade:
		return "blade"
	case KindMarkdown:
		return "markdown"
	default:
		return "other"
	}
}

// Linguist language names.
const (
	langBlade    = "Blade"
	langMarkdown = "Markdown"
)

// DefaultBladeExtensions are matched when no extensions are configured.
//
//nolint:gochecknoglobals // Read-only defaults.
var DefaultBladeExtensions = []string{".blade.php"}

// bladeMarkers match constructs that only appear in Blade source.
//
//nolint:gochecknoglobals // Compiled once.
var bladeMarkers = regexp.MustCompile(
	`(?m)(^|\s)@(if|foreach|forelse|section|extends|yield|include|component|php|verbatim|push|auth|guest)\b|\{\{--|\{!!`)

// IsBlade reports whether path names a Blade template. A configured
// extension list overrides linguist's Blade extensions.
func IsBlade(path string, extensions []string) bool {
	if len(extensions) == 0 {
		extensions = DefaultBladeExtensions
	}
	base := strings.ToLower(filepath.Base(path))
	for _, ext := range extensions {
		if strings.HasSuffix(base, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// IsMarkdown reports whether path names a Markdown document.
func IsMarkdown(path string) bool {
	lang, _ := enry.GetLanguageByExtension(path)
	if lang == langMarkdown {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".md" || ext == ".markdown"
}

// IsVendored reports whether path lies in a directory linguist treats as
// third-party code (vendor/, node_modules/, minified assets and so on).
func IsVendored(path string) bool {
	return enry.IsVendor(filepath.ToSlash(path))
}

// Detect classifies a file by path, falling back to content for paths with
// no usable extension (for example stdin).
func Detect(path string, content []byte, extensions []string) Kind {
	switch {
	case path != "" && IsBlade(path, extensions):
		return KindBlade
	case path != "" && IsMarkdown(path):
		return KindMarkdown
	case path != "" && filepath.Ext(path) != "":
		if lang, _ := enry.GetLanguageByExtension(path); lang == langBlade {
			return KindBlade
		}
		return KindOther
	}
	if LooksLikeBlade(content) {
		return KindBlade
	}
	return KindOther
}

// LooksLikeBlade reports whether content carries Blade syntax.
func LooksLikeBlade(content []byte) bool {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return false
	}
	if bladeMarkers.Match(trimmed) {
		return true
	}
	lang, safe := enry.GetLanguageByClassifier(trimmed, []string{langBlade, "HTML", "PHP"})
	return safe && lang == langBlade
}

// IsBladeFence reports whether a fenced code block info string selects Blade.
func IsBladeFence(info string) bool {
	lang, _, _ := strings.Cut(strings.TrimSpace(info), " ")
	lang = strings.ToLower(strings.Trim(lang, "{}."))
	return lang == "blade" || lang == "blade.php" || lang == "laravel-blade"
}
