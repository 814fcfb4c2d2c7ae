// Package format rewrites the leading whitespace of Blade template lines
// according to the records produced by the indent package.
package format

import (
	"context"

	"github.com/yaklabco/bladefmt/pkg/config"
)

// Preferences are the user settings consulted on every format request.
type Preferences interface {
	IndentWidth() int
	UseTabs() bool
	IndentEnabled() bool
	FormatEnabled() bool
}

// PreferenceStore yields the preferences in effect for one request.
// Implementations must not cache across calls if the backing source can change.
type PreferenceStore interface {
	Preferences(ctx context.Context) (Preferences, error)
}

// Settings is a plain value implementation of Preferences.
type Settings struct {
	Width  int
	Tabs   bool
	Indent bool
	Format bool
}

// DefaultSettings returns four-space indentation with everything enabled.
func DefaultSettings() Settings {
	return Settings{Width: config.DefaultIndentWidth, Indent: true, Format: true}
}

// SettingsFromConfig extracts the formatting preferences from cfg.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		Width:  cfg.Width(),
		Tabs:   cfg.TabsEnabled(),
		Indent: cfg.IndentEnabled(),
		Format: cfg.FormatEnabled(),
	}
}

func (s Settings) IndentWidth() int {
	if s.Width <= 0 {
		return config.DefaultIndentWidth
	}
	return s.Width
}

func (s Settings) UseTabs() bool       { return s.Tabs }
func (s Settings) IndentEnabled() bool { return s.Indent }
func (s Settings) FormatEnabled() bool { return s.Format }

// StaticStore always returns the same preferences.
type StaticStore struct {
	Prefs Preferences
}

// Preferences implements PreferenceStore.
func (s StaticStore) Preferences(_ context.Context) (Preferences, error) {
	if s.Prefs == nil {
		return DefaultSettings(), nil
	}
	return s.Prefs, nil
}

// StoreFunc adapts a function to PreferenceStore.
type StoreFunc func(ctx context.Context) (Preferences, error)

// Preferences implements PreferenceStore.
func (f StoreFunc) Preferences(ctx context.Context) (Preferences, error) {
	return f(ctx)
}
