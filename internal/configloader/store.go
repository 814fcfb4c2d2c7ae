package configloader

import (
	"context"
	"fmt"

	"github.com/yaklabco/bladefmt/pkg/config"
	"github.com/yaklabco/bladefmt/pkg/format"
)

// LiveStore is a format.PreferenceStore that resolves configuration on every
// call, so edits to config files and the environment take effect in
// long-running processes (the language server and the watcher) without a
// restart.
type LiveStore struct {
	opts LoadOptions
}

var _ format.PreferenceStore = (*LiveStore)(nil)

// NewLiveStore creates a LiveStore that loads with opts.
func NewLiveStore(opts LoadOptions) *LiveStore {
	return &LiveStore{opts: opts}
}

// Config resolves the current configuration.
func (s *LiveStore) Config(ctx context.Context) (*config.Config, error) {
	res, err := Load(ctx, s.opts)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return res.Config, nil
}

// Preferences implements format.PreferenceStore.
func (s *LiveStore) Preferences(ctx context.Context) (format.Preferences, error) {
	cfg, err := s.Config(ctx)
	if err != nil {
		return nil, err
	}
	return format.SettingsFromConfig(cfg), nil
}
