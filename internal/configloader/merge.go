package configloader

import "github.com/yaklabco/bladefmt/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Optional booleans: override overwrites base if override is non-nil
//   - Slices: override replaces base entirely if override is non-nil
//   - Nil/unset values in override do not override values in base
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.IndentWidth != 0 {
		result.IndentWidth = override.IndentWidth
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.Output != "" {
		result.Output = override.Output
	}

	// Optional booleans distinguish "unset" from false.
	if override.UseTabs != nil {
		result.UseTabs = override.UseTabs
	}
	if override.Indent != nil {
		result.Indent = override.Indent
	}
	if override.Format != nil {
		result.Format = override.Format
	}
	if override.Markdown != nil {
		result.Markdown = override.Markdown
	}

	// CLI-only switches can only be turned on.
	if override.Write {
		result.Write = true
	}
	if override.Check {
		result.Check = true
	}
	if override.NoBackups {
		result.NoBackups = true
	}

	// Backups.Enabled is a plain bool, so only "true" is detectable here;
	// files disable backups with mode: none.
	if override.Backups.Mode != "" {
		result.Backups.Mode = override.Backups.Mode
	}
	if override.Backups.Enabled {
		result.Backups.Enabled = true
	}

	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}
	if override.Extensions != nil {
		result.Extensions = override.Extensions
	}

	return &result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
