package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// ConfigPaths holds the config files found for one working directory.
// Empty fields mean no file was found at that layer.
type ConfigPaths struct {
	// System is /etc/bladefmt/config.* (%ProgramData%\bladefmt on Windows).
	System string

	// User is $XDG_CONFIG_HOME/bladefmt/config.*.
	User string

	// Project is the nearest .bladefmt.* above the working directory.
	Project string

	// Explicit is the --config path.
	Explicit string
}

//nolint:gochecknoglobals // Read-only lookup tables.
var (
	projectConfigFiles = []string{
		".bladefmt.yml", ".bladefmt.yaml", ".bladefmt.toml",
		"bladefmt.yml", "bladefmt.yaml", "bladefmt.toml",
	}
	dirConfigFiles = []string{"config.yml", "config.yaml", "config.toml"}

	// projectRootMarkers end the upward search. A Laravel application has
	// artisan and composer.json next to resources/views.
	projectRootMarkers = []string{".git", ".hg", ".svn", "artisan", "composer.json"}
)

// DiscoverPaths finds the system, user and project config files for workDir.
func DiscoverPaths(ctx context.Context, workDir string) (*ConfigPaths, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	project, err := FindProjectConfig(ctx, workDir)
	if err != nil {
		return nil, err
	}

	return &ConfigPaths{
		System:  firstFile(systemConfigDir(), dirConfigFiles),
		User:    firstFile(userConfigDir(), dirConfigFiles),
		Project: project,
	}, nil
}

func systemConfigDir() string {
	if runtime.GOOS != "windows" {
		return "/etc/bladefmt"
	}
	programData := os.Getenv("ProgramData")
	if programData == "" {
		programData = `C:\ProgramData`
	}
	return filepath.Join(programData, "bladefmt")
}

func userConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "bladefmt")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "bladefmt")
}

// FindProjectConfig walks upward from startDir and returns the first project
// config file, or "" when none is found before a project root, the home
// directory or the filesystem root. The project root itself is searched.
func FindProjectConfig(ctx context.Context, startDir string) (string, error) {
	if startDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		startDir = wd
	}

	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	home, _ := os.UserHomeDir()

	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("context cancelled: %w", err)
		}

		if path := firstFile(dir, projectConfigFiles); path != "" {
			return path, nil
		}

		parent := filepath.Dir(dir)
		if isProjectRoot(dir) || dir == home || parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func isProjectRoot(dir string) bool {
	for _, marker := range projectRootMarkers {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return false
}

// firstFile returns the first of names that is a regular file in dir.
func firstFile(dir string, names []string) string {
	if dir == "" {
		return ""
	}
	for _, name := range names {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
