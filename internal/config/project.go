package config

import (
	"fmt"
	"os"
	"path/filepath"

	"filemcp/internal/logging"

	"github.com/BurntSushi/toml"
)

// ProjectConfigName is the per-workspace configuration file, looked up at
// the workspace root.
const ProjectConfigName = "filemcp.toml"

// ProjectConfig controls how file-operation tools behave inside a workspace.
type ProjectConfig struct {
	// ProjectPrompt is surfaced verbatim by the init_project tool so the
	// client can pick up project-specific instructions.
	ProjectPrompt string `toml:"project_prompt"`

	// CreateParentDirs permits write operations to create missing parent
	// directories. When false, writing into a missing directory fails.
	CreateParentDirs bool `toml:"create_parent_dirs"`

	// CommitChanges enables committing successful mutations to git when the
	// workspace is inside a repository.
	CommitChanges bool `toml:"commit_changes"`

	// MaxFileSize caps the size of files the read_file tool will load,
	// in bytes.
	MaxFileSize int64 `toml:"max_file_size"`
}

// DefaultProjectConfig returns the settings used when a workspace has no
// filemcp.toml.
func DefaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		CreateParentDirs: false,
		CommitChanges:    false,
		MaxFileSize:      10 * 1024 * 1024, // 10 MiB
	}
}

// LoadProject reads filemcp.toml from the workspace root. A missing file is
// not an error; defaults apply.
func LoadProject(workspaceRoot string) (ProjectConfig, error) {
	cfg := DefaultProjectConfig()

	path := filepath.Join(workspaceRoot, ProjectConfigName)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			logging.Debug("No project config found, using defaults", "path", path)
			return cfg, nil
		}
		return cfg, fmt.Errorf("cannot access project config: %w", err)
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return DefaultProjectConfig(), fmt.Errorf("failed to parse %s: %w", ProjectConfigName, err)
	}

	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = DefaultProjectConfig().MaxFileSize
	}

	logging.Debug("Project config loaded", "path", path)
	return cfg, nil
}

// SaveProject writes a filemcp.toml to the workspace root. Used by the
// `filemcp init` command to produce a starter config.
func SaveProject(workspaceRoot string, cfg ProjectConfig) error {
	path := filepath.Join(workspaceRoot, ProjectConfigName)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", ProjectConfigName, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode project config: %w", err)
	}
	return nil
}
