// Package config loads filemcp configuration.
//
// Configuration has two layers. The global config (config.yaml under the XDG
// config directory) records the default workspace directory. Each workspace
// may additionally carry a filemcp.toml (see project.go) controlling how the
// file-operation tools behave inside that workspace.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"filemcp/internal/logging"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const APP_NAME = "filemcp" // application name used for config directory

// WorkspaceEnvVar overrides the workspace root when set.
const WorkspaceEnvVar = "FILEMCP_WORKSPACE"

// Config holds the global user configuration for filemcp.
type Config struct {
	// WorkspaceDir is the default workspace root used when neither the
	// --workspace flag nor FILEMCP_WORKSPACE is set.
	WorkspaceDir string `yaml:"workspace_dir"`
	Version      string `yaml:"version"`   // Track config version
	InitTime     int64  `yaml:"init_time"` // Unix timestamp of first setup
}

// ConfigPath returns the standard config file path for the current platform
func ConfigPath() (string, error) {
	configDir := filepath.Join(xdg.ConfigHome, APP_NAME)
	configPath := filepath.Join(configDir, "config.yaml")

	logging.Debug("Determined config path", "path", configPath)
	return configPath, nil
}

// Load loads the config from the standard location.
// If no config exists, a default config is returned.
func Load() (*Config, error) {
	configPath, exists := FindConfigFile()
	logging.Debug("Loading config from", "path", configPath)
	if !exists {
		cfg := DefaultConfig()
		return &cfg, nil
	}

	return LoadFrom(configPath)
}

// LoadFrom loads config from a specific path
func LoadFrom(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	var cfg Config
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// FindConfigFile returns the path to an existing config file, and whether it exists.
func FindConfigFile() (string, bool) {
	primary, err := ConfigPath()
	if err != nil {
		logging.Error("Failed to get config path", "error", err)
		return "", false
	}

	if _, err := os.Stat(primary); err == nil {
		logging.Debug("Config found at primary path", "path", primary)
		return primary, true
	}

	// Return primary path for new config
	return primary, false
}

// DefaultConfig returns a Config with sensible defaults. The default
// workspace is the current working directory, matching how the server is
// typically launched by an MCP client.
func DefaultConfig() Config {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	return Config{
		WorkspaceDir: cwd,
		Version:      "1.0",
		InitTime:     0, // Will be set during first save
	}
}

// ResolveWorkspaceDir picks the workspace root for a server run. Precedence:
// the explicit flag value, then FILEMCP_WORKSPACE, then the global config.
func ResolveWorkspaceDir(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if env := os.Getenv(WorkspaceEnvVar); env != "" {
		return env, nil
	}

	cfg, err := Load()
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	return cfg.WorkspaceDir, nil
}

// Save writes the config to the standard location
func (c *Config) Save() error {
	configPath, _ := FindConfigFile()
	return c.SaveTo(configPath)
}

// SaveTo writes the config to a specific path
func (c *Config) SaveTo(path string) error {
	// Set init time if this is the first save
	if c.InitTime == 0 {
		c.InitTime = time.Now().Unix()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	logging.Debug("Config saved", "path", path)
	return nil
}
