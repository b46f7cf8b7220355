package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	appName  = "attrm"
	fileName = "attrm.json"
)

// Config holds the tracked project paths.
type Config struct {
	Projects []string `json:"dirs"`

	path   string
	exists bool
}

// configPathFunc is a function variable to allow testing with different paths
var configPathFunc = defaultConfigPath

func defaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		homeDir, herr := os.UserHomeDir()
		if herr != nil {
			return "", fmt.Errorf("failed to resolve config directory: %w", err)
		}
		dir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(dir, appName, fileName), nil
}

// Load reads the config from the per-user config directory.
func Load() (*Config, error) {
	path, err := configPathFunc()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path. A missing file yields an empty config.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{
		Projects: []string{},
		path:     path,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.Projects == nil {
		cfg.Projects = []string{}
	}
	cfg.exists = true

	return cfg, nil
}

// Path returns the file this config was loaded from and will be saved to.
func (c *Config) Path() string {
	return c.path
}

// Exists reports whether the config file was present when loaded.
func (c *Config) Exists() bool {
	return c.exists
}

// ReplaceProjects overwrites the tracked project list.
func (c *Config) ReplaceProjects(paths []string) {
	projects := make([]string, len(paths))
	copy(projects, paths)
	c.Projects = projects
}

func (c *Config) Save() error {
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(c.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	c.exists = true

	return nil
}
