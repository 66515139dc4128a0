// Package config provides the lynisview configuration file structure,
// loaded from ~/.config/lynisview/config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/lynisview/lynisview/pkg/discovery"
)

// Config is the full lynisview configuration.
type Config struct {
	// Discovery settings
	SearchDirs       []string `yaml:"search_dirs,omitempty"`
	MaxDepth         int      `yaml:"max_depth,omitempty"`
	FollowSymlinks   bool     `yaml:"follow_symlinks,omitempty"`
	IncludeSystemLog *bool    `yaml:"include_system_log,omitempty"`

	// Storage
	SnapshotDir string `yaml:"snapshot_dir,omitempty"`
	HistoryDB   string `yaml:"history_db,omitempty"`

	// Logging
	LogLevel string `yaml:"loglevel,omitempty"`
	LogFile  string `yaml:"logfile,omitempty"`
}

// DefaultPath returns the standard config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".config", "lynisview", "config.yaml")
}

// Load reads the config file at path. A missing file yields the zero
// config and no error; defaults are applied by the accessors.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// Discovery translates the file settings into a discovery configuration,
// filling unset fields from the discovery defaults.
func (c *Config) Discovery() discovery.Config {
	dcfg := discovery.DefaultConfig()
	if len(c.SearchDirs) > 0 {
		dcfg.SearchDirs = c.SearchDirs
	}
	if c.MaxDepth > 0 {
		dcfg.MaxDepth = c.MaxDepth
	}
	dcfg.FollowSymlinks = c.FollowSymlinks
	if c.IncludeSystemLog != nil {
		dcfg.IncludeSystemLog = *c.IncludeSystemLog
	}
	return dcfg
}
