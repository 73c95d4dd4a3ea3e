// Package config handles configuration loading.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/linanwx/chatfeed/logger"
)

const configFileName = "config.yaml"

var configDirOverride string

// SetConfigDir overrides the config directory for the current process.
// Empty value clears the override.
func SetConfigDir(dir string) {
	configDirOverride = strings.TrimSpace(dir)
}

// Config is the root configuration structure.
type Config struct {
	Feed    FeedConfig    `json:"feed,omitempty" yaml:"feed,omitempty"`
	Logging LoggingConfig `json:"logging,omitempty" yaml:"logging,omitempty"`
}

// FeedConfig controls the demo feed.
type FeedConfig struct {
	SelfID       string   `json:"selfId,omitempty" yaml:"selfId,omitempty"`             // author id for messages typed in the TUI
	Peers        []string `json:"peers,omitempty" yaml:"peers,omitempty"`               // simulated remote author ids
	IntervalSecs int      `json:"intervalSecs,omitempty" yaml:"intervalSecs,omitempty"` // base delay between simulated messages
	HistoryCount int      `json:"historyCount,omitempty" yaml:"historyCount,omitempty"` // seeded backlog size
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Enabled *bool  `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Level   string `json:"level,omitempty" yaml:"level,omitempty"`   // debug, info, warn, error
	Stdout  bool   `json:"stdout,omitempty" yaml:"stdout,omitempty"` // log to stdout
	File    string `json:"file,omitempty" yaml:"file,omitempty"`     // log file path
}

// Dir returns the active config directory (override, else ~/.chatfeed).
func Dir() string {
	if configDirOverride != "" {
		return configDirOverride
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".chatfeed"
	}
	return filepath.Join(home, ".chatfeed")
}

// Load reads config.yaml from the config directory. A missing file
// yields the defaults; a malformed one is an error.
func Load() (*Config, error) {
	path := filepath.Join(Dir(), configFileName)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// BuildLoggerConfig converts the logging section to the logger package's
// config type.
func (c *Config) BuildLoggerConfig() logger.Config {
	enabled := true
	if c.Logging.Enabled != nil {
		enabled = *c.Logging.Enabled
	}
	return logger.Config{
		Enabled: enabled,
		Level:   c.Logging.Level,
		Stdout:  c.Logging.Stdout,
		File:    c.Logging.File,
	}
}
