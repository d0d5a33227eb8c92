// Package config provides configuration management for campusmart.
//
// The config file carries deployment settings only; everything the
// store knows lives in the database, which the migration engine keeps
// versioned independently of this file.
//
// Config file locations (priority order):
//  1. $CAMPUSMART_CONFIG
//  2. ./campusmart.yaml
//  3. ~/.config/campusmart/config.yaml
//  4. /etc/campusmart/config.yaml
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure
type Config struct {
	Version  int            `yaml:"version"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Seed     SeedConfig     `yaml:"seed"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DatabaseConfig holds database settings. LogRetention bounds the
// number of audit rows kept per log type; 0 means the built-in cap.
type DatabaseConfig struct {
	Path         string `yaml:"path"`
	LogRetention int    `yaml:"log_retention,omitempty"`
}

// SeedConfig controls the first-run catalog snapshot
type SeedConfig struct {
	Enabled bool    `yaml:"enabled"`
	Path    *string `yaml:"path,omitempty"` // nil = embedded snapshot
}

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		// No config found - return defaults
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	return &Config{
		Version:  1,
		Server:   ServerConfig{Addr: ":8080"},
		Database: DatabaseConfig{Path: "./campusmart.db"},
		Seed:     SeedConfig{Enabled: true},
	}
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./campusmart.db"
	}
}

// Validate rejects configurations the server cannot run with
func (c *Config) Validate() error {
	if c.Version != 1 {
		return fmt.Errorf("unsupported config version %d", c.Version)
	}
	if c.Database.LogRetention < 0 {
		return fmt.Errorf("log retention must not be negative, got %d", c.Database.LogRetention)
	}
	if c.Seed.Path != nil && *c.Seed.Path == "" {
		return fmt.Errorf("seed path must not be empty when set")
	}
	return nil
}

// ApplyEnv overlays environment variable overrides onto the config.
// CAMPUSMART_ADDR and CAMPUSMART_DB take precedence over file values.
func (c *Config) ApplyEnv() {
	if addr := os.Getenv("CAMPUSMART_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if path := os.Getenv("CAMPUSMART_DB"); path != "" {
		c.Database.Path = path
	}
}
