// Package config handles the XDG configuration directory, stored
// credentials and user settings. Settings resolve in order: built-in
// defaults, then config.yaml, then TODOTREE_* environment variables.
// Command-line flags override all three.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "todotree"

	// OAuthClientFile is the OAuth client registration filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"

	// SettingsFile is the optional settings filename.
	SettingsFile = "config.yaml"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string `yaml:"-" ignored:"true"`

	// BaseURL overrides the task-service root, mainly for tests and
	// self-hosted proxies. Empty selects the production service.
	BaseURL string `yaml:"base_url" envconfig:"BASE_URL"`

	// LogLevel is the slog level name (debug, info, warn, error).
	LogLevel string `yaml:"log_level" envconfig:"LOG_LEVEL"`

	// LogFormat selects the log handler: "text" or "json".
	LogFormat string `yaml:"log_format" envconfig:"LOG_FORMAT"`

	// Debug enables debug logging.
	Debug bool `yaml:"debug" envconfig:"DEBUG"`

	// Quiet suppresses informational output.
	Quiet bool `yaml:"quiet" envconfig:"QUIET"`
}

// New creates a Config rooted at the default or specified directory and
// applies config.yaml and environment overrides.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{
		Dir:       dir,
		LogLevel:  "warn",
		LogFormat: "text",
	}

	if data, err := os.ReadFile(cfg.SettingsPath()); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", cfg.SettingsPath(), err)
		}
	}
	if err := envconfig.Process(AppName, cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// SlogLevel returns the configured log level. The debug flag wins over
// the setting; unknown names fall back to warn.
func (c *Config) SlogLevel() slog.Level {
	if c.Debug {
		return slog.LevelDebug
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn
	}
	return level
}

// OAuthClientPath returns the path to the OAuth client registration file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// SettingsPath returns the path to the settings file.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0o700)
}

// HasOAuthClient checks if the OAuth client registration file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
