// Package config handles configuration loading and validation for briefly.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/briefly/internal/core/styles"
)

// EnvBackendURL overrides backend.url when set.
const EnvBackendURL = "BACKEND_URL"

// Config holds the application configuration.
type Config struct {
	Backend  BackendConfig  `yaml:"backend"`
	Editor   EditorConfig   `yaml:"editor"`
	Auth     AuthConfig     `yaml:"auth"`
	TUI      TUIConfig      `yaml:"tui"`
	Serve    ServeConfig    `yaml:"serve"`
	Database DatabaseConfig `yaml:"database"`
	DataDir  string         `yaml:"-"` // set by caller, not from config file
}

// BackendConfig describes how to reach the analysis service.
type BackendConfig struct {
	URL        string        `yaml:"url"`
	Timeout    time.Duration `yaml:"timeout"`
	Retries    int           `yaml:"retries"`
	RetryDelay time.Duration `yaml:"retry_delay"`
	// CacheTTL keeps analysis results for identical text. Zero disables
	// the cache.
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// EditorConfig controls when the editor requests analysis.
type EditorConfig struct {
	Debounce    time.Duration `yaml:"debounce"`
	LintOnEnter *bool         `yaml:"lint_on_enter"`
	LintOnPause bool          `yaml:"lint_on_pause"`
	Sidebar     bool          `yaml:"sidebar"`
}

// LintOnEnterEnabled resolves the tri-state flag; unset means enabled.
func (e EditorConfig) LintOnEnterEnabled() bool {
	return e.LintOnEnter == nil || *e.LintOnEnter
}

// AuthConfig gates the editor behind a session.
type AuthConfig struct {
	Required *bool `yaml:"required"`
}

// IsRequired resolves the tri-state flag; unset means required.
func (a AuthConfig) IsRequired() bool {
	return a.Required == nil || *a.Required
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme        string `yaml:"theme"`
	ChangelogURL string `yaml:"changelog_url"`
	FeedbackURL  string `yaml:"feedback_url"`
}

// ServeConfig configures the analyze proxy started by `briefly serve`.
type ServeConfig struct {
	Addr        string   `yaml:"addr"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// DatabaseConfig tunes the local sqlite connection pool.
type DatabaseConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
	BusyTimeout  int `yaml:"busy_timeout"` // milliseconds
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Backend: BackendConfig{
			URL:        "http://localhost:8080",
			Timeout:    10 * time.Second,
			Retries:    2,
			RetryDelay: 200 * time.Millisecond,
			CacheTTL:   5 * time.Minute,
		},
		Editor: EditorConfig{
			Debounce: 350 * time.Millisecond,
		},
		TUI: TUIConfig{
			Theme:        styles.DefaultTheme,
			ChangelogURL: "https://brief.ly/changelog",
			FeedbackURL:  "https://brief.ly/feedback",
		},
		Serve: ServeConfig{
			Addr:        ":3000",
			CORSOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			MaxOpenConns: 4,
			MaxIdleConns: 2,
			BusyTimeout:  5000,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg, err := Read(configPath, dataDir)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Read is Load without validation, for reporting problems instead of
// failing on the first one.
func Read(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.DataDir = dataDir
	if v := os.Getenv(EnvBackendURL); v != "" {
		cfg.Backend.URL = v
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Backend.URL == "" {
		c.Backend.URL = defaults.Backend.URL
	}
	if c.Backend.Timeout == 0 {
		c.Backend.Timeout = defaults.Backend.Timeout
	}
	if c.Backend.RetryDelay == 0 {
		c.Backend.RetryDelay = defaults.Backend.RetryDelay
	}
	if c.Editor.Debounce == 0 {
		c.Editor.Debounce = defaults.Editor.Debounce
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
	if c.Serve.Addr == "" {
		c.Serve.Addr = defaults.Serve.Addr
	}
	if len(c.Serve.CORSOrigins) == 0 {
		c.Serve.CORSOrigins = defaults.Serve.CORSOrigins
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}
}
