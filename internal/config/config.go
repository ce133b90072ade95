// Package config holds the immutable per-run configuration and the
// environment-sourced secrets for the chirp agent. The config file is
// optional: a missing file yields defaults, and unrecognized or missing
// optional fields default to disabled/empty behavior.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Action modes.
const (
	ModeStrategicMix        = "strategic_mix"
	ModeReplyOnly           = "reply_only"
	ModePostOnlyControversy = "post_only_controversy"
	ModePostOnlyNews        = "post_only_news"
	ModePostOnlyWord        = "post_only_word"
)

// ValidModes lists all recognized action modes.
var ValidModes = []string{
	ModeStrategicMix,
	ModeReplyOnly,
	ModePostOnlyControversy,
	ModePostOnlyNews,
	ModePostOnlyWord,
}

// Config holds all chirp configuration. Loaded once at process start,
// read-only thereafter.
type Config struct {
	// Content decision settings
	ActionMode   string `yaml:"action_mode"`
	AutoNiche    bool   `yaml:"auto_niche"`
	Niche        string `yaml:"niche"`
	Tone         string `yaml:"tone"`
	AttachImage  bool   `yaml:"attach_image"`
	RequiredText string `yaml:"required_text"`
	WordFilePath string `yaml:"word_file_path"`

	// External services
	LLM  LLMConfig  `yaml:"llm"`
	News NewsConfig `yaml:"news"`

	// Browser surface
	Browser BrowserConfig `yaml:"browser"`

	// History log
	History HistoryConfig `yaml:"history"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// LLMConfig configures the generative text service.
type LLMConfig struct {
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// NewsConfig configures the news content provider.
type NewsConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// BrowserConfig configures the remote interaction surface.
type BrowserConfig struct {
	Bin                 string `yaml:"bin"`
	Headless            bool   `yaml:"headless"`
	ViewportWidth       int    `yaml:"viewport_width"`
	ViewportHeight      int    `yaml:"viewport_height"`
	NavigationTimeoutMs int    `yaml:"navigation_timeout_ms"`
	WaitTimeoutMs       int    `yaml:"wait_timeout_ms"`
}

// HistoryConfig configures the published-text history log. An empty
// database path disables persistence; the in-memory log always exists.
type HistoryConfig struct {
	DatabasePath string `yaml:"database_path"`
	Limit        int    `yaml:"limit"`
}

// LoggingConfig configures the category file logger.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Level      string          `yaml:"level"`
	Directory  string          `yaml:"directory"`
	Categories map[string]bool `yaml:"categories"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		ActionMode: ModeStrategicMix,
		Tone:       "Thought Leader",

		LLM: LLMConfig{
			Model:   "gemini-1.5-flash",
			BaseURL: "https://generativelanguage.googleapis.com/v1beta",
			Timeout: "60s",
		},

		News: NewsConfig{
			BaseURL: "https://newsapi.org/v2",
			Timeout: "20s",
		},

		Browser: BrowserConfig{
			Headless:            true,
			ViewportWidth:       1920,
			ViewportHeight:      1080,
			NavigationTimeoutMs: 20000,
			WaitTimeoutMs:       20000,
		},

		History: HistoryConfig{
			Limit: 20,
		},

		Logging: LoggingConfig{
			Level:     "info",
			Directory: ".chirp/logs",
		},
	}
}

// Load loads configuration from a YAML file. A missing file is not an
// error: defaults are returned so the agent can run on env secrets
// alone.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Validate checks for fatal misconfiguration. Optional fields are never
// fatal; only an unknown action mode is rejected.
func (c *Config) Validate() error {
	for _, m := range ValidModes {
		if c.ActionMode == m {
			return nil
		}
	}
	return fmt.Errorf("invalid action_mode: %s (valid: %v)", c.ActionMode, ValidModes)
}

// GetLLMTimeout returns the LLM timeout as a duration.
func (c *Config) GetLLMTimeout() time.Duration {
	d, err := time.ParseDuration(c.LLM.Timeout)
	if err != nil {
		return 60 * time.Second
	}
	return d
}

// GetNewsTimeout returns the news provider timeout as a duration.
func (c *Config) GetNewsTimeout() time.Duration {
	d, err := time.ParseDuration(c.News.Timeout)
	if err != nil {
		return 20 * time.Second
	}
	return d
}

// NavigationTimeout returns the surface navigation timeout.
func (c BrowserConfig) NavigationTimeout() time.Duration {
	if c.NavigationTimeoutMs == 0 {
		return 20 * time.Second
	}
	return time.Duration(c.NavigationTimeoutMs) * time.Millisecond
}

// WaitTimeout returns the surface element-wait timeout.
func (c BrowserConfig) WaitTimeout() time.Duration {
	if c.WaitTimeoutMs == 0 {
		return 20 * time.Second
	}
	return time.Duration(c.WaitTimeoutMs) * time.Millisecond
}

// GetViewportWidth returns viewport width.
func (c BrowserConfig) GetViewportWidth() int {
	if c.ViewportWidth == 0 {
		return 1920
	}
	return c.ViewportWidth
}

// GetViewportHeight returns viewport height.
func (c BrowserConfig) GetViewportHeight() int {
	if c.ViewportHeight == 0 {
		return 1080
	}
	return c.ViewportHeight
}

// GetLimit returns the history log bound.
func (c HistoryConfig) GetLimit() int {
	if c.Limit <= 0 {
		return 20
	}
	return c.Limit
}
