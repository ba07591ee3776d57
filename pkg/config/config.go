// Package config holds the application settings, filled from CLI flags and an optional YAML file.
package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/umputun/apodview/pkg/apod"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server" json:"server" jsonschema:"description=Server configuration"`
	Feed    FeedConfig    `yaml:"feed" json:"feed" jsonschema:"description=APOD feed source"`
	Loading LoadingConfig `yaml:"loading" json:"loading" jsonschema:"description=Loading indicator settings"`
}

// ServerConfig holds http server settings
type ServerConfig struct {
	Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
	Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	BaseURL string        `yaml:"base_url" json:"base_url" jsonschema:"default=http://localhost:8080,description=Base URL for RSS links"`
}

// FeedConfig holds feed client settings
type FeedConfig struct {
	URL       string        `yaml:"url" json:"url" jsonschema:"description=APOD feed endpoint"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=15s,description=Feed request timeout"`
	Retries   int           `yaml:"retries" json:"retries" jsonschema:"default=3,minimum=1,description=Attempts on transport errors"`
	UserAgent string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=apodview/1.0,description=User agent for feed requests"`
}

// LoadingConfig holds loading indicator settings
type LoadingConfig struct {
	MinVisible time.Duration `yaml:"min_visible" json:"min_visible" jsonschema:"default=800ms,description=Minimum time the loading indicator stays visible"`
	Message    string        `yaml:"message" json:"message" jsonschema:"description=Loading indicator text"`
}

// Load reads configuration from a YAML file on top of base.
// Keys present in the file replace base values, missing keys keep them.
func Load(path string, base Config) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := []byte(os.ExpandEnv(string(data)))

	var raw map[string]any
	if err := yaml.Unmarshal(expanded, &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := VerifyKeys(raw); err != nil {
		return nil, fmt.Errorf("verify config: %w", err)
	}

	cfg := base
	if err := yaml.Unmarshal(expanded, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// SetDefaults fills zero values
func (c *Config) SetDefaults() {
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 30 * time.Second
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = "http://localhost:8080"
	}

	if c.Feed.URL == "" {
		c.Feed.URL = apod.DefaultFeedURL
	}
	if c.Feed.Timeout == 0 {
		c.Feed.Timeout = 15 * time.Second
	}
	if c.Feed.Retries == 0 {
		c.Feed.Retries = 3
	}
	if c.Feed.UserAgent == "" {
		c.Feed.UserAgent = "apodview/1.0"
	}

	if c.Loading.MinVisible == 0 {
		c.Loading.MinVisible = 800 * time.Millisecond
	}
}

// Validate checks configuration for correctness
func (c *Config) Validate() error {
	if c.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}
	if _, err := url.Parse(c.Server.BaseURL); err != nil {
		return fmt.Errorf("server.base_url is invalid: %w", err)
	}

	u, err := url.Parse(c.Feed.URL)
	if err != nil {
		return fmt.Errorf("feed.url is invalid: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("feed.url must be http or https, got %q", c.Feed.URL)
	}
	if c.Feed.Timeout < 100*time.Millisecond {
		return fmt.Errorf("feed timeout must be at least 100ms")
	}
	if c.Feed.Retries < 1 {
		return fmt.Errorf("feed.retries must be at least 1")
	}

	if c.Loading.MinVisible < 0 {
		return fmt.Errorf("loading.min_visible must be non-negative")
	}
	return nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetBaseURL returns the external address used in generated links
func (c *Config) GetBaseURL() string {
	return c.Server.BaseURL
}
