// Package config provides configuration management for the collector.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrNoQueries               = errors.New("at least one query is required")
	ErrNoProviders             = errors.New("at least one provider is required")
	ErrNoEnabledProviders      = errors.New("at least one provider must be enabled")
	ErrProviderMissingName     = errors.New("provider name is required")
	ErrProviderMissingOutput   = errors.New("provider output path is required")
	ErrMissingAPIKey           = errors.New("NEWSAPI_KEY environment variable is required when the newsapi provider is enabled")
	ErrInvalidPageSize         = errors.New("fetch.page_size must be at least 1")
	ErrInvalidMaxPages         = errors.New("fetch.max_pages must be at least 1")
	ErrInvalidDelay            = errors.New("fetch.delay_seconds must be non-negative")
	ErrInvalidTimeout          = errors.New("fetch.timeout_sec must be at least 1")
	ErrInvalidRateLimitBackoff = errors.New("fetch.rate_limit_backoff_sec must be non-negative")
	ErrInvalidRateLimitRetries = errors.New("fetch.max_rate_limit_retries must be at least 1")
	ErrInvalidLogLevel         = errors.New("logging.level must be one of: debug, info, warn, error")
)

// Environment variable names recognized by ApplyEnv.
const (
	EnvNewsAPIKey   = "NEWSAPI_KEY"
	EnvSleepSeconds = "COLLECTOR_SLEEP_SECONDS"
	EnvPageSize     = "COLLECTOR_PAGE_SIZE"
	EnvMaxPages     = "COLLECTOR_MAX_PAGES"
)

// Config represents the complete collector configuration.
type Config struct {
	Collector CollectorConfig `yaml:"collector"`
}

// CollectorConfig contains the shared query list, the provider set and the
// fetch policy applied to every provider.
type CollectorConfig struct {
	Queries   []string         `yaml:"queries"`
	Providers []ProviderConfig `yaml:"providers"`
	Fetch     FetchConfig      `yaml:"fetch"`
	Output    OutputConfig     `yaml:"output"`
	Logging   LoggingConfig    `yaml:"logging"`
}

// ProviderConfig describes one external search API instance.
type ProviderConfig struct {
	Name     string `yaml:"name"`
	BaseURL  string `yaml:"base_url"`
	Output   string `yaml:"output"`
	Language string `yaml:"language"`
	PageSize int    `yaml:"page_size"`
	Enabled  bool   `yaml:"enabled"`

	// APIKey is supplied via environment only, never via the config file.
	APIKey string `yaml:"-"`
}

// FetchConfig defines pagination, delay and backoff behavior.
type FetchConfig struct {
	PageSize            int     `yaml:"page_size"`
	MaxPages            int     `yaml:"max_pages"`
	DelaySeconds        float64 `yaml:"delay_seconds"`
	TimeoutSec          int     `yaml:"timeout_sec"`
	RateLimitBackoffSec float64 `yaml:"rate_limit_backoff_sec"`
	MaxRateLimitRetries int     `yaml:"max_rate_limit_retries"`
}

// OutputConfig defines dataset file handling.
type OutputConfig struct {
	CreateBackup bool `yaml:"create_backup"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a configuration with the default fetch policy and no
// queries or providers.
func DefaultConfig() *Config {
	return &Config{
		Collector: CollectorConfig{
			Fetch: FetchConfig{
				PageSize:            100,
				MaxPages:            5,
				DelaySeconds:        1.0,
				TimeoutSec:          30,
				RateLimitBackoffSec: 2.0,
				MaxRateLimitRetries: 5,
			},
			Logging: LoggingConfig{Level: "info"},
		},
	}
}

// LoadConfig loads and validates configuration from a YAML file.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.Collector.Queries) == 0 {
		return ErrNoQueries
	}

	if len(c.Collector.Providers) == 0 {
		return ErrNoProviders
	}

	enabledCount := 0

	for i, p := range c.Collector.Providers {
		if p.Name == "" {
			return fmt.Errorf("%w: provider[%d]", ErrProviderMissingName, i)
		}

		if p.Output == "" {
			return fmt.Errorf("%w: provider[%d]", ErrProviderMissingOutput, i)
		}

		if p.Enabled {
			enabledCount++
		}
	}

	if enabledCount == 0 {
		return ErrNoEnabledProviders
	}

	f := c.Collector.Fetch
	if f.PageSize < 1 {
		return ErrInvalidPageSize
	}

	if f.MaxPages < 1 {
		return ErrInvalidMaxPages
	}

	if f.DelaySeconds < 0 {
		return ErrInvalidDelay
	}

	if f.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if f.RateLimitBackoffSec < 0 {
		return ErrInvalidRateLimitBackoff
	}

	if f.MaxRateLimitRetries < 1 {
		return ErrInvalidRateLimitRetries
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Collector.Logging.Level] {
		return ErrInvalidLogLevel
	}

	return nil
}

// ApplyEnv applies environment overrides for runtime tunables and injects
// provider credentials. A missing credential for an enabled provider that
// requires one is a fatal configuration error, detected here before any
// network activity.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvSleepSeconds); v != "" {
		secs, err := strconv.ParseFloat(v, 64)
		if err != nil || secs < 0 {
			return fmt.Errorf("%w: %s=%q", ErrInvalidDelay, EnvSleepSeconds, v)
		}

		c.Collector.Fetch.DelaySeconds = secs
	}

	if v := os.Getenv(EnvPageSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return fmt.Errorf("%w: %s=%q", ErrInvalidPageSize, EnvPageSize, v)
		}

		c.Collector.Fetch.PageSize = n
	}

	if v := os.Getenv(EnvMaxPages); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return fmt.Errorf("%w: %s=%q", ErrInvalidMaxPages, EnvMaxPages, v)
		}

		c.Collector.Fetch.MaxPages = n
	}

	for i := range c.Collector.Providers {
		p := &c.Collector.Providers[i]
		if p.Name != "newsapi" || !p.Enabled {
			continue
		}

		p.APIKey = os.Getenv(EnvNewsAPIKey)
		if p.APIKey == "" {
			return ErrMissingAPIKey
		}
	}

	return nil
}

// EnabledProviders returns only enabled providers.
func (c *Config) EnabledProviders() []ProviderConfig {
	var enabled []ProviderConfig

	for _, p := range c.Collector.Providers {
		if p.Enabled {
			enabled = append(enabled, p)
		}
	}

	return enabled
}

// EffectivePageSize returns the per-provider page size if set, otherwise the
// shared fetch page size.
func (p *ProviderConfig) EffectivePageSize(f FetchConfig) int {
	if p.PageSize > 0 {
		return p.PageSize
	}

	return f.PageSize
}

// Delay returns the inter-request delay duration.
func (f *FetchConfig) Delay() time.Duration {
	return time.Duration(f.DelaySeconds * float64(time.Second))
}

// Timeout returns the per-request timeout duration.
func (f *FetchConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSec) * time.Second
}

// RateLimitBackoff returns the minimum sleep before retrying a rate-limited
// page. The effective backoff is never shorter than the regular delay.
func (f *FetchConfig) RateLimitBackoff() time.Duration {
	backoff := time.Duration(f.RateLimitBackoffSec * float64(time.Second))
	if delay := f.Delay(); delay > backoff {
		return delay
	}

	return backoff
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Queries: %d, Providers: %d, MaxPages: %d, PageSize: %d}",
		len(c.Collector.Queries),
		len(c.Collector.Providers),
		c.Collector.Fetch.MaxPages,
		c.Collector.Fetch.PageSize,
	)
}
