package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// Helper to create a temp config file.
func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "collector.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}

	return configPath
}

// validConfigYAML is a minimal valid configuration.
const validConfigYAML = `
collector:
  queries:
    - "solar power expansion"
    - "wind farm construction"
  providers:
    - name: gdelt
      output: "dataset/gdelt_articles.csv"
      page_size: 250
      enabled: true
    - name: newsapi
      output: "dataset/newsapi_articles.csv"
      language: "en"
      enabled: false
  fetch:
    page_size: 100
    max_pages: 5
    delay_seconds: 1.0
    timeout_sec: 30
    rate_limit_backoff_sec: 2.0
    max_rate_limit_retries: 5
  logging:
    level: "info"
`

func TestLoadConfig_Valid(t *testing.T) {
	configPath := createTempConfigFile(t, validConfigYAML)

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if len(cfg.Collector.Queries) != 2 {
		t.Errorf("Expected 2 queries, got %d", len(cfg.Collector.Queries))
	}

	if len(cfg.Collector.Providers) != 2 {
		t.Errorf("Expected 2 providers, got %d", len(cfg.Collector.Providers))
	}

	if cfg.Collector.Providers[0].Name != "gdelt" {
		t.Errorf("Expected provider 'gdelt', got '%s'", cfg.Collector.Providers[0].Name)
	}

	if got := cfg.Collector.Fetch.Delay(); got != time.Second {
		t.Errorf("Expected 1s delay, got %v", got)
	}

	if got := cfg.Collector.Fetch.Timeout(); got != 30*time.Second {
		t.Errorf("Expected 30s timeout, got %v", got)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("Expected error for missing file, got nil")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	configPath := createTempConfigFile(t, "collector: [not: valid")

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Fatal("Expected error for invalid YAML, got nil")
	}
}

func TestConfig_Validate_Errors(t *testing.T) {
	base := func() *Config {
		cfg := DefaultConfig()
		cfg.Collector.Queries = []string{"solar power expansion"}
		cfg.Collector.Providers = []ProviderConfig{
			{Name: "gdelt", Output: "dataset/gdelt.csv", Enabled: true},
		}

		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "No queries",
			mutate:  func(c *Config) { c.Collector.Queries = nil },
			wantErr: ErrNoQueries,
		},
		{
			name:    "No providers",
			mutate:  func(c *Config) { c.Collector.Providers = nil },
			wantErr: ErrNoProviders,
		},
		{
			name:    "No enabled providers",
			mutate:  func(c *Config) { c.Collector.Providers[0].Enabled = false },
			wantErr: ErrNoEnabledProviders,
		},
		{
			name:    "Provider missing name",
			mutate:  func(c *Config) { c.Collector.Providers[0].Name = "" },
			wantErr: ErrProviderMissingName,
		},
		{
			name:    "Provider missing output",
			mutate:  func(c *Config) { c.Collector.Providers[0].Output = "" },
			wantErr: ErrProviderMissingOutput,
		},
		{
			name:    "Invalid page size",
			mutate:  func(c *Config) { c.Collector.Fetch.PageSize = 0 },
			wantErr: ErrInvalidPageSize,
		},
		{
			name:    "Invalid max pages",
			mutate:  func(c *Config) { c.Collector.Fetch.MaxPages = 0 },
			wantErr: ErrInvalidMaxPages,
		},
		{
			name:    "Negative delay",
			mutate:  func(c *Config) { c.Collector.Fetch.DelaySeconds = -1 },
			wantErr: ErrInvalidDelay,
		},
		{
			name:    "Invalid timeout",
			mutate:  func(c *Config) { c.Collector.Fetch.TimeoutSec = 0 },
			wantErr: ErrInvalidTimeout,
		},
		{
			name:    "Invalid rate limit retries",
			mutate:  func(c *Config) { c.Collector.Fetch.MaxRateLimitRetries = 0 },
			wantErr: ErrInvalidRateLimitRetries,
		},
		{
			name:    "Invalid log level",
			mutate:  func(c *Config) { c.Collector.Logging.Level = "verbose" },
			wantErr: ErrInvalidLogLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate expected error but got nil")
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ApplyEnv_Overrides(t *testing.T) {
	t.Setenv(EnvSleepSeconds, "0.5")
	t.Setenv(EnvPageSize, "50")
	t.Setenv(EnvMaxPages, "2")

	cfg := DefaultConfig()
	cfg.Collector.Queries = []string{"solar power expansion"}
	cfg.Collector.Providers = []ProviderConfig{
		{Name: "gdelt", Output: "dataset/gdelt.csv", Enabled: true},
	}

	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}

	if cfg.Collector.Fetch.DelaySeconds != 0.5 {
		t.Errorf("Expected delay 0.5, got %v", cfg.Collector.Fetch.DelaySeconds)
	}

	if cfg.Collector.Fetch.PageSize != 50 {
		t.Errorf("Expected page size 50, got %d", cfg.Collector.Fetch.PageSize)
	}

	if cfg.Collector.Fetch.MaxPages != 2 {
		t.Errorf("Expected max pages 2, got %d", cfg.Collector.Fetch.MaxPages)
	}
}

func TestConfig_ApplyEnv_MissingAPIKey(t *testing.T) {
	t.Setenv(EnvNewsAPIKey, "")

	cfg := DefaultConfig()
	cfg.Collector.Queries = []string{"solar power expansion"}
	cfg.Collector.Providers = []ProviderConfig{
		{Name: "newsapi", Output: "dataset/newsapi.csv", Enabled: true},
	}

	err := cfg.ApplyEnv()
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("Expected ErrMissingAPIKey, got %v", err)
	}
}

func TestConfig_ApplyEnv_APIKeyNotRequiredWhenDisabled(t *testing.T) {
	t.Setenv(EnvNewsAPIKey, "")

	cfg := DefaultConfig()
	cfg.Collector.Queries = []string{"solar power expansion"}
	cfg.Collector.Providers = []ProviderConfig{
		{Name: "gdelt", Output: "dataset/gdelt.csv", Enabled: true},
		{Name: "newsapi", Output: "dataset/newsapi.csv", Enabled: false},
	}

	if err := cfg.ApplyEnv(); err != nil {
		t.Errorf("ApplyEnv returned unexpected error: %v", err)
	}
}

func TestConfig_EnabledProviders(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Collector.Providers = []ProviderConfig{
		{Name: "gdelt", Output: "a.csv", Enabled: true},
		{Name: "newsapi", Output: "b.csv", Enabled: false},
	}

	enabled := cfg.EnabledProviders()
	if len(enabled) != 1 || enabled[0].Name != "gdelt" {
		t.Errorf("Expected only gdelt enabled, got %v", enabled)
	}
}

func TestProviderConfig_EffectivePageSize(t *testing.T) {
	fetch := FetchConfig{PageSize: 100}

	p := ProviderConfig{PageSize: 250}
	if got := p.EffectivePageSize(fetch); got != 250 {
		t.Errorf("Expected provider override 250, got %d", got)
	}

	p = ProviderConfig{}
	if got := p.EffectivePageSize(fetch); got != 100 {
		t.Errorf("Expected shared page size 100, got %d", got)
	}
}

func TestFetchConfig_RateLimitBackoff(t *testing.T) {
	f := FetchConfig{DelaySeconds: 1.0, RateLimitBackoffSec: 2.0}
	if got := f.RateLimitBackoff(); got != 2*time.Second {
		t.Errorf("Expected 2s backoff, got %v", got)
	}

	// The effective backoff never drops below the regular delay.
	f = FetchConfig{DelaySeconds: 3.0, RateLimitBackoffSec: 2.0}
	if got := f.RateLimitBackoff(); got != 3*time.Second {
		t.Errorf("Expected 3s backoff, got %v", got)
	}
}
