package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Pipeline: PipelineConfig{
			ReferenceURLs: []string{"https://stripe.com", "https://vercel.com"},
			Features:      []string{"authentication"},
		},
		Scraper: ScraperConfig{
			Mode:      "reference",
			UserAgent: "test-agent",
			CacheSize: 16,
		},
		Paths: PathsConfig{
			OutputDir:  "output",
			CorpusFile: "corpus.json",
		},
		Limits: DefaultLimits(),
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "invalid reference URL",
			mutate: func(c *Config) {
				c.Pipeline.ReferenceURLs = []string{"not-a-url"}
			},
			wantErr: true,
			errMsg:  "ReferenceURLs",
		},
		{
			name: "invalid scraper mode",
			mutate: func(c *Config) {
				c.Scraper.Mode = "puppeteer"
			},
			wantErr: true,
			errMsg:  "Mode",
		},
		{
			name: "generation timeout too high",
			mutate: func(c *Config) {
				c.Limits.GenerationTimeout = 2 * time.Hour
			},
			wantErr: true,
			errMsg:  "GenerationTimeout",
		},
		{
			name: "concurrent scrapes too high",
			mutate: func(c *Config) {
				c.Limits.MaxConcurrentScrapes = 500
			},
			wantErr: true,
			errMsg:  "MaxConcurrentScrapes",
		},
		{
			name: "rate limit burst too high",
			mutate: func(c *Config) {
				c.Limits.RateLimit.BurstSize = 1000
			},
			wantErr: true,
			errMsg:  "BurstSize",
		},
		{
			name: "empty feature name",
			mutate: func(c *Config) {
				c.Pipeline.Features = []string{"authentication", ""}
			},
			wantErr: true,
			errMsg:  "Features",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}

			if err != nil && tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("validate() error = %v, want error containing %q", err, tt.errMsg)
			}
		})
	}
}

func TestValidateFillsDefaults(t *testing.T) {
	cfg := Config{}

	if err := cfg.validate(); err != nil {
		t.Fatalf("validate() on empty config error = %v", err)
	}

	if len(cfg.Pipeline.ReferenceURLs) != len(DefaultReferenceURLs) {
		t.Errorf("ReferenceURLs = %v, want defaults", cfg.Pipeline.ReferenceURLs)
	}
	if cfg.Scraper.Mode != "reference" {
		t.Errorf("Scraper.Mode = %q, want %q", cfg.Scraper.Mode, "reference")
	}
	if cfg.Limits.MaxConcurrentScrapes != DefaultLimits().MaxConcurrentScrapes {
		t.Errorf("Limits not defaulted: %+v", cfg.Limits)
	}
	if cfg.Paths.OutputDir == "" || cfg.Paths.CorpusFile == "" {
		t.Errorf("paths not defaulted: %+v", cfg.Paths)
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.validate(); err != nil {
		t.Errorf("Default() should produce valid config, got error: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `pipeline:
  reference_urls:
    - https://example.com
scraper:
  mode: live
  user_agent: tester
paths:
  output_dir: out
  corpus_file: corpus.json
limits:
  max_concurrent_scrapes: 2
  max_body_bytes: 4096
  generation_timeout: 30s
  fetch_timeout: 5s
  rate_limit:
    requests_per_minute: 10
    burst_size: 2
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("SITEGEN_OUTPUT_DIR", "")
	t.Setenv("SITEGEN_SCRAPER_MODE", "")
	t.Setenv("SITEGEN_REFERENCE_URLS", "")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if cfg.Scraper.Mode != "live" {
		t.Errorf("Scraper.Mode = %q, want live", cfg.Scraper.Mode)
	}
	if cfg.Limits.GenerationTimeout != 30*time.Second {
		t.Errorf("GenerationTimeout = %v, want 30s", cfg.Limits.GenerationTimeout)
	}
	if got := cfg.Pipeline.ReferenceURLs; len(got) != 1 || got[0] != "https://example.com" {
		t.Errorf("ReferenceURLs = %v", got)
	}
	if len(cfg.Pipeline.Features) != len(DefaultFeatures) {
		t.Errorf("Features = %v, want defaults", cfg.Pipeline.Features)
	}
}

func TestLoadFileKeepsPartialLimits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `limits:
  generation_timeout: 10s
  fetch_timeout: 3s
  rate_limit:
    burst_size: 7
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("SITEGEN_OUTPUT_DIR", "")
	t.Setenv("SITEGEN_SCRAPER_MODE", "")
	t.Setenv("SITEGEN_REFERENCE_URLS", "")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	defaults := DefaultLimits()
	tests := []struct {
		name string
		got  any
		want any
	}{
		{"generation timeout", cfg.Limits.GenerationTimeout, 10 * time.Second},
		{"fetch timeout", cfg.Limits.FetchTimeout, 3 * time.Second},
		{"burst size", cfg.Limits.RateLimit.BurstSize, 7},
		{"max concurrent scrapes", cfg.Limits.MaxConcurrentScrapes, defaults.MaxConcurrentScrapes},
		{"max body bytes", cfg.Limits.MaxBodyBytes, defaults.MaxBodyBytes},
		{"cache ttl", cfg.Limits.CacheTTL, defaults.CacheTTL},
		{"requests per minute", cfg.Limits.RateLimit.RequestsPerMinute, defaults.RateLimit.RequestsPerMinute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SITEGEN_OUTPUT_DIR", "/tmp/sitegen-out")
	t.Setenv("SITEGEN_SCRAPER_MODE", "live")
	t.Setenv("SITEGEN_REFERENCE_URLS", "https://a.example, https://b.example")

	cfg := validConfig()
	cfg.applyEnv()

	if cfg.Paths.OutputDir != "/tmp/sitegen-out" {
		t.Errorf("OutputDir = %q", cfg.Paths.OutputDir)
	}
	if cfg.Scraper.Mode != "live" {
		t.Errorf("Mode = %q", cfg.Scraper.Mode)
	}
	if len(cfg.Pipeline.ReferenceURLs) != 2 || cfg.Pipeline.ReferenceURLs[1] != "https://b.example" {
		t.Errorf("ReferenceURLs = %v", cfg.Pipeline.ReferenceURLs)
	}
}

func TestLoadWritesDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")
	t.Setenv("SITEGEN_CONFIG", path)
	t.Setenv("XDG_DATA_HOME", dir)
	t.Setenv("SITEGEN_OUTPUT_DIR", "")
	t.Setenv("SITEGEN_SCRAPER_MODE", "")
	t.Setenv("SITEGEN_REFERENCE_URLS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("default config not written: %v", err)
	}
	if !strings.HasPrefix(cfg.Paths.OutputDir, dir) {
		t.Errorf("OutputDir = %q, want under %q", cfg.Paths.OutputDir, dir)
	}

	// Second load parses the written file
	again, err := Load()
	if err != nil {
		t.Fatalf("second Load() error = %v", err)
	}
	if again.Limits.GenerationTimeout != cfg.Limits.GenerationTimeout {
		t.Errorf("GenerationTimeout round trip = %v, want %v", again.Limits.GenerationTimeout, cfg.Limits.GenerationTimeout)
	}
}
