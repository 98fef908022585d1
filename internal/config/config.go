package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dotcommander/sitegen/internal/domain/site"
)

// DefaultReferenceURLs are the reference sites analysed when none are configured
var DefaultReferenceURLs = []string{
	"https://stripe.com",
	"https://vercel.com",
	"https://linear.app",
}

// DefaultFeatures is the baseline feature set merged into every response
var DefaultFeatures = []string{
	site.FeatureAuthentication,
	site.FeatureDarkMode,
	site.FeatureResponsiveDesign,
}

type Config struct {
	Pipeline PipelineConfig `yaml:"pipeline" validate:"required"`
	Scraper  ScraperConfig  `yaml:"scraper" validate:"required"`
	Paths    PathsConfig    `yaml:"paths" validate:"required"`
	Limits   Limits         `yaml:"limits" validate:"required"`
}

type PipelineConfig struct {
	ReferenceURLs []string `yaml:"reference_urls" validate:"required,min=1,dive,url"`
	Features      []string `yaml:"features" validate:"dive,required"`
}

type ScraperConfig struct {
	// Mode selects the design source: "reference" serves canonical profiles,
	// "live" fetches and parses the pages
	Mode      string `yaml:"mode" validate:"required,oneof=reference live"`
	UserAgent string `yaml:"user_agent" validate:"required"`
	CacheSize int    `yaml:"cache_size" validate:"min=0,max=10000"`
}

type PathsConfig struct {
	OutputDir  string `yaml:"output_dir" validate:"required,dirpath"`
	CorpusFile string `yaml:"corpus_file" validate:"required,filepath"`
}

// Default returns a complete configuration with XDG-compliant paths
func Default() *Config {
	cfg := &Config{
		Pipeline: PipelineConfig{
			ReferenceURLs: append([]string(nil), DefaultReferenceURLs...),
			Features:      append([]string(nil), DefaultFeatures...),
		},
		Scraper: ScraperConfig{
			Mode:      "reference",
			UserAgent: "Mozilla/5.0 (compatible; sitegen/1.0)",
			CacheSize: 128,
		},
		Limits: DefaultLimits(),
	}
	cfg.setupDefaultPaths()
	return cfg
}

// Load reads the configuration from the default location, writing a default
// file on first use
func Load() (*Config, error) {
	_ = godotenv.Load()

	configPath := getConfigPath()

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		cfg := Default()
		if saveErr := saveConfig(cfg, configPath); saveErr != nil {
			return nil, fmt.Errorf("writing default config: %w", saveErr)
		}
		cfg.applyEnv()
		if err := cfg.validate(); err != nil {
			return nil, fmt.Errorf("validating config: %w", err)
		}
		return cfg, nil
	} else if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return parse(data)
}

// LoadFile reads the configuration from an explicit path
func LoadFile(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(expandTilde(path))
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

func getConfigPath() string {
	if path := os.Getenv("SITEGEN_CONFIG"); path != "" {
		return path
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "sitegen", "config.yaml")
	}

	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "sitegen", "config.yaml")
}

// applyEnv lets the environment override file values
func (c *Config) applyEnv() {
	if dir := os.Getenv("SITEGEN_OUTPUT_DIR"); dir != "" {
		c.Paths.OutputDir = dir
	}
	if mode := os.Getenv("SITEGEN_SCRAPER_MODE"); mode != "" {
		c.Scraper.Mode = mode
	}
	if urls := os.Getenv("SITEGEN_REFERENCE_URLS"); urls != "" {
		var list []string
		for _, u := range strings.Split(urls, ",") {
			if u = strings.TrimSpace(u); u != "" {
				list = append(list, u)
			}
		}
		c.Pipeline.ReferenceURLs = list
	}
}

// expandTilde expands a tilde (~) at the beginning of a path to the user's home directory
func expandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

func dataDir() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "sitegen")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "sitegen")
}

func (c *Config) setupDefaultPaths() {
	c.Paths = PathsConfig{
		OutputDir:  filepath.Join(dataDir(), "output"),
		CorpusFile: filepath.Join(dataDir(), "corpus.json"),
	}
}

func (c *Config) validate() error {
	if c.Paths.OutputDir == "" {
		c.Paths.OutputDir = filepath.Join(dataDir(), "output")
	} else {
		c.Paths.OutputDir = expandTilde(c.Paths.OutputDir)
	}
	if c.Paths.CorpusFile == "" {
		c.Paths.CorpusFile = filepath.Join(dataDir(), "corpus.json")
	} else {
		c.Paths.CorpusFile = expandTilde(c.Paths.CorpusFile)
	}

	if len(c.Pipeline.ReferenceURLs) == 0 {
		c.Pipeline.ReferenceURLs = append([]string(nil), DefaultReferenceURLs...)
	}
	if c.Pipeline.Features == nil {
		c.Pipeline.Features = append([]string(nil), DefaultFeatures...)
	}
	if c.Scraper.Mode == "" {
		c.Scraper.Mode = "reference"
	}
	if c.Scraper.UserAgent == "" {
		c.Scraper.UserAgent = "Mozilla/5.0 (compatible; sitegen/1.0)"
	}

	c.Limits.fillDefaults()

	validate := validator.New()

	// Output directories are created on demand
	validate.RegisterValidation("dirpath", func(fl validator.FieldLevel) bool {
		return true
	})

	// The corpus file may not exist yet
	validate.RegisterValidation("filepath", func(fl validator.FieldLevel) bool {
		return fl.Field().String() != ""
	})

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

func saveConfig(cfg *Config, configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}
