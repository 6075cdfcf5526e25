// Package config loads the optional YAML configuration file and fills in
// defaults. Command-line flags override file values; MATOMO_* environment
// variables fill empty connection fields last.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Matomo            MatomoConfig    `yaml:"matomo"`
	Generator         GeneratorConfig `yaml:"generator"`
	Output            string          `yaml:"output"`
	CacheDir          string          `yaml:"cache_dir"`
	MaxResponseSizeKB int             `yaml:"max_response_size_kb"`
}

type MatomoConfig struct {
	URL     string `yaml:"url"`
	Token   string `yaml:"token"`
	Cookies string `yaml:"cookies"`
	SiteID  string `yaml:"site_id"`
}

type GeneratorConfig struct {
	Date          string `yaml:"date"`
	Period        string `yaml:"period"`
	DelayMS       int    `yaml:"delay_ms"`
	FetchExamples bool   `yaml:"fetch_examples"`
	Limit         int    `yaml:"limit"`
	VerboseOutput bool   `yaml:"verbose_output"`
}

func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "mcp-matomo", "config.yaml")
}

// Load reads the config at path. An empty path means the default
// location, where a missing file is fine and yields plain defaults; an
// explicitly given path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			cfg.applyDefaults()
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Matomo.URL == "" {
		c.Matomo.URL = os.Getenv("MATOMO_URL")
	}
	if c.Matomo.Token == "" {
		c.Matomo.Token = os.Getenv("MATOMO_TOKEN")
	}
	if c.Matomo.SiteID == "" {
		c.Matomo.SiteID = os.Getenv("MATOMO_SITE_ID")
	}
	if c.Matomo.SiteID == "" {
		c.Matomo.SiteID = "1"
	}
	if c.Generator.Date == "" {
		c.Generator.Date = "yesterday"
	}
	if c.Generator.Period == "" {
		c.Generator.Period = "day"
	}
	if c.Generator.DelayMS == 0 {
		c.Generator.DelayMS = 100
	}
	if c.Output == "" {
		c.Output = "matomo-openapi.json"
	}
	if c.MaxResponseSizeKB <= 0 {
		c.MaxResponseSizeKB = 50
	}
}
