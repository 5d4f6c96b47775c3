package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines configuration for the geofetch CLI.
type Config struct {
	Endpoint    string      `yaml:"endpoint"`
	Credentials string      `yaml:"credentials"`
	Collection  string      `yaml:"collection"`
	Band        string      `yaml:"band"`
	Regions     string      `yaml:"regions"`
	RegionKey   string      `yaml:"region_key"`
	Years       []int       `yaml:"years"`
	Frequency   string      `yaml:"frequency"`
	Scale       int         `yaml:"scale"`
	CRS         string      `yaml:"crs"`
	Output      string      `yaml:"output"`
	Workers     int         `yaml:"workers"`
	Progress    bool        `yaml:"progress"`
	Retry       RetryConfig `yaml:"retry"`
}

// RetryConfig defines per-download retry behavior.
type RetryConfig struct {
	Attempts int           `yaml:"attempts"`
	Backoff  time.Duration `yaml:"backoff"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Frequency: "yearly",
		Scale:     500,
		CRS:       "EPSG:4326",
		Workers:   5,
		Retry: RetryConfig{
			Attempts: 5,
			Backoff:  320 * time.Millisecond,
		},
	}
}

// yamlConfig is used for YAML unmarshaling with string durations.
type yamlConfig struct {
	Endpoint    string          `yaml:"endpoint"`
	Credentials string          `yaml:"credentials"`
	Collection  string          `yaml:"collection"`
	Band        string          `yaml:"band"`
	Regions     string          `yaml:"regions"`
	RegionKey   string          `yaml:"region_key"`
	Years       []int           `yaml:"years"`
	Frequency   string          `yaml:"frequency"`
	Scale       int             `yaml:"scale"`
	CRS         string          `yaml:"crs"`
	Output      string          `yaml:"output"`
	Workers     int             `yaml:"workers"`
	Progress    bool            `yaml:"progress"`
	Retry       yamlRetryConfig `yaml:"retry"`
}

type yamlRetryConfig struct {
	Attempts int    `yaml:"attempts"`
	Backoff  string `yaml:"backoff"`
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	cfg := Default()

	if yc.Endpoint != "" {
		cfg.Endpoint = yc.Endpoint
	}
	if yc.Credentials != "" {
		cfg.Credentials = yc.Credentials
	}
	if yc.Collection != "" {
		cfg.Collection = yc.Collection
	}
	if yc.Band != "" {
		cfg.Band = yc.Band
	}
	if yc.Regions != "" {
		cfg.Regions = yc.Regions
	}
	if yc.RegionKey != "" {
		cfg.RegionKey = yc.RegionKey
	}
	if len(yc.Years) > 0 {
		cfg.Years = yc.Years
	}
	if yc.Frequency != "" {
		cfg.Frequency = yc.Frequency
	}
	if yc.Scale != 0 {
		cfg.Scale = yc.Scale
	}
	if yc.CRS != "" {
		cfg.CRS = yc.CRS
	}
	if yc.Output != "" {
		cfg.Output = yc.Output
	}
	if yc.Workers != 0 {
		cfg.Workers = yc.Workers
	}
	cfg.Progress = yc.Progress
	if yc.Retry.Attempts != 0 {
		cfg.Retry.Attempts = yc.Retry.Attempts
	}
	if yc.Retry.Backoff != "" {
		d, err := time.ParseDuration(yc.Retry.Backoff)
		if err != nil {
			return Config{}, fmt.Errorf("parse retry.backoff: %w", err)
		}
		cfg.Retry.Backoff = d
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables use the GEOFETCH_ prefix.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("GEOFETCH_ENDPOINT"); v != "" {
		c.Endpoint = v
	}
	if v := os.Getenv("GEOFETCH_CREDENTIALS"); v != "" {
		c.Credentials = v
	}
	if v := os.Getenv("GEOFETCH_COLLECTION"); v != "" {
		c.Collection = v
	}
	if v := os.Getenv("GEOFETCH_BAND"); v != "" {
		c.Band = v
	}
	if v := os.Getenv("GEOFETCH_REGIONS"); v != "" {
		c.Regions = v
	}
	if v := os.Getenv("GEOFETCH_REGION_KEY"); v != "" {
		c.RegionKey = v
	}
	if v := os.Getenv("GEOFETCH_YEARS"); v != "" {
		years, err := ParseYears(v)
		if err != nil {
			return fmt.Errorf("parse GEOFETCH_YEARS: %w", err)
		}
		c.Years = years
	}
	if v := os.Getenv("GEOFETCH_FREQUENCY"); v != "" {
		c.Frequency = v
	}
	if v := os.Getenv("GEOFETCH_SCALE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse GEOFETCH_SCALE: %w", err)
		}
		c.Scale = n
	}
	if v := os.Getenv("GEOFETCH_CRS"); v != "" {
		c.CRS = v
	}
	if v := os.Getenv("GEOFETCH_OUTPUT"); v != "" {
		c.Output = v
	}
	if v := os.Getenv("GEOFETCH_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse GEOFETCH_WORKERS: %w", err)
		}
		c.Workers = n
	}
	if v := os.Getenv("GEOFETCH_PROGRESS"); v != "" {
		c.Progress = v == "true" || v == "1"
	}
	if v := os.Getenv("GEOFETCH_RETRY_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse GEOFETCH_RETRY_ATTEMPTS: %w", err)
		}
		c.Retry.Attempts = n
	}
	if v := os.Getenv("GEOFETCH_RETRY_BACKOFF"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse GEOFETCH_RETRY_BACKOFF: %w", err)
		}
		c.Retry.Backoff = d
	}

	return nil
}

// Validate validates the configuration for a collection fetch.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return errors.New("config: endpoint is required")
	}
	if c.Collection == "" {
		return errors.New("config: collection is required")
	}
	if c.Band == "" {
		return errors.New("config: band is required")
	}
	if c.Regions == "" {
		return errors.New("config: regions file is required")
	}
	if c.RegionKey == "" {
		return errors.New("config: region_key is required")
	}
	if c.Output == "" {
		return errors.New("config: output directory is required")
	}
	if c.Workers <= 0 {
		return errors.New("config: workers must be positive")
	}
	if c.Scale <= 0 {
		return errors.New("config: scale must be positive")
	}
	return nil
}

// Merge merges override values into c, returning a new Config.
// Zero values in override are ignored.
func (c Config) Merge(override Config) Config {
	if override.Endpoint != "" {
		c.Endpoint = override.Endpoint
	}
	if override.Credentials != "" {
		c.Credentials = override.Credentials
	}
	if override.Collection != "" {
		c.Collection = override.Collection
	}
	if override.Band != "" {
		c.Band = override.Band
	}
	if override.Regions != "" {
		c.Regions = override.Regions
	}
	if override.RegionKey != "" {
		c.RegionKey = override.RegionKey
	}
	if len(override.Years) > 0 {
		c.Years = override.Years
	}
	if override.Frequency != "" {
		c.Frequency = override.Frequency
	}
	if override.Scale != 0 {
		c.Scale = override.Scale
	}
	if override.CRS != "" {
		c.CRS = override.CRS
	}
	if override.Output != "" {
		c.Output = override.Output
	}
	if override.Workers != 0 {
		c.Workers = override.Workers
	}
	if override.Progress {
		c.Progress = override.Progress
	}
	if override.Retry.Attempts != 0 {
		c.Retry.Attempts = override.Retry.Attempts
	}
	if override.Retry.Backoff != 0 {
		c.Retry.Backoff = override.Retry.Backoff
	}
	return c
}

// ParseYears parses a comma-separated year list like "2019,2020,2021".
func ParseYears(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	years := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		y, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid year %q", p)
		}
		years = append(years, y)
	}
	return years, nil
}
