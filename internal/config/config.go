// Package config provides configuration management for the strategy matcher.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// Default values applied by normalize when a field is left unset.
const (
	defaultMaxDuration     = 5 * time.Second
	defaultMaxTotalMatches = 1000
	defaultDashboardPort   = 8090
	defaultRetryAttempts   = 3
)

// Config represents the complete matcher application configuration.
type Config struct {
	Environment EnvironmentConfig `yaml:"environment"`
	Underlyings []string          `yaml:"underlyings"`
	Catalog     CatalogConfig     `yaml:"catalog"`
	Holdings    HoldingsConfig    `yaml:"holdings"`
	Matcher     MatcherConfig     `yaml:"matcher"`
	Dashboard   DashboardConfig   `yaml:"dashboard"`
}

// EnvironmentConfig defines process-wide settings.
type EnvironmentConfig struct {
	LogLevel string `yaml:"log_level"` // debug | info | warn | error
}

// CatalogConfig points at the YAML file declaring strategy definitions.
type CatalogConfig struct {
	Path         string `yaml:"path"`
	IncludeBuilt bool   `yaml:"include_built_in"`
}

// HoldingsConfig selects and configures the holdings source.
type HoldingsConfig struct {
	Source string      `yaml:"source"` // mock | file
	Path   string      `yaml:"path"`   // required when source == file
	Retry  RetryConfig `yaml:"retry"`
}

// RetryConfig configures the backoff wrapper around a holdings.Source.
type RetryConfig struct {
	MaxAttempts    int           `yaml:"max_attempts"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff"`
	BackoffFactor  float64       `yaml:"backoff_factor"`
}

// MatcherConfig caps a single Matcher.Run call and selects its enumerator.
type MatcherConfig struct {
	MaxDuration     time.Duration `yaml:"max_duration"`
	MaxTotalMatches int           `yaml:"max_total_matches"`
	// MaxMatchesPerLeg is indexed by leg position within whichever
	// definition is searching: entry i caps leg i's candidates. An entry of
	// 0, or a definition with more legs than entries, leaves that leg
	// unbounded.
	MaxMatchesPerLeg []int  `yaml:"max_matches_per_leg"`
	Enumerator       string `yaml:"enumerator"` // default | absolute_risk
}

// DashboardConfig configures the read-only HTTP view.
type DashboardConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Load reads, parses, normalizes, and validates the configuration file at
// configPath.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- configPath is a user-provided config file path
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(strings.NewReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// normalize fills in defaults for fields the config file left unset.
func (c *Config) normalize() {
	if c.Matcher.MaxDuration == 0 {
		c.Matcher.MaxDuration = defaultMaxDuration
	}
	if c.Matcher.MaxTotalMatches == 0 {
		c.Matcher.MaxTotalMatches = defaultMaxTotalMatches
	}
	if c.Matcher.Enumerator == "" {
		c.Matcher.Enumerator = "default"
	}
	if c.Holdings.Retry.MaxAttempts == 0 {
		c.Holdings.Retry.MaxAttempts = defaultRetryAttempts
	}
	if c.Holdings.Retry.InitialBackoff == 0 {
		c.Holdings.Retry.InitialBackoff = 100 * time.Millisecond
	}
	if c.Holdings.Retry.MaxBackoff == 0 {
		c.Holdings.Retry.MaxBackoff = 2 * time.Second
	}
	if c.Holdings.Retry.BackoffFactor == 0 {
		c.Holdings.Retry.BackoffFactor = 2.0
	}
	if c.Dashboard.Addr == "" {
		c.Dashboard.Addr = fmt.Sprintf(":%d", defaultDashboardPort)
	}
	if c.Environment.LogLevel == "" {
		c.Environment.LogLevel = "info"
	}
}

// Validate checks that all configuration values are valid and consistent.
func (c *Config) Validate() error {
	if len(c.Underlyings) == 0 {
		return fmt.Errorf("underlyings must list at least one symbol")
	}
	for _, u := range c.Underlyings {
		if u == "" {
			return fmt.Errorf("underlyings entries must not be empty")
		}
	}

	switch c.Holdings.Source {
	case "mock":
	case "file":
		if c.Holdings.Path == "" {
			return fmt.Errorf("holdings.path is required when holdings.source is 'file'")
		}
	default:
		return fmt.Errorf("holdings.source must be 'mock' or 'file'")
	}

	if c.Holdings.Retry.MaxAttempts <= 0 {
		return fmt.Errorf("holdings.retry.max_attempts must be > 0")
	}
	if c.Holdings.Retry.InitialBackoff <= 0 {
		return fmt.Errorf("holdings.retry.initial_backoff must be > 0")
	}
	if c.Holdings.Retry.MaxBackoff < c.Holdings.Retry.InitialBackoff {
		return fmt.Errorf("holdings.retry.max_backoff must be >= initial_backoff")
	}

	if c.Matcher.MaxDuration <= 0 {
		return fmt.Errorf("matcher.max_duration must be > 0")
	}
	if c.Matcher.MaxTotalMatches <= 0 {
		return fmt.Errorf("matcher.max_total_matches must be > 0")
	}
	for _, cap := range c.Matcher.MaxMatchesPerLeg {
		if cap < 0 {
			return fmt.Errorf("matcher.max_matches_per_leg entries must be >= 0")
		}
	}
	switch c.Matcher.Enumerator {
	case "default", "absolute_risk":
	default:
		return fmt.Errorf("matcher.enumerator must be 'default' or 'absolute_risk'")
	}

	switch c.Environment.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("environment.log_level must be one of debug, info, warn, error")
	}

	return nil
}
