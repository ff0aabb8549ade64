// Package config loads application configuration from environment variables
// (prefix STOCKDASH) with an optional YAML file underneath.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config is the complete application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server" envconfig:"SERVER"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Market  MarketConfig  `yaml:"market" envconfig:"MARKET"`
	Refresh RefreshConfig `yaml:"refresh" envconfig:"REFRESH"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int             `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"60s"`
	IdleTimeout     time.Duration   `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	AllowedOrigins  []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains inbound request rate limiting configuration.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"50"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"25"`
}

// LoggingConfig contains logging configuration. Output is one of
// console, file or both.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/stockdash.log"`
}

// MarketConfig configures the data provider, the fetch cache and the
// symbol allow-list offered in the dashboard sidebar.
type MarketConfig struct {
	ProviderBaseURL string        `yaml:"provider_base_url" envconfig:"PROVIDER_BASE_URL" default:"https://query1.finance.yahoo.com"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" default:"30s"`
	CacheTTL        time.Duration `yaml:"cache_ttl" envconfig:"CACHE_TTL" default:"5m"`
	RateRPS         float64       `yaml:"rate_rps" envconfig:"RATE_RPS" default:"4"`
	RateBurst       int           `yaml:"rate_burst" envconfig:"RATE_BURST" default:"2"`
	Symbols         []string      `yaml:"symbols" envconfig:"SYMBOLS" default:"AAPL,GOOGL,MSFT,TSLA,AMZN,NVDA,META,NFLX,AMD,INTC"`
	DefaultRange    string        `yaml:"default_range" envconfig:"DEFAULT_RANGE" default:"3mo"`
}

// RefreshConfig configures the background cache warmer.
type RefreshConfig struct {
	Enabled bool   `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	Spec    string `yaml:"spec" envconfig:"SPEC" default:"*/5 * * * *"`
}

// Load reads configuration from the environment, merging an optional YAML
// file found at one of the conventional locations underneath.
func Load() (*Config, error) {
	var cfg Config

	if path := findConfigFile(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	// Environment variables take precedence over the file
	if err := envconfig.Process("STOCKDASH", &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration for values the application cannot
// start with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Market.ProviderBaseURL == "" {
		return fmt.Errorf("market provider base URL must be set")
	}
	if c.Market.CacheTTL <= 0 {
		return fmt.Errorf("market cache TTL must be positive")
	}
	if len(c.Market.Symbols) == 0 {
		return fmt.Errorf("at least one market symbol must be configured")
	}
	for i, s := range c.Market.Symbols {
		c.Market.Symbols[i] = strings.ToUpper(strings.TrimSpace(s))
	}
	return nil
}

// AllowsSymbol reports whether symbol is on the configured allow-list.
func (c *Config) AllowsSymbol(symbol string) bool {
	for _, s := range c.Market.Symbols {
		if s == symbol {
			return true
		}
	}
	return false
}

// findConfigFile returns the first config file found at the conventional
// locations, or "" when only environment variables apply.
func findConfigFile() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}
