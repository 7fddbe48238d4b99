package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete application configuration.
type Config struct {
	Account AccountConfig `json:"account" yaml:"account"`
	Feed    FeedConfig    `json:"feed" yaml:"feed"`
	Store   StoreConfig   `json:"store" yaml:"store"`
	Server  ServerConfig  `json:"server" yaml:"server"`
	Log     LogConfig     `json:"log,omitempty" yaml:"log,omitempty"`
}

// LogConfig controls logger verbosity. Level is a zap level name; empty
// means "info".
type LogConfig struct {
	Level string `json:"level,omitempty" yaml:"level,omitempty"`
}

// AccountConfig controls how new profiles start out.
type AccountConfig struct {
	Currency       string  `json:"currency" yaml:"currency"`
	OpeningBalance float64 `json:"opening_balance" yaml:"opening_balance"`
}

// FeedConfig controls the price feed client and poller.
type FeedConfig struct {
	BaseURL  string   `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Interval string   `json:"interval,omitempty" yaml:"interval,omitempty"` // e.g. "5s", "30s"
	Assets   []string `json:"assets,omitempty" yaml:"assets,omitempty"`
}

// ParseInterval converts the poll interval to a duration; empty means the
// feed default.
func (fc FeedConfig) ParseInterval() (time.Duration, error) {
	if fc.Interval == "" {
		return 0, nil
	}
	return time.ParseDuration(fc.Interval)
}

// StoreConfig locates the local database.
type StoreConfig struct {
	DBPath string `json:"db_path" yaml:"db_path"`
}

// ServerConfig controls the read-only dashboard.
type ServerConfig struct {
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`
}

// LoadFromFile loads configuration from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration as YAML (.yaml/.yml) or indented JSON.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if c.Account.Currency == "" {
		return fmt.Errorf("account.currency is required")
	}
	if c.Account.OpeningBalance <= 0 {
		return fmt.Errorf("account.opening_balance must be positive")
	}
	if c.Store.DBPath == "" {
		return fmt.Errorf("store.db_path is required")
	}
	if _, err := c.Feed.ParseInterval(); err != nil {
		return fmt.Errorf("feed.interval: %w", err)
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			Currency:       "USD",
			OpeningBalance: 10000,
		},
		Feed: FeedConfig{
			Interval: "5s",
			Assets:   []string{"bitcoin", "ethereum"},
		},
		Store: StoreConfig{
			DBPath: "./investsim.sqlite",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}
