// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	Feed      FeedConfig      `mapstructure:"feed"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Migration MigrationConfig `mapstructure:"migration"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// FeedConfig governs the upstream job-postings API client.
type FeedConfig struct {
	BaseURL             string `mapstructure:"base_url"`
	MaxPages            int    `mapstructure:"max_pages"`
	ItemsPerPage        int    `mapstructure:"items_per_page"`
	SinglePageItems     int    `mapstructure:"single_page_items"`
	MaxRetries          int    `mapstructure:"max_retries"`
	RetryBackoffSeconds int    `mapstructure:"retry_backoff_seconds"`
	PageDelaySeconds    int    `mapstructure:"page_delay_seconds"`
	TimeoutSeconds      int    `mapstructure:"timeout_seconds"`
	UserAgent           string `mapstructure:"user_agent"`
}

// DatabaseConfig controls access to Postgres.
type DatabaseConfig struct {
	DSN      string `mapstructure:"dsn"`
	Table    string `mapstructure:"table"`
	MaxConns int    `mapstructure:"max_conns"`
	MinConns int    `mapstructure:"min_conns"`
}

// MigrationConfig governs the location migration tool.
type MigrationConfig struct {
	IntervalSeconds int `mapstructure:"interval_seconds"`
}

// MetricsConfig sets the operational HTTP listener used in continuous mode.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FREEWORK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("feed.base_url", "https://www.free-work.com")
	v.SetDefault("feed.max_pages", 10)
	v.SetDefault("feed.items_per_page", 1000)
	v.SetDefault("feed.single_page_items", 100)
	v.SetDefault("feed.max_retries", 3)
	v.SetDefault("feed.retry_backoff_seconds", 10)
	v.SetDefault("feed.page_delay_seconds", 2)
	v.SetDefault("feed.timeout_seconds", 20)
	v.SetDefault("feed.user_agent",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:140.0) Gecko/20100101 Firefox/140.0")
	// Empty default keeps the key visible to AutomaticEnv; Validate rejects it.
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.table", "freework_jobs")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.min_conns", 0)
	v.SetDefault("migration.interval_seconds", 3600)
	v.SetDefault("metrics.addr", ":9090")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Feed.BaseURL == "" {
		return fmt.Errorf("feed.base_url is required")
	}
	if c.Feed.MaxPages <= 0 {
		return fmt.Errorf("feed.max_pages must be > 0")
	}
	if c.Feed.ItemsPerPage <= 0 || c.Feed.SinglePageItems <= 0 {
		return fmt.Errorf("feed page sizes must be > 0")
	}
	if c.Feed.MaxRetries <= 0 {
		return fmt.Errorf("feed.max_retries must be > 0")
	}
	if c.Feed.TimeoutSeconds <= 0 {
		return fmt.Errorf("feed.timeout_seconds must be > 0")
	}
	if c.Migration.IntervalSeconds <= 0 {
		return fmt.Errorf("migration.interval_seconds must be > 0")
	}
	return nil
}

// RetryBackoff returns the fixed delay between fetch attempts.
func (c FeedConfig) RetryBackoff() time.Duration {
	return time.Duration(c.RetryBackoffSeconds) * time.Second
}

// PageDelay returns the pause inserted between successive page fetches.
func (c FeedConfig) PageDelay() time.Duration {
	return time.Duration(c.PageDelaySeconds) * time.Second
}

// Timeout returns the per-request HTTP timeout.
func (c FeedConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Interval returns the continuous-mode re-run interval.
func (c MigrationConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}
