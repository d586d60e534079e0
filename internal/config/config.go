// Package config provides typed application configuration loaded via Viper.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/jonesrussell/gotrack/internal/logger"
)

// Defaults for configuration values not provided by file or environment.
const (
	DefaultServerAddress    = ":8080"
	DefaultReadTimeout      = 15 * time.Second
	DefaultWriteTimeout     = 15 * time.Second
	DefaultFetchTimeout     = 30 * time.Second
	DefaultMaxConcurrency   = 4
	DefaultUserAgent        = "gotrack/1.0"
	DefaultRemovalRatio     = 0.5
	DefaultRemovalAlertMin  = 5
	DefaultRemovedThreshold = 3
	DefaultCronSpec         = "@every 10m"
	DefaultMaxOpenConns     = 25
	DefaultMaxIdleConns     = 5
	DefaultConnMaxLifetime  = 5 * time.Minute
)

// Config is the root application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Logger    logger.Config   `mapstructure:"logger"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Scraper   ScraperConfig   `mapstructure:"scraper"`
	Diff      DiffConfig      `mapstructure:"diff"`
	Notify    NotifyConfig    `mapstructure:"notify"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds PostgreSQL connection and pool settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// ScraperConfig holds scrape execution settings.
type ScraperConfig struct {
	FetchTimeout   time.Duration `mapstructure:"fetch_timeout"`
	MaxConcurrency int           `mapstructure:"max_concurrency"`
	UserAgent      string        `mapstructure:"user_agent"`
}

// DiffConfig holds diff anomaly detection settings.
type DiffConfig struct {
	// RemovalAlertRatio flags a scrape as partial when more than this
	// fraction of the prior active set goes missing in one scrape.
	RemovalAlertRatio float64 `mapstructure:"removal_alert_ratio"`
	// RemovalAlertMin is the minimum prior active count before the
	// ratio check applies.
	RemovalAlertMin int `mapstructure:"removal_alert_min"`
}

// NotifyConfig holds notification emission settings.
type NotifyConfig struct {
	// RemovedThreshold is the removed-item count that triggers a
	// notification even when no new items appeared.
	RemovedThreshold int `mapstructure:"removed_threshold"`
}

// SchedulerConfig holds the cron schedule for due scrapes.
type SchedulerConfig struct {
	CronSpec string `mapstructure:"cron_spec"`
}

// SetDefaults registers default values on the given Viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("app", map[string]any{
		"name":        "gotrack",
		"environment": "production",
		"debug":       false,
	})

	v.SetDefault("logger", map[string]any{
		"level":    "info",
		"encoding": "json",
	})

	v.SetDefault("server", map[string]any{
		"address":       DefaultServerAddress,
		"read_timeout":  DefaultReadTimeout.String(),
		"write_timeout": DefaultWriteTimeout.String(),
	})

	v.SetDefault("database", map[string]any{
		"host":              "127.0.0.1",
		"port":              "5432",
		"user":              "gotrack",
		"dbname":            "gotrack",
		"sslmode":           "disable",
		"max_open_conns":    DefaultMaxOpenConns,
		"max_idle_conns":    DefaultMaxIdleConns,
		"conn_max_lifetime": DefaultConnMaxLifetime.String(),
	})

	v.SetDefault("scraper", map[string]any{
		"fetch_timeout":   DefaultFetchTimeout.String(),
		"max_concurrency": DefaultMaxConcurrency,
		"user_agent":      DefaultUserAgent,
	})

	v.SetDefault("diff", map[string]any{
		"removal_alert_ratio": DefaultRemovalRatio,
		"removal_alert_min":   DefaultRemovalAlertMin,
	})

	v.SetDefault("notify", map[string]any{
		"removed_threshold": DefaultRemovedThreshold,
	})

	v.SetDefault("scheduler", map[string]any{
		"cron_spec": DefaultCronSpec,
	})
}

// Load unmarshals the Viper state into a Config.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
