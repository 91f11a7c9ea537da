// Package config provides configuration management for the Superquote dashboard backend.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Analysis AnalysisConfig `mapstructure:"analysis" validate:"required"`
	Dataset  DatasetConfig  `mapstructure:"dataset" validate:"required"`
	Metrics  MetricsConfig  `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host" validate:"required"`
	Port           int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required"`
	User           string `mapstructure:"user" validate:"required"`
	Password       string `mapstructure:"password" validate:"required"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"required,gt=0"`
}

// ServerConfig represents the HTTP API server configuration
type ServerConfig struct {
	Port                int `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeoutSeconds  int `mapstructure:"read_timeout_seconds" validate:"required,gt=0"`
	WriteTimeoutSeconds int `mapstructure:"write_timeout_seconds" validate:"required,gt=0"`
}

// AuthConfig represents the dashboard password gate configuration.
// The password is compared in constant time; a successful login issues a
// bearer token valid for TokenTTLHours.
type AuthConfig struct {
	Password      string `mapstructure:"password" validate:"required"`
	TokenTTLHours int    `mapstructure:"token_ttl_hours" validate:"required,gt=0"`
}

// AnalysisConfig represents the betting-edge estimation engine configuration
type AnalysisConfig struct {
	DebounceMillis           int     `mapstructure:"debounce_millis" validate:"required,gt=0"`
	RepositoryTimeoutSeconds int     `mapstructure:"repository_timeout_seconds" validate:"required,gt=0"`
	EdgeThreshold            float64 `mapstructure:"edge_threshold" validate:"required,gt=0"`
	HomeAdvantageElo         float64 `mapstructure:"home_advantage_elo" validate:"gte=0"`
	RecentFixturesLimit      int     `mapstructure:"recent_fixtures_limit" validate:"required,gt=0"`
	CacheTTLSeconds          int     `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
}

// DatasetConfig represents historical match dataset ingestion configuration
type DatasetConfig struct {
	SourceURL       string  `mapstructure:"source_url" validate:"omitempty,url"`
	SourcePath      string  `mapstructure:"source_path"`
	BatchSize       int     `mapstructure:"batch_size" validate:"required,gt=0"`
	RefreshSchedule string  `mapstructure:"refresh_schedule" validate:"omitempty,cronexpr"`
	RateLimit       float64 `mapstructure:"rate_limit" validate:"gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// DebounceWindow returns the orchestrator quiet window as a duration
func (c *Config) DebounceWindow() time.Duration {
	return time.Duration(c.Analysis.DebounceMillis) * time.Millisecond
}

// RepositoryTimeout returns the per-run repository deadline as a duration
func (c *Config) RepositoryTimeout() time.Duration {
	return time.Duration(c.Analysis.RepositoryTimeoutSeconds) * time.Second
}
