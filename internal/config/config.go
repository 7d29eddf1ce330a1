// Package config provides configuration management for the SafeBet Analyst application.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	LLM       LLMConfig       `mapstructure:"llm" validate:"required"`
	Scraper   ScraperConfig   `mapstructure:"scraper" validate:"required"`
	Fixtures  FixturesConfig  `mapstructure:"fixtures" validate:"required"`
	Live      LiveConfig      `mapstructure:"live" validate:"required"`
	Dashboard DashboardConfig `mapstructure:"dashboard" validate:"required"`
	Health    HealthConfig    `mapstructure:"health"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Notify    NotifyConfig    `mapstructure:"notify"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// LLMConfig configures the OpenAI-compatible chat completion endpoint
type LLMConfig struct {
	APIKey              string  `mapstructure:"api_key"`
	BaseURL             string  `mapstructure:"base_url" validate:"required,url"`
	Model               string  `mapstructure:"model" validate:"required"`
	TimeoutSeconds      int     `mapstructure:"timeout_seconds" validate:"gt=0"`
	MaxRetries          int     `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RateLimit           float64 `mapstructure:"rate_limit" validate:"gte=0"`
	CacheTTLSeconds     int     `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
	CacheMaxSize        int     `mapstructure:"cache_max_size" validate:"gt=0"`
	PreMatchTemperature float64 `mapstructure:"pre_match_temperature" validate:"gte=0,lte=2"`
	PreMatchMaxTokens   int     `mapstructure:"pre_match_max_tokens" validate:"gt=0"`
	LiveTemperature     float64 `mapstructure:"live_temperature" validate:"gte=0,lte=2"`
	LiveMaxTokens       int     `mapstructure:"live_max_tokens" validate:"gt=0"`
}

// ScraperConfig represents the bookmaker account scraper configuration
type ScraperConfig struct {
	Username               string `mapstructure:"username"`
	Password               string `mapstructure:"password"`
	LoginURL               string `mapstructure:"login_url" validate:"required,url"`
	HistoryURL             string `mapstructure:"history_url" validate:"required,url"`
	ActiveBetsURL          string `mapstructure:"active_bets_url" validate:"required,url"`
	Headless               bool   `mapstructure:"headless"`
	UserAgent              string `mapstructure:"user_agent" validate:"required"`
	LoginTimeoutSeconds    int    `mapstructure:"login_timeout_seconds" validate:"gt=0"`
	PageTimeoutSeconds     int    `mapstructure:"page_timeout_seconds" validate:"gt=0"`
	SettleDelaySeconds     int    `mapstructure:"settle_delay_seconds" validate:"gte=0"`
	AutoRefresh            bool   `mapstructure:"auto_refresh"`
	RefreshIntervalMinutes int    `mapstructure:"refresh_interval_minutes" validate:"min=1,max=60"`
}

// FixturesConfig selects where fixtures are loaded from
type FixturesConfig struct {
	Source         string  `mapstructure:"source" validate:"required,fixturesource"`
	FeedURL        string  `mapstructure:"feed_url" validate:"omitempty,url"`
	APIKey         string  `mapstructure:"api_key"`
	HorizonHours   int     `mapstructure:"horizon_hours" validate:"gt=0"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"gt=0"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"gte=0"`
}

// LiveConfig configures the live-state simulator
type LiveConfig struct {
	IntervalSeconds     int     `mapstructure:"interval_seconds" validate:"gt=1"`
	WindowHours         int     `mapstructure:"window_hours" validate:"gt=0"`
	GoalChancePerMinute float64 `mapstructure:"goal_chance_per_minute" validate:"gte=0,lte=1"`
	AutoStart           bool    `mapstructure:"auto_start"`
	SettlePredictions   bool    `mapstructure:"settle_predictions"`
}

// DashboardConfig configures the web dashboard
type DashboardConfig struct {
	Address           string `mapstructure:"address" validate:"required"`
	SessionTTLMinutes int    `mapstructure:"session_ttl_minutes" validate:"gt=0"`
	CookieName        string `mapstructure:"cookie_name" validate:"required"`
	CookieSecure      bool   `mapstructure:"cookie_secure"`
	TopPredictions    int    `mapstructure:"top_predictions" validate:"gt=0"`
}

// HealthConfig configures the health check server
type HealthConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"omitempty,startswith=/"`
}

// DatabaseConfig represents database connection configuration for
// prediction history persistence
type DatabaseConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"gte=0"`
}

// NotifyConfig configures outbound notifications
type NotifyConfig struct {
	NewBets     bool           `mapstructure:"new_bets"`
	Predictions bool           `mapstructure:"predictions"`
	Telegram    TelegramConfig `mapstructure:"telegram"`
}

// TelegramConfig configures the Telegram notifier
type TelegramConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	BotToken           string `mapstructure:"bot_token"`
	ChatID             int64  `mapstructure:"chat_id"`
	MinIntervalSeconds int    `mapstructure:"min_interval_seconds" validate:"gte=0"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
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

// LLMTimeout returns the per-request LLM timeout
func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLM.TimeoutSeconds) * time.Second
}

// LiveInterval returns the live update period
func (c *Config) LiveInterval() time.Duration {
	return time.Duration(c.Live.IntervalSeconds) * time.Second
}

// FixtureHorizon returns how far ahead upcoming fixtures are considered
func (c *Config) FixtureHorizon() time.Duration {
	return time.Duration(c.Fixtures.HorizonHours) * time.Hour
}

// BetRefreshInterval returns the bet auto-refresh period
func (c *Config) BetRefreshInterval() time.Duration {
	return time.Duration(c.Scraper.RefreshIntervalMinutes) * time.Minute
}
