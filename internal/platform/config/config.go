package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all configuration for the bot process.
type Config struct {
	// Telegram configuration
	Telegram TelegramConfig

	// Movie provider configuration
	Provider ProviderConfig

	// Database configuration
	Database DatabaseConfig

	// Redis configuration (used only when rate limiting is enabled)
	Redis RedisConfig

	// Application configuration
	App AppConfig

	// Ops HTTP server configuration (health, metrics)
	Ops OpsConfig
}

// TelegramConfig holds bot transport configuration.
type TelegramConfig struct {
	Token       string        `env:"BOT_TOKEN"`
	PollTimeout time.Duration `env:"BOT_POLL_TIMEOUT" envDefault:"30s"`
	Debug       bool          `env:"BOT_DEBUG" envDefault:"false"`
}

// ProviderConfig holds the movie API configuration.
type ProviderConfig struct {
	APIKey  string        `env:"KINOPOISK_API_KEY"`
	BaseURL string        `env:"KINOPOISK_BASE_URL" envDefault:""`
	Timeout time.Duration `env:"KINOPOISK_TIMEOUT" envDefault:"10s"`
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host            string        `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port            int           `env:"POSTGRES_PORT" envDefault:"5432"`
	User            string        `env:"POSTGRES_USER" envDefault:"filmbot"`
	Password        string        `env:"POSTGRES_PASSWORD" envDefault:"filmbot"`
	Database        string        `env:"POSTGRES_DB" envDefault:"filmbot"`
	SSLMode         string        `env:"POSTGRES_SSLMODE" envDefault:"disable"`
	MaxConns        int32         `env:"POSTGRES_MAX_CONNS" envDefault:"10"`
	MinConns        int32         `env:"POSTGRES_MIN_CONNS" envDefault:"2"`
	MaxConnLifetime time.Duration `env:"POSTGRES_MAX_CONN_LIFETIME" envDefault:"1h"`
	MaxConnIdleTime time.Duration `env:"POSTGRES_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	ConnectTimeout  time.Duration `env:"POSTGRES_CONNECT_TIMEOUT" envDefault:"10s"`
}

// ConnectionString returns the PostgreSQL connection string in URL format.
func (d DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%d/%s?sslmode=%s&connect_timeout=%d",
		d.User, d.Password, d.Host, d.Port, d.Database, d.SSLMode,
		int(d.ConnectTimeout.Seconds()),
	)
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Host         string        `env:"REDIS_HOST" envDefault:"localhost"`
	Port         int           `env:"REDIS_PORT" envDefault:"6379"`
	Password     string        `env:"REDIS_PASSWORD" envDefault:""`
	DB           int           `env:"REDIS_DB" envDefault:"0"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// Address returns the Redis address in host:port format.
func (r RedisConfig) Address() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// AppConfig holds application-specific configuration.
type AppConfig struct {
	LogLevel  string `env:"APP_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"APP_LOG_FORMAT" envDefault:"text"` // text or json

	RateLimitEnabled     bool          `env:"APP_RATE_LIMIT_ENABLED" envDefault:"false"`
	RateLimitWindow      time.Duration `env:"APP_RATE_LIMIT_WINDOW" envDefault:"1m"`
	RateLimitMaxRequests int           `env:"APP_RATE_LIMIT_MAX_REQUESTS" envDefault:"20"`
}

// OpsConfig holds the ops HTTP server configuration.
type OpsConfig struct {
	Enabled      bool          `env:"OPS_SERVER_ENABLED" envDefault:"true"`
	Host         string        `env:"OPS_SERVER_HOST" envDefault:"0.0.0.0"`
	Port         int           `env:"OPS_SERVER_PORT" envDefault:"8080"`
	ReadTimeout  time.Duration `env:"OPS_SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout time.Duration `env:"OPS_SERVER_WRITE_TIMEOUT" envDefault:"10s"`
	IdleTimeout  time.Duration `env:"OPS_SERVER_IDLE_TIMEOUT" envDefault:"60s"`
}

// Address returns the ops server address in host:port format.
func (o OpsConfig) Address() string {
	return fmt.Sprintf("%s:%d", o.Host, o.Port)
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate performs validation on the configuration.
func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("bot token is required")
	}
	if c.Provider.APIKey == "" {
		return fmt.Errorf("provider api key is required")
	}
	if c.Provider.Timeout <= 0 {
		return fmt.Errorf("provider timeout must be positive")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Database.MaxConns < c.Database.MinConns {
		return fmt.Errorf("database max connections (%d) must be >= min connections (%d)",
			c.Database.MaxConns, c.Database.MinConns)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.App.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)",
			c.App.LogLevel)
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.App.LogFormat] {
		return fmt.Errorf("invalid log format: %s (must be text or json)",
			c.App.LogFormat)
	}

	if c.App.RateLimitEnabled {
		if c.App.RateLimitWindow <= 0 {
			return fmt.Errorf("rate limit window must be positive")
		}
		if c.App.RateLimitMaxRequests <= 0 {
			return fmt.Errorf("rate limit max requests must be positive")
		}
		if c.Redis.Host == "" {
			return fmt.Errorf("redis host is required when rate limiting is enabled")
		}
	}

	if c.Ops.Enabled {
		if c.Ops.Port < 1 || c.Ops.Port > 65535 {
			return fmt.Errorf("invalid ops server port: %d", c.Ops.Port)
		}
	}

	return nil
}
