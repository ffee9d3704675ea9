package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// AppConfig encapsulates all runtime configuration knobs.
type AppConfig struct {
	App       AppSettings
	HTTP      HTTPSettings
	Log       LogSettings
	Database  DatabaseSettings
	CORS      CORSSettings
	Telemetry TelemetrySettings
}

type AppSettings struct {
	Name        string `env:"APP_NAME" envDefault:"api-obras-sociales"`
	Version     string `env:"APP_VERSION" envDefault:"1.0.0"`
	Environment string `env:"APP_ENV" envDefault:"local"`
}

type HTTPSettings struct {
	Port            int           `env:"APP_PORT" envDefault:"8001"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"10s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

type LogSettings struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

type DatabaseSettings struct {
	Driver          string        `env:"DB_DRIVER" envDefault:"pgx"`
	Host            string        `env:"DB_HOST" envDefault:"localhost"`
	Port            int           `env:"DB_PORT" envDefault:"5432"`
	Database        string        `env:"DB_NAME" envDefault:"obras_sociales_db"`
	User            string        `env:"DB_USER" envDefault:"tfi_user"`
	Password        string        `env:"DB_PASSWORD" envDefault:"tfi_password"`
	SSLMode         string        `env:"DB_SSL_MODE" envDefault:"disable"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
	QueryTimeout    time.Duration `env:"DB_QUERY_TIMEOUT" envDefault:"0s"`
}

type CORSSettings struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	MaxAge         int      `env:"CORS_MAX_AGE" envDefault:"86400"`
}

type TelemetrySettings struct {
	Enabled  bool   `env:"OTEL_ENABLED" envDefault:"false"`
	Endpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Load resolves the application configuration from environment variables.
// It first attempts to load variables from a .env file if it exists.
// Environment variables set in the system take precedence over .env file values.
func Load() (AppConfig, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate rejects configurations the service cannot start with.
func (c AppConfig) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid config: APP_PORT must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Database.Host == "" {
		return errors.New("invalid config: DB_HOST is required")
	}
	if c.Database.Database == "" {
		return errors.New("invalid config: DB_NAME is required")
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid config: DB_PORT must be between 1 and 65535, got %d", c.Database.Port)
	}
	switch c.Database.Driver {
	case "pgx", "postgres":
	default:
		return fmt.Errorf("invalid config: DB_DRIVER must be 'pgx' or 'postgres', got %q", c.Database.Driver)
	}
	if c.Database.QueryTimeout < 0 {
		return errors.New("invalid config: DB_QUERY_TIMEOUT cannot be negative")
	}
	if c.Telemetry.Enabled && c.Telemetry.Endpoint == "" {
		return errors.New("invalid config: OTEL_EXPORTER_OTLP_ENDPOINT is required when OTEL_ENABLED=true")
	}
	return nil
}

// Address returns the HTTP listen address in host:port form.
func (h HTTPSettings) Address() string {
	return fmt.Sprintf(":%d", h.Port)
}
