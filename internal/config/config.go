package config

import (
	"context"
	"fmt"
	"time"

	"user_api/internal/utils"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all process-wide settings. It is loaded once at startup and never mutated.
type Config struct {
	Port     string `env:"SERVER_PORT, default=3002"`
	Env      string `env:"APP_ENV, default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	DB  DBConfig
	JWT JWTConfig
}

// DBConfig holds database connection parameters
type DBConfig struct {
	Host     string `env:"DATABASE_HOST, default=localhost"`
	Port     string `env:"DATABASE_PORT, default=5432"`
	User     string `env:"DATABASE_USER, required"`
	Password string `env:"DATABASE_PASSWORD"`
	Name     string `env:"DATABASE, required"`
}

// JWTConfig holds token signing settings
type JWTConfig struct {
	Secret    string `env:"JWT_SECRET, required"`
	ExpiresIn string `env:"JWT_EXPIRES_IN, default=1h"`

	// Lifetime is ExpiresIn parsed by Load
	Lifetime time.Duration
}

// DSN returns the libpq-style connection string
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Name)
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	lifetime, err := utils.ParseLifetime(cfg.JWT.ExpiresIn)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRES_IN %q: %w", cfg.JWT.ExpiresIn, err)
	}
	cfg.JWT.Lifetime = lifetime

	return &cfg, nil
}
