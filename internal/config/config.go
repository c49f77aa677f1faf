package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv      string `env:"APP_ENV" default:"development"`
	Port        string `env:"PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL"`
	RedisURL    string `env:"REDIS_URL"`
	LogLevel    string `env:"LOG_LEVEL" default:"info"`
	LogFormat   string `env:"LOG_FORMAT" default:"text"`

	MaxClientsPerTopic int           `env:"MAX_CLIENTS_PER_TOPIC" default:"100"`
	WriteTimeout       time.Duration `env:"WS_WRITE_TIMEOUT" default:"5s"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT" default:"10s"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.MaxClientsPerTopic < 1 {
		return fmt.Errorf("MAX_CLIENTS_PER_TOPIC must be positive, got %d", cfg.MaxClientsPerTopic)
	}
	if cfg.WriteTimeout <= 0 {
		return fmt.Errorf("WS_WRITE_TIMEOUT must be positive, got %v", cfg.WriteTimeout)
	}
	return nil
}
