package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Storage drivers
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverSQLite = "sqlite"
)

type Config struct {
	Server  ServerConfig
	OTLP    OTLPConfig
	Storage StorageConfig
}

type ServerConfig struct {
	Port string `env:"SERVER_PORT" envDefault:"8080"`
	Host string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
}

type OTLPConfig struct {
	Enabled     bool   `env:"OTEL_ENABLED" envDefault:"true"`
	Endpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4317"`
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"storefront-api"`
	Environment string `env:"OTEL_ENVIRONMENT" envDefault:"development"`
}

type StorageConfig struct {
	Driver     string `env:"STORAGE_DRIVER" envDefault:"memory"`
	Namespace  string `env:"STORAGE_NAMESPACE" envDefault:"adg"`
	RedisURL   string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"storefront.db"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	switch cfg.Storage.Driver {
	case DriverMemory, DriverRedis, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}

	return &cfg, nil
}
