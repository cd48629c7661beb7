package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config contains server configuration parameters.
type Config struct {
	LogLevel  int      `env:"LOG_LEVEL" envDefault:"0"`
	LogFormat string   `env:"LOG_FORMAT" envDefault:"text"`
	HTTP      HTTP     `envPrefix:"HTTP_"`
	GRPC      GRPC     `envPrefix:"GRPC_"`
	Database  Database `envPrefix:"DATABASE_"`
	JWT       JWT      `envPrefix:"JWT_"`
	Health    Health   `envPrefix:"HEALTH_"`
}

// HTTP contains HTTP server parameters.
type HTTP struct {
	Port               string `env:"PORT" envDefault:"8080"`
	BodyLimit          int    `env:"BODY_LIMIT" envDefault:"52428800"`
	CORSOrigins        string `env:"CORS_ORIGINS" envDefault:"*"`
	EnableHTTPS        bool   `env:"ENABLE_HTTPS" envDefault:"false"`
	CertFileName       string `env:"CERT_FILE_NAME" envDefault:"cert.pem"`
	PrivateKeyFileName string `env:"PRIVATE_KEY_FILE_NAME" envDefault:"key.pem"`
}

// GRPC contains parameters of the gRPC health server.
type GRPC struct {
	Port string `env:"PORT" envDefault:"50051"`
}

// Database contains database connection parameters.
// An empty DSN selects the in-memory user store.
type Database struct {
	DSN          string        `env:"DSN"`
	QueryTimeout time.Duration `env:"QUERY_TIMEOUT" envDefault:"5s"`
}

// JWT contains JWT-related parameters.
type JWT struct {
	Secret string `env:"SECRET,required,notEmpty"`
}

// Health contains readiness probe parameters.
type Health struct {
	Interval time.Duration `env:"INTERVAL" envDefault:"10s"`
}

// NewConfig loads configuration from environment variables. Values from the
// given dotenv files (default ".env") are applied first without overriding
// variables already present in the environment; a missing file is ignored.
func NewConfig(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
