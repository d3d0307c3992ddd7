// internal/config/config.go
package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// Backend selects the blob store implementation.
type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendFile     Backend = "file"
	BackendPostgres Backend = "postgres"
)

// Config is the full server configuration, read from the environment
// with an optional .env file.
type Config struct {
	Port        string
	Backend     Backend
	BlobDir     string
	DatabaseURL string

	LogLevel     slog.Level
	OTLPEndpoint string // empty disables tracing export
	AuthRequired bool

	SeedUsername string
	SeedPassword string
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() (*Config, error) {
	// Missing .env is the normal case outside development.
	_ = godotenv.Load()

	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		Backend:      Backend(getEnv("BLOB_BACKEND", string(BackendFile))),
		BlobDir:      getEnv("BLOB_DIR", "data"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		OTLPEndpoint: os.Getenv("OTLP_ENDPOINT"),
		AuthRequired: os.Getenv("AUTH_REQUIRED") == "true",
		SeedUsername: getEnv("SEED_USERNAME", "owner"),
		SeedPassword: getEnv("SEED_PASSWORD", "welcome123"),
	}

	switch cfg.Backend {
	case BackendMemory, BackendFile:
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
	default:
		return nil, fmt.Errorf("unknown blob backend %q", cfg.Backend)
	}

	switch getEnv("LOG_LEVEL", "info") {
	case "debug":
		cfg.LogLevel = slog.LevelDebug
	case "info":
		cfg.LogLevel = slog.LevelInfo
	case "warn":
		cfg.LogLevel = slog.LevelWarn
	case "error":
		cfg.LogLevel = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level %q", os.Getenv("LOG_LEVEL"))
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
