package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"warehouse-ledger/internal/core"
)

// Storage backends.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// Config represents the full application configuration surface.
type Config struct {
	Storage StorageConfig
	Server  ServerConfig
	Stock   core.StockThresholds
	Log     LogConfig
}

// StorageConfig selects where the ledger document lives.
type StorageConfig struct {
	Backend     string
	DataFile    string
	DatabaseURL string
	LedgerName  string
	// FlushSchedule is a cron spec for periodic saves by the server. Empty disables them.
	FlushSchedule string
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

type LogConfig struct {
	Level string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are acceptable when configuration comes from the environment.
		_ = godotenv.Load()
	}

	low, err := getenvInt("LOW_STOCK_THRESHOLD", 5)
	if err != nil {
		return nil, err
	}
	over, err := getenvInt("OVER_STOCK_THRESHOLD", 100)
	if err != nil {
		return nil, err
	}

	flush := "@every 5m"
	if v, ok := os.LookupEnv("FLUSH_SCHEDULE"); ok {
		flush = strings.TrimSpace(v)
	}

	cfg := &Config{
		Storage: StorageConfig{
			Backend:       getenvWithDefault("STORAGE_BACKEND", BackendFile),
			DataFile:      getenvWithDefault("DATA_FILE", "warehouse_ledger.json"),
			DatabaseURL:   os.Getenv("DATABASE_URL"),
			LedgerName:    getenvWithDefault("LEDGER_NAME", "default"),
			FlushSchedule: flush,
		},
		Server: ServerConfig{
			Port:           getenvWithDefault("SERVER_PORT", "8080"),
			AllowedOrigins: splitList(os.Getenv("ALLOWED_ORIGINS")),
		},
		Stock: core.StockThresholds{Low: low, Over: over},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures that required configuration fields are populated and consistent.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	switch c.Storage.Backend {
	case BackendFile:
		if c.Storage.DataFile == "" {
			return errors.New("DATA_FILE must not be empty")
		}
	case BackendPostgres:
		if c.Storage.DatabaseURL == "" {
			return errors.New("DATABASE_URL must be provided for the postgres backend")
		}
		if c.Storage.LedgerName == "" {
			return errors.New("LEDGER_NAME must not be empty")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q (want %q or %q)", c.Storage.Backend, BackendFile, BackendPostgres)
	}

	if c.Storage.FlushSchedule != "" {
		if _, err := cron.ParseStandard(c.Storage.FlushSchedule); err != nil {
			return fmt.Errorf("invalid FLUSH_SCHEDULE %q: %w", c.Storage.FlushSchedule, err)
		}
	}

	if c.Server.Port == "" {
		return errors.New("SERVER_PORT must be provided")
	}

	if c.Stock.Over <= 0 {
		return errors.New("OVER_STOCK_THRESHOLD must be positive")
	}
	if err := c.Stock.Validate(); err != nil {
		return fmt.Errorf("stock thresholds: %w", err)
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, value)
	}
	return n, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
