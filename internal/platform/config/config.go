package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const maxDBConns = 1000

type Config struct {
	Addr            string
	DatabaseURL     string
	Environment     string
	LogLevel        string
	RunMigrations   bool
	RunSeed         bool
	SeedFile        string
	MaxBodyBytes    int64
	MetricsEnabled  bool
	DBMaxConns      int
	ShutdownTimeout time.Duration
}

// Load reads configuration from the process environment. A .env file in the
// working directory is applied first when present; variables already set in
// the environment win.
func Load() (Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit dotenv path. A missing file is not an
// error, a malformed one is.
func LoadFile(envFile string) (Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	return Config{
		Addr:            getEnv("APP_ADDR", ":8080"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		Environment:     getEnv("APP_ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		RunMigrations:   getEnvBool("RUN_MIGRATIONS", true),
		RunSeed:         getEnvBool("RUN_SEED", false),
		SeedFile:        getEnv("SEED_FILE", ""),
		MaxBodyBytes:    int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		MetricsEnabled:  getEnvBool("METRICS_ENABLED", true),
		DBMaxConns:      getEnvInt("DB_MAX_CONNS", 10),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}, nil
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.DBMaxConns <= 0 || c.DBMaxConns > maxDBConns {
		return fmt.Errorf("DB_MAX_CONNS must be between 1 and %d", maxDBConns)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	if c.RunSeed && strings.TrimSpace(c.SeedFile) == "" {
		return fmt.Errorf("SEED_FILE must be set when RUN_SEED is true")
	}
	return nil
}
