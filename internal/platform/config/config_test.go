package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		DatabaseURL:     "memory://",
		MaxBodyBytes:    1048576,
		DBMaxConns:      10,
		ShutdownTimeout: 10 * time.Second,
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite://:memory:")
	t.Setenv("APP_ADDR", "")
	t.Setenv("MAX_BODY_BYTES", "")
	t.Setenv("RUN_SEED", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "sqlite://:memory:", cfg.DatabaseURL)
	assert.Equal(t, int64(1048576), cfg.MaxBodyBytes)
	assert.True(t, cfg.RunMigrations)
	assert.False(t, cfg.RunSeed)
	require.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ADDR", ":9090")
	t.Setenv("RUN_MIGRATIONS", "false")
	t.Setenv("DB_MAX_CONNS", "4")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.False(t, cfg.RunMigrations)
	assert.Equal(t, 4, cfg.DBMaxConns)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("METRICS_ENABLED", "maybe")
	t.Setenv("DB_MAX_CONNS", "many")
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, 10, cfg.DBMaxConns)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"missing database url", func(c *Config) { c.DatabaseURL = " " }, "DATABASE_URL"},
		{"tiny body limit", func(c *Config) { c.MaxBodyBytes = 10 }, "MAX_BODY_BYTES"},
		{"no connections", func(c *Config) { c.DBMaxConns = 0 }, "DB_MAX_CONNS"},
		{"too many connections", func(c *Config) { c.DBMaxConns = 1001 }, "DB_MAX_CONNS"},
		{"seed without file", func(c *Config) { c.RunSeed = true }, "SEED_FILE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	require.NoError(t, validConfig().Validate())
}

func TestLoadFileAppliesDotEnv(t *testing.T) {
	t.Setenv("SEED_FILE", "")
	require.NoError(t, os.Unsetenv("SEED_FILE"))
	t.Setenv("APP_ADDR", ":7070")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SEED_FILE=/tmp/employees.json\nAPP_ADDR=:6060\n"), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/employees.json", cfg.SeedFile)
	assert.Equal(t, ":7070", cfg.Addr)
}

func TestLoadFileMissingIsIgnored(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
}

func TestLoadFileRejectsMalformedDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("BAD-KEY=1\n"), 0o600))

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}
