package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/mattn/go-sqlite3"

	"employee-api/internal/platform/config"
)

type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
	DriverMemory   Driver = "memory"
)

// ParseDriver picks the backend from the DATABASE_URL scheme and returns the
// driver-specific data source.
func ParseDriver(databaseURL string) (Driver, string, error) {
	url := strings.TrimSpace(databaseURL)
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DriverPostgres, url, nil
	case strings.HasPrefix(url, "sqlite://"):
		dsn := strings.TrimPrefix(url, "sqlite://")
		if dsn == "" {
			return "", "", fmt.Errorf("sqlite url needs a path or :memory:")
		}
		return DriverSQLite, dsn, nil
	case strings.HasPrefix(url, "memory://"):
		return DriverMemory, "", nil
	}
	return "", "", fmt.Errorf("unsupported database url scheme in %q", url)
}

func Connect(ctx context.Context, cfg config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConns = int32(cfg.DBMaxConns)
	poolCfg.MinConns = min(2, poolCfg.MaxConns)
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// OpenSQLite opens a sqlite database. An in-memory database lives only as long
// as its connection, so the pool is pinned to one.
func OpenSQLite(ctx context.Context, dsn string, maxConns int) (*sql.DB, error) {
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	if strings.Contains(dsn, ":memory:") || maxConns <= 0 {
		maxConns = 1
	}
	conn.SetMaxOpenConns(maxConns)
	conn.SetConnMaxLifetime(0)
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}
