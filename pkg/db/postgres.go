package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Config holds pool settings for the secrets database.
// The relay issues a single lookup per request, so the pool stays small.
type Config struct {
	URI         string
	MaxConns    int32
	IdleTimeout time.Duration
	// EnsureSchema creates the secrets table after connecting when it is missing.
	EnsureSchema bool
}

// DefaultConfig returns pool settings sized for one query per request.
func DefaultConfig(uri string) Config {
	return Config{
		URI:         uri,
		MaxConns:    4,
		IdleTimeout: 2 * time.Minute,
	}
}

// SecretsSchema is the table the Postgres secrets backend reads from. A row
// with a non-null deleted_at is treated as absent.
const SecretsSchema = `
CREATE TABLE IF NOT EXISTS secrets (
    name       TEXT PRIMARY KEY,
    value      TEXT NOT NULL,
    deleted_at TIMESTAMPTZ
)`

// Execer is the subset of pgxpool.Pool used for schema setup; pgxmock satisfies it too.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// EnsureSchema creates the secrets table if it does not exist yet.
func EnsureSchema(ctx context.Context, db Execer) error {
	if _, err := db.Exec(ctx, SecretsSchema); err != nil {
		return fmt.Errorf("failed to create secrets table: %w", err)
	}
	return nil
}

func poolConfig(cfg Config) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URI)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URI: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	// Lambda containers freeze between invocations; idle conns are not worth keeping.
	poolCfg.MinConns = 0
	if cfg.IdleTimeout > 0 {
		poolCfg.MaxConnIdleTime = cfg.IdleTimeout
	}
	return poolCfg, nil
}

// Connect opens a pool, pings it, and optionally prepares the secrets table,
// so misconfiguration surfaces at startup rather than on the first request.
func Connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	poolCfg, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if cfg.EnsureSchema {
		if err := EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
	}

	return pool, nil
}
