package secrets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
)

// DB abstracts the database operations used by the Postgres backend.
// Satisfied by *pgxpool.Pool in production and pgxmock in tests.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresClient reads secrets from a "secrets" table keyed by name.
type PostgresClient struct {
	db DB
}

// NewPostgresClient creates a Postgres-backed secrets client.
func NewPostgresClient(db DB) (*PostgresClient, error) {
	if db == nil {
		return nil, fmt.Errorf("secrets: db connection cannot be nil")
	}
	return &PostgresClient{db: db}, nil
}

// GetSecret looks up the live (non-deleted) value stored under id.
func (c *PostgresClient) GetSecret(ctx context.Context, id string) (string, error) {
	slog.Debug("fetching secret", "secret", id, "backend", "postgres")

	timeoutCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var value string
	err := c.db.QueryRow(timeoutCtx, `
        SELECT value
        FROM secrets
        WHERE name = $1 AND deleted_at IS NULL`,
		id).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", &StoreError{Msg: "secret not found: " + id, NotFound: true, Err: err}
		}
		return "", err
	}

	return value, nil
}
