// Package db opens the Postgres pool and prepares the schema.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS viewport_snapshots (
	id            TEXT PRIMARY KEY,
	user_id       TEXT NOT NULL,
	workflow_id   TEXT NOT NULL,
	zoom_factor   DOUBLE PRECISION NOT NULL,
	scroll_left   DOUBLE PRECISION NOT NULL,
	scroll_top    DOUBLE PRECISION NOT NULL,
	scroll_width  DOUBLE PRECISION NOT NULL,
	scroll_height DOUBLE PRECISION NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (user_id, workflow_id)
)`

// Migrate creates the tables the server needs if they are missing.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
