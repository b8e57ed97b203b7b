package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists snapshots in the viewport_snapshots table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const getSnapshot = `
SELECT id, user_id, workflow_id, zoom_factor, scroll_left, scroll_top, scroll_width, scroll_height, updated_at
FROM viewport_snapshots
WHERE user_id = $1 AND workflow_id = $2`

func (s *PostgresStore) Get(ctx context.Context, userID, workflowID string) (*Snapshot, error) {
	var snap Snapshot
	err := s.pool.QueryRow(ctx, getSnapshot, userID, workflowID).Scan(
		&snap.ID,
		&snap.UserID,
		&snap.WorkflowID,
		&snap.State.ZoomFactor,
		&snap.State.ScrollX,
		&snap.State.ScrollY,
		&snap.State.ScrollWidth,
		&snap.State.ScrollHeight,
		&snap.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return &snap, nil
}

const upsertSnapshot = `
INSERT INTO viewport_snapshots (id, user_id, workflow_id, zoom_factor, scroll_left, scroll_top, scroll_width, scroll_height, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (user_id, workflow_id) DO UPDATE SET
	zoom_factor = EXCLUDED.zoom_factor,
	scroll_left = EXCLUDED.scroll_left,
	scroll_top = EXCLUDED.scroll_top,
	scroll_width = EXCLUDED.scroll_width,
	scroll_height = EXCLUDED.scroll_height,
	updated_at = EXCLUDED.updated_at
RETURNING id`

func (s *PostgresStore) Put(ctx context.Context, snap *Snapshot) error {
	err := s.pool.QueryRow(ctx, upsertSnapshot,
		snap.ID,
		snap.UserID,
		snap.WorkflowID,
		snap.State.ZoomFactor,
		snap.State.ScrollX,
		snap.State.ScrollY,
		snap.State.ScrollWidth,
		snap.State.ScrollHeight,
		snap.UpdatedAt,
	).Scan(&snap.ID)
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, userID, workflowID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM viewport_snapshots WHERE user_id = $1 AND workflow_id = $2`, userID, workflowID)
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
