package session

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/inamate/flowcanvas/internal/typeid"
	"github.com/inamate/flowcanvas/internal/viewport"
)

// Service is the save/restore hook for workflow views.
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Save records the scroll state of a view. Zero fields are allowed; the
// viewport treats an incomplete state as "fill the screen" on restore.
func (s *Service) Save(ctx context.Context, userID, workflowID string, state viewport.ScrollState) (*Snapshot, error) {
	if err := validate(state); err != nil {
		return nil, err
	}

	snap := &Snapshot{
		ID:         typeid.NewSnapshotID(),
		UserID:     userID,
		WorkflowID: workflowID,
		State:      state,
		UpdatedAt:  s.now().UTC(),
	}
	if err := s.store.Put(ctx, snap); err != nil {
		return nil, fmt.Errorf("save scroll state: %w", err)
	}
	return snap, nil
}

// Load returns the saved scroll state of a view, or ErrNotFound.
func (s *Service) Load(ctx context.Context, userID, workflowID string) (*Snapshot, error) {
	return s.store.Get(ctx, userID, workflowID)
}

// Forget drops the saved state so the next open falls back to fill.
func (s *Service) Forget(ctx context.Context, userID, workflowID string) error {
	return s.store.Delete(ctx, userID, workflowID)
}

func validate(state viewport.ScrollState) error {
	fields := map[string]float64{
		"zoomFactor":   state.ZoomFactor,
		"scrollLeft":   state.ScrollX,
		"scrollTop":    state.ScrollY,
		"scrollWidth":  state.ScrollWidth,
		"scrollHeight": state.ScrollHeight,
	}
	for name, v := range fields {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: %s must be a non-negative number", ErrInvalidState, name)
		}
	}
	return nil
}
