package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/inamate/flowcanvas/internal/viewport"
)

var (
	ErrNotFound     = errors.New("scroll state not found")
	ErrInvalidState = errors.New("invalid scroll state")
)

// Snapshot is the persisted scroll state of one user's view of a workflow.
type Snapshot struct {
	ID         string               `json:"id"`
	UserID     string               `json:"userId"`
	WorkflowID string               `json:"workflowId"`
	State      viewport.ScrollState `json:"state"`
	UpdatedAt  time.Time            `json:"updatedAt"`
}

// Store persists snapshots keyed by user and workflow.
type Store interface {
	Get(ctx context.Context, userID, workflowID string) (*Snapshot, error)
	Put(ctx context.Context, snap *Snapshot) error
	Delete(ctx context.Context, userID, workflowID string) error
}

type viewKey struct {
	userID     string
	workflowID string
}

// MemoryStore keeps snapshots in process memory.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[viewKey]Snapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		snapshots: make(map[viewKey]Snapshot),
	}
}

func (m *MemoryStore) Get(_ context.Context, userID, workflowID string) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap, ok := m.snapshots[viewKey{userID, workflowID}]
	if !ok {
		return nil, ErrNotFound
	}
	return &snap, nil
}

func (m *MemoryStore) Put(_ context.Context, snap *Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := viewKey{snap.UserID, snap.WorkflowID}
	if existing, ok := m.snapshots[key]; ok {
		snap.ID = existing.ID
	}
	m.snapshots[key] = *snap
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, userID, workflowID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := viewKey{userID, workflowID}
	if _, ok := m.snapshots[key]; !ok {
		return ErrNotFound
	}
	delete(m.snapshots, key)
	return nil
}
