package collab

import (
	"encoding/json"
	"log/slog"
	"sync"
)

type PresenceManager struct {
	mu        sync.RWMutex
	presences map[string]*PresencePayload // userID -> presence
}

func NewPresenceManager() *PresenceManager {
	return &PresenceManager{
		presences: make(map[string]*PresencePayload),
	}
}

// Update merges p into the user's presence. Fields left empty keep their
// previous value, so cursor and viewport updates can be sent separately.
func (pm *PresenceManager) Update(userID string, p *PresencePayload) *PresencePayload {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	merged := &PresencePayload{}
	if prev, ok := pm.presences[userID]; ok {
		*merged = *prev
	}
	if p.Cursor != nil {
		merged.Cursor = p.Cursor
	}
	if p.Viewport != nil {
		merged.Viewport = p.Viewport
	}
	if p.Selection != nil {
		merged.Selection = p.Selection
	}
	if p.DisplayName != "" {
		merged.DisplayName = p.DisplayName
	}
	pm.presences[userID] = merged
	return merged
}

func (pm *PresenceManager) Get(userID string) (*PresencePayload, bool) {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	p, ok := pm.presences[userID]
	return p, ok
}

func (pm *PresenceManager) Remove(userID string) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	delete(pm.presences, userID)
}

func (pm *PresenceManager) GetAll() map[string]*PresencePayload {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	result := make(map[string]*PresencePayload, len(pm.presences))
	for k, v := range pm.presences {
		result[k] = v
	}
	return result
}

func (pm *PresenceManager) StateMessage() *Message {
	all := pm.GetAll()
	payload, err := json.Marshal(PresenceStatePayload{Presences: all})
	if err != nil {
		slog.Error("marshal presence state", "error", err)
		return nil
	}
	return &Message{
		Type:    TypePresenceState,
		Payload: payload,
	}
}
