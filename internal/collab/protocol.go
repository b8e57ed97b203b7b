package collab

import (
	"encoding/json"

	"github.com/inamate/flowcanvas/internal/viewport"
)

type Message struct {
	Type       string          `json:"type"`
	WorkflowID string          `json:"workflowId,omitempty"`
	ClientID   string          `json:"clientId,omitempty"`
	UserID     string          `json:"userId,omitempty"`
	Payload    json.RawMessage `json:"payload"`
}

// PresencePayload is what a client shares about its view of the workflow.
// Cursor and viewport frame are in canvas coordinates so peers can draw
// them regardless of their own zoom and scroll.
type PresencePayload struct {
	Cursor      *viewport.Point   `json:"cursor,omitempty"`
	Viewport    *ViewportPresence `json:"viewport,omitempty"`
	Selection   []string          `json:"selection,omitempty"`
	DisplayName string            `json:"displayName,omitempty"`
}

// ViewportPresence is the canvas rectangle a client currently sees.
type ViewportPresence struct {
	Frame viewport.Bounds `json:"frame"`
	Zoom  float64         `json:"zoom"`
}

type PresenceStatePayload struct {
	Presences map[string]*PresencePayload `json:"presences"`
}

type PresenceJoinPayload struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type PresenceLeavePayload struct {
	UserID string `json:"userId"`
}

type WelcomePayload struct {
	ClientID    string `json:"clientId"`
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

// FollowPayload starts following another user's viewport.
type FollowPayload struct {
	TargetUserID string `json:"targetUserId"`
}

// FollowFramePayload tells a follower where the followed user is looking.
type FollowFramePayload struct {
	UserID string          `json:"userId"`
	Frame  viewport.Bounds `json:"frame"`
	Zoom   float64         `json:"zoom"`
}

// NodeMovePayload relays a node drag so peers can keep their content
// stationary while the workflow bounds change.
type NodeMovePayload struct {
	NodeID string  `json:"nodeId"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

const (
	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"
	TypeError          = "error"

	// Connection
	TypeWelcome = "welcome"

	// Viewport following
	TypeFollowStart = "follow.start"
	TypeFollowStop  = "follow.stop"
	TypeFollowFrame = "follow.frame"

	// Workflow edits
	TypeNodeMove = "node.move"
)

func newMessage(msgType, userID string, payload any) (*Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{Type: msgType, UserID: userID, Payload: raw}, nil
}
