package collab

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricConnectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "flowcanvas",
		Name:      "collab_connected_clients",
		Help:      "Number of websocket clients connected to workflow rooms.",
	})
	metricMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "flowcanvas",
		Name:      "collab_messages_total",
		Help:      "Number of collaboration messages received, by type.",
	}, []string{"type"})
)

type Room struct {
	workflowID string
	clients    map[string]*Client // clientID -> client
	presence   *PresenceManager

	// followers maps a followed userID to the clients following them.
	followers map[string]map[string]*Client
}

func NewRoom(workflowID string) *Room {
	return &Room{
		workflowID: workflowID,
		clients:    make(map[string]*Client),
		presence:   NewPresenceManager(),
		followers:  make(map[string]map[string]*Client),
	}
}

type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*Room // workflowID -> room
	register   chan *Client
	unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]*Room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run processes joins and leaves until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.WorkflowID]
	if !ok {
		room = NewRoom(client.WorkflowID)
		h.rooms[client.WorkflowID] = room
	}
	room.clients[client.ClientID] = client
	h.mu.Unlock()
	metricConnectedClients.Inc()

	if welcome, err := newMessage(TypeWelcome, client.UserID, WelcomePayload{
		ClientID:    client.ClientID,
		UserID:      client.UserID,
		DisplayName: client.DisplayName,
	}); err == nil {
		client.Send(welcome)
	}

	// Send current presence state to new client
	stateMsg := room.presence.StateMessage()
	if stateMsg != nil {
		client.Send(stateMsg)
	}

	// Broadcast join to other clients
	joinMsg, err := newMessage(TypePresenceJoin, client.UserID, PresenceJoinPayload{
		UserID:      client.UserID,
		DisplayName: client.DisplayName,
	})
	if err == nil {
		h.broadcastToRoom(client.WorkflowID, joinMsg, client.ClientID)
	}

	slog.Info("client joined", "user", client.UserID, "workflow", client.WorkflowID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.WorkflowID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, ok := room.clients[client.ClientID]; !ok {
		h.mu.Unlock()
		return
	}

	delete(room.clients, client.ClientID)
	client.close()
	room.presence.Remove(client.UserID)
	for target, followers := range room.followers {
		delete(followers, client.ClientID)
		if len(followers) == 0 {
			delete(room.followers, target)
		}
	}

	if len(room.clients) == 0 {
		delete(h.rooms, client.WorkflowID)
	}
	h.mu.Unlock()
	metricConnectedClients.Dec()

	// Broadcast leave to remaining clients
	leaveMsg, err := newMessage(TypePresenceLeave, client.UserID, PresenceLeavePayload{
		UserID: client.UserID,
	})
	if err == nil {
		h.broadcastToRoom(client.WorkflowID, leaveMsg, "")
	}

	slog.Info("client left", "user", client.UserID, "workflow", client.WorkflowID)
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	metricMessages.WithLabelValues(msg.Type).Inc()

	switch msg.Type {
	case TypePresenceUpdate:
		h.handlePresenceUpdate(sender, msg)
	case TypeFollowStart:
		h.handleFollowStart(sender, msg)
	case TypeFollowStop:
		h.handleFollowStop(sender)
	case TypeNodeMove:
		h.handleNodeMove(sender, msg)
	default:
		slog.Warn("unknown message type", "type", msg.Type, "user", sender.UserID)
		sender.sendError("unknown message type: " + msg.Type)
	}
}

func (h *Hub) handlePresenceUpdate(sender *Client, msg *Message) {
	var presence PresencePayload
	if err := json.Unmarshal(msg.Payload, &presence); err != nil {
		slog.Warn("invalid presence payload", "error", err)
		sender.sendError("invalid presence payload")
		return
	}

	presence.DisplayName = sender.DisplayName

	h.mu.RLock()
	room, ok := h.rooms[sender.WorkflowID]
	var followers []*Client
	if ok {
		for _, c := range room.followers[sender.UserID] {
			followers = append(followers, c)
		}
	}
	h.mu.RUnlock()
	if !ok {
		return
	}

	room.presence.Update(sender.UserID, &presence)

	// Broadcast to other clients in room
	outMsg, err := newMessage(TypePresenceUpdate, sender.UserID, presence)
	if err != nil {
		return
	}
	h.broadcastToRoom(sender.WorkflowID, outMsg, sender.ClientID)

	if presence.Viewport != nil && len(followers) > 0 {
		frameMsg, err := newMessage(TypeFollowFrame, sender.UserID, FollowFramePayload{
			UserID: sender.UserID,
			Frame:  presence.Viewport.Frame,
			Zoom:   presence.Viewport.Zoom,
		})
		if err != nil {
			return
		}
		for _, c := range followers {
			c.Send(frameMsg)
		}
	}
}

func (h *Hub) handleFollowStart(sender *Client, msg *Message) {
	var req FollowPayload
	if err := json.Unmarshal(msg.Payload, &req); err != nil || req.TargetUserID == "" {
		sender.sendError("invalid follow payload")
		return
	}
	if req.TargetUserID == sender.UserID {
		sender.sendError("cannot follow yourself")
		return
	}

	h.mu.Lock()
	room, ok := h.rooms[sender.WorkflowID]
	if !ok {
		h.mu.Unlock()
		return
	}
	h.unfollowLocked(room, sender)
	if room.followers[req.TargetUserID] == nil {
		room.followers[req.TargetUserID] = make(map[string]*Client)
	}
	room.followers[req.TargetUserID][sender.ClientID] = sender
	h.mu.Unlock()

	// Jump straight to the target's last known frame.
	target, ok := room.presence.Get(req.TargetUserID)
	if !ok || target.Viewport == nil {
		return
	}
	frameMsg, err := newMessage(TypeFollowFrame, req.TargetUserID, FollowFramePayload{
		UserID: req.TargetUserID,
		Frame:  target.Viewport.Frame,
		Zoom:   target.Viewport.Zoom,
	})
	if err == nil {
		sender.Send(frameMsg)
	}
}

func (h *Hub) handleFollowStop(sender *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if room, ok := h.rooms[sender.WorkflowID]; ok {
		h.unfollowLocked(room, sender)
	}
}

func (h *Hub) unfollowLocked(room *Room, client *Client) {
	for target, followers := range room.followers {
		delete(followers, client.ClientID)
		if len(followers) == 0 {
			delete(room.followers, target)
		}
	}
}

func (h *Hub) handleNodeMove(sender *Client, msg *Message) {
	var move NodeMovePayload
	if err := json.Unmarshal(msg.Payload, &move); err != nil || move.NodeID == "" {
		sender.sendError("invalid node move payload")
		return
	}

	outMsg, err := newMessage(TypeNodeMove, sender.UserID, move)
	if err != nil {
		return
	}
	h.broadcastToRoom(sender.WorkflowID, outMsg, sender.ClientID)
}

func (h *Hub) broadcastToRoom(workflowID string, msg *Message, excludeClientID string) {
	h.mu.RLock()
	room, ok := h.rooms[workflowID]
	if !ok {
		h.mu.RUnlock()
		return
	}

	clients := make([]*Client, 0, len(room.clients))
	for _, c := range room.clients {
		if c.ClientID != excludeClientID {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Send(msg)
	}
}
