package collab

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

const (
	writeWait   = 10 * time.Second
	pingPeriod  = 30 * time.Second
	maxMsgSize  = 64 * 1024
	sendBufSize = 256
)

// Client is one websocket connection viewing a workflow.
type Client struct {
	hub  *Hub
	conn *websocket.Conn

	// mu guards send against a concurrent close on unregister.
	mu     sync.Mutex
	send   chan []byte
	closed bool

	UserID      string
	DisplayName string
	WorkflowID  string
	ClientID    string
}

func NewClient(hub *Hub, conn *websocket.Conn, userID, displayName, workflowID, clientID string) *Client {
	return &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, sendBufSize),
		UserID:      userID,
		DisplayName: displayName,
		WorkflowID:  workflowID,
		ClientID:    clientID,
	}
}

// ReadPump decodes incoming messages until the connection closes, then
// unregisters the client.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(maxMsgSize)

	for {
		var msg Message
		err := wsjson.Read(ctx, c.conn, &msg)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				return
			}
			// wsjson closes the connection on undecodable frames.
			var syntaxErr *json.SyntaxError
			if errors.As(err, &syntaxErr) {
				slog.Warn("invalid message", "error", err, "user", c.UserID)
				return
			}
			slog.Debug("read error", "error", err, "user", c.UserID)
			return
		}

		msg.UserID = c.UserID
		msg.ClientID = c.ClientID
		msg.WorkflowID = c.WorkflowID

		c.hub.handleMessage(c, &msg)
	}
}

// WritePump drains the send buffer to the connection and keeps it alive
// with pings.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				slog.Debug("write error", "error", err, "user", c.UserID)
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) sendError(text string) {
	msg, err := newMessage(TypeError, "", ErrorPayload{Message: text})
	if err != nil {
		return
	}
	c.Send(msg)
}

// Send queues a message, dropping it if the client is not keeping up.
func (c *Client) Send(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal message", "error", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		slog.Warn("client send buffer full, dropping message", "user", c.UserID)
	}
}

// close stops further sends and ends the write pump.
func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}
