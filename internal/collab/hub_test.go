package collab

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inamate/flowcanvas/internal/viewport"
)

func newTestClient(h *Hub, userID, clientID string) *Client {
	return NewClient(h, nil, userID, "name-"+userID, "wf_1", clientID)
}

// drain returns the queued messages of a client.
func drain(t *testing.T, c *Client) []Message {
	t.Helper()
	var out []Message
	for {
		select {
		case raw, ok := <-c.send:
			if !ok {
				return out
			}
			var msg Message
			require.NoError(t, json.Unmarshal(raw, &msg))
			out = append(out, msg)
		default:
			return out
		}
	}
}

func types(msgs []Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Type
	}
	return out
}

func send(t *testing.T, h *Hub, c *Client, msgType string, payload any) {
	t.Helper()
	msg, err := newMessage(msgType, c.UserID, payload)
	require.NoError(t, err)
	h.handleMessage(c, msg)
}

func TestJoinAndLeave(t *testing.T) {
	h := NewHub()
	a := newTestClient(h, "user_a", "c1")
	b := newTestClient(h, "user_b", "c2")

	h.addClient(a)
	require.Equal(t, []string{TypeWelcome, TypePresenceState}, types(drain(t, a)))

	h.addClient(b)
	require.Equal(t, []string{TypeWelcome, TypePresenceState}, types(drain(t, b)))
	require.Equal(t, []string{TypePresenceJoin}, types(drain(t, a)))

	h.removeClient(b)
	require.Equal(t, []string{TypePresenceLeave}, types(drain(t, a)))
	h.removeClient(b)

	h.removeClient(a)
	require.Empty(t, h.rooms)
}

func TestPresenceUpdatesMerge(t *testing.T) {
	h := NewHub()
	a := newTestClient(h, "user_a", "c1")
	b := newTestClient(h, "user_b", "c2")
	h.addClient(a)
	h.addClient(b)
	drain(t, a)
	drain(t, b)

	send(t, h, a, TypePresenceUpdate, PresencePayload{Cursor: &viewport.Point{X: 10, Y: 20}})
	send(t, h, a, TypePresenceUpdate, PresencePayload{
		Viewport: &ViewportPresence{Frame: viewport.NewBounds(0, 0, 100, 100), Zoom: 2},
	})

	msgs := drain(t, b)
	require.Equal(t, []string{TypePresenceUpdate, TypePresenceUpdate}, types(msgs))
	require.Empty(t, drain(t, a), "updates are not echoed")

	p, ok := h.rooms["wf_1"].presence.Get("user_a")
	require.True(t, ok)
	require.Equal(t, &viewport.Point{X: 10, Y: 20}, p.Cursor)
	require.Equal(t, 2.0, p.Viewport.Zoom)
	require.Equal(t, "name-user_a", p.DisplayName)
}

func TestFollowReceivesFrames(t *testing.T) {
	h := NewHub()
	leader := newTestClient(h, "user_a", "c1")
	follower := newTestClient(h, "user_b", "c2")
	h.addClient(leader)
	h.addClient(follower)

	frame := viewport.NewBounds(-50, -50, 350, 250)
	send(t, h, leader, TypePresenceUpdate, PresencePayload{Viewport: &ViewportPresence{Frame: frame, Zoom: 1.5}})
	drain(t, follower)

	// Following jumps to the last known frame.
	send(t, h, follower, TypeFollowStart, FollowPayload{TargetUserID: "user_a"})
	msgs := drain(t, follower)
	require.Equal(t, []string{TypeFollowFrame}, types(msgs))
	var got FollowFramePayload
	require.NoError(t, json.Unmarshal(msgs[0].Payload, &got))
	require.Equal(t, frame, got.Frame)
	require.Equal(t, 1.5, got.Zoom)

	send(t, h, leader, TypePresenceUpdate, PresencePayload{Viewport: &ViewportPresence{Frame: frame, Zoom: 2}})
	require.Equal(t, []string{TypePresenceUpdate, TypeFollowFrame}, types(drain(t, follower)))

	send(t, h, follower, TypeFollowStop, struct{}{})
	send(t, h, leader, TypePresenceUpdate, PresencePayload{Viewport: &ViewportPresence{Frame: frame, Zoom: 3}})
	require.Equal(t, []string{TypePresenceUpdate}, types(drain(t, follower)))
}

func TestFollowRejectsSelf(t *testing.T) {
	h := NewHub()
	a := newTestClient(h, "user_a", "c1")
	h.addClient(a)
	drain(t, a)

	send(t, h, a, TypeFollowStart, FollowPayload{TargetUserID: "user_a"})
	require.Equal(t, []string{TypeError}, types(drain(t, a)))
	require.Empty(t, h.rooms["wf_1"].followers)
}

func TestLeavingDropsFollowers(t *testing.T) {
	h := NewHub()
	leader := newTestClient(h, "user_a", "c1")
	follower := newTestClient(h, "user_b", "c2")
	h.addClient(leader)
	h.addClient(follower)
	send(t, h, follower, TypeFollowStart, FollowPayload{TargetUserID: "user_a"})
	require.Len(t, h.rooms["wf_1"].followers, 1)

	h.removeClient(follower)
	require.Empty(t, h.rooms["wf_1"].followers)
}

func TestNodeMoveIsRelayed(t *testing.T) {
	h := NewHub()
	a := newTestClient(h, "user_a", "c1")
	b := newTestClient(h, "user_b", "c2")
	h.addClient(a)
	h.addClient(b)
	drain(t, a)
	drain(t, b)

	send(t, h, a, TypeNodeMove, NodeMovePayload{NodeID: "node_1", X: -300, Y: 40})
	msgs := drain(t, b)
	require.Equal(t, []string{TypeNodeMove}, types(msgs))
	var move NodeMovePayload
	require.NoError(t, json.Unmarshal(msgs[0].Payload, &move))
	require.Equal(t, NodeMovePayload{NodeID: "node_1", X: -300, Y: 40}, move)

	send(t, h, a, TypeNodeMove, NodeMovePayload{})
	require.Equal(t, []string{TypeError}, types(drain(t, a)))
}

func TestUnknownMessageType(t *testing.T) {
	h := NewHub()
	a := newTestClient(h, "user_a", "c1")
	h.addClient(a)
	drain(t, a)

	h.handleMessage(a, &Message{Type: "op.submit"})
	require.Equal(t, []string{TypeError}, types(drain(t, a)))
}

func TestSendAfterLeaveIsDropped(t *testing.T) {
	h := NewHub()
	a := newTestClient(h, "user_a", "c1")
	h.addClient(a)
	h.removeClient(a)

	msg, err := newMessage(TypePresenceUpdate, "user_b", PresencePayload{})
	require.NoError(t, err)
	require.NotPanics(t, func() { a.Send(msg) })
	require.NotPanics(t, a.close)
}

func TestFollowersLeavingDuringBroadcast(t *testing.T) {
	h := NewHub()
	leader := newTestClient(h, "user_a", "c0")
	h.addClient(leader)
	update := PresencePayload{Viewport: &ViewportPresence{Frame: viewport.NewBounds(0, 0, 10, 10), Zoom: 1}}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			msg, _ := newMessage(TypePresenceUpdate, leader.UserID, update)
			h.handleMessage(leader, msg)
		}
	}()

	for i := 0; i < 200; i++ {
		f := newTestClient(h, fmt.Sprintf("user_f%d", i), fmt.Sprintf("f%d", i))
		h.addClient(f)
		msg, _ := newMessage(TypeFollowStart, f.UserID, FollowPayload{TargetUserID: "user_a"})
		h.handleMessage(f, msg)
		h.removeClient(f)
	}
	<-done
}
