package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/require"

	"github.com/inamate/flowcanvas/internal/auth"
	"github.com/inamate/flowcanvas/internal/collab"
	"github.com/inamate/flowcanvas/internal/framing"
	"github.com/inamate/flowcanvas/internal/session"
	"github.com/inamate/flowcanvas/internal/viewport"
)

const origin = "http://localhost:5173"

func newTestServer(t *testing.T) (*httptest.Server, *auth.Service) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	authService := auth.NewService("test-secret")
	hub := collab.NewHub()
	go hub.Run(ctx)

	srv := httptest.NewServer(newRouter(routes{
		auth:           authService,
		authHandler:    auth.NewHandler(authService),
		session:        session.NewHandler(session.NewService(session.NewMemoryStore())),
		framing:        framing.NewHandler(viewport.DefaultOptions()),
		hub:            hub,
		origins:        []string{origin},
		originPatterns: []string{"localhost:5173"},
	}))
	t.Cleanup(srv.Close)
	return srv, authService
}

func TestViewportPreflight(t *testing.T) {
	srv, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/workflows/wf_1/viewport", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", "PUT")
	req.Header.Set("Access-Control-Request-Headers", "authorization, content-type")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, origin, resp.Header.Get("Access-Control-Allow-Origin"))
	require.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "PUT")
}

func TestViewportSaveAndLoad(t *testing.T) {
	srv, authService := newTestServer(t)
	guest, err := authService.IssueGuest("Ada")
	require.NoError(t, err)

	do := func(method, body string, token string) *http.Response {
		req, err := http.NewRequest(method, srv.URL+"/api/workflows/wf_1/viewport", strings.NewReader(body))
		require.NoError(t, err)
		req.Header.Set("Origin", origin)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		return resp
	}

	resp := do(http.MethodGet, "", "")
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = do(http.MethodPut, `{"zoomFactor":1.5,"scrollLeft":10,"scrollTop":20,"scrollWidth":900,"scrollHeight":700}`, guest.Token)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, origin, resp.Header.Get("Access-Control-Allow-Origin"))

	resp = do(http.MethodGet, "", guest.Token)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var snap session.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	require.Equal(t, guest.User.ID, snap.UserID)
	require.Equal(t, 1.5, snap.State.ZoomFactor)
}

func TestWorkflowWebsocketThroughMiddleware(t *testing.T) {
	srv, authService := newTestServer(t)
	guest, err := authService.IssueGuest("Ada")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/workflow/wf_1?token=" + guest.Token
	conn, resp, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	defer conn.Close(websocket.StatusNormalClosure, "")

	var msg collab.Message
	require.NoError(t, wsjson.Read(ctx, conn, &msg))
	require.Equal(t, collab.TypeWelcome, msg.Type)

	var welcome collab.WelcomePayload
	require.NoError(t, json.Unmarshal(msg.Payload, &welcome))
	require.Equal(t, guest.User.ID, welcome.UserID)
	require.Equal(t, "Ada", welcome.DisplayName)
}

func TestWorkflowWebsocketRequiresToken(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/ws/workflow/wf_1")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
