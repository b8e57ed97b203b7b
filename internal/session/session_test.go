package session

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/inamate/flowcanvas/internal/auth"
	"github.com/inamate/flowcanvas/internal/typeid"
	"github.com/inamate/flowcanvas/internal/viewport"
)

var saved = viewport.ScrollState{
	ZoomFactor:   0.75,
	ScrollX:      120,
	ScrollY:      80,
	ScrollWidth:  2400,
	ScrollHeight: 1600,
}

func TestServiceSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore())
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	snap, err := svc.Save(ctx, "user_a", "wf_1", saved)
	require.NoError(t, err)
	require.NoError(t, typeid.Validate(snap.ID, typeid.PrefixSnapshot))
	require.Equal(t, now, snap.UpdatedAt)

	got, err := svc.Load(ctx, "user_a", "wf_1")
	require.NoError(t, err)
	require.Equal(t, saved, got.State)

	_, err = svc.Load(ctx, "user_b", "wf_1")
	require.ErrorIs(t, err, ErrNotFound, "views are per user")
}

func TestServiceOverwriteKeepsID(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore())

	first, err := svc.Save(ctx, "user_a", "wf_1", saved)
	require.NoError(t, err)

	next := saved
	next.ZoomFactor = 2
	second, err := svc.Save(ctx, "user_a", "wf_1", next)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	got, err := svc.Load(ctx, "user_a", "wf_1")
	require.NoError(t, err)
	require.Equal(t, 2.0, got.State.ZoomFactor)
}

func TestServiceRejectsInvalidState(t *testing.T) {
	svc := NewService(NewMemoryStore())
	for _, state := range []viewport.ScrollState{
		{ZoomFactor: math.NaN()},
		{ScrollX: -1},
		{ScrollHeight: math.Inf(1)},
	} {
		_, err := svc.Save(context.Background(), "user_a", "wf_1", state)
		require.ErrorIs(t, err, ErrInvalidState)
	}

	_, err := svc.Save(context.Background(), "user_a", "wf_1", viewport.ScrollState{})
	require.NoError(t, err, "incomplete states are stored and filled on restore")
}

func TestServiceForget(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore())
	_, err := svc.Save(ctx, "user_a", "wf_1", saved)
	require.NoError(t, err)

	require.NoError(t, svc.Forget(ctx, "user_a", "wf_1"))
	require.ErrorIs(t, svc.Forget(ctx, "user_a", "wf_1"), ErrNotFound)
}

func newRouter() *mux.Router {
	r := mux.NewRouter()
	NewHandler(NewService(NewMemoryStore())).Register(r)
	return r
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req = req.WithContext(auth.WithUserID(req.Context(), "user_a"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandlerLifecycle(t *testing.T) {
	r := newRouter()
	const path = "/workflows/wf_1/viewport"

	rec := do(t, r, http.MethodGet, path, "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	body, err := json.Marshal(saved)
	require.NoError(t, err)
	rec = do(t, r, http.MethodPut, path, string(body))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, r, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var snap Snapshot
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&snap))
	require.Equal(t, "wf_1", snap.WorkflowID)
	require.Equal(t, "user_a", snap.UserID)
	require.Equal(t, saved, snap.State)

	rec = do(t, r, http.MethodDelete, path, "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, r, http.MethodDelete, path, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerRejectsBadBodies(t *testing.T) {
	r := newRouter()
	const path = "/workflows/wf_1/viewport"

	rec := do(t, r, http.MethodPut, path, `{`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodPut, path, `{"zoomFactor": -1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerAnswersPreflight(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/workflows/wf_1/viewport", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
}
