package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/inamate/flowcanvas/internal/typeid"
)

func TestIssueGuestRoundTrip(t *testing.T) {
	s := NewService("secret")
	result, err := s.IssueGuest("  Ada  ")
	require.NoError(t, err)
	require.Equal(t, "Ada", result.User.DisplayName)
	require.NoError(t, typeid.Validate(result.User.ID, typeid.PrefixUser))

	user, err := s.ParseToken(result.Token)
	require.NoError(t, err)
	require.Equal(t, result.User, *user)

	id, err := s.ValidateToken(result.Token)
	require.NoError(t, err)
	require.Equal(t, result.User.ID, id)
}

func TestIssueGuestGeneratesName(t *testing.T) {
	s := NewService("secret")
	result, err := s.IssueGuest("")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(result.User.DisplayName, "Guest "))

	long, err := s.IssueGuest(strings.Repeat("x", 200))
	require.NoError(t, err)
	require.Len(t, long.User.DisplayName, maxDisplayNameSize)
}

func TestValidateTokenRejects(t *testing.T) {
	s := NewService("secret")
	result, err := s.IssueGuest("Ada")
	require.NoError(t, err)

	_, err = NewService("other").ValidateToken(result.Token)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.ValidateToken("garbage")
	require.ErrorIs(t, err, ErrInvalidToken)

	s.now = func() time.Time { return time.Now().Add(2 * tokenTTL) }
	_, err = s.ValidateToken(result.Token)
	require.ErrorIs(t, err, ErrInvalidToken, "expired")
}

func TestAuthMiddleware(t *testing.T) {
	s := NewService("secret")
	result, err := s.IssueGuest("Ada")
	require.NoError(t, err)

	var seen User
	h := s.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	cases := map[string]int{
		"":                       http.StatusUnauthorized,
		"Token abc":              http.StatusUnauthorized,
		"Bearer nope":            http.StatusUnauthorized,
		"Bearer ":                http.StatusUnauthorized,
		"Bearer " + result.Token: http.StatusOK,
		"bearer " + result.Token: http.StatusOK,
	}
	for header, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/x", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, want, rec.Code, header)
	}
	require.Equal(t, result.User, seen)
	require.Equal(t, result.User.ID, UserIDFromContext(WithUser(context.Background(), seen)))
}

func TestAuthMiddlewarePassesPreflight(t *testing.T) {
	called := false
	h := NewService("secret").AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		require.Empty(t, UserIDFromContext(r.Context()))
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/workflows/wf_1/viewport", nil))
	require.True(t, called)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestGuestHandler(t *testing.T) {
	h := NewHandler(NewService("secret"))

	rec := httptest.NewRecorder()
	h.Guest(rec, httptest.NewRequest(http.MethodPost, "/auth/guest", strings.NewReader(`{"displayName":"Grace"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var result AuthResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	require.Equal(t, "Grace", result.User.DisplayName)
	require.NotEmpty(t, result.Token)

	rec = httptest.NewRecorder()
	h.Guest(rec, httptest.NewRequest(http.MethodPost, "/auth/guest", http.NoBody))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	h.Guest(rec, httptest.NewRequest(http.MethodPost, "/auth/guest", strings.NewReader(`{`)))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
