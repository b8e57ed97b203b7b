package session

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/inamate/flowcanvas/internal/auth"
	"github.com/inamate/flowcanvas/internal/viewport"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the scroll state routes on an authenticated router.
// OPTIONS is routed so CORS preflights reach the middleware chain.
func (h *Handler) Register(r *mux.Router) {
	const path = "/workflows/{workflowId}/viewport"
	r.HandleFunc(path, h.Get).Methods("GET")
	r.HandleFunc(path, h.Put).Methods("PUT")
	r.HandleFunc(path, h.Delete).Methods("DELETE")
	r.HandleFunc(path, preflight).Methods("OPTIONS")
}

func preflight(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	workflowID := mux.Vars(r)["workflowId"]

	snap, err := h.service.Load(r.Context(), userID, workflowID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			metricStatesRestored.WithLabelValues("missing").Inc()
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no saved viewport"})
			return
		}
		slog.Error("load scroll state failed", "error", err, "workflowId", workflowID)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	metricStatesRestored.WithLabelValues("found").Inc()
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) Put(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	workflowID := mux.Vars(r)["workflowId"]

	var state viewport.ScrollState
	if err := json.NewDecoder(r.Body).Decode(&state); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	snap, err := h.service.Save(r.Context(), userID, workflowID, state)
	if err != nil {
		if errors.Is(err, ErrInvalidState) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		slog.Error("save scroll state failed", "error", err, "workflowId", workflowID)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	metricStatesSaved.Inc()
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	workflowID := mux.Vars(r)["workflowId"]

	if err := h.service.Forget(r.Context(), userID, workflowID); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no saved viewport"})
			return
		}
		slog.Error("delete scroll state failed", "error", err, "workflowId", workflowID)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
