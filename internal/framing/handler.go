package framing

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/inamate/flowcanvas/internal/viewport"
	"github.com/inamate/flowcanvas/internal/workflow"
)

const maxRequestSize = 4 << 20

var metricFramings = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "flowcanvas",
	Name:      "framings_computed_total",
	Help:      "Number of viewport framings computed, by mode.",
}, []string{"mode"})

type Handler struct {
	opts viewport.Options
}

func NewHandler(opts viewport.Options) *Handler {
	return &Handler{opts: opts}
}

// request carries either explicit content bounds or a whole workflow whose
// bounds are measured.
type request struct {
	Bounds    *viewport.Bounds   `json:"bounds"`
	Workflow  *workflow.Workflow `json:"workflow"`
	Container viewport.Size      `json:"container"`
	Mode      Mode               `json:"mode"`
}

func (h *Handler) Frame(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	var bounds viewport.Bounds
	switch {
	case req.Bounds != nil:
		b := req.Bounds
		if b.Right < b.Left || b.Bottom < b.Top {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bounds are inverted"})
			return
		}
		bounds = viewport.NewBounds(b.Left, b.Top, b.Right, b.Bottom)
	case req.Workflow != nil:
		bounds = req.Workflow.Bounds()
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bounds or workflow is required"})
		return
	}

	result, err := Compute(h.opts, bounds, req.Container, req.Mode)
	if err != nil {
		if errors.Is(err, ErrInvalidRequest) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		slog.Error("compute framing failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	metricFramings.WithLabelValues(string(result.Mode)).Inc()
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
