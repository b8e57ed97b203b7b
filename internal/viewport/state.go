package viewport

import (
	"fmt"
	"log/slog"
	"math"
	"time"
)

// State is the viewport of one open workflow view. It owns the zoom factor
// and container size; every other geometric quantity is derived on read.
//
// State is not safe for concurrent use. It belongs to the UI thread that
// delivers pointer, wheel and resize events.
type State struct {
	opts   Options
	logger *slog.Logger

	zoomFactor     float64
	containerSize  Size
	workflowBounds Bounds

	container ScrollContainer

	interactionsEnabled bool
	moveLocked          bool

	cache *transformCache
}

// New creates a State at 100% zoom with no scroll container bound.
func New(opts Options) *State {
	opts = opts.withDefaults()
	s := &State{
		opts:                opts,
		logger:              opts.Logger,
		interactionsEnabled: true,
	}
	s.zoomFactor = s.ClampZoom(1)
	return s
}

// Options returns the effective options.
func (s *State) Options() Options {
	return s.opts
}

// --- Scroll container lifecycle ---

// BindScrollContainer attaches the scroll element once it is mounted and
// adopts its client size as the container size.
func (s *State) BindScrollContainer(c ScrollContainer) {
	s.container = c
	s.containerSize = c.ClientSize()
	s.cache = nil
	s.relayout()
	s.logger.Debug("scroll container bound", "width", s.containerSize.Width, "height", s.containerSize.Height)
}

// ClearScrollContainer detaches the scroll element on unmount.
func (s *State) ClearScrollContainer() {
	s.container = nil
	s.cache = nil
}

// IsBound reports whether a scroll container is attached.
func (s *State) IsBound() bool {
	return s.container != nil
}

// ScrollContainer returns the bound container or ErrNotInitialized.
func (s *State) ScrollContainer() (ScrollContainer, error) {
	if s.container == nil {
		return nil, fmt.Errorf("%w: bind a scroll container before use", ErrNotInitialized)
	}
	return s.container, nil
}

// --- Zoom ---

// ClampZoom restricts z to [MinZoom, MaxZoom]. NaN collapses to MinZoom.
func (s *State) ClampZoom(z float64) float64 {
	if math.IsNaN(z) {
		return s.opts.MinZoom
	}
	return math.Max(s.opts.MinZoom, math.Min(z, s.opts.MaxZoom))
}

// ZoomFactor returns the current zoom factor.
func (s *State) ZoomFactor() float64 {
	return s.zoomFactor
}

// SetZoomFactor sets the zoom factor, clamped to the allowed range.
func (s *State) SetZoomFactor(z float64) {
	s.zoomFactor = s.ClampZoom(z)
	s.relayout()
}

// --- Container and content ---

// ContainerSize returns the last known container size.
func (s *State) ContainerSize() Size {
	return s.containerSize
}

// WorkflowBounds returns the raw workflow bounding box.
func (s *State) WorkflowBounds() Bounds {
	return s.workflowBounds
}

// --- Interaction flags ---

// InteractionsEnabled reports whether pointer-driven panning is allowed.
func (s *State) InteractionsEnabled() bool {
	return s.interactionsEnabled
}

// SetInteractionsEnabled toggles pointer-driven panning.
func (s *State) SetInteractionsEnabled(enabled bool) {
	s.interactionsEnabled = enabled
}

// IsMoveLocked reports whether panning is locked, e.g. during a node drag.
func (s *State) IsMoveLocked() bool {
	return s.moveLocked
}

// SetMoveLocked locks or unlocks panning.
func (s *State) SetMoveLocked(locked bool) {
	s.moveLocked = locked
}

// relayout pushes the current canvas size to containers that track it.
func (s *State) relayout() {
	if sizer, ok := s.container.(ContentSizer); ok {
		sizer.SetContentSize(s.CanvasSize())
	}
}

func (s *State) now() time.Time {
	return s.opts.Now()
}
