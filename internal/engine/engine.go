package engine

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/inamate/flowcanvas/internal/viewport"
	"github.com/inamate/flowcanvas/internal/workflow"
)

// Engine owns the open workflow and its viewport. It processes commands
// from the frontend and answers queries as JSON strings.
type Engine struct {
	workflow *workflow.Workflow
	view     *viewport.State

	// Layout callbacks run on the next animation frame.
	frames *viewport.FrameQueue
}

// NewEngine creates an engine whose viewport defers layout corrections to
// the next call of Frame.
func NewEngine(opts viewport.Options) *Engine {
	frames := &viewport.FrameQueue{}
	opts.Scheduler = frames
	return &Engine{
		workflow: workflow.NewEmptyWorkflow("", ""),
		view:     viewport.New(opts),
		frames:   frames,
	}
}

// View exposes the viewport for callers that need typed access.
func (e *Engine) View() *viewport.State {
	return e.view
}

// --- Commands (frontend → backend) ---

// LoadWorkflow replaces the workflow from JSON.
func (e *Engine) LoadWorkflow(jsonData string) error {
	var w workflow.Workflow
	if err := json.Unmarshal([]byte(jsonData), &w); err != nil {
		return fmt.Errorf("decode workflow: %w", err)
	}
	if w.Nodes == nil {
		w.Nodes = map[string]workflow.Node{}
	}
	if w.Annotations == nil {
		w.Annotations = map[string]workflow.Annotation{}
	}
	e.workflow = &w
	return e.view.SetWorkflowBounds(w.Bounds())
}

// LoadSampleWorkflow loads the built-in sample workflow.
func (e *Engine) LoadSampleWorkflow(workflowID string) error {
	e.workflow = workflow.NewSampleWorkflow(workflowID)
	return e.view.SetWorkflowBounds(e.workflow.Bounds())
}

// MoveNode repositions a node, keeping the rest of the content stationary
// when the workflow bounds grow or shrink.
func (e *Engine) MoveNode(nodeID string, x, y float64) error {
	if !e.workflow.MoveNode(nodeID, workflow.Position{X: x, Y: y}) {
		return fmt.Errorf("node not found: %s", nodeID)
	}
	return e.view.SetWorkflowBounds(e.workflow.Bounds())
}

// BindScrollContainer attaches the mounted scroll element.
func (e *Engine) BindScrollContainer(c viewport.ScrollContainer) {
	e.view.BindScrollContainer(c)
}

// ClearScrollContainer detaches the scroll element on unmount.
func (e *Engine) ClearScrollContainer() {
	e.view.ClearScrollContainer()
}

// UpdateContainerSize handles a container resize.
func (e *Engine) UpdateContainerSize(width, height float64) error {
	return e.view.UpdateContainerSize(viewport.Size{Width: width, Height: height})
}

// Zoom handles a wheel or toolbar zoom.
func (e *Engine) Zoom(req viewport.ZoomRequest, centered bool) error {
	if centered {
		return e.view.ZoomCentered(req)
	}
	return e.view.ZoomAroundPointer(req)
}

// FitToScreen zooms to show the whole workflow.
func (e *Engine) FitToScreen() error {
	return e.view.FitToScreen()
}

// FillScreen zooms to fill the container.
func (e *Engine) FillScreen() error {
	return e.view.FillScreen()
}

// ScrollTo brings a canvas point to a screen target.
func (e *Engine) ScrollTo(canvas, screen viewport.Anchor, smooth bool) error {
	return e.view.Scroll(canvas, screen, smooth)
}

// Pan scrolls by a pixel delta.
func (e *Engine) Pan(dx, dy float64) error {
	return e.view.Pan(dx, dy)
}

// SetInteractionsEnabled toggles user-driven panning.
func (e *Engine) SetInteractionsEnabled(enabled bool) {
	e.view.SetInteractionsEnabled(enabled)
}

// SetMoveLocked locks the view in place, e.g. while following.
func (e *Engine) SetMoveLocked(locked bool) {
	e.view.SetMoveLocked(locked)
}

// FollowFrame shows a collaborator's visible frame.
func (e *Engine) FollowFrame(frame viewport.Bounds) error {
	return e.view.ZoomToFrame(frame, true)
}

// RestoreScrollState reapplies a saved scroll state given as JSON. An empty
// string counts as a missing state.
func (e *Engine) RestoreScrollState(jsonData string) error {
	var saved viewport.ScrollState
	if jsonData != "" {
		if err := json.Unmarshal([]byte(jsonData), &saved); err != nil {
			return fmt.Errorf("decode scroll state: %w", err)
		}
	}
	return e.view.RestoreScrollState(saved)
}

// Frame runs layout corrections queued since the previous frame.
// This is called once per animation frame from the frontend.
func (e *Engine) Frame() {
	if e.frames.Pending() > 0 {
		slog.Debug("flushing layout callbacks", "count", e.frames.Pending())
	}
	e.frames.Flush()
}

// --- Queries (frontend ← backend) ---

// ViewportInfo is the derived geometry a renderer needs to size and place
// the canvas.
type ViewportInfo struct {
	ZoomFactor    float64                 `json:"zoomFactor"`
	ContentBounds viewport.Bounds         `json:"contentBounds"`
	ViewBox       viewport.Bounds         `json:"viewBox"`
	CanvasSize    viewport.Size           `json:"canvasSize"`
	Fit           viewport.ZoomFitFactors `json:"fit"`
	Transform     []float64               `json:"transform"`

	// InverseTransform maps content pixels back to canvas space.
	InverseTransform []float64 `json:"inverseTransform"`
}

// GetViewport returns the current derived geometry as JSON.
func (e *Engine) GetViewport() string {
	data, _ := json.Marshal(ViewportInfo{
		ZoomFactor:    e.view.ZoomFactor(),
		ContentBounds: e.view.ContentBounds(),
		ViewBox:       e.view.ViewBox(),
		CanvasSize:    e.view.CanvasSize(),
		Fit:           e.view.FitToScreenZoomFactor(),
		Transform:     e.view.CanvasTransform().ToSlice(),

		InverseTransform: e.view.InverseCanvasTransform().ToSlice(),
	})
	return string(data)
}

// GetVisibleFrame returns the visible canvas rectangle as JSON.
func (e *Engine) GetVisibleFrame() (string, error) {
	frame, err := e.view.VisibleFrame()
	if err != nil {
		return "", err
	}
	data, _ := json.Marshal(frame)
	return string(data), nil
}

// GetScrollState returns the state to persist for this view as JSON.
func (e *Engine) GetScrollState() (string, error) {
	state, err := e.view.SaveScrollState()
	if err != nil {
		return "", err
	}
	data, _ := json.Marshal(state)
	return string(data), nil
}

// ScreenToCanvas maps a pointer position to canvas space as JSON.
func (e *Engine) ScreenToCanvas(x, y float64) (string, error) {
	p, err := e.view.ScreenToCanvasCoordinates(viewport.Point{X: x, Y: y})
	if err != nil {
		return "", err
	}
	data, _ := json.Marshal(p)
	return string(data), nil
}

// CanvasToScreen maps a canvas point to screen space as JSON.
func (e *Engine) CanvasToScreen(x, y float64) (string, error) {
	p, err := e.view.ScreenFromCanvasCoordinates(viewport.Point{X: x, Y: y})
	if err != nil {
		return "", err
	}
	data, _ := json.Marshal(p)
	return string(data), nil
}

// GetWorkflow returns the workflow as JSON (for debugging/sync).
func (e *Engine) GetWorkflow() string {
	data, _ := json.Marshal(e.workflow)
	return string(data)
}

// GetZoomFactor returns the current zoom factor.
func (e *Engine) GetZoomFactor() float64 {
	return e.view.ZoomFactor()
}
