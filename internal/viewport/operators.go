package viewport

import (
	"fmt"
	"math"
)

// Anchor is either a concrete point or the Center sentinel.
type Anchor struct {
	Point  Point
	Center bool
}

// Center resolves to the content-bounds center for canvas anchors and to the
// container center for screen anchors.
var Center = Anchor{Center: true}

// At returns an anchor for a concrete point.
func At(x, y float64) Anchor {
	return Anchor{Point: Point{X: x, Y: y}}
}

// ZoomRequest describes a zoom step. Exactly one of Delta and Factor must be
// set. Delta is an exponential step (zoom × multiplier^delta); Factor is an
// absolute zoom factor. The cursor is in screen coordinates.
type ZoomRequest struct {
	Delta   *float64
	Factor  *float64
	CursorX float64
	CursorY float64
}

// ZoomByDelta builds a delta request at the given cursor position.
func ZoomByDelta(delta, cursorX, cursorY float64) ZoomRequest {
	return ZoomRequest{Delta: &delta, CursorX: cursorX, CursorY: cursorY}
}

// ZoomToFactor builds an absolute request at the given cursor position.
func ZoomToFactor(factor, cursorX, cursorY float64) ZoomRequest {
	return ZoomRequest{Factor: &factor, CursorX: cursorX, CursorY: cursorY}
}

func (r ZoomRequest) validate() error {
	if (r.Delta == nil) == (r.Factor == nil) {
		return fmt.Errorf("%w: exactly one of delta or factor is required", ErrInvalidArguments)
	}
	return nil
}

// Scroll brings a canvas point to a screen target. The screen target is
// relative to the container's top-left corner.
func (s *State) Scroll(canvas, screen Anchor, smooth bool) error {
	c, err := s.ScrollContainer()
	if err != nil {
		return err
	}

	point := canvas.Point
	if canvas.Center {
		point = s.ContentBounds().Center()
	}
	target := screen.Point
	if screen.Center {
		target = Point{X: s.containerSize.Width / 2, Y: s.containerSize.Height / 2}
	}

	offset := s.FromCanvasCoordinates(point)
	c.ScrollTo(offset.X-target.X, offset.Y-target.Y, smooth)
	return nil
}

// ZoomAroundPointer changes the zoom factor while keeping the canvas point
// under the cursor at the same screen position.
func (s *State) ZoomAroundPointer(req ZoomRequest) error {
	if err := req.validate(); err != nil {
		return err
	}
	c, err := s.ScrollContainer()
	if err != nil {
		return err
	}

	now := s.now()
	scrollX, scrollY := c.ScrollOffset()
	anchor, ok := s.cache.lookup([4]float64{req.CursorX, req.CursorY, scrollX, scrollY}, now, s.opts.TransformCacheTTL)
	if !ok {
		anchor = s.screenToCanvas(c, Point{X: req.CursorX, Y: req.CursorY})
	}

	before := s.FromCanvasCoordinates(anchor)
	if req.Delta != nil {
		s.SetZoomFactor(s.zoomFactor * math.Pow(s.opts.ZoomMultiplier, *req.Delta))
	} else {
		s.SetZoomFactor(*req.Factor)
	}
	after := s.FromCanvasCoordinates(anchor)

	c.SetScrollOffset(scrollX+(after.X-before.X), scrollY+(after.Y-before.Y))

	newX, newY := c.ScrollOffset()
	s.cache = &transformCache{
		invariant: [4]float64{req.CursorX, req.CursorY, newX, newY},
		result:    anchor,
		timestamp: now,
	}
	return nil
}

// ZoomCentered zooms around the container's on-screen center. The cursor
// fields of req are ignored.
func (s *State) ZoomCentered(req ZoomRequest) error {
	if err := req.validate(); err != nil {
		return err
	}
	c, err := s.ScrollContainer()
	if err != nil {
		return err
	}
	center := c.BoundingRect().Center()
	req.CursorX, req.CursorY = center.X, center.Y
	return s.ZoomAroundPointer(req)
}

// FitToScreen zooms so the whole content is visible with a small margin and
// centers it.
func (s *State) FitToScreen() error {
	if _, err := s.ScrollContainer(); err != nil {
		return err
	}
	fit := s.FitToScreenZoomFactor()
	s.SetZoomFactor(fit.Min * s.opts.FitMargin)
	s.logger.Debug("fit to screen", "zoom", s.zoomFactor)
	return s.Scroll(Center, Center, false)
}

// FillScreen zooms so the content fills the container on at least one axis,
// never past FillMaxZoom. Axes with slack are centered; overflowing axes
// show the content start edge.
func (s *State) FillScreen() error {
	c, err := s.ScrollContainer()
	if err != nil {
		return err
	}
	fit := s.FitToScreenZoomFactor()
	s.SetZoomFactor(min(fit.Max*s.opts.FillMargin, s.opts.FillMaxZoom))

	cb := s.ContentBounds()
	center := s.FromCanvasCoordinates(cb.Center())
	start := s.FromCanvasCoordinates(cb.Origin())

	x := start.X - s.opts.FillEdgePadding
	if fit.X >= s.zoomFactor {
		x = center.X - s.containerSize.Width/2
	}
	y := start.Y - s.opts.FillEdgePadding
	if fit.Y >= s.zoomFactor {
		y = center.Y - s.containerSize.Height/2
	}

	s.logger.Debug("fill screen", "zoom", s.zoomFactor, "overflowX", fit.X < s.zoomFactor, "overflowY", fit.Y < s.zoomFactor)
	c.ScrollTo(x, y, false)
	return nil
}

// UpdateContainerSize applies a new container size while keeping the canvas
// point at the container's top-left corner stationary.
func (s *State) UpdateContainerSize(size Size) error {
	c, err := s.ScrollContainer()
	if err != nil {
		return err
	}

	scrollX, scrollY := c.ScrollOffset()
	reference := s.ToCanvasCoordinates(Point{X: scrollX, Y: scrollY})

	s.containerSize = size
	s.relayout()
	s.logger.Debug("container resized", "width", size.Width, "height", size.Height)

	s.opts.Scheduler.AfterLayout(func() {
		// The container may have been unmounted before layout settled.
		c, err := s.ScrollContainer()
		if err != nil {
			return
		}
		moved := s.FromCanvasCoordinates(reference)
		c.SetScrollOffset(moved.X, moved.Y)
	})
	return nil
}

// SaveScrollState captures the current zoom and scroll position.
func (s *State) SaveScrollState() (ScrollState, error) {
	c, err := s.ScrollContainer()
	if err != nil {
		return ScrollState{}, err
	}
	scrollX, scrollY := c.ScrollOffset()
	size := s.CanvasSize()
	return ScrollState{
		ZoomFactor:   s.zoomFactor,
		ScrollX:      scrollX,
		ScrollY:      scrollY,
		ScrollWidth:  size.Width,
		ScrollHeight: size.Height,
	}, nil
}

// RestoreScrollState reapplies a saved state. Incomplete states fall back to
// FillScreen. Saved offsets are rescaled when the scrollable size changed
// since the snapshot was taken.
func (s *State) RestoreScrollState(saved ScrollState) error {
	if !saved.Complete() {
		s.logger.Debug("incomplete scroll state, filling screen", "state", saved)
		return s.FillScreen()
	}
	if _, err := s.ScrollContainer(); err != nil {
		return err
	}

	s.SetZoomFactor(saved.ZoomFactor)
	s.opts.Scheduler.AfterLayout(func() {
		c, err := s.ScrollContainer()
		if err != nil {
			return
		}
		size := s.CanvasSize()
		x := saved.ScrollX * (size.Width / saved.ScrollWidth)
		y := saved.ScrollY * (size.Height / saved.ScrollHeight)
		c.ScrollTo(x, y, false)
	})
	return nil
}

// ContentBoundsChanged compensates the scroll offset when the content bounds
// origin moves, so that the remaining content does not jump on screen.
func (s *State) ContentBoundsChanged(newBounds, oldBounds Bounds) error {
	c, err := s.ScrollContainer()
	if err != nil {
		return err
	}
	dx := (oldBounds.Left - newBounds.Left) * s.zoomFactor
	dy := (oldBounds.Top - newBounds.Top) * s.zoomFactor
	if dx == 0 && dy == 0 {
		return nil
	}
	scrollX, scrollY := c.ScrollOffset()
	c.SetScrollOffset(scrollX+dx, scrollY+dy)
	return nil
}

// SetWorkflowBounds replaces the raw workflow bounding box. When a container
// is bound, the scroll offset is compensated for the content origin shift.
func (s *State) SetWorkflowBounds(b Bounds) error {
	oldBounds := s.ContentBounds()
	s.workflowBounds = b
	newBounds := s.ContentBounds()
	if s.container == nil {
		s.relayout()
		return nil
	}

	// Grow the canvas before shifting into the new space; shrink it only
	// after shifting so the container does not clamp the old offset.
	if newBounds.Left <= oldBounds.Left && newBounds.Top <= oldBounds.Top {
		s.relayout()
		return s.ContentBoundsChanged(newBounds, oldBounds)
	}
	err := s.ContentBoundsChanged(newBounds, oldBounds)
	s.relayout()
	return err
}

// Pan scrolls by a pixel delta. It is a no-op while interactions are
// disabled or movement is locked.
func (s *State) Pan(dx, dy float64) error {
	c, err := s.ScrollContainer()
	if err != nil {
		return err
	}
	if !s.interactionsEnabled || s.moveLocked {
		return nil
	}
	scrollX, scrollY := c.ScrollOffset()
	c.SetScrollOffset(scrollX+dx, scrollY+dy)
	return nil
}

// ZoomToFrame fits an arbitrary canvas rectangle into the container and
// centers it. Used to follow a collaborator's visible frame.
func (s *State) ZoomToFrame(frame Bounds, smooth bool) error {
	if _, err := s.ScrollContainer(); err != nil {
		return err
	}
	if !frame.IsEmpty() {
		x := s.containerSize.Width / frame.Width
		y := s.containerSize.Height / frame.Height
		s.SetZoomFactor(min(x, y) * s.opts.FitMargin)
	}
	return s.Scroll(Anchor{Point: frame.Center()}, Center, smooth)
}
