package viewport

// FromCanvasCoordinates maps a canvas-space point to content (scrollable)
// pixel space.
func (s *State) FromCanvasCoordinates(p Point) Point {
	vb := s.ViewBox()
	return Point{
		X: (p.X - vb.Left) * s.zoomFactor,
		Y: (p.Y - vb.Top) * s.zoomFactor,
	}
}

// ToCanvasCoordinates maps a content-space pixel back to canvas space.
//
// At small zoom factors many canvas units collapse into one pixel and the
// result is imprecise. The operation order is fixed so that identical
// inputs always produce identical outputs; callers rely on that.
func (s *State) ToCanvasCoordinates(p Point) Point {
	vb := s.ViewBox()
	return Point{
		X: p.X/s.zoomFactor + vb.Left,
		Y: p.Y/s.zoomFactor + vb.Top,
	}
}

// ScreenFromCanvasCoordinates maps a canvas-space point to absolute screen
// coordinates, accounting for scroll offset and the container's position.
func (s *State) ScreenFromCanvasCoordinates(p Point) (Point, error) {
	c, err := s.ScrollContainer()
	if err != nil {
		return Point{}, err
	}
	return s.screenFromCanvas(c, p), nil
}

// ScreenToCanvasCoordinates maps an absolute screen position, such as a
// pointer event, to canvas space.
func (s *State) ScreenToCanvasCoordinates(p Point) (Point, error) {
	c, err := s.ScrollContainer()
	if err != nil {
		return Point{}, err
	}
	return s.screenToCanvas(c, p), nil
}

// VisibleFrame returns the canvas-space rectangle currently visible.
func (s *State) VisibleFrame() (Bounds, error) {
	c, err := s.ScrollContainer()
	if err != nil {
		return Bounds{}, err
	}
	rect := c.BoundingRect()
	topLeft := s.screenToCanvas(c, Point{X: rect.X, Y: rect.Y})
	bottomRight := s.screenToCanvas(c, Point{X: rect.X + rect.Width, Y: rect.Y + rect.Height})
	return NewBounds(topLeft.X, topLeft.Y, bottomRight.X, bottomRight.Y), nil
}

// CanvasTransform returns the affine matrix taking canvas space to content
// space, for renderers placing objects on the scrollable canvas.
func (s *State) CanvasTransform() Matrix2D {
	vb := s.ViewBox()
	return Scale(s.zoomFactor, s.zoomFactor).Multiply(Translate(-vb.Left, -vb.Top))
}

// InverseCanvasTransform takes content space back to canvas space, for
// renderers hit-testing pointer positions against canvas objects.
func (s *State) InverseCanvasTransform() Matrix2D {
	return s.CanvasTransform().Invert()
}

func (s *State) screenFromCanvas(c ScrollContainer, p Point) Point {
	rect := c.BoundingRect()
	scrollX, scrollY := c.ScrollOffset()
	offset := s.FromCanvasCoordinates(p)
	return Point{X: offset.X - scrollX + rect.X, Y: offset.Y - scrollY + rect.Y}
}

func (s *State) screenToCanvas(c ScrollContainer, p Point) Point {
	rect := c.BoundingRect()
	scrollX, scrollY := c.ScrollOffset()
	return s.ToCanvasCoordinates(Point{X: p.X - rect.X + scrollX, Y: p.Y - rect.Y + scrollY})
}
