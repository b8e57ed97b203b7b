package viewport

// ContentBounds returns the workflow bounds extended to include the origin
// and padded by ContentPadding on every side.
func (s *State) ContentBounds() Bounds {
	b := s.workflowBounds
	pad := s.opts.ContentPadding
	return NewBounds(
		min(b.Left, 0)-pad,
		min(b.Top, 0)-pad,
		max(b.Right, 0)+pad,
		max(b.Bottom, 0)+pad,
	)
}

// ContentPadding is one container extent of canvas space on each side, so
// the user can always scroll a full container past the content edges.
func (s *State) ContentPadding() Insets {
	x := s.containerSize.Width / s.zoomFactor
	y := s.containerSize.Height / s.zoomFactor
	return Insets{Left: x, Top: y, Right: x, Bottom: y}
}

// ViewBox is the total addressable canvas-space rectangle.
func (s *State) ViewBox() Bounds {
	return s.ContentBounds().Expand(s.ContentPadding())
}

// CanvasSize is the total scrollable size in pixels.
func (s *State) CanvasSize() Size {
	vb := s.ViewBox()
	return Size{Width: vb.Width * s.zoomFactor, Height: vb.Height * s.zoomFactor}
}

// FitToScreenZoomFactor returns the zoom factors at which the content bounds
// exactly fill the container on each axis.
func (s *State) FitToScreenZoomFactor() ZoomFitFactors {
	cb := s.ContentBounds()
	x := s.containerSize.Width / cb.Width
	y := s.containerSize.Height / cb.Height
	return ZoomFitFactors{X: x, Y: y, Min: min(x, y), Max: max(x, y)}
}
