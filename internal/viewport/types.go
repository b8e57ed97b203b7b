package viewport

import "math"

// Point is a 2D position. Depending on context it is in canvas space, content
// (scrollable) space, or screen space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a width/height pair in pixels or canvas units.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect is an axis-aligned rectangle in screen space, shaped like a DOM
// bounding client rect.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center returns the center point of the rect.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Bounds is an edge-based rectangle in canvas space with its derived
// dimensions precomputed.
type Bounds struct {
	Left    float64 `json:"left"`
	Top     float64 `json:"top"`
	Right   float64 `json:"right"`
	Bottom  float64 `json:"bottom"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	CenterX float64 `json:"centerX"`
	CenterY float64 `json:"centerY"`
}

// NewBounds builds Bounds from its four edges.
func NewBounds(left, top, right, bottom float64) Bounds {
	width := right - left
	height := bottom - top
	return Bounds{
		Left:    left,
		Top:     top,
		Right:   right,
		Bottom:  bottom,
		Width:   width,
		Height:  height,
		CenterX: left + width/2,
		CenterY: top + height/2,
	}
}

// Origin returns the top-left corner.
func (b Bounds) Origin() Point {
	return Point{X: b.Left, Y: b.Top}
}

// Center returns the center point.
func (b Bounds) Center() Point {
	return Point{X: b.CenterX, Y: b.CenterY}
}

// IsEmpty checks if the bounds have zero or negative area.
func (b Bounds) IsEmpty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Contains checks if a point is inside the bounds.
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.Left && p.X <= b.Right && p.Y >= b.Top && p.Y <= b.Bottom
}

// Union returns the smallest bounds containing both.
func (b Bounds) Union(other Bounds) Bounds {
	return NewBounds(
		min(b.Left, other.Left),
		min(b.Top, other.Top),
		max(b.Right, other.Right),
		max(b.Bottom, other.Bottom),
	)
}

// Insets holds per-edge extents, used for content padding.
type Insets struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Expand grows the bounds outward by the insets.
func (b Bounds) Expand(in Insets) Bounds {
	return NewBounds(b.Left-in.Left, b.Top-in.Top, b.Right+in.Right, b.Bottom+in.Bottom)
}

// ZoomFitFactors are the zoom factors at which each axis of the content
// bounds exactly fills the container.
type ZoomFitFactors struct {
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ScrollState is a snapshot of a view's zoom and scroll position, persisted by
// the session layer and handed back to RestoreScrollState.
type ScrollState struct {
	ZoomFactor   float64 `json:"zoomFactor"`
	ScrollX      float64 `json:"scrollLeft"`
	ScrollY      float64 `json:"scrollTop"`
	ScrollWidth  float64 `json:"scrollWidth"`
	ScrollHeight float64 `json:"scrollHeight"`
}

// Complete reports whether every field is set to a usable, non-zero value.
func (s ScrollState) Complete() bool {
	for _, v := range []float64{s.ZoomFactor, s.ScrollX, s.ScrollY, s.ScrollWidth, s.ScrollHeight} {
		if v == 0 || math.IsNaN(v) {
			return false
		}
	}
	return true
}
