package viewport

// ScrollContainer is the handle to the scrollable element hosting the canvas.
// The container is the source of truth for the scroll offset; State never
// stores one of its own.
type ScrollContainer interface {
	// ScrollOffset returns the current scroll position in content pixels.
	ScrollOffset() (x, y float64)
	// SetScrollOffset sets the scroll position immediately.
	SetScrollOffset(x, y float64)
	// ClientSize returns the visible size of the container.
	ClientSize() Size
	// BoundingRect returns the container's rectangle in screen coordinates.
	BoundingRect() Rect
	// ScrollTo scrolls to an absolute position, animated when smooth is set.
	ScrollTo(x, y float64, smooth bool)
}

// ContentSizer is implemented by containers that need to be told the size
// of the scrollable content. State calls it whenever the canvas size changes.
type ContentSizer interface {
	SetContentSize(size Size)
}
