package viewport

import "time"

// transformCache remembers the canvas point under the cursor for a short
// time. It is valid only while the cursor position and both scroll offsets
// are exactly unchanged. The zoom factor is deliberately not part of the key.
type transformCache struct {
	invariant [4]float64 // cursorX, cursorY, scrollX, scrollY
	result    Point
	timestamp time.Time
}

func (c *transformCache) lookup(invariant [4]float64, now time.Time, ttl time.Duration) (Point, bool) {
	if c == nil || c.invariant != invariant {
		return Point{}, false
	}
	if now.Sub(c.timestamp) >= ttl {
		return Point{}, false
	}
	return c.result, true
}
