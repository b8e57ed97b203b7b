// Package scrollbox provides a headless scroll element that behaves like a
// browser overflow container: offsets are clamped to the scrollable range
// and smooth scrolls are animated over time.
package scrollbox

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/inamate/flowcanvas/internal/viewport"
)

// DefaultDuration is the smooth scroll duration in seconds.
const DefaultDuration = 0.3

// scrollAnim holds active scroll-to tweens for both axes.
type scrollAnim struct {
	tweenX  *gween.Tween
	tweenY  *gween.Tween
	targetX float64
	targetY float64
	doneX   bool
	doneY   bool
}

// Box is an in-memory scroll container.
type Box struct {
	rect    viewport.Rect
	content viewport.Size
	x, y    float64

	duration float32
	easeFn   ease.TweenFunc
	anim     *scrollAnim
}

var (
	_ viewport.ScrollContainer = (*Box)(nil)
	_ viewport.ContentSizer    = (*Box)(nil)
)

// New creates a box occupying rect on screen with no content.
func New(rect viewport.Rect) *Box {
	return &Box{
		rect:     rect,
		duration: DefaultDuration,
		easeFn:   ease.OutCubic,
	}
}

// SetEasing changes the smooth scroll duration and easing function.
func (b *Box) SetEasing(duration float32, fn ease.TweenFunc) {
	b.duration = duration
	b.easeFn = fn
}

// ScrollOffset returns the current scroll position.
func (b *Box) ScrollOffset() (float64, float64) {
	return b.x, b.y
}

// SetScrollOffset jumps to a position, cancelling any running animation.
func (b *Box) SetScrollOffset(x, y float64) {
	b.anim = nil
	b.x, b.y = b.clamp(x, y)
}

// ClientSize returns the visible size.
func (b *Box) ClientSize() viewport.Size {
	return viewport.Size{Width: b.rect.Width, Height: b.rect.Height}
}

// BoundingRect returns the on-screen rectangle.
func (b *Box) BoundingRect() viewport.Rect {
	return b.rect
}

// ScrollTo scrolls to an absolute position. Smooth scrolls advance with
// Update; others apply immediately.
func (b *Box) ScrollTo(x, y float64, smooth bool) {
	x, y = b.clamp(x, y)
	if !smooth || b.duration <= 0 {
		b.SetScrollOffset(x, y)
		return
	}
	b.anim = &scrollAnim{
		tweenX:  gween.New(float32(b.x), float32(x), b.duration, b.easeFn),
		tweenY:  gween.New(float32(b.y), float32(y), b.duration, b.easeFn),
		targetX: x,
		targetY: y,
	}
}

// ScrollSize returns the total scrollable size.
func (b *Box) ScrollSize() viewport.Size {
	return viewport.Size{
		Width:  math.Max(b.content.Width, b.rect.Width),
		Height: math.Max(b.content.Height, b.rect.Height),
	}
}

// SetContentSize resizes the scrollable content, clamping the offset like a
// browser does when content shrinks.
func (b *Box) SetContentSize(size viewport.Size) {
	b.content = size
	b.x, b.y = b.clamp(b.x, b.y)
}

// Resize changes the visible size, as a window resize would.
func (b *Box) Resize(width, height float64) {
	b.rect.Width = width
	b.rect.Height = height
	b.x, b.y = b.clamp(b.x, b.y)
}

// Move places the box at a new screen position.
func (b *Box) Move(x, y float64) {
	b.rect.X = x
	b.rect.Y = y
}

// Animating reports whether a smooth scroll is in progress.
func (b *Box) Animating() bool {
	return b.anim != nil
}

// Update advances a running smooth scroll by dt seconds. The final frame
// lands exactly on the target.
func (b *Box) Update(dt float32) {
	a := b.anim
	if a == nil {
		return
	}
	if !a.doneX {
		val, done := a.tweenX.Update(dt)
		b.x = float64(val)
		a.doneX = done
	}
	if !a.doneY {
		val, done := a.tweenY.Update(dt)
		b.y = float64(val)
		a.doneY = done
	}
	if a.doneX && a.doneY {
		b.anim = nil
		b.x, b.y = b.clamp(a.targetX, a.targetY)
		return
	}
	b.x, b.y = b.clamp(b.x, b.y)
}

func (b *Box) clamp(x, y float64) (float64, float64) {
	maxX := math.Max(0, b.content.Width-b.rect.Width)
	maxY := math.Max(0, b.content.Height-b.rect.Height)
	return math.Max(0, math.Min(x, maxX)), math.Max(0, math.Min(y, maxY))
}
