//go:build js && wasm

package main

import (
	"strconv"
	"syscall/js"

	"github.com/inamate/flowcanvas/internal/viewport"
)

// domContainer adapts a scrollable DOM element to the viewport. The sizer
// is the inner element whose size sets the scrollable area.
type domContainer struct {
	el    js.Value
	sizer js.Value
}

var (
	_ viewport.ScrollContainer = (*domContainer)(nil)
	_ viewport.ContentSizer    = (*domContainer)(nil)
)

func (d *domContainer) ScrollOffset() (float64, float64) {
	return d.el.Get("scrollLeft").Float(), d.el.Get("scrollTop").Float()
}

func (d *domContainer) SetScrollOffset(x, y float64) {
	d.el.Set("scrollLeft", x)
	d.el.Set("scrollTop", y)
}

func (d *domContainer) ClientSize() viewport.Size {
	return viewport.Size{
		Width:  d.el.Get("clientWidth").Float(),
		Height: d.el.Get("clientHeight").Float(),
	}
}

func (d *domContainer) BoundingRect() viewport.Rect {
	r := d.el.Call("getBoundingClientRect")
	return viewport.Rect{
		X:      r.Get("x").Float(),
		Y:      r.Get("y").Float(),
		Width:  r.Get("width").Float(),
		Height: r.Get("height").Float(),
	}
}

func (d *domContainer) ScrollTo(x, y float64, smooth bool) {
	behavior := "auto"
	if smooth {
		behavior = "smooth"
	}
	d.el.Call("scrollTo", map[string]interface{}{
		"left":     x,
		"top":      y,
		"behavior": behavior,
	})
}

func (d *domContainer) SetContentSize(size viewport.Size) {
	if d.sizer.IsUndefined() || d.sizer.IsNull() {
		return
	}
	style := d.sizer.Get("style")
	style.Set("width", px(size.Width))
	style.Set("height", px(size.Height))
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}
