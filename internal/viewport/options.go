package viewport

import (
	"log/slog"
	"time"
)

// Options tunes a State. Zero fields are replaced by their defaults.
type Options struct {
	MinZoom        float64
	MaxZoom        float64
	ZoomMultiplier float64 // zoom change per unit of wheel delta

	// ContentPadding is added around the workflow bounds in canvas units.
	ContentPadding float64

	// TransformCacheTTL bounds how long a cached cursor-to-canvas result
	// stays valid during a burst of zoom events.
	TransformCacheTTL time.Duration

	FitMargin       float64 // applied to the fit factor by FitToScreen
	FillMargin      float64 // applied to the fill factor by FillScreen
	FillMaxZoom     float64 // FillScreen never zooms in past this
	FillEdgePadding float64 // screen pixels left before an overflowing content edge

	Scheduler Scheduler
	Logger    *slog.Logger
	Now       func() time.Time
}

// DefaultOptions returns the standard tuning.
func DefaultOptions() Options {
	return Options{
		MinZoom:           0.01,
		MaxZoom:           5,
		ZoomMultiplier:    1.09,
		ContentPadding:    20,
		TransformCacheTTL: time.Second,
		FitMargin:         0.98,
		FillMargin:        0.95,
		FillMaxZoom:       1,
		FillEdgePadding:   20,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MinZoom <= 0 {
		o.MinZoom = d.MinZoom
	}
	if o.MaxZoom <= 0 {
		o.MaxZoom = d.MaxZoom
	}
	if o.MaxZoom < o.MinZoom {
		o.MaxZoom = o.MinZoom
	}
	if o.ZoomMultiplier <= 0 {
		o.ZoomMultiplier = d.ZoomMultiplier
	}
	if o.ContentPadding <= 0 {
		o.ContentPadding = d.ContentPadding
	}
	if o.TransformCacheTTL <= 0 {
		o.TransformCacheTTL = d.TransformCacheTTL
	}
	if o.FitMargin <= 0 {
		o.FitMargin = d.FitMargin
	}
	if o.FillMargin <= 0 {
		o.FillMargin = d.FillMargin
	}
	if o.FillMaxZoom <= 0 {
		o.FillMaxZoom = d.FillMaxZoom
	}
	if o.FillEdgePadding <= 0 {
		o.FillEdgePadding = d.FillEdgePadding
	}
	if o.Scheduler == nil {
		o.Scheduler = Immediate
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}
