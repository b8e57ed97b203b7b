// Package framing computes initial viewport framings on the server, so a
// client can open a workflow already fitted or filled without a round of
// layout on its side.
package framing

import (
	"errors"
	"fmt"

	"github.com/inamate/flowcanvas/internal/scrollbox"
	"github.com/inamate/flowcanvas/internal/viewport"
)

type Mode string

const (
	ModeFit  Mode = "fit"
	ModeFill Mode = "fill"
)

var ErrInvalidRequest = errors.New("invalid framing request")

// Result is a computed framing.
type Result struct {
	Mode         Mode                 `json:"mode"`
	ScrollState  viewport.ScrollState `json:"scrollState"`
	ViewBox      viewport.Bounds      `json:"viewBox"`
	VisibleFrame viewport.Bounds      `json:"visibleFrame"`
}

// Compute frames content of the given bounds in a container of the given
// size. It runs the same operators the client runs, against an in-memory
// scroll container.
func Compute(opts viewport.Options, bounds viewport.Bounds, container viewport.Size, mode Mode) (*Result, error) {
	if container.Width <= 0 || container.Height <= 0 {
		return nil, fmt.Errorf("%w: container must have a positive size", ErrInvalidRequest)
	}
	if mode == "" {
		mode = ModeFill
	}

	opts.Scheduler = viewport.Immediate
	view := viewport.New(opts)
	if err := view.SetWorkflowBounds(bounds); err != nil {
		return nil, err
	}
	view.BindScrollContainer(scrollbox.New(viewport.Rect{Width: container.Width, Height: container.Height}))

	var err error
	switch mode {
	case ModeFit:
		err = view.FitToScreen()
	case ModeFill:
		err = view.FillScreen()
	default:
		return nil, fmt.Errorf("%w: unknown mode %q", ErrInvalidRequest, mode)
	}
	if err != nil {
		return nil, err
	}

	state, err := view.SaveScrollState()
	if err != nil {
		return nil, err
	}
	frame, err := view.VisibleFrame()
	if err != nil {
		return nil, err
	}

	return &Result{
		Mode:         mode,
		ScrollState:  state,
		ViewBox:      view.ViewBox(),
		VisibleFrame: frame,
	}, nil
}
