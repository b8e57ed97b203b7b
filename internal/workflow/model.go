// Package workflow holds the read-only view of a workflow that the canvas
// needs: where its nodes and annotations sit and how large they are.
package workflow

import (
	"math"

	"github.com/inamate/flowcanvas/internal/viewport"
)

type Workflow struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Nodes       map[string]Node       `json:"nodes"`
	Connections []Connection          `json:"connections"`
	Annotations map[string]Annotation `json:"annotations"`
}

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type NodeKind string

const (
	NodeKindSource    NodeKind = "source"
	NodeKindManip     NodeKind = "manipulator"
	NodeKindSink      NodeKind = "sink"
	NodeKindComponent NodeKind = "component"
)

// Node sizes in canvas units. Labels and port bars extend past the icon.
const (
	NodeSize         = 32
	NodeLabelHeight  = 20
	NodeNameMaxWidth = 160
)

type Node struct {
	ID       string   `json:"id"`
	Kind     NodeKind `json:"kind"`
	Name     string   `json:"name"`
	Position Position `json:"position"`
}

type Connection struct {
	ID         string `json:"id"`
	SourceNode string `json:"sourceNode"`
	SourcePort int    `json:"sourcePort"`
	DestNode   string `json:"destNode"`
	DestPort   int    `json:"destPort"`
}

type Annotation struct {
	ID     string  `json:"id"`
	Text   string  `json:"text"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewEmptyWorkflow creates a workflow without content.
func NewEmptyWorkflow(id, name string) *Workflow {
	return &Workflow{
		ID:          id,
		Name:        name,
		Nodes:       map[string]Node{},
		Connections: []Connection{},
		Annotations: map[string]Annotation{},
	}
}

// Bounds returns the bounding box of all nodes, including their name labels,
// and annotations. An empty workflow yields zero bounds.
func (w *Workflow) Bounds() viewport.Bounds {
	if w == nil || (len(w.Nodes) == 0 && len(w.Annotations) == 0) {
		return viewport.Bounds{}
	}

	left, top := math.Inf(1), math.Inf(1)
	right, bottom := math.Inf(-1), math.Inf(-1)
	grow := func(l, t, r, b float64) {
		left = min(left, l)
		top = min(top, t)
		right = max(right, r)
		bottom = max(bottom, b)
	}

	for _, n := range w.Nodes {
		// The name label is centered below the node and may be wider.
		labelOverhang := (NodeNameMaxWidth - NodeSize) / 2.0
		grow(
			n.Position.X-labelOverhang,
			n.Position.Y,
			n.Position.X+NodeSize+labelOverhang,
			n.Position.Y+NodeSize+NodeLabelHeight,
		)
	}
	for _, a := range w.Annotations {
		grow(a.X, a.Y, a.X+a.Width, a.Y+a.Height)
	}

	return viewport.NewBounds(left, top, right, bottom)
}

// MoveNode repositions a node and reports whether it exists.
func (w *Workflow) MoveNode(id string, pos Position) bool {
	n, ok := w.Nodes[id]
	if !ok {
		return false
	}
	n.Position = pos
	w.Nodes[id] = n
	return true
}
