package workflow

import (
	"fmt"

	"github.com/inamate/flowcanvas/internal/typeid"
)

// NewSampleWorkflow builds a small read-transform-write pipeline with an
// annotation, spread wide enough to need scrolling at 100% zoom.
func NewSampleWorkflow(workflowID string) *Workflow {
	w := NewEmptyWorkflow(workflowID, "Sample workflow")

	kinds := []NodeKind{NodeKindSource, NodeKindManip, NodeKindManip, NodeKindComponent, NodeKindSink}
	names := []string{"CSV Reader", "Row Filter", "GroupBy", "Feature Prep", "Excel Writer"}

	var prev string
	for i, kind := range kinds {
		id := typeid.NewNodeID()
		w.Nodes[id] = Node{
			ID:       id,
			Kind:     kind,
			Name:     names[i],
			Position: Position{X: float64(i) * 240, Y: float64(i%2) * 120},
		}
		if prev != "" {
			w.Connections = append(w.Connections, Connection{
				ID:         fmt.Sprintf("%s_1-%s_1", prev, id),
				SourceNode: prev,
				SourcePort: 1,
				DestNode:   id,
				DestPort:   1,
			})
		}
		prev = id
	}

	annID := typeid.NewAnnotationID()
	w.Annotations[annID] = Annotation{
		ID:     annID,
		Text:   "Data preparation",
		X:      -60,
		Y:      -80,
		Width:  620,
		Height: 280,
	}

	return w
}
