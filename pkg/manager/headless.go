package manager

import (
	"context"

	"github.com/matzehuels/nodevis/pkg/hierarchy"
	"github.com/matzehuels/nodevis/pkg/layout"
)

// Result is the outcome of [ApplyOnce].
type Result struct {
	Placements []hierarchy.Placement `json:"placements"`
	Layout     *layout.Layout        `json:"layout"`
	Ticks      int                   `json:"ticks"`
}

// ApplyOnce applies doc to tree in a private viewport of the given size and
// returns the resolved node positions with the serialized layout. With
// simulate set the force simulation runs until it cools down, so
// free-floating nodes settle and delayed style configs are applied.
func ApplyOnce(ctx context.Context, tree *hierarchy.Tree, doc *layout.Layout, size layout.Size, opts Options, simulate bool) (*Result, error) {
	vp := NewViewport(tree, size)
	m := New(vp, opts)
	m.UpdateLayout(doc)
	m.ApplyCurrentLayout(ctx, true)

	ticks := 0
	if simulate {
		var err error
		if ticks, err = m.Simulation().Run(ctx); err != nil {
			return nil, err
		}
	}
	return &Result{
		Placements: tree.Placements(),
		Layout:     m.Serialize(),
		Ticks:      ticks,
	}, nil
}
