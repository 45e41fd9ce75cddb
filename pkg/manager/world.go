package manager

import (
	"github.com/matzehuels/nodevis/pkg/hierarchy"
	"github.com/matzehuels/nodevis/pkg/layout"
)

// World is the context a [Manager] works in.
type World interface {
	Hierarchy() *hierarchy.Tree
	ViewportSize() layout.Size
	// Zoom is the current scale of the viewport. Pointer movements are
	// divided by it.
	Zoom() float64
	// Render receives the nodes whose positions may have changed.
	Render(nodes []*hierarchy.Node)
	// Selection returns the last rendered state of a node.
	Selection(id string) (Selection, bool)
}

// Selection is the rendered state of one node.
type Selection struct {
	ID           string
	X, Y         float64
	Transition   bool
	Text         *hierarchy.TextPlacement
	HideNodeLink bool
}

// Viewport is an in-memory [World]: a hierarchy shown at a given size that
// remembers what was last rendered.
type Viewport struct {
	tree     *hierarchy.Tree
	size     layout.Size
	zoom     float64
	rendered map[string]Selection
	renders  int
}

// NewViewport returns a viewport of the given size at zoom 1.
func NewViewport(tree *hierarchy.Tree, size layout.Size) *Viewport {
	return &Viewport{tree: tree, size: size, zoom: 1, rendered: map[string]Selection{}}
}

func (v *Viewport) Hierarchy() *hierarchy.Tree { return v.tree }
func (v *Viewport) ViewportSize() layout.Size  { return v.size }
func (v *Viewport) Zoom() float64              { return v.zoom }

// SetHierarchy replaces the shown hierarchy and forgets rendered state.
func (v *Viewport) SetHierarchy(t *hierarchy.Tree) {
	v.tree = t
	v.rendered = map[string]Selection{}
}

// Resize changes the viewport size.
func (v *Viewport) Resize(size layout.Size) { v.size = size }

// SetZoom changes the scale. Non-positive values are ignored.
func (v *Viewport) SetZoom(z float64) {
	if z > 0 {
		v.zoom = z
	}
}

func (v *Viewport) Render(nodes []*hierarchy.Node) {
	v.renders++
	for _, n := range nodes {
		v.rendered[n.ID] = Selection{
			ID:           n.ID,
			X:            n.X,
			Y:            n.Y,
			Transition:   n.UseTransition,
			Text:         n.Current.Text,
			HideNodeLink: n.Current.HideNodeLink,
		}
	}
}

func (v *Viewport) Selection(id string) (Selection, bool) {
	s, ok := v.rendered[id]
	return s, ok
}

// Renders returns the number of render notifications received.
func (v *Viewport) Renders() int { return v.renders }
