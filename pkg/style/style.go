// Package style implements the layout styles: deterministic positioning
// strategies anchored at one node of a hierarchy.
//
// A style computes offsets for the nodes of its subtree relative to its root
// node ([Style.UpdateData]) and turns them into weighted positioning entries
// on those nodes ([Style.TranslateCoords]). The node's resolver then decides
// which authority wins. Nested styles participate in their parent's layout
// as opaque blocks of their rendered size, unless they are detached.
//
// Variants are listed in a static table ([Variants]) that can be queried
// without creating a style. [Instantiate] is the only constructor.
package style

import (
	"math"

	"github.com/matzehuels/nodevis/pkg/hierarchy"
	"github.com/matzehuels/nodevis/pkg/layout"
)

// Common option keys.
const (
	OptDetach                = "detach_from_parent"
	OptRotation              = "rotation"
	OptIncludeParentRotation = "include_parent_rotation"
	OptBoxLeafNodes          = "box_leaf_nodes"
)

// Env is the owner of the styles: it resolves the style anchored at a node
// and knows the viewport.
type Env interface {
	// StyleOf returns the style rooted at n, or nil.
	StyleOf(n *hierarchy.Node) Style
	ViewportSize() layout.Size
	// RefreshForces rebuilds the force simulation parameters.
	RefreshForces()
}

// Offset is the position of a node relative to its style root.
type Offset struct {
	Node *hierarchy.Node
	X, Y float64
}

// Style is one layout style instance.
type Style interface {
	ID() string
	Type() string
	Config() *layout.StyleConfig
	Root() *hierarchy.Node
	OptionSpecs() []layout.OptionSpec

	// Weight is the weight of the positioning entries the style writes.
	Weight() float64

	UpdateData()
	TranslateCoords()
	ForceTranslation()
	HasFixedPosition() bool

	Size() (w, h float64)
	Rotation() float64
	Offsets() []Offset
	FilteredDescendants() []*hierarchy.Node

	FixNode(n *hierarchy.Node)
	ResetOptions()
	// Rebind replaces the config, for example after the layout document
	// was reloaded from a history snapshot.
	Rebind(cfg *layout.StyleConfig)
	Remove()
}

// ComputeID returns the id of a style of the given type rooted at nodeID.
func ComputeID(styleType, nodeID string) string {
	return styleType + "_" + nodeID
}

// base carries the state and behavior shared by all variants.
type base struct {
	env     Env
	variant Variant
	config  *layout.StyleConfig
	root    *hierarchy.Node
	self    Style

	view          *hierarchy.View
	offsets       []Offset
	translated    bool
	useTransition bool
}

func (b *base) ID() string                       { return ComputeID(b.variant.Type, b.root.ID) }
func (b *base) Type() string                     { return b.variant.Type }
func (b *base) Config() *layout.StyleConfig      { return b.config }
func (b *base) Root() *hierarchy.Node            { return b.root }
func (b *base) OptionSpecs() []layout.OptionSpec { return b.variant.Options }
func (b *base) Weight() float64                  { return 0 }
func (b *base) Offsets() []Offset                { return b.offsets }
func (b *base) UpdateData()                      {}
func (b *base) TranslateCoords()                 {}

// ForceTranslation invalidates the translated offsets.
func (b *base) ForceTranslation() {
	b.translated = false
}

// HasFixedPosition reports whether the style's placement does not depend on
// the physics solver: some styled ancestor is detached, or the chain of
// styled ancestors does not end in a free-floating root style.
func (b *base) HasFixedPosition() bool {
	for _, n := range b.root.Ancestors() {
		s := b.env.StyleOf(n)
		if s == nil {
			continue
		}
		if s.Config().Options.Bool(OptDetach, false) {
			return true
		}
		if n.Parent == nil && s.Type() == TypeForce {
			return false
		}
	}
	return true
}

// FilteredDescendants returns the nodes laid out by the style, root first.
func (b *base) FilteredDescendants() []*hierarchy.Node {
	if b.view == nil {
		return []*hierarchy.Node{b.root}
	}
	return b.view.Nodes()
}

// Size returns the rendered extent of the style, padded for use as a block
// inside a parent style.
func (b *base) Size() (w, h float64) {
	if len(b.offsets) == 0 {
		return 100, 100
	}
	pts := make([]point, len(b.offsets))
	for i, o := range b.offsets {
		pts[i] = point{o.X, o.Y}
	}
	w, h = bounds(pts)
	return w*1.1 + 100, h*1.1 + 100
}

// Rotation returns the rotation option in degrees, plus the rotation of the
// nearest styled ancestor when include_parent_rotation is set.
func (b *base) Rotation() float64 {
	opts := b.config.Options
	if _, ok := opts[OptRotation]; !ok {
		return 0
	}
	rotation := opts.Float(OptRotation, 0)
	if opts.Bool(OptIncludeParentRotation, false) {
		for p := b.root.Parent; p != nil; p = p.Parent {
			if s := b.env.StyleOf(p); s != nil {
				rotation += s.Rotation()
				break
			}
		}
	}
	return rotation
}

// FixNode pins n at its current coordinates.
func (b *base) FixNode(n *hierarchy.Node) {
	b.setForce(n, hierarchy.Force{FX: n.X, FY: n.Y, UseTransition: true})
}

// ResetOptions restores the default value of every option.
func (b *base) ResetOptions() {
	for _, s := range b.variant.Options {
		b.config.Options[s.ID] = s.Default
	}
}

func (b *base) Rebind(cfg *layout.StyleConfig) {
	cfg.Options = layout.ClampOptions(cfg.Options, b.variant.Options)
	cfg.Weight = b.self.Weight()
	b.config = cfg
}

// Remove deletes the entry the style wrote on its root node.
func (b *base) Remove() {
	b.root.Positioning.Delete(b.ID())
}

// setForce writes the style's positioning entry for n. Weight and type are
// always those of the style.
func (b *base) setForce(n *hierarchy.Node, f hierarchy.Force) {
	f.Weight = b.self.Weight()
	f.Type = b.variant.Type
	n.Positioning.Set(b.ID(), f)
}

// filter builds the view of the nodes the style lays out: the root's
// visible subtree without detached sub-styles. Nested styles that are not
// detached are included but not descended into.
func (b *base) filter() *hierarchy.View {
	return hierarchy.Filter(b.root, func(n *hierarchy.Node) (bool, bool) {
		if n.UseStyle == "" {
			return true, true
		}
		if s := b.env.StyleOf(n); s != nil && s.Config().Options.Bool(OptDetach, false) {
			return false, false
		}
		return true, false
	})
}

// cleanup removes the style's entries from the whole visible subtree.
func (b *base) cleanup() {
	for _, n := range b.root.Descendants() {
		n.Positioning.Delete(b.ID())
	}
}

type point struct{ X, Y float64 }

func bounds(pts []point) (w, h float64) {
	if len(pts) == 0 {
		return 0, 0
	}
	minX, maxX := pts[0].X, pts[0].X
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts[1:] {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return maxX - minX, maxY - minY
}

func rotatedBounds(pts []point, rad float64) (w, h float64) {
	if len(pts) == 0 {
		return 10, 10
	}
	cos, sin := math.Cos(rad), math.Sin(rad)
	rot := make([]point, len(pts))
	for i, p := range pts {
		rot[i] = point{p.X*cos - p.Y*sin, p.X*sin + p.Y*cos}
	}
	return bounds(rot)
}
