package style

import (
	"math"

	"github.com/matzehuels/nodevis/pkg/hierarchy"
	"github.com/matzehuels/nodevis/pkg/treelayout"
)

// Radial arranges its subtree on concentric rings around the root. Leaves
// are pulled in by one ring so they sit next to their parents.
type Radial struct {
	treeStyle
	textRotations []float64
}

var _ HandleDragger = (*Radial)(nil)

func (r *Radial) UpdateData() {
	r.update(r.computeOffsets)
}

func (r *Radial) computeOffsets() {
	opts := r.config.Options
	ring := opts.Float("radius", 120)
	radius := ring * float64(r.maxDepth-r.root.Depth+1)
	rad := r.Rotation() / 180 * math.Pi

	r.offsets = nil
	r.textRotations = nil
	r.unrotated = nil
	if r.view.Len() == 1 {
		r.offsets = []Offset{{Node: r.root}}
		r.textRotations = []float64{0}
		return
	}

	tree := treelayout.FromView(r.view, nil)
	treelayout.Cluster(tree, opts.Float("degree", 360)/360*2*math.Pi, radius)
	index := tree.Index()

	for _, n := range r.view.Nodes() {
		ln := index[n]
		dist := ln.Y
		if r.view.IsLeaf(n) {
			dist -= ring
		}
		r.unrotated = append(r.unrotated, point{
			X: math.Cos(ln.X) * dist,
			Y: -math.Sin(ln.X) * dist,
		})
		r.offsets = append(r.offsets, Offset{
			Node: n,
			X:    math.Cos(ln.X+rad) * dist,
			Y:    -math.Sin(ln.X+rad) * dist,
		})
		r.textRotations = append(r.textRotations, math.Mod(ln.X+rad, 2*math.Pi))
	}
}

func (r *Radial) TranslateCoords() {
	if r.translated && r.HasFixedPosition() {
		return
	}

	detached := r.config.Options.Bool(OptDetach, false)
	var styled []*hierarchy.Node
	for i, o := range r.offsets {
		if o.Node != r.root || detached || r.root.Parent == nil {
			r.setForce(o.Node, hierarchy.Force{
				FX:            r.root.X + o.X,
				FY:            r.root.Y + o.Y,
				Text:          r.text(o.Node, r.textRotations[i]),
				UseTransition: r.useTransition,
			})
		}
		if o.Node != r.root && o.Node.UseStyle != "" {
			styled = append(styled, o.Node)
		}
	}
	retranslate(r.env, styled, false)

	r.useTransition = false
	r.translated = true
}

// text turns labels outward along the ray at angle rad. Labels of inner
// nodes point back toward the center.
func (r *Radial) text(n *hierarchy.Node, rad float64) *hierarchy.TextPlacement {
	if n == r.root {
		return nil
	}
	rotate := -rad / math.Pi * 180
	anchors := [2]string{"start", "end"}
	if rad > math.Pi/2 && rad < 3*math.Pi/2 {
		rotate += 180
		anchors = [2]string{"end", "start"}
	}

	x := math.Cos(-rad) * 12
	y := math.Sin(-rad) * 12
	anchor := anchors[0]
	if !r.view.IsLeaf(n) {
		x, y = -x, -y
		anchor = anchors[1]
	}
	return &hierarchy.TextPlacement{DX: x, DY: y, Rotate: rotate, Anchor: anchor}
}

func (r *Radial) Handles() []Handle {
	return []Handle{HandleRadius, HandleRotation, HandleDegree}
}

func (r *Radial) DragHandle(handle Handle, _, _, dx, dy float64) {
	r.drag.deltaX += dx
	r.drag.deltaY += dy
	switch handle {
	case HandleRadius:
		r.config.Options["radius"] = math.Floor(math.Min(500, math.Max(10, r.drag.options.Float("radius", 120)-r.drag.deltaY)))
		r.ForceTranslation()
	case HandleDegree:
		r.config.Options["degree"] = math.Floor(math.Min(360, math.Max(10, r.drag.options.Float("degree", 360)-r.drag.deltaY)))
		r.ForceTranslation()
	case HandleRotation:
		r.rotate()
	}
}
