package style

import (
	"math"

	"github.com/matzehuels/nodevis/pkg/hierarchy"
	"github.com/matzehuels/nodevis/pkg/treelayout"
)

// Hierarchy lays out its subtree as a layered tree. The tree grows along
// the style's rotation; 270 degrees puts children below their parent.
type Hierarchy struct {
	treeStyle
}

var _ HandleDragger = (*Hierarchy)(nil)

func (h *Hierarchy) UpdateData() {
	h.update(h.computeOffsets)
}

func (h *Hierarchy) computeOffsets() {
	rad := h.Rotation() / 180 * math.Pi
	cos, sin := math.Cos(rad), math.Sin(rad)
	nodeSize := h.config.Options.Float("node_size", 25)
	layerHeight := h.config.Options.Float("layer_height", 80)

	tree := treelayout.FromView(h.view, func(n *hierarchy.Node) (float64, float64) {
		if n != h.root && n.UseStyle != "" {
			if s := h.env.StyleOf(n); s != nil {
				return nestedSize(s, rad)
			}
		}
		return nodeSize, layerHeight
	})
	treelayout.Flextree(tree)
	index := tree.Index()

	h.offsets = make([]Offset, 0, h.view.Len())
	h.unrotated = make([]point, 0, h.view.Len())
	for _, n := range h.view.Nodes() {
		ln := index[n]
		h.unrotated = append(h.unrotated, point{X: ln.Y, Y: ln.X})
		h.offsets = append(h.offsets, Offset{
			Node: n,
			X:    ln.X*sin + ln.Y*cos,
			Y:    ln.X*cos - ln.Y*sin,
		})
	}
}

// TranslateCoords writes a positioning entry for every laid out node. The
// root itself is only placed when it is free-floating, a tree root, or
// detached; otherwise its parent style owns its position.
func (h *Hierarchy) TranslateCoords() {
	if h.translated && h.HasFixedPosition() {
		return
	}

	rad := h.Rotation() / 180 * math.Pi
	text := hierarchyText(rad)
	detached := h.config.Options.Bool(OptDetach, false)

	var styled []*hierarchy.Node
	for _, o := range h.offsets {
		apply := true
		if o.Node == h.root {
			apply = h.root.Current.Free || h.root.Parent == nil || detached
		}
		if apply {
			h.setForce(o.Node, hierarchy.Force{
				FX:            h.root.X + o.X,
				FY:            h.root.Y + o.Y,
				Text:          text,
				UseTransition: h.useTransition,
			})
		}
		if o.Node != h.root && o.Node.UseStyle != "" {
			styled = append(styled, o.Node)
		}
	}
	retranslate(h.env, styled, true)

	h.translated = true
	h.useTransition = false
}

func (h *Hierarchy) Handles() []Handle {
	return []Handle{HandleResize, HandleRotation}
}

func (h *Hierarchy) DragHandle(handle Handle, x, y, dx, dy float64) {
	h.drag.deltaX += dx
	h.drag.deltaY += dy
	switch handle {
	case HandleResize:
		h.resize(x, y)
	case HandleRotation:
		h.rotate()
	}
}

// resize scales node size and layer height by the pointer movement measured
// in the style's rotated frame.
func (h *Hierarchy) resize(x, y float64) {
	rad := h.config.Options.Float(OptRotation, 0) / 180 * math.Pi
	offsetY := h.drag.startX - x
	offsetX := h.drag.startY - y

	dxScale := (100 + (math.Cos(-rad)*offsetX - math.Sin(-rad)*offsetY)) / 100
	dyScale := (100 - (math.Cos(-rad)*offsetY + math.Sin(-rad)*offsetX)) / 100

	h.config.Options["node_size"] = h.scaled("node_size", h.drag.options.Float("node_size", 25)*dxScale)
	h.config.Options["layer_height"] = h.scaled("layer_height", h.drag.options.Float("layer_height", 80)*dyScale)
	h.ForceTranslation()
}

// scaled bounds v to half and eight times the default, within the option's
// range, rounded down.
func (h *Hierarchy) scaled(id string, v float64) float64 {
	def := h.defaultOption(id)
	lo, hi := def/2, def*8
	for _, s := range h.variant.Options {
		if s.ID == id {
			lo, hi = math.Max(lo, s.Min), math.Min(hi, s.Max)
		}
	}
	return math.Floor(math.Max(lo, math.Min(hi, v)))
}

// hierarchyText places labels beside the node, turned along the growth
// direction of a tree rotated by rad.
func hierarchyText(rad float64) *hierarchy.TextPlacement {
	rad /= 2
	if rad > 3*math.Pi/4 {
		rad -= math.Pi
	}
	rotate := -rad / math.Pi * 180
	anchor := "start"
	boundary := 9 * math.Pi / 32
	leftSide := rad > boundary && rad < math.Pi-boundary

	const distance = 21
	x := math.Cos(-rad*2) * distance
	y := math.Sin(-rad*2) * distance

	if rad > math.Pi-boundary {
		rotate += 180
	} else if leftSide {
		rotate += 90
		anchor = "end"
	}
	return &hierarchy.TextPlacement{DX: x, DY: y, Rotate: rotate, Anchor: anchor}
}
