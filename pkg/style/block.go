package style

import (
	"math"

	"github.com/matzehuels/nodevis/pkg/hierarchy"
)

const blockCell = 50

// Block packs the leaf children of its root into a grid below the root.
// Children that have children of their own are not moved.
type Block struct {
	treeStyle
	width, height float64
}

func (b *Block) UpdateData() {
	b.update(b.computeOffsets)
}

func (b *Block) computeOffsets() {
	b.offsets = nil
	b.width, b.height = 0, 0
	if len(b.root.Children) == 0 {
		return
	}

	var leaves []*hierarchy.Node
	for _, c := range b.view.Children(b.root) {
		if !c.HasChildren() {
			leaves = append(leaves, c)
		}
	}

	b.width = math.Sqrt(float64(len(leaves))) * blockCell
	b.height = blockCell / 2
	// floor(sqrt(n)) columns: five leaves fill two columns and three rows.
	cols := int(math.Floor(b.width / blockCell))

	b.offsets = append(b.offsets, Offset{Node: b.root})
	for i, n := range leaves {
		row := i/cols + 1
		col := i % cols
		b.height = float64(row) * blockCell / 2
		b.offsets = append(b.offsets, Offset{
			Node: n,
			X:    -b.width/2 + blockCell/2 + float64(col)*blockCell,
			Y:    float64(row) * blockCell / 2,
		})
	}
	b.useTransition = true
}

// Columns returns the number of grid columns of the last computation.
func (b *Block) Columns() int {
	return int(math.Floor(b.width / blockCell))
}

// Size returns the grid extent.
func (b *Block) Size() (w, h float64) {
	return b.width * 1.1, b.height
}

// TranslateCoords places the grid relative to the root's current position.
// Grid members hide their link to the root.
func (b *Block) TranslateCoords() {
	if len(b.offsets) == 0 {
		return
	}
	text := &hierarchy.TextPlacement{DY: 4, Rotate: 45, Anchor: "start", RadiusRelative: true}
	for _, o := range b.offsets {
		b.setForce(o.Node, hierarchy.Force{
			FX:            b.root.X + o.X,
			FY:            b.root.Y + o.Y,
			UseTransition: b.useTransition,
			HideNodeLink:  o.Node != b.root,
			Text:          text,
		})
	}
	b.useTransition = false
	b.translated = true
}
