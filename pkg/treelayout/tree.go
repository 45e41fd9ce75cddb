package treelayout

import (
	"math"

	"github.com/matzehuels/nodevis/pkg/hierarchy"
)

// Node is a node of a tree being laid out.
type Node struct {
	Ref      *hierarchy.Node
	Parent   *Node
	Children []*Node

	Width, Height float64 // box size, used by Flextree only

	X, Y float64
}

// FromView converts a filtered view into a layout tree. size returns the
// box of each node and may be nil when only Cluster is used.
func FromView(v *hierarchy.View, size func(n *hierarchy.Node) (w, h float64)) *Node {
	var build func(n *hierarchy.Node, parent *Node) *Node
	build = func(n *hierarchy.Node, parent *Node) *Node {
		out := &Node{Ref: n, Parent: parent}
		if size != nil {
			out.Width, out.Height = size(n)
		}
		for _, c := range v.Children(n) {
			out.Children = append(out.Children, build(c, out))
		}
		return out
	}
	return build(v.Root(), nil)
}

// Each calls fn for n and all its descendants in pre-order.
func (n *Node) Each(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Each(fn)
	}
}

// Index maps every hierarchy node of the tree to its layout node.
func (n *Node) Index() map[*hierarchy.Node]*Node {
	out := make(map[*hierarchy.Node]*Node)
	n.Each(func(m *Node) { out[m.Ref] = m })
	return out
}

// Levels returns the number of layers below n: 0 for a leaf.
func (n *Node) Levels() int {
	h := 0
	for _, c := range n.Children {
		h = max(h, c.Levels()+1)
	}
	return h
}

// =============================================================================
// Flextree
// =============================================================================

type box struct {
	left, right float64
	top, bottom float64
}

func (a box) overlapsVertically(b box) bool {
	return a.top < b.bottom && b.top < a.bottom
}

// Flextree places root and its descendants. Children sit one parent Height
// below their parent.
func Flextree(root *Node) {
	rel := make(map[*Node]float64)
	layoutBoxes(root, rel)
	root.X, root.Y = 0, 0
	var place func(n *Node)
	place = func(n *Node) {
		for _, c := range n.Children {
			c.X = n.X + rel[c]
			c.Y = n.Y + n.Height
			place(c)
		}
	}
	place(root)
}

// layoutBoxes returns the boxes of the subtree of n relative to n and
// records each child's horizontal offset from its parent in rel.
func layoutBoxes(n *Node, rel map[*Node]float64) []box {
	own := box{left: -n.Width / 2, right: n.Width / 2, top: 0, bottom: n.Height}
	if len(n.Children) == 0 {
		return []box{own}
	}

	var placed []box
	offsets := make([]float64, len(n.Children))
	subtrees := make([][]box, len(n.Children))
	for i, c := range n.Children {
		sub := layoutBoxes(c, rel)
		subtrees[i] = sub
		if i == 0 {
			placed = append(placed, sub...)
			continue
		}
		shift := offsets[i-1]
		for _, a := range placed {
			for _, b := range sub {
				if a.overlapsVertically(b) {
					shift = max(shift, a.right-b.left)
				}
			}
		}
		offsets[i] = shift
		for _, b := range sub {
			placed = append(placed, box{b.left + shift, b.right + shift, b.top, b.bottom})
		}
	}

	mid := (offsets[0] + offsets[len(offsets)-1]) / 2
	out := []box{own}
	for i, c := range n.Children {
		dx := offsets[i] - mid
		rel[c] = dx
		for _, b := range subtrees[i] {
			out = append(out, box{b.left + dx, b.right + dx, b.top + n.Height, b.bottom + n.Height})
		}
	}
	return out
}

// =============================================================================
// Cluster
// =============================================================================

func separation(a, b *Node) float64 {
	if a.Parent == b.Parent {
		return 1
	}
	return 2
}

// Cluster places all leaves of root on the outermost layer and fits the
// tree into breadth dx and depth dy. The root ends at Y = 0.
func Cluster(root *Node, dx, dy float64) {
	var prev *Node
	var x float64
	var post func(n *Node)
	post = func(n *Node) {
		for _, c := range n.Children {
			post(c)
		}
		if len(n.Children) > 0 {
			sum, deepest := 0.0, 0.0
			for _, c := range n.Children {
				sum += c.X
				deepest = math.Max(deepest, c.Y)
			}
			n.X = sum / float64(len(n.Children))
			n.Y = 1 + deepest
			return
		}
		if prev != nil {
			x += separation(n, prev)
		}
		n.X = x
		n.Y = 0
		prev = n
	}
	post(root)

	left, right := root, root
	for len(left.Children) > 0 {
		left = left.Children[0]
	}
	for len(right.Children) > 0 {
		right = right.Children[len(right.Children)-1]
	}
	x0 := left.X - separation(left, right)/2
	x1 := right.X + separation(right, left)/2
	rootY := root.Y

	root.Each(func(n *Node) {
		n.X = (n.X - x0) / (x1 - x0) * dx
		if rootY != 0 {
			n.Y = (1 - n.Y/rootY) * dy
		} else {
			n.Y = 0
		}
	})
}
