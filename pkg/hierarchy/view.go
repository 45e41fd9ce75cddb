package hierarchy

// View is a read-only pruned traversal of a subtree.
type View struct {
	root     *Node
	nodes    []*Node
	children map[*Node][]*Node
	maxDepth int
}

// Filter walks the visible subtree of root breadth-first. For every node
// below root, keep decides whether the node is part of the view and whether
// the walk continues into its children. root itself is always included and
// always descended into.
func Filter(root *Node, keep func(n *Node) (include, descend bool)) *View {
	v := &View{
		root:     root,
		children: make(map[*Node][]*Node),
		maxDepth: root.Depth,
	}
	v.nodes = append(v.nodes, root)
	queue := []*Node{root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, c := range n.Children {
			include, descend := keep(c)
			if !include {
				continue
			}
			v.nodes = append(v.nodes, c)
			v.children[n] = append(v.children[n], c)
			v.maxDepth = max(v.maxDepth, c.Depth)
			if descend {
				queue = append(queue, c)
			}
		}
	}
	return v
}

// Root returns the node the view was built from.
func (v *View) Root() *Node { return v.root }

// Nodes returns the nodes of the view in breadth-first order.
func (v *View) Nodes() []*Node { return v.nodes }

// Len returns the number of nodes in the view.
func (v *View) Len() int { return len(v.nodes) }

// Children returns the children of n inside the view.
func (v *View) Children(n *Node) []*Node { return v.children[n] }

// IsLeaf reports whether n has no children inside the view.
func (v *View) IsLeaf(n *Node) bool { return len(v.children[n]) == 0 }

// MaxDepth returns the greatest absolute depth of any node in the view.
func (v *View) MaxDepth() int { return v.maxDepth }

// Contains reports whether n is part of the view.
func (v *View) Contains(n *Node) bool {
	for _, m := range v.nodes {
		if m == n {
			return true
		}
	}
	return false
}
