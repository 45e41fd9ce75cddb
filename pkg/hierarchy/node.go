package hierarchy

// Node types with dedicated matcher and force handling.
const (
	TypeAggregator = "bi_aggregator"
	TypeLeaf       = "bi_leaf"
)

// Data is the backend information attached to a node.
type Data struct {
	ID           string   `json:"id" yaml:"id"`
	Name         string   `json:"name,omitempty" yaml:"name,omitempty"`
	Hostname     string   `json:"hostname,omitempty" yaml:"hostname,omitempty"`
	Service      string   `json:"service,omitempty" yaml:"service,omitempty"`
	NodeType     string   `json:"node_type,omitempty" yaml:"node_type,omitempty"`
	RuleID       string   `json:"rule_id,omitempty" yaml:"rule_id,omitempty"`
	AggrPathID   []string `json:"aggr_path_id,omitempty" yaml:"aggr_path_id,omitempty"`
	AggrPathName []string `json:"aggr_path_name,omitempty" yaml:"aggr_path_name,omitempty"`

	// ExplicitForceOptions overrides force parameters for this node only.
	// Recognized keys: repulsion, center_force, link_distance.
	ExplicitForceOptions map[string]float64 `json:"explicit_force_options,omitempty" yaml:"explicit_force_options,omitempty"`

	// CollisionForce overrides the collision radius.
	CollisionForce *float64 `json:"collision_force,omitempty" yaml:"collision_force,omitempty"`
}

// Node is one element of a [Tree].
type Node struct {
	Data

	Parent      *Node
	Children    []*Node // visible children, nil when collapsed
	AllChildren []*Node // full child list
	Depth       int

	X, Y   float64
	VX, VY float64
	FX, FY *float64 // nil leaves the node to the physics solver

	Positioning Positioning
	Current     Force // winner of the last ComputeNodePosition

	// UseStyle is the id of the style rooted at this node, or "".
	UseStyle      string
	UseTransition bool
}

// IsRoot reports whether n has no parent.
func (n *Node) IsRoot() bool {
	return n.Parent == nil
}

// IsAggregator reports whether n is a BI aggregator node.
func (n *Node) IsAggregator() bool {
	return n.NodeType == TypeAggregator
}

// HasChildren reports whether n has children, visible or collapsed.
func (n *Node) HasChildren() bool {
	return len(n.AllChildren) > 0
}

// Collapsed reports whether n hides its children.
func (n *Node) Collapsed() bool {
	return n.HasChildren() && n.Children == nil
}

// Ancestors returns n followed by its parent chain up to the root.
func (n *Node) Ancestors() []*Node {
	var out []*Node
	for cur := n; cur != nil; cur = cur.Parent {
		out = append(out, cur)
	}
	return out
}

// Descendants returns n and all visible nodes below it in breadth-first order.
func (n *Node) Descendants() []*Node {
	out := []*Node{n}
	for i := 0; i < len(out); i++ {
		out = append(out, out[i].Children...)
	}
	return out
}

// LeafCount returns the number of visible leaves below n, counting n itself
// when it has no visible children.
func (n *Node) LeafCount() int {
	if len(n.Children) == 0 {
		return 1
	}
	total := 0
	for _, c := range n.Children {
		total += c.LeafCount()
	}
	return total
}

// Fixed reports the fixed coordinates of n, if any.
func (n *Node) Fixed() (x, y float64, ok bool) {
	if n.FX == nil || n.FY == nil {
		return 0, 0, false
	}
	return *n.FX, *n.FY, true
}

// Pin fixes n at (x, y) and moves it there.
func (n *Node) Pin(x, y float64) {
	n.FX, n.FY = &x, &y
	n.X, n.Y = x, y
}

// Unpin clears the fixed coordinates of n.
func (n *Node) Unpin() {
	n.FX, n.FY = nil, nil
}
