package hierarchy

import (
	"github.com/matzehuels/nodevis/pkg/errors"
)

// RawNode is the serialized form of a node and its subtree.
type RawNode struct {
	Data     `yaml:",inline"`
	Children []RawNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// RawLink is an extra, non-hierarchical link between two node ids.
type RawLink struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
}

// Link connects two visible nodes.
type Link struct {
	Source *Node
	Target *Node
}

// Placement is the resolved position of one node, suitable for output.
type Placement struct {
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Fixed bool    `json:"fixed"`
	Type  string  `json:"type"`
	Style string  `json:"style,omitempty"`
}

// Tree owns the nodes of one hierarchy.
type Tree struct {
	Root  *Node
	byID  map[string]*Node
	links []RawLink
}

// Build creates a tree from its serialized form. Node ids must be non-empty
// and unique; links must reference existing ids.
func Build(root RawNode, links []RawLink) (*Tree, error) {
	t := &Tree{byID: make(map[string]*Node)}
	r, err := t.build(root, nil, 0)
	if err != nil {
		return nil, err
	}
	t.Root = r
	for _, l := range links {
		if _, ok := t.byID[l.Source]; !ok {
			return nil, errors.New(errors.ErrCodeInvalidHierarchy, "link source %q not found", l.Source)
		}
		if _, ok := t.byID[l.Target]; !ok {
			return nil, errors.New(errors.ErrCodeInvalidHierarchy, "link target %q not found", l.Target)
		}
	}
	t.links = append([]RawLink(nil), links...)
	return t, nil
}

func (t *Tree) build(raw RawNode, parent *Node, depth int) (*Node, error) {
	if raw.ID == "" {
		return nil, errors.New(errors.ErrCodeInvalidHierarchy, "node at depth %d has no id", depth)
	}
	if _, dup := t.byID[raw.ID]; dup {
		return nil, errors.New(errors.ErrCodeInvalidHierarchy, "duplicate node id %q", raw.ID)
	}
	n := &Node{Data: raw.Data, Parent: parent, Depth: depth}
	t.byID[raw.ID] = n
	for _, rc := range raw.Children {
		c, err := t.build(rc, n, depth+1)
		if err != nil {
			return nil, err
		}
		n.AllChildren = append(n.AllChildren, c)
	}
	if len(n.AllChildren) > 0 {
		n.Children = append([]*Node(nil), n.AllChildren...)
	}
	return n, nil
}

// Node returns the node with the given id, or nil.
func (t *Tree) Node(id string) *Node {
	return t.byID[id]
}

// Nodes returns all visible nodes in breadth-first order.
func (t *Tree) Nodes() []*Node {
	return t.Root.Descendants()
}

// AllNodes returns every node, including those below collapsed nodes.
func (t *Tree) AllNodes() []*Node {
	out := []*Node{t.Root}
	for i := 0; i < len(out); i++ {
		out = append(out, out[i].AllChildren...)
	}
	return out
}

// Links returns the parent-child links between visible nodes followed by
// the extra links whose endpoints are both visible.
func (t *Tree) Links() []Link {
	visible := make(map[*Node]bool)
	var out []Link
	for _, n := range t.Nodes() {
		visible[n] = true
		for _, c := range n.Children {
			out = append(out, Link{Source: n, Target: c})
		}
	}
	for _, l := range t.links {
		s, d := t.byID[l.Source], t.byID[l.Target]
		if visible[s] && visible[d] {
			out = append(out, Link{Source: s, Target: d})
		}
	}
	return out
}

// Collapse hides the children of the node with the given id.
func (t *Tree) Collapse(id string) error {
	n := t.byID[id]
	if n == nil {
		return errors.New(errors.ErrCodeNotFound, "node %q not found", id)
	}
	n.Children = nil
	return nil
}

// Expand restores the children of the node with the given id.
func (t *Tree) Expand(id string) error {
	n := t.byID[id]
	if n == nil {
		return errors.New(errors.ErrCodeNotFound, "node %q not found", id)
	}
	if len(n.AllChildren) > 0 {
		n.Children = append([]*Node(nil), n.AllChildren...)
	}
	return nil
}

// Placements returns the resolved positions of all visible nodes.
func (t *Tree) Placements() []Placement {
	nodes := t.Nodes()
	out := make([]Placement, 0, len(nodes))
	for _, n := range nodes {
		_, _, fixed := n.Fixed()
		out = append(out, Placement{
			ID:    n.ID,
			X:     n.X,
			Y:     n.Y,
			Fixed: fixed,
			Type:  n.Current.Type,
			Style: n.UseStyle,
		})
	}
	return out
}
