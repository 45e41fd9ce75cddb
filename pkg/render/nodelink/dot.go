package nodelink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/nodevis/pkg/hierarchy"
	"github.com/matzehuels/nodevis/pkg/layout"
)

// Options configures DOT generation.
type Options struct {
	// Detailed adds the node type and owning style to labels.
	Detailed bool
}

// Splines returns the Graphviz splines value for a line style.
func Splines(s layout.LineStyle) string {
	switch s {
	case layout.LineElbow:
		return "ortho"
	case layout.LineRound:
		return "curved"
	default:
		return "line"
	}
}

// ToDOT converts the visible nodes of tree and their links to DOT. Node
// positions are taken as pixels; y is flipped because Graphviz points up.
func ToDOT(tree *hierarchy.Tree, line layout.LineConfig, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  notranslate=true;\n")
	fmt.Fprintf(&buf, "  splines=%s;\n", Splines(line.Style))
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=10, width=0.3, fixedsize=false];\n")
	if line.Dashed {
		buf.WriteString("  edge [style=dashed];\n")
	}
	buf.WriteString("\n")

	for _, n := range tree.Nodes() {
		attrs := []string{
			fmt.Sprintf("label=%q", label(n, opts.Detailed)),
			fmt.Sprintf("pos=\"%.2f,%.2f!\"", n.X, -n.Y),
		}
		if n.IsAggregator() || n.HasChildren() {
			attrs = append(attrs, "shape=box", "style=\"rounded,filled\"")
		}
		if _, _, fixed := n.Fixed(); fixed {
			attrs = append(attrs, "penwidth=2")
		}
		if n.Collapsed() {
			attrs = append(attrs, "fillcolor=lightgrey")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, l := range tree.Links() {
		fmt.Fprintf(&buf, "  %q -- %q;\n", l.Source.ID, l.Target.ID)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func label(n *hierarchy.Node, detailed bool) string {
	name := n.Name
	if name == "" {
		name = n.ID
	}
	if !detailed {
		return name
	}
	parts := []string{name}
	if n.Current.Type != "" {
		parts = append(parts, "by: "+n.Current.Type)
	}
	if n.UseStyle != "" {
		parts = append(parts, "style: "+n.UseStyle)
	}
	return strings.Join(parts, "\n")
}
