// Package nodelink draws a laid-out hierarchy as a node-link diagram.
//
// [ToDOT] writes Graphviz DOT with every visible node pinned to its
// resolved position (pos="x,y!"), so Graphviz only routes the edges. The
// line config picks the edge routing: straight lines, orthogonal elbows or
// curves, optionally dashed.
//
//	dot := nodelink.ToDOT(tree, doc.LineConfig, nodelink.Options{})
//	svg, err := nodelink.Render(ctx, dot, nodelink.FormatSVG)
//
// A [Renderer] caches rendered output by the hash of the DOT source.
//
// Rendering runs Graphviz in-process through [github.com/goccy/go-graphviz]
// with the neato engine.
package nodelink
