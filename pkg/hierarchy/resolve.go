package hierarchy

// ViewportBoundary bounds resolved fixed coordinates in both directions.
const ViewportBoundary = 20000

// DefaultPositioning is the implicit authority every node starts with:
// weight 0, owned by the physics solver.
var DefaultPositioning = Force{
	Weight:        0,
	Type:          "force",
	Free:          true,
	UseTransition: true,
}

// ComputeNodePosition resolves the winning authority of n and applies it.
//
// The entry with the greatest weight wins; on equal weight the most recently
// written entry wins, and any entry beats [DefaultPositioning]. A node that
// has a style but no entries yet is left untouched.
func ComputeNodePosition(n *Node) {
	if n.UseStyle != "" && n.Positioning.Len() == 0 {
		return
	}

	best := DefaultPositioning
	n.Positioning.Each(func(_ string, f Force) {
		if f.Weight >= best.Weight {
			best = f
		}
	})

	n.Current = best
	if best.Free {
		n.Unpin()
		n.UseTransition = false
		return
	}
	n.Pin(clamp(best.FX), clamp(best.FY))
	n.UseTransition = best.UseTransition
}

// ComputeNodePositions applies [ComputeNodePosition] to every node in nodes.
func ComputeNodePositions(nodes []*Node) {
	for _, n := range nodes {
		ComputeNodePosition(n)
	}
}

func clamp(v float64) float64 {
	return max(-ViewportBoundary, min(ViewportBoundary, v))
}
