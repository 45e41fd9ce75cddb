// Package hierarchy provides the node tree consumed by the layout engine.
//
// A [Tree] owns every [Node] of one visualized hierarchy: a monitoring
// aggregation or a network topology. Nodes carry their backend data, their
// resolved coordinates and a [Positioning] map: the set of competing
// positioning authorities (layout styles, a drag in progress) that want to
// place the node.
//
// # Positioning
//
// Every authority writes a weighted [Force] record into the node's
// Positioning map under its own id. [ComputeNodePosition] picks the winner:
//
//	n.Positioning.Set("hierarchy_root", hierarchy.Force{Weight: 10, FX: 40, FY: 80})
//	n.Positioning.Set("drag", hierarchy.Force{Weight: 1000, FX: 300, FY: 90})
//	hierarchy.ComputeNodePosition(n) // n is pinned at (300, 90)
//
// A winner flagged Free hands the node to the physics solver: its fixed
// coordinates are cleared. Otherwise the fixed coordinates are clamped to
// ±[ViewportBoundary] and copied into X/Y.
//
// Ties on weight go to the most recently written authority. Set on an
// existing id moves that id to the end of the map's order.
//
// # Visible and Full Children
//
// Children holds the currently visible children; AllChildren always holds
// the complete list. Collapsing a node clears Children only, so a node is a
// structural leaf exactly when AllChildren is empty.
//
// # Filtered Views
//
// Layout styles operate on a pruned subtree. [Filter] builds a read-only
// [View] from a keep predicate instead of mutating the shared tree, so two
// views over overlapping subtrees never interfere.
//
// # Input
//
// Hierarchies are read from JSON or YAML documents:
//
//	hierarchy:
//	  id: root
//	  name: Datacenter
//	  children:
//	    - {id: web, hostname: web01}
//	    - {id: db, hostname: db01}
//	links:
//	  - {source: web, target: db}
//
// Use [ReadFile] (format chosen by extension) or [Read] with an explicit
// [Format].
package hierarchy
