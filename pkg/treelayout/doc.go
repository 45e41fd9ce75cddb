// Package treelayout implements the tree placement algorithms used by the
// hierarchical layout styles.
//
// [Flextree] places a tree whose nodes have individual sizes: every node is
// a box of Width (breadth) by Height (distance to its children's layer).
// Sibling subtrees are packed as tightly as their boxes allow and every
// parent is centered over its first and last child, so a nested structure of
// any size fits without overlapping its neighbours.
//
// [Cluster] produces a dendrogram: all leaves on one layer, spread evenly
// along the breadth axis, with siblings of different parents kept twice as
// far apart. The radial layout style maps its output to polar coordinates.
//
// Both functions write X (breadth) and Y (depth) into the nodes in place.
// The root ends at X = 0, Y = 0 for Flextree and at the origin of the
// requested extent for Cluster.
package treelayout
