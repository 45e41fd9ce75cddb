// Package force runs the physics that places free-floating nodes.
//
// [Solver] is a velocity Verlet integrator in the style of d3-force: every
// tick applies a set of forces to the node velocities, damps them, and moves
// the nodes. The system cools down over time; once alpha drops below
// alphaMin the solver stops until it is restarted.
//
// [Simulation] adapts the solver to a hierarchy. It derives the force
// parameters of each node from the active force options, per-node-type
// overrides and the node's own explicit options, and notifies a [Listener]
// when the rendered positions should be refreshed.
//
// Forces:
//
//   - many-body repulsion (charge), limited to 800 px
//   - collision with per-node radii
//   - x/y centering toward the viewport center
//   - links between parents and children and extra links
package force
