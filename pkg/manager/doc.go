// Package manager owns the layout styles of one visualization.
//
// A [Manager] binds the style configs of a layout document to the nodes of
// a hierarchy, keeps the set of active styles in sync with the document, and
// feeds the result to the force simulation. All user interactions go
// through it:
//
//   - applying and reapplying a layout ([Manager.ApplyCurrentLayout])
//   - editing style options ([Manager.ChangedOptions])
//   - dragging nodes and style handles
//   - converting nodes between styles and the context menu
//   - undo and redo ([Manager.Undo], [Manager.Redo])
//
// The manager is single threaded. Interactions and simulation ticks must not
// run concurrently; callers that drive the simulation from a goroutine must
// serialize access themselves.
package manager
