package manager

import (
	"context"

	"github.com/matzehuels/nodevis/pkg/errors"
	"github.com/matzehuels/nodevis/pkg/hierarchy"
	"github.com/matzehuels/nodevis/pkg/layout"
	"github.com/matzehuels/nodevis/pkg/style"
)

// Drag authority weights: a styled root beats every style, an unstyled node
// still beats fixed.
const (
	dragWeightStyled   = 1000
	dragWeightUnstyled = 500
)

type nodeDrag struct {
	node           *hierarchy.Node
	startX, startY float64
	deltaX, deltaY float64
}

type handleDrag struct {
	style  style.Style
	handle style.Handle
	lastX  float64
	lastY  float64
}

func (m *Manager) dragNode(id string) (*hierarchy.Node, error) {
	n := m.world.Hierarchy().Node(id)
	if n == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "no node %q", id)
	}
	return n, nil
}

// DragStart begins dragging a node. A node without a style is converted to
// the drag style first; the undo step for that is recorded by [DragEnd].
// Outside edit mode this is a no-op.
func (m *Manager) DragStart(id string) error {
	if !m.editing {
		return nil
	}
	n, err := m.dragNode(id)
	if err != nil {
		return err
	}
	m.drag = &nodeDrag{node: n, startX: n.X, startY: n.Y}

	weight := float64(dragWeightUnstyled)
	if m.StyleOf(n) != nil {
		weight = dragWeightStyled
	}
	n.Positioning.Set(hierarchy.DragAuthority, hierarchy.Force{
		Weight: weight,
		Type:   hierarchy.DragAuthority,
		FX:     n.X,
		FY:     n.Y,
	})

	if s := m.StyleOf(n); s != nil {
		m.focused = s.ID()
		m.showingForce = false
	} else if err := m.convertNode(id, m.opts.DragStyle, false); err != nil {
		return err
	}
	return nil
}

// DragMove moves the dragged node by a pointer delta in screen pixels. The
// first move of a styled node detaches its style from the parent style.
func (m *Manager) DragMove(dx, dy float64) {
	if m.drag == nil {
		return
	}
	d := m.drag
	n := d.node
	s := m.StyleOf(n)
	if s != nil {
		opts := s.Config().Options
		if !opts.Bool(style.OptDetach, false) {
			opts[style.OptDetach] = true
		}
	}

	zoom := m.world.Zoom()
	if zoom <= 0 {
		zoom = 1
	}
	d.deltaX += dx / zoom
	d.deltaY += dy / zoom

	entry, _ := n.Positioning.Get(hierarchy.DragAuthority)
	entry.FX = d.startX + d.deltaX
	entry.FY = d.startY + d.deltaY
	n.Positioning.Set(hierarchy.DragAuthority, entry)

	m.sim.RestartWithAlpha(changeAlpha)
	if s != nil {
		s.ForceTranslation()
		s.TranslateCoords()
	}
	hierarchy.ComputeNodePosition(n)
	m.updateData()
	m.render()
}

// DragEnd finishes a node drag. The final position of a styled node is
// stored in its config and an undo step is recorded.
func (m *Manager) DragEnd() {
	if m.drag == nil {
		return
	}
	n := m.drag.node
	m.drag = nil

	if s := m.StyleOf(n); s != nil {
		p := layout.ViewportPercentage(n.X, n.Y, m.world.ViewportSize())
		s.Config().Position = &p
		s.ForceTranslation()
		if s.Type() == m.opts.DragStyle {
			s.FixNode(n)
		}
	}
	n.Positioning.Delete(hierarchy.DragAuthority)
	m.translateLayout()
	hierarchy.ComputeNodePosition(n)
	m.render()
	m.CreateUndoStep(context.Background())
}

// Dragging reports whether a node drag is in progress.
func (m *Manager) Dragging() bool { return m.drag != nil || m.handleDrag != nil }

// =============================================================================
// Style handles
// =============================================================================

// HandleDragStart begins dragging an overlay handle of a style at pointer
// position (x, y).
func (m *Manager) HandleDragStart(styleID string, h style.Handle, x, y float64) error {
	if !m.editing {
		return nil
	}
	s, err := m.Style(styleID)
	if err != nil {
		return err
	}
	hd, ok := s.(style.HandleDragger)
	if !ok || !hasHandle(hd.Handles(), h) {
		return errors.New(errors.ErrCodeInvalidInput, "style %q has no %s handle", styleID, h)
	}
	hd.StartHandleDrag(x, y)
	m.handleDrag = &handleDrag{style: s, handle: h, lastX: x, lastY: y}
	m.focused = styleID
	m.showingForce = false
	return nil
}

// HandleDrag moves the active handle to pointer position (x, y).
func (m *Manager) HandleDrag(x, y float64) {
	hd := m.handleDrag
	if hd == nil {
		return
	}
	dx, dy := x-hd.lastX, y-hd.lastY
	hd.lastX, hd.lastY = x, y
	hd.style.(style.HandleDragger).DragHandle(hd.handle, x, y, dx, dy)
	m.changedOptions(hd.style)
}

// HandleDragEnd finishes a handle drag and records an undo step.
func (m *Manager) HandleDragEnd() {
	if m.handleDrag == nil {
		return
	}
	m.handleDrag = nil
	m.CreateUndoStep(context.Background())
}

func hasHandle(hs []style.Handle, h style.Handle) bool {
	for _, x := range hs {
		if x == h {
			return true
		}
	}
	return false
}
