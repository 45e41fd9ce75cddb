package manager

import (
	"context"

	"github.com/matzehuels/nodevis/pkg/layout"
	"github.com/matzehuels/nodevis/pkg/observability"
)

// history holds serialized layout snapshots. offset counts the steps that
// were undone and can be redone.
type history struct {
	steps  []*layout.Layout
	offset int
}

// CreateUndoStep records a snapshot of the current layout. Steps that were
// undone are discarded.
func (m *Manager) CreateUndoStep(ctx context.Context) {
	h := &m.history
	h.steps = h.steps[:len(h.steps)-h.offset]
	h.offset = 0

	snap := m.Serialize()
	snap.OriginInfo = "Explicit set"
	snap.OriginType = layout.OriginExplicit
	h.steps = append(h.steps, snap)

	observability.Layout().OnUndoStep(ctx, len(h.steps))
	m.logger.Debug("undo step", "depth", len(h.steps))
}

// Undo restores the previous snapshot. It reports false at the start of the
// history.
func (m *Manager) Undo(ctx context.Context) bool { return m.moveInHistory(ctx, 1) }

// Redo restores the next snapshot. It reports false at the end of the
// history.
func (m *Manager) Redo(ctx context.Context) bool { return m.moveInHistory(ctx, -1) }

// CanUndo reports whether an older snapshot exists.
func (m *Manager) CanUndo() bool {
	return len(m.history.steps)-1-m.history.offset > 0
}

// CanRedo reports whether an undone snapshot exists.
func (m *Manager) CanRedo() bool { return m.history.offset > 0 }

// HistoryLen returns the number of snapshots.
func (m *Manager) HistoryLen() int { return len(m.history.steps) }

func (m *Manager) moveInHistory(ctx context.Context, dir int) bool {
	h := &m.history
	if len(h.steps) == 0 {
		return false
	}
	idx := len(h.steps) - 1 - h.offset - dir
	if idx < 0 || idx >= len(h.steps) {
		return false
	}
	h.offset += dir

	m.UpdateLayout(h.steps[idx].Clone())
	m.ApplyCurrentLayout(ctx, true)
	m.HideStyleConfiguration()
	return true
}
