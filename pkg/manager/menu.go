package manager

import (
	"context"

	"github.com/matzehuels/nodevis/pkg/errors"
	"github.com/matzehuels/nodevis/pkg/hierarchy"
	"github.com/matzehuels/nodevis/pkg/layout"
	"github.com/matzehuels/nodevis/pkg/style"
)

// MenuEntry is one item of a context menu.
type MenuEntry struct {
	Label    string
	Icon     string
	Action   func() error
	Children []MenuEntry
}

// ContextMenu returns the layout entries of the context menu for a node, or
// for the background when nodeID is empty.
func (m *Manager) ContextMenu(nodeID string) ([]MenuEntry, error) {
	var n *hierarchy.Node
	if nodeID != "" {
		var err error
		if n, err = m.dragNode(nodeID); err != nil {
			return nil, err
		}
	}

	convert := MenuEntry{Label: "Convert all nodes to"}
	if n != nil {
		convert.Label = "Convert to"
	}
	for _, v := range style.Variants() {
		if !v.Positional {
			continue
		}
		styleType := v.Type
		entry := MenuEntry{Label: v.Label}
		if n != nil {
			entry.Action = func() error { return m.ConvertNode(nodeID, styleType) }
		} else {
			entry.Action = func() error { return m.ConvertAll(styleType) }
		}
		convert.Children = append(convert.Children, entry)
	}
	if n == nil {
		convert.Children = append(convert.Children, MenuEntry{
			Label:  "Free-floating style",
			Action: func() error { return m.ConvertAll("") },
		})
	}

	entries := []MenuEntry{convert}
	if n != nil && m.StyleOf(n) != nil {
		entries = append(entries, MenuEntry{
			Label:  "Remove style",
			Icon:   "icon_aggr",
			Action: func() error { return m.ConvertNode(nodeID, "") },
		})
	}
	entries = append(entries, MenuEntry{
		Label: "Show force configuration",
		Action: func() error {
			m.ShowForceConfiguration()
			return nil
		},
	})
	return entries, nil
}

// ConvertNode gives a node a style of the given type, replacing its current
// one. An empty type removes the style. The new style is detached from its
// parent style.
func (m *Manager) ConvertNode(nodeID, styleType string) error {
	return m.convertNode(nodeID, styleType, true)
}

func (m *Manager) convertNode(nodeID, styleType string, record bool) error {
	n, err := m.dragNode(nodeID)
	if err != nil {
		return err
	}
	if styleType != "" && !style.Known(styleType) {
		return errors.New(errors.ErrCodeInvalidStyle, "unknown style type %q", styleType)
	}
	cur := m.StyleOf(n)
	if cur != nil && cur.Type() == styleType {
		return nil
	}
	if cur != nil {
		m.layout.RemoveStyle(cur.Config())
	}

	ctx := context.Background()
	var cfg *layout.StyleConfig
	if styleType != "" {
		cfg = &layout.StyleConfig{Type: styleType}
		if _, err := style.Instantiate(cfg, n, m); err != nil {
			return err
		}
		cfg.Options[style.OptDetach] = true
		m.layout.SaveStyle(cfg)
	}

	m.ApplyCurrentLayout(ctx, true)
	if cfg != nil {
		m.focused = style.ComputeID(styleType, n.ID)
		m.showingForce = false
	} else {
		m.HideStyleConfiguration()
	}
	if record {
		m.CreateUndoStep(ctx)
	}
	return nil
}

// ConvertAll replaces every style. Fixed pins each visible node; other
// types style only the root. An empty type leaves all nodes to the
// physics solver.
func (m *Manager) ConvertAll(styleType string) error {
	if styleType != "" && !style.Known(styleType) {
		return errors.New(errors.ErrCodeInvalidStyle, "unknown style type %q", styleType)
	}
	tree := m.world.Hierarchy()
	m.layout.ClearStyles()

	var targets []*hierarchy.Node
	switch styleType {
	case "":
	case style.TypeFixed:
		targets = tree.Nodes()
	default:
		targets = []*hierarchy.Node{tree.Root}
	}
	for _, n := range targets {
		cfg := &layout.StyleConfig{Type: styleType}
		if _, err := style.Instantiate(cfg, n, m); err != nil {
			return err
		}
		m.layout.SaveStyle(cfg)
	}

	ctx := context.Background()
	m.ApplyCurrentLayout(ctx, true)
	m.HideStyleConfiguration()
	m.CreateUndoStep(ctx)
	return nil
}
