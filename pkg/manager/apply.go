package manager

import (
	"context"
	"sort"
	"time"

	"github.com/matzehuels/nodevis/pkg/hierarchy"
	"github.com/matzehuels/nodevis/pkg/layout"
	"github.com/matzehuels/nodevis/pkg/matcher"
	"github.com/matzehuels/nodevis/pkg/observability"
	"github.com/matzehuels/nodevis/pkg/style"
)

// binding pairs a style config with the node it applies to.
type binding struct {
	node *hierarchy.Node
	cfg  *layout.StyleConfig
}

// UpdateLayout replaces the working layout with a copy of doc. A missing
// force config is filled from the defaults. An empty document without an
// origin is replaced by the default template.
func (m *Manager) UpdateLayout(doc *layout.Layout) {
	if doc == nil {
		doc = layout.New()
	}
	if doc.OriginType == "" && len(doc.StyleConfigs) == 0 && len(doc.DelayedStyleConfigs) == 0 {
		tmpl := layout.FromTemplate(m.opts.DefaultTemplate, m.opts.DefaultNodeStyle, style.Known)
		tmpl.LineConfig = doc.LineConfig
		tmpl.ForceConfig = doc.ForceConfig
		doc = tmpl
	}
	m.layout = layout.Deserialize(doc, m.opts.ForceDefaults)
	m.logger.Debug("layout updated", "origin", m.layout.OriginType, "styles", len(m.layout.StyleConfigs))
}

// ApplyCurrentLayout binds the layout's style configs to the hierarchy,
// syncs the active styles and hands the node set to the simulation. With
// restart set the simulation is reheated. The first apply records the
// starting point of the undo history.
func (m *Manager) ApplyCurrentLayout(ctx context.Context, restart bool) {
	tree := m.world.Hierarchy()
	if tree == nil {
		return
	}
	start := time.Now()
	observability.Layout().OnApplyStart(ctx, len(tree.Nodes()))

	m.applyTemplate(tree)

	bindings := m.bind(tree)
	bindings = append(m.boxedStyles(tree, bindings), bindings...)

	m.sim.SetForceOptions(m.layout.ForceConfig)
	m.updateNodeSpecificStyles(ctx, tree, bindings)

	if restart {
		m.sim.RestartWithAlpha(applyAlpha)
	}
	m.render()
	if len(m.history.steps) == 0 {
		m.CreateUndoStep(ctx)
	}
	observability.Layout().OnApplyComplete(ctx, len(m.active), time.Since(start))
	m.logger.Debug("layout applied", "styles", len(m.active), "duration", time.Since(start))
}

// applyTemplate turns a default template into a single style at the root.
// The layout is explicit afterwards so later edits are not reset.
func (m *Manager) applyTemplate(tree *hierarchy.Tree) {
	if m.layout.OriginType != layout.OriginDefaultTemplate {
		return
	}
	cfg := &layout.StyleConfig{Type: m.layout.DefaultID, Position: &layout.Position{X: 50, Y: 50}}
	if _, err := style.Instantiate(cfg, tree.Root, m); err != nil {
		m.logger.Warn("default template", "style", m.layout.DefaultID, "err", err)
		return
	}
	m.layout.ClearStyles()
	m.layout.SaveStyle(cfg)
	m.layout.OriginType = layout.OriginExplicit
}

// bind resolves the layout's configs to live nodes, shallowest first.
// Configs whose node no longer exists are dropped.
func (m *Manager) bind(tree *hierarchy.Tree) []binding {
	var out []binding
	for _, cfg := range m.layout.StyleConfigs {
		n := matcher.FindNode(tree, cfg.Matcher)
		if n == nil {
			m.logger.Debug("style config matches no node", "type", cfg.Type)
			continue
		}
		out = append(out, binding{node: n, cfg: cfg})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].node.Depth < out[j].node.Depth
	})
	return out
}

// boxedStyles returns block bindings for nodes whose children are all
// leaves, below styles that ask for boxed leaves. Deeper styles override
// the setting of their ancestors.
func (m *Manager) boxedStyles(tree *hierarchy.Tree, bindings []binding) []binding {
	box := map[*hierarchy.Node]bool{}
	for _, b := range bindings {
		v := b.cfg.Options.Bool(style.OptBoxLeafNodes, false)
		for _, n := range b.node.Descendants() {
			box[n] = v
		}
	}

	var out []binding
	for _, n := range tree.Nodes() {
		if !box[n] || !n.HasChildren() || n.LeafCount() != len(n.AllChildren) {
			continue
		}
		leavesOnly := true
		for _, c := range n.AllChildren {
			if c.HasChildren() {
				leavesOnly = false
				break
			}
		}
		if leavesOnly {
			out = append(out, binding{node: n, cfg: &layout.StyleConfig{Type: style.TypeBlock, Options: layout.Options{}}})
		}
	}
	return out
}

// updateNodeSpecificStyles syncs the active styles with bindings. Each node
// keeps at most one style; the first binding for a node wins.
func (m *Manager) updateNodeSpecificStyles(ctx context.Context, tree *hierarchy.Tree, bindings []binding) {
	seen := map[*hierarchy.Node]bool{}
	wanted := map[string]bool{}
	var unique []binding
	for _, b := range bindings {
		if seen[b.node] {
			continue
		}
		seen[b.node] = true
		wanted[style.ComputeID(b.cfg.Type, b.node.ID)] = true
		unique = append(unique, b)
	}

	for _, s := range m.ActiveStyles() {
		if !wanted[s.ID()] || tree.Node(s.Root().ID) != s.Root() {
			m.removeActiveStyle(ctx, s)
		}
	}

	size := m.world.ViewportSize()
	for _, b := range unique {
		id := style.ComputeID(b.cfg.Type, b.node.ID)
		s, ok := m.active[id]
		if ok {
			s.Rebind(b.cfg)
		} else {
			if cur := m.StyleOf(b.node); cur != nil {
				m.removeActiveStyle(ctx, cur)
			}
			var err error
			s, err = style.Instantiate(b.cfg, b.node, m)
			if err != nil {
				m.logger.Warn("skip style", "type", b.cfg.Type, "node", b.node.ID, "err", err)
				continue
			}
			m.active[id] = s
			observability.Layout().OnStyleInstantiated(ctx, id)
		}
		b.node.UseStyle = id
		s.UpdateData()
		s.TranslateCoords()
		if s.Type() != style.TypeForce && b.cfg.Position != nil {
			b.node.Pin(b.cfg.Position.Absolute(size))
		}
	}

	m.sim.UpdateNodesAndLinks(tree.Nodes(), tree.Links())
	m.updateData()
}

// removeActiveStyle releases s and lets its root fall back to the next
// authority.
func (m *Manager) removeActiveStyle(ctx context.Context, s style.Style) {
	delete(m.active, s.ID())
	s.Remove()
	root := s.Root()
	if root.UseStyle == s.ID() {
		root.UseStyle = ""
	}
	hierarchy.ComputeNodePosition(root)
	if m.focused == s.ID() {
		m.focused = ""
	}
	observability.Layout().OnStyleRemoved(ctx, s.ID())
}

// updateData recomputes every style, deepest first so parents see the
// final size of nested styles, then places all nodes.
func (m *Manager) updateData() {
	styles := m.ActiveStyles()
	for i := len(styles) - 1; i >= 0; i-- {
		styles[i].UpdateData()
	}
	m.translateLayout()
	hierarchy.ComputeNodePositions(m.world.Hierarchy().Nodes())
}

// translateLayout turns the offsets of all styles into positioning entries.
func (m *Manager) translateLayout() {
	for _, s := range m.ActiveStyles() {
		s.TranslateCoords()
	}
}
