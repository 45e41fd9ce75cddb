package manager

import (
	"context"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nodevis/pkg/errors"
	"github.com/matzehuels/nodevis/pkg/force"
	"github.com/matzehuels/nodevis/pkg/hierarchy"
	"github.com/matzehuels/nodevis/pkg/layout"
	"github.com/matzehuels/nodevis/pkg/style"
)

// Defaults for [Options].
const (
	DefaultTemplate  = "builtin_default"
	DefaultNodeStyle = "builtin_hierarchy"
)

// Simulation restart temperatures.
const (
	applyAlpha  = 2
	changeAlpha = 0.5
)

// Persister stores layout documents.
type Persister interface {
	Save(ctx context.Context, id string, l *layout.Layout) error
	Delete(ctx context.Context, id string) error
}

// Options configures a [Manager].
type Options struct {
	// Simulation receives the node set and the force options. A new
	// simulation sized to the viewport is created when nil.
	Simulation *force.Simulation

	// DragStyle is the style a node without one is converted to when it is
	// dragged. Default: fixed.
	DragStyle string

	// DefaultTemplate replaces an empty layout document.
	DefaultTemplate string
	// DefaultNodeStyle is the template builtin_default stands for.
	DefaultNodeStyle string

	// ForceDefaults is used when a layout has no force config.
	ForceDefaults layout.ForceOptions

	Persister Persister
	Logger    *log.Logger
}

// Configuration is what an options panel shows for one style, or for the
// layout force config when StyleID is empty.
type Configuration struct {
	StyleID string
	Label   string
	Specs   []layout.OptionSpec
	Options layout.Options
}

// Manager applies layouts to the hierarchy of a [World].
type Manager struct {
	world  World
	sim    *force.Simulation
	opts   Options
	logger *log.Logger

	layout *layout.Layout
	active map[string]style.Style

	history history
	editing bool

	// focused is the id of the style shown in the panel.
	focused      string
	showingForce bool

	drag       *nodeDrag
	handleDrag *handleDrag
}

// New returns a manager with an empty layout. Call [Manager.UpdateLayout]
// and [Manager.ApplyCurrentLayout] to show something.
func New(world World, opts Options) *Manager {
	if opts.DragStyle == "" {
		opts.DragStyle = style.TypeFixed
	}
	if opts.DefaultTemplate == "" {
		opts.DefaultTemplate = DefaultTemplate
	}
	if opts.DefaultNodeStyle == "" {
		opts.DefaultNodeStyle = DefaultNodeStyle
	}
	if opts.ForceDefaults == nil {
		opts.ForceDefaults = layout.DefaultForceOptions()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	sim := opts.Simulation
	if sim == nil {
		sim = force.NewSimulation(force.Options{Viewport: world.ViewportSize(), Logger: logger})
	}

	m := &Manager{
		world:  world,
		sim:    sim,
		opts:   opts,
		logger: logger,
		layout: layout.Deserialize(layout.New(), opts.ForceDefaults),
		active: map[string]style.Style{},
	}
	sim.SetListener(m)
	sim.SetOptionsResolver(m.forceOptionsFor)
	return m
}

// Simulation returns the simulation the manager drives.
func (m *Manager) Simulation() *force.Simulation { return m.sim }

// =============================================================================
// style.Env
// =============================================================================

// StyleOf returns the active style rooted at n, or nil.
func (m *Manager) StyleOf(n *hierarchy.Node) style.Style {
	if n == nil || n.UseStyle == "" {
		return nil
	}
	s, ok := m.active[n.UseStyle]
	if !ok || s.Root() != n {
		return nil
	}
	return s
}

func (m *Manager) ViewportSize() layout.Size { return m.world.ViewportSize() }

func (m *Manager) RefreshForces() { m.sim.SetupForces() }

// =============================================================================
// Edit mode
// =============================================================================

// ShowLayoutOptions enters edit mode. Nodes can be dragged.
func (m *Manager) ShowLayoutOptions() {
	m.editing = true
	m.logger.Debug("layout edit mode on")
}

// HideLayoutOptions leaves edit mode and closes any configuration panel. A
// drag in progress is finished first.
func (m *Manager) HideLayoutOptions() {
	m.DragEnd()
	m.HandleDragEnd()
	m.editing = false
	m.focused = ""
	m.showingForce = false
	m.drag = nil
	m.handleDrag = nil
	m.logger.Debug("layout edit mode off")
}

// Editing reports whether edit mode is on.
func (m *Manager) Editing() bool { return m.editing }

// =============================================================================
// Accessors
// =============================================================================

// Layout returns the working layout document. It is live: changes made by
// the manager show up in it.
func (m *Manager) Layout() *layout.Layout { return m.layout }

// Serialize returns a snapshot of the layout stamped with the viewport size.
func (m *Manager) Serialize() *layout.Layout {
	return layout.Serialize(m.layout, m.world.ViewportSize())
}

// ActiveStyles returns the active styles ordered by root depth, then id.
func (m *Manager) ActiveStyles() []style.Style {
	out := make([]style.Style, 0, len(m.active))
	for _, s := range m.active {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := out[i].Root().Depth, out[j].Root().Depth
		if di != dj {
			return di < dj
		}
		return out[i].ID() < out[j].ID()
	})
	return out
}

// Style returns the active style with the given id.
func (m *Manager) Style(id string) (style.Style, error) {
	s, ok := m.active[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "no active style %q", id)
	}
	return s, nil
}

// Selection returns the rendered state of a node. It fails if the node has
// not been rendered yet.
func (m *Manager) Selection(id string) (Selection, error) {
	sel, ok := m.world.Selection(id)
	if !ok {
		return Selection{}, errors.New(errors.ErrCodeNoSelection, "node %q has not been rendered", id)
	}
	return sel, nil
}

// Save validates the serialized layout and hands it to the persister. A
// failed save leaves the working layout untouched.
func (m *Manager) Save(ctx context.Context, id string) error {
	if m.opts.Persister == nil {
		return errors.New(errors.ErrCodeUnsupported, "no layout persister configured")
	}
	doc := m.Serialize()
	if err := layout.Validate(doc); err != nil {
		return err
	}
	if err := m.opts.Persister.Save(ctx, id, doc); err != nil {
		m.logger.Error("save layout", "id", id, "err", err)
		return err
	}
	return nil
}

// Delete removes a persisted layout.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if m.opts.Persister == nil {
		return errors.New(errors.ErrCodeUnsupported, "no layout persister configured")
	}
	if err := m.opts.Persister.Delete(ctx, id); err != nil {
		m.logger.Error("delete layout", "id", id, "err", err)
		return err
	}
	return nil
}

// =============================================================================
// Configuration panel
// =============================================================================

// ShowStyleConfiguration focuses a style and returns its configuration.
func (m *Manager) ShowStyleConfiguration(id string) (Configuration, error) {
	s, err := m.Style(id)
	if err != nil {
		return Configuration{}, err
	}
	m.focused = id
	m.showingForce = false
	return configurationOf(s), nil
}

// ShowForceConfiguration focuses the layout force config.
func (m *Manager) ShowForceConfiguration() Configuration {
	m.focused = ""
	m.showingForce = true
	return Configuration{
		Label:   "Force configuration",
		Specs:   layout.ForceOptionSpecs(),
		Options: m.layout.ForceConfig.Options(),
	}
}

// HideStyleConfiguration closes the configuration panel.
func (m *Manager) HideStyleConfiguration() {
	m.focused = ""
	m.showingForce = false
}

// Focused returns the configuration shown in the panel, if any.
func (m *Manager) Focused() (Configuration, bool) {
	if m.showingForce {
		return m.ShowForceConfiguration(), true
	}
	s, ok := m.active[m.focused]
	if !ok {
		return Configuration{}, false
	}
	return configurationOf(s), true
}

func configurationOf(s style.Style) Configuration {
	v, _ := style.Lookup(s.Type())
	return Configuration{
		StyleID: s.ID(),
		Label:   v.Label,
		Specs:   s.OptionSpecs(),
		Options: s.Config().Options.Clone(),
	}
}

// ChangedOptions merges opts into the options of a style, clamped to their
// ranges, and re-places the style's subtree. Changing whether leaves are
// boxed or the style is detached reapplies the whole layout.
func (m *Manager) ChangedOptions(id string, opts layout.Options) error {
	s, err := m.Style(id)
	if err != nil {
		return err
	}
	cfg := s.Config()
	reapply := false
	for _, key := range []string{style.OptBoxLeafNodes, style.OptDetach} {
		if v, ok := opts[key]; ok && v != cfg.Options[key] {
			reapply = true
		}
	}
	merged := cfg.Options.Clone()
	for k, v := range opts {
		merged[k] = v
	}
	cfg.Options = style.ClampOptions(s.Type(), merged)

	if reapply {
		m.logger.Debug("changed option forced reapply", "style", id)
		m.ApplyCurrentLayout(context.Background(), false)
	}
	m.changedOptions(s)
	return nil
}

// ResetOptions restores the default options of a style.
func (m *Manager) ResetOptions(id string) error {
	s, err := m.Style(id)
	if err != nil {
		return err
	}
	s.ResetOptions()
	m.changedOptions(s)
	return nil
}

// changedOptions re-places the subtree of s without transitions.
func (m *Manager) changedOptions(s style.Style) {
	s.ForceTranslation()
	m.updateData()
	for _, n := range s.Root().Descendants() {
		n.UseTransition = false
	}
	m.sim.RestartWithAlpha(changeAlpha)
	m.render()
}

// ChangedForceOptions merges opts into the layout force config.
func (m *Manager) ChangedForceOptions(opts layout.ForceOptions) {
	if m.layout.ForceConfig == nil {
		m.layout.ForceConfig = layout.ForceOptions{}
	}
	specs := layout.ForceOptionSpecs()
	for k, v := range opts {
		for _, spec := range specs {
			if spec.ID == k {
				v = spec.Clamp(v)
			}
		}
		m.layout.ForceConfig[k] = v
	}
	m.sim.SetForceOptions(m.layout.ForceConfig)
	m.sim.RestartWithAlpha(changeAlpha)
}

// ChangeLineStyle updates how links are drawn.
func (m *Manager) ChangeLineStyle(lc layout.LineConfig) error {
	switch lc.Style {
	case layout.LineStraight, layout.LineElbow, layout.LineRound:
	default:
		return errors.New(errors.ErrCodeInvalidOption, "unknown line style %q", lc.Style)
	}
	m.layout.LineConfig = lc
	m.render()
	return nil
}

// =============================================================================
// force.Listener
// =============================================================================

// Update runs after simulation ticks. Styles that move with a free-floating
// ancestor are re-placed around their root's new position.
func (m *Manager) Update() {
	for _, s := range m.ActiveStyles() {
		if s.Type() == style.TypeForce || s.HasFixedPosition() {
			continue
		}
		s.ForceTranslation()
		s.TranslateCoords()
		nodes := s.FilteredDescendants()
		hierarchy.ComputeNodePositions(nodes)
		for _, n := range nodes {
			n.UseTransition = false
		}
	}
	var free []*hierarchy.Node
	for _, n := range m.world.Hierarchy().Nodes() {
		if n.Current.Free {
			free = append(free, n)
		}
	}
	hierarchy.ComputeNodePositions(free)
	m.render()
}

// SimulationEnd runs the simulation end actions.
func (m *Manager) SimulationEnd() {
	m.SimulationEndActions(context.Background())
}

// SimulationEndActions moves delayed style configs into the layout and
// reapplies it. They are applied only once.
func (m *Manager) SimulationEndActions(ctx context.Context) {
	delayed := m.layout.DelayedStyleConfigs
	if len(delayed) == 0 {
		return
	}
	m.layout.DelayedStyleConfigs = nil
	for _, cfg := range delayed {
		m.layout.SaveStyle(cfg)
	}
	m.logger.Debug("applied delayed style configs", "count", len(delayed))
	m.ApplyCurrentLayout(ctx, true)
}

// forceOptionsFor returns the options of the nearest free-floating style
// at or above n, or nil.
func (m *Manager) forceOptionsFor(n *hierarchy.Node) layout.ForceOptions {
	for _, a := range n.Ancestors() {
		if s := m.StyleOf(a); s != nil && s.Type() == style.TypeForce {
			return layout.ForceOptionsFrom(s.Config().Options).Resolve(m.layout.ForceConfig)
		}
	}
	return nil
}

func (m *Manager) render() {
	m.world.Render(m.world.Hierarchy().Nodes())
}
