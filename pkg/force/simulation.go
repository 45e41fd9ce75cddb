package force

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nodevis/pkg/hierarchy"
	"github.com/matzehuels/nodevis/pkg/layout"
	"github.com/matzehuels/nodevis/pkg/observability"
)

// Force names inside the solver.
const (
	ForceCharge  = "charge_force"
	ForceCollide = "collide"
	ForceX       = "x"
	ForceY       = "y"
	ForceLinks   = "links"
)

// Explicit per-node option keys.
const (
	ExplicitRepulsion    = "repulsion"
	ExplicitCenterForce  = "center_force"
	ExplicitLinkDistance = "link_distance"
)

const chargeDistanceMax = 800

// Listener receives the render notifications of a [Simulation].
type Listener interface {
	// Update refreshes everything derived from the solver positions.
	Update()
	// SimulationEnd is called once each time the system cools down.
	SimulationEnd()
}

// Options configures a [Simulation].
type Options struct {
	Viewport layout.Size

	AlphaMin         float64 // default 0.1
	RestartThreshold float64 // default 0.12
	// LaggyRenderLimit is the render budget per tick. A render that takes
	// longer causes the following ticks to skip rendering until the excess
	// is paid off.
	LaggyRenderLimit time.Duration // default 10ms
	MaxTicks         int           // 0 means unlimited
	TickInterval     time.Duration // pacing of Run, 0 runs flat out
	Seed             int64

	// NodeTypes overrides force options per node type.
	NodeTypes map[string]layout.ForceOptions

	Logger *log.Logger
}

// Simulation keeps a [Solver] in sync with the visible hierarchy.
type Simulation struct {
	solver *Solver
	opts   Options
	logger *log.Logger

	nodes []*hierarchy.Node
	links []hierarchy.Link

	defaults layout.ForceOptions
	resolve  func(n *hierarchy.Node) layout.ForceOptions

	listener   Listener
	renderDebt time.Duration
	running    bool
}

// NewSimulation returns a stopped simulation with the built-in force
// options.
func NewSimulation(opts Options) *Simulation {
	if opts.AlphaMin == 0 {
		opts.AlphaMin = DefaultAlphaMin
	}
	if opts.RestartThreshold == 0 {
		opts.RestartThreshold = 0.12
	}
	if opts.LaggyRenderLimit == 0 {
		opts.LaggyRenderLimit = 10 * time.Millisecond
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	s := &Simulation{
		solver:   NewSolver(opts.Seed),
		opts:     opts,
		logger:   logger,
		defaults: layout.DefaultForceOptions(),
	}
	s.solver.SetAlphaMin(opts.AlphaMin)
	s.SetupForces()
	return s
}

// SetListener registers the render listener.
func (s *Simulation) SetListener(l Listener) { s.listener = l }

// SetViewport changes the centering target.
func (s *Simulation) SetViewport(size layout.Size) {
	s.opts.Viewport = size
	s.SetupForces()
}

// SetForceOptions replaces the options used for nodes without a more
// specific source.
func (s *Simulation) SetForceOptions(fo layout.ForceOptions) {
	s.defaults = fo.Resolve(layout.DefaultForceOptions())
	s.SetupForces()
}

// SetOptionsResolver installs the lookup of the force options that govern
// a node, typically those of the nearest free-floating style.
func (s *Simulation) SetOptionsResolver(fn func(n *hierarchy.Node) layout.ForceOptions) {
	s.resolve = fn
	s.SetupForces()
}

// UpdateNodesAndLinks replaces the working set. It must be called whenever
// node or link membership changes.
func (s *Simulation) UpdateNodesAndLinks(nodes []*hierarchy.Node, links []hierarchy.Link) {
	s.nodes = nodes
	s.links = links
	s.solver.SetNodes(nodes)
	s.SetupForces()
}

// SetupForces rebuilds all force callbacks from the current options.
func (s *Simulation) SetupForces() {
	cx, cy := s.opts.Viewport.Width/2, s.opts.Viewport.Height/2
	s.solver.SetCenter(cx, cy)
	s.solver.SetForce(ForceCharge, &ManyBody{Strength: s.charge, DistanceMax: chargeDistanceMax})
	s.solver.SetForce(ForceCollide, &Collide{Radius: s.radius})
	s.solver.SetForce(ForceX, &Position{
		Axis:     AxisX,
		Target:   func(*hierarchy.Node) float64 { return cx },
		Strength: s.centerStrength,
	})
	s.solver.SetForce(ForceY, &Position{
		Axis:     AxisY,
		Target:   func(*hierarchy.Node) float64 { return cy },
		Strength: s.centerStrength,
	})
	s.solver.SetForce(ForceLinks, &Links{
		Links:    s.links,
		Distance: s.linkDistance,
		Strength: s.linkStrength,
	})
}

// RestartWithAlpha reheats the system. A simulation that is still warm
// only gets its alpha bumped so running nodes do not jump.
func (s *Simulation) RestartWithAlpha(alpha float64) {
	if s.solver.Alpha() < s.opts.RestartThreshold {
		s.solver.Restart()
	}
	s.solver.SetAlpha(alpha)
	s.running = true
	s.logger.Debug("simulation restart", "alpha", alpha, "nodes", len(s.nodes))
	observability.Simulation().OnRestart(context.Background(), alpha)
}

// Alpha returns the current temperature.
func (s *Simulation) Alpha() float64 { return s.solver.Alpha() }

// Running reports whether the simulation is still ticking.
func (s *Simulation) Running() bool { return s.running }

// Ticks returns the number of ticks since the last restart.
func (s *Simulation) Ticks() int { return s.solver.Ticks() }

// Nodes returns the working set.
func (s *Simulation) Nodes() []*hierarchy.Node { return s.nodes }

// Tick advances a running simulation by one step and reports whether it is
// still running. When the system cools down the listener gets a final
// update followed by SimulationEnd.
func (s *Simulation) Tick(ctx context.Context) bool {
	if !s.running {
		return false
	}
	s.solver.Tick()

	if s.solver.Stopped() || (s.opts.MaxTicks > 0 && s.solver.Ticks() >= s.opts.MaxTicks) {
		s.running = false
		s.solver.SetAlpha(0)
		s.render()
		s.logger.Debug("simulation end", "ticks", s.solver.Ticks())
		observability.Simulation().OnEnd(ctx, s.solver.Ticks())
		if s.listener != nil {
			s.listener.SimulationEnd()
		}
		return false
	}

	rendered := false
	if s.renderDebt > s.opts.LaggyRenderLimit {
		s.renderDebt -= s.opts.LaggyRenderLimit
	} else {
		s.renderDebt = s.render()
		rendered = true
	}
	observability.Simulation().OnTick(ctx, s.solver.Alpha(), rendered)
	return true
}

// Run ticks until the system cools down or ctx is done. It returns the
// number of ticks performed.
func (s *Simulation) Run(ctx context.Context) (int, error) {
	var pace <-chan time.Time
	if s.opts.TickInterval > 0 {
		t := time.NewTicker(s.opts.TickInterval)
		defer t.Stop()
		pace = t.C
	}
	ticks := 0
	for s.running {
		if pace != nil {
			select {
			case <-ctx.Done():
				return ticks, ctx.Err()
			case <-pace:
			}
		} else if err := ctx.Err(); err != nil {
			return ticks, err
		}
		s.Tick(ctx)
		ticks++
	}
	return ticks, nil
}

func (s *Simulation) render() time.Duration {
	if s.listener == nil {
		return 0
	}
	start := time.Now()
	s.listener.Update()
	return time.Since(start)
}

// =============================================================================
// Per-node parameters
// =============================================================================

// OptionsFor returns the force options that govern n: the resolver's
// options (or the simulation defaults) with the overrides for n's type.
func (s *Simulation) OptionsFor(n *hierarchy.Node) layout.ForceOptions {
	base := s.defaults
	if s.resolve != nil {
		if fo := s.resolve(n); fo != nil {
			base = fo
		}
	}
	override, ok := s.opts.NodeTypes[n.NodeType]
	if !ok || len(override) == 0 {
		return base
	}
	out := base.Clone()
	for k, v := range override {
		out[k] = v
	}
	return out
}

func explicit(n *hierarchy.Node, key string) (float64, bool) {
	v, ok := n.ExplicitForceOptions[key]
	return v, ok && v != 0
}

func (s *Simulation) charge(n *hierarchy.Node) float64 {
	if v, ok := explicit(n, ExplicitRepulsion); ok {
		return v
	}
	fo := s.OptionsFor(n)
	if n.HasChildren() {
		return fo.Get(layout.ForceAggregator)
	}
	return fo.Get(layout.ForceNode)
}

func (s *Simulation) radius(n *hierarchy.Node) float64 {
	if n.CollisionForce != nil {
		return *n.CollisionForce
	}
	fo := s.OptionsFor(n)
	if n.HasChildren() {
		return fo.Get(layout.ForceCollisionAggregator)
	}
	return fo.Get(layout.ForceCollisionNode)
}

func (s *Simulation) centerStrength(n *hierarchy.Node) float64 {
	if v, ok := explicit(n, ExplicitCenterForce); ok {
		return v / 100
	}
	c := s.OptionsFor(n).Get(layout.ForceCenter)
	if n.Parent != nil {
		return c / 300
	}
	return c / 100
}

func (s *Simulation) linkDistance(l hierarchy.Link) float64 {
	if v, ok := explicit(l.Source, ExplicitLinkDistance); ok {
		return v
	}
	fo := s.OptionsFor(l.Source)
	if l.Source.HasChildren() {
		return fo.Get(layout.ForceLinkAggregator)
	}
	return fo.Get(layout.ForceLinkNode)
}

func (s *Simulation) linkStrength(l hierarchy.Link) float64 {
	return s.OptionsFor(l.Source).Get(layout.ForceLinkStrength) / 100
}
