package force

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/matzehuels/nodevis/pkg/hierarchy"
)

// Solver defaults.
const (
	DefaultAlphaMin      = 0.1
	DefaultVelocityDecay = 0.6

	initialRadius = 10
)

var (
	// DefaultAlphaDecay cools the system from 1 to 0.001 in 300 ticks.
	DefaultAlphaDecay = 1 - math.Pow(0.001, 1.0/300)

	initialAngle = math.Pi * (3 - math.Sqrt(5))
)

// Force acts on the node velocities once per tick.
type Force interface {
	// Initialize is called whenever the node set changes.
	Initialize(nodes []*hierarchy.Node, j *Jiggler)
	Apply(alpha float64)
}

// Jiggler produces tiny deterministic displacements that separate
// coincident nodes.
type Jiggler struct {
	noise opensimplex.Noise
	step  float64
}

// NewJiggler returns a jiggler seeded with seed.
func NewJiggler(seed int64) *Jiggler {
	return &Jiggler{noise: opensimplex.New(seed)}
}

// Next returns a value in (-0.5e-6, 0.5e-6).
func (j *Jiggler) Next() float64 {
	j.step++
	if v := j.noise.Eval2(j.step*0.37, 0.5) * 0.5e-6; v != 0 {
		return v
	}
	return 1e-7
}

type namedForce struct {
	name  string
	force Force
}

// Solver integrates node positions under a set of named forces.
type Solver struct {
	nodes  []*hierarchy.Node
	forces []namedForce
	jiggle *Jiggler

	centerX, centerY float64

	alpha         float64
	alphaMin      float64
	alphaDecay    float64
	alphaTarget   float64
	velocityDecay float64
	ticks         int
}

// NewSolver returns a cold solver: alpha is 0, so it is stopped until
// [Solver.SetAlpha] heats it up.
func NewSolver(seed int64) *Solver {
	return &Solver{
		jiggle:        NewJiggler(seed),
		alphaMin:      DefaultAlphaMin,
		alphaDecay:    DefaultAlphaDecay,
		velocityDecay: DefaultVelocityDecay,
	}
}

// SetCenter sets the point new nodes are placed around.
func (s *Solver) SetCenter(x, y float64) {
	s.centerX, s.centerY = x, y
}

// SetAlphaMin sets the alpha below which the solver stops.
func (s *Solver) SetAlphaMin(v float64) { s.alphaMin = v }

// SetAlphaDecay sets the cooling rate per tick.
func (s *Solver) SetAlphaDecay(v float64) { s.alphaDecay = v }

// Alpha returns the current temperature.
func (s *Solver) Alpha() float64 { return s.alpha }

// SetAlpha sets the current temperature.
func (s *Solver) SetAlpha(a float64) { s.alpha = a }

// Stopped reports whether the system has cooled down.
func (s *Solver) Stopped() bool { return s.alpha < s.alphaMin }

// Ticks returns the number of ticks since the last restart.
func (s *Solver) Ticks() int { return s.ticks }

// Restart resets the tick counter. The temperature is unchanged.
func (s *Solver) Restart() { s.ticks = 0 }

// Nodes returns the working set.
func (s *Solver) Nodes() []*hierarchy.Node { return s.nodes }

// SetNodes replaces the working set. Nodes that were never placed start on
// a phyllotaxis spiral around the center.
func (s *Solver) SetNodes(nodes []*hierarchy.Node) {
	s.nodes = nodes
	for i, n := range nodes {
		if _, _, fixed := n.Fixed(); fixed || n.X != 0 || n.Y != 0 {
			continue
		}
		r := initialRadius * math.Sqrt(0.5+float64(i))
		a := float64(i) * initialAngle
		n.X = s.centerX + r*math.Cos(a)
		n.Y = s.centerY + r*math.Sin(a)
		n.VX, n.VY = 0, 0
	}
	for _, f := range s.forces {
		f.force.Initialize(nodes, s.jiggle)
	}
}

// SetForce installs f under name, replacing a force with the same name.
// A nil force removes it.
func (s *Solver) SetForce(name string, f Force) {
	for i, nf := range s.forces {
		if nf.name != name {
			continue
		}
		if f == nil {
			s.forces = append(s.forces[:i], s.forces[i+1:]...)
			return
		}
		s.forces[i].force = f
		f.Initialize(s.nodes, s.jiggle)
		return
	}
	if f != nil {
		s.forces = append(s.forces, namedForce{name, f})
		f.Initialize(s.nodes, s.jiggle)
	}
}

// Force returns the force installed under name, or nil.
func (s *Solver) Force(name string) Force {
	for _, nf := range s.forces {
		if nf.name == name {
			return nf.force
		}
	}
	return nil
}

// Tick advances the system by one step. Fixed nodes stay at their fixed
// coordinates and lose their velocity.
func (s *Solver) Tick() {
	s.alpha += (s.alphaTarget - s.alpha) * s.alphaDecay
	s.ticks++
	for _, f := range s.forces {
		f.force.Apply(s.alpha)
	}
	for _, n := range s.nodes {
		if x, y, fixed := n.Fixed(); fixed {
			n.X, n.Y = x, y
			n.VX, n.VY = 0, 0
			continue
		}
		n.VX *= s.velocityDecay
		n.VY *= s.velocityDecay
		n.X += n.VX
		n.Y += n.VY
	}
}
