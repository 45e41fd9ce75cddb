package force

import (
	"math"

	"github.com/matzehuels/nodevis/pkg/hierarchy"
)

// NodeFunc returns a per-node parameter.
type NodeFunc func(n *hierarchy.Node) float64

// LinkFunc returns a per-link parameter.
type LinkFunc func(l hierarchy.Link) float64

// =============================================================================
// Many-body
// =============================================================================

// ManyBody applies a pairwise charge between all nodes closer than
// DistanceMax. Negative strengths repel.
type ManyBody struct {
	Strength    NodeFunc
	DistanceMin float64
	DistanceMax float64

	nodes     []*hierarchy.Node
	strengths []float64
	jiggle    *Jiggler
}

func (m *ManyBody) Initialize(nodes []*hierarchy.Node, j *Jiggler) {
	m.nodes, m.jiggle = nodes, j
	m.strengths = make([]float64, len(nodes))
	for i, n := range nodes {
		m.strengths[i] = m.Strength(n)
	}
}

func (m *ManyBody) Apply(alpha float64) {
	minSq := math.Max(m.DistanceMin, 1)
	minSq *= minSq
	maxSq := math.Inf(1)
	if m.DistanceMax > 0 {
		maxSq = m.DistanceMax * m.DistanceMax
	}
	for i, a := range m.nodes {
		for j, b := range m.nodes {
			if i == j {
				continue
			}
			x, y := b.X-a.X, b.Y-a.Y
			l := x*x + y*y
			if l >= maxSq {
				continue
			}
			if x == 0 {
				x = m.jiggle.Next()
				l += x * x
			}
			if y == 0 {
				y = m.jiggle.Next()
				l += y * y
			}
			if l < minSq {
				l = math.Sqrt(minSq * l)
			}
			w := m.strengths[j] * alpha / l
			a.VX += x * w
			a.VY += y * w
		}
	}
}

// =============================================================================
// Collide
// =============================================================================

// Collide pushes overlapping nodes apart. Each node is a circle of the
// given radius.
type Collide struct {
	Radius   NodeFunc
	Strength float64 // 0 means 1

	nodes  []*hierarchy.Node
	radii  []float64
	jiggle *Jiggler
}

func (c *Collide) Initialize(nodes []*hierarchy.Node, j *Jiggler) {
	c.nodes, c.jiggle = nodes, j
	c.radii = make([]float64, len(nodes))
	for i, n := range nodes {
		c.radii[i] = c.Radius(n)
	}
}

func (c *Collide) Apply(float64) {
	strength := c.Strength
	if strength == 0 {
		strength = 1
	}
	for i, a := range c.nodes {
		ri := c.radii[i]
		ri2 := ri * ri
		xi, yi := a.X+a.VX, a.Y+a.VY
		for j := i + 1; j < len(c.nodes); j++ {
			b := c.nodes[j]
			rj := c.radii[j]
			r := ri + rj
			x := xi - b.X - b.VX
			y := yi - b.Y - b.VY
			l := x*x + y*y
			if l >= r*r {
				continue
			}
			if x == 0 {
				x = c.jiggle.Next()
				l += x * x
			}
			if y == 0 {
				y = c.jiggle.Next()
				l += y * y
			}
			d := math.Sqrt(l)
			k := (r - d) / d * strength
			x, y = x*k, y*k
			rj2 := rj * rj
			share := rj2 / (ri2 + rj2)
			a.VX += x * share
			a.VY += y * share
			b.VX -= x * (1 - share)
			b.VY -= y * (1 - share)
		}
	}
}

// =============================================================================
// Positioning
// =============================================================================

// Position pulls every node toward a target coordinate on one axis.
type Position struct {
	Axis     Axis
	Target   NodeFunc
	Strength NodeFunc

	nodes     []*hierarchy.Node
	targets   []float64
	strengths []float64
}

// Axis selects the coordinate a [Position] force acts on.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

func (p *Position) Initialize(nodes []*hierarchy.Node, _ *Jiggler) {
	p.nodes = nodes
	p.targets = make([]float64, len(nodes))
	p.strengths = make([]float64, len(nodes))
	for i, n := range nodes {
		p.targets[i] = p.Target(n)
		p.strengths[i] = p.Strength(n)
	}
}

func (p *Position) Apply(alpha float64) {
	for i, n := range p.nodes {
		if p.Axis == AxisX {
			n.VX += (p.targets[i] - n.X) * p.strengths[i] * alpha
		} else {
			n.VY += (p.targets[i] - n.Y) * p.strengths[i] * alpha
		}
	}
}

// =============================================================================
// Links
// =============================================================================

// Links keeps linked nodes at the given distance. The correction is shared
// between both ends in proportion to their number of links.
type Links struct {
	Links    []hierarchy.Link
	Distance LinkFunc
	Strength LinkFunc

	active    []hierarchy.Link
	distances []float64
	strengths []float64
	bias      []float64
	jiggle    *Jiggler
}

func (l *Links) Initialize(nodes []*hierarchy.Node, j *Jiggler) {
	l.jiggle = j
	member := make(map[*hierarchy.Node]bool, len(nodes))
	for _, n := range nodes {
		member[n] = true
	}
	count := make(map[*hierarchy.Node]int)
	l.active = l.active[:0]
	for _, link := range l.Links {
		if !member[link.Source] || !member[link.Target] {
			continue
		}
		l.active = append(l.active, link)
		count[link.Source]++
		count[link.Target]++
	}
	l.distances = make([]float64, len(l.active))
	l.strengths = make([]float64, len(l.active))
	l.bias = make([]float64, len(l.active))
	for i, link := range l.active {
		l.distances[i] = l.Distance(link)
		l.strengths[i] = l.Strength(link)
		cs, ct := count[link.Source], count[link.Target]
		l.bias[i] = float64(cs) / float64(cs+ct)
	}
}

func (l *Links) Apply(alpha float64) {
	for i, link := range l.active {
		s, t := link.Source, link.Target
		x := t.X + t.VX - s.X - s.VX
		y := t.Y + t.VY - s.Y - s.VY
		if x == 0 {
			x = l.jiggle.Next()
		}
		if y == 0 {
			y = l.jiggle.Next()
		}
		d := math.Sqrt(x*x + y*y)
		k := (d - l.distances[i]) / d * alpha * l.strengths[i]
		x, y = x*k, y*k
		b := l.bias[i]
		t.VX -= x * b
		t.VY -= y * b
		s.VX += x * (1 - b)
		s.VY += y * (1 - b)
	}
}
