package style

import (
	"fmt"
	"math"
	"testing"

	"github.com/matzehuels/nodevis/pkg/errors"
	"github.com/matzehuels/nodevis/pkg/hierarchy"
	"github.com/matzehuels/nodevis/pkg/layout"
)

const eps = 1e-9

type testEnv struct {
	styles    map[*hierarchy.Node]Style
	refreshed int
}

func newTestEnv() *testEnv {
	return &testEnv{styles: make(map[*hierarchy.Node]Style)}
}

func (e *testEnv) StyleOf(n *hierarchy.Node) Style { return e.styles[n] }
func (e *testEnv) ViewportSize() layout.Size        { return layout.Size{Width: 1000, Height: 800} }
func (e *testEnv) RefreshForces()                   { e.refreshed++ }

func (e *testEnv) attach(t *testing.T, n *hierarchy.Node, styleType string, opts layout.Options) Style {
	t.Helper()
	s, err := Instantiate(&layout.StyleConfig{Type: styleType, Options: opts}, n, e)
	if err != nil {
		t.Fatalf("Instantiate(%s) error: %v", styleType, err)
	}
	n.UseStyle = s.ID()
	e.styles[n] = s
	return s
}

// fan builds a root with n leaf children.
func fan(t *testing.T, n int) *hierarchy.Tree {
	t.Helper()
	raw := hierarchy.RawNode{Data: hierarchy.Data{ID: "root"}}
	for i := 0; i < n; i++ {
		raw.Children = append(raw.Children, hierarchy.RawNode{Data: hierarchy.Data{ID: fmt.Sprintf("c%d", i)}})
	}
	tree, err := hierarchy.Build(raw, nil)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return tree
}

func TestHierarchySymmetry(t *testing.T) {
	tree := fan(t, 2)
	env := newTestEnv()
	s := env.attach(t, tree.Root, TypeHierarchy, layout.Options{OptRotation: 0.0})
	s.UpdateData()
	s.TranslateCoords()

	offsets := s.Offsets()
	if len(offsets) != 3 {
		t.Fatalf("len(Offsets()) = %d, want 3", len(offsets))
	}
	a, b := offsets[1], offsets[2]
	if math.Abs(a.X-b.X) > eps {
		t.Errorf("children x = %v, %v, want equal", a.X, b.X)
	}
	if math.Abs(a.Y+b.Y) > eps || a.Y == 0 {
		t.Errorf("children y = %v, %v, want mirrored", a.Y, b.Y)
	}
	if math.Abs(a.X-80) > eps {
		t.Errorf("child x = %v, want layer height 80", a.X)
	}

	for _, n := range tree.Nodes() {
		f, ok := n.Positioning.Get(s.ID())
		if !ok {
			t.Fatalf("node %s has no entry of %s", n.ID, s.ID())
		}
		if f.Weight != 10 || f.Type != TypeHierarchy {
			t.Errorf("entry of %s = weight %v type %q, want 10 %q", n.ID, f.Weight, f.Type, TypeHierarchy)
		}
	}
}

func TestHierarchyDefaultRotationGrowsDown(t *testing.T) {
	tree := fan(t, 1)
	env := newTestEnv()
	s := env.attach(t, tree.Root, TypeHierarchy, nil)
	s.UpdateData()

	child := s.Offsets()[1]
	if math.Abs(child.X) > eps || math.Abs(child.Y-80) > eps {
		t.Errorf("child offset = (%v, %v), want (0, 80)", child.X, child.Y)
	}
}

func TestHierarchyNestedRootNotPlaced(t *testing.T) {
	tree := fan(t, 2)
	env := newTestEnv()
	c0 := tree.Node("c0")
	outer := env.attach(t, tree.Root, TypeHierarchy, nil)
	inner := env.attach(t, c0, TypeHierarchy, nil)

	inner.UpdateData()
	outer.UpdateData()
	inner.TranslateCoords()
	outer.TranslateCoords()

	if c0.Positioning.Has(inner.ID()) {
		t.Errorf("nested root carries its own entry")
	}
	if !c0.Positioning.Has(outer.ID()) {
		t.Errorf("nested root not placed by its parent style")
	}
}

func TestHierarchyText(t *testing.T) {
	tests := []struct {
		name     string
		rotation float64
		anchor   string
	}{
		{"right", 0, "start"},
		{"down", 270, "start"},
		{"left", 180, "end"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := hierarchyText(tt.rotation / 180 * math.Pi)
			if got.Anchor != tt.anchor {
				t.Errorf("hierarchyText(%v).Anchor = %q, want %q", tt.rotation, got.Anchor, tt.anchor)
			}
			if d := math.Hypot(got.DX, got.DY); math.Abs(d-21) > eps {
				t.Errorf("hierarchyText(%v) distance = %v, want 21", tt.rotation, d)
			}
		})
	}
}

func TestHierarchyResizeHandle(t *testing.T) {
	tree := fan(t, 2)
	env := newTestEnv()
	s := env.attach(t, tree.Root, TypeHierarchy, layout.Options{OptRotation: 0.0})
	s.UpdateData()

	h := s.(HandleDragger)
	h.StartHandleDrag(0, 0)
	h.DragHandle(HandleResize, -1000, -1000, -1000, -1000)

	opts := s.Config().Options
	if got := opts.Float("node_size", 0); got != 100 {
		t.Errorf("node_size = %v, want 100", got)
	}
	if got := opts.Float("layer_height", 0); got != 40 {
		t.Errorf("layer_height = %v, want 40", got)
	}
}

func TestRotationHandle(t *testing.T) {
	tree := fan(t, 2)
	env := newTestEnv()
	s := env.attach(t, tree.Root, TypeRadial, layout.Options{OptRotation: 10.0})

	h := s.(HandleDragger)
	h.StartHandleDrag(0, 0)
	h.DragHandle(HandleRotation, 0, 0, 0, 15)
	h.DragHandle(HandleRotation, 0, 0, 0, 5)

	if got := s.Config().Options.Float(OptRotation, -1); got != 350 {
		t.Errorf("rotation = %v, want 350", got)
	}
}

func TestRadialSingleNode(t *testing.T) {
	tree := fan(t, 0)
	env := newTestEnv()
	s := env.attach(t, tree.Root, TypeRadial, nil)
	s.UpdateData()
	s.TranslateCoords()

	offsets := s.Offsets()
	if len(offsets) != 1 {
		t.Fatalf("len(Offsets()) = %d, want 1", len(offsets))
	}
	if o := offsets[0]; o.X != 0 || o.Y != 0 || o.Node != tree.Root {
		t.Errorf("offset = %+v, want root at (0,0)", o)
	}
	f, ok := tree.Root.Positioning.Get(s.ID())
	if !ok || math.IsNaN(f.FX) || math.IsNaN(f.FY) {
		t.Errorf("root entry = %+v, %v, want finite", f, ok)
	}
}

func TestRadialLeafRing(t *testing.T) {
	tree := fan(t, 3)
	env := newTestEnv()
	s := env.attach(t, tree.Root, TypeRadial, nil)
	s.UpdateData()
	s.TranslateCoords()

	for _, o := range s.Offsets()[1:] {
		if d := math.Hypot(o.X, o.Y); math.Abs(d-120) > 1e-6 {
			t.Errorf("leaf %s at distance %v, want 120", o.Node.ID, d)
		}
		f, _ := o.Node.Positioning.Get(s.ID())
		if f.Text == nil {
			t.Errorf("leaf %s has no text placement", o.Node.ID)
		}
	}
}

func TestRadialHandles(t *testing.T) {
	tree := fan(t, 2)
	env := newTestEnv()
	s := env.attach(t, tree.Root, TypeRadial, nil)

	h := s.(HandleDragger)
	h.StartHandleDrag(0, 0)
	h.DragHandle(HandleRadius, 0, 0, 0, 1000)
	h.DragHandle(HandleDegree, 0, 0, 0, 0)

	opts := s.Config().Options
	if got := opts.Float("radius", 0); got != 10 {
		t.Errorf("radius = %v, want 10", got)
	}
	if got := opts.Float("degree", 0); got != 10 {
		t.Errorf("degree = %v, want 10", got)
	}
}

func TestBlockGrid(t *testing.T) {
	tree := fan(t, 9)
	env := newTestEnv()
	s := env.attach(t, tree.Root, TypeBlock, nil)
	s.UpdateData()
	s.TranslateCoords()

	b := s.(*Block)
	if got := b.Columns(); got != 3 {
		t.Errorf("Columns() = %d, want 3", got)
	}
	if got := len(s.Offsets()); got != 10 {
		t.Errorf("len(Offsets()) = %d, want 10", got)
	}
	first := s.Offsets()[1]
	if first.X != -50 || first.Y != 25 {
		t.Errorf("first cell = (%v, %v), want (-50, 25)", first.X, first.Y)
	}
	if _, h := s.Size(); h != 75 {
		t.Errorf("Size() height = %v, want 75", h)
	}

	f, _ := tree.Node("c4").Positioning.Get(s.ID())
	if !f.HideNodeLink {
		t.Errorf("grid member shows its link")
	}
	rf, _ := tree.Root.Positioning.Get(s.ID())
	if rf.HideNodeLink {
		t.Errorf("root hides its link")
	}
}

func TestBlockColumnsRoundDown(t *testing.T) {
	tests := []struct {
		leaves int
		cols   int
		height float64
	}{
		{1, 1, 25},
		{3, 1, 75},
		{4, 2, 50},
		{5, 2, 75},
		{8, 2, 100},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d leaves", tt.leaves), func(t *testing.T) {
			tree := fan(t, tt.leaves)
			s := newTestEnv().attach(t, tree.Root, TypeBlock, nil)
			s.UpdateData()

			if got := s.(*Block).Columns(); got != tt.cols {
				t.Errorf("Columns() = %d, want %d", got, tt.cols)
			}
			if _, h := s.Size(); h != tt.height {
				t.Errorf("Size() height = %v, want %v", h, tt.height)
			}
			last := s.Offsets()[len(s.Offsets())-1]
			if last.Y != tt.height {
				t.Errorf("last cell y = %v, want %v", last.Y, tt.height)
			}
		})
	}
}

func TestBlockOnLeaf(t *testing.T) {
	tree := fan(t, 0)
	env := newTestEnv()
	s := env.attach(t, tree.Root, TypeBlock, nil)
	s.UpdateData()
	s.TranslateCoords()

	if len(s.Offsets()) != 0 {
		t.Errorf("Offsets() = %v, want none", s.Offsets())
	}
	if w, h := s.Size(); w != 0 || h != 0 {
		t.Errorf("Size() = %v,%v, want 0,0", w, h)
	}
	if tree.Root.Positioning.Len() != 0 {
		t.Errorf("leaf got %d entries, want 0", tree.Root.Positioning.Len())
	}
}

func TestFixed(t *testing.T) {
	tree := fan(t, 1)
	env := newTestEnv()
	tree.Root.X, tree.Root.Y = 100, 50
	s := env.attach(t, tree.Root, TypeFixed, nil)
	s.UpdateData()

	f, ok := tree.Root.Positioning.Get(s.ID())
	if !ok {
		t.Fatalf("no entry for %s", s.ID())
	}
	if f.Weight != 100 || f.FX != 100 || f.FY != 50 {
		t.Errorf("entry = %+v, want weight 100 at (100, 50)", f)
	}
	if s.Config().Weight != 100 {
		t.Errorf("Config().Weight = %v, want 100", s.Config().Weight)
	}

	s.Remove()
	if tree.Root.Positioning.Has(s.ID()) {
		t.Errorf("entry left after Remove()")
	}
}

func TestForceStyle(t *testing.T) {
	tree := fan(t, 1)
	env := newTestEnv()
	s := env.attach(t, tree.Root, TypeForce, nil)
	s.UpdateData()
	s.TranslateCoords()
	s.ForceTranslation()

	if tree.Root.Positioning.Len() != 0 {
		t.Errorf("force style wrote %d entries, want 0", tree.Root.Positioning.Len())
	}
	if env.refreshed != 1 {
		t.Errorf("RefreshForces() calls = %d, want 1", env.refreshed)
	}
	if got := s.Config().Options.Float(layout.ForceCenter, 0); got != 5 {
		t.Errorf("center_force = %v, want 5", got)
	}
}

func TestHasFixedPosition(t *testing.T) {
	tests := []struct {
		name     string
		rootType string
		detach   bool
		want     bool
	}{
		{"unstyled tree root", "", false, true},
		{"free-floating tree root", TypeForce, false, false},
		{"detached", TypeForce, true, true},
		{"fixed tree root", TypeFixed, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := fan(t, 1)
			env := newTestEnv()
			if tt.rootType != "" {
				env.attach(t, tree.Root, tt.rootType, nil)
			}
			s := env.attach(t, tree.Node("c0"), TypeHierarchy, layout.Options{OptDetach: tt.detach})
			if got := s.HasFixedPosition(); got != tt.want {
				t.Errorf("HasFixedPosition() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRotationIncludesParent(t *testing.T) {
	tree := fan(t, 1)
	env := newTestEnv()
	env.attach(t, tree.Root, TypeRadial, layout.Options{OptRotation: 30.0})
	s := env.attach(t, tree.Node("c0"), TypeHierarchy, layout.Options{
		OptRotation:              90.0,
		OptIncludeParentRotation: true,
	})
	if got := s.Rotation(); got != 120 {
		t.Errorf("Rotation() = %v, want 120", got)
	}
}

func TestInstantiate(t *testing.T) {
	tree := fan(t, 1)
	env := newTestEnv()

	_, err := Instantiate(&layout.StyleConfig{Type: "spiral"}, tree.Root, env)
	if !errors.Is(err, errors.ErrCodeInvalidStyle) {
		t.Errorf("Instantiate(spiral) error = %v, want %s", err, errors.ErrCodeInvalidStyle)
	}

	cfg := &layout.StyleConfig{
		Type:     TypeRadial,
		Position: &layout.Position{X: 50, Y: 25},
		Options:  layout.Options{"radius": 9000.0, "custom": true},
	}
	s, err := Instantiate(cfg, tree.Node("c0"), env)
	if err != nil {
		t.Fatalf("Instantiate() error: %v", err)
	}
	n := tree.Node("c0")
	if n.X != 500 || n.Y != 200 {
		t.Errorf("node moved to (%v, %v), want (500, 200)", n.X, n.Y)
	}
	if got := cfg.Options.Float("radius", 0); got != 300 {
		t.Errorf("radius = %v, want 300", got)
	}
	if !cfg.Options.Bool("custom", false) {
		t.Errorf("unknown option dropped")
	}
	if cfg.Weight != 11 || s.Weight() != 11 {
		t.Errorf("weight = %v, want 11", cfg.Weight)
	}
	if cfg.Matcher.ID == nil || cfg.Matcher.ID.Value != "c0" {
		t.Errorf("matcher id = %+v, want c0", cfg.Matcher.ID)
	}
	if s.ID() != "radial_c0" {
		t.Errorf("ID() = %q, want radial_c0", s.ID())
	}
}

func TestInstantiateTakesNodePosition(t *testing.T) {
	tree := fan(t, 0)
	env := newTestEnv()
	tree.Root.X, tree.Root.Y = 250, 400
	cfg := &layout.StyleConfig{Type: TypeFixed}
	if _, err := Instantiate(cfg, tree.Root, env); err != nil {
		t.Fatalf("Instantiate() error: %v", err)
	}
	if cfg.Position == nil || cfg.Position.X != 25 || cfg.Position.Y != 50 {
		t.Errorf("Position = %+v, want (25, 50)", cfg.Position)
	}
}

func TestRemoveCleansSubtree(t *testing.T) {
	tree := fan(t, 3)
	env := newTestEnv()
	s := env.attach(t, tree.Root, TypeHierarchy, nil)
	s.UpdateData()
	s.TranslateCoords()
	s.Remove()

	for _, n := range tree.Nodes() {
		if n.Positioning.Has(s.ID()) {
			t.Errorf("node %s keeps entry %s", n.ID, s.ID())
		}
	}
}

func TestVariantsTable(t *testing.T) {
	want := []string{TypeHierarchy, TypeRadial, TypeBlock, TypeFixed, TypeForce}
	got := Variants()
	if len(got) != len(want) {
		t.Fatalf("len(Variants()) = %d, want %d", len(got), len(want))
	}
	for i, v := range got {
		if v.Type != want[i] {
			t.Errorf("Variants()[%d] = %q, want %q", i, v.Type, want[i])
		}
	}
	if d := Defaults(TypeHierarchy); d.Float("layer_height", 0) != 80 {
		t.Errorf("Defaults(hierarchy) layer_height = %v, want 80", d["layer_height"])
	}
	if Known("spiral") {
		t.Errorf("Known(spiral) = true")
	}
}
