package style

import (
	"github.com/matzehuels/nodevis/pkg/errors"
	"github.com/matzehuels/nodevis/pkg/hierarchy"
	"github.com/matzehuels/nodevis/pkg/layout"
	"github.com/matzehuels/nodevis/pkg/matcher"
)

// Style types.
const (
	TypeHierarchy = "hierarchy"
	TypeRadial    = "radial"
	TypeBlock     = "block"
	TypeFixed     = "fixed"
	TypeForce     = "force"
)

// Variant is the static description of a style type.
type Variant struct {
	Type    string
	Label   string
	Color   string
	Options []layout.OptionSpec

	// Positional variants place nodes themselves; the free-floating force
	// variant only tunes the physics.
	Positional bool

	build func(b *base) Style
}

func detachSpec() layout.OptionSpec {
	return layout.OptionSpec{ID: OptDetach, Label: "Detach from parent style", Default: false}
}

var variants = []Variant{
	{
		Type:  TypeHierarchy,
		Label: "Hierarchical style",
		Color: "#ffa042",
		Options: []layout.OptionSpec{
			{ID: "layer_height", Label: "Layer height", Min: 20, Max: 500, Step: 1, Default: 80.0},
			{ID: "node_size", Label: "Node size", Min: 15, Max: 100, Step: 1, Default: 25.0},
			{ID: OptRotation, Label: "Rotation", Min: 0, Max: 359, Step: 1, Default: 270.0},
			{ID: OptIncludeParentRotation, Label: "Include parent rotation", Default: false},
			detachSpec(),
			{ID: OptBoxLeafNodes, Label: "Arrange leaf nodes in block", Default: false},
		},
		Positional: true,
		build:      func(b *base) Style { return &Hierarchy{treeStyle: treeStyle{base: b}} },
	},
	{
		Type:  TypeRadial,
		Label: "Radial style",
		Color: "#13d389",
		Options: []layout.OptionSpec{
			{ID: "radius", Label: "Radius", Min: 30, Max: 300, Step: 1, Default: 120.0},
			{ID: "degree", Label: "Degree", Min: 10, Max: 360, Step: 1, Default: 360.0},
			{ID: OptRotation, Label: "Rotation", Min: 0, Max: 359, Step: 1, Default: 0.0},
			{ID: OptIncludeParentRotation, Label: "Include parent rotation", Default: false},
			detachSpec(),
		},
		Positional: true,
		build:      func(b *base) Style { return &Radial{treeStyle: treeStyle{base: b}} },
	},
	{
		Type:       TypeBlock,
		Label:      "Leaf-Nodes Block style",
		Color:      "#3cc2ff",
		Options:    []layout.OptionSpec{detachSpec()},
		Positional: true,
		build:      func(b *base) Style { return &Block{treeStyle: treeStyle{base: b}} },
	},
	{
		Type:       TypeFixed,
		Label:      "Fixed position style",
		Color:      "Burlywood",
		Positional: true,
		build:      func(b *base) Style { return &Fixed{base: b} },
	},
	{
		Type:    TypeForce,
		Label:   "Free-Floating style",
		Color:   "#9c9c9c",
		Options: layout.ForceOptionSpecs(),
		build:   func(b *base) Style { return &Force{base: b} },
	},
}

// Variants returns the static table of all style types.
func Variants() []Variant {
	return append([]Variant(nil), variants...)
}

// Lookup returns the variant of a style type.
func Lookup(styleType string) (Variant, bool) {
	for _, v := range variants {
		if v.Type == styleType {
			return v, true
		}
	}
	return Variant{}, false
}

// Known reports whether styleType names a variant.
func Known(styleType string) bool {
	_, ok := Lookup(styleType)
	return ok
}

// Defaults returns the default options of a style type.
func Defaults(styleType string) layout.Options {
	v, ok := Lookup(styleType)
	if !ok {
		return layout.Options{}
	}
	return layout.DefaultOptions(v.Options)
}

// ClampOptions fills in defaults and bounds every value of opts to the
// ranges of the style type.
func ClampOptions(styleType string, opts layout.Options) layout.Options {
	v, ok := Lookup(styleType)
	if !ok {
		return opts.Clone()
	}
	return layout.ClampOptions(opts, v.Options)
}

// Instantiate creates the style described by cfg anchored at n. cfg is
// completed in place: options get their defaults, the matcher is generated
// for n (conditions already in cfg win), and a missing position is taken
// from n's current coordinates. A given position moves n instead.
func Instantiate(cfg *layout.StyleConfig, n *hierarchy.Node, env Env) (Style, error) {
	v, ok := Lookup(cfg.Type)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidStyle, "unknown style type %q", cfg.Type)
	}

	size := env.ViewportSize()
	if cfg.Position != nil {
		n.X, n.Y = cfg.Position.Absolute(size)
	}
	cfg.Options = layout.ClampOptions(cfg.Options, v.Options)
	cfg.Matcher = matcher.ForNode(n, cfg.Matcher)
	if cfg.Position == nil {
		p := layout.ViewportPercentage(n.X, n.Y, size)
		cfg.Position = &p
	}

	b := &base{env: env, variant: v, config: cfg, root: n, useTransition: true}
	s := v.build(b)
	b.self = s
	cfg.Weight = s.Weight()
	return s, nil
}
