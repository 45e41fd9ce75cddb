package layout

// Force option keys.
const (
	ForceCenter              = "center_force"
	ForceNode                = "force_node"
	ForceAggregator          = "force_aggregator"
	ForceLinkNode            = "link_force_node"
	ForceLinkAggregator      = "link_force_aggregator"
	ForceLinkStrength        = "link_strength"
	ForceCollisionNode       = "collision_force_node"
	ForceCollisionAggregator = "collision_force_aggregator"
)

// Short keys accepted in documents written by older clients.
var forceAliases = map[string]string{
	"charge":        ForceNode,
	"center":        ForceCenter,
	"collide":       ForceCollisionNode,
	"link_distance": ForceLinkNode,
}

var forceSpecs = []OptionSpec{
	{ID: ForceCenter, Label: "Center force strength", Min: -20, Max: 100, Step: 1, Default: 5.0},
	{ID: ForceNode, Label: "Repulsion force leaf", Min: -1000, Max: 50, Step: 1, Default: -300.0},
	{ID: ForceAggregator, Label: "Repulsion force branch", Min: -1000, Max: 50, Step: 1, Default: -300.0},
	{ID: ForceLinkNode, Label: "Link distance leaf", Min: -10, Max: 300, Step: 1, Default: 30.0},
	{ID: ForceLinkAggregator, Label: "Link distance branches", Min: -10, Max: 300, Step: 1, Default: 30.0},
	{ID: ForceLinkStrength, Label: "Link strength", Min: 0, Max: 200, Step: 1, Default: 30.0},
	{ID: ForceCollisionNode, Label: "Collision box leaf", Min: 0, Max: 150, Step: 1, Default: 15.0},
	{ID: ForceCollisionAggregator, Label: "Collision box branch", Min: 0, Max: 150, Step: 1, Default: 15.0},
}

// ForceOptionSpecs returns the specs of all force parameters.
func ForceOptionSpecs() []OptionSpec {
	return append([]OptionSpec(nil), forceSpecs...)
}

// ForceOptions holds force simulation parameters by key.
type ForceOptions map[string]float64

// DefaultForceOptions returns the built-in force parameters.
func DefaultForceOptions() ForceOptions {
	out := make(ForceOptions, len(forceSpecs))
	for _, s := range forceSpecs {
		out[s.ID] = s.Default.(float64)
	}
	return out
}

// Get returns the value of key, looking through short aliases and
// falling back to the built-in default.
func (f ForceOptions) Get(key string) float64 {
	if v, ok := f[key]; ok {
		return v
	}
	for alias, canonical := range forceAliases {
		if canonical != key {
			continue
		}
		if v, ok := f[alias]; ok {
			return v
		}
	}
	for _, s := range forceSpecs {
		if s.ID == key {
			return s.Default.(float64)
		}
	}
	return 0
}

// Resolve returns a complete, clamped option set: values of f first, then
// fallback, then built-in defaults. Alias keys are translated.
func (f ForceOptions) Resolve(fallback ForceOptions) ForceOptions {
	out := DefaultForceOptions()
	for _, src := range []ForceOptions{fallback, f} {
		for k, v := range src {
			if c, ok := forceAliases[k]; ok {
				k = c
			}
			if _, known := out[k]; known {
				out[k] = v
			}
		}
	}
	for _, s := range forceSpecs {
		out[s.ID] = s.Clamp(out[s.ID])
	}
	return out
}

// Options converts f into style options.
func (f ForceOptions) Options() Options {
	out := make(Options, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// ForceOptionsFrom extracts the force parameters from style options.
func ForceOptionsFrom(o Options) ForceOptions {
	out := make(ForceOptions)
	for _, s := range forceSpecs {
		if _, ok := o[s.ID]; ok {
			out[s.ID] = o.Float(s.ID, s.Default.(float64))
		}
	}
	return out
}

// Clone returns a copy of f.
func (f ForceOptions) Clone() ForceOptions {
	if f == nil {
		return nil
	}
	out := make(ForceOptions, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}
