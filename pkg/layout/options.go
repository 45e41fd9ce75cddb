package layout

import "math"

// OptionSpec describes one user-configurable option for an options panel.
// Boolean options have a bool Default and ignore the numeric bounds.
type OptionSpec struct {
	ID      string  `json:"id"`
	Label   string  `json:"label"`
	Min     float64 `json:"min,omitempty"`
	Max     float64 `json:"max,omitempty"`
	Step    float64 `json:"step,omitempty"`
	Default any     `json:"default"`
}

// IsBool reports whether the option is a boolean toggle.
func (s OptionSpec) IsBool() bool {
	_, ok := s.Default.(bool)
	return ok
}

// Clamp bounds v to [Min, Max]. NaN becomes the default.
func (s OptionSpec) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		d, _ := s.Default.(float64)
		return d
	}
	return max(s.Min, min(s.Max, v))
}

// ClampOptions returns a copy of opts holding one value per spec: missing or
// mistyped values take the default, numbers are clamped. Keys without a spec
// are kept as they are.
func ClampOptions(opts Options, specs []OptionSpec) Options {
	out := opts.Clone()
	if out == nil {
		out = make(Options, len(specs))
	}
	for _, s := range specs {
		if s.IsBool() {
			out[s.ID] = opts.Bool(s.ID, s.Default.(bool))
			continue
		}
		def, _ := s.Default.(float64)
		out[s.ID] = s.Clamp(opts.Float(s.ID, def))
	}
	return out
}

// DefaultOptions returns the default value of every spec.
func DefaultOptions(specs []OptionSpec) Options {
	out := make(Options, len(specs))
	for _, s := range specs {
		out[s.ID] = s.Default
	}
	return out
}
