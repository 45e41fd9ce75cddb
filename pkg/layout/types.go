package layout

import (
	"encoding/json"
	"slices"
)

// Origin types.
const (
	OriginExplicit        = "explicit"
	OriginDefaultTemplate = "default_template"
)

// Size is a viewport size in pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Position is a style root position in percent of the viewport.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LineStyle selects how links are drawn.
type LineStyle string

const (
	LineStraight LineStyle = "straight"
	LineElbow    LineStyle = "elbow"
	LineRound    LineStyle = "round"
)

// LineConfig describes how links are drawn.
type LineConfig struct {
	Style  LineStyle `json:"style"`
	Dashed bool      `json:"dashed,omitempty"`
}

// Options holds style option values: numbers or booleans.
type Options map[string]any

// Float returns the numeric option key, or def if absent or not a number.
func (o Options) Float(key string, def float64) float64 {
	switch v := o[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
	}
	return def
}

// Bool returns the boolean option key, or def if absent or not a boolean.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key].(bool); ok {
		return v
	}
	return def
}

// Clone returns a copy of o. Values are scalars, so the copy is deep.
func (o Options) Clone() Options {
	if o == nil {
		return nil
	}
	out := make(Options, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}

// StyleConfig is the persistable description of one layout style.
type StyleConfig struct {
	Type     string    `json:"type"`
	Position *Position `json:"position"`
	Weight   float64   `json:"weight"`
	Options  Options   `json:"options"`
	Matcher  Matcher   `json:"matcher"`
}

// Clone returns a deep copy of c.
func (c *StyleConfig) Clone() *StyleConfig {
	if c == nil {
		return nil
	}
	out := *c
	if c.Position != nil {
		p := *c.Position
		out.Position = &p
	}
	out.Options = c.Options.Clone()
	out.Matcher = c.Matcher.Clone()
	return &out
}

// Identity returns the key two configs are considered the same style by:
// the style type plus its matcher.
func (c *StyleConfig) Identity() string {
	data, _ := json.Marshal(struct {
		Type    string  `json:"type"`
		Matcher Matcher `json:"matcher"`
	}{c.Type, c.Matcher})
	return string(data)
}

// Layout is the persisted layout document of one hierarchy.
type Layout struct {
	ReferenceSize       Size           `json:"reference_size"`
	LineConfig          LineConfig     `json:"line_config"`
	ForceConfig         ForceOptions   `json:"force_config"`
	StyleConfigs        []*StyleConfig `json:"style_configs"`
	DelayedStyleConfigs []*StyleConfig `json:"delayed_style_configs,omitempty"`
	DefaultID           string         `json:"default_id,omitempty"`
	OriginInfo          string         `json:"origin_info,omitempty"`
	OriginType          string         `json:"origin_type,omitempty"`
}

// New returns an empty layout with straight lines.
func New() *Layout {
	return &Layout{
		LineConfig:   LineConfig{Style: LineStraight},
		ForceConfig:  ForceOptions{},
		StyleConfigs: []*StyleConfig{},
	}
}

// SaveStyle stores cfg, replacing a config with the same identity in place.
func (l *Layout) SaveStyle(cfg *StyleConfig) {
	id := cfg.Identity()
	for i, c := range l.StyleConfigs {
		if c.Identity() == id {
			l.StyleConfigs[i] = cfg
			return
		}
	}
	l.StyleConfigs = append(l.StyleConfigs, cfg)
}

// RemoveStyle deletes the config with the same identity as cfg.
func (l *Layout) RemoveStyle(cfg *StyleConfig) {
	id := cfg.Identity()
	l.StyleConfigs = slices.DeleteFunc(l.StyleConfigs, func(c *StyleConfig) bool {
		return c.Identity() == id
	})
}

// ClearStyles removes every style config.
func (l *Layout) ClearStyles() {
	l.StyleConfigs = []*StyleConfig{}
}

// Clone returns a deep copy of l.
func (l *Layout) Clone() *Layout {
	out := *l
	out.ForceConfig = l.ForceConfig.Clone()
	out.StyleConfigs = cloneConfigs(l.StyleConfigs)
	out.DelayedStyleConfigs = cloneConfigs(l.DelayedStyleConfigs)
	if out.StyleConfigs == nil {
		out.StyleConfigs = []*StyleConfig{}
	}
	return &out
}

func cloneConfigs(in []*StyleConfig) []*StyleConfig {
	if in == nil {
		return nil
	}
	out := make([]*StyleConfig, len(in))
	for i, c := range in {
		out[i] = c.Clone()
	}
	return out
}
