package hierarchy

// DragAuthority is the positioning id used while a node is being dragged.
const DragAuthority = "drag"

// TextPlacement describes where a node label sits relative to the node.
type TextPlacement struct {
	DX     float64 `json:"dx"`
	DY     float64 `json:"dy"`
	Rotate float64 `json:"rotate"`
	Anchor string  `json:"anchor"`

	// RadiusRelative adds the rendered node radius to DX and DY.
	RadiusRelative bool `json:"radius_relative,omitempty"`
}

// Force is one weighted candidate position for a node.
type Force struct {
	Weight        float64
	Type          string
	FX, FY        float64
	UseTransition bool
	Free          bool
	Text          *TextPlacement
	HideNodeLink  bool
}

// Positioning is an insertion-ordered map from authority id to [Force].
// The zero value is an empty map ready to use.
type Positioning struct {
	keys    []string
	entries map[string]Force
}

// Set stores f under id. An existing id is moved to the end of the order.
func (p *Positioning) Set(id string, f Force) {
	if p.entries == nil {
		p.entries = make(map[string]Force)
	}
	if _, ok := p.entries[id]; ok {
		p.removeKey(id)
	}
	p.keys = append(p.keys, id)
	p.entries[id] = f
}

// Get returns the entry stored under id.
func (p *Positioning) Get(id string) (Force, bool) {
	f, ok := p.entries[id]
	return f, ok
}

// Has reports whether id has an entry.
func (p *Positioning) Has(id string) bool {
	_, ok := p.entries[id]
	return ok
}

// Delete removes the entry stored under id, if any.
func (p *Positioning) Delete(id string) {
	if _, ok := p.entries[id]; !ok {
		return
	}
	delete(p.entries, id)
	p.removeKey(id)
}

// Len returns the number of entries.
func (p *Positioning) Len() int {
	return len(p.keys)
}

// Keys returns the ids in order.
func (p *Positioning) Keys() []string {
	return append([]string(nil), p.keys...)
}

// Each calls fn for every entry in order.
func (p *Positioning) Each(fn func(id string, f Force)) {
	for _, k := range p.keys {
		fn(k, p.entries[k])
	}
}

// Clear removes all entries.
func (p *Positioning) Clear() {
	p.keys = nil
	p.entries = nil
}

func (p *Positioning) removeKey(id string) {
	for i, k := range p.keys {
		if k == id {
			p.keys = append(p.keys[:i], p.keys[i+1:]...)
			return
		}
	}
}
