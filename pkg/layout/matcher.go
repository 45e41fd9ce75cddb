package layout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// Condition is one matcher condition. Path-valued conditions (aggregation
// paths) use Path; all others use Value.
type Condition struct {
	Value    string
	Path     []string
	Disabled bool
}

// Text returns a plain string condition.
func Text(v string) *Condition { return &Condition{Value: v} }

// PathOf returns a list-valued condition.
func PathOf(p []string) *Condition { return &Condition{Path: append([]string{}, p...)} }

// IsPath reports whether c is list-valued.
func (c *Condition) IsPath() bool { return c.Path != nil }

type conditionJSON struct {
	Value    json.RawMessage `json:"value"`
	Disabled bool            `json:"disabled,omitempty"`
}

// MarshalJSON encodes c as {"value": string|[]string, "disabled": bool}.
func (c Condition) MarshalJSON() ([]byte, error) {
	var (
		value []byte
		err   error
	)
	if c.Path != nil {
		value, err = json.Marshal(c.Path)
	} else {
		value, err = json.Marshal(c.Value)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(conditionJSON{Value: value, Disabled: c.Disabled})
}

// UnmarshalJSON accepts both string and list values.
func (c *Condition) UnmarshalJSON(data []byte) error {
	var raw conditionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = Condition{Disabled: raw.Disabled}
	v := bytes.TrimSpace(raw.Value)
	switch {
	case len(v) == 0 || bytes.Equal(v, []byte("null")):
		return nil
	case v[0] == '[':
		c.Path = []string{}
		return json.Unmarshal(v, &c.Path)
	case v[0] == '"':
		return json.Unmarshal(v, &c.Value)
	default:
		return fmt.Errorf("condition value must be a string or a list, got %s", v)
	}
}

// Matcher is the set of conditions that locates the node a style is bound
// to. A nil condition is not checked.
type Matcher struct {
	ID           *Condition `json:"id,omitempty"`
	Hostname     *Condition `json:"hostname,omitempty"`
	Service      *Condition `json:"service,omitempty"`
	RuleID       *Condition `json:"rule_id,omitempty"`
	RuleName     *Condition `json:"rule_name,omitempty"`
	AggrPathID   *Condition `json:"aggr_path_id,omitempty"`
	AggrPathName *Condition `json:"aggr_path_name,omitempty"`
}

// IsRuleMatcher reports whether m binds to a BI aggregator.
func (m Matcher) IsRuleMatcher() bool {
	return m.RuleID != nil || m.RuleName != nil
}

// Merge returns m with every condition set in overrides replacing its own.
func (m Matcher) Merge(overrides Matcher) Matcher {
	pick := func(base, over *Condition) *Condition {
		if over != nil {
			return over.clone()
		}
		return base
	}
	return Matcher{
		ID:           pick(m.ID, overrides.ID),
		Hostname:     pick(m.Hostname, overrides.Hostname),
		Service:      pick(m.Service, overrides.Service),
		RuleID:       pick(m.RuleID, overrides.RuleID),
		RuleName:     pick(m.RuleName, overrides.RuleName),
		AggrPathID:   pick(m.AggrPathID, overrides.AggrPathID),
		AggrPathName: pick(m.AggrPathName, overrides.AggrPathName),
	}
}

// Clone returns a deep copy of m.
func (m Matcher) Clone() Matcher {
	return Matcher{
		ID:           m.ID.clone(),
		Hostname:     m.Hostname.clone(),
		Service:      m.Service.clone(),
		RuleID:       m.RuleID.clone(),
		RuleName:     m.RuleName.clone(),
		AggrPathID:   m.AggrPathID.clone(),
		AggrPathName: m.AggrPathName.clone(),
	}
}

func (c *Condition) clone() *Condition {
	if c == nil {
		return nil
	}
	out := *c
	if c.Path != nil {
		out.Path = slices.Clone(c.Path)
	}
	return &out
}
