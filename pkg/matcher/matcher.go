// Package matcher binds persisted style configs to live hierarchy nodes.
//
// When a style is anchored at a node, [ForNode] records the conditions that
// identify the node: aggregation path and rule for BI aggregators, host and
// service for BI leaves, id and host for everything else. After the
// hierarchy is rebuilt, [FindNode] uses the stored conditions to locate the
// node again. The first node in breadth-first order that satisfies every
// enabled condition wins.
package matcher

import (
	"slices"

	"github.com/matzehuels/nodevis/pkg/hierarchy"
	"github.com/matzehuels/nodevis/pkg/layout"
)

// ForNode generates the matcher for n. Conditions present in overrides
// replace the generated ones.
func ForNode(n *hierarchy.Node, overrides layout.Matcher) layout.Matcher {
	var m layout.Matcher
	switch n.NodeType {
	case hierarchy.TypeAggregator, hierarchy.TypeLeaf:
		m.AggrPathID = layout.PathOf(n.AggrPathID)
		m.AggrPathID.Disabled = true
		m.AggrPathName = layout.PathOf(n.AggrPathName)
		m.AggrPathName.Disabled = true
		if n.NodeType == hierarchy.TypeAggregator {
			m.RuleID = layout.Text(n.RuleID)
			m.RuleName = layout.Text(n.Name)
		} else {
			m.Hostname = layout.Text(n.Hostname)
			m.Service = layout.Text(n.Service)
		}
	default:
		m.ID = layout.Text(n.ID)
		m.Hostname = layout.Text(n.Hostname)
	}
	return m.Merge(overrides)
}

// FindNode returns the first visible node of t matching m, or nil.
func FindNode(t *hierarchy.Tree, m layout.Matcher) *hierarchy.Node {
	for _, n := range t.Nodes() {
		if Matches(n, m) {
			return n
		}
	}
	return nil
}

// Matches reports whether n satisfies m. Rule matchers only accept
// aggregators; all other matchers never accept aggregators.
func Matches(n *hierarchy.Node, m layout.Matcher) bool {
	if m.IsRuleMatcher() {
		return n.IsAggregator() &&
			text(m.RuleID, n.RuleID) &&
			text(m.RuleName, n.Name) &&
			path(m.AggrPathID, n.AggrPathID) &&
			path(m.AggrPathName, n.AggrPathName)
	}
	if n.IsAggregator() {
		return false
	}

	if enabled(m.ID) {
		return m.ID.Value == n.ID
	}
	if !enabled(m.Hostname) || m.Hostname.Value == "" || m.Hostname.Value != n.Hostname {
		return false
	}
	if m.Service != nil && m.Service.Disabled {
		return true
	}
	var service string
	if m.Service != nil {
		service = m.Service.Value
	}
	return service == n.Service
}

func enabled(c *layout.Condition) bool {
	return c != nil && !c.Disabled
}

func text(c *layout.Condition, v string) bool {
	return !enabled(c) || c.Value == v
}

func path(c *layout.Condition, v []string) bool {
	return !enabled(c) || slices.Equal(c.Path, v)
}
