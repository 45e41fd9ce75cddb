package matcher

import (
	"testing"

	"github.com/matzehuels/nodevis/pkg/hierarchy"
	"github.com/matzehuels/nodevis/pkg/layout"
)

func biTree(t *testing.T) *hierarchy.Tree {
	t.Helper()
	raw := hierarchy.RawNode{
		Data: hierarchy.Data{ID: "root", Name: "Shop", NodeType: hierarchy.TypeAggregator, RuleID: "shop",
			AggrPathID: []string{"shop"}, AggrPathName: []string{"Shop"}},
		Children: []hierarchy.RawNode{
			{Data: hierarchy.Data{ID: "web", Name: "Web", NodeType: hierarchy.TypeAggregator, RuleID: "web",
				AggrPathID: []string{"shop", "web"}, AggrPathName: []string{"Shop", "Web"}},
				Children: []hierarchy.RawNode{
					{Data: hierarchy.Data{ID: "l1", NodeType: hierarchy.TypeLeaf, Hostname: "web01", Service: "HTTP"}},
					{Data: hierarchy.Data{ID: "l2", NodeType: hierarchy.TypeLeaf, Hostname: "web01"}},
				}},
			{Data: hierarchy.Data{ID: "db", Name: "DB", NodeType: hierarchy.TypeAggregator, RuleID: "web",
				AggrPathID: []string{"shop", "db"}, AggrPathName: []string{"Shop", "DB"}}},
			{Data: hierarchy.Data{ID: "host", Hostname: "db01"}},
		},
	}
	tree, err := hierarchy.Build(raw, nil)
	if err != nil {
		t.Fatal(err)
	}
	return tree
}

func TestForNode(t *testing.T) {
	tree := biTree(t)

	agg := ForNode(tree.Node("web"), layout.Matcher{})
	if agg.RuleID.Value != "web" || agg.RuleName.Value != "Web" {
		t.Errorf("aggregator matcher = %+v", agg)
	}
	if !agg.AggrPathID.Disabled || !agg.AggrPathName.Disabled {
		t.Error("aggregation paths not disabled by default")
	}
	if agg.ID != nil || agg.Hostname != nil {
		t.Error("aggregator matcher carries generic conditions")
	}

	leaf := ForNode(tree.Node("l1"), layout.Matcher{})
	if leaf.Hostname.Value != "web01" || leaf.Service.Value != "HTTP" || leaf.RuleID != nil {
		t.Errorf("leaf matcher = %+v", leaf)
	}

	generic := ForNode(tree.Node("host"), layout.Matcher{Hostname: &layout.Condition{Value: "db01", Disabled: true}})
	if generic.ID.Value != "host" || !generic.Hostname.Disabled {
		t.Errorf("generic matcher = %+v", generic)
	}
}

func TestFindNode(t *testing.T) {
	tree := biTree(t)
	tests := []struct {
		name    string
		matcher layout.Matcher
		want    string
	}{
		{"RuleFirstWins", layout.Matcher{RuleID: layout.Text("web"), RuleName: layout.Text("Web")}, "web"},
		{"RuleWithPath", layout.Matcher{RuleID: layout.Text("web"), AggrPathID: layout.PathOf([]string{"shop", "db"})}, "db"},
		{"DisabledPathIsWildcard", layout.Matcher{RuleID: layout.Text("web"),
			AggrPathID: &layout.Condition{Path: []string{"nope"}, Disabled: true}}, "web"},
		{"PathOrderMatters", layout.Matcher{RuleID: layout.Text("web"), AggrPathID: layout.PathOf([]string{"db", "shop"})}, ""},
		{"RuleNeverMatchesLeaf", layout.Matcher{RuleName: layout.Text("")}, ""},
		{"ByID", layout.Matcher{ID: layout.Text("l2"), Hostname: layout.Text("db01")}, "l2"},
		{"IDNeverMatchesAggregator", layout.Matcher{ID: layout.Text("web")}, ""},
		{"DisabledIDFallsBackToHost", layout.Matcher{ID: &layout.Condition{Value: "x", Disabled: true}, Hostname: layout.Text("db01")}, "host"},
		{"HostAndService", layout.Matcher{Hostname: layout.Text("web01"), Service: layout.Text("HTTP")}, "l1"},
		{"HostWithoutService", layout.Matcher{Hostname: layout.Text("web01")}, "l2"},
		{"DisabledService", layout.Matcher{Hostname: layout.Text("web01"), Service: &layout.Condition{Value: "x", Disabled: true}}, "l1"},
		{"NoHostNoMatch", layout.Matcher{Service: layout.Text("HTTP")}, ""},
		{"Stale", layout.Matcher{ID: layout.Text("gone")}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindNode(tree, tt.matcher)
			var id string
			if got != nil {
				id = got.ID
			}
			if id != tt.want {
				t.Errorf("FindNode() = %q, want %q", id, tt.want)
			}
		})
	}
}

func TestRoundTripBinding(t *testing.T) {
	tree := biTree(t)
	for _, n := range tree.Nodes() {
		if got := FindNode(tree, ForNode(n, layout.Matcher{})); got != n {
			t.Errorf("FindNode(ForNode(%s)) = %v", n.ID, got)
		}
	}
}
