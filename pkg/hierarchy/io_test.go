package hierarchy

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const yamlDoc = `hierarchy:
  id: root
  name: Datacenter
  node_type: bi_aggregator
  rule_id: dc
  children:
    - id: web
      hostname: web01
      node_type: bi_leaf
      service: HTTP
    - id: db
      hostname: db01
links:
  - source: web
    target: db
`

func TestReadYAML(t *testing.T) {
	tree, err := Read(strings.NewReader(yamlDoc), FormatYAML)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if !tree.Root.IsAggregator() || tree.Root.RuleID != "dc" {
		t.Errorf("root = %+v, want aggregator dc", tree.Root.Data)
	}
	web := tree.Node("web")
	if web == nil || web.Hostname != "web01" || web.Service != "HTTP" {
		t.Fatalf("web = %+v", web)
	}
	if got := len(tree.Links()); got != 3 {
		t.Errorf("len(Links()) = %d, want 3", got)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	doc, err := Unmarshal([]byte(yamlDoc), FormatYAML)
	if err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			data, err := Marshal(doc, format)
			if err != nil {
				t.Fatalf("Marshal() error: %v", err)
			}
			back, err := Unmarshal(data, format)
			if err != nil {
				t.Fatalf("Unmarshal() error: %v", err)
			}
			if back.Hierarchy.ID != "root" || len(back.Hierarchy.Children) != 2 {
				t.Errorf("hierarchy = %+v", back.Hierarchy)
			}
			if back.Hierarchy.Children[0].Hostname != "web01" {
				t.Errorf("hostname = %q, want web01", back.Hierarchy.Children[0].Hostname)
			}
			if len(back.Links) != 1 {
				t.Errorf("len(Links) = %d, want 1", len(back.Links))
			}
		})
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tree.yml")
	if err := os.WriteFile(path, []byte(yamlDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	tree, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if len(tree.Nodes()) != 3 {
		t.Errorf("len(Nodes()) = %d, want 3", len(tree.Nodes()))
	}

	if _, err := ReadFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("ReadFile(missing) error = nil")
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"a.yaml": FormatYAML,
		"a.YML":  FormatYAML,
		"a.json": FormatJSON,
		"a":      FormatJSON,
	}
	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %s, want %s", path, got, want)
		}
	}
}
