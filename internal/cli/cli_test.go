package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/nodevis/pkg/errors"
	"github.com/matzehuels/nodevis/pkg/hierarchy"
	"github.com/matzehuels/nodevis/pkg/layout"
	"github.com/matzehuels/nodevis/pkg/manager"
	"github.com/matzehuels/nodevis/pkg/store"
)

const sampleHierarchy = `{
  "hierarchy": {
    "id": "root",
    "children": [
      {"id": "a", "children": [{"id": "a1"}, {"id": "a2"}]},
      {"id": "b"}
    ]
  }
}`

func fixedRootLayout() *layout.Layout {
	l := layout.New()
	l.ReferenceSize = layout.Size{Width: 1000, Height: 800}
	l.OriginType = layout.OriginExplicit
	l.StyleConfigs = []*layout.StyleConfig{{
		Type:     "fixed",
		Position: &layout.Position{X: 50, Y: 50},
		Options:  layout.Options{},
		Matcher:  layout.Matcher{ID: layout.Text("root")},
	}}
	return l
}

// workspace writes a config, a hierarchy and a layout into a temp dir.
func workspace(t *testing.T) (dir, cfg, tree, lay string) {
	t.Helper()
	dir = t.TempDir()
	cfg = filepath.Join(dir, "nodevis.toml")
	conf := "[viewport]\nwidth = 1000\nheight = 800\n\n[store]\nbackend = \"file\"\npath = \"" + filepath.Join(dir, "layouts") + "\"\n"
	if err := os.WriteFile(cfg, []byte(conf), 0o644); err != nil {
		t.Fatal(err)
	}
	tree = filepath.Join(dir, "tree.json")
	if err := os.WriteFile(tree, []byte(sampleHierarchy), 0o644); err != nil {
		t.Fatal(err)
	}
	lay = filepath.Join(dir, "layout.json")
	if err := layout.WriteFile(fixedRootLayout(), lay); err != nil {
		t.Fatal(err)
	}
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	return dir, cfg, tree, lay
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestRootCommandSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	want := []string{"apply", "simulate", "render", "store", "serve", "poll", "styles", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd == root {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestViewport(t *testing.T) {
	c := New(io.Discard, LogInfo)
	tests := []struct {
		name    string
		flags   viewportFlags
		want    layout.Size
		wantErr bool
	}{
		{"config default", viewportFlags{}, layout.Size{Width: 1200, Height: 800}, false},
		{"width override", viewportFlags{width: 640}, layout.Size{Width: 640, Height: 800}, false},
		{"both overrides", viewportFlags{width: 300, height: 200}, layout.Size{Width: 300, Height: 200}, false},
		{"negative", viewportFlags{height: -1}, layout.Size{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.viewport(tt.flags)
			if (err != nil) != tt.wantErr {
				t.Fatalf("viewport() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("viewport() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReadLayout(t *testing.T) {
	dir := t.TempDir()

	l, err := readLayout("")
	if err != nil || l != nil {
		t.Errorf("readLayout(\"\") = %v, %v, want nil, nil", l, err)
	}

	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte(`{"reference_size": {"width": -5, "height": 10}}`), 0o644)
	if _, err := readLayout(bad); err == nil {
		t.Error("readLayout() accepted a negative reference size")
	}

	if _, err := readLayout(filepath.Join(dir, "missing.json")); !errors.Is(err, errors.ErrCodeInvalidLayout) {
		t.Errorf("readLayout(missing) error = %v, want INVALID_LAYOUT", err)
	}
}

func TestReadTree(t *testing.T) {
	_, _, path, _ := workspace(t)
	tree, err := readTree(path)
	if err != nil {
		t.Fatalf("readTree() error: %v", err)
	}
	if got := len(tree.Nodes()); got != 5 {
		t.Errorf("len(Nodes()) = %d, want 5", got)
	}
	if _, err := readTree(filepath.Join(t.TempDir(), "none.json")); !errors.Is(err, errors.ErrCodeInvalidHierarchy) {
		t.Errorf("readTree(missing) error = %v, want INVALID_HIERARCHY", err)
	}
}

func TestApplyCommand(t *testing.T) {
	dir, cfg, tree, lay := workspace(t)
	out := filepath.Join(dir, "result.json")
	saved := filepath.Join(dir, "saved.json")

	if err := execute(t, "apply", tree, "--config", cfg, "-l", lay, "-o", out, "--save-layout", saved); err != nil {
		t.Fatalf("apply error: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var res manager.Result
	if err := json.Unmarshal(data, &res); err != nil {
		t.Fatal(err)
	}
	if len(res.Placements) != 5 {
		t.Fatalf("len(Placements) = %d, want 5", len(res.Placements))
	}
	var root hierarchy.Placement
	for _, p := range res.Placements {
		if p.ID == "root" {
			root = p
		}
	}
	if root.X != 500 || root.Y != 400 || !root.Fixed {
		t.Errorf("root = %+v, want fixed at (500, 400)", root)
	}

	l, err := layout.ReadFile(saved)
	if err != nil {
		t.Fatalf("saved layout: %v", err)
	}
	if l.ReferenceSize != (layout.Size{Width: 1000, Height: 800}) {
		t.Errorf("ReferenceSize = %v, want 1000x800", l.ReferenceSize)
	}
}

func TestApplyCommandErrors(t *testing.T) {
	dir, cfg, tree, lay := workspace(t)
	tests := []struct {
		name string
		args []string
	}{
		{"missing hierarchy", []string{"apply", filepath.Join(dir, "nope.json"), "--config", cfg}},
		{"both layout sources", []string{"apply", tree, "--config", cfg, "-l", lay, "--layout-id", "x"}},
		{"unknown stored layout", []string{"apply", tree, "--config", cfg, "--layout-id", "x"}},
		{"bad viewport", []string{"apply", tree, "--config", cfg, "--width", "-3"}},
		{"no args", []string{"apply", "--config", cfg}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := execute(t, tt.args...); err == nil {
				t.Error("apply succeeded, want error")
			}
		})
	}
}

func TestSimulateCommand(t *testing.T) {
	_, cfg, tree, _ := workspace(t)
	if err := execute(t, "simulate", tree, "--config", cfg); err != nil {
		t.Fatalf("simulate error: %v", err)
	}
}

func TestRenderCommandDOT(t *testing.T) {
	dir, cfg, tree, lay := workspace(t)
	out := filepath.Join(dir, "tree.dot")
	if err := execute(t, "render", tree, "--config", cfg, "-l", lay, "--dot", "-o", out); err != nil {
		t.Fatalf("render error: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "graph G {") {
		t.Errorf("DOT output starts with %q", string(data[:min(len(data), 20)]))
	}
	if !strings.Contains(string(data), `pos="500.00,-400.00!"`) {
		t.Error("DOT output is missing the pinned root position")
	}
}

func TestRenderCommandFormat(t *testing.T) {
	_, cfg, tree, _ := workspace(t)
	if err := execute(t, "render", tree, "--config", cfg, "-f", "gif"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("render -f gif error = %v, want INVALID_INPUT", err)
	}
}

func TestStoreCommands(t *testing.T) {
	dir, cfg, tree, lay := workspace(t)

	if err := execute(t, "store", "save", "team", lay, "--config", cfg); err != nil {
		t.Fatalf("store save: %v", err)
	}
	if err := execute(t, "store", "list", "--config", cfg); err != nil {
		t.Fatalf("store list: %v", err)
	}

	exported := filepath.Join(dir, "exported.json")
	if err := execute(t, "store", "load", "team", "-o", exported, "--config", cfg); err != nil {
		t.Fatalf("store load: %v", err)
	}
	l, err := layout.ReadFile(exported)
	if err != nil {
		t.Fatal(err)
	}
	if len(l.StyleConfigs) != 1 || l.StyleConfigs[0].Type != "fixed" {
		t.Errorf("exported StyleConfigs = %+v, want one fixed style", l.StyleConfigs)
	}

	out := filepath.Join(dir, "result.json")
	if err := execute(t, "apply", tree, "--config", cfg, "--layout-id", "team", "-o", out); err != nil {
		t.Fatalf("apply --layout-id: %v", err)
	}

	if err := execute(t, "store", "delete", "team", "--config", cfg); err != nil {
		t.Fatalf("store delete: %v", err)
	}
	if err := execute(t, "store", "load", "team", "--config", cfg); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("load after delete error = %v, want NOT_FOUND", err)
	}
}

func TestStoreBackendFlag(t *testing.T) {
	_, cfg, _, _ := workspace(t)
	err := execute(t, "store", "list", "--backend", "floppy", "--config", cfg)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("store list --backend floppy error = %v, want INVALID_INPUT", err)
	}
}

func TestStylesCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"all", []string{"styles"}, false},
		{"radial", []string{"styles", "radial"}, false},
		{"force", []string{"styles", "force"}, false},
		{"unknown", []string{"styles", "spiral"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := execute(t, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Errorf("styles error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestServeCacheUnknown(t *testing.T) {
	c := New(io.Discard, LogInfo)
	if _, err := c.serveCache(context.Background(), serveOpts{cache: "memcached"}); err == nil {
		t.Error("serveCache() accepted an unknown cache")
	}
}

func TestPlacementTable(t *testing.T) {
	out := placementTable([]hierarchy.Placement{
		{ID: "root", X: 500, Y: 400, Fixed: true, Type: "fixed_root", Style: "fixed_root"},
		{ID: "leaf", X: 12.75, Y: 3, Type: "force"},
	})
	for _, want := range []string{"root", "leaf", "500.0", "12.8"} {
		if !strings.Contains(out, want) {
			t.Errorf("placementTable() missing %q", want)
		}
	}
}

func TestLayoutTable(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	out := layoutTable([]store.Info{{ID: "team", UpdatedAt: now.Add(-2 * time.Hour)}}, now)
	if !strings.Contains(out, "team") || !strings.Contains(out, "2h ago") {
		t.Errorf("layoutTable() = %q", out)
	}
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{50 * time.Hour, "2d ago"},
		{30 * 24 * time.Hour, "Jan 30, 2026"},
	}
	for _, tt := range tests {
		if got := formatRelativeTime(now.Add(-tt.ago), now); got != tt.want {
			t.Errorf("formatRelativeTime(-%v) = %q, want %q", tt.ago, got, tt.want)
		}
	}
}

func TestAlphaBar(t *testing.T) {
	tests := []struct {
		alpha float64
		full  int
	}{
		{0, 0},
		{0.5, alphaBarWidth / 2},
		{1, alphaBarWidth},
		{2, alphaBarWidth},
	}
	for _, tt := range tests {
		if got := strings.Count(alphaBar(tt.alpha), "█"); got != tt.full {
			t.Errorf("alphaBar(%v) has %d filled cells, want %d", tt.alpha, got, tt.full)
		}
	}
}
