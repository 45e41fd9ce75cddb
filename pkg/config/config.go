// Package config loads the nodevis.toml configuration file.
//
// The file is optional; every field has a default. Lookup order:
//
//  1. $NODEVIS_CONFIG
//  2. ./nodevis.toml
//  3. $XDG_CONFIG_HOME/nodevis/config.toml
//  4. ~/.config/nodevis/config.toml
//
// Example:
//
//	[viewport]
//	width = 1600
//	height = 900
//
//	[force]
//	center_force = 10
//
//	[force.node_types.host]
//	force_node = -800
//
//	[store]
//	backend = "sqlite"
//	path = "layouts.db"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/nodevis/pkg/force"
	"github.com/matzehuels/nodevis/pkg/layout"
	"github.com/matzehuels/nodevis/pkg/store"
)

const (
	EnvConfigPath  = "NODEVIS_CONFIG"
	ConfigFileName = "nodevis.toml"
	configDirName  = "nodevis"
)

// Duration is a time.Duration written as a string such as "30s".
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config is the complete configuration.
type Config struct {
	Viewport   Viewport     `toml:"viewport"`
	Force      Force        `toml:"force"`
	Simulation Simulation   `toml:"simulation"`
	Store      store.Config `toml:"store"`
	DataSource DataSource   `toml:"datasource"`
	Server     Server       `toml:"server"`
	Layout     Layout       `toml:"layout"`
}

type Viewport struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
	Zoom   float64 `toml:"zoom"`
}

// Force holds the default force parameters and per-node-type overrides.
type Force struct {
	Defaults  layout.ForceOptions            `toml:"-"`
	NodeTypes map[string]layout.ForceOptions `toml:"node_types"`
}

type Simulation struct {
	AlphaMin         float64  `toml:"alpha_min"`
	RestartThreshold float64  `toml:"restart_threshold"`
	LaggyRenderLimit Duration `toml:"laggy_render_limit"`
	MaxTicks         int      `toml:"max_ticks"`
}

type DataSource struct {
	URL      string   `toml:"url"`
	Interval Duration `toml:"interval"`
	Retries  int      `toml:"retries"`
}

type Server struct {
	Addr string `toml:"addr"`
}

type Layout struct {
	DragStyle        string `toml:"drag_style"`
	DefaultTemplate  string `toml:"default_template"`
	DefaultNodeStyle string `toml:"default_node_style"`
}

// Default returns the built-in configuration.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Find returns the first existing config file in lookup order, or "".
func Find() string {
	if p := os.Getenv(EnvConfigPath); p != "" && fileExists(p) {
		return p
	}
	if fileExists(ConfigFileName) {
		return ConfigFileName
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		if p := filepath.Join(xdg, configDirName, "config.toml"); fileExists(p) {
			return p
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		if p := filepath.Join(home, ".config", configDirName, "config.toml"); fileExists(p) {
			return p
		}
	}
	return ""
}

// Load reads the file at path. An empty path searches with [Find] and
// returns the defaults when nothing is found.
func Load(path string) (*Config, error) {
	if path == "" {
		if path = Find(); path == "" {
			return Default(), nil
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes a TOML document and fills in defaults.
func Parse(data []byte) (*Config, error) {
	c := &Config{}
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Flat force keys sit next to the node_types table.
	var raw struct {
		Force map[string]any `toml:"force"`
	}
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	for k, v := range raw.Force {
		switch n := v.(type) {
		case int64:
			c.force()[k] = float64(n)
		case float64:
			c.force()[k] = n
		}
	}

	for _, k := range md.Undecoded() {
		if len(k) > 0 && k[0] == "force" {
			continue
		}
		return nil, fmt.Errorf("unknown config key %q", k.String())
	}
	c.applyDefaults()
	return c, nil
}

func (c *Config) force() layout.ForceOptions {
	if c.Force.Defaults == nil {
		c.Force.Defaults = layout.ForceOptions{}
	}
	return c.Force.Defaults
}

func (c *Config) applyDefaults() {
	if c.Viewport.Width <= 0 {
		c.Viewport.Width = 1200
	}
	if c.Viewport.Height <= 0 {
		c.Viewport.Height = 800
	}
	if c.Viewport.Zoom <= 0 {
		c.Viewport.Zoom = 1
	}
	c.Force.Defaults = c.force().Resolve(layout.DefaultForceOptions())
	if c.Simulation.AlphaMin <= 0 {
		c.Simulation.AlphaMin = 0.1
	}
	if c.Simulation.RestartThreshold <= 0 {
		c.Simulation.RestartThreshold = 0.12
	}
	if c.Simulation.LaggyRenderLimit.Duration <= 0 {
		c.Simulation.LaggyRenderLimit.Duration = 10 * time.Millisecond
	}
	if c.Simulation.MaxTicks <= 0 {
		c.Simulation.MaxTicks = 1000
	}
	if c.Store.Backend == "" {
		c.Store.Backend = store.BackendFile
	}
	if c.DataSource.Interval.Duration <= 0 {
		c.DataSource.Interval.Duration = 30 * time.Second
	}
	if c.DataSource.Retries <= 0 {
		c.DataSource.Retries = 3
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Layout.DragStyle == "" {
		c.Layout.DragStyle = "fixed"
	}
	if c.Layout.DefaultTemplate == "" {
		c.Layout.DefaultTemplate = "builtin_default"
	}
	if c.Layout.DefaultNodeStyle == "" {
		c.Layout.DefaultNodeStyle = "builtin_hierarchy"
	}
}

// ViewportSize returns the configured viewport.
func (c *Config) ViewportSize() layout.Size {
	return layout.Size{Width: c.Viewport.Width, Height: c.Viewport.Height}
}

// SimulationOptions returns the force simulation settings.
func (c *Config) SimulationOptions() force.Options {
	return force.Options{
		Viewport:         c.ViewportSize(),
		AlphaMin:         c.Simulation.AlphaMin,
		RestartThreshold: c.Simulation.RestartThreshold,
		LaggyRenderLimit: c.Simulation.LaggyRenderLimit.Duration,
		MaxTicks:         c.Simulation.MaxTicks,
		NodeTypes:        c.Force.NodeTypes,
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
