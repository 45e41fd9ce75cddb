package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nodevis/pkg/buildinfo"
	"github.com/matzehuels/nodevis/pkg/cache"
	"github.com/matzehuels/nodevis/pkg/config"
	"github.com/matzehuels/nodevis/pkg/force"
	"github.com/matzehuels/nodevis/pkg/manager"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "nodevis"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath   string
	storeBackend string
	cfg          *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Nodevis lays out hierarchies with styles and a force simulation",
		Long: `Nodevis positions the nodes of a hierarchy by combining layout styles
(hierarchy, radial, block, fixed) with a force simulation for everything
left free-floating. Layout documents can be applied, simulated, rendered
and stored.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withLogger(ctx, c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: search "+config.ConfigFileName+" and ~/.config/"+appName+")")

	root.AddCommand(c.applyCommand())
	root.AddCommand(c.simulateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.pollCommand())
	root.AddCommand(c.stylesCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.Logger.Debug("config loaded", "path", c.configPath, "store", cfg.Store.Backend)
	return nil
}

// settings returns the loaded configuration, or the defaults before loading.
func (c *CLI) settings() *config.Config {
	if c.cfg == nil {
		c.cfg = config.Default()
	}
	return c.cfg
}

// managerOptions builds manager settings from the configuration.
func (c *CLI) managerOptions(sim *force.Simulation) manager.Options {
	cfg := c.settings()
	return manager.Options{
		Simulation:       sim,
		DragStyle:        cfg.Layout.DragStyle,
		DefaultTemplate:  cfg.Layout.DefaultTemplate,
		DefaultNodeStyle: cfg.Layout.DefaultNodeStyle,
		ForceDefaults:    cfg.Force.Defaults,
		Logger:           c.Logger,
	}
}

// =============================================================================
// Cache
// =============================================================================

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	c, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return cache.Instrument(c), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/nodevis/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
