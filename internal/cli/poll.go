package cli

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodevis/pkg/cache"
	"github.com/matzehuels/nodevis/pkg/datasource"
	"github.com/matzehuels/nodevis/pkg/layout"
	"github.com/matzehuels/nodevis/pkg/manager"
)

type pollOpts struct {
	interval time.Duration
	once     bool
	output   string
	noCache  bool
	viewport viewportFlags
}

// pollCommand creates the poll command, which follows a hierarchy backend.
func (c *CLI) pollCommand() *cobra.Command {
	opts := pollOpts{}

	cmd := &cobra.Command{
		Use:   "poll [url]",
		Short: "Follow a hierarchy backend and re-apply the layout on every delivery",
		Long: `Poll a backend that serves {"hierarchy": ..., "links": ..., "layout": ...} as
JSON. Each delivery replaces the hierarchy, applies the delivered layout (or
keeps the current one) and runs the simulation until it cools down.

Failed requests are retried; when the backend stays unreachable the last good
response is used. Without a URL argument the configured datasource url is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := c.settings().DataSource.URL
			if len(args) == 1 {
				url = args[0]
			}
			return c.runPoll(cmd.Context(), url, opts)
		},
	}

	cmd.Flags().DurationVar(&opts.interval, "interval", 0, "poll interval (default from config)")
	cmd.Flags().BoolVar(&opts.once, "once", false, "fetch a single delivery and exit")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the placements of each delivery to this file")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "do not remember the last good response")
	opts.viewport.register(cmd)

	return cmd
}

func (c *CLI) runPoll(ctx context.Context, url string, opts pollOpts) error {
	cfg := c.settings()
	size, err := c.viewport(opts.viewport)
	if err != nil {
		return err
	}

	fetcher, err := datasource.NewHTTPFetcher(url)
	if err != nil {
		return err
	}
	fc, err := newCache(opts.noCache)
	if err != nil {
		return err
	}
	defer fc.Close()
	fetcher.Cache = fc
	fetcher.Keyer = cache.NewScopedKeyer(nil, appName)
	fetcher.Retries = cfg.DataSource.Retries
	fetcher.Logger = c.Logger

	f := &follower{cli: c, size: size, output: opts.output}

	interval := opts.interval
	if interval == 0 {
		interval = cfg.DataSource.Interval.Duration
	}
	p := datasource.NewPoller(fetcher, f.deliver, datasource.PollerOptions{
		Interval: interval,
		Logger:   c.Logger,
	})

	if opts.once {
		_, err := p.Refresh(ctx)
		return err
	}
	printInfo("Polling %s every %s", StyleLink.Render(url), interval)
	if err := p.Run(ctx); err != nil && !stderrors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// follower keeps one manager across deliveries so a layout sent once stays
// in effect for later hierarchies.
type follower struct {
	cli    *CLI
	size   layout.Size
	output string

	vp  *manager.Viewport
	mgr *manager.Manager
}

func (f *follower) deliver(ctx context.Context, p *datasource.Payload) error {
	tree, err := p.Build()
	if err != nil {
		return err
	}
	prog := newProgress(loggerFromContext(ctx))

	if f.mgr == nil {
		f.vp = manager.NewViewport(tree, f.size)
		f.mgr = manager.New(f.vp, f.cli.managerOptions(f.cli.newSimulation(f.size)))
		f.mgr.UpdateLayout(p.Layout)
	} else {
		f.vp.SetHierarchy(tree)
		if p.Layout != nil {
			f.mgr.UpdateLayout(p.Layout)
		}
	}
	f.mgr.ApplyCurrentLayout(ctx, true)
	ticks, err := f.mgr.Simulation().Run(ctx)
	if err != nil {
		return err
	}

	if p.Cached {
		printWarning("Backend unreachable, showing the last good response")
	}
	prog.done(fmt.Sprintf("Delivered %d nodes, %d ticks", len(tree.Nodes()), ticks))

	if f.output == "" {
		return nil
	}
	data, err := json.MarshalIndent(tree.Placements(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.output, data, 0o644)
}
