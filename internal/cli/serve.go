package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodevis/pkg/cache"
	"github.com/matzehuels/nodevis/pkg/server"
)

// Cache backends of the serve command.
const (
	serveCacheFile  = "file"
	serveCacheRedis = "redis"
	serveCacheNone  = "none"
)

const redisCachePrefix = appName + ":cache:"

type serveOpts struct {
	addr       string
	cache      string
	noStore    bool
	redisCache string
}

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout API over HTTP",
		Long: `Serve layout persistence and headless layout over HTTP.

Routes:
  GET    /healthz
  GET    /api/layouts
  GET    /api/layouts/{id}
  PUT    /api/layouts/{id}
  DELETE /api/layouts/{id}
  POST   /api/apply`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVar(&opts.cache, "cache", serveCacheFile, "apply result cache: file, redis, none")
	cmd.Flags().StringVar(&opts.redisCache, "redis-addr", "", "redis address for --cache=redis (default: store redis_addr)")
	cmd.Flags().BoolVar(&opts.noStore, "no-store", false, "disable the layout routes")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	cfg := c.settings()

	results, err := c.serveCache(ctx, opts)
	if err != nil {
		return err
	}
	defer results.Close()

	srvOpts := server.Options{
		Viewport:   cfg.ViewportSize(),
		Simulation: cfg.SimulationOptions(),
		Manager:    c.managerOptions(nil),
		Cache:      results,
		Logger:     c.Logger,
	}
	if !opts.noStore {
		s, err := c.openStore(ctx)
		if err != nil {
			return err
		}
		defer s.Close()
		srvOpts.Store = s
	}

	addr := opts.addr
	if addr == "" {
		addr = cfg.Server.Addr
	}
	printInfo("Serving on %s", StyleLink.Render("http://"+displayAddr(addr)))
	printDetail("store: %s  cache: %s", storeLabel(cfg.Store.Backend, opts.noStore), opts.cache)
	return server.New(srvOpts).ListenAndServe(ctx, addr)
}

func (c *CLI) serveCache(ctx context.Context, opts serveOpts) (cache.Cache, error) {
	switch opts.cache {
	case serveCacheFile:
		return newCache(false)
	case serveCacheNone:
		return newCache(true)
	case serveCacheRedis:
		addr := opts.redisCache
		if addr == "" {
			addr = c.settings().Store.RedisAddr
		}
		rc, err := cache.NewRedisCache(ctx, addr, redisCachePrefix)
		if err != nil {
			return nil, err
		}
		return cache.Instrument(rc), nil
	default:
		return nil, fmt.Errorf("unknown cache %q (want %s, %s or %s)", opts.cache, serveCacheFile, serveCacheRedis, serveCacheNone)
	}
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}

func storeLabel(backend string, disabled bool) string {
	switch {
	case disabled:
		return "disabled"
	case backend == "":
		return "file"
	default:
		return backend
	}
}
