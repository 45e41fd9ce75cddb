package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodevis/pkg/manager"
	"github.com/matzehuels/nodevis/pkg/render/nodelink"
)

const renderTTL = 7 * 24 * time.Hour

type renderOpts struct {
	layoutPath string
	layoutID   string
	format     string
	output     string
	detailed   bool
	simulate   bool
	dotOnly    bool
	noCache    bool
	viewport   viewportFlags
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render [hierarchy]",
		Short: "Render a laid-out hierarchy as a node-link diagram",
		Long: `Apply a layout to a hierarchy and render the result as an SVG or PNG
node-link diagram. Nodes keep the positions the layout gives them; the line
style of the layout selects straight, elbow or rounded edges.`,
		Example: `  # SVG next to the input
  nodevis render tree.json

  # PNG with detailed labels after the physics settled
  nodevis render tree.json -l layout.json -f png --detailed --simulate`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.layoutPath, "layout", "l", "", "layout document (JSON)")
	cmd.Flags().StringVar(&opts.layoutID, "layout-id", "", "load the layout from the configured store")
	cmd.Flags().StringVarP(&opts.format, "format", "f", string(nodelink.FormatSVG), "output format: svg, png")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: input name with the format extension)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label nodes with their positioning authority and style")
	cmd.Flags().BoolVarP(&opts.simulate, "simulate", "s", false, "run the force simulation before rendering")
	cmd.Flags().BoolVar(&opts.dotOnly, "dot", false, "write the DOT source instead of rendering it")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	opts.viewport.register(cmd)
	cmd.MarkFlagsMutuallyExclusive("layout", "layout-id")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, path string, opts renderOpts) error {
	format, err := nodelink.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	size, err := c.viewport(opts.viewport)
	if err != nil {
		return err
	}
	tree, err := readTree(path)
	if err != nil {
		return err
	}
	doc, err := c.resolveLayout(ctx, opts.layoutPath, opts.layoutID)
	if err != nil {
		return err
	}

	res, err := manager.ApplyOnce(ctx, tree, doc, size, c.managerOptions(c.newSimulation(size)), opts.simulate)
	if err != nil {
		return err
	}
	dot := nodelink.ToDOT(tree, res.Layout.LineConfig, nodelink.Options{Detailed: opts.detailed})

	ext := string(format)
	if opts.dotOnly {
		ext = "dot"
	}
	out := opts.output
	if out == "" {
		out = strings.TrimSuffix(path, filepath.Ext(path)) + "." + ext
	}

	if opts.dotOnly {
		if err := os.WriteFile(out, []byte(dot), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		printSuccess("Wrote DOT source")
		printFile(out)
		return nil
	}

	rc, err := newCache(opts.noCache)
	if err != nil {
		return err
	}
	defer rc.Close()

	spin := newSpinnerWithContext(ctx, "Rendering "+strings.ToUpper(ext)+"...")
	spin.Start()
	data, err := nodelink.NewRenderer(rc, renderTTL).Render(ctx, dot, format)
	if err != nil {
		spin.StopWithError("Render failed")
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		spin.StopWithError("Write failed")
		return fmt.Errorf("write %s: %w", out, err)
	}
	spin.StopWithSuccess(fmt.Sprintf("Rendered %d nodes", len(res.Placements)))
	printFile(out)
	return nil
}
