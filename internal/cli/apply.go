package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nodevis/pkg/hierarchy"
	"github.com/matzehuels/nodevis/pkg/layout"
	"github.com/matzehuels/nodevis/pkg/manager"
)

type applyOpts struct {
	layoutPath string
	layoutID   string
	simulate   bool
	output     string
	saveLayout string
	viewport   viewportFlags
}

// applyCommand creates the apply command for headless layout.
func (c *CLI) applyCommand() *cobra.Command {
	opts := applyOpts{}

	cmd := &cobra.Command{
		Use:   "apply [hierarchy]",
		Short: "Apply a layout to a hierarchy and print node positions",
		Long: `Apply a layout document to a hierarchy (JSON or YAML) and print the resolved
node positions. Without --layout or --layout-id the default template is used.

With --simulate the force simulation runs until it cools down, so free-floating
nodes settle and delayed styles are applied.`,
		Example: `  # Positions from the default template
  nodevis apply tree.json

  # Apply a stored layout and let the physics settle
  nodevis apply tree.yaml --layout-id team --simulate -o positions.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runApply(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.layoutPath, "layout", "l", "", "layout document (JSON)")
	cmd.Flags().StringVar(&opts.layoutID, "layout-id", "", "load the layout from the configured store")
	cmd.Flags().BoolVarP(&opts.simulate, "simulate", "s", false, "run the force simulation to completion")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the result as JSON to this file")
	cmd.Flags().StringVar(&opts.saveLayout, "save-layout", "", "write the resulting layout document to this file")
	opts.viewport.register(cmd)
	cmd.MarkFlagsMutuallyExclusive("layout", "layout-id")

	return cmd
}

func (c *CLI) runApply(ctx context.Context, path string, opts applyOpts) error {
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

	prog := newProgress(c.Logger)
	res, err := manager.ApplyOnce(ctx, tree, doc, size, c.managerOptions(c.newSimulation(size)), opts.simulate)
	if err != nil {
		return err
	}
	if opts.simulate {
		prog.done(fmt.Sprintf("Simulated %d ticks", res.Ticks))
	} else {
		prog.done("Applied layout")
	}

	if opts.saveLayout != "" {
		if err := layout.WriteFile(res.Layout, opts.saveLayout); err != nil {
			return err
		}
		printFile(opts.saveLayout)
	}
	if opts.output != "" {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.output, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", opts.output, err)
		}
		printSuccess("Wrote %d placements", len(res.Placements))
		printFile(opts.output)
		return nil
	}

	fmt.Println(placementTable(res.Placements))
	printStats(len(res.Placements), len(res.Layout.StyleConfigs), false)
	return nil
}

// resolveLayout loads the layout from a file or the configured store. Both
// empty yields nil.
func (c *CLI) resolveLayout(ctx context.Context, path, id string) (*layout.Layout, error) {
	if id == "" {
		return readLayout(path)
	}
	s, err := c.openStore(ctx)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return s.Load(ctx, id)
}

func placementTable(ps []hierarchy.Placement) string {
	rows := make([][]string, 0, len(ps))
	for _, p := range ps {
		fixed := ""
		if p.Fixed {
			fixed = iconSuccess
		}
		rows = append(rows, []string{p.ID, p.Type, fmt.Sprintf("%.1f", p.X), fmt.Sprintf("%.1f", p.Y), fixed, p.Style})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Node", "Authority", "X", "Y", "Fixed", "Style").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 2 || col == 3:
				return lipgloss.NewStyle().Foreground(colorCyan)
			case col == 4:
				return lipgloss.NewStyle().Foreground(colorGreen)
			default:
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
		}).
		Render()
}
