package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/nodevis/pkg/errors"
	"github.com/matzehuels/nodevis/pkg/force"
	"github.com/matzehuels/nodevis/pkg/hierarchy"
	"github.com/matzehuels/nodevis/pkg/layout"
)

// viewportFlags override the configured viewport size.
type viewportFlags struct {
	width  float64
	height float64
}

func (f *viewportFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.width, "width", 0, "viewport width (default from config)")
	cmd.Flags().Float64Var(&f.height, "height", 0, "viewport height (default from config)")
}

func (c *CLI) viewport(f viewportFlags) (layout.Size, error) {
	size := c.settings().ViewportSize()
	if f.width != 0 {
		size.Width = f.width
	}
	if f.height != 0 {
		size.Height = f.height
	}
	if size.Width <= 0 || size.Height <= 0 {
		return layout.Size{}, errors.New(errors.ErrCodeInvalidInput, "viewport must be positive, got %gx%g", size.Width, size.Height)
	}
	return size, nil
}

// newSimulation creates a simulation from the configuration sized to the
// viewport.
func (c *CLI) newSimulation(size layout.Size) *force.Simulation {
	opts := c.settings().SimulationOptions()
	opts.Viewport = size
	opts.Logger = c.Logger
	return force.NewSimulation(opts)
}

// readTree reads a hierarchy document (JSON or YAML by extension).
func readTree(path string) (*hierarchy.Tree, error) {
	tree, err := hierarchy.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidHierarchy, err, "read hierarchy")
	}
	return tree, nil
}

// readLayout reads and validates a layout document. An empty path yields
// nil, which selects the default template.
func readLayout(path string) (*layout.Layout, error) {
	if path == "" {
		return nil, nil
	}
	l, err := layout.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLayout, err, "read layout")
	}
	if err := layout.Validate(l); err != nil {
		return nil, err
	}
	return l, nil
}
