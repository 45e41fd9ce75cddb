package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nodevis/pkg/force"
	"github.com/matzehuels/nodevis/pkg/layout"
	"github.com/matzehuels/nodevis/pkg/manager"
)

const (
	defaultFrameInterval = 50 * time.Millisecond
	ticksPerFrame        = 5
	alphaBarWidth        = 30
)

type simulateOpts struct {
	layoutPath string
	layoutID   string
	watch      bool
	frame      time.Duration
	viewport   viewportFlags
}

// simulateCommand creates the simulate command, which runs the force
// simulation interactively.
func (c *CLI) simulateCommand() *cobra.Command {
	opts := simulateOpts{}

	cmd := &cobra.Command{
		Use:   "simulate [hierarchy]",
		Short: "Run the force simulation and watch it cool down",
		Long: `Apply a layout and run the force simulation, showing the temperature, tick
count and render statistics while it settles.

Without --watch the simulation runs headless and logs a summary. With --watch
an interactive view is shown: r reheats the simulation, q quits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSimulate(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.layoutPath, "layout", "l", "", "layout document (JSON)")
	cmd.Flags().StringVar(&opts.layoutID, "layout-id", "", "load the layout from the configured store")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "show an interactive view")
	cmd.Flags().DurationVar(&opts.frame, "frame", defaultFrameInterval, "frame interval of the interactive view")
	opts.viewport.register(cmd)
	cmd.MarkFlagsMutuallyExclusive("layout", "layout-id")

	return cmd
}

func (c *CLI) runSimulate(ctx context.Context, path string, opts simulateOpts) error {
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

	vp := manager.NewViewport(tree, size)
	m := manager.New(vp, c.managerOptions(c.newSimulation(size)))
	m.UpdateLayout(doc)
	m.ApplyCurrentLayout(ctx, true)

	if !opts.watch {
		prog := newProgress(c.Logger)
		ticks, err := m.Simulation().Run(ctx)
		if err != nil {
			return err
		}
		prog.done(fmt.Sprintf("Simulation cooled down after %d ticks", ticks))
		printKeyValue("Nodes", fmt.Sprint(len(tree.Nodes())))
		printKeyValue("Styles", fmt.Sprint(len(m.ActiveStyles())))
		printKeyValue("Renders", fmt.Sprint(vp.Renders()))
		return nil
	}

	model := newSimModel(ctx, m, vp, size, opts.frame)
	_, err = tea.NewProgram(model, tea.WithContext(ctx)).Run()
	return err
}

// =============================================================================
// SimModel - Interactive simulation view
// =============================================================================

type frameMsg time.Time

// SimModel is the bubbletea model of the interactive simulation view.
type SimModel struct {
	ctx   context.Context
	mgr   *manager.Manager
	sim   *force.Simulation
	vp    *manager.Viewport
	size  layout.Size
	frame time.Duration

	ticks    int
	restarts int
	started  time.Time
	elapsed  time.Duration
}

func newSimModel(ctx context.Context, m *manager.Manager, vp *manager.Viewport, size layout.Size, frame time.Duration) SimModel {
	if frame <= 0 {
		frame = defaultFrameInterval
	}
	return SimModel{
		ctx:     ctx,
		mgr:     m,
		sim:     m.Simulation(),
		vp:      vp,
		size:    size,
		frame:   frame,
		started: time.Now(),
	}
}

func (m SimModel) nextFrame() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m SimModel) Init() tea.Cmd {
	return m.nextFrame()
}

func (m SimModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			m.mgr.ApplyCurrentLayout(m.ctx, true)
			m.restarts++
			m.ticks = 0
			m.started = time.Now()
			return m, m.nextFrame()
		}
	case frameMsg:
		if !m.sim.Running() {
			return m, nil
		}
		for i := 0; i < ticksPerFrame; i++ {
			m.ticks++
			if !m.sim.Tick(m.ctx) {
				break
			}
		}
		m.elapsed = time.Since(m.started)
		return m, m.nextFrame()
	}
	return m, nil
}

func (m SimModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Force Simulation"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("r reheat  q quit"))
	b.WriteString("\n\n")

	status := StyleSuccess.Render("cooled down")
	if m.sim.Running() {
		status = StyleWarning.Render("running")
	}
	row := func(k, v string) {
		b.WriteString(lipgloss.NewStyle().Foreground(colorGray).Width(12).Render(k))
		b.WriteString(" ")
		b.WriteString(v)
		b.WriteString("\n")
	}
	row("Status", status)
	row("Alpha", alphaBar(m.sim.Alpha())+" "+StyleNumber.Render(fmt.Sprintf("%.3f", m.sim.Alpha())))
	row("Ticks", StyleNumber.Render(fmt.Sprint(m.ticks)))
	row("Renders", StyleNumber.Render(fmt.Sprint(m.vp.Renders())))
	row("Nodes", StyleValue.Render(fmt.Sprint(len(m.sim.Nodes()))))
	row("Styles", StyleValue.Render(fmt.Sprint(len(m.mgr.ActiveStyles()))))
	row("Viewport", StyleValue.Render(fmt.Sprintf("%gx%g", m.size.Width, m.size.Height)))
	row("Elapsed", StyleDim.Render(m.elapsed.Round(time.Millisecond).String()))
	if m.restarts > 0 {
		row("Reheated", StyleDim.Render(fmt.Sprint(m.restarts)))
	}
	return b.String()
}

// alphaBar draws the temperature on a scale of 0 to 1.
func alphaBar(alpha float64) string {
	n := int(min(1, max(0, alpha)) * alphaBarWidth)
	return StyleHighlight.Render(strings.Repeat("█", n)) + StyleDim.Render(strings.Repeat("░", alphaBarWidth-n))
}
