package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nodevis/pkg/layout"
	"github.com/matzehuels/nodevis/pkg/store"
)

// openStore opens the layout store named by the configuration. A
// --backend flag on the store command overrides the configured backend.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	cfg := c.settings().Store
	if c.storeBackend != "" {
		cfg.Backend = c.storeBackend
	}
	c.Logger.Debug("open store", "backend", cfg.Backend)
	return store.Open(ctx, cfg)
}

// storeCommand creates the store command for managing saved layouts.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage saved layout documents",
		Long: `Save, load, list and delete layout documents in the configured store
(file, sqlite, redis or mongo). Layouts are validated before they are saved.`,
	}
	cmd.PersistentFlags().StringVar(&c.storeBackend, "backend", "", "store backend: file, sqlite, redis, mongo (default from config)")

	cmd.AddCommand(c.storeSaveCommand())
	cmd.AddCommand(c.storeLoadCommand())
	cmd.AddCommand(c.storeListCommand())
	cmd.AddCommand(c.storeDeleteCommand())

	return cmd
}

func (c *CLI) storeSaveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save [id] [layout.json]",
		Short: "Save a layout document under an id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l, err := layout.ReadFile(args[1])
			if err != nil {
				return err
			}
			s, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()
			if err := s.Save(ctx, args[0], l); err != nil {
				return err
			}
			printSuccess("Saved layout %s", StyleHighlight.Render(args[0]))
			printDetail("%d styles, %d delayed", len(l.StyleConfigs), len(l.DelayedStyleConfigs))
			return nil
		},
	}
}

func (c *CLI) storeLoadCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "load [id]",
		Short: "Print or export a saved layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()
			l, err := s.Load(ctx, args[0])
			if err != nil {
				return err
			}
			if output == "" {
				return layout.Write(l, os.Stdout)
			}
			if err := layout.WriteFile(l, output); err != nil {
				return err
			}
			printSuccess("Exported layout %s", StyleHighlight.Render(args[0]))
			printFile(output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")

	return cmd
}

func (c *CLI) storeListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved layouts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()
			infos, err := s.List(ctx)
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				printInfo("No saved layouts")
				return nil
			}
			fmt.Println(layoutTable(infos, time.Now()))
			return nil
		},
	}
}

func (c *CLI) storeDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete [id]",
		Aliases: []string{"rm"},
		Short:   "Delete a saved layout",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()
			if err := s.Delete(ctx, args[0]); err != nil {
				return err
			}
			printSuccess("Deleted layout %s", StyleHighlight.Render(args[0]))
			return nil
		},
	}
}

func layoutTable(infos []store.Info, now time.Time) string {
	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, []string{info.ID, formatRelativeTime(info.UpdatedAt, now)})
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Layout", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 1 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle().Foreground(colorGreen)
		}).
		Render()
}

func formatRelativeTime(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
