package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nodevis/pkg/layout"
	"github.com/matzehuels/nodevis/pkg/style"
)

// stylesCommand creates the styles command, which documents the style
// types and their options.
func (c *CLI) stylesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "styles [type]",
		Short: "List style types and their options",
		Long: `List the style types a layout can use. With a type argument, show the
options of that type with their ranges and defaults.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: styleTypes(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Println(variantTable(style.Variants()))
				printNextStep("Show options", appName+" styles "+style.TypeHierarchy)
				return nil
			}
			v, ok := style.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown style type %q (want one of %s)", args[0], strings.Join(styleTypes(), ", "))
			}
			fmt.Println(StyleTitle.Render(v.Label))
			fmt.Println(optionTable(v.Options))
			return nil
		},
	}
}

func styleTypes() []string {
	vs := style.Variants()
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.Type
	}
	return out
}

func variantTable(vs []style.Variant) string {
	rows := make([][]string, 0, len(vs))
	for _, v := range vs {
		kind := "free-floating"
		if v.Positional {
			kind = "positional"
		}
		rows = append(rows, []string{"●", v.Type, v.Label, kind, fmt.Sprint(len(v.Options))})
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Type", "Label", "Kind", "Options").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 0 && row < len(vs) {
				return lipgloss.NewStyle().Foreground(lipgloss.Color(vs[row].Color))
			}
			if col == 1 {
				return lipgloss.NewStyle().Foreground(colorCyan)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		}).
		Render()
}

func optionTable(specs []layout.OptionSpec) string {
	rows := make([][]string, 0, len(specs))
	for _, s := range specs {
		rng := fmt.Sprintf("%g … %g", s.Min, s.Max)
		if s.IsBool() {
			rng = "on/off"
		}
		rows = append(rows, []string{s.ID, s.Label, rng, fmt.Sprint(s.Default)})
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Option", "Label", "Range", "Default").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorCyan)
			case col == 2:
				return lipgloss.NewStyle().Foreground(colorDim)
			default:
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
		}).
		Render()
}
