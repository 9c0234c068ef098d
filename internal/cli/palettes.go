package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/borelog/borelog/pkg/errors"
	"github.com/borelog/borelog/pkg/palette"
)

// palettesCommand creates the palettes command for listing the embedded
// colorscales.
func (c *CLI) palettesCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "palettes",
		Short: "List the embedded color palettes",
		Long: `List the embedded color palettes.

These are the values accepted by --colorscale. Materials are assigned colors
by sampling the chosen palette evenly, in the order the materials first
appear in the input.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if name != "" {
				return printPalette(name)
			}
			printPaletteList()
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "show a single palette with its hex values")

	return cmd
}

// printPaletteList shows every embedded palette with a swatch strip.
func printPaletteList() {
	fmt.Println(StyleTitle.Render("Embedded Palettes"))
	printNewline()

	for _, p := range palette.All() {
		marker := " "
		if p.Name == palette.DefaultScale {
			marker = StyleSuccess.Render("*")
		}
		fmt.Printf(" %s%s %s %s\n",
			marker,
			StyleHighlight.Render(fmt.Sprintf("%-8s", p.Name)),
			swatch(p.Colors),
			StyleDim.Render(fmt.Sprintf("%2d colors", len(p.Colors))))
	}

	printNewline()
	fmt.Println("  " + StyleSuccess.Render("*") + StyleDim.Render(" default colorscale"))
	printNextStep("Use one", "borelog draw site.xlsx --colorscale Set2")
}

// printPalette shows a single palette, one color per line with its hex value.
func printPalette(name string) error {
	p, ok := palette.Lookup(name)
	if !ok {
		return errors.New(errors.ErrCodeUnknownPalette,
			"unknown palette %q (available: %s)", name, strings.Join(palette.Names(), ", "))
	}

	fmt.Println(StyleTitle.Render(p.Name))
	printNewline()
	for _, c := range p.Colors {
		hex := c.Hex()
		fmt.Printf("  %s %s\n", swatchCell(hex), StyleValue.Render(hex))
	}
	return nil
}

// swatch renders a palette as a strip of color cells.
func swatch(colors []palette.RGB) string {
	var b strings.Builder
	for _, c := range colors {
		b.WriteString(swatchCell(c.Hex()))
	}
	return b.String()
}

// swatchCell renders a single color cell via its background.
func swatchCell(hex string) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("  ")
}
