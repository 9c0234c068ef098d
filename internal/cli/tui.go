package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// sheetPicker - Interactive worksheet selection
// =============================================================================

// sheetPicker is the bubbletea model for picking a workbook sheet. An empty
// selected field after the program ends means the user aborted.
type sheetPicker struct {
	sheets   []string
	cursor   int
	selected string
}

// newSheetPicker creates a picker over the workbook's sheet names.
func newSheetPicker(sheets []string) sheetPicker {
	return sheetPicker{sheets: sheets}
}

func (m sheetPicker) Init() tea.Cmd {
	return nil
}

func (m sheetPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.sheets)-1 {
				m.cursor++
			}
		case "enter":
			m.selected = m.sheets[m.cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m sheetPicker) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Worksheet"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, name := range m.sheets {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		line := cursor + name
		if i == m.cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.sheets))))

	return b.String()
}
