package live

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// stepColumns returns the steps table columns for a terminal width.
func stepColumns(width int) []table.Column {
	name := 40
	if width > 0 {
		name = max(width-12, 10)
	}
	return []table.Column{
		{Title: "", Width: 3},
		{Title: "Step", Width: name},
	}
}

// tableStyles returns table styles for the UI.
func tableStyles(noColor bool) table.Styles {
	styles := table.DefaultStyles()
	styles.Selected = lipgloss.NewStyle()
	if noColor {
		return styles
	}
	styles.Header = styles.Header.Foreground(lipgloss.Color("252"))
	return styles
}

// stepRows splits the rendered step lines into glyph and name cells.
func stepRows(text string, noColor bool) []table.Row {
	if strings.TrimSpace(text) == "" {
		return []table.Row{}
	}
	lines := strings.Split(text, "\n")
	rows := make([]table.Row, 0, len(lines))
	for _, line := range lines {
		glyph, name, ok := strings.Cut(line, " ")
		if !ok {
			glyph, name = "", line
		}
		rows = append(rows, table.Row{stylizeGlyph(glyph, noColor), name})
	}
	return rows
}
