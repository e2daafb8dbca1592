package live

import (
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// formatAge renders how long ago t was, relative to now.
func formatAge(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	if now.Before(t) {
		now = t
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// stylizeGlyph colors a step marker.
func stylizeGlyph(glyph string, noColor bool) string {
	if noColor {
		return glyph
	}
	return glyphStyle(glyph).Render(glyph)
}

// glyphStyle selects a style for a step marker.
func glyphStyle(glyph string) lipgloss.Style {
	color := lipgloss.Color("244")
	switch glyph {
	case "[x]":
		color = lipgloss.Color("42")
	case "[>]":
		color = lipgloss.Color("33")
	case "[!]":
		color = lipgloss.Color("196")
	case "[-]", "[ ]":
		color = lipgloss.Color("246")
	case "[?]":
		color = lipgloss.Color("220")
	}
	return lipgloss.NewStyle().Foreground(color)
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor || text == "" {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}

// stylizeTitle renders a pane title.
func stylizeTitle(text string, noColor bool) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")).Render(text)
}
