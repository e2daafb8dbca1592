package live

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"bflowdash/internal/dispatch"
)

const helpLine = "r run | a append | u upload | t next list | q quit"

// renderHeader renders the backend and freshness line.
func renderHeader(baseURL string, state State, now time.Time, noColor bool) string {
	line := "bflowdash"
	if baseURL != "" {
		line += " | " + baseURL
	}
	line += " | updated " + formatAge(state.LastAt, now)
	return stylize(line, noColor, lipgloss.Color("33"))
}

// renderPane renders a titled pane with its error annotation.
func renderPane(title string, pane PaneState, body string, noColor bool) string {
	lines := []string{stylizeTitle(title, noColor), body}
	if pane.Stale() {
		lines = append(lines, stylize(pane.Err, noColor, lipgloss.Color("196")))
	}
	return strings.Join(lines, "\n")
}

// renderCommands renders one line per command that has reported.
func renderCommands(state State, noColor bool) string {
	var lines []string
	for _, target := range []dispatch.Target{dispatch.TargetUpload, dispatch.TargetAppend, dispatch.TargetRun} {
		message, ok := state.Commands[target]
		if !ok {
			continue
		}
		lines = append(lines, string(target)+": "+message)
	}
	return stylize(strings.Join(lines, "\n"), noColor, lipgloss.Color("244"))
}

// renderFooter renders the prompt when one is open, otherwise the key help.
func renderFooter(prompt string, noColor bool) string {
	if prompt != "" {
		return prompt
	}
	return stylize(helpLine, noColor, lipgloss.Color("240"))
}

// listTitle names the list pane after its type.
func listTitle(listType string) string {
	if listType == "" {
		return "List"
	}
	return "List [" + listType + "]"
}

// placeholder returns text, or "Loading…" before the first value.
func placeholder(pane PaneState) string {
	if !pane.HasValue && pane.Text == "" {
		return LoadingText
	}
	return pane.Text
}
