package render

import (
	"strings"

	"bflowdash/pkg/flowclient"
)

// Placeholders shown when a resource has nothing to display.
const (
	LogsPlaceholder    = "Waiting for logs…"
	EntriesPlaceholder = "No entries yet."
	UnnamedStep        = "(unnamed step)"
)

// Status renders the run status line.
func Status(status flowclient.RunStatus) string {
	if status.Running {
		return "running (" + status.Status + ")"
	}
	return status.Status
}

// StepGlyph returns the fixed-width marker for a step state.
func StepGlyph(status flowclient.StepStatus) string {
	switch status {
	case flowclient.StepPending:
		return "[ ]"
	case flowclient.StepRunning:
		return "[>]"
	case flowclient.StepDone:
		return "[x]"
	case flowclient.StepError:
		return "[!]"
	case flowclient.StepSkipped:
		return "[-]"
	default:
		return "[?]"
	}
}

// StepName picks the label, then the id, then a placeholder.
func StepName(step flowclient.Step) string {
	if label := strings.TrimSpace(step.Label); label != "" {
		return label
	}
	if id := strings.TrimSpace(step.ID); id != "" {
		return id
	}
	return UnnamedStep
}

// Steps renders one line per step in server order.
func Steps(steps []flowclient.Step) []string {
	lines := make([]string, 0, len(steps))
	for _, step := range steps {
		lines = append(lines, StepGlyph(step.Status)+" "+StepName(step))
	}
	return lines
}

// StepsText joins the step lines.
func StepsText(steps []flowclient.Step) string {
	return strings.Join(Steps(steps), "\n")
}

// Logs joins the log tail, oldest first.
func Logs(lines []string) string {
	if len(lines) == 0 {
		return LogsPlaceholder
	}
	return strings.Join(lines, "\n")
}

// Entries joins list entries.
func Entries(entries []string) string {
	if len(entries) == 0 {
		return EntriesPlaceholder
	}
	return strings.Join(entries, "\n")
}
