package live

import (
	"time"

	"bflowdash/internal/dispatch"
)

// LoadingText is shown in the list pane until the selected list arrives.
const LoadingText = "Loading…"

// PaneState holds the last good render of a pane and its latest error.
type PaneState struct {
	Text      string
	HasValue  bool
	UpdatedAt time.Time
	Err       string
	FailedAt  time.Time
}

// Stale reports whether the latest fetch failed after the last success.
func (p PaneState) Stale() bool {
	return p.Err != "" && p.FailedAt.After(p.UpdatedAt)
}

// State captures everything the dashboard view shows.
type State struct {
	Status   PaneState
	Steps    PaneState
	Logs     PaneState
	List     PaneState
	ListType string
	Commands map[dispatch.Target]string
	LastAt   time.Time
}
