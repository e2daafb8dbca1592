package live

import (
	"bflowdash/internal/dashboard"
	"bflowdash/internal/dispatch"
)

// EventKind identifies the type of live UI event.
type EventKind int

const (
	// EventPane delivers the outcome of one fetch.
	EventPane EventKind = iota
	// EventListSelected signals that another list type is now shown.
	EventListSelected
	// EventCommand delivers a command status line.
	EventCommand
)

// Event carries a UI update payload.
type Event struct {
	Kind     EventKind
	Update   dashboard.Update
	ListType string
	Target   dispatch.Target
	Message  string
}
