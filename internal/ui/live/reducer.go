package live

import (
	"maps"

	"bflowdash/internal/dashboard"
	"bflowdash/internal/dispatch"
)

// Reduce applies a UI event to the state.
func Reduce(state State, event Event) State {
	switch event.Kind {
	case EventPane:
		return applyUpdate(state, event.Update)
	case EventListSelected:
		state.ListType = event.ListType
		state.List = PaneState{Text: LoadingText}
	case EventCommand:
		state.Commands = withCommand(state.Commands, event.Target, event.Message)
	}
	return state
}

// applyUpdate routes a pane update to its pane.
func applyUpdate(state State, update dashboard.Update) State {
	switch update.Pane {
	case dashboard.PaneStatus:
		state.Status = applyPane(state.Status, update)
	case dashboard.PaneSteps:
		state.Steps = applyPane(state.Steps, update)
	case dashboard.PaneLogs:
		state.Logs = applyPane(state.Logs, update)
	case dashboard.PaneList:
		if update.ListType != state.ListType {
			return state
		}
		state.List = applyPane(state.List, update)
	default:
		return state
	}
	if update.At.After(state.LastAt) {
		state.LastAt = update.At
	}
	return state
}

// applyPane records a success or a failure. A failure never touches the
// rendered text.
func applyPane(pane PaneState, update dashboard.Update) PaneState {
	if update.Failed() {
		pane.Err = update.Annotation()
		pane.FailedAt = update.At
		return pane
	}
	pane.Text = update.Text
	pane.HasValue = true
	pane.UpdatedAt = update.At
	return pane
}

// withCommand returns a copy of commands with target set to message.
func withCommand(commands map[dispatch.Target]string, target dispatch.Target, message string) map[dispatch.Target]string {
	next := make(map[dispatch.Target]string, len(commands)+1)
	maps.Copy(next, commands)
	next[target] = message
	return next
}
