package live

import (
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"bflowdash/internal/dashboard"
	"bflowdash/internal/dispatch"
)

// Controller runs the live UI and implements dashboard.Sink.
type Controller struct {
	mu      sync.Mutex
	closed  bool
	events  chan Event
	program *tea.Program
	done    chan struct{}
}

// NewController returns a controller that buffers sink events until Start.
func NewController() *Controller {
	return &Controller{
		events: make(chan Event, 256),
		done:   make(chan struct{}),
	}
}

// Start launches the live UI writing to stdout. Keyboard commands go to
// actions.
func (c *Controller) Start(stdout io.Writer, actions Actions, opts Options) {
	if stdout == nil {
		stdout = os.Stdout
	}
	model := NewModel(c.events, actions, opts)
	c.program = tea.NewProgram(model, tea.WithOutput(stdout), tea.WithAltScreen())
	go func() {
		defer close(c.done)
		_, _ = c.program.Run()
	}()
}

// Close signals the UI to stop. Later sink calls are ignored.
func (c *Controller) Close() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.events)
}

// Done is closed once the UI has exited, including when the user quits.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until the UI has exited.
func (c *Controller) Wait() {
	if c == nil {
		return
	}
	<-c.done
}

// PaneUpdated forwards a fetch outcome to the UI.
func (c *Controller) PaneUpdated(update dashboard.Update) {
	c.send(Event{Kind: EventPane, Update: update})
}

// ListSelected forwards a list type switch to the UI.
func (c *Controller) ListSelected(listType string) {
	c.send(Event{Kind: EventListSelected, ListType: listType})
}

// CommandStatus forwards a command status line to the UI.
func (c *Controller) CommandStatus(target dispatch.Target, message string) {
	c.send(Event{Kind: EventCommand, Target: target, Message: message})
}

// send enqueues an event without blocking the caller. Sends after Close are
// dropped.
func (c *Controller) send(event Event) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.events <- event:
	default:
	}
}
