package live

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Actions are the commands reachable from the keyboard. Implementations may
// block; they run off the UI goroutine.
type Actions interface {
	RunFlow(ctx context.Context)
	AppendEntry(ctx context.Context, raw string)
	UploadFile(ctx context.Context, path string)
	NextListType(ctx context.Context)
}

// promptKind identifies the open input prompt.
type promptKind int

const (
	promptNone promptKind = iota
	promptAppend
	promptUpload
)

// Model renders the dashboard using Bubble Tea.
type Model struct {
	state        State
	steps        table.Model
	logs         viewport.Model
	input        textinput.Model
	prompt       promptKind
	actions      Actions
	ctx          context.Context
	events       <-chan Event
	tickInterval time.Duration
	now          time.Time
	noColor      bool
	baseURL      string
}

// Options configures the live UI model.
type Options struct {
	NoColor      bool
	TickInterval time.Duration
	BaseURL      string
	ListType     string
	Context      context.Context
}

// NewModel constructs a live UI model for an event stream.
func NewModel(events <-chan Event, actions Actions, opts Options) Model {
	tickInterval := opts.TickInterval
	if tickInterval <= 0 {
		tickInterval = time.Second
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	steps := table.New(
		table.WithColumns(stepColumns(0)),
		table.WithRows([]table.Row{}),
		table.WithFocused(false),
		table.WithHeight(8),
	)
	steps.SetStyles(tableStyles(opts.NoColor))
	logs := viewport.New(80, 8)
	input := textinput.New()
	input.CharLimit = 2048
	input.Cursor.SetMode(cursor.CursorStatic)
	return Model{
		state:        State{ListType: opts.ListType},
		steps:        steps,
		logs:         logs,
		input:        input,
		actions:      actions,
		ctx:          ctx,
		events:       events,
		tickInterval: tickInterval,
		now:          time.Now(),
		noColor:      opts.NoColor,
		baseURL:      opts.BaseURL,
	}
}

// Init starts ticking and waits for the first event.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.events), tick(m.tickInterval))
}

// Update consumes UI events, keys and timer ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.steps.SetWidth(typed.Width)
		m.steps.SetColumns(stepColumns(typed.Width))
		m.logs.Width = typed.Width
		m.logs.Height = max(typed.Height/3, 3)
		return m, nil
	case tea.KeyMsg:
		if m.prompt != promptNone {
			return m.updatePrompt(typed)
		}
		return m.updateKeys(typed)
	case EventMsg:
		m = applyEvent(m, typed.Event)
		return m, waitForEvent(m.events)
	case tickMsg:
		m.now = time.Time(typed)
		return m, tick(m.tickInterval)
	}
	return m, nil
}

// updateKeys handles keys while no prompt is open.
func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		return m, m.action(func(ctx context.Context, a Actions) { a.RunFlow(ctx) })
	case "t", "tab":
		return m, m.action(func(ctx context.Context, a Actions) { a.NextListType(ctx) })
	case "a":
		return m.openPrompt(promptAppend, "append to "+m.state.ListType+": ", "https://…")
	case "u":
		return m.openPrompt(promptUpload, "upload to "+m.state.ListType+" from file: ", "path/to/list.txt")
	}
	var cmd tea.Cmd
	m.logs, cmd = m.logs.Update(msg)
	return m, cmd
}

// updatePrompt feeds keys to the open prompt.
func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m = m.closePrompt()
		return m, nil
	case tea.KeyEnter:
		kind, value := m.prompt, m.input.Value()
		m = m.closePrompt()
		switch kind {
		case promptAppend:
			return m, m.action(func(ctx context.Context, a Actions) { a.AppendEntry(ctx, value) })
		case promptUpload:
			path := strings.TrimSpace(value)
			if path == "" {
				return m, nil
			}
			return m, m.action(func(ctx context.Context, a Actions) { a.UploadFile(ctx, path) })
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// openPrompt focuses the input for a command.
func (m Model) openPrompt(kind promptKind, prompt, hint string) (tea.Model, tea.Cmd) {
	m.prompt = kind
	m.input.Reset()
	m.input.Prompt = prompt
	m.input.Placeholder = hint
	return m, m.input.Focus()
}

// closePrompt hides the input.
func (m Model) closePrompt() Model {
	m.prompt = promptNone
	m.input.Blur()
	m.input.Reset()
	return m
}

// action wraps a command so it runs off the UI goroutine.
func (m Model) action(fn func(context.Context, Actions)) tea.Cmd {
	if m.actions == nil {
		return nil
	}
	ctx, actions := m.ctx, m.actions
	return func() tea.Msg {
		fn(ctx, actions)
		return nil
	}
}

// View renders the live UI.
func (m Model) View() string {
	prompt := ""
	if m.prompt != promptNone {
		prompt = m.input.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		renderHeader(m.baseURL, m.state, m.now, m.noColor),
		renderPane("Status", m.state.Status, placeholder(m.state.Status), m.noColor),
		renderPane("Steps", m.state.Steps, m.steps.View(), m.noColor),
		renderPane("Logs", m.state.Logs, m.logs.View(), m.noColor),
		renderPane(listTitle(m.state.ListType), m.state.List, placeholder(m.state.List), m.noColor),
		renderCommands(m.state, m.noColor),
		renderFooter(prompt, m.noColor),
	)
}

// State returns the reduced view state.
func (m Model) State() State {
	return m.state
}

// EventMsg wraps a UI event for Bubble Tea.
type EventMsg struct {
	Event Event
}

// tickMsg carries a clock tick for updates.
type tickMsg time.Time

// waitForEvent blocks until a UI event is available.
func waitForEvent(events <-chan Event) tea.Cmd {
	return func() tea.Msg {
		if events == nil {
			return nil
		}
		event, ok := <-events
		if !ok {
			return tea.Quit()
		}
		return EventMsg{Event: event}
	}
}

// tick emits a periodic tick message.
func tick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// applyEvent reduces an event and syncs the widgets that hold content.
func applyEvent(model Model, event Event) Model {
	before := model.state
	model.state = Reduce(model.state, event)
	if model.state.Steps.Text != before.Steps.Text {
		model.steps.SetRows(stepRows(model.state.Steps.Text, model.noColor))
	}
	if model.state.Logs.Text != before.Logs.Text {
		model.logs.SetContent(model.state.Logs.Text)
		model.logs.GotoBottom()
	}
	return model
}
