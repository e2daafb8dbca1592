package live

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"bflowdash/internal/dashboard"
	"bflowdash/internal/dispatch"
	"bflowdash/internal/testutil"
)

// fakeActions records the commands the model triggers.
type fakeActions struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeActions) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeActions) RunFlow(context.Context)                 { f.record("run") }
func (f *fakeActions) AppendEntry(_ context.Context, raw string) { f.record("append " + raw) }
func (f *fakeActions) UploadFile(_ context.Context, path string) { f.record("upload " + path) }
func (f *fakeActions) NextListType(context.Context)            { f.record("next") }

func (f *fakeActions) get() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// press feeds a key to the model and runs the returned command.
func press(t *testing.T, model Model, key tea.KeyMsg) Model {
	t.Helper()
	next, cmd := model.Update(key)
	if cmd != nil {
		cmd()
	}
	return next.(Model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelKeysTriggerActions(t *testing.T) {
	testutil.RunWithTimeout(t, time.Second, func() {
		actions := &fakeActions{}
		model := NewModel(nil, actions, Options{NoColor: true, ListType: "domains"})
		model = press(t, model, runes("r"))
		model = press(t, model, runes("t"))
		_ = press(t, model, tea.KeyMsg{Type: tea.KeyTab})

		got := strings.Join(actions.get(), ",")
		if got != "run,next,next" {
			t.Fatalf("unexpected actions %q", got)
		}
	})
}

func TestModelAppendPrompt(t *testing.T) {
	testutil.RunWithTimeout(t, time.Second, func() {
		actions := &fakeActions{}
		model := NewModel(nil, actions, Options{NoColor: true, ListType: "domains"})
		model = press(t, model, runes("a"))
		if !strings.Contains(model.View(), "append to domains") {
			t.Fatalf("expected append prompt, got %q", model.View())
		}
		for _, r := range "https://q.example" {
			model = press(t, model, runes(string(r)))
		}
		model = press(t, model, tea.KeyMsg{Type: tea.KeyEnter})

		if got := actions.get(); len(got) != 1 || got[0] != "append https://q.example" {
			t.Fatalf("unexpected actions %v", got)
		}
		if model.prompt != promptNone {
			t.Fatalf("expected prompt closed")
		}
	})
}

func TestModelUploadPromptCancel(t *testing.T) {
	testutil.RunWithTimeout(t, time.Second, func() {
		actions := &fakeActions{}
		model := NewModel(nil, actions, Options{NoColor: true, ListType: "ips"})
		model = press(t, model, runes("u"))
		model = press(t, model, runes("x"))
		model = press(t, model, tea.KeyMsg{Type: tea.KeyEsc})
		model = press(t, model, runes("u"))
		model = press(t, model, tea.KeyMsg{Type: tea.KeyEnter})

		if got := actions.get(); len(got) != 0 {
			t.Fatalf("expected no upload, got %v", got)
		}
		_ = model
	})
}

func TestModelViewShowsPanes(t *testing.T) {
	testutil.RunWithTimeout(t, time.Second, func() {
		model := NewModel(nil, nil, Options{NoColor: true, BaseURL: "http://backend:8080", ListType: "domains"})
		now := time.Now()
		events := []Event{
			pane(dashboard.PaneStatus, "idle", nil, now),
			pane(dashboard.PaneSteps, "[x] a\n[>] Build", nil, now),
			pane(dashboard.PaneLogs, "l1\nl2", nil, now),
			listUpdate("domains", "https://a.example", now),
			{Kind: EventCommand, Target: dispatch.TargetRun, Message: "Flow queued"},
		}
		for _, event := range events {
			next, _ := model.Update(EventMsg{Event: event})
			model = next.(Model)
		}
		view := model.View()
		for _, want := range []string{"http://backend:8080", "idle", "Build", "l2", "List [domains]", "https://a.example", "run: Flow queued", helpLine} {
			if !strings.Contains(view, want) {
				t.Fatalf("expected view to contain %q, got:\n%s", want, view)
			}
		}
	})
}

func TestControllerIgnoresSendsAfterClose(t *testing.T) {
	testutil.RunWithTimeout(t, time.Second, func() {
		controller := NewController()
		controller.ListSelected("domains")
		controller.Close()
		controller.Close()
		controller.PaneUpdated(dashboard.Update{Pane: dashboard.PaneStatus, Text: "idle"})
		controller.CommandStatus(dispatch.TargetRun, "Flow queued")

		var got []Event
		for event := range controller.events {
			got = append(got, event)
		}
		if len(got) != 1 || got[0].Kind != EventListSelected {
			t.Fatalf("expected only the event sent before close, got %+v", got)
		}
	})
}
