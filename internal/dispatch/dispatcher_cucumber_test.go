package dispatch

import (
	"context"
	"fmt"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cucumber/godog"

	"bflowdash/internal/testutil"
	"bflowdash/pkg/flowclient"
)

// TestCommandFeatures executes the command scenarios via godog.
func TestCommandFeatures(t *testing.T) {
	suite := godog.TestSuite{
		Name: "commands",
		ScenarioInitializer: func(ctx *godog.ScenarioContext) {
			initializeScenario(t, ctx)
		},
		Options: &godog.Options{
			Format:    "pretty",
			Paths:     []string{filepath.Join("testdata", "commands.feature")},
			Strict:    true,
			TestingT:  t,
			Randomize: 0,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

// commandState holds scenario state for the command feature tests.
type commandState struct {
	t         *testing.T
	backend   *testutil.BackendInstance
	statuses  *statusLog
	refreshes *refreshLog
	dispatch  *Dispatcher
}

// initializeScenario wires step definitions for the command feature tests.
func initializeScenario(t *testing.T, ctx *godog.ScenarioContext) {
	state := &commandState{t: t}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		state.reset()
		return ctx, nil
	})
	ctx.After(func(ctx context.Context, _ *godog.Scenario, _ error) (context.Context, error) {
		state.close()
		return ctx, nil
	})

	ctx.Step(`^the backend is healthy$`, state.backendIsHealthy)
	ctx.Step(`^the backend answers "([^"]+)" with status (\d+) and body "([^"]*)"$`, state.backendAnswers)
	ctx.Step(`^a run is already active$`, state.runIsActive)
	ctx.Step(`^I append "([^"]*)" to the "([^"]+)" list$`, state.appendEntry)
	ctx.Step(`^I upload "([^"]+)" to the "([^"]+)" list$`, state.upload)
	ctx.Step(`^I request a run$`, state.requestRun)
	ctx.Step(`^the "([^"]+)" status is "([^"]*)"$`, state.statusIs)
	ctx.Step(`^the backend received (\d+) append requests?$`, state.appendRequests)
	ctx.Step(`^the refreshed channels are "([^"]+)"$`, state.refreshedChannels)
	ctx.Step(`^no channel was refreshed$`, state.noRefresh)
}

// reset starts a fresh backend and dispatcher.
func (s *commandState) reset() {
	s.close()
	backend := testutil.NewBackend()
	server := httptest.NewServer(backend)
	s.backend = &testutil.BackendInstance{Backend: backend, BaseURL: server.URL, Close: server.Close}
	s.statuses = newStatusLog()
	s.refreshes = &refreshLog{}
	s.dispatch = New(flowclient.New(s.backend.BaseURL), s.refreshes, s.statuses, nil)
}

// close shuts the backend down.
func (s *commandState) close() {
	if s.backend != nil {
		s.backend.Close()
		s.backend = nil
	}
}

func (s *commandState) ctx() context.Context {
	return testutil.Context(s.t, 2*time.Second)
}

func (s *commandState) backendIsHealthy() error {
	return nil
}

func (s *commandState) backendAnswers(path string, status int, body string) error {
	s.backend.Fail(path, status, body)
	return nil
}

func (s *commandState) runIsActive() error {
	s.backend.SetStatus(flowclient.RunStatus{Running: true, Status: "running"})
	return nil
}

func (s *commandState) appendEntry(entry, listType string) error {
	_, _ = s.dispatch.AppendListEntry(s.ctx(), listType, entry)
	return nil
}

func (s *commandState) upload(filename, listType string) error {
	_, _ = s.dispatch.Upload(s.ctx(), UploadRequest{
		ListType: listType,
		Filename: filename,
		Content:  strings.NewReader("a.example\n"),
	})
	return nil
}

func (s *commandState) requestRun() error {
	_, _ = s.dispatch.RunFlow(s.ctx(), flowclient.RunRequest{})
	return nil
}

func (s *commandState) statusIs(target, want string) error {
	messages := s.statuses.get(Target(target))
	if len(messages) == 0 {
		return fmt.Errorf("no %s status published", target)
	}
	if got := messages[len(messages)-1]; got != want {
		return fmt.Errorf("expected %s status %q, got %q", target, want, got)
	}
	return nil
}

func (s *commandState) appendRequests(count int) error {
	if got := len(s.backend.Appends()); got != count {
		return fmt.Errorf("expected %d append requests, got %d", count, got)
	}
	return nil
}

func (s *commandState) refreshedChannels(names string) error {
	want := strings.Split(names, ",")
	if got := s.refreshes.get(); !equalStrings(got, want) {
		return fmt.Errorf("expected refreshes %v, got %v", want, got)
	}
	return nil
}

func (s *commandState) noRefresh() error {
	if got := s.refreshes.get(); len(got) != 0 {
		return fmt.Errorf("expected no refresh, got %v", got)
	}
	return nil
}
