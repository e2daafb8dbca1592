package poll

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"bflowdash/internal/testutil"
)

// fakeRunner counts scheduler interactions.
type fakeRunner struct {
	runs      atomic.Int32
	refreshes atomic.Int32
	stops     atomic.Int32
	stopCh    chan struct{}
	stopOnce  sync.Once
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{stopCh: make(chan struct{})}
}

func (f *fakeRunner) Run(ctx context.Context) error {
	f.runs.Add(1)
	select {
	case <-ctx.Done():
	case <-f.stopCh:
	}
	return nil
}

func (f *fakeRunner) Refresh(context.Context) {
	f.refreshes.Add(1)
}

func (f *fakeRunner) Stop() {
	f.stops.Add(1)
	f.stopOnce.Do(func() { close(f.stopCh) })
}

func TestSchedulerStartsEveryChannel(t *testing.T) {
	testutil.RunWithTimeout(t, 2*time.Second, func() {
		s := NewScheduler(nil)
		status, steps := newFakeRunner(), newFakeRunner()
		if err := s.Register("status", status); err != nil {
			t.Fatalf("register: %v", err)
		}
		if err := s.Register("steps", steps); err != nil {
			t.Fatalf("register: %v", err)
		}
		if err := s.Register("steps", newFakeRunner()); err == nil {
			t.Fatalf("expected duplicate registration error")
		}
		if err := s.Start(context.Background()); err != nil {
			t.Fatalf("start: %v", err)
		}
		if err := s.Start(context.Background()); err == nil {
			t.Fatalf("expected second start to fail")
		}
		testutil.Eventually(t, time.Second, 5*time.Millisecond, func() bool {
			return status.runs.Load() == 1 && steps.runs.Load() == 1
		}, "expected both channels to run")
		if err := s.Stop(); err != nil {
			t.Fatalf("stop: %v", err)
		}
		if status.stops.Load() != 1 || steps.stops.Load() != 1 {
			t.Fatalf("expected every channel stopped")
		}
	})
}

func TestSchedulerRefreshTargetsOneChannel(t *testing.T) {
	s := NewScheduler(nil)
	status, logs := newFakeRunner(), newFakeRunner()
	_ = s.Register("status", status)
	_ = s.Register("logs", logs)

	if !s.Refresh(context.Background(), "logs") {
		t.Fatalf("expected refresh to start a fetch")
	}
	if logs.refreshes.Load() != 1 || status.refreshes.Load() != 0 {
		t.Fatalf("expected only logs refreshed, got logs=%d status=%d", logs.refreshes.Load(), status.refreshes.Load())
	}
	if s.Refresh(context.Background(), "missing") {
		t.Fatalf("expected unknown channel refresh to be a no-op")
	}
	if got := s.Names(); len(got) != 2 || got[0] != "logs" || got[1] != "status" {
		t.Fatalf("unexpected names %v", got)
	}
}

func TestSchedulerRefreshRoutesOneShotPrefix(t *testing.T) {
	testutil.RunWithTimeout(t, 2*time.Second, func() {
		s := NewScheduler(nil)
		keys := make(chan string, 1)
		s.RegisterOneShot("list:", func(_ context.Context, key string) {
			keys <- key
		})
		if !s.Refresh(context.Background(), "list:domains") {
			t.Fatalf("expected one-shot refresh to start")
		}
		if key := <-keys; key != "domains" {
			t.Fatalf("expected key domains, got %q", key)
		}
		if err := s.Stop(); err != nil {
			t.Fatalf("stop: %v", err)
		}
		if s.Refresh(context.Background(), "list:ips") {
			t.Fatalf("expected refresh after stop to be ignored")
		}
	})
}

func TestSchedulerStopCancelsOneShot(t *testing.T) {
	testutil.RunWithTimeout(t, 2*time.Second, func() {
		s := NewScheduler(nil)
		started := make(chan struct{})
		s.RegisterOneShot("list:", func(ctx context.Context, _ string) {
			close(started)
			<-ctx.Done()
		})
		if err := s.Start(context.Background()); err != nil {
			t.Fatalf("start: %v", err)
		}
		s.Refresh(context.Background(), "list:domains")
		<-started
		if err := s.Stop(); err != nil {
			t.Fatalf("stop: %v", err)
		}
	})
}
