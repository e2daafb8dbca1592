package poll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Runner is a repeating synchronization task owned by a Scheduler.
type Runner interface {
	Run(ctx context.Context) error
	Refresh(ctx context.Context)
	Stop()
}

// OneShotFunc performs an ad hoc fetch for the key that follows its prefix.
type OneShotFunc func(ctx context.Context, key string)

// Scheduler owns the active channels and routes on-demand refreshes.
type Scheduler struct {
	logger *slog.Logger

	mu       sync.Mutex
	channels map[string]Runner
	oneShots map[string]OneShotFunc
	started  bool
	stopped  bool
	runCtx   context.Context
	cancel   context.CancelFunc
	group    *errgroup.Group
	adhoc    sync.WaitGroup
}

// NewScheduler creates an empty scheduler.
func NewScheduler(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scheduler{
		logger:   logger,
		channels: map[string]Runner{},
		oneShots: map[string]OneShotFunc{},
	}
}

// Register adds a persistent channel under name.
func (s *Scheduler) Register(name string, runner Runner) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(name) == "" {
		return errors.New("channel name is required")
	}
	if _, exists := s.channels[name]; exists {
		return fmt.Errorf("channel %q already registered", name)
	}
	if s.started {
		return fmt.Errorf("cannot register %q after start", name)
	}
	s.channels[name] = runner
	return nil
}

// RegisterOneShot routes refreshes of names starting with prefix to fn.
func (s *Scheduler) RegisterOneShot(prefix string, fn OneShotFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.oneShots[prefix] = fn
}

// Names lists the registered channels in sorted order.
func (s *Scheduler) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.channels))
	for name := range s.channels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Start launches every registered channel.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return errors.New("scheduler already started")
	}
	s.started = true
	runCtx, cancel := context.WithCancel(ctx)
	group, groupCtx := errgroup.WithContext(runCtx)
	s.runCtx = runCtx
	s.cancel = cancel
	s.group = group
	for name, runner := range s.channels {
		s.logger.Debug("starting channel", "channel", name)
		group.Go(func() error {
			return runner.Run(groupCtx)
		})
	}
	return nil
}

// Refresh forces one immediate fetch for name. Persistent channels keep their
// timers and one-shot prefixes run their ad hoc fetch, cancelled by Stop.
// Anything else is ignored. It reports whether a fetch was started.
func (s *Scheduler) Refresh(ctx context.Context, name string) bool {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return false
	}
	runner, ok := s.channels[name]
	if ok {
		s.mu.Unlock()
		runner.Refresh(ctx)
		return true
	}
	fn, key, ok := s.matchOneShot(name)
	if !ok {
		s.mu.Unlock()
		s.logger.Debug("refresh ignored for unknown channel", "channel", name)
		return false
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	detach := func() bool { return false }
	if s.runCtx != nil {
		detach = context.AfterFunc(s.runCtx, cancel)
	}
	s.adhoc.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.adhoc.Done()
		defer cancel()
		defer detach()
		fn(fetchCtx, key)
	}()
	return true
}

// Stop cancels every channel and waits for the loops and ad hoc fetches to
// return.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	for _, runner := range s.channels {
		runner.Stop()
	}
	cancel := s.cancel
	group := s.group
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	var err error
	if group != nil {
		err = group.Wait()
	}
	s.adhoc.Wait()
	return err
}

// matchOneShot finds the longest registered prefix for name. Callers hold mu.
func (s *Scheduler) matchOneShot(name string) (OneShotFunc, string, bool) {
	var (
		best    string
		bestFn  OneShotFunc
		matched bool
	)
	for prefix, fn := range s.oneShots {
		if !strings.HasPrefix(name, prefix) || len(prefix) < len(best) {
			continue
		}
		best, bestFn, matched = prefix, fn, true
	}
	if !matched {
		return nil, "", false
	}
	return bestFn, strings.TrimPrefix(name, best), true
}
