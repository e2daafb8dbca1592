package poll

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultInterval is used when a channel is configured without a cadence.
const DefaultInterval = 3 * time.Second

// FetchFunc reads one snapshot of a backend resource.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Config describes one polling channel.
type Config[T any] struct {
	Fetch     FetchFunc[T]
	Interval  time.Duration
	OnSuccess func(T)
	OnError   func(error)
	Logger    *slog.Logger
	Now       func() time.Time
}

// State is a copy of a channel's last outcomes. A failure never clears Value.
type State[T any] struct {
	Value       T
	HasValue    bool
	Err         error
	SucceededAt time.Time
	FailedAt    time.Time
	Fetches     int
}

// Stale reports whether the most recent completed fetch failed.
func (s State[T]) Stale() bool {
	return s.Err != nil && !s.FailedAt.Before(s.SucceededAt)
}

// Channel repeatedly fetches one resource on a fixed-rate timer. Ticks are not
// serialized: a slow fetch neither delays the next tick nor blocks it, and
// whichever fetch completes last wins.
type Channel[T any] struct {
	name      string
	fetch     FetchFunc[T]
	interval  time.Duration
	onSuccess func(T)
	onError   func(error)
	logger    *slog.Logger
	now       func() time.Time

	mu    sync.Mutex
	state State[T]

	stopCh   chan struct{}
	stopOnce sync.Once
	stopped  atomic.Bool
	inflight sync.WaitGroup
}

// NewChannel constructs a channel. It does nothing until Run or Refresh.
func NewChannel[T any](name string, cfg Config[T]) *Channel[T] {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.OnSuccess == nil {
		cfg.OnSuccess = func(T) {}
	}
	if cfg.OnError == nil {
		cfg.OnError = func(error) {}
	}
	return &Channel[T]{
		name:      name,
		fetch:     cfg.Fetch,
		interval:  cfg.Interval,
		onSuccess: cfg.OnSuccess,
		onError:   cfg.OnError,
		logger:    cfg.Logger.With("channel", name),
		now:       cfg.Now,
		stopCh:    make(chan struct{}),
	}
}

// Name returns the channel name.
func (c *Channel[T]) Name() string {
	return c.name
}

// Interval returns the tick cadence.
func (c *Channel[T]) Interval() time.Duration {
	return c.interval
}

// Run fetches immediately and then on every tick until ctx is done or Stop
// is called.
func (c *Channel[T]) Run(ctx context.Context) error {
	if c.stopped.Load() {
		return nil
	}
	c.logger.Debug("channel started", "interval", c.interval)
	c.launch(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			c.Stop()
			return nil
		case <-c.stopCh:
			return nil
		case <-ticker.C:
			c.launch(ctx)
		}
	}
}

// Refresh starts one out-of-band fetch without touching the timer.
func (c *Channel[T]) Refresh(ctx context.Context) {
	if c.stopped.Load() {
		return
	}
	c.launch(ctx)
}

// Stop ends ticking. Fetches already in flight complete, but their outcomes
// are dropped.
func (c *Channel[T]) Stop() {
	c.stopOnce.Do(func() {
		c.stopped.Store(true)
		close(c.stopCh)
		c.logger.Debug("channel stopped")
	})
}

// Wait blocks until every in-flight fetch has returned.
func (c *Channel[T]) Wait() {
	c.inflight.Wait()
}

// State returns a copy of the current channel state.
func (c *Channel[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// launch runs a single fetch on its own goroutine.
func (c *Channel[T]) launch(ctx context.Context) {
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		c.fetchOnce(ctx)
	}()
}

// fetchOnce performs one fetch and applies its outcome.
func (c *Channel[T]) fetchOnce(ctx context.Context) {
	value, err := c.fetch(ctx)
	if c.stopped.Load() {
		c.logger.Debug("dropping result of stopped channel", "error", err)
		return
	}

	c.mu.Lock()
	c.state.Fetches++
	if err != nil {
		c.state.Err = err
		c.state.FailedAt = c.now()
	} else {
		c.state.Value = value
		c.state.HasValue = true
		c.state.SucceededAt = c.now()
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("fetch failed", "error", err)
		c.onError(err)
		return
	}
	c.onSuccess(value)
}
