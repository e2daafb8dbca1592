package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"bflowdash/internal/dispatch"
	"bflowdash/internal/poll"
	"bflowdash/internal/render"
	"bflowdash/pkg/flowclient"
)

// Pane identifies one area of the dashboard.
type Pane string

const (
	PaneStatus Pane = "status"
	PaneSteps  Pane = "steps"
	PaneLogs   Pane = "logs"
	PaneList   Pane = "list"
)

// Default cadences of the persistent channels.
const (
	DefaultStatusInterval = 5 * time.Second
	DefaultStepsInterval  = 3 * time.Second
	DefaultLogsInterval   = 3 * time.Second
)

// DefaultListTypes are the lists the backend knows about.
var DefaultListTypes = []string{"organizations", "ips", "wildcards", "domains", "apidomains", "out_of_scope"}

// Update is the outcome of one fetch for a pane. Exactly one of Text or Err
// is meaningful; a failed update never carries replacement text.
type Update struct {
	Pane     Pane
	ListType string
	Text     string
	Err      error
	At       time.Time
}

// Failed reports whether the update carries an error.
func (u Update) Failed() bool {
	return u.Err != nil
}

// Annotation renders the error line shown next to the preserved content.
func (u Update) Annotation() string {
	if u.Err == nil {
		return ""
	}
	return string(u.Pane) + " error: " + flowclient.Reason(u.Err)
}

// Sink receives everything the dashboard wants displayed.
type Sink interface {
	dispatch.StatusSink
	PaneUpdated(update Update)
	ListSelected(listType string)
}

// API is the backend surface used by the dashboard.
type API interface {
	dispatch.Backend
	Status(ctx context.Context) (flowclient.RunStatus, error)
	Steps(ctx context.Context) (flowclient.StepList, error)
	Logs(ctx context.Context) (flowclient.LogTail, error)
	List(ctx context.Context, listType string) (flowclient.ListEntries, error)
}

// Options tunes the dashboard.
type Options struct {
	StatusInterval  time.Duration
	StepsInterval   time.Duration
	LogsInterval    time.Duration
	ListTypes       []string
	DefaultListType string
	Logger          *slog.Logger
	Now             func() time.Time
}

// Dashboard wires the polling channels, the list view and the command
// dispatcher to one backend.
type Dashboard struct {
	api        API
	sink       Sink
	logger     *slog.Logger
	now        func() time.Time
	scheduler  *poll.Scheduler
	dispatcher *dispatch.Dispatcher

	status *poll.Channel[flowclient.RunStatus]
	steps  *poll.Channel[flowclient.StepList]
	logs   *poll.Channel[flowclient.LogTail]

	listTypes []string
	mu        sync.Mutex
	current   string
}

// New builds a dashboard. Nothing is fetched until Start.
func New(api API, sink Sink, opts Options) (*Dashboard, error) {
	if api == nil {
		return nil, fmt.Errorf("dashboard: api is required")
	}
	if sink == nil {
		return nil, fmt.Errorf("dashboard: sink is required")
	}
	opts = withDefaults(opts)
	if !slices.Contains(opts.ListTypes, opts.DefaultListType) {
		return nil, fmt.Errorf("dashboard: default list type %q is not one of %s", opts.DefaultListType, strings.Join(opts.ListTypes, ", "))
	}

	d := &Dashboard{
		api:       api,
		sink:      sink,
		logger:    opts.Logger,
		now:       opts.Now,
		scheduler: poll.NewScheduler(opts.Logger),
		listTypes: append([]string(nil), opts.ListTypes...),
		current:   opts.DefaultListType,
	}
	d.dispatcher = dispatch.New(api, d.scheduler, sink, opts.Logger)

	d.status = poll.NewChannel(string(PaneStatus), poll.Config[flowclient.RunStatus]{
		Fetch:    api.Status,
		Interval: opts.StatusInterval,
		OnSuccess: func(status flowclient.RunStatus) {
			d.publish(PaneStatus, render.Status(status))
		},
		OnError: d.failer(PaneStatus),
		Logger:  opts.Logger,
		Now:     opts.Now,
	})
	d.steps = poll.NewChannel(string(PaneSteps), poll.Config[flowclient.StepList]{
		Fetch:    api.Steps,
		Interval: opts.StepsInterval,
		OnSuccess: func(list flowclient.StepList) {
			d.publish(PaneSteps, render.StepsText(list.Steps))
		},
		OnError: d.failer(PaneSteps),
		Logger:  opts.Logger,
		Now:     opts.Now,
	})
	d.logs = poll.NewChannel(string(PaneLogs), poll.Config[flowclient.LogTail]{
		Fetch:    api.Logs,
		Interval: opts.LogsInterval,
		OnSuccess: func(tail flowclient.LogTail) {
			d.publish(PaneLogs, render.Logs(tail.Logs))
		},
		OnError: d.failer(PaneLogs),
		Logger:  opts.Logger,
		Now:     opts.Now,
	})

	for name, runner := range map[Pane]poll.Runner{PaneStatus: d.status, PaneSteps: d.steps, PaneLogs: d.logs} {
		if err := d.scheduler.Register(string(name), runner); err != nil {
			return nil, err
		}
	}
	d.scheduler.RegisterOneShot(dispatch.ListChannelPrefix, d.fetchList)
	return d, nil
}

// withDefaults fills unset options.
func withDefaults(opts Options) Options {
	if opts.StatusInterval <= 0 {
		opts.StatusInterval = DefaultStatusInterval
	}
	if opts.StepsInterval <= 0 {
		opts.StepsInterval = DefaultStepsInterval
	}
	if opts.LogsInterval <= 0 {
		opts.LogsInterval = DefaultLogsInterval
	}
	if len(opts.ListTypes) == 0 {
		opts.ListTypes = DefaultListTypes
	}
	if opts.DefaultListType == "" {
		opts.DefaultListType = opts.ListTypes[0]
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return opts
}

// Start launches the channels and loads the selected list.
func (d *Dashboard) Start(ctx context.Context) error {
	if err := d.scheduler.Start(ctx); err != nil {
		return err
	}
	return d.SelectListType(ctx, d.CurrentListType())
}

// Stop halts every channel. Results still in flight are dropped.
func (d *Dashboard) Stop() error {
	return d.scheduler.Stop()
}

// Commands returns the dispatcher bound to this dashboard.
func (d *Dashboard) Commands() *dispatch.Dispatcher {
	return d.dispatcher
}

// ListTypes returns the selectable list types.
func (d *Dashboard) ListTypes() []string {
	return append([]string(nil), d.listTypes...)
}

// CurrentListType returns the selected list type.
func (d *Dashboard) CurrentListType() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

// NextListType returns the list type after the selected one, wrapping around.
func (d *Dashboard) NextListType() string {
	current := d.CurrentListType()
	index := slices.Index(d.listTypes, current)
	return d.listTypes[(index+1)%len(d.listTypes)]
}

// SelectListType switches the list view and fetches it fresh. The previous
// type's view is discarded.
func (d *Dashboard) SelectListType(ctx context.Context, listType string) error {
	if !slices.Contains(d.listTypes, listType) {
		return fmt.Errorf("unknown list type %q", listType)
	}
	d.mu.Lock()
	d.current = listType
	d.mu.Unlock()
	d.sink.ListSelected(listType)
	d.scheduler.Refresh(ctx, dispatch.ListRefreshName(listType))
	return nil
}

// Status returns the status channel's state.
func (d *Dashboard) Status() poll.State[flowclient.RunStatus] {
	return d.status.State()
}

// Steps returns the steps channel's state.
func (d *Dashboard) Steps() poll.State[flowclient.StepList] {
	return d.steps.State()
}

// Logs returns the logs channel's state.
func (d *Dashboard) Logs() poll.State[flowclient.LogTail] {
	return d.logs.State()
}

// fetchList is the ad hoc list fetch. Lists that are not selected, or stop
// being selected while the fetch is in flight, are not displayed.
func (d *Dashboard) fetchList(ctx context.Context, listType string) {
	if listType != d.CurrentListType() {
		d.logger.Debug("skipping refresh of hidden list", "list_type", listType)
		return
	}
	entries, err := d.api.List(ctx, listType)
	if ctx.Err() != nil {
		d.logger.Debug("dropping cancelled list fetch", "list_type", listType)
		return
	}
	if listType != d.CurrentListType() {
		d.logger.Debug("discarding stale list result", "list_type", listType)
		return
	}
	update := Update{Pane: PaneList, ListType: listType, At: d.now()}
	if err != nil {
		d.logger.Warn("list fetch failed", "list_type", listType, "error", err)
		update.Err = err
	} else {
		update.Text = render.Entries(entries.Entries)
	}
	d.sink.PaneUpdated(update)
}

// publish forwards a successful render.
func (d *Dashboard) publish(pane Pane, text string) {
	d.sink.PaneUpdated(Update{Pane: pane, Text: text, At: d.now()})
}

// failer returns the error callback for a pane.
func (d *Dashboard) failer(pane Pane) func(error) {
	return func(err error) {
		d.sink.PaneUpdated(Update{Pane: pane, Err: err, At: d.now()})
	}
}
