package dispatch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"bflowdash/internal/validate"
	"bflowdash/pkg/flowclient"
)

// ListChannelPrefix prefixes the refresh name of a list view.
const ListChannelPrefix = "list:"

// Status messages published while commands run.
const (
	MsgUploading      = "Uploading…"
	MsgUploadFinished = "Upload finished"
	MsgSaving         = "Saving…"
	MsgEntryAppended  = "Entry appended"
	MsgRequestingRun  = "requesting run…"
	MsgFlowQueued     = "Flow queued"
)

// Failure prefixes, rendered as "{prefix}: {reason}".
const (
	UploadFailedPrefix = "Upload failed"
	AppendFailedPrefix = "Append failed"
	RunFailedPrefix    = "Run failed"
)

// Target names the status line a command writes to.
type Target string

const (
	TargetUpload Target = "upload"
	TargetAppend Target = "append"
	TargetRun    Target = "run"
)

// StatusSink receives single-line command status messages.
type StatusSink interface {
	CommandStatus(target Target, message string)
}

// Refresher triggers an immediate fetch of a named channel.
type Refresher interface {
	Refresh(ctx context.Context, name string) bool
}

// Backend is the subset of the transport used by commands.
type Backend interface {
	Upload(ctx context.Context, listType, filename string, content io.Reader) error
	AppendURL(ctx context.Context, req flowclient.AppendRequest) (flowclient.AppendResponse, error)
	Run(ctx context.Context, req flowclient.RunRequest) error
}

// UploadRequest is a list file chosen by the user.
type UploadRequest struct {
	ListType string
	Filename string
	Content  io.Reader
}

// Dispatcher runs user commands and refreshes the channels they affect.
type Dispatcher struct {
	backend   Backend
	refresher Refresher
	sink      StatusSink
	logger    *slog.Logger
}

// New builds a dispatcher. A nil refresher or sink disables that side effect.
func New(backend Backend, refresher Refresher, sink StatusSink, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Dispatcher{
		backend:   backend,
		refresher: refresher,
		sink:      sink,
		logger:    logger,
	}
}

// ListRefreshName returns the refresh name of a list type's view.
func ListRefreshName(listType string) string {
	return ListChannelPrefix + listType
}

// Upload submits a list file. The caller guarantees a file was selected.
func (d *Dispatcher) Upload(ctx context.Context, req UploadRequest) (string, error) {
	d.publish(TargetUpload, MsgUploading)
	if err := d.backend.Upload(ctx, req.ListType, req.Filename, req.Content); err != nil {
		d.logFailure("upload", err, "list_type", req.ListType, "file", req.Filename)
		return d.fail(TargetUpload, UploadFailedPrefix, err)
	}
	d.logger.Info("upload finished", "list_type", req.ListType, "file", req.Filename)
	d.publish(TargetUpload, MsgUploadFinished)
	return MsgUploadFinished, nil
}

// UploadFile opens path and uploads it as listType. A file that cannot be
// opened is reported like any other upload failure.
func (d *Dispatcher) UploadFile(ctx context.Context, listType, path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		d.logFailure("upload", err, "list_type", listType, "file", path)
		return d.fail(TargetUpload, UploadFailedPrefix, err)
	}
	defer file.Close()
	return d.Upload(ctx, UploadRequest{
		ListType: listType,
		Filename: filepath.Base(path),
		Content:  file,
	})
}

// AppendListEntry validates and appends one entry, then refreshes that
// list's view. Invalid input never reaches the network.
func (d *Dispatcher) AppendListEntry(ctx context.Context, listType, raw string) (string, error) {
	entry, err := validate.ListEntry(listType, raw)
	if err != nil {
		d.publish(TargetAppend, err.Error())
		return err.Error(), err
	}

	d.publish(TargetAppend, MsgSaving)
	res, err := d.backend.AppendURL(ctx, flowclient.AppendRequest{ListType: listType, URL: entry})
	if err != nil {
		d.logFailure("append", err, "list_type", listType)
		return d.fail(TargetAppend, AppendFailedPrefix, err)
	}

	message := res.Message
	if message == "" {
		message = MsgEntryAppended
	}
	d.logger.Info("entry appended", "list_type", listType, "status", res.Status)
	d.publish(TargetAppend, message)
	if d.refresher != nil {
		d.refresher.Refresh(ctx, ListRefreshName(listType))
	}
	return message, nil
}

// RunFlow asks the backend to start a run. Status and step channels pick up
// the change on their next tick.
func (d *Dispatcher) RunFlow(ctx context.Context, req flowclient.RunRequest) (string, error) {
	d.publish(TargetRun, MsgRequestingRun)
	if err := d.backend.Run(ctx, req); err != nil {
		d.logFailure("run", err)
		return d.fail(TargetRun, RunFailedPrefix, err)
	}
	d.logger.Info("flow queued", "organization", req.Organization, "org_list", req.OrgList)
	d.publish(TargetRun, MsgFlowQueued)
	return MsgFlowQueued, nil
}

// fail publishes "{prefix}: {reason}" and returns it with err.
func (d *Dispatcher) fail(target Target, prefix string, err error) (string, error) {
	message := prefix + ": " + flowclient.Reason(err)
	d.publish(target, message)
	return message, err
}

// publish forwards a status message when a sink is attached.
func (d *Dispatcher) publish(target Target, message string) {
	if d.sink == nil {
		return
	}
	d.sink.CommandStatus(target, message)
}

// logFailure logs a command failure with the transport detail when present.
func (d *Dispatcher) logFailure(command string, err error, attrs ...any) {
	attrs = append(attrs, "command", command, "error", err)
	var cerr *flowclient.Error
	if errors.As(err, &cerr) {
		attrs = append(attrs, "kind", cerr.Kind, "detail", cerr.Detail())
	}
	d.logger.Warn("command failed", attrs...)
}
