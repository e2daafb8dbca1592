package plain

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"bflowdash/internal/dashboard"
	"bflowdash/internal/dispatch"
)

// Printer writes one line per visible change. It implements dashboard.Sink
// for terminals that cannot host the live UI.
type Printer struct {
	mu     sync.Mutex
	out    io.Writer
	last   map[dashboard.Pane]string
	errs   map[dashboard.Pane]string
	closed bool
}

// New returns a printer writing to out.
func New(out io.Writer) *Printer {
	return &Printer{
		out:  out,
		last: map[dashboard.Pane]string{},
		errs: map[dashboard.Pane]string{},
	}
}

// PaneUpdated prints changed content, or the error annotation once per
// distinct failure.
func (p *Printer) PaneUpdated(update dashboard.Update) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	if update.Failed() {
		annotation := update.Annotation()
		if p.errs[update.Pane] == annotation {
			return
		}
		p.errs[update.Pane] = annotation
		fmt.Fprintf(p.out, "[%s] %s\n", paneLabel(update), annotation)
		return
	}
	delete(p.errs, update.Pane)
	if p.last[update.Pane] == update.Text {
		return
	}
	p.last[update.Pane] = update.Text
	label := paneLabel(update)
	for _, line := range strings.Split(update.Text, "\n") {
		fmt.Fprintf(p.out, "[%s] %s\n", label, line)
	}
}

// paneLabel tags list lines with their list type.
func paneLabel(update dashboard.Update) string {
	if update.ListType == "" {
		return string(update.Pane)
	}
	return string(update.Pane) + ":" + update.ListType
}

// ListSelected forgets the cached list so the next fetch prints in full.
func (p *Printer) ListSelected(listType string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	delete(p.last, dashboard.PaneList)
	delete(p.errs, dashboard.PaneList)
	fmt.Fprintf(p.out, "[list] showing %s\n", listType)
}

// CommandStatus prints a command status line.
func (p *Printer) CommandStatus(target dispatch.Target, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	fmt.Fprintf(p.out, "[%s] %s\n", target, message)
}

// Close makes later calls no-ops.
func (p *Printer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
}
