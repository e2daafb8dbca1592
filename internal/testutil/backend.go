package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"bflowdash/pkg/flowclient"
)

// Upload records one file received by the fake backend.
type Upload struct {
	ListType string
	Filename string
	Content  string
}

// failure is a canned non-2xx answer for a path.
type failure struct {
	status int
	body   string
}

// Backend is an in-memory pipeline-control backend speaking the dashboard's
// HTTP contract. It is safe for concurrent use.
type Backend struct {
	mu       sync.Mutex
	status   flowclient.RunStatus
	steps    []flowclient.Step
	logs     []string
	lists    map[string][]string
	failures map[string]failure
	calls    map[string]int
	uploads  []Upload
	appends  []flowclient.AppendRequest
	runs     []flowclient.RunRequest
	gate     map[string]chan struct{}
}

// BackendInstance is a running fake backend.
type BackendInstance struct {
	*Backend
	BaseURL string
	Close   func()
}

// NewBackend returns an idle backend with empty lists.
func NewBackend() *Backend {
	return &Backend{
		status:   flowclient.RunStatus{Status: "idle"},
		lists:    map[string][]string{},
		failures: map[string]failure{},
		calls:    map[string]int{},
		gate:     map[string]chan struct{}{},
	}
}

// StartBackend launches a fake backend closed on test cleanup.
func StartBackend(t testing.TB) *BackendInstance {
	t.Helper()
	backend := NewBackend()
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)
	return &BackendInstance{
		Backend: backend,
		BaseURL: server.URL,
		Close:   server.Close,
	}
}

// SetStatus replaces the run status.
func (b *Backend) SetStatus(status flowclient.RunStatus) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status = status
}

// SetSteps replaces the step list.
func (b *Backend) SetSteps(steps ...flowclient.Step) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.steps = append([]flowclient.Step(nil), steps...)
}

// SetLogs replaces the log tail.
func (b *Backend) SetLogs(lines ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.logs = append([]string(nil), lines...)
}

// SetList replaces the entries of a named list.
func (b *Backend) SetList(listType string, entries ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lists[listType] = append([]string(nil), entries...)
}

// Fail makes every request to path answer with status and body.
func (b *Backend) Fail(path string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[path] = failure{status: status, body: body}
}

// Recover clears a failure set by Fail.
func (b *Backend) Recover(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.failures, path)
}

// Hold blocks requests to path until the returned release func is called.
func (b *Backend) Hold(path string) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan struct{})
	b.gate[path] = ch
	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.gate, path)
			b.mu.Unlock()
			close(ch)
		})
	}
}

// Calls returns how many requests reached path.
func (b *Backend) Calls(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[path]
}

// Uploads returns the files received so far.
func (b *Backend) Uploads() []Upload {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Upload(nil), b.uploads...)
}

// Appends returns the append requests received so far.
func (b *Backend) Appends() []flowclient.AppendRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]flowclient.AppendRequest(nil), b.appends...)
}

// Runs returns the run requests received so far.
func (b *Backend) Runs() []flowclient.RunRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]flowclient.RunRequest(nil), b.runs...)
}

// ServeHTTP implements the backend contract.
func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	b.mu.Lock()
	b.calls[path]++
	fail, failing := b.failures[path]
	gate := b.gate[path]
	b.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-r.Context().Done():
			return
		}
	}
	if failing {
		if fail.body == "" {
			w.WriteHeader(fail.status)
			return
		}
		http.Error(w, fail.body, fail.status)
		return
	}

	switch path {
	case "/api/status":
		b.mu.Lock()
		status := b.status
		b.mu.Unlock()
		writeJSON(w, status)
	case "/api/steps":
		b.mu.Lock()
		steps := append([]flowclient.Step{}, b.steps...)
		b.mu.Unlock()
		writeJSON(w, map[string][]flowclient.Step{"steps": steps})
	case "/api/logs":
		b.mu.Lock()
		logs := append([]string{}, b.logs...)
		b.mu.Unlock()
		writeJSON(w, map[string][]string{"logs": logs})
	case "/api/list":
		listType := r.URL.Query().Get("type")
		if listType == "" {
			http.Error(w, "type query parameter required", http.StatusBadRequest)
			return
		}
		b.mu.Lock()
		entries := append([]string{}, b.lists[listType]...)
		b.mu.Unlock()
		writeJSON(w, map[string][]string{"entries": entries})
	case "/api/url":
		b.appendEntry(w, r)
	case "/api/upload":
		b.upload(w, r)
	case "/api/run":
		b.run(w, r)
	default:
		http.NotFound(w, r)
	}
}

// appendEntry mirrors the backend's de-duplicating append.
func (b *Backend) appendEntry(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req flowclient.AppendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.ListType == "" || req.URL == "" {
		http.Error(w, "list_type and url are required", http.StatusBadRequest)
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.appends = append(b.appends, req)
	for _, existing := range b.lists[req.ListType] {
		if strings.EqualFold(existing, req.URL) {
			writeJSON(w, flowclient.AppendResponse{Status: "exists", Message: "Entry already exists"})
			return
		}
	}
	b.lists[req.ListType] = append(b.lists[req.ListType], req.URL)
	writeJSON(w, flowclient.AppendResponse{Status: "appended", Message: "Entry appended"})
}

// upload stores a multipart list file.
func (b *Backend) upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	listType := r.FormValue("list_type")
	if listType == "" {
		http.Error(w, "list_type is required", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	var entries []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			entries = append(entries, line)
		}
	}
	b.mu.Lock()
	b.uploads = append(b.uploads, Upload{ListType: listType, Filename: header.Filename, Content: string(data)})
	b.lists[listType] = entries
	b.mu.Unlock()
	writeJSON(w, map[string]string{"status": "uploaded"})
}

// run starts a fake run, refusing while one is active.
func (b *Backend) run(w http.ResponseWriter, r *http.Request) {
	var req flowclient.RunRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.status.Running {
		http.Error(w, "flow already running", http.StatusConflict)
		return
	}
	b.runs = append(b.runs, req)
	b.status = flowclient.RunStatus{Running: true, Status: "running"}
	writeJSON(w, map[string]string{"status": "started"})
}

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, fmt.Sprintf("encode: %v", err), http.StatusInternalServerError)
	}
}
