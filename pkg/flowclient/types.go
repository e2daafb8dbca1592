package flowclient

// StepStatus is the state of a single pipeline step.
type StepStatus string

const (
	StepPending StepStatus = "pending"
	StepRunning StepStatus = "running"
	StepDone    StepStatus = "done"
	StepError   StepStatus = "error"
	StepSkipped StepStatus = "skipped"
)

// RunStatus is the body of GET /api/status.
type RunStatus struct {
	Running bool   `json:"running"`
	Status  string `json:"status"`
}

// Step is one entry of GET /api/steps.
type Step struct {
	ID     string     `json:"id"`
	Label  string     `json:"label,omitempty"`
	Status StepStatus `json:"status"`
}

// StepList is the body of GET /api/steps.
type StepList struct {
	Steps []Step `json:"steps"`
}

// LogTail is the body of GET /api/logs.
type LogTail struct {
	Logs []string `json:"logs"`
}

// ListEntries is the body of GET /api/list, tagged with the requested type.
type ListEntries struct {
	Type    string   `json:"-"`
	Entries []string `json:"entries"`
}

// AppendRequest is the body of POST /api/url.
type AppendRequest struct {
	ListType string `json:"list_type"`
	URL      string `json:"url"`
}

// AppendResponse is the body returned by POST /api/url.
type AppendResponse struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}

// RunRequest is the body of POST /api/run. Empty fields are omitted so a
// plain run sends {}.
type RunRequest struct {
	Organization string `json:"organization,omitempty"`
	OrgList      string `json:"org_list,omitempty"`
}
