package live

import (
	"context"

	"bflowdash/internal/dashboard"
	"bflowdash/pkg/flowclient"
)

// DashboardActions binds the keyboard commands to a dashboard.
type DashboardActions struct {
	Dashboard *dashboard.Dashboard
	Run       flowclient.RunRequest
}

// RunFlow requests a pipeline run.
func (a DashboardActions) RunFlow(ctx context.Context) {
	_, _ = a.Dashboard.Commands().RunFlow(ctx, a.Run)
}

// AppendEntry appends raw to the selected list.
func (a DashboardActions) AppendEntry(ctx context.Context, raw string) {
	_, _ = a.Dashboard.Commands().AppendListEntry(ctx, a.Dashboard.CurrentListType(), raw)
}

// UploadFile uploads the file at path into the selected list.
func (a DashboardActions) UploadFile(ctx context.Context, path string) {
	_, _ = a.Dashboard.Commands().UploadFile(ctx, a.Dashboard.CurrentListType(), path)
}

// NextListType cycles the list pane to the next type.
func (a DashboardActions) NextListType(ctx context.Context) {
	_ = a.Dashboard.SelectListType(ctx, a.Dashboard.NextListType())
}
