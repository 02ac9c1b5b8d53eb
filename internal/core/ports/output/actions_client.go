package ports

import (
	"context"
	"time"
)

// RemoteRun is the run-page host's view of a workflow run.
type RemoteRun struct {
	RunID       string
	Workflow    string
	Status      string
	Conclusion  string
	Event       string
	Branch      string
	CommitSHA   string
	URL         string
	StartedAt   *time.Time
	CompletedAt *time.Time
}

// ActionsClient reads workflow run state from the hosted run page API.
// The integration is optional; reads must never depend on it.
type ActionsClient interface {
	IsAvailable() bool
	GetWorkflowRun(ctx context.Context, runID string) (*RemoteRun, error)
	// ListRunArtifacts returns the names of the bundles uploaded to
	// run-scoped external storage.
	ListRunArtifacts(ctx context.Context, runID string) ([]string, error)
}
