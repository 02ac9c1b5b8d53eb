package ports

import (
	"context"
	"time"

	"run-registry-service/internal/core/domain"
)

// FileStat describes one produced file in the pipeline workspace.
type FileStat struct {
	SizeBytes  int64
	SHA256     string
	ModifiedAt time.Time
}

// WorkspaceStore reads the checked-out pipeline repository that holds the
// committed artifacts (output/, models/, data/).
type WorkspaceStore interface {
	// Stat returns (nil, nil) when the path does not exist: listed
	// artifact paths are conditional and their absence is not an error.
	Stat(ctx context.Context, path string) (*FileStat, error)
	// ListModelFiles returns repo-relative paths of *.joblib files under
	// models/, sorted.
	ListModelFiles(ctx context.Context) ([]string, error)
	// ReadMetricsSummary loads output/metrics_summary.json; an absent file
	// yields an empty map.
	ReadMetricsSummary(ctx context.Context) (map[string]domain.TargetMetrics, error)
	// HeadCommit resolves the workspace HEAD; empty when the workspace is
	// not a git checkout.
	HeadCommit(ctx context.Context) string
	WriteManifest(ctx context.Context, m *domain.Manifest) error
	ReadManifest(ctx context.Context) (*domain.Manifest, error)
}
