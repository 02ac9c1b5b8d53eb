package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"run-registry-service/internal/core/domain"
)

type RunListFilter struct {
	Status   string
	Trigger  string
	Branch   string
	Workflow string
	SortBy   string
	Order    string
	Limit    int
	Offset   int
}

type RunReportRepository interface {
	Create(ctx context.Context, report *domain.RunReport) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.RunReport, error)
	GetByRunID(ctx context.Context, runID string) (*domain.RunReport, error)
	// Complete moves an in_progress report to a terminal status. Terminal
	// reports are immutable; implementations must refuse to touch them.
	Complete(ctx context.Context, id uuid.UUID, status domain.RunStatus, completedAt time.Time) error
	List(ctx context.Context, filter RunListFilter) ([]*domain.RunReport, int, error)
}

type ArtifactRepository interface {
	CreateBatch(ctx context.Context, artifacts []*domain.Artifact) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Artifact, error)
	ListByRun(ctx context.Context, runReportID uuid.UUID) ([]*domain.Artifact, error)
	// MarkProduced records the scan result for one artifact.
	MarkProduced(ctx context.Context, id uuid.UUID, sizeBytes int64, sha256 string) error
	CreateExternalBatch(ctx context.Context, artifacts []*domain.ExternalArtifact) error
	ListExternalByRun(ctx context.Context, runReportID uuid.UUID) ([]*domain.ExternalArtifact, error)
}
