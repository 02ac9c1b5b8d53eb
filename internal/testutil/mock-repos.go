package testutil

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"run-registry-service/internal/core/domain"
	ports "run-registry-service/internal/core/ports/output"
)

// MockRunReportRepo is a mock of RunReportRepository.
type MockRunReportRepo struct {
	mock.Mock
}

func (m *MockRunReportRepo) Create(ctx context.Context, report *domain.RunReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockRunReportRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.RunReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RunReport), args.Error(1)
}

func (m *MockRunReportRepo) GetByRunID(ctx context.Context, runID string) (*domain.RunReport, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RunReport), args.Error(1)
}

func (m *MockRunReportRepo) Complete(ctx context.Context, id uuid.UUID, status domain.RunStatus, completedAt time.Time) error {
	args := m.Called(ctx, id, status, completedAt)
	return args.Error(0)
}

func (m *MockRunReportRepo) List(ctx context.Context, filter ports.RunListFilter) ([]*domain.RunReport, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.RunReport), args.Int(1), args.Error(2)
}

// MockArtifactRepo is a mock of ArtifactRepository.
type MockArtifactRepo struct {
	mock.Mock
}

func (m *MockArtifactRepo) CreateBatch(ctx context.Context, artifacts []*domain.Artifact) error {
	args := m.Called(ctx, artifacts)
	return args.Error(0)
}

func (m *MockArtifactRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Artifact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Artifact), args.Error(1)
}

func (m *MockArtifactRepo) ListByRun(ctx context.Context, runReportID uuid.UUID) ([]*domain.Artifact, error) {
	args := m.Called(ctx, runReportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Artifact), args.Error(1)
}

func (m *MockArtifactRepo) MarkProduced(ctx context.Context, id uuid.UUID, sizeBytes int64, sha256 string) error {
	args := m.Called(ctx, id, sizeBytes, sha256)
	return args.Error(0)
}

func (m *MockArtifactRepo) CreateExternalBatch(ctx context.Context, artifacts []*domain.ExternalArtifact) error {
	args := m.Called(ctx, artifacts)
	return args.Error(0)
}

func (m *MockArtifactRepo) ListExternalByRun(ctx context.Context, runReportID uuid.UUID) ([]*domain.ExternalArtifact, error) {
	args := m.Called(ctx, runReportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ExternalArtifact), args.Error(1)
}

// MockActionsClient is a mock of ActionsClient.
type MockActionsClient struct {
	mock.Mock
}

func (m *MockActionsClient) IsAvailable() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockActionsClient) GetWorkflowRun(ctx context.Context, runID string) (*ports.RemoteRun, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.RemoteRun), args.Error(1)
}

func (m *MockActionsClient) ListRunArtifacts(ctx context.Context, runID string) ([]string, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockWorkspaceStore is a mock of WorkspaceStore.
type MockWorkspaceStore struct {
	mock.Mock
}

func (m *MockWorkspaceStore) Stat(ctx context.Context, path string) (*ports.FileStat, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.FileStat), args.Error(1)
}

func (m *MockWorkspaceStore) ListModelFiles(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockWorkspaceStore) ReadMetricsSummary(ctx context.Context) (map[string]domain.TargetMetrics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.TargetMetrics), args.Error(1)
}

func (m *MockWorkspaceStore) HeadCommit(ctx context.Context) string {
	args := m.Called(ctx)
	return args.String(0)
}

func (m *MockWorkspaceStore) WriteManifest(ctx context.Context, manifest *domain.Manifest) error {
	args := m.Called(ctx, manifest)
	return args.Error(0)
}

func (m *MockWorkspaceStore) ReadManifest(ctx context.Context) (*domain.Manifest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Manifest), args.Error(1)
}
