package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"run-registry-service/internal/core/domain"
	ports "run-registry-service/internal/core/ports/output"
)

type ArtifactService struct {
	repo      ports.ArtifactRepository
	runRepo   ports.RunReportRepository
	workspace ports.WorkspaceStore
}

func NewArtifactService(repo ports.ArtifactRepository, runRepo ports.RunReportRepository, workspace ports.WorkspaceStore) *ArtifactService {
	return &ArtifactService{repo: repo, runRepo: runRepo, workspace: workspace}
}

// Record adds artifact paths to a run after ingest. Reports stay append-only
// for artifacts until they turn terminal.
func (s *ArtifactService) Record(ctx context.Context, runReportID uuid.UUID, paths []string) ([]*domain.Artifact, error) {
	report, err := s.runRepo.GetByID(ctx, runReportID)
	if err != nil {
		return nil, err
	}
	if report.Status.Terminal() {
		return nil, domain.ErrReportImmutable
	}
	if len(paths) == 0 {
		return nil, domain.ErrArtifactPathRequired
	}

	// appended paths continue the report's sequence
	existing, err := s.repo.ListByRun(ctx, runReportID)
	if err != nil {
		return nil, err
	}

	artifacts := buildArtifacts(runReportID, paths, time.Now(), len(existing))
	if len(artifacts) == 0 {
		return nil, domain.ErrArtifactPathRequired
	}
	if err := s.repo.CreateBatch(ctx, artifacts); err != nil {
		return nil, err
	}
	return s.repo.ListByRun(ctx, runReportID)
}

func (s *ArtifactService) Get(ctx context.Context, id uuid.UUID) (*domain.Artifact, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ArtifactService) ListByRun(ctx context.Context, runReportID uuid.UUID) ([]*domain.Artifact, error) {
	if _, err := s.runRepo.GetByID(ctx, runReportID); err != nil {
		return nil, err
	}
	return s.repo.ListByRun(ctx, runReportID)
}

func (s *ArtifactService) ListExternalByRun(ctx context.Context, runReportID uuid.UUID) ([]*domain.ExternalArtifact, error) {
	if _, err := s.runRepo.GetByID(ctx, runReportID); err != nil {
		return nil, err
	}
	return s.repo.ListExternalByRun(ctx, runReportID)
}

// Scan resolves which of a run's listed paths were actually produced in the
// workspace and records size and checksum for the ones present. Listed paths
// are conditional; an absent path just stays unproduced.
func (s *ArtifactService) Scan(ctx context.Context, runReportID uuid.UUID) ([]*domain.Artifact, error) {
	if _, err := s.runRepo.GetByID(ctx, runReportID); err != nil {
		return nil, err
	}

	artifacts, err := s.repo.ListByRun(ctx, runReportID)
	if err != nil {
		return nil, err
	}

	for _, a := range artifacts {
		if a.Produced {
			continue
		}
		stat, err := s.workspace.Stat(ctx, a.Path)
		if err != nil {
			return nil, err
		}
		if stat == nil {
			continue
		}
		if err := s.repo.MarkProduced(ctx, a.ID, stat.SizeBytes, stat.SHA256); err != nil {
			return nil, err
		}
		log.WithFields(log.Fields{
			"path":   a.Path,
			"kind":   a.Kind,
			"sha256": stat.SHA256,
		}).Debug("artifact resolved")
	}

	return s.repo.ListByRun(ctx, runReportID)
}
