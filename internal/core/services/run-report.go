package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"run-registry-service/internal/core/domain"
	ports "run-registry-service/internal/core/ports/output"
)

type RunReportService struct {
	repo         ports.RunReportRepository
	artifactRepo ports.ArtifactRepository
	actions      ports.ActionsClient
	owner        string
	repoName     string
}

func NewRunReportService(repo ports.RunReportRepository, artifactRepo ports.ArtifactRepository, actions ports.ActionsClient, owner, repoName string) *RunReportService {
	return &RunReportService{
		repo:         repo,
		artifactRepo: artifactRepo,
		actions:      actions,
		owner:        owner,
		repoName:     repoName,
	}
}

// Ingest records the report of one pipeline execution together with its
// conditional artifact paths and named external bundles. When the caller
// lists no external bundles, the well-known pregame set is assumed.
func (s *RunReportService) Ingest(ctx context.Context, runID, workflow, status, trigger, branch, commitSHA string, startedAt, completedAt *time.Time, artifactPaths, externalArtifacts []string) (*domain.RunReport, error) {
	if err := domain.ValidateRunID(runID); err != nil {
		return nil, err
	}
	if workflow == "" {
		return nil, domain.ErrInvalidWorkflow
	}
	if status == "" {
		status = string(domain.RunStatusInProgress)
	}
	if err := domain.ValidateRunStatus(status); err != nil {
		return nil, err
	}
	if err := domain.ValidateTrigger(trigger); err != nil {
		return nil, err
	}

	now := time.Now()
	report := &domain.RunReport{
		ID:          uuid.New(),
		CreatedAt:   now,
		UpdatedAt:   now,
		RunID:       runID,
		Workflow:    workflow,
		Status:      domain.RunStatus(status),
		Trigger:     domain.Trigger(trigger),
		Branch:      branch,
		CommitSHA:   commitSHA,
		StartedAt:   startedAt,
		CompletedAt: completedAt,
	}

	if err := s.repo.Create(ctx, report); err != nil {
		return nil, err
	}

	artifacts := buildArtifacts(report.ID, artifactPaths, now, 0)
	if len(artifacts) > 0 {
		if err := s.artifactRepo.CreateBatch(ctx, artifacts); err != nil {
			return nil, err
		}
	}

	if externalArtifacts == nil {
		externalArtifacts = domain.WellKnownExternalArtifacts
	}
	externals := buildExternalArtifacts(report.ID, externalArtifacts, now)
	if len(externals) > 0 {
		if err := s.artifactRepo.CreateExternalBatch(ctx, externals); err != nil {
			return nil, err
		}
	}

	return s.repo.GetByID(ctx, report.ID)
}

func (s *RunReportService) Get(ctx context.Context, id uuid.UUID) (*domain.RunReport, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *RunReportService) FindByRunID(ctx context.Context, runID string) (*domain.RunReport, error) {
	if err := domain.ValidateRunID(runID); err != nil {
		return nil, err
	}
	return s.repo.GetByRunID(ctx, runID)
}

func (s *RunReportService) List(ctx context.Context, filter ports.RunListFilter) ([]*domain.RunReport, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.List(ctx, filter)
}

// Complete moves an in_progress report to a terminal status. It is the only
// mutation a report supports, and it happens at most once.
func (s *RunReportService) Complete(ctx context.Context, id uuid.UUID, status string, completedAt *time.Time) (*domain.RunReport, error) {
	if err := domain.ValidateRunStatus(status); err != nil {
		return nil, err
	}
	st := domain.RunStatus(status)
	if !st.Terminal() {
		return nil, domain.ErrNotTerminalStatus
	}

	report, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if report.Status.Terminal() {
		return nil, domain.ErrReportImmutable
	}

	done := time.Now()
	if completedAt != nil {
		done = *completedAt
	}
	if err := s.repo.Complete(ctx, id, st, done); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// RunURL derives the hosted run page for a stored report.
func (s *RunReportService) RunURL(report *domain.RunReport) string {
	return report.RunURL(s.owner, s.repoName)
}

// Sync reconciles a stored report against the run-page host. An in_progress
// report whose remote run has finished is completed with the mapped
// conclusion; divergent branch or trigger data is logged, never overwritten.
// For finished remote runs the uploaded bundles are checked against the
// stored external artifact names.
func (s *RunReportService) Sync(ctx context.Context, id uuid.UUID) (*domain.RunReport, error) {
	if s.actions == nil || !s.actions.IsAvailable() {
		return nil, domain.ErrActionsNotAvailable
	}

	report, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	remote, err := s.actions.GetWorkflowRun(ctx, report.RunID)
	if err != nil {
		return nil, err
	}

	if remote.Branch != "" && remote.Branch != report.Branch {
		log.WithFields(log.Fields{
			"run_id": report.RunID,
			"local":  report.Branch,
			"remote": remote.Branch,
		}).Warn("branch diverges from run page")
	}
	if remote.Event != "" && remote.Event != string(report.Trigger) {
		log.WithFields(log.Fields{
			"run_id": report.RunID,
			"local":  report.Trigger,
			"remote": remote.Event,
		}).Warn("trigger diverges from run page")
	}

	if remote.Status == "completed" {
		s.verifyExternalBundles(ctx, report)
	}

	if report.Status.Terminal() || remote.Status != "completed" {
		return report, nil
	}

	status := mapConclusion(remote.Conclusion)
	done := time.Now()
	if remote.CompletedAt != nil {
		done = *remote.CompletedAt
	}
	if err := s.repo.Complete(ctx, id, status, done); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// verifyExternalBundles compares the stored external artifact names against
// the bundles actually uploaded to the run page. Divergence degrades to
// warnings; sync never fails on it.
func (s *RunReportService) verifyExternalBundles(ctx context.Context, report *domain.RunReport) {
	uploaded, err := s.actions.ListRunArtifacts(ctx, report.RunID)
	if err != nil {
		log.WithError(err).WithField("run_id", report.RunID).Warn("could not list run-page bundles")
		return
	}
	stored, err := s.artifactRepo.ListExternalByRun(ctx, report.ID)
	if err != nil {
		log.WithError(err).WithField("run_id", report.RunID).Warn("could not load stored external artifacts")
		return
	}

	uploadedSet := make(map[string]bool, len(uploaded))
	for _, name := range uploaded {
		uploadedSet[name] = true
	}
	for _, a := range stored {
		if !uploadedSet[a.Name] {
			log.WithFields(log.Fields{
				"run_id": report.RunID,
				"name":   a.Name,
			}).Warn("recorded external artifact was not uploaded to the run page")
		}
		delete(uploadedSet, a.Name)
	}
	for name := range uploadedSet {
		log.WithFields(log.Fields{
			"run_id": report.RunID,
			"name":   name,
		}).Warn("run page holds a bundle not recorded for this run")
	}
}

// mapConclusion folds the host's conclusion vocabulary into the report
// status enum. Conclusions without a direct counterpart (timed_out,
// action_required, ...) read as failure.
func mapConclusion(conclusion string) domain.RunStatus {
	switch conclusion {
	case "success":
		return domain.RunStatusSuccess
	case "cancelled", "skipped":
		return domain.RunStatusCancelled
	default:
		return domain.RunStatusFailure
	}
}

// buildArtifacts assigns positions from startPos in input order so the
// stored sequence matches the report's.
func buildArtifacts(runReportID uuid.UUID, paths []string, now time.Time, startPos int) []*domain.Artifact {
	seen := make(map[string]bool, len(paths))
	artifacts := make([]*domain.Artifact, 0, len(paths))
	for _, p := range paths {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		artifacts = append(artifacts, &domain.Artifact{
			ID:          uuid.New(),
			RunReportID: runReportID,
			Path:        p,
			Position:    startPos + len(artifacts),
			Kind:        domain.KindForPath(p),
			Produced:    false,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	return artifacts
}

func buildExternalArtifacts(runReportID uuid.UUID, names []string, now time.Time) []*domain.ExternalArtifact {
	seen := make(map[string]bool, len(names))
	externals := make([]*domain.ExternalArtifact, 0, len(names))
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		externals = append(externals, &domain.ExternalArtifact{
			ID:          uuid.New(),
			RunReportID: runReportID,
			Name:        n,
			CreatedAt:   now,
		})
	}
	return externals
}
