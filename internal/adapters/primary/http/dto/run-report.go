package dto

import (
	"time"

	"github.com/google/uuid"

	"run-registry-service/internal/core/domain"
)

type CreateRunReportRequest struct {
	RunID             string     `json:"run_id" binding:"required"`
	Workflow          string     `json:"workflow" binding:"required,max=100"`
	Status            string     `json:"status"`
	Trigger           string     `json:"trigger" binding:"required"`
	Branch            string     `json:"branch"`
	CommitSHA         string     `json:"commit_sha"`
	StartedAt         *time.Time `json:"started_at"`
	CompletedAt       *time.Time `json:"completed_at"`
	ArtifactPaths     []string   `json:"artifact_paths"`
	ExternalArtifacts []string   `json:"external_artifacts"`
}

type CompleteRunReportRequest struct {
	Status      string     `json:"status" binding:"required"`
	CompletedAt *time.Time `json:"completed_at"`
}

type RunReportResponse struct {
	ID          uuid.UUID `json:"id"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
	RunID       string    `json:"run_id"`
	Workflow    string    `json:"workflow"`
	Status      string    `json:"status"`
	Trigger     string    `json:"trigger"`
	Branch      string    `json:"branch"`
	CommitSHA   string    `json:"commit_sha,omitempty"`
	StartedAt   *string   `json:"started_at,omitempty"`
	CompletedAt *string   `json:"completed_at,omitempty"`
	RunURL      string    `json:"run_url"`
}

type ListRunReportsResponse struct {
	Items      []RunReportResponse `json:"items"`
	Total      int                 `json:"total"`
	PageSize   int                 `json:"page_size"`
	NextOffset int                 `json:"next_offset"`
}

func ToRunReportResponse(r *domain.RunReport, runURL string) RunReportResponse {
	resp := RunReportResponse{
		ID:        r.ID,
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
		UpdatedAt: r.UpdatedAt.Format(time.RFC3339),
		RunID:     r.RunID,
		Workflow:  r.Workflow,
		Status:    string(r.Status),
		Trigger:   string(r.Trigger),
		Branch:    r.Branch,
		CommitSHA: r.CommitSHA,
		RunURL:    runURL,
	}
	if r.StartedAt != nil {
		s := r.StartedAt.Format(time.RFC3339)
		resp.StartedAt = &s
	}
	if r.CompletedAt != nil {
		s := r.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &s
	}
	return resp
}
