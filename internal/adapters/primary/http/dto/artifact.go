package dto

import (
	"time"

	"github.com/google/uuid"

	"run-registry-service/internal/core/domain"
)

type RecordArtifactsRequest struct {
	Paths []string `json:"paths" binding:"required,min=1"`
}

type ArtifactResponse struct {
	ID          uuid.UUID `json:"id"`
	RunReportID uuid.UUID `json:"run_report_id"`
	Path        string    `json:"path"`
	Position    int       `json:"position"`
	Kind        string    `json:"kind"`
	Produced    bool      `json:"produced"`
	SizeBytes   int64     `json:"size_bytes,omitempty"`
	SHA256      string    `json:"sha256,omitempty"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
}

type ListArtifactsResponse struct {
	Items []ArtifactResponse `json:"items"`
	Total int                `json:"total"`
}

type ExternalArtifactResponse struct {
	ID          uuid.UUID `json:"id"`
	RunReportID uuid.UUID `json:"run_report_id"`
	Name        string    `json:"name"`
	CreatedAt   string    `json:"created_at"`
}

type ListExternalArtifactsResponse struct {
	Items []ExternalArtifactResponse `json:"items"`
	Total int                        `json:"total"`
}

func ToArtifactResponse(a *domain.Artifact) ArtifactResponse {
	return ArtifactResponse{
		ID:          a.ID,
		RunReportID: a.RunReportID,
		Path:        a.Path,
		Position:    a.Position,
		Kind:        string(a.Kind),
		Produced:    a.Produced,
		SizeBytes:   a.SizeBytes,
		SHA256:      a.SHA256,
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   a.UpdatedAt.Format(time.RFC3339),
	}
}

func ToExternalArtifactResponse(a *domain.ExternalArtifact) ExternalArtifactResponse {
	return ExternalArtifactResponse{
		ID:          a.ID,
		RunReportID: a.RunReportID,
		Name:        a.Name,
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
	}
}
