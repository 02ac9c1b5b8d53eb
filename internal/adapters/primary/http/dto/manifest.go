package dto

import (
	"time"

	"run-registry-service/internal/core/domain"
)

type ManifestEntryResponse struct {
	Path         string   `json:"path"`
	Filename     string   `json:"filename"`
	Target       string   `json:"target"`
	SizeBytes    int64    `json:"size_bytes"`
	ModifiedAt   string   `json:"modified_at"`
	SHA256       string   `json:"sha256"`
	MAE          *float64 `json:"mae,omitempty"`
	RMSE         *float64 `json:"rmse,omitempty"`
	Rows         *int64   `json:"rows,omitempty"`
	ActualColumn string   `json:"actual_column,omitempty"`
}

type ManifestResponse struct {
	Commit  string                  `json:"commit,omitempty"`
	BuiltAt string                  `json:"built_at"`
	Models  []ManifestEntryResponse `json:"models"`
}

func ToManifestResponse(m *domain.Manifest) ManifestResponse {
	resp := ManifestResponse{
		Commit:  m.Commit,
		BuiltAt: m.BuiltAt.Format(time.RFC3339),
		Models:  make([]ManifestEntryResponse, 0, len(m.Entries)),
	}
	for _, e := range m.Entries {
		resp.Models = append(resp.Models, ManifestEntryResponse{
			Path:         e.Path,
			Filename:     e.Filename,
			Target:       e.Target,
			SizeBytes:    e.SizeBytes,
			ModifiedAt:   e.ModifiedAt.Format(time.RFC3339),
			SHA256:       e.SHA256,
			MAE:          e.MAE,
			RMSE:         e.RMSE,
			Rows:         e.Rows,
			ActualColumn: e.ActualColumn,
		})
	}
	return resp
}
