package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type ArtifactKind string

const (
	ArtifactKindLog      ArtifactKind = "log"
	ArtifactKindModel    ArtifactKind = "model"
	ArtifactKindPreview  ArtifactKind = "preview"
	ArtifactKindManifest ArtifactKind = "manifest"
	ArtifactKindData     ArtifactKind = "data"
)

// KindForPath classifies a repository-relative artifact path by the
// pipeline's directory conventions. The manifest prefix is checked before
// the generic models prefix because models/manifest/ nests under models/.
func KindForPath(path string) ArtifactKind {
	p := strings.TrimPrefix(path, "./")
	switch {
	case strings.HasPrefix(p, "output/logs/"):
		return ArtifactKindLog
	case strings.HasPrefix(p, "models/manifest/"):
		return ArtifactKindManifest
	case strings.HasPrefix(p, "output/models/"), strings.HasPrefix(p, "models/"):
		return ArtifactKindModel
	case strings.HasPrefix(p, "output/previews/"):
		return ArtifactKindPreview
	default:
		return ArtifactKindData
	}
}

// Artifact is one conditionally-produced file of a run. Paths are recorded
// at ingest time; Produced, SizeBytes and SHA256 are filled in by a
// workspace scan when (and only when) the file actually exists. An absent
// path is not an error. Position preserves the report's original path
// sequence; rendered documents list artifacts in this order.
type Artifact struct {
	ID          uuid.UUID    `json:"id"`
	RunReportID uuid.UUID    `json:"run_report_id"`
	Path        string       `json:"path"`
	Position    int          `json:"position"`
	Kind        ArtifactKind `json:"kind"`
	Produced    bool         `json:"produced"`
	SizeBytes   int64        `json:"size_bytes"`
	SHA256      string       `json:"sha256"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// ExternalArtifact names a bundle stored in run-scoped external storage.
// It carries no bytes and no path; it resolves only through the run page.
type ExternalArtifact struct {
	ID          uuid.UUID `json:"id"`
	RunReportID uuid.UUID `json:"run_report_id"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"created_at"`
}

// Bundle names observed on the pregame workflow.
var WellKnownExternalArtifacts = []string{
	"models-pregame",
	"predictions-pregame",
	"nflverse-raw",
}
