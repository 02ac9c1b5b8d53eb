package handlers

import (
	"run-registry-service/internal/core/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	runSvc       *services.RunReportService
	artifactSvc  *services.ArtifactService
	manifestSvc  *services.ManifestService
	statusDocSvc *services.StatusDocService
}

func New(
	runSvc *services.RunReportService,
	artifactSvc *services.ArtifactService,
	manifestSvc *services.ManifestService,
	statusDocSvc *services.StatusDocService,
) *Handler {
	return &Handler{
		runSvc:       runSvc,
		artifactSvc:  artifactSvc,
		manifestSvc:  manifestSvc,
		statusDocSvc: statusDocSvc,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// Run Reports
	r.GET("/runs", h.ListRunReports)
	r.GET("/runs/:id", h.GetRunReport)
	r.GET("/run", h.FindRunReport)
	r.POST("/runs", h.IngestRunReport)
	r.POST("/runs/:id/complete", h.CompleteRunReport)
	r.POST("/runs/:id/sync", h.SyncRunReport)

	// Status document (rendered markdown)
	r.GET("/runs/:id/report", h.GetStatusDoc)

	// Artifacts (nested under run)
	r.GET("/runs/:id/artifacts", h.ListRunArtifacts)
	r.POST("/runs/:id/artifacts", h.RecordRunArtifacts)
	r.POST("/runs/:id/artifacts/scan", h.ScanRunArtifacts)
	r.GET("/runs/:id/external_artifacts", h.ListExternalArtifacts)

	// Artifacts (direct access)
	r.GET("/artifacts/:id", h.GetArtifact)

	// Models Manifest
	r.GET("/manifest", h.GetManifest)
	r.POST("/manifest/rebuild", h.RebuildManifest)
}
