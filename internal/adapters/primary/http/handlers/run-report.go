package handlers

import (
	"net/http"
	"strconv"

	"run-registry-service/internal/adapters/primary/http/dto"
	ports "run-registry-service/internal/core/ports/output"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) IngestRunReport(c *gin.Context) {
	var req dto.CreateRunReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.runSvc.Ingest(
		c.Request.Context(), req.RunID, req.Workflow, req.Status, req.Trigger,
		req.Branch, req.CommitSHA, req.StartedAt, req.CompletedAt,
		req.ArtifactPaths, req.ExternalArtifacts,
	)
	if err != nil {
		log.WithError(err).Error("ingest run report failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToRunReportResponse(report, h.runSvc.RunURL(report)))
}

func (h *Handler) GetRunReport(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run report id"})
		return
	}

	report, err := h.runSvc.Get(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRunReportResponse(report, h.runSvc.RunURL(report)))
}

func (h *Handler) FindRunReport(c *gin.Context) {
	runID := c.Query("run_id")
	report, err := h.runSvc.FindByRunID(c.Request.Context(), runID)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRunReportResponse(report, h.runSvc.RunURL(report)))
}

func (h *Handler) ListRunReports(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := ports.RunListFilter{
		Status:   c.Query("status"),
		Trigger:  c.Query("trigger"),
		Branch:   c.Query("branch"),
		Workflow: c.Query("workflow"),
		SortBy:   c.Query("sort_by"),
		Order:    c.Query("order"),
		Limit:    limit,
		Offset:   offset,
	}

	reports, total, err := h.runSvc.List(c.Request.Context(), filter)
	if err != nil {
		log.WithError(err).Error("list run reports failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.RunReportResponse, 0, len(reports))
	for _, r := range reports {
		items = append(items, dto.ToRunReportResponse(r, h.runSvc.RunURL(r)))
	}

	c.JSON(http.StatusOK, dto.ListRunReportsResponse{
		Items:      items,
		Total:      total,
		PageSize:   limit,
		NextOffset: offset + len(items),
	})
}

func (h *Handler) CompleteRunReport(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run report id"})
		return
	}

	var req dto.CompleteRunReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.runSvc.Complete(c.Request.Context(), id, req.Status, req.CompletedAt)
	if err != nil {
		log.WithError(err).Error("complete run report failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRunReportResponse(report, h.runSvc.RunURL(report)))
}

func (h *Handler) SyncRunReport(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run report id"})
		return
	}

	report, err := h.runSvc.Sync(c.Request.Context(), id)
	if err != nil {
		log.WithError(err).Error("sync run report failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRunReportResponse(report, h.runSvc.RunURL(report)))
}

func (h *Handler) GetStatusDoc(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run report id"})
		return
	}

	doc, err := h.statusDocSvc.Render(c.Request.Context(), id)
	if err != nil {
		log.WithError(err).Error("render status doc failed")
		mapDomainError(c, err)
		return
	}

	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(doc))
}
