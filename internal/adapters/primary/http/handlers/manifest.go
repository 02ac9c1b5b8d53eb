package handlers

import (
	"net/http"

	"run-registry-service/internal/adapters/primary/http/dto"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) GetManifest(c *gin.Context) {
	manifest, err := h.manifestSvc.Current(c.Request.Context())
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToManifestResponse(manifest))
}

func (h *Handler) RebuildManifest(c *gin.Context) {
	manifest, err := h.manifestSvc.Rebuild(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("rebuild models manifest failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToManifestResponse(manifest))
}
