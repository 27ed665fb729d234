package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sightlinehq/sightline-go/internal/application/services"
	"github.com/sightlinehq/sightline-go/internal/domain/analytics"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/observability/logging"
)

// AdminHandlers contains operator endpoints: digest delivery and SEO
// telemetry pushes.
type AdminHandlers struct {
	digest   *services.DigestService
	tracking *services.TrackingService
	logger   *logging.ChanneledLogger
}

// NewAdminHandlers creates admin handlers with injected dependencies.
func NewAdminHandlers(digest *services.DigestService, tracking *services.TrackingService, logger *logging.ChanneledLogger) *AdminHandlers {
	return &AdminHandlers{
		digest:   digest,
		tracking: tracking,
		logger:   logger,
	}
}

type digestRequest struct {
	To        string `json:"to" binding:"required,email"`
	Timeframe string `json:"timeframe"`
}

// PostDigest handles POST /api/v1/admin/digest
func (h *AdminHandlers) PostDigest(c *gin.Context) {
	var req digestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "valid recipient email required"})
		return
	}
	if req.Timeframe == "" {
		req.Timeframe = string(analytics.TimeframeWeek)
	}

	if err := h.digest.SendDigest(req.To, req.Timeframe); err != nil {
		h.logger.Email().Error("Digest request failed", "to", req.To, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "digest delivery failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "sent"})
}

// PostSEOTelemetry handles POST /api/v1/admin/seo
func (h *AdminHandlers) PostSEOTelemetry(c *gin.Context) {
	var input services.SEOTelemetryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.tracking.ApplySEOTelemetry(input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "applied"})
}
