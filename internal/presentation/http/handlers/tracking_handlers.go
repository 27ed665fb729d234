// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sightlinehq/sightline-go/internal/application/services"
	"github.com/sightlinehq/sightline-go/internal/domain/events"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/observability/logging"
)

// TrackingHandlers contains the public ingestion endpoints.
type TrackingHandlers struct {
	tracking *services.TrackingService
	logger   *logging.ChanneledLogger
}

// NewTrackingHandlers creates tracking handlers with injected dependencies.
func NewTrackingHandlers(tracking *services.TrackingService, logger *logging.ChanneledLogger) *TrackingHandlers {
	return &TrackingHandlers{
		tracking: tracking,
		logger:   logger,
	}
}

// PostPageView handles POST /api/v1/track/pageview
func (h *TrackingHandlers) PostPageView(c *gin.Context) {
	var pv events.PageViewEvent
	if err := c.ShouldBindJSON(&pv); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.tracking.TrackPageView(pv); err != nil {
		h.respondTrackingError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "tracked"})
}

// PostEngagement handles POST /api/v1/track/engagement
func (h *TrackingHandlers) PostEngagement(c *gin.Context) {
	var input services.EngagementInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.tracking.TrackEngagement(input); err != nil {
		h.respondTrackingError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "tracked"})
}

// PostConversion handles POST /api/v1/track/conversion
func (h *TrackingHandlers) PostConversion(c *gin.Context) {
	var conv events.ConversionEvent
	if err := c.ShouldBindJSON(&conv); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.tracking.TrackConversion(conv); err != nil {
		h.respondTrackingError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "tracked"})
}

// PostWebVitals handles POST /api/v1/track/vitals
func (h *TrackingHandlers) PostWebVitals(c *gin.Context) {
	var reading events.WebVitalsReading
	if err := c.ShouldBindJSON(&reading); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.tracking.TrackWebVitals(reading); err != nil {
		h.respondTrackingError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "tracked"})
}

// respondTrackingError maps validation failures to 400 and everything else
// to 500. Malformed input surfaces here, never inside scoring math.
func (h *TrackingHandlers) respondTrackingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, events.ErrInvalidEventType),
		errors.Is(err, services.ErrMissingIdentity),
		errors.Is(err, services.ErrMissingContent),
		errors.Is(err, services.ErrMissingConversionType):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Ingest().Error("Tracking request failed", "path", c.Request.URL.Path, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "tracking failed"})
	}
}
