package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sightlinehq/sightline-go/internal/application/services"
	"github.com/sightlinehq/sightline-go/internal/domain/analytics"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/observability/logging"
)

// AnalyticsHandlers contains the protected query API endpoints.
type AnalyticsHandlers struct {
	dashboard *services.DashboardService
	insights  *services.InsightsService
	logger    *logging.ChanneledLogger
}

// NewAnalyticsHandlers creates analytics handlers with injected dependencies.
func NewAnalyticsHandlers(dashboard *services.DashboardService, insights *services.InsightsService, logger *logging.ChanneledLogger) *AnalyticsHandlers {
	return &AnalyticsHandlers{
		dashboard: dashboard,
		insights:  insights,
		logger:    logger,
	}
}

// GetOverview handles GET /api/v1/analytics/overview?timeframe=week
func (h *AnalyticsHandlers) GetOverview(c *gin.Context) {
	overview, err := h.dashboard.Overview(c.DefaultQuery("timeframe", string(analytics.TimeframeWeek)))
	if err != nil {
		h.respondQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// GetTrends handles GET /api/v1/analytics/trends?timeframe=week
func (h *AnalyticsHandlers) GetTrends(c *gin.Context) {
	series, err := h.dashboard.Trends(c.DefaultQuery("timeframe", string(analytics.TimeframeWeek)))
	if err != nil {
		h.respondQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trends": series})
}

// GetAggregated handles GET /api/v1/analytics/aggregated?timeframe=week
func (h *AnalyticsHandlers) GetAggregated(c *gin.Context) {
	metrics, err := h.dashboard.Aggregated(c.DefaultQuery("timeframe", string(analytics.TimeframeWeek)))
	if err != nil {
		h.respondQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}

// GetContentByID handles GET /api/v1/analytics/content/:id
func (h *AnalyticsHandlers) GetContentByID(c *gin.Context) {
	metrics, err := h.dashboard.ContentByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, analytics.ErrUnknownAggregate) {
			c.JSON(http.StatusNotFound, gin.H{"error": "content not tracked"})
			return
		}
		h.respondQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}

// GetInsights handles GET /api/v1/insights/:userId. Unknown visitors return
// the neutral defaults so dashboards render gracefully for empty data.
func (h *AnalyticsHandlers) GetInsights(c *gin.Context) {
	visitorID := c.Param("userId")
	if visitorID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing userId"})
		return
	}
	c.JSON(http.StatusOK, h.insights.GetEngagementInsights(visitorID))
}

func (h *AnalyticsHandlers) respondQueryError(c *gin.Context, err error) {
	if errors.Is(err, analytics.ErrInvalidTimeframe) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.logger.Analytics().Error("Analytics query failed", "path", c.Request.URL.Path, "error", err.Error())
	c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
}
