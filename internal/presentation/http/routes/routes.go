// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sightlinehq/sightline-go/internal/application/container"
	"github.com/sightlinehq/sightline-go/internal/presentation/http/handlers"
	"github.com/sightlinehq/sightline-go/internal/presentation/http/middleware"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	// Initialize handlers
	trackingHandlers := handlers.NewTrackingHandlers(container.TrackingService, container.Logger)
	analyticsHandlers := handlers.NewAnalyticsHandlers(container.DashboardService, container.InsightsService, container.Logger)
	authHandlers := handlers.NewAuthHandlers(container.AuthService, container.Logger)
	adminHandlers := handlers.NewAdminHandlers(container.DigestService, container.TrackingService, container.Logger)
	liveHandlers := handlers.NewLiveHandlers(container.Broadcaster, container.CacheManager, container.PerfTracker, container.Logger)

	api := r.Group("/api/v1")
	{
		// Public ingestion endpoints, called by the tracking snippet
		track := api.Group("/track")
		{
			track.POST("/pageview", trackingHandlers.PostPageView)
			track.POST("/engagement", trackingHandlers.PostEngagement)
			track.POST("/conversion", trackingHandlers.PostConversion)
			track.POST("/vitals", trackingHandlers.PostWebVitals)
		}

		// Authentication
		api.POST("/auth/login", authHandlers.PostLogin)

		// Live feed and health are open: the feed carries no PII beyond
		// opaque visitor ids, and health backs load balancer checks
		api.GET("/live", liveHandlers.GetLive)
		api.GET("/health", liveHandlers.GetHealth)

		// Protected query API
		analyticsGroup := api.Group("/analytics")
		analyticsGroup.Use(middleware.AuthMiddleware(container.Logger))
		{
			analyticsGroup.GET("/overview", analyticsHandlers.GetOverview)
			analyticsGroup.GET("/trends", analyticsHandlers.GetTrends)
			analyticsGroup.GET("/aggregated", analyticsHandlers.GetAggregated)
			analyticsGroup.GET("/content/:id", analyticsHandlers.GetContentByID)
		}

		insightsGroup := api.Group("/insights")
		insightsGroup.Use(middleware.AuthMiddleware(container.Logger))
		{
			insightsGroup.GET("/:userId", analyticsHandlers.GetInsights)
		}

		adminGroup := api.Group("/admin")
		adminGroup.Use(middleware.AuthMiddleware(container.Logger), middleware.AdminOnlyMiddleware())
		{
			adminGroup.POST("/digest", adminHandlers.PostDigest)
			adminGroup.POST("/seo", adminHandlers.PostSEOTelemetry)
		}
	}

	return r
}
