package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	appconfig "github.com/sightlinehq/sightline-go/pkg/config"
)

// CORSMiddleware configures cross-origin access for the tracking snippet and
// dashboard clients. Origins come from ALLOWED_ORIGINS; the default allows
// all origins since the tracking endpoints are embedded on customer sites.
func CORSMiddleware() gin.HandlerFunc {
	config := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept", "Authorization",
			"X-Requested-With", "Cache-Control",
		},
		ExposeHeaders: []string{"Content-Type", "Cache-Control", "Connection"},
	}

	origins := appconfig.AllowedOrigins
	if len(origins) == 1 && origins[0] == "*" {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
		config.AllowCredentials = true
	}

	return cors.New(config)
}
