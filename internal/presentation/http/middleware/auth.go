package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/observability/logging"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/security"
)

// ContextKeyRole is where AuthMiddleware stores the validated role claim.
const ContextKeyRole = "authRole"

// AuthMiddleware guards the query API with a bearer token issued by the
// login endpoint.
func AuthMiddleware(logger *logging.ChanneledLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := security.ValidateJWT(strings.TrimPrefix(authHeader, "Bearer "), security.SigningSecret())
		if err != nil {
			logger.Auth().Debug("Token validation failed", "path", c.Request.URL.Path, "error", err.Error())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ContextKeyRole, security.RoleFromClaims(claims))
		c.Next()
	}
}

// AdminOnlyMiddleware restricts a route to the admin role. It must run after
// AuthMiddleware.
func AdminOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if role, _ := c.Get(ContextKeyRole); role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}
