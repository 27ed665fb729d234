package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sightlinehq/sightline-go/internal/application/services"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/observability/logging"
)

// AuthHandlers contains the authentication endpoints.
type AuthHandlers struct {
	auth   *services.AuthService
	logger *logging.ChanneledLogger
}

// NewAuthHandlers creates auth handlers with injected dependencies.
func NewAuthHandlers(auth *services.AuthService, logger *logging.ChanneledLogger) *AuthHandlers {
	return &AuthHandlers{
		auth:   auth,
		logger: logger,
	}
}

type loginRequest struct {
	Password string `json:"password" binding:"required"`
}

// PostLogin handles POST /api/v1/auth/login
func (h *AuthHandlers) PostLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password required"})
		return
	}

	token, err := h.auth.Login(req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		h.logger.Auth().Error("Login failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
