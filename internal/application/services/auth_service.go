package services

import (
	"errors"
	"time"

	"github.com/sightlinehq/sightline-go/internal/infrastructure/observability/logging"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/security"
	"github.com/sightlinehq/sightline-go/pkg/config"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for a failed admin login.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService issues admin tokens for the protected query API. There is a
// single admin identity configured through the environment.
type AuthService struct {
	jwtSecret     string
	passwordHash  string
	tokenLifetime time.Duration
	logger        *logging.ChanneledLogger
}

// NewAuthService creates the auth service from the process configuration.
func NewAuthService(logger *logging.ChanneledLogger) *AuthService {
	return &AuthService{
		jwtSecret:     security.SigningSecret(),
		passwordHash:  config.AdminPasswordHash,
		tokenLifetime: config.TokenLifetime,
		logger:        logger,
	}
}

// Login verifies the admin password and issues an HS256 token.
func (s *AuthService) Login(password string) (string, error) {
	if s.passwordHash == "" {
		s.logger.LogAuthOperation("login", "admin", false, nil)
		return "", errors.New("admin password not configured")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		s.logger.LogAuthOperation("login", "admin", false, nil)
		return "", ErrInvalidCredentials
	}

	token, err := security.GenerateAdminToken("admin", s.jwtSecret, s.tokenLifetime)
	if err != nil {
		s.logger.LogAuthOperation("login", "admin", false, nil)
		return "", err
	}

	s.logger.LogAuthOperation("login", "admin", true, nil)
	return token, nil
}
