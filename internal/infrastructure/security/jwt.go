// Package security provides JWT token utilities
package security

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/sightlinehq/sightline-go/pkg/config"
)

var (
	signingSecretOnce sync.Once
	signingSecret     string
)

// SigningSecret returns the configured JWT secret, generating an ephemeral
// one when the environment provides none. Tokens signed with an ephemeral
// secret do not survive a restart.
func SigningSecret() string {
	signingSecretOnce.Do(func() {
		signingSecret = config.JWTSecret
		if signingSecret != "" {
			return
		}
		generated, err := GenerateSecureKey(64)
		if err != nil {
			log.Fatalf("FATAL: Failed to generate ephemeral JWT secret: %v", err)
		}
		log.Println("WARNING: JWT_SECRET not set, signing tokens with an ephemeral secret")
		signingSecret = generated
	})
	return signingSecret
}

// ValidateJWT validates a JWT token and returns the claims
func ValidateJWT(tokenString, jwtSecret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// GenerateAdminToken creates a JWT token granting access to the analytics API
func GenerateAdminToken(subject, jwtSecret string, lifetime time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": "admin",
		"iat":  time.Now().UTC().Unix(),
		"exp":  time.Now().UTC().Add(lifetime).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	result, err := token.SignedString([]byte(jwtSecret))
	if err != nil {
		log.Printf("ERROR: Failed to sign JWT token: %v", err)
		return "", err
	}

	return result, nil
}

// RoleFromClaims extracts the role claim, returning an empty string when absent
func RoleFromClaims(claims jwt.MapClaims) string {
	if role, ok := claims["role"].(string); ok {
		return role
	}
	return ""
}
