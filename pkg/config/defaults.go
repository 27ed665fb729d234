// Package config provides centralized default values for Sightline
package config

import (
	"bufio"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		file, err := os.Open(".env")
		if err != nil {
			return
		}
		defer file.Close()

		log.Println("Loading configuration overrides from .env file...")
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())

			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}

			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])

			if os.Getenv(key) == "" {
				os.Setenv(key, value)
			}
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseBool(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%v (default: %v)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration

	// Database Configuration
	DBDriver string
	DBPath   string

	// Auth Configuration
	JWTSecret         string
	AdminPasswordHash string
	TokenLifetime     time.Duration

	// Email Configuration
	ResendAPIKey    string
	DigestFromEmail string
	DigestFromName  string

	// CORS
	AllowedOrigins []string

	// Analytics Policy
	InactivityChurnWindow time.Duration
	RollupRetention       time.Duration
	DashboardTTL          time.Duration
	InsightsTTL           time.Duration

	// Cleanup Intervals
	CleanupInterval time.Duration
	CleanupVerbose  bool

	// Performance
	SlowQueryThreshold time.Duration
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)

	// Database Configuration
	DBDriver = getEnvString("DB_DRIVER", "sqlite3")
	DBPath = getEnvString("DB_PATH", "sightline.db")

	// Auth Configuration
	JWTSecret = getEnvString("JWT_SECRET", "")
	AdminPasswordHash = getEnvString("ADMIN_PASSWORD_HASH", "")
	TokenLifetime = getEnvDuration("TOKEN_LIFETIME", 24*time.Hour)

	// Email Configuration
	ResendAPIKey = getEnvString("RESEND_API_KEY", "")
	DigestFromEmail = getEnvString("DIGEST_EMAIL_FROM", "analytics@sightlinehq.com")
	DigestFromName = getEnvString("DIGEST_EMAIL_FROM_NAME", "Sightline")

	// CORS
	AllowedOrigins = strings.Split(getEnvString("ALLOWED_ORIGINS", "*"), ",")

	// Analytics Policy
	InactivityChurnWindow = time.Duration(getEnvInt("INACTIVITY_CHURN_DAYS", 90)) * 24 * time.Hour
	RollupRetention = time.Duration(getEnvInt("ROLLUP_RETENTION_DAYS", 90)) * 24 * time.Hour
	DashboardTTL = time.Duration(getEnvInt("DASHBOARD_TTL_MINUTES", 10)) * time.Minute
	InsightsTTL = time.Duration(getEnvInt("INSIGHTS_TTL_MINUTES", 5)) * time.Minute

	// Cleanup Intervals
	CleanupInterval = time.Duration(getEnvInt("CLEANUP_INTERVAL_MINUTES", 30)) * time.Minute
	CleanupVerbose = getEnvBool("CLEANUP_VERBOSE", false)

	// Performance
	SlowQueryThreshold = getEnvDuration("SLOW_QUERY_THRESHOLD", 50*time.Millisecond)
}
