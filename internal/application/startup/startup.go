// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sightlinehq/sightline-go/internal/application/container"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/caching/cleanup"
	"github.com/sightlinehq/sightline-go/internal/presentation/http/server"
	"github.com/sightlinehq/sightline-go/pkg/config"
)

// Initialize performs the complete startup sequence: container build, journal
// hydration, background workers, HTTP server, and graceful shutdown.
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	ctx, cancelBackgroundTasks := context.WithCancel(context.Background())
	defer cancelBackgroundTasks()

	log.Println("\033[36m" + `
  ___ _      _    _   _ _
 / __(_)__ _| |_ | |_| (_)_ _  ___
 \__ \ / _` + "`" + ` | ' \|  _| | | ' \/ -_)
 |___/_\__, |_||_|\__|_|_|_||_\___|
       |___/
` + "\033[97m" + `
  behavioral analytics engine
` + "\033[0m")

	// Step 1: Build the dependency injection container
	log.Println("Initializing dependency injection container...")
	appContainer, err := container.NewContainer()
	if err != nil {
		return fmt.Errorf("container initialization failed: %w", err)
	}
	defer appContainer.Close()

	logger := appContainer.Logger
	logger.Startup().Info("Container initialization complete - switching to channeled logging")

	// Step 2: Hydrate in-memory aggregates from the event journal
	logger.Startup().Info("Hydrating engine state from event journal...")
	startHydrateTime := time.Now()
	if err := appContainer.HydrationService.Hydrate(); err != nil {
		logger.Startup().Error("Journal hydration failed", "error", err.Error(), "duration", time.Since(startHydrateTime))
	} else {
		logger.Startup().Info("Journal hydration completed", "duration", time.Since(startHydrateTime))
	}

	reporter := cleanup.NewReporter(appContainer.CacheManager)
	fmt.Print(reporter.GenerateEngineReport())

	// Step 3: Start background cleanup worker
	logger.Startup().Info("Starting background cleanup worker...")
	cleanupConfig := cleanup.NewConfig()
	cleanupWorker := cleanup.NewWorker(appContainer.CacheManager, appContainer.Journal, cleanupConfig)
	go cleanupWorker.Start(ctx)

	// Step 4: Start HTTP server
	logger.Startup().Info("Starting HTTP server...")
	port := config.Port
	httpServer := server.New(port, appContainer)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.System().Info("Starting HTTP server", "address", ":"+port)
		if err := httpServer.Start(); err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
		}
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"visitors", appContainer.CacheManager.VisitorCount(),
		"content", appContainer.CacheManager.ContentCount(),
		"port", port)

	// Wait for shutdown signal
	<-gracefulShutdown
	logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")

	shutdownStart := time.Now()
	cancelBackgroundTasks()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Shutdown().Info("Stopping HTTP server...")
	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart))

	return nil
}

// setupLogging configures application logging
func setupLogging() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
