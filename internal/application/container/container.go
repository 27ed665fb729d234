// Package container provides dependency injection for all singleton services
package container

import (
	"fmt"

	"github.com/sightlinehq/sightline-go/internal/application/services"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/caching/manager"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/email"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/messaging"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/observability/logging"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/observability/performance"
	journal "github.com/sightlinehq/sightline-go/internal/infrastructure/persistence/analytics"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/persistence/database"
	"github.com/sightlinehq/sightline-go/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies.
// It is constructed once at process start and passed by reference to the
// presentation layer; there is no hidden global engine state.
type Container struct {
	// Engine services (singletons)
	BehaviorService       *services.BehaviorService
	ScoringService        *services.ScoringService
	ContentScoringService *services.ContentScoringService
	SegmentationService   *services.SegmentationService
	RecommendationService *services.RecommendationService
	PredictionService     *services.PredictionService
	TrackingService       *services.TrackingService
	InsightsService       *services.InsightsService
	DashboardService      *services.DashboardService
	DigestService         *services.DigestService
	AuthService           *services.AuthService
	HydrationService      *services.HydrationService

	// Infrastructure dependencies
	Logger       *logging.ChanneledLogger
	PerfTracker  *performance.Tracker
	CacheManager *manager.Manager
	DB           *database.DB
	Journal      *journal.SQLEventRepository
	Broadcaster  *messaging.LiveBroadcaster
	Mailer       email.Service
}

// NewContainer creates and wires all singleton services.
func NewContainer() (*Container, error) {
	logger, err := logging.NewChanneledLogger(logging.DefaultLoggerConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	perfTracker := performance.NewTracker(performance.DefaultTrackerConfig())
	cacheManager := manager.NewManager(logger)

	db, err := database.NewConnectionWithLogger(config.DBDriver, config.DBPath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	journalRepo := journal.NewSQLEventRepository(db, logger)
	if err := journalRepo.EnsureSchema(); err != nil {
		return nil, err
	}

	broadcaster := messaging.NewLiveBroadcaster(logger)

	// Email is optional: without an API key the digest endpoint reports
	// delivery unconfigured instead of failing startup.
	mailer, err := email.NewService()
	if err != nil {
		logger.Email().Warn("Email delivery disabled", "reason", err.Error())
		mailer = nil
	}

	behavior := services.NewBehaviorService(logger)
	scoring := services.NewScoringService(logger)
	contentScoring := services.NewContentScoringService(logger)
	segmentation := services.NewSegmentationService(logger)
	recommender := services.NewRecommendationService(logger)
	prediction := services.NewPredictionService(logger)

	tracking := services.NewTrackingService(
		cacheManager,
		behavior,
		scoring,
		contentScoring,
		segmentation,
		recommender,
		journalRepo,
		broadcaster,
		perfTracker,
		logger,
	)
	insights := services.NewInsightsService(cacheManager, prediction, perfTracker, logger)
	dashboard := services.NewDashboardService(cacheManager, perfTracker, logger)
	digest := services.NewDigestService(dashboard, cacheManager, mailer, logger)
	auth := services.NewAuthService(logger)
	hydration := services.NewHydrationService(tracking, journalRepo, perfTracker, logger)

	return &Container{
		BehaviorService:       behavior,
		ScoringService:        scoring,
		ContentScoringService: contentScoring,
		SegmentationService:   segmentation,
		RecommendationService: recommender,
		PredictionService:     prediction,
		TrackingService:       tracking,
		InsightsService:       insights,
		DashboardService:      dashboard,
		DigestService:         digest,
		AuthService:           auth,
		HydrationService:      hydration,

		Logger:       logger,
		PerfTracker:  perfTracker,
		CacheManager: cacheManager,
		DB:           db,
		Journal:      journalRepo,
		Broadcaster:  broadcaster,
		Mailer:       mailer,
	}, nil
}

// Close releases the container's infrastructure resources.
func (c *Container) Close() error {
	var firstErr error
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			firstErr = err
		}
	}
	if c.Logger != nil {
		if err := c.Logger.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
