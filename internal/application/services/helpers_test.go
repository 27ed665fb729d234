package services

import (
	"log/slog"
	"testing"
	"time"

	"github.com/sightlinehq/sightline-go/internal/domain/analytics"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/caching/manager"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/observability/logging"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/observability/performance"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToFile:    false,
		OutputToConsole: false,
		DefaultLevel:    slog.LevelError,
	})
	require.NoError(t, err)
	return logger
}

func testTracker() *performance.Tracker {
	return performance.NewTracker(performance.DefaultTrackerConfig())
}

// newTestEngine wires a full tracking pipeline against an in-memory cache,
// with journaling and broadcasting disabled.
func newTestEngine(t *testing.T) (*TrackingService, *manager.Manager) {
	t.Helper()
	logger := testLogger(t)
	cache := manager.NewManager(logger)

	tracking := NewTrackingService(
		cache,
		NewBehaviorService(logger),
		NewScoringService(logger),
		NewContentScoringService(logger),
		NewSegmentationService(logger),
		NewRecommendationService(logger),
		nil,
		nil,
		testTracker(),
		logger,
	)
	return tracking, cache
}

func visitorWith(behavior *analytics.UserBehavior) *analytics.VisitorEngagement {
	eng := analytics.NewVisitorEngagement("v-test", time.Now().UTC())
	if behavior != nil {
		eng.Behavior = behavior
	}
	return eng
}
