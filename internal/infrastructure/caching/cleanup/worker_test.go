package cleanup

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sightlinehq/sightline-go/internal/domain/analytics"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/caching/manager"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/observability/logging"
	"github.com/sightlinehq/sightline-go/utils"
)

func newTestWorker(t *testing.T) (*Worker, *manager.Manager) {
	t.Helper()
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToFile:    false,
		OutputToConsole: false,
		DefaultLevel:    slog.LevelError,
	})
	require.NoError(t, err)

	cache := manager.NewManager(logger)
	cfg := &Config{
		CleanupInterval: time.Minute,
		ChurnWindow:     90 * 24 * time.Hour,
		RollupRetention: 2016 * time.Hour,
	}
	return NewWorker(cache, nil, cfg), cache
}

func TestChurnPolicySkipsTerminalStages(t *testing.T) {
	worker, cache := newTestWorker(t)
	now := time.Now().UTC()
	stale := now.Add(-120 * 24 * time.Hour)

	lead := cache.GetOrCreateVisitor("lead", now)
	lead.Engagement.Behavior.LastActivity = stale
	lead.Engagement.Journey.Stage = analytics.StageQualifiedLead

	client := cache.GetOrCreateVisitor("client", now)
	client.Engagement.Behavior.LastActivity = stale
	client.Engagement.Journey.Stage = analytics.StageClient

	advocate := cache.GetOrCreateVisitor("advocate", now)
	advocate.Engagement.Behavior.LastActivity = stale
	advocate.Engagement.Journey.Stage = analytics.StageAdvocate

	fresh := cache.GetOrCreateVisitor("fresh", now)
	fresh.Engagement.Behavior.LastActivity = now
	fresh.Engagement.Journey.Stage = analytics.StageReturningVisitor

	churned := worker.applyChurnPolicy(NewReporter(cache))

	assert.Equal(t, 1, churned)
	assert.Equal(t, analytics.StageChurned, lead.Engagement.Journey.Stage)
	assert.Equal(t, analytics.StageChurned, lead.Engagement.Segment.Lifecycle)
	assert.Equal(t, analytics.StageClient, client.Engagement.Journey.Stage)
	assert.Equal(t, analytics.StageAdvocate, advocate.Engagement.Journey.Stage)
	assert.Equal(t, analytics.StageReturningVisitor, fresh.Engagement.Journey.Stage)

	// Already-churned visitors are not demoted twice
	assert.Equal(t, 0, worker.applyChurnPolicy(NewReporter(cache)))
}

func TestCleanupStampsLastFullHour(t *testing.T) {
	worker, cache := newTestWorker(t)

	worker.performCleanup(context.Background())

	assert.Equal(t, utils.GetCurrentHourKey(), cache.GetLastFullHour())
}
