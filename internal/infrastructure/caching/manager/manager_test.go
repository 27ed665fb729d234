package manager

import (
	"log/slog"
	"testing"
	"time"

	"github.com/sightlinehq/sightline-go/internal/infrastructure/caching/types"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/observability/logging"
	"github.com/sightlinehq/sightline-go/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToFile:    false,
		OutputToConsole: false,
		DefaultLevel:    slog.LevelError,
	})
	require.NoError(t, err)
	return NewManager(logger)
}

func TestGetOrCreateVisitorIsIdempotent(t *testing.T) {
	m := newTestManager(t)
	now := time.Now().UTC()

	first := m.GetOrCreateVisitor("v1", now)
	second := m.GetOrCreateVisitor("v1", now.Add(time.Hour))

	assert.Same(t, first, second)
	assert.Equal(t, 1, m.VisitorCount())

	got, ok := m.GetVisitor("v1")
	require.True(t, ok)
	assert.Same(t, first, got)
}

func TestGetOrCreateContentInitializesMaps(t *testing.T) {
	m := newTestManager(t)

	rec := m.GetOrCreateContent("c1", "/blog/post", time.Now().UTC())

	require.NotNil(t, rec.Visitors)
	require.NotNil(t, rec.SessionStates)
	require.NotNil(t, rec.Metrics)
	assert.Equal(t, "c1", rec.Metrics.ContentID)
	assert.Equal(t, "/blog/post", rec.Metrics.URL)

	byURL, ok := m.GetContentByURL("/blog/post")
	require.True(t, ok)
	assert.Same(t, rec, byURL)
}

func TestHourlyBinUpdateCreatesOnDemand(t *testing.T) {
	m := newTestManager(t)
	hourKey := utils.GetCurrentHourKey()

	m.UpdateHourlySiteBin(hourKey, func(data *types.HourlySiteData) {
		data.PageViews++
		data.UniqueVisitors["v1"] = true
	})
	m.UpdateHourlySiteBin(hourKey, func(data *types.HourlySiteData) {
		data.PageViews++
	})

	bin, ok := m.GetHourlySiteBin(hourKey)
	require.True(t, ok)
	assert.Equal(t, 2, bin.Data.PageViews)
	assert.Len(t, bin.Data.UniqueVisitors, 1)
}

func TestPurgeExpiredBins(t *testing.T) {
	m := newTestManager(t)
	now := time.Now().UTC()

	oldKey := utils.HourKeyForTime(now.Add(-72 * time.Hour))
	freshKey := utils.HourKeyForTime(now)

	m.UpdateHourlySiteBin(oldKey, func(data *types.HourlySiteData) { data.PageViews++ })
	m.UpdateHourlySiteBin(freshKey, func(data *types.HourlySiteData) { data.PageViews++ })
	m.UpdateHourlyContentBin("c1", oldKey, func(data *types.HourlyContentData) { data.Views++ })

	cutoff := utils.HourKeyForTime(now.Add(-24 * time.Hour))
	purged := m.PurgeExpiredBins(cutoff)

	assert.Equal(t, 2, purged)
	_, ok := m.GetHourlySiteBin(oldKey)
	assert.False(t, ok)
	_, ok = m.GetHourlySiteBin(freshKey)
	assert.True(t, ok)
}

func TestInsightsInvalidation(t *testing.T) {
	m := newTestManager(t)
	now := time.Now().UTC()

	m.SetInsights("v1", &types.InsightsCache{
		VisitorID:    "v1",
		LastComputed: now,
		TTL:          time.Minute,
	})
	_, ok := m.GetInsights("v1")
	require.True(t, ok)

	m.InvalidateInsights("v1")
	_, ok = m.GetInsights("v1")
	assert.False(t, ok)
}

func TestPurgeInactiveVisitors(t *testing.T) {
	m := newTestManager(t)
	now := time.Now().UTC()

	stale := m.GetOrCreateVisitor("stale", now.AddDate(0, -3, 0))
	stale.Engagement.Behavior.LastActivity = now.AddDate(0, -3, 0)
	fresh := m.GetOrCreateVisitor("fresh", now)
	fresh.Engagement.Behavior.LastActivity = now

	removed := m.PurgeInactiveVisitors(now.AddDate(0, -1, 0))

	assert.Equal(t, []string{"stale"}, removed)
	assert.Equal(t, 1, m.VisitorCount())
}
