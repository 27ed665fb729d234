package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/sightlinehq/sightline-go/internal/domain/analytics"
	"github.com/sightlinehq/sightline-go/internal/domain/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDashboard(t *testing.T) (*DashboardService, *TrackingService) {
	t.Helper()
	tracking, cache := newTestEngine(t)
	return NewDashboardService(cache, testTracker(), testLogger(t)), tracking
}

func TestOverviewRejectsUnknownTimeframe(t *testing.T) {
	dashboard, _ := newTestDashboard(t)

	_, err := dashboard.Overview("fortnight")
	assert.ErrorIs(t, err, analytics.ErrInvalidTimeframe)

	_, err = dashboard.Trends("year")
	assert.ErrorIs(t, err, analytics.ErrInvalidTimeframe)

	_, err = dashboard.Aggregated("")
	assert.ErrorIs(t, err, analytics.ErrInvalidTimeframe)
}

func TestOverviewAggregatesWindow(t *testing.T) {
	dashboard, tracking := newTestDashboard(t)

	require.NoError(t, tracking.TrackPageView(events.PageViewEvent{
		ContentID: "c1", URL: "/home", SessionID: "s1", Referrer: "https://duckduckgo.com",
	}))
	require.NoError(t, tracking.TrackPageView(events.PageViewEvent{
		ContentID: "c2", URL: "/about", SessionID: "s2",
	}))
	require.NoError(t, tracking.TrackConversion(events.ConversionEvent{
		ContentID: "c1", Type: events.ConversionNewsletter, SessionID: "s1",
	}))

	overview, err := dashboard.Overview("week")
	require.NoError(t, err)

	assert.Equal(t, "week", overview.Timeframe)
	assert.Equal(t, 2, overview.TotalViews)
	assert.Equal(t, 2, overview.UniqueVisitors)
	assert.Equal(t, 1, overview.Conversions)
	assert.Equal(t, 1, overview.TopReferrers["https://duckduckgo.com"])
}

func TestPerformerOrdering(t *testing.T) {
	_, cache := newTestEngine(t)
	dashboard := NewDashboardService(cache, testTracker(), testLogger(t))

	now := time.Now().UTC()
	scores := []float64{90, 70, 70, 50, 30, 20, 10}
	for i, score := range scores {
		id := fmt.Sprintf("c%d", i)
		rec := cache.GetOrCreateContent(id, "/"+id, now)
		rec.Metrics.Performance = score
		// Later index means more recently updated to exercise the tiebreak
		rec.Metrics.LastUpdated = now.Add(time.Duration(i) * time.Minute)
	}

	overview, err := dashboard.Overview("week")
	require.NoError(t, err)

	require.Len(t, overview.TopPerformers, 5)
	assert.Equal(t, "c0", overview.TopPerformers[0].ContentID)
	// Equal scores break toward the most recently updated item
	assert.Equal(t, "c2", overview.TopPerformers[1].ContentID)
	assert.Equal(t, "c1", overview.TopPerformers[2].ContentID)

	require.Len(t, overview.UnderPerformers, 5)
	assert.Equal(t, "c6", overview.UnderPerformers[0].ContentID)
	assert.Equal(t, "c5", overview.UnderPerformers[1].ContentID)
}

func TestPerformersExcludeStaleContent(t *testing.T) {
	_, cache := newTestEngine(t)
	dashboard := NewDashboardService(cache, testTracker(), testLogger(t))

	now := time.Now().UTC()
	fresh := cache.GetOrCreateContent("fresh", "/fresh", now)
	fresh.Metrics.Performance = 50
	fresh.Metrics.LastUpdated = now

	stale := cache.GetOrCreateContent("stale", "/stale", now)
	stale.Metrics.Performance = 99
	stale.Metrics.LastUpdated = now.AddDate(0, -2, 0)

	overview, err := dashboard.Overview("week")
	require.NoError(t, err)

	require.Len(t, overview.TopPerformers, 1)
	assert.Equal(t, "fresh", overview.TopPerformers[0].ContentID)
}

func TestTrendsCoverEveryDay(t *testing.T) {
	dashboard, tracking := newTestDashboard(t)

	require.NoError(t, tracking.TrackPageView(events.PageViewEvent{
		ContentID: "c1", URL: "/home", SessionID: "s1",
	}))

	trends, err := dashboard.Trends("week")
	require.NoError(t, err)

	// 168 hours spans 7 full days plus the partial edges
	assert.GreaterOrEqual(t, len(trends), 7)
	for i := 1; i < len(trends); i++ {
		assert.Less(t, trends[i-1].Date, trends[i].Date, "trend series must be chronological")
	}

	total := 0
	for _, point := range trends {
		total += point.PageViews
	}
	assert.Equal(t, 1, total)
}

func TestAggregatedIncludesDistributions(t *testing.T) {
	dashboard, tracking := newTestDashboard(t)

	require.NoError(t, tracking.TrackPageView(events.PageViewEvent{
		ContentID: "c1", URL: "/home", SessionID: "s1",
	}))
	require.NoError(t, tracking.TrackConversion(events.ConversionEvent{
		ContentID: "c1", Type: events.ConversionPurchase, SessionID: "s2",
	}))

	agg, err := dashboard.Aggregated("month")
	require.NoError(t, err)

	assert.Equal(t, "month", agg.Timeframe)
	lifecycleTotal := 0
	for _, n := range agg.LifecycleDistribution {
		lifecycleTotal += n
	}
	assert.Equal(t, 2, lifecycleTotal)
	assert.Equal(t, 1, agg.LifecycleDistribution["client"])
}

func TestContentByIDUntracked(t *testing.T) {
	dashboard, tracking := newTestDashboard(t)

	_, err := dashboard.ContentByID("ghost")
	assert.ErrorIs(t, err, analytics.ErrUnknownAggregate)

	require.NoError(t, tracking.TrackPageView(events.PageViewEvent{
		ContentID: "c1", URL: "/home", SessionID: "s1",
	}))
	metrics, err := dashboard.ContentByID("c1")
	require.NoError(t, err)
	assert.Equal(t, 1, metrics.Engagement.Views)
}

func TestContentByIDReturnsDetachedSnapshot(t *testing.T) {
	dashboard, tracking := newTestDashboard(t)

	require.NoError(t, tracking.TrackPageView(events.PageViewEvent{
		ContentID: "c1", URL: "/services", SessionID: "s1",
	}))
	require.NoError(t, tracking.TrackConversion(events.ConversionEvent{
		ContentID: "c1", Type: events.ConversionContactForm, SessionID: "s1",
	}))

	snapshot, err := dashboard.ContentByID("c1")
	require.NoError(t, err)
	require.Equal(t, 1, snapshot.Conversion.Goals[events.ConversionContactForm])

	// Writes to the snapshot must never reach the live aggregate
	snapshot.Conversion.Goals[events.ConversionContactForm] = 99
	snapshot.Conversion.Goals["phantom_goal"] = 1

	// New activity must not bleed into the earlier snapshot either
	require.NoError(t, tracking.TrackConversion(events.ConversionEvent{
		ContentID: "c1", Type: events.ConversionNewsletter, SessionID: "s1",
	}))
	assert.Equal(t, 0, snapshot.Conversion.Goals[events.ConversionNewsletter])

	fresh, err := dashboard.ContentByID("c1")
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.Conversion.Goals[events.ConversionContactForm])
	assert.NotContains(t, fresh.Conversion.Goals, "phantom_goal")
	assert.Equal(t, 1, fresh.Conversion.Goals[events.ConversionNewsletter])
}
