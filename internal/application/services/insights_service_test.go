package services

import (
	"testing"

	"github.com/sightlinehq/sightline-go/internal/domain/analytics"
	"github.com/sightlinehq/sightline-go/internal/domain/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInsights(t *testing.T) (*InsightsService, *TrackingService) {
	t.Helper()
	tracking, cache := newTestEngine(t)
	insights := NewInsightsService(cache, NewPredictionService(testLogger(t)), testTracker(), testLogger(t))
	return insights, tracking
}

func TestInsightsUnknownVisitorReturnsDefaults(t *testing.T) {
	insights, _ := newTestInsights(t)

	result := insights.GetEngagementInsights("ghost")

	assert.Equal(t, "ghost", result.VisitorID)
	assert.False(t, result.Tracked)
	assert.Zero(t, result.Score.Overall)
	assert.Equal(t, string(analytics.StageNewVisitor), result.Segment.Primary)
	assert.Equal(t, analytics.DefaultChurnRisk, result.Prediction.ChurnRisk)
	assert.Nil(t, result.Behavior)
}

func TestInsightsTrackedVisitor(t *testing.T) {
	insights, tracking := newTestInsights(t)

	require.NoError(t, tracking.TrackPageView(events.PageViewEvent{
		ContentID: "c1", URL: "/home", SessionID: "s1",
	}))
	require.NoError(t, tracking.TrackEngagement(EngagementInput{
		ContentID: "c1", Type: "click", SessionID: "s1", Duration: 60,
	}))

	result := insights.GetEngagementInsights("s1")

	assert.True(t, result.Tracked)
	assert.Greater(t, result.Score.Overall, 0.0)
	require.NotNil(t, result.Behavior)
	assert.Equal(t, 1, result.Behavior.PageViews)

	// Second read serves the cached computation and must agree
	again := insights.GetEngagementInsights("s1")
	assert.Equal(t, result.Score.Overall, again.Score.Overall)
	assert.Equal(t, result.Segment.Primary, again.Segment.Primary)
}

func TestInsightsCacheInvalidatedByNewActivity(t *testing.T) {
	insights, tracking := newTestInsights(t)

	require.NoError(t, tracking.TrackPageView(events.PageViewEvent{
		ContentID: "c1", URL: "/home", SessionID: "s1",
	}))
	first := insights.GetEngagementInsights("s1")

	require.NoError(t, tracking.TrackConversion(events.ConversionEvent{
		ContentID: "c1", Type: events.ConversionPurchase, SessionID: "s1",
	}))
	second := insights.GetEngagementInsights("s1")

	assert.NotEqual(t, first.Segment.Lifecycle, second.Segment.Lifecycle)
	assert.Equal(t, analytics.StageClient, second.Segment.Lifecycle)
}

func TestInsightsPercentileSingleVisitorIsZero(t *testing.T) {
	insights, tracking := newTestInsights(t)

	require.NoError(t, tracking.TrackPageView(events.PageViewEvent{
		ContentID: "c1", URL: "/home", SessionID: "s1",
	}))

	result := insights.GetEngagementInsights("s1")
	assert.Zero(t, result.Score.Percentile)
}

func TestInsightsBehaviorIsDetachedSnapshot(t *testing.T) {
	insights, tracking := newTestInsights(t)

	require.NoError(t, tracking.TrackPageView(events.PageViewEvent{
		ContentID: "c1", URL: "/home", SessionID: "s1",
	}))
	require.NoError(t, tracking.TrackEngagement(EngagementInput{
		ContentID: "c1", Type: "scroll", Page: "/home", SessionID: "s1",
		Data: map[string]any{"depthPercent": float64(40)},
	}))

	first := insights.GetEngagementInsights("s1")
	require.NotNil(t, first.Behavior)
	require.Equal(t, 40.0, first.Behavior.ScrollDepth["/home"])

	// Writes to the snapshot must never reach the live aggregate
	first.Behavior.ScrollDepth["/home"] = 99
	first.Behavior.TimeOnPage["/phantom"] = 1
	first.Behavior.InteractionCounts[events.TypeScroll] = 50

	// New activity must not bleed into the earlier snapshot either
	require.NoError(t, tracking.TrackEngagement(EngagementInput{
		ContentID: "c1", Type: "click", SessionID: "s1",
	}))
	assert.Equal(t, 0, first.Behavior.InteractionCounts[events.TypeClick])

	second := insights.GetEngagementInsights("s1")
	require.NotNil(t, second.Behavior)
	assert.Equal(t, 40.0, second.Behavior.ScrollDepth["/home"])
	assert.NotContains(t, second.Behavior.TimeOnPage, "/phantom")
	assert.Equal(t, 1, second.Behavior.InteractionCounts[events.TypeScroll])
	assert.Equal(t, 1, second.Behavior.InteractionCounts[events.TypeClick])
}
