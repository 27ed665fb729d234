package services

import (
	"testing"
	"time"

	"github.com/sightlinehq/sightline-go/internal/domain/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackPageViewCreatesAggregates(t *testing.T) {
	tracking, cache := newTestEngine(t)

	err := tracking.TrackPageView(events.PageViewEvent{
		ContentID: "c1",
		URL:       "/blog/post",
		SessionID: "s1",
	})
	require.NoError(t, err)

	visitor, ok := cache.GetVisitor("s1")
	require.True(t, ok)
	assert.Equal(t, 1, visitor.Engagement.Behavior.PageViews)
	assert.Equal(t, 1, visitor.Engagement.Behavior.SessionCount)

	content, ok := cache.GetContent("c1")
	require.True(t, ok)
	assert.Equal(t, 1, content.Metrics.Engagement.Views)
	assert.Equal(t, 1, content.Metrics.Engagement.UniqueVisitors)
	assert.False(t, content.Metrics.LastUpdated.IsZero())
}

func TestTrackPageViewPrefersUserID(t *testing.T) {
	tracking, cache := newTestEngine(t)

	err := tracking.TrackPageView(events.PageViewEvent{
		ContentID: "c1",
		URL:       "/home",
		SessionID: "s1",
		UserID:    "u1",
	})
	require.NoError(t, err)

	_, ok := cache.GetVisitor("u1")
	assert.True(t, ok)
	_, ok = cache.GetVisitor("s1")
	assert.False(t, ok)
}

func TestTrackEngagementDuplicateEventID(t *testing.T) {
	tracking, cache := newTestEngine(t)

	input := EngagementInput{
		EventID:   "evt-1",
		ContentID: "c1",
		Type:      "click",
		SessionID: "s1",
	}
	require.NoError(t, tracking.TrackEngagement(input))
	// Idempotent replay of the same event ID must not double-count
	require.NoError(t, tracking.TrackEngagement(input))

	visitor, ok := cache.GetVisitor("s1")
	require.True(t, ok)
	assert.Equal(t, 1, visitor.Engagement.Behavior.InteractionCounts[events.TypeClick])

	content, ok := cache.GetContent("c1")
	require.True(t, ok)
	assert.Equal(t, 1, content.Metrics.Engagement.Interactions)
}

func TestTrackEngagementRejectsUnknownType(t *testing.T) {
	tracking, _ := newTestEngine(t)

	err := tracking.TrackEngagement(EngagementInput{
		ContentID: "c1",
		Type:      "mind_reading",
		SessionID: "s1",
	})
	assert.ErrorIs(t, err, events.ErrInvalidEventType)
}

func TestTrackEngagementValidation(t *testing.T) {
	tracking, _ := newTestEngine(t)

	err := tracking.TrackEngagement(EngagementInput{Type: "click", SessionID: "s1"})
	assert.ErrorIs(t, err, ErrMissingContent)

	err = tracking.TrackEngagement(EngagementInput{ContentID: "c1", Type: "click"})
	assert.ErrorIs(t, err, ErrMissingIdentity)
}

func TestTrackConversionValidation(t *testing.T) {
	tracking, _ := newTestEngine(t)

	err := tracking.TrackConversion(events.ConversionEvent{ContentID: "c1", SessionID: "s1"})
	assert.ErrorIs(t, err, ErrMissingConversionType)
}

func TestTrackConversionUpdatesGoalsAndLifecycle(t *testing.T) {
	tracking, cache := newTestEngine(t)

	require.NoError(t, tracking.TrackPageView(events.PageViewEvent{
		ContentID: "c1", URL: "/services", SessionID: "s1",
	}))
	require.NoError(t, tracking.TrackConversion(events.ConversionEvent{
		ContentID: "c1",
		Type:      events.ConversionContactForm,
		Value:     100,
		SessionID: "s1",
	}))

	content, ok := cache.GetContent("c1")
	require.True(t, ok)
	assert.Equal(t, 1, content.Metrics.Conversion.Goals[events.ConversionContactForm])
	assert.Equal(t, 1, content.Metrics.Conversion.Completions)
	assert.Equal(t, 100.0, content.Metrics.Conversion.Value)

	visitor, ok := cache.GetVisitor("s1")
	require.True(t, ok)
	assert.Equal(t, "qualified_lead", string(visitor.Engagement.Journey.Stage))
}

func TestBounceAccounting(t *testing.T) {
	tracking, cache := newTestEngine(t)

	// First page view in a session is a provisional bounce
	require.NoError(t, tracking.TrackPageView(events.PageViewEvent{
		ContentID: "c1", URL: "/blog/post", SessionID: "s1",
	}))
	content, ok := cache.GetContent("c1")
	require.True(t, ok)
	assert.Equal(t, 1, content.Metrics.Engagement.Bounces)

	// A second touch in the same session rescinds the bounce
	require.NoError(t, tracking.TrackEngagement(EngagementInput{
		ContentID: "c1",
		Type:      "scroll",
		SessionID: "s1",
		Data:      map[string]any{"depthPercent": 60.0},
	}))
	assert.Equal(t, 0, content.Metrics.Engagement.Bounces)

	// Further activity stays rescinded
	require.NoError(t, tracking.TrackEngagement(EngagementInput{
		ContentID: "c1",
		Type:      "click",
		SessionID: "s1",
	}))
	assert.Equal(t, 0, content.Metrics.Engagement.Bounces)
}

func TestTrackWebVitalsFeedsScoring(t *testing.T) {
	tracking, cache := newTestEngine(t)

	require.NoError(t, tracking.TrackWebVitals(events.WebVitalsReading{
		ContentID: "c1",
		LCP:       2.0,
		FID:       80,
		CLS:       0.05,
	}))

	content, ok := cache.GetContent("c1")
	require.True(t, ok)
	assert.Equal(t, 2.0, content.Metrics.SEO.WebVitals.LCP)
	scorer := NewContentScoringService(testLogger(t))
	assert.Equal(t, 100.0, scorer.WebVitalsScore(content.Metrics.SEO.WebVitals))
}

func TestApplySEOTelemetry(t *testing.T) {
	tracking, cache := newTestEngine(t)

	require.NoError(t, tracking.ApplySEOTelemetry(SEOTelemetryInput{
		ContentID:   "c1",
		URL:         "/services/audits",
		AvgPosition: 4,
		Impressions: 1000,
		Clicks:      40,
		LoadTime:    1.8,
		MobileScore: 90,
		PageType:    "service",
	}))

	content, ok := cache.GetContent("c1")
	require.True(t, ok)
	assert.Equal(t, 1000, content.Metrics.SEO.Impressions)
	assert.InDelta(t, 4.0, content.Metrics.SEO.CTR(), 0.001)
	assert.Equal(t, "service", content.Metrics.PageType)
	assert.Greater(t, content.Metrics.Performance, 0.0)
}

func TestTrackEngagementDefaultsPageToContent(t *testing.T) {
	tracking, cache := newTestEngine(t)

	require.NoError(t, tracking.TrackEngagement(EngagementInput{
		ContentID: "c1",
		Type:      "scroll",
		SessionID: "s1",
		Data:      map[string]any{"depthPercent": 45.0},
	}))

	visitor, ok := cache.GetVisitor("s1")
	require.True(t, ok)
	assert.Equal(t, 45.0, visitor.Engagement.Behavior.ScrollDepth["c1"])
}

func TestTrackEngagementStampsTimestampAndID(t *testing.T) {
	tracking, cache := newTestEngine(t)

	before := time.Now().UTC()
	require.NoError(t, tracking.TrackEngagement(EngagementInput{
		ContentID: "c1",
		Type:      "click",
		SessionID: "s1",
	}))

	visitor, ok := cache.GetVisitor("s1")
	require.True(t, ok)
	require.Len(t, visitor.Engagement.Events, 1)
	event := visitor.Engagement.Events[0]
	assert.NotEmpty(t, event.ID)
	assert.False(t, event.Timestamp.Before(before))
}
