package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sightlinehq/sightline-go/internal/domain/events"
	journal "github.com/sightlinehq/sightline-go/internal/infrastructure/persistence/analytics"
)

func mustPayload(t *testing.T, v any) []byte {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

// Replaying the journaled wire inputs through a fresh engine must rebuild
// the same aggregates the live ingest produced.
func TestReplayRebuildsIdenticalAggregates(t *testing.T) {
	base := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)

	pv := events.PageViewEvent{
		ContentID: "c1",
		URL:       "/services",
		Referrer:  "https://search.example.com",
		SessionID: "s1",
		Timestamp: base,
	}
	scroll := EngagementInput{
		EventID:   "evt-scroll-1",
		ContentID: "c1",
		Type:      "scroll",
		Page:      "/services",
		Data:      map[string]any{"depth": float64(72)},
		SessionID: "s1",
		Timestamp: base.Add(30 * time.Second),
	}
	conv := events.ConversionEvent{
		ContentID:   "c1",
		Type:        events.ConversionContactForm,
		Value:       250,
		Attribution: "organic",
		SessionID:   "s1",
		Timestamp:   base.Add(2 * time.Minute),
	}
	vitals := events.WebVitalsReading{
		ContentID: "c1",
		LCP:       2.1,
		FID:       90,
		CLS:       0.04,
		Timestamp: base.Add(time.Minute),
	}

	live, liveCache := newTestEngine(t)
	require.NoError(t, live.TrackPageView(pv))
	require.NoError(t, live.TrackEngagement(scroll))
	require.NoError(t, live.TrackConversion(conv))
	require.NoError(t, live.TrackWebVitals(vitals))

	replayTracking, replayCache := newTestEngine(t)
	hydration := NewHydrationService(replayTracking, nil, testTracker(), testLogger(t))

	records := []*journal.JournalRecord{
		{ID: "j1", Kind: journal.KindPageView, Payload: mustPayload(t, pv)},
		{ID: "j2", Kind: journal.KindInteraction, Payload: mustPayload(t, scroll)},
		{ID: "j3", Kind: journal.KindConversion, Payload: mustPayload(t, conv)},
		{ID: "j4", Kind: journal.KindWebVitals, Payload: mustPayload(t, vitals)},
	}
	replayTracking.SetReplayMode(true)
	for _, rec := range records {
		require.NoError(t, hydration.replayRecord(rec))
	}
	replayTracking.SetReplayMode(false)

	liveVisitor, ok := liveCache.GetVisitor("s1")
	require.True(t, ok)
	replayVisitor, ok := replayCache.GetVisitor("s1")
	require.True(t, ok)

	assert.Equal(t, liveVisitor.Engagement.Behavior, replayVisitor.Engagement.Behavior)
	assert.Equal(t, liveVisitor.Engagement.Journey.Stage, replayVisitor.Engagement.Journey.Stage)
	assert.Equal(t, liveVisitor.Engagement.Segment, replayVisitor.Engagement.Segment)

	// LastCalculated carries the wall clock of each run
	liveScore := liveVisitor.Engagement.Score
	replayScore := replayVisitor.Engagement.Score
	liveScore.LastCalculated = time.Time{}
	replayScore.LastCalculated = time.Time{}
	assert.Equal(t, liveScore, replayScore)

	liveContent, ok := liveCache.GetContent("c1")
	require.True(t, ok)
	replayContent, ok := replayCache.GetContent("c1")
	require.True(t, ok)

	liveMetrics := *liveContent.Metrics
	replayMetrics := *replayContent.Metrics
	liveMetrics.LastUpdated = time.Time{}
	replayMetrics.LastUpdated = time.Time{}
	assert.Equal(t, liveMetrics, replayMetrics)
	assert.Equal(t, liveContent.SessionStates, replayContent.SessionStates)
}

func TestReplaySkipsUnknownKinds(t *testing.T) {
	tracking, cache := newTestEngine(t)
	hydration := NewHydrationService(tracking, nil, testTracker(), testLogger(t))

	err := hydration.replayRecord(&journal.JournalRecord{
		ID:      "j-old",
		Kind:    "retired_event_kind",
		Payload: []byte(`{"contentId":"c1"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, cache.VisitorCount())
}
