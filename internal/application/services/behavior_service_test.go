package services

import (
	"testing"
	"time"

	"github.com/sightlinehq/sightline-go/internal/domain/analytics"
	"github.com/sightlinehq/sightline-go/internal/domain/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyInteractionScrollKeepsMaxDepth(t *testing.T) {
	svc := NewBehaviorService(testLogger(t))
	now := time.Now().UTC()
	eng := analytics.NewVisitorEngagement("v1", now)

	deep, err := events.NewInteractionEvent("e1", "scroll", "", "/blog/post", now)
	require.NoError(t, err)
	deep.Context = events.ScrollPayload{DepthPercent: 80}
	svc.ApplyInteraction(eng, deep)

	// A late, shallower scroll must not lower the recorded depth
	shallow, err := events.NewInteractionEvent("e2", "scroll", "", "/blog/post", now.Add(time.Second))
	require.NoError(t, err)
	shallow.Context = events.ScrollPayload{DepthPercent: 30}
	svc.ApplyInteraction(eng, shallow)

	assert.Equal(t, 80.0, eng.Behavior.ScrollDepth["/blog/post"])
	assert.Equal(t, 2, eng.Behavior.InteractionCounts[events.TypeScroll])
}

func TestApplyInteractionAccumulatesDurationPerPage(t *testing.T) {
	svc := NewBehaviorService(testLogger(t))
	now := time.Now().UTC()
	eng := analytics.NewVisitorEngagement("v1", now)

	first, err := events.NewInteractionEvent("e1", "click", "cta", "/pricing", now)
	require.NoError(t, err)
	first.Duration = 30
	svc.ApplyInteraction(eng, first)

	second, err := events.NewInteractionEvent("e2", "hover", "nav", "/pricing", now.Add(time.Minute))
	require.NoError(t, err)
	second.Duration = 15
	svc.ApplyInteraction(eng, second)

	assert.Equal(t, 45.0, eng.Behavior.TotalTimeOnSite)
	assert.Equal(t, 45.0, eng.Behavior.TimeOnPage["/pricing"])
}

func TestApplyInteractionClickHeatmap(t *testing.T) {
	svc := NewBehaviorService(testLogger(t))
	now := time.Now().UTC()
	eng := analytics.NewVisitorEngagement("v1", now)

	click, err := events.NewInteractionEvent("e1", "click", "cta", "/home", now)
	require.NoError(t, err)
	click.Context = events.ClickPayload{X: 120, Y: 640}
	svc.ApplyInteraction(eng, click)

	require.Len(t, eng.Behavior.ClickHeatmap, 1)
	assert.Equal(t, analytics.ClickPoint{Page: "/home", X: 120, Y: 640}, eng.Behavior.ClickHeatmap[0])
}

func TestApplyPageViewCountsDistinctSessions(t *testing.T) {
	svc := NewBehaviorService(testLogger(t))
	now := time.Now().UTC()
	eng := analytics.NewVisitorEngagement("v1", now)

	pv := events.PageViewEvent{ContentID: "c1", URL: "/home", SessionID: "s1", Timestamp: now}
	svc.ApplyPageView(eng, pv)
	svc.ApplyPageView(eng, events.PageViewEvent{ContentID: "c2", URL: "/about", SessionID: "s1", Timestamp: now.Add(time.Minute)})
	svc.ApplyPageView(eng, events.PageViewEvent{ContentID: "c1", URL: "/home", SessionID: "s2", Timestamp: now.Add(time.Hour)})

	assert.Equal(t, 3, eng.Behavior.PageViews)
	assert.Equal(t, 2, eng.Behavior.SessionCount)
	assert.Equal(t, []string{"/home", "/about", "/home"}, eng.Behavior.NavigationPath)
	assert.Equal(t, 2, eng.Behavior.UniquePages())
}

func TestApplyPageViewTracksActivityWindow(t *testing.T) {
	svc := NewBehaviorService(testLogger(t))
	base := time.Now().UTC()
	eng := analytics.NewVisitorEngagement("v1", base)

	svc.ApplyPageView(eng, events.PageViewEvent{ContentID: "c1", URL: "/home", SessionID: "s1", Timestamp: base.Add(time.Hour)})
	// Out-of-order delivery: an older event widens FirstSeen, never LastActivity
	svc.ApplyPageView(eng, events.PageViewEvent{ContentID: "c2", URL: "/about", SessionID: "s1", Timestamp: base})

	assert.Equal(t, base, eng.Behavior.FirstSeen)
	assert.Equal(t, base.Add(time.Hour), eng.Behavior.LastActivity)
}

func TestApplyConversionExtendsJourney(t *testing.T) {
	svc := NewBehaviorService(testLogger(t))
	now := time.Now().UTC()
	eng := analytics.NewVisitorEngagement("v1", now)

	svc.ApplyConversion(eng, events.ConversionEvent{
		ContentID:   "c1",
		Type:        events.ConversionContactForm,
		Value:       250,
		Attribution: "organic",
		Timestamp:   now,
	})

	require.Len(t, eng.Behavior.Conversions, 1)
	assert.Equal(t, events.ConversionContactForm, eng.Behavior.Conversions[0].Type)
	assert.Equal(t, 250.0, eng.Behavior.Conversions[0].Value)
	assert.Equal(t, []string{events.ConversionContactForm}, eng.Journey.ConversionEvents)
	require.NotEmpty(t, eng.Journey.Touchpoints)
	assert.Equal(t, "conversion", eng.Journey.Touchpoints[len(eng.Journey.Touchpoints)-1].Kind)
}
