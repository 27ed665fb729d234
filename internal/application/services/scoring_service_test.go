package services

import (
	"testing"
	"time"

	"github.com/sightlinehq/sightline-go/internal/domain/analytics"
	"github.com/sightlinehq/sightline-go/internal/domain/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreVisitorZeroActivity(t *testing.T) {
	svc := NewScoringService(testLogger(t))
	eng := visitorWith(nil)

	score := svc.ScoreVisitor(eng, time.Now().UTC())

	assert.Equal(t, 0.0, score.Overall)
	assert.Equal(t, "stable", score.Trend)
}

func TestScoreVisitorOverallIsWeightedSum(t *testing.T) {
	svc := NewScoringService(testLogger(t))

	behavior := analytics.NewUserBehavior()
	behavior.TotalTimeOnSite = 400 // >= 300 -> 100
	behavior.SessionCount = 5      // >= 5 -> 75
	behavior.PageViews = 7
	behavior.NavigationPath = []string{"/a", "/b", "/c", "/d", "/e", "/f", "/g"} // 7 unique -> 75
	behavior.InteractionCounts[events.TypeClick] = 20                            // 20 per 6.67 min = 3/min -> 100
	eng := visitorWith(behavior)

	score := svc.ScoreVisitor(eng, time.Now().UTC())

	expected := analytics.Compose(score.Components)
	assert.Equal(t, expected, score.Overall)
	assert.GreaterOrEqual(t, score.Overall, 0.0)
	assert.LessOrEqual(t, score.Overall, 100.0)

	assert.Equal(t, 100.0, score.Components.TimeOnSite)
	assert.Equal(t, 75.0, score.Components.PageDepth)
	assert.Equal(t, 100.0, score.Components.InteractionRate)
	assert.Equal(t, 75.0, score.Components.ReturnFrequency)
}

func TestScoreVisitorTimeOnSiteBoundaries(t *testing.T) {
	svc := NewScoringService(testLogger(t))

	cases := []struct {
		seconds float64
		want    float64
	}{
		{10, 10},
		{30, 25}, // boundary rounds up
		{60, 50},
		{180, 75},
		{300, 100},
		{301, 100},
	}
	for _, tc := range cases {
		behavior := analytics.NewUserBehavior()
		behavior.TotalTimeOnSite = tc.seconds
		assert.Equal(t, tc.want, svc.timeOnSiteScore(behavior), "seconds=%v", tc.seconds)
	}
}

func TestInteractionRateZeroTimeOnSite(t *testing.T) {
	svc := NewScoringService(testLogger(t))

	behavior := analytics.NewUserBehavior()
	behavior.InteractionCounts[events.TypeClick] = 10
	eng := visitorWith(behavior)

	// Rate is defined as 0 when no time was recorded, never NaN
	assert.Equal(t, 0.0, svc.interactionRateScore(eng))
}

func TestComposeClampsComponents(t *testing.T) {
	score := analytics.Compose(analytics.ScoreComponents{
		TimeOnSite:          250, // clamped to 100
		PageDepth:           -40, // clamped to 0
		InteractionRate:     100,
		ReturnFrequency:     100,
		ConversionPotential: 100,
	})

	require.GreaterOrEqual(t, score, 0.0)
	require.LessOrEqual(t, score, 100.0)
	// 100*.20 + 0*.20 + 100*.25 + 100*.15 + 100*.20
	assert.InDelta(t, 80.0, score, 0.0001)
}

func TestScoreTrendBands(t *testing.T) {
	svc := NewScoringService(testLogger(t))

	assert.Equal(t, "rising", svc.trendFor(10, 40))
	assert.Equal(t, "falling", svc.trendFor(40, 10))
	assert.Equal(t, "stable", svc.trendFor(40, 42))
}
