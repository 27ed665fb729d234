package services

import (
	"testing"
	"time"

	"github.com/sightlinehq/sightline-go/internal/domain/analytics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendHighPrioritySortsFirst(t *testing.T) {
	svc := NewRecommendationService(testLogger(t))

	m := analytics.NewContentMetrics("c1", "/services/consulting", time.Now().UTC())
	m.SEO.Impressions = 1000
	m.SEO.Clicks = 10 // CTR 1%
	m.Technical.LoadTime = 4
	m.Engagement.Views = 100
	m.Engagement.Bounces = 80 // 80% bounce

	recs := svc.Recommend(m)
	require.NotEmpty(t, recs)

	types := map[analytics.RecommendationType]analytics.Priority{}
	for _, r := range recs {
		types[r.Type] = r.Priority
	}
	assert.Equal(t, analytics.PriorityHigh, types[analytics.RecommendImproveHeadline])
	assert.Equal(t, analytics.PriorityHigh, types[analytics.RecommendImproveLoading])
	assert.Equal(t, analytics.PriorityMedium, types[analytics.RecommendRestructure])

	// Every high-priority entry appears before the first medium one
	firstMedium := -1
	lastHigh := -1
	for i, r := range recs {
		if r.Priority == analytics.PriorityHigh {
			lastHigh = i
		}
		if r.Priority == analytics.PriorityMedium && firstMedium == -1 {
			firstMedium = i
		}
	}
	require.GreaterOrEqual(t, firstMedium, 0)
	assert.Less(t, lastHigh, firstMedium)
}

func TestRecommendServicePageWithoutContactForm(t *testing.T) {
	svc := NewRecommendationService(testLogger(t))

	m := analytics.NewContentMetrics("c2", "/services/audits", time.Now().UTC())
	m.PageType = "service"
	m.Engagement.Views = 50
	m.Engagement.AvgScrollDepth = 80

	recs := svc.Recommend(m)

	found := false
	for _, r := range recs {
		if r.Type == analytics.RecommendAddCallToAction {
			found = true
			assert.Equal(t, analytics.PriorityMedium, r.Priority)
		}
	}
	assert.True(t, found, "service page without contact form conversions should get add_cta")

	// Once a contact form conversion lands, the check goes quiet
	m.Conversion.Goals["contact_form"] = 1
	for _, r := range svc.Recommend(m) {
		assert.NotEqual(t, analytics.RecommendAddCallToAction, r.Type)
	}
}

func TestRecommendZeroImpressionsSkipsHeadlineCheck(t *testing.T) {
	svc := NewRecommendationService(testLogger(t))

	m := analytics.NewContentMetrics("c3", "/blog/post", time.Now().UTC())
	// CTR is 0 but with no impressions there is nothing to improve yet
	recs := svc.Recommend(m)

	for _, r := range recs {
		assert.NotEqual(t, analytics.RecommendImproveHeadline, r.Type)
	}
}

func TestRecommendIsDeterministic(t *testing.T) {
	svc := NewRecommendationService(testLogger(t))

	m := analytics.NewContentMetrics("c4", "/blog/other", time.Now().UTC())
	m.SEO.Impressions = 500
	m.SEO.Clicks = 5
	m.Technical.LoadTime = 5
	m.Engagement.Views = 40
	m.Engagement.AvgScrollDepth = 30

	first := svc.Recommend(m)
	second := svc.Recommend(m)

	assert.Equal(t, first, second)
}

func TestRecommendLowScrollDepthNeedsViews(t *testing.T) {
	svc := NewRecommendationService(testLogger(t))

	m := analytics.NewContentMetrics("c5", "/blog/unseen", time.Now().UTC())
	m.Engagement.AvgScrollDepth = 10 // but zero views

	for _, r := range svc.Recommend(m) {
		assert.NotEqual(t, analytics.RecommendImproveReadable, r.Type)
	}
}
