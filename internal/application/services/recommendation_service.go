package services

import (
	"sort"

	"github.com/sightlinehq/sightline-go/internal/domain/analytics"
	"github.com/sightlinehq/sightline-go/internal/domain/events"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/observability/logging"
)

// RecommendationService inspects content metrics against a fixed battery of
// heuristic checks and emits a prioritized recommendation list. Regenerating
// from the same metrics snapshot produces the same ordered list.
type RecommendationService struct {
	logger *logging.ChanneledLogger
}

// NewRecommendationService creates a new recommendation service.
func NewRecommendationService(logger *logging.ChanneledLogger) *RecommendationService {
	return &RecommendationService{logger: logger}
}

// Recommend runs every check in evaluation order, then stable-sorts by
// priority descending so equal priorities keep check order.
func (s *RecommendationService) Recommend(m *analytics.ContentMetrics) []analytics.ContentRecommendation {
	var recs []analytics.ContentRecommendation

	if m.SEO.Impressions > 0 && m.SEO.CTR() < 2 {
		recs = append(recs, analytics.ContentRecommendation{
			Type:           analytics.RecommendImproveHeadline,
			Priority:       analytics.PriorityHigh,
			Description:    "Click-through rate is below 2%. Rewrite the title and meta description to better match search intent.",
			ExpectedImpact: "Higher CTR from existing impressions",
			Effort:         "low",
			Category:       "seo",
		})
	}

	if m.Technical.LoadTime > 3 {
		recs = append(recs, analytics.ContentRecommendation{
			Type:           analytics.RecommendImproveLoading,
			Priority:       analytics.PriorityHigh,
			Description:    "Page loads in over 3 seconds. Compress assets and defer non-critical scripts.",
			ExpectedImpact: "Lower bounce rate and better Core Web Vitals",
			Effort:         "medium",
			Category:       "technical",
		})
	}

	if m.Engagement.BounceRate() > 70 {
		recs = append(recs, analytics.ContentRecommendation{
			Type:           analytics.RecommendRestructure,
			Priority:       analytics.PriorityMedium,
			Description:    "Bounce rate exceeds 70%. Restructure the opening section and add internal links above the fold.",
			ExpectedImpact: "More multi-page sessions",
			Effort:         "medium",
			Category:       "content",
		})
	}

	if m.Engagement.Views > 0 && m.Engagement.AvgScrollDepth < 50 {
		recs = append(recs, analytics.ContentRecommendation{
			Type:           analytics.RecommendImproveReadable,
			Priority:       analytics.PriorityLow,
			Description:    "Average scroll depth is under 50%. Break up long paragraphs and add subheadings.",
			ExpectedImpact: "Deeper content consumption",
			Effort:         "low",
			Category:       "content",
		})
	}

	if m.PageType == "service" && m.Conversion.Goals[events.ConversionContactForm] == 0 {
		recs = append(recs, analytics.ContentRecommendation{
			Type:           analytics.RecommendAddCallToAction,
			Priority:       analytics.PriorityMedium,
			Description:    "Service page has no contact form conversions. Add a prominent call to action.",
			ExpectedImpact: "New lead capture on an existing traffic source",
			Effort:         "low",
			Category:       "conversion",
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority.Rank() < recs[j].Priority.Rank()
	})

	if s.logger != nil && len(recs) > 0 {
		s.logger.Analytics().Debug("Recommendations generated",
			"contentId", m.ContentID,
			"count", len(recs))
	}
	return recs
}
