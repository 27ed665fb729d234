package services

import (
	"time"

	"github.com/sightlinehq/sightline-go/internal/domain/analytics"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/observability/logging"
)

// Category weights for the content performance composite.
const (
	weightContentEngagement = 0.40
	weightContentSEO        = 0.30
	weightContentConversion = 0.20
	weightContentTechnical  = 0.10
)

// Core Web Vitals thresholds. Each metric scores 100 at the strict threshold,
// 50 at the lenient one, 0 beyond it; the sub-score is the mean of the three.
const (
	lcpGoodSeconds = 2.5
	lcpPoorSeconds = 4.0
	fidGoodMillis  = 100.0
	fidPoorMillis  = 300.0
	clsGood        = 0.1
	clsPoor        = 0.25
)

// ContentScoringService computes content performance scores from engagement,
// SEO, conversion, and technical telemetry. Pure functions throughout.
type ContentScoringService struct {
	logger *logging.ChanneledLogger
}

// NewContentScoringService creates a new content scoring service.
func NewContentScoringService(logger *logging.ChanneledLogger) *ContentScoringService {
	return &ContentScoringService{logger: logger}
}

// ScoreContent computes the weighted composite performance score for one
// content item and stamps it onto the metrics aggregate.
func (s *ContentScoringService) ScoreContent(metrics *analytics.ContentMetrics, now time.Time) float64 {
	engagement := s.engagementCategory(metrics)
	seo := s.seoCategory(metrics)
	conversion := s.conversionCategory(metrics)
	technical := s.technicalCategory(metrics)

	performance := analytics.Clamp(
		engagement*weightContentEngagement +
			seo*weightContentSEO +
			conversion*weightContentConversion +
			technical*weightContentTechnical)

	metrics.Performance = performance
	metrics.LastUpdated = now

	if s.logger != nil {
		s.logger.Scoring().Debug("Content scored",
			"contentId", metrics.ContentID,
			"performance", performance,
			"engagement", engagement,
			"seo", seo,
			"conversion", conversion,
			"technical", technical)
	}
	return performance
}

// engagementCategory = 30% time-on-page + 25% scroll depth + 25% interaction
// count + 20% inverse bounce rate.
func (s *ContentScoringService) engagementCategory(m *analytics.ContentMetrics) float64 {
	timeScore := ladderScore(m.Engagement.AvgTimeOnPage, timeOnPageContentLadder, 10)
	scrollScore := analytics.Clamp(m.Engagement.AvgScrollDepth)

	interactionScore := 0.0
	if m.Engagement.Views > 0 {
		perView := float64(m.Engagement.Interactions) / float64(m.Engagement.Views)
		interactionScore = ladderScore(perView, interactionPerViewLadder, 10)
	}

	inverseBounce := analytics.Clamp(100 - m.Engagement.BounceRate())

	return analytics.Clamp(timeScore*0.30 + scrollScore*0.25 + interactionScore*0.25 + inverseBounce*0.20)
}

// seoCategory = 40% average search position + 30% CTR + 30% Core Web Vitals.
func (s *ContentScoringService) seoCategory(m *analytics.ContentMetrics) float64 {
	positionScore := 0.0
	if m.SEO.AvgPosition > 0 {
		positionScore = ladderScoreInverted(m.SEO.AvgPosition, positionLadder)
	}
	ctrScore := ladderScore(m.SEO.CTR(), ctrLadder, 0)
	vitalsScore := s.WebVitalsScore(m.SEO.WebVitals)

	return analytics.Clamp(positionScore*0.40 + ctrScore*0.30 + vitalsScore*0.30)
}

// WebVitalsScore averages the per-metric LCP/FID/CLS scores. A fully green
// reading scores exactly 100. An all-zero reading means no telemetry has
// arrived yet and scores 0, so unmeasured content cannot pass as green.
func (s *ContentScoringService) WebVitalsScore(v analytics.WebVitals) float64 {
	if v.LCP == 0 && v.FID == 0 && v.CLS == 0 {
		return 0
	}
	lcp := thresholdMetricScore(v.LCP, lcpGoodSeconds, lcpPoorSeconds)
	fid := thresholdMetricScore(v.FID, fidGoodMillis, fidPoorMillis)
	cls := thresholdMetricScore(v.CLS, clsGood, clsPoor)
	return (lcp + fid + cls) / 3
}

// conversionCategory buckets the conversion rate per hundred views.
func (s *ContentScoringService) conversionCategory(m *analytics.ContentMetrics) float64 {
	return ladderScore(m.Conversion.Rate(m.Engagement.Views), conversionRateLadder, 0)
}

// technicalCategory = 50% load time + 50% mobile score.
func (s *ContentScoringService) technicalCategory(m *analytics.ContentMetrics) float64 {
	loadScore := 100.0
	if m.Technical.LoadTime > 0 {
		loadScore = ladderScoreInverted(m.Technical.LoadTime, loadTimeLadder)
	}
	mobileScore := analytics.Clamp(m.Technical.MobileScore)
	return analytics.Clamp(loadScore*0.50 + mobileScore*0.50)
}

func thresholdMetricScore(value, good, poor float64) float64 {
	switch {
	case value <= good:
		return 100
	case value <= poor:
		return 50
	default:
		return 0
	}
}

// ladderScoreInverted scores lower-is-better metrics: the value must stay at
// or below the threshold to earn the step's score.
func ladderScoreInverted(value float64, ladder []ladderStep) float64 {
	for _, step := range ladder {
		if value <= step.threshold {
			return step.score
		}
	}
	return 0
}

var (
	// Average seconds on page for one content item.
	timeOnPageContentLadder = []ladderStep{
		{180, 100}, {120, 75}, {60, 50}, {30, 25},
	}
	// Interactions per view.
	interactionPerViewLadder = []ladderStep{
		{3.0, 100}, {2.0, 75}, {1.0, 50}, {0.5, 25},
	}
	// Average search position, lower is better (inverted ladder).
	positionLadder = []ladderStep{
		{3, 100}, {10, 75}, {20, 50}, {50, 25},
	}
	// Click-through rate percent.
	ctrLadder = []ladderStep{
		{5, 100}, {3, 75}, {2, 50}, {1, 25},
	}
	// Conversions per hundred views.
	conversionRateLadder = []ladderStep{
		{5, 100}, {3, 75}, {1, 50}, {0.5, 25},
	}
	// Page load seconds, lower is better (inverted ladder).
	loadTimeLadder = []ladderStep{
		{1, 100}, {2, 75}, {3, 50}, {5, 25},
	}
)
