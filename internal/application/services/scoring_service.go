package services

import (
	"time"

	"github.com/sightlinehq/sightline-go/internal/domain/analytics"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/observability/logging"
)

// Threshold ladders for the five visitor sub-scores. Boundary values round up
// to the next bucket (>= comparison). The breakpoints are part of the scoring
// contract, not tunables.
var (
	timeOnSiteLadder = []ladderStep{
		{300, 100}, {180, 75}, {60, 50}, {30, 25},
	}
	pageDepthLadder = []ladderStep{
		{10, 100}, {6, 75}, {3, 50}, {2, 25},
	}
	interactionRateLadder = []ladderStep{
		{3.0, 100}, {2.0, 75}, {1.0, 50}, {0.5, 25},
	}
	returnFrequencyLadder = []ladderStep{
		{10, 100}, {5, 75}, {3, 50}, {2, 25},
	}
	conversionPotentialLadder = []ladderStep{
		{2.0, 100}, {1.4, 75}, {0.9, 50}, {0.4, 25},
	}
)

type ladderStep struct {
	threshold float64
	score     float64
}

func ladderScore(value float64, ladder []ladderStep, floor float64) float64 {
	for _, step := range ladder {
		if value >= step.threshold {
			return step.score
		}
	}
	return floor
}

// ScoringService computes visitor engagement scores. Every score is a pure
// function of the behavior snapshot and event history, clamped to [0,100].
type ScoringService struct {
	logger *logging.ChanneledLogger
}

// NewScoringService creates a new visitor scoring service.
func NewScoringService(logger *logging.ChanneledLogger) *ScoringService {
	return &ScoringService{logger: logger}
}

// ScoreVisitor computes the composite engagement score for one visitor. A
// visitor with zero interactions and zero session duration scores exactly 0.
func (s *ScoringService) ScoreVisitor(eng *analytics.VisitorEngagement, now time.Time) analytics.EngagementScore {
	behavior := eng.Behavior

	if behavior.TotalTimeOnSite == 0 && behavior.TotalInteractions() == 0 &&
		behavior.PageViews == 0 && len(behavior.Conversions) == 0 {
		return analytics.EngagementScore{
			Overall:        0,
			Trend:          "stable",
			LastCalculated: now,
		}
	}

	components := analytics.ScoreComponents{
		TimeOnSite:          s.timeOnSiteScore(behavior),
		PageDepth:           s.pageDepthScore(behavior),
		InteractionRate:     s.interactionRateScore(eng),
		ReturnFrequency:     s.returnFrequencyScore(behavior),
		ConversionPotential: s.conversionPotentialScore(eng),
	}

	overall := analytics.Compose(components)

	score := analytics.EngagementScore{
		Overall:        overall,
		Components:     components,
		Trend:          s.trendFor(eng.Score.Overall, overall),
		LastCalculated: now,
	}

	if s.logger != nil {
		s.logger.Scoring().Debug("Visitor scored",
			"visitorId", eng.VisitorID,
			"overall", overall,
			"trend", score.Trend)
	}
	return score
}

// timeOnSiteScore buckets total seconds on site at 30/60/180/300s.
func (s *ScoringService) timeOnSiteScore(b *analytics.UserBehavior) float64 {
	return ladderScore(b.TotalTimeOnSite, timeOnSiteLadder, 10)
}

// pageDepthScore buckets distinct pages visited.
func (s *ScoringService) pageDepthScore(b *analytics.UserBehavior) float64 {
	return ladderScore(float64(b.UniquePages()), pageDepthLadder, 10)
}

// interactionRateScore buckets interactions per minute on site. Zero time on
// site defines the rate score as 0 rather than dividing by zero.
func (s *ScoringService) interactionRateScore(eng *analytics.VisitorEngagement) float64 {
	if eng.Behavior.TotalTimeOnSite == 0 {
		return 0
	}
	minutes := eng.Behavior.TotalTimeOnSite / 60
	rate := float64(eng.Behavior.TotalInteractions()) / minutes
	return ladderScore(rate, interactionRateLadder, 10)
}

// returnFrequencyScore buckets the visitor's session count.
func (s *ScoringService) returnFrequencyScore(b *analytics.UserBehavior) float64 {
	return ladderScore(float64(b.SessionCount), returnFrequencyLadder, 10)
}

// conversionPotentialScore buckets summed engagement weight from high-intent
// interactions plus an outsized bonus per completed conversion.
func (s *ScoringService) conversionPotentialScore(eng *analytics.VisitorEngagement) float64 {
	intent := 0.0
	for _, event := range eng.Events {
		if event.EngagementWeight >= 0.5 {
			intent += event.EngagementWeight
		}
	}
	intent += float64(len(eng.Behavior.Conversions)) * 2.0
	return ladderScore(intent, conversionPotentialLadder, 10)
}

// trendFor compares the new overall against the previous calculation window.
func (s *ScoringService) trendFor(previous, current float64) string {
	const band = 5.0
	switch {
	case current > previous+band:
		return "rising"
	case current < previous-band:
		return "falling"
	default:
		return "stable"
	}
}
