package services

import (
	"time"

	"github.com/sightlinehq/sightline-go/internal/domain/analytics"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/observability/logging"
)

// PredictionService produces heuristic forward estimates for one visitor.
// All probability fields use the 0-100 percentage scale. The estimators are
// total: sparse input returns the documented neutral defaults, and the body
// can be swapped for a statistical model without changing the signature.
type PredictionService struct {
	logger *logging.ChanneledLogger
}

// NewPredictionService creates a new prediction service.
func NewPredictionService(logger *logging.ChanneledLogger) *PredictionService {
	return &PredictionService{logger: logger}
}

// Predict builds the forward estimate for one visitor aggregate. A nil or
// never-active aggregate returns the neutral default prediction.
func (s *PredictionService) Predict(eng *analytics.VisitorEngagement, now time.Time) analytics.EngagementPrediction {
	if eng == nil || (eng.Behavior.PageViews == 0 && eng.Behavior.TotalInteractions() == 0) {
		return analytics.DefaultPrediction(now)
	}

	return analytics.EngagementPrediction{
		ConversionProbability:  s.conversionProbability(eng),
		ChurnRisk:              s.churnRisk(eng, now),
		NextVisitProbability:   s.nextVisitProbability(eng),
		PredictedLifetimeValue: s.lifetimeValue(eng),
		GeneratedAt:            now,
	}
}

// conversionProbability scales with the engagement score and jumps once the
// visitor has already converted at least once.
func (s *PredictionService) conversionProbability(eng *analytics.VisitorEngagement) float64 {
	if len(eng.Behavior.Conversions) > 0 {
		return analytics.Clamp(70 + eng.Score.Overall*0.3)
	}
	base := eng.Score.Overall * 0.6
	if eng.Behavior.SessionCount >= 3 {
		base += 10
	}
	return analytics.Clamp(base + analytics.DefaultConversionProbability)
}

// churnRisk grows with days since the last activity and shrinks with the
// engagement score.
func (s *PredictionService) churnRisk(eng *analytics.VisitorEngagement, now time.Time) float64 {
	if eng.Behavior.LastActivity.IsZero() {
		return analytics.DefaultChurnRisk
	}
	daysSince := now.Sub(eng.Behavior.LastActivity).Hours() / 24
	risk := analytics.DefaultChurnRisk + daysSince*2 - eng.Score.Overall*0.4
	return analytics.Clamp(risk)
}

// nextVisitProbability rises with session count and recency of activity.
func (s *PredictionService) nextVisitProbability(eng *analytics.VisitorEngagement) float64 {
	probability := analytics.DefaultNextVisitProbability +
		float64(eng.Behavior.SessionCount)*8 +
		eng.Score.Overall*0.3
	return analytics.Clamp(probability)
}

// lifetimeValue extrapolates observed conversion value over engagement. It is
// a currency estimate, not a percentage, so it is not clamped to 100.
func (s *PredictionService) lifetimeValue(eng *analytics.VisitorEngagement) float64 {
	observed := 0.0
	for _, conv := range eng.Behavior.Conversions {
		observed += conv.Value
	}
	if observed == 0 {
		return 0
	}
	multiplier := 1 + eng.Score.Overall/100
	return observed * multiplier
}
