package analytics

import "time"

// Neutral defaults returned for visitors with no usable history. All
// probability fields use the 0-100 percentage scale consistently.
const (
	DefaultConversionProbability = 10.0
	DefaultChurnRisk             = 50.0
	DefaultNextVisitProbability  = 20.0
)

// EngagementPrediction carries heuristic forward estimates for one visitor.
// Every field is defined for any visitor identity; the estimators never
// extrapolate from zero data, they return the documented defaults instead.
type EngagementPrediction struct {
	ConversionProbability  float64   `json:"conversionProbability"` // 0-100
	ChurnRisk              float64   `json:"churnRisk"`             // 0-100
	NextVisitProbability   float64   `json:"nextVisitProbability"`  // 0-100
	PredictedLifetimeValue float64   `json:"predictedLifetimeValue"`
	GeneratedAt            time.Time `json:"generatedAt"`
}

// DefaultPrediction is the neutral estimate for a never-seen visitor.
func DefaultPrediction(now time.Time) EngagementPrediction {
	return EngagementPrediction{
		ConversionProbability:  DefaultConversionProbability,
		ChurnRisk:              DefaultChurnRisk,
		NextVisitProbability:   DefaultNextVisitProbability,
		PredictedLifetimeValue: 0,
		GeneratedAt:            now,
	}
}
