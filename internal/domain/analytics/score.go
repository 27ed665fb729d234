package analytics

import "time"

// Component weights for the composite engagement score. They sum to 1.0 so
// the overall score stays in [0,100] whenever each component is clamped.
const (
	WeightTimeOnSite          = 0.20
	WeightPageDepth           = 0.20
	WeightInteractionRate     = 0.25
	WeightReturnFrequency     = 0.15
	WeightConversionPotential = 0.20
)

// ScoreComponents holds the five visitor sub-scores, each in [0,100].
type ScoreComponents struct {
	TimeOnSite          float64 `json:"timeOnSite"`
	PageDepth           float64 `json:"pageDepth"`
	InteractionRate     float64 `json:"interactionRate"`
	ReturnFrequency     float64 `json:"returnFrequency"`
	ConversionPotential float64 `json:"conversionPotential"`
}

// EngagementScore is the normalized 0-100 engagement measure for a visitor.
type EngagementScore struct {
	Overall        float64         `json:"overall"`
	Components     ScoreComponents `json:"components"`
	Trend          string          `json:"trend"` // rising | stable | falling
	Percentile     float64         `json:"percentile"`
	LastCalculated time.Time       `json:"lastCalculated"`
}

// Clamp bounds a score value to [0,100].
func Clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Compose computes the weighted overall score from the five components, each
// clamped before weighting so the result is always in [0,100].
func Compose(c ScoreComponents) float64 {
	overall := Clamp(c.TimeOnSite)*WeightTimeOnSite +
		Clamp(c.PageDepth)*WeightPageDepth +
		Clamp(c.InteractionRate)*WeightInteractionRate +
		Clamp(c.ReturnFrequency)*WeightReturnFrequency +
		Clamp(c.ConversionPotential)*WeightConversionPotential
	return Clamp(overall)
}
