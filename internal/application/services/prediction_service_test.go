package services

import (
	"testing"
	"time"

	"github.com/sightlinehq/sightline-go/internal/domain/analytics"
	"github.com/stretchr/testify/assert"
)

func TestPredictNilVisitorReturnsDefaults(t *testing.T) {
	svc := NewPredictionService(testLogger(t))
	now := time.Now().UTC()

	pred := svc.Predict(nil, now)

	assert.Equal(t, analytics.DefaultConversionProbability, pred.ConversionProbability)
	assert.Equal(t, analytics.DefaultChurnRisk, pred.ChurnRisk)
	assert.Equal(t, analytics.DefaultNextVisitProbability, pred.NextVisitProbability)
	assert.Zero(t, pred.PredictedLifetimeValue)
	assert.Equal(t, now, pred.GeneratedAt)
}

func TestPredictZeroActivityReturnsDefaults(t *testing.T) {
	svc := NewPredictionService(testLogger(t))
	now := time.Now().UTC()

	eng := analytics.NewVisitorEngagement("v1", now)

	pred := svc.Predict(eng, now)

	assert.Equal(t, analytics.DefaultPrediction(now), pred)
}

func TestPredictProbabilitiesStayInRange(t *testing.T) {
	svc := NewPredictionService(testLogger(t))
	now := time.Now().UTC()

	behavior := analytics.NewUserBehavior()
	behavior.PageViews = 50
	behavior.SessionCount = 12
	behavior.LastActivity = now.AddDate(0, 0, -90)
	behavior.Conversions = []analytics.ConversionRecord{
		{Type: "purchase", Value: 500},
		{Type: "purchase", Value: 1200},
	}
	eng := visitorWith(behavior)
	eng.Score.Overall = 95

	pred := svc.Predict(eng, now)

	for name, value := range map[string]float64{
		"conversionProbability": pred.ConversionProbability,
		"churnRisk":             pred.ChurnRisk,
		"nextVisitProbability":  pred.NextVisitProbability,
	} {
		assert.GreaterOrEqual(t, value, 0.0, name)
		assert.LessOrEqual(t, value, 100.0, name)
	}
	// Lifetime value is a currency estimate, not a percentage
	assert.InDelta(t, 1700*(1+0.95), pred.PredictedLifetimeValue, 0.001)
}

func TestPredictConvertedVisitorHasHighProbability(t *testing.T) {
	svc := NewPredictionService(testLogger(t))
	now := time.Now().UTC()

	behavior := analytics.NewUserBehavior()
	behavior.PageViews = 10
	behavior.SessionCount = 2
	behavior.LastActivity = now
	behavior.Conversions = []analytics.ConversionRecord{{Type: "contact_form"}}
	eng := visitorWith(behavior)
	eng.Score.Overall = 40

	pred := svc.Predict(eng, now)

	assert.GreaterOrEqual(t, pred.ConversionProbability, 70.0)
}

func TestPredictChurnRiskGrowsWithInactivity(t *testing.T) {
	svc := NewPredictionService(testLogger(t))
	now := time.Now().UTC()

	behavior := analytics.NewUserBehavior()
	behavior.PageViews = 5
	behavior.SessionCount = 2
	behavior.LastActivity = now
	eng := visitorWith(behavior)
	eng.Score.Overall = 30

	fresh := svc.Predict(eng, now)
	stale := svc.Predict(eng, now.AddDate(0, 0, 14))

	assert.Greater(t, stale.ChurnRisk, fresh.ChurnRisk)
}
