package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComposeWeightsSumToOne(t *testing.T) {
	sum := WeightTimeOnSite + WeightPageDepth + WeightInteractionRate +
		WeightReturnFrequency + WeightConversionPotential
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestComposeAllMaxedIsHundred(t *testing.T) {
	overall := Compose(ScoreComponents{
		TimeOnSite:          100,
		PageDepth:           100,
		InteractionRate:     100,
		ReturnFrequency:     100,
		ConversionPotential: 100,
	})
	assert.InDelta(t, 100.0, overall, 1e-9)
}

func TestComposeClampsOutOfRangeInputs(t *testing.T) {
	overall := Compose(ScoreComponents{
		TimeOnSite:          500,
		PageDepth:           -50,
		InteractionRate:     100,
		ReturnFrequency:     100,
		ConversionPotential: 100,
	})
	// 100*.20 + 0*.20 + 100*.25 + 100*.15 + 100*.20
	assert.InDelta(t, 80.0, overall, 1e-9)
}

func TestClampBounds(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-1))
	assert.Equal(t, 55.5, Clamp(55.5))
	assert.Equal(t, 100.0, Clamp(100.01))
}
