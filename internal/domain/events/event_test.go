package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInteractionTypeRejectsUnknown(t *testing.T) {
	for _, raw := range []string{"", "teleport", "PAGE_VIEW"} {
		_, err := ParseInteractionType(raw)
		assert.ErrorIs(t, err, ErrInvalidEventType, "type %q", raw)
	}
}

func TestNewInteractionEventAssignsWeight(t *testing.T) {
	now := time.Now().UTC()

	event, err := NewInteractionEvent("e1", "calculator_use", "roi-widget", "/tools/roi", now)
	require.NoError(t, err)

	assert.Equal(t, TypeCalculatorUse, event.Type)
	assert.Equal(t, 0.8, event.EngagementWeight)
	assert.Equal(t, WeightFor(TypeCalculatorUse), event.EngagementWeight)
}

func TestWeightOrderingReflectsIntent(t *testing.T) {
	// Rich interactions weigh more than passive ones
	assert.Greater(t, WeightFor(TypeRichInteraction), WeightFor(TypeClick))
	assert.Greater(t, WeightFor(TypeFormInteraction), WeightFor(TypeScroll))
	assert.Greater(t, WeightFor(TypeScroll), WeightFor(TypePageView))
}

func TestDecodePayloadScroll(t *testing.T) {
	payload, err := DecodePayload(TypeScroll, map[string]any{"depthPercent": 72.5})
	require.NoError(t, err)

	scroll, ok := payload.(ScrollPayload)
	require.True(t, ok)
	assert.Equal(t, 72.5, scroll.DepthPercent)
}

func TestDecodePayloadClick(t *testing.T) {
	payload, err := DecodePayload(TypeClick, map[string]any{
		"x":       120.0,
		"y":       640.0,
		"element": "cta",
	})
	require.NoError(t, err)

	click, ok := payload.(ClickPayload)
	require.True(t, ok)
	assert.Equal(t, ClickPayload{X: 120, Y: 640, Element: "cta"}, click)
}

func TestDecodePayloadMissingDataIsSafe(t *testing.T) {
	payload, err := DecodePayload(TypeScroll, nil)
	require.NoError(t, err)
	assert.Equal(t, ScrollPayload{}, payload)

	payload, err = DecodePayload(TypeHover, nil)
	require.NoError(t, err)
	assert.Nil(t, payload)
}
