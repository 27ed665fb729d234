package services

import (
	"testing"
	"time"

	"github.com/sightlinehq/sightline-go/internal/domain/analytics"
	"github.com/sightlinehq/sightline-go/internal/domain/events"
	"github.com/stretchr/testify/assert"
)

func TestSegmentNilVisitorReturnsDefault(t *testing.T) {
	svc := NewSegmentationService(testLogger(t))

	segment := svc.Segment(nil)

	assert.Equal(t, string(analytics.StageNewVisitor), segment.Primary)
	assert.Equal(t, analytics.TierBronze, segment.Value.Tier)
	assert.Equal(t, analytics.StageNewVisitor, segment.Lifecycle)
}

func TestSegmentIsDeterministic(t *testing.T) {
	svc := NewSegmentationService(testLogger(t))

	behavior := analytics.NewUserBehavior()
	behavior.SessionCount = 3
	behavior.PageViews = 8
	behavior.Conversions = []analytics.ConversionRecord{{Type: events.ConversionContactForm}}
	eng := visitorWith(behavior)
	eng.Score.Overall = 80

	first := svc.Segment(eng)
	second := svc.Segment(eng)

	assert.Equal(t, first, second)
}

func TestSegmentHighValueTakesPriority(t *testing.T) {
	svc := NewSegmentationService(testLogger(t))

	behavior := analytics.NewUserBehavior()
	behavior.SessionCount = 4
	behavior.PageViews = 10
	behavior.Conversions = []analytics.ConversionRecord{{Type: events.ConversionContactForm}}
	eng := visitorWith(behavior)
	eng.Score.Overall = 85

	segment := svc.Segment(eng)

	assert.Equal(t, analytics.SegmentHighValue, segment.Primary)
	// Every other satisfied definition lands in secondary, without duplicates
	assert.Contains(t, segment.Secondary, analytics.SegmentPotentialClient)
	assert.NotContains(t, segment.Secondary, analytics.SegmentHighValue)
	seen := map[string]bool{}
	for _, name := range segment.Secondary {
		assert.False(t, seen[name], "duplicate secondary segment %s", name)
		seen[name] = true
	}
	assert.Equal(t, analytics.TierPlatinum, segment.Value.Tier)
}

func TestSegmentNeutralFallbackFromLifecycle(t *testing.T) {
	svc := NewSegmentationService(testLogger(t))

	behavior := analytics.NewUserBehavior()
	behavior.PageViews = 1
	behavior.SessionCount = 1
	eng := visitorWith(behavior)
	eng.Score.Overall = 5 // below every definition threshold

	segment := svc.Segment(eng)

	assert.Equal(t, string(analytics.StageNewVisitor), segment.Primary)
	assert.Empty(t, segment.Secondary)
}

func TestLifecycleProgression(t *testing.T) {
	svc := NewSegmentationService(testLogger(t))
	now := time.Now().UTC()

	// New visitor
	eng := analytics.NewVisitorEngagement("v1", now)
	assert.Equal(t, analytics.StageNewVisitor, svc.lifecycleStage(eng))

	// Returning visitor
	eng.Behavior.SessionCount = 2
	assert.Equal(t, analytics.StageReturningVisitor, svc.lifecycleStage(eng))

	// Engaged prospect
	eng.Score.Overall = 55
	assert.Equal(t, analytics.StageEngagedProspect, svc.lifecycleStage(eng))

	// Qualified lead after any conversion
	eng.Behavior.Conversions = append(eng.Behavior.Conversions, analytics.ConversionRecord{Type: events.ConversionNewsletter})
	assert.Equal(t, analytics.StageQualifiedLead, svc.lifecycleStage(eng))

	// Client after a purchase
	eng.Behavior.Conversions = append(eng.Behavior.Conversions, analytics.ConversionRecord{Type: events.ConversionPurchase})
	assert.Equal(t, analytics.StageClient, svc.lifecycleStage(eng))

	// Advocate after a referral on top of a purchase
	eng.Behavior.Conversions = append(eng.Behavior.Conversions, analytics.ConversionRecord{Type: events.ConversionReferral})
	assert.Equal(t, analytics.StageAdvocate, svc.lifecycleStage(eng))
}

func TestLifecycleChurnedIsAbsorbing(t *testing.T) {
	svc := NewSegmentationService(testLogger(t))

	eng := analytics.NewVisitorEngagement("v1", time.Now().UTC())
	eng.Journey.Stage = analytics.StageChurned
	eng.Behavior.SessionCount = 5
	eng.Score.Overall = 90

	assert.Equal(t, analytics.StageChurned, svc.lifecycleStage(eng))
}

func TestTierForScoreBuckets(t *testing.T) {
	assert.Equal(t, analytics.TierBronze, analytics.TierForScore(39))
	assert.Equal(t, analytics.TierSilver, analytics.TierForScore(40))
	assert.Equal(t, analytics.TierGold, analytics.TierForScore(60))
	assert.Equal(t, analytics.TierPlatinum, analytics.TierForScore(80))
}
