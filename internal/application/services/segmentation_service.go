package services

import (
	"github.com/sightlinehq/sightline-go/internal/domain/analytics"
	"github.com/sightlinehq/sightline-go/internal/domain/events"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/observability/logging"
)

// segmentDefinition is one rule in the ordered battery. All populated
// thresholds must be satisfied for the definition to match.
type segmentDefinition struct {
	name            string
	minScore        float64
	minSessions     int
	minPageViews    int
	minConversions  int
	characteristics []string
	personalization []string
}

// segmentDefinitions is evaluated in priority order; the first match becomes
// the primary segment and every other match becomes a secondary.
var segmentDefinitions = []segmentDefinition{
	{
		name:            analytics.SegmentHighValue,
		minScore:        75,
		minSessions:     3,
		minConversions:  1,
		characteristics: []string{"repeat visitor", "converted", "high engagement"},
		personalization: []string{"loyalty_offers", "advanced_content"},
	},
	{
		name:            analytics.SegmentPotentialClient,
		minScore:        60,
		minSessions:     2,
		minPageViews:    5,
		characteristics: []string{"repeat visitor", "deep navigation"},
		personalization: []string{"case_studies", "pricing_content"},
	},
	{
		name:            analytics.SegmentEngagedResearcher,
		minScore:        45,
		minPageViews:    4,
		characteristics: []string{"broad reading", "moderate engagement"},
		personalization: []string{"related_articles", "newsletter_prompt"},
	},
	{
		name:            analytics.SegmentContentExplorer,
		minScore:        25,
		minPageViews:    2,
		characteristics: []string{"browsing"},
		personalization: []string{"popular_content"},
	},
	{
		name:            analytics.SegmentWindowShopper,
		minScore:        10,
		characteristics: []string{"light touch"},
		personalization: []string{"introductory_content"},
	},
}

// SegmentationService classifies visitors into segments, value tiers, and
// lifecycle stages. Classification is a pure function of the behavior
// snapshot and score: same inputs, same segment.
type SegmentationService struct {
	logger *logging.ChanneledLogger
}

// NewSegmentationService creates a new segmentation service.
func NewSegmentationService(logger *logging.ChanneledLogger) *SegmentationService {
	return &SegmentationService{logger: logger}
}

// Segment classifies one visitor aggregate. A nil aggregate returns the
// neutral default so segmentation stays total over all visitor identities.
func (s *SegmentationService) Segment(eng *analytics.VisitorEngagement) analytics.UserSegment {
	if eng == nil {
		return analytics.DefaultSegment()
	}

	behavior := eng.Behavior
	score := eng.Score.Overall
	lifecycle := s.lifecycleStage(eng)

	var primary string
	secondary := []string{}
	characteristics := []string{}
	personalization := []string{}

	for _, def := range segmentDefinitions {
		if !s.matches(def, behavior, score) {
			continue
		}
		if primary == "" {
			primary = def.name
			characteristics = append(characteristics, def.characteristics...)
			personalization = append(personalization, def.personalization...)
		} else if !containsSegment(secondary, def.name) {
			secondary = append(secondary, def.name)
		}
	}

	if primary == "" {
		// Neutral fallback derived from the lifecycle stage
		primary = string(lifecycle)
	}

	return analytics.UserSegment{
		Primary:         primary,
		Secondary:       secondary,
		Characteristics: characteristics,
		Value: analytics.SegmentValue{
			Score:     score,
			Tier:      analytics.TierForScore(score),
			Potential: s.potentialFor(eng, score),
			Risk:      s.riskFor(eng, score),
		},
		Lifecycle:       lifecycle,
		Personalization: personalization,
	}
}

func (s *SegmentationService) matches(def segmentDefinition, b *analytics.UserBehavior, score float64) bool {
	if score < def.minScore {
		return false
	}
	if b.SessionCount < def.minSessions {
		return false
	}
	if b.PageViews < def.minPageViews {
		return false
	}
	if len(b.Conversions) < def.minConversions {
		return false
	}
	return true
}

// lifecycleStage advances a visitor along the fixed progression. Churned is
// never assigned here; the inactivity policy lives in the cleanup worker.
func (s *SegmentationService) lifecycleStage(eng *analytics.VisitorEngagement) analytics.LifecycleStage {
	if eng.Journey.Stage == analytics.StageChurned {
		// Absorbing state
		return analytics.StageChurned
	}

	behavior := eng.Behavior
	hasPurchase := false
	hasReferral := false
	for _, conv := range behavior.Conversions {
		switch conv.Type {
		case events.ConversionPurchase:
			hasPurchase = true
		case events.ConversionReferral, events.ConversionShareOutbound:
			hasReferral = true
		}
	}

	switch {
	case hasPurchase && hasReferral:
		return analytics.StageAdvocate
	case hasPurchase:
		return analytics.StageClient
	case len(behavior.Conversions) > 0:
		return analytics.StageQualifiedLead
	case eng.Score.Overall >= 50 && behavior.SessionCount >= 2:
		return analytics.StageEngagedProspect
	case behavior.SessionCount >= 2:
		return analytics.StageReturningVisitor
	default:
		return analytics.StageNewVisitor
	}
}

func (s *SegmentationService) potentialFor(eng *analytics.VisitorEngagement, score float64) string {
	switch {
	case score >= 60 || len(eng.Behavior.Conversions) > 0:
		return "high"
	case score >= 30:
		return "medium"
	default:
		return "low"
	}
}

func (s *SegmentationService) riskFor(eng *analytics.VisitorEngagement, score float64) string {
	switch {
	case eng.Score.Trend == "falling" || score < 20:
		return "high"
	case score < 50:
		return "medium"
	default:
		return "low"
	}
}

func containsSegment(list []string, name string) bool {
	for _, existing := range list {
		if existing == name {
			return true
		}
	}
	return false
}
