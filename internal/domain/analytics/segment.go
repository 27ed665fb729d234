package analytics

// LifecycleStage is a visitor's position in the fixed progression from first
// visit to advocacy. Churned is a separate absorbing state reachable from any
// non-terminal stage once the inactivity policy window elapses.
type LifecycleStage string

const (
	StageNewVisitor       LifecycleStage = "new_visitor"
	StageReturningVisitor LifecycleStage = "returning_visitor"
	StageEngagedProspect  LifecycleStage = "engaged_prospect"
	StageQualifiedLead    LifecycleStage = "qualified_lead"
	StageClient           LifecycleStage = "client"
	StageAdvocate         LifecycleStage = "advocate"
	StageChurned          LifecycleStage = "churned"
)

// ValueTier buckets visitors by engagement score.
type ValueTier string

const (
	TierBronze   ValueTier = "bronze"
	TierSilver   ValueTier = "silver"
	TierGold     ValueTier = "gold"
	TierPlatinum ValueTier = "platinum"
)

// Known primary segment names. The set is closed; the neutral fallback is
// derived from the lifecycle stage when no definition matches.
const (
	SegmentHighValue         = "high_value"
	SegmentPotentialClient   = "potential_client"
	SegmentEngagedResearcher = "engaged_researcher"
	SegmentContentExplorer   = "content_explorer"
	SegmentWindowShopper     = "window_shopper"
)

// SegmentValue summarizes a visitor's commercial value assessment.
type SegmentValue struct {
	Score     float64   `json:"score"`
	Tier      ValueTier `json:"tier"`
	Potential string    `json:"potential"` // low | medium | high
	Risk      string    `json:"risk"`      // low | medium | high
}

// UserSegment is the behavioral classification for one visitor. Primary and
// lifecycle are pure functions of the behavior snapshot and score, so
// recomputation over the same inputs yields the same segment.
type UserSegment struct {
	Primary         string         `json:"primary"`
	Secondary       []string       `json:"secondary"`
	Characteristics []string       `json:"characteristics"`
	Value           SegmentValue   `json:"value"`
	Lifecycle       LifecycleStage `json:"lifecycle"`
	Personalization []string       `json:"personalization"`
}

// DefaultSegment is returned for visitor identities that have never been
// tracked. Segmentation is total: queries for unknown visitors get this
// neutral classification instead of an error.
func DefaultSegment() UserSegment {
	return UserSegment{
		Primary:         string(StageNewVisitor),
		Secondary:       []string{},
		Characteristics: []string{},
		Value: SegmentValue{
			Score:     0,
			Tier:      TierBronze,
			Potential: "medium",
			Risk:      "medium",
		},
		Lifecycle:       StageNewVisitor,
		Personalization: []string{},
	}
}

// TierForScore maps an engagement score to a value tier.
func TierForScore(score float64) ValueTier {
	switch {
	case score >= 80:
		return TierPlatinum
	case score >= 60:
		return TierGold
	case score >= 40:
		return TierSilver
	default:
		return TierBronze
	}
}
