package analytics

// RecommendationType enumerates the closed recommendation taxonomy. No types
// are invented dynamically.
type RecommendationType string

const (
	RecommendImproveHeadline RecommendationType = "improve_headline"
	RecommendImproveLoading  RecommendationType = "improve_loading_speed"
	RecommendRestructure     RecommendationType = "restructure_content"
	RecommendImproveReadable RecommendationType = "improve_readability"
	RecommendAddCallToAction RecommendationType = "add_cta"
)

// Priority orders recommendations: high > medium > low.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank returns the sort rank for a priority; lower sorts first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// ContentRecommendation is a prioritized, typed suggestion for improving a
// content item. Recommendations are generated, never persisted as mutable
// state: regenerating from the same metrics snapshot produces the same list.
type ContentRecommendation struct {
	Type           RecommendationType `json:"type"`
	Priority       Priority           `json:"priority"`
	Description    string             `json:"description"`
	ExpectedImpact string             `json:"expectedImpact"`
	Effort         string             `json:"effort"`
	Category       string             `json:"category"`
}
