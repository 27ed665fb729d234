// Package analytics defines the core visitor and content analytics entities:
// behavior snapshots, engagement scores, segments, content metrics,
// recommendations, and predictions.
package analytics

import (
	"time"

	"github.com/sightlinehq/sightline-go/internal/domain/events"
)

// ClickPoint is a single click heat-map sample.
type ClickPoint struct {
	Page string `json:"page"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// ConversionRecord captures a conversion attributed to a visitor.
type ConversionRecord struct {
	ContentID   string    `json:"contentId"`
	Type        string    `json:"type"`
	Value       float64   `json:"value,omitempty"`
	Attribution string    `json:"attribution"`
	Timestamp   time.Time `json:"timestamp"`
}

// UserBehavior is the aggregated behavior snapshot for one visitor. All
// counters are monotonic or replace-with-max so out-of-order delivery cannot
// corrupt the aggregate: scroll depth keeps the max per page, time on page
// accumulates per page.
type UserBehavior struct {
	PageViews         int                            `json:"pageViews"`
	SessionCount      int                            `json:"sessionCount"`
	TotalTimeOnSite   float64                        `json:"totalTimeOnSite"` // seconds
	NavigationPath    []string                       `json:"navigationPath"`
	ScrollDepth       map[string]float64             `json:"scrollDepth"` // page -> max depth percent
	TimeOnPage        map[string]float64             `json:"timeOnPage"`  // page -> accumulated seconds
	ClickHeatmap      []ClickPoint                   `json:"clickHeatmap"`
	InteractionCounts map[events.InteractionType]int `json:"interactionCounts"`
	Conversions       []ConversionRecord             `json:"conversions"`
	FirstSeen         time.Time                      `json:"firstSeen"`
	LastActivity      time.Time                      `json:"lastActivity"`
}

// NewUserBehavior returns an empty behavior snapshot with map fields ready.
func NewUserBehavior() *UserBehavior {
	return &UserBehavior{
		ScrollDepth:       make(map[string]float64),
		TimeOnPage:        make(map[string]float64),
		InteractionCounts: make(map[events.InteractionType]int),
	}
}

// Clone returns a deep copy. Query paths serialize behavior outside the
// record mutex, so they must never hold references into the live aggregate.
func (b *UserBehavior) Clone() *UserBehavior {
	if b == nil {
		return nil
	}
	out := *b
	out.NavigationPath = append([]string(nil), b.NavigationPath...)
	out.ClickHeatmap = append([]ClickPoint(nil), b.ClickHeatmap...)
	out.Conversions = append([]ConversionRecord(nil), b.Conversions...)
	out.ScrollDepth = make(map[string]float64, len(b.ScrollDepth))
	for page, depth := range b.ScrollDepth {
		out.ScrollDepth[page] = depth
	}
	out.TimeOnPage = make(map[string]float64, len(b.TimeOnPage))
	for page, seconds := range b.TimeOnPage {
		out.TimeOnPage[page] = seconds
	}
	out.InteractionCounts = make(map[events.InteractionType]int, len(b.InteractionCounts))
	for kind, n := range b.InteractionCounts {
		out.InteractionCounts[kind] = n
	}
	return &out
}

// TotalInteractions sums every tracked interaction for the visitor.
func (b *UserBehavior) TotalInteractions() int {
	total := 0
	for _, n := range b.InteractionCounts {
		total += n
	}
	return total
}

// UniquePages counts distinct pages seen on the navigation path.
func (b *UserBehavior) UniquePages() int {
	seen := make(map[string]bool, len(b.NavigationPath))
	for _, page := range b.NavigationPath {
		seen[page] = true
	}
	return len(seen)
}

// BounceRate is computed lazily on read rather than maintained incrementally,
// which avoids drift from floating accumulation. A bounce is a session that
// saw a single page; with per-session page counts unavailable this uses the
// single-page-view approximation over sessions.
func (b *UserBehavior) BounceRate() float64 {
	if b.SessionCount == 0 {
		return 0
	}
	if b.PageViews <= b.SessionCount {
		// Every session saw at most one page.
		return 100
	}
	bounced := 2*b.SessionCount - b.PageViews
	if bounced < 0 {
		bounced = 0
	}
	return float64(bounced) / float64(b.SessionCount) * 100
}

// AverageTimeOnPage is computed lazily on read from the per-page accumulators.
func (b *UserBehavior) AverageTimeOnPage() float64 {
	if len(b.TimeOnPage) == 0 {
		return 0
	}
	total := 0.0
	for _, seconds := range b.TimeOnPage {
		total += seconds
	}
	return total / float64(len(b.TimeOnPage))
}

// Touchpoint is a single step in a visitor's journey.
type Touchpoint struct {
	ContentID string    `json:"contentId"`
	Kind      string    `json:"kind"` // page_view | interaction | conversion
	Timestamp time.Time `json:"timestamp"`
}

// UserJourney tracks a visitor's progression through the funnel.
type UserJourney struct {
	Stage            LifecycleStage `json:"stage"`
	Touchpoints      []Touchpoint   `json:"touchpoints"`
	ConversionEvents []string       `json:"conversionEvents"`
	DropOffPoints    []string       `json:"dropOffPoints"`
}

// VisitorEngagement is the aggregate root for one visitor identity. It is
// created on the first tracked event and mutated on every subsequent event;
// it is never deleted by the engine itself (retention is store policy).
type VisitorEngagement struct {
	VisitorID  string                    `json:"visitorId"`
	SessionIDs []string                  `json:"sessionIds"`
	Events     []events.InteractionEvent `json:"events"`
	Score      EngagementScore           `json:"score"`
	Behavior   *UserBehavior             `json:"behavior"`
	Journey    UserJourney               `json:"journey"`
	Segment    UserSegment               `json:"segment"`
	CreatedAt  time.Time                 `json:"createdAt"`
	UpdatedAt  time.Time                 `json:"updatedAt"`
}

// NewVisitorEngagement creates the aggregate for a first-seen visitor.
func NewVisitorEngagement(visitorID string, now time.Time) *VisitorEngagement {
	return &VisitorEngagement{
		VisitorID: visitorID,
		Behavior:  NewUserBehavior(),
		Journey:   UserJourney{Stage: StageNewVisitor},
		Segment:   DefaultSegment(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}
