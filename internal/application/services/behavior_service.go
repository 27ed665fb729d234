// Package services provides the behavioral analytics orchestration layer:
// event aggregation, scoring, segmentation, recommendations, predictions,
// and the dashboard query facade.
package services

import (
	"time"

	"github.com/sightlinehq/sightline-go/internal/domain/analytics"
	"github.com/sightlinehq/sightline-go/internal/domain/events"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/observability/logging"
)

// BehaviorService folds interaction events into per-visitor behavior
// snapshots. All counters are monotonic or replace-with-max so out-of-order
// delivery cannot corrupt an aggregate. Callers must hold the record mutex
// for the visitor being mutated.
type BehaviorService struct {
	logger *logging.ChanneledLogger
}

// NewBehaviorService creates a new behavior aggregation service.
func NewBehaviorService(logger *logging.ChanneledLogger) *BehaviorService {
	return &BehaviorService{logger: logger}
}

// ApplyInteraction folds one validated interaction event into the visitor
// aggregate. The event is appended to the ordered history and the derived
// counters are updated in place.
func (s *BehaviorService) ApplyInteraction(eng *analytics.VisitorEngagement, event events.InteractionEvent) {
	behavior := eng.Behavior

	eng.Events = append(eng.Events, event)
	behavior.InteractionCounts[event.Type]++

	if behavior.FirstSeen.IsZero() || event.Timestamp.Before(behavior.FirstSeen) {
		behavior.FirstSeen = event.Timestamp
	}
	if event.Timestamp.After(behavior.LastActivity) {
		behavior.LastActivity = event.Timestamp
	}

	if event.Duration > 0 {
		behavior.TotalTimeOnSite += float64(event.Duration)
		if event.Page != "" {
			behavior.TimeOnPage[event.Page] += float64(event.Duration)
		}
	}

	switch payload := event.Context.(type) {
	case events.ScrollPayload:
		// Replace-with-max: a late shallow scroll never lowers the depth
		if payload.DepthPercent > behavior.ScrollDepth[event.Page] {
			behavior.ScrollDepth[event.Page] = payload.DepthPercent
		}
	case events.ClickPayload:
		behavior.ClickHeatmap = append(behavior.ClickHeatmap, analytics.ClickPoint{
			Page: event.Page,
			X:    payload.X,
			Y:    payload.Y,
		})
	}

	eng.Journey.Touchpoints = append(eng.Journey.Touchpoints, analytics.Touchpoint{
		ContentID: event.Page,
		Kind:      "interaction",
		Timestamp: event.Timestamp,
	})
	eng.UpdatedAt = time.Now().UTC()
}

// ApplyPageView folds a page view into the visitor aggregate. New session IDs
// bump the session counter; repeated IDs only extend the navigation path.
func (s *BehaviorService) ApplyPageView(eng *analytics.VisitorEngagement, pv events.PageViewEvent) {
	behavior := eng.Behavior

	behavior.PageViews++
	behavior.NavigationPath = append(behavior.NavigationPath, pv.URL)

	if pv.SessionID != "" && !containsSession(eng.SessionIDs, pv.SessionID) {
		eng.SessionIDs = append(eng.SessionIDs, pv.SessionID)
		behavior.SessionCount = len(eng.SessionIDs)
	}

	if behavior.FirstSeen.IsZero() || pv.Timestamp.Before(behavior.FirstSeen) {
		behavior.FirstSeen = pv.Timestamp
	}
	if pv.Timestamp.After(behavior.LastActivity) {
		behavior.LastActivity = pv.Timestamp
	}

	eng.Journey.Touchpoints = append(eng.Journey.Touchpoints, analytics.Touchpoint{
		ContentID: pv.ContentID,
		Kind:      "page_view",
		Timestamp: pv.Timestamp,
	})
	eng.UpdatedAt = time.Now().UTC()
}

// ApplyConversion folds a conversion into the visitor aggregate and journey.
func (s *BehaviorService) ApplyConversion(eng *analytics.VisitorEngagement, conv events.ConversionEvent) {
	eng.Behavior.Conversions = append(eng.Behavior.Conversions, analytics.ConversionRecord{
		ContentID:   conv.ContentID,
		Type:        conv.Type,
		Value:       conv.Value,
		Attribution: conv.Attribution,
		Timestamp:   conv.Timestamp,
	})

	if conv.Timestamp.After(eng.Behavior.LastActivity) {
		eng.Behavior.LastActivity = conv.Timestamp
	}

	eng.Journey.ConversionEvents = append(eng.Journey.ConversionEvents, conv.Type)
	eng.Journey.Touchpoints = append(eng.Journey.Touchpoints, analytics.Touchpoint{
		ContentID: conv.ContentID,
		Kind:      "conversion",
		Timestamp: conv.Timestamp,
	})
	eng.UpdatedAt = time.Now().UTC()
}

func containsSession(ids []string, id string) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}
