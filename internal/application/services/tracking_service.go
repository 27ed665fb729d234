package services

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/sightlinehq/sightline-go/internal/domain/analytics"
	"github.com/sightlinehq/sightline-go/internal/domain/events"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/caching/interfaces"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/caching/types"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/messaging"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/observability/logging"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/observability/performance"
	journal "github.com/sightlinehq/sightline-go/internal/infrastructure/persistence/analytics"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/security"
	"github.com/sightlinehq/sightline-go/utils"
)

// Validation errors surfaced at the ingestion boundary.
var (
	ErrMissingIdentity       = errors.New("missing visitor identity: sessionId or userId required")
	ErrMissingContent        = errors.New("missing contentId")
	ErrMissingConversionType = errors.New("missing conversion type")
)

// EngagementInput is the wire shape of a tracked interaction. The payload is
// journaled verbatim so startup hydration replays the exact input.
type EngagementInput struct {
	EventID   string         `json:"eventId,omitempty"`
	ContentID string         `json:"contentId"`
	Type      string         `json:"type"`
	Element   string         `json:"element,omitempty"`
	Page      string         `json:"page,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Duration  int            `json:"duration,omitempty"`
	Value     float64        `json:"value,omitempty"`
	SessionID string         `json:"sessionId"`
	UserID    string         `json:"userId,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// SEOTelemetryInput carries search telemetry pushed by the admin collaborator.
type SEOTelemetryInput struct {
	ContentID   string  `json:"contentId"`
	URL         string  `json:"url,omitempty"`
	AvgPosition float64 `json:"avgPosition"`
	Impressions int     `json:"impressions"`
	Clicks      int     `json:"clicks"`
	LoadTime    float64 `json:"loadTime,omitempty"`
	MobileScore float64 `json:"mobileScore,omitempty"`
	PageType    string  `json:"pageType,omitempty"`
}

// TrackingService orchestrates the ingest path: validate, de-duplicate, fold
// into the visitor and content aggregates, recompute derived state, journal,
// roll up, and broadcast. Aggregate mutation is serialized per record mutex;
// calls for different aggregates proceed in parallel.
type TrackingService struct {
	cache          interfaces.Cache
	behavior       *BehaviorService
	scoring        *ScoringService
	contentScoring *ContentScoringService
	segmentation   *SegmentationService
	recommender    *RecommendationService
	journal        *journal.SQLEventRepository
	broadcaster    *messaging.LiveBroadcaster
	perfTracker    *performance.Tracker
	logger         *logging.ChanneledLogger

	// replay suppresses journaling and broadcasting during startup
	// hydration. Set before the server accepts traffic, never after.
	replay bool
}

// NewTrackingService creates the tracking orchestrator with its dependencies.
func NewTrackingService(
	cache interfaces.Cache,
	behavior *BehaviorService,
	scoring *ScoringService,
	contentScoring *ContentScoringService,
	segmentation *SegmentationService,
	recommender *RecommendationService,
	journalRepo *journal.SQLEventRepository,
	broadcaster *messaging.LiveBroadcaster,
	perfTracker *performance.Tracker,
	logger *logging.ChanneledLogger,
) *TrackingService {
	return &TrackingService{
		cache:          cache,
		behavior:       behavior,
		scoring:        scoring,
		contentScoring: contentScoring,
		segmentation:   segmentation,
		recommender:    recommender,
		journal:        journalRepo,
		broadcaster:    broadcaster,
		perfTracker:    perfTracker,
		logger:         logger,
	}
}

// SetReplayMode toggles hydration replay. Only the startup path calls this,
// before the HTTP server starts.
func (s *TrackingService) SetReplayMode(replay bool) {
	s.replay = replay
}

// TrackPageView ingests one page view event.
func (s *TrackingService) TrackPageView(pv events.PageViewEvent) error {
	marker := s.perfTracker.StartOperation("track_pageview")
	defer marker.Complete()

	if pv.ContentID == "" {
		marker.SetError(ErrMissingContent)
		return ErrMissingContent
	}
	visitorID := visitorFor(pv.UserID, pv.SessionID)
	if visitorID == "" {
		marker.SetError(ErrMissingIdentity)
		return ErrMissingIdentity
	}
	now := time.Now().UTC()
	if pv.Timestamp.IsZero() {
		pv.Timestamp = now
	}

	visitor := s.cache.GetOrCreateVisitor(visitorID, now)
	var overall float64
	var newSession bool

	visitor.Mu.Lock()
	newSession = pv.SessionID != "" && !containsSession(visitor.Engagement.SessionIDs, pv.SessionID)
	s.behavior.ApplyPageView(visitor.Engagement, pv)
	s.recomputeVisitor(visitor.Engagement, now)
	overall = visitor.Engagement.Score.Overall
	visitor.Mu.Unlock()

	content := s.cache.GetOrCreateContent(pv.ContentID, pv.URL, now)
	content.Mu.Lock()
	content.Visitors[visitorID] = true
	content.Metrics.Engagement.Views++
	content.Metrics.Engagement.UniqueVisitors = len(content.Visitors)
	s.applySessionTouch(content, pv.SessionID, true)
	s.recomputeContent(content.Metrics, now)
	content.Mu.Unlock()

	hourKey := utils.HourKeyForTime(pv.Timestamp)
	s.cache.UpdateHourlyContentBin(pv.ContentID, hourKey, func(data *types.HourlyContentData) {
		data.UniqueVisitors[visitorID] = true
		data.Views++
	})
	s.cache.UpdateHourlySiteBin(hourKey, func(data *types.HourlySiteData) {
		data.UniqueVisitors[visitorID] = true
		data.PageViews++
		if newSession {
			data.Sessions++
		}
		if pv.Referrer != "" {
			data.Referrers[pv.Referrer]++
		}
		data.EngagementSum += overall
		data.EngagementN++
	})
	s.cache.InvalidateInsights(visitorID)

	s.journalEvent(journal.KindPageView, visitorID, pv.ContentID, pv, now)
	s.broadcast(messaging.EventEngagementUpdate, map[string]any{
		"visitorId": visitorID,
		"contentId": pv.ContentID,
		"score":     overall,
	})

	marker.SetSuccess(true)
	return nil
}

// TrackEngagement ingests one interaction event. Duplicate event IDs are
// dropped so idempotent replay cannot double-count.
func (s *TrackingService) TrackEngagement(input EngagementInput) error {
	marker := s.perfTracker.StartOperation("track_engagement")
	defer marker.Complete()

	if input.ContentID == "" {
		marker.SetError(ErrMissingContent)
		return ErrMissingContent
	}
	visitorID := visitorFor(input.UserID, input.SessionID)
	if visitorID == "" {
		marker.SetError(ErrMissingIdentity)
		return ErrMissingIdentity
	}

	// Reject unknown types at the boundary, never coerce to a zero weight
	interactionType, err := events.ParseInteractionType(input.Type)
	if err != nil {
		marker.SetError(err)
		return err
	}
	payload, err := events.DecodePayload(interactionType, input.Data)
	if err != nil {
		marker.SetError(err)
		return err
	}

	now := time.Now().UTC()
	if input.Timestamp.IsZero() {
		input.Timestamp = now
	}
	if input.EventID == "" {
		input.EventID = security.GenerateULID()
	}
	page := input.Page
	if page == "" {
		page = input.ContentID
	}

	event := events.InteractionEvent{
		ID:               input.EventID,
		Type:             interactionType,
		Element:          input.Element,
		Page:             page,
		Timestamp:        input.Timestamp,
		Duration:         input.Duration,
		Value:            input.Value,
		Context:          payload,
		EngagementWeight: events.WeightFor(interactionType),
	}

	visitor := s.cache.GetOrCreateVisitor(visitorID, now)
	var overall float64
	var segment analytics.UserSegment

	visitor.Mu.Lock()
	if visitor.SeenEvents[input.EventID] {
		visitor.Mu.Unlock()
		marker.AddCacheHit()
		marker.SetSuccess(true)
		s.logger.Ingest().Debug("Duplicate event dropped", "eventId", input.EventID, "visitorId", visitorID)
		return nil
	}
	visitor.SeenEvents[input.EventID] = true
	s.behavior.ApplyInteraction(visitor.Engagement, event)
	s.recomputeVisitor(visitor.Engagement, now)
	overall = visitor.Engagement.Score.Overall
	segment = visitor.Engagement.Segment
	visitor.Mu.Unlock()

	content := s.cache.GetOrCreateContent(input.ContentID, "", now)
	content.Mu.Lock()
	content.Metrics.Engagement.Interactions++
	s.applySessionTouch(content, input.SessionID, false)
	s.applyInteractionSamples(content, event)
	s.recomputeContent(content.Metrics, now)
	content.Mu.Unlock()

	hourKey := utils.HourKeyForTime(input.Timestamp)
	s.cache.UpdateHourlyContentBin(input.ContentID, hourKey, func(data *types.HourlyContentData) {
		data.UniqueVisitors[visitorID] = true
		data.Interactions++
		data.EventCounts[string(interactionType)]++
	})
	s.cache.UpdateHourlySiteBin(hourKey, func(data *types.HourlySiteData) {
		data.UniqueVisitors[visitorID] = true
		data.Interactions++
		data.EngagementSum += overall
		data.EngagementN++
	})
	s.cache.InvalidateInsights(visitorID)

	s.journalEvent(journal.KindInteraction, visitorID, input.ContentID, input, now)
	s.broadcast(messaging.EventEngagementUpdate, map[string]any{
		"visitorId": visitorID,
		"contentId": input.ContentID,
		"type":      interactionType,
		"score":     overall,
		"segment":   segment.Primary,
	})

	marker.SetSuccess(true)
	return nil
}

// TrackConversion ingests one conversion goal completion.
func (s *TrackingService) TrackConversion(conv events.ConversionEvent) error {
	marker := s.perfTracker.StartOperation("track_conversion")
	defer marker.Complete()

	if conv.ContentID == "" {
		marker.SetError(ErrMissingContent)
		return ErrMissingContent
	}
	if conv.Type == "" {
		marker.SetError(ErrMissingConversionType)
		return ErrMissingConversionType
	}
	visitorID := visitorFor(conv.UserID, conv.SessionID)
	if visitorID == "" {
		marker.SetError(ErrMissingIdentity)
		return ErrMissingIdentity
	}
	now := time.Now().UTC()
	if conv.Timestamp.IsZero() {
		conv.Timestamp = now
	}

	visitor := s.cache.GetOrCreateVisitor(visitorID, now)
	var segment analytics.UserSegment

	visitor.Mu.Lock()
	s.behavior.ApplyConversion(visitor.Engagement, conv)
	s.recomputeVisitor(visitor.Engagement, now)
	segment = visitor.Engagement.Segment
	visitor.Mu.Unlock()

	content := s.cache.GetOrCreateContent(conv.ContentID, "", now)
	content.Mu.Lock()
	content.Metrics.Conversion.Goals[conv.Type]++
	content.Metrics.Conversion.Completions++
	content.Metrics.Conversion.Value += conv.Value
	s.applySessionTouch(content, conv.SessionID, false)
	s.recomputeContent(content.Metrics, now)
	content.Mu.Unlock()

	hourKey := utils.HourKeyForTime(conv.Timestamp)
	s.cache.UpdateHourlyContentBin(conv.ContentID, hourKey, func(data *types.HourlyContentData) {
		data.UniqueVisitors[visitorID] = true
		data.Conversions++
	})
	s.cache.UpdateHourlySiteBin(hourKey, func(data *types.HourlySiteData) {
		data.UniqueVisitors[visitorID] = true
		data.Conversions++
	})
	s.cache.InvalidateInsights(visitorID)

	s.journalEvent(journal.KindConversion, visitorID, conv.ContentID, conv, now)
	s.broadcast(messaging.EventConversion, map[string]any{
		"visitorId": visitorID,
		"contentId": conv.ContentID,
		"type":      conv.Type,
		"value":     conv.Value,
		"lifecycle": segment.Lifecycle,
	})

	marker.SetSuccess(true)
	return nil
}

// TrackWebVitals ingests a Core Web Vitals reading for one content item.
func (s *TrackingService) TrackWebVitals(reading events.WebVitalsReading) error {
	marker := s.perfTracker.StartOperation("track_web_vitals")
	defer marker.Complete()

	if reading.ContentID == "" {
		marker.SetError(ErrMissingContent)
		return ErrMissingContent
	}
	now := time.Now().UTC()
	if reading.Timestamp.IsZero() {
		reading.Timestamp = now
	}

	content := s.cache.GetOrCreateContent(reading.ContentID, "", now)
	content.Mu.Lock()
	content.Metrics.SEO.WebVitals = analytics.WebVitals{
		LCP: reading.LCP,
		FID: reading.FID,
		CLS: reading.CLS,
	}
	s.recomputeContent(content.Metrics, now)
	content.Mu.Unlock()

	s.journalEvent(journal.KindWebVitals, "", reading.ContentID, reading, now)
	marker.SetSuccess(true)
	return nil
}

// ApplySEOTelemetry folds admin-pushed search telemetry into a content item.
// Not journaled: the admin collaborator re-pushes current totals on demand.
func (s *TrackingService) ApplySEOTelemetry(input SEOTelemetryInput) error {
	if input.ContentID == "" {
		return ErrMissingContent
	}
	now := time.Now().UTC()

	content := s.cache.GetOrCreateContent(input.ContentID, input.URL, now)
	content.Mu.Lock()
	content.Metrics.SEO.AvgPosition = input.AvgPosition
	content.Metrics.SEO.Impressions = input.Impressions
	content.Metrics.SEO.Clicks = input.Clicks
	if input.LoadTime > 0 {
		content.Metrics.Technical.LoadTime = input.LoadTime
	}
	if input.MobileScore > 0 {
		content.Metrics.Technical.MobileScore = input.MobileScore
	}
	if input.PageType != "" {
		content.Metrics.PageType = input.PageType
	}
	s.recomputeContent(content.Metrics, now)
	content.Mu.Unlock()

	s.logger.Ingest().Info("SEO telemetry applied",
		"contentId", input.ContentID,
		"impressions", input.Impressions,
		"clicks", input.Clicks)
	return nil
}

// recomputeVisitor refreshes score, segment, and lifecycle. Caller holds the
// record mutex.
func (s *TrackingService) recomputeVisitor(eng *analytics.VisitorEngagement, now time.Time) {
	eng.Score = s.scoring.ScoreVisitor(eng, now)
	eng.Segment = s.segmentation.Segment(eng)
	eng.Journey.Stage = eng.Segment.Lifecycle
}

// recomputeContent refreshes the performance score and recommendation list.
// Caller holds the record mutex.
func (s *TrackingService) recomputeContent(m *analytics.ContentMetrics, now time.Time) {
	s.contentScoring.ScoreContent(m, now)
	m.Recommendations = s.recommender.Recommend(m)
}

// applySessionTouch maintains the provisional bounce count. A session bounces
// on its first page view and un-bounces on any second touch. Caller holds the
// record mutex.
func (s *TrackingService) applySessionTouch(content *types.ContentRecord, sessionID string, isPageView bool) {
	if sessionID == "" {
		return
	}
	switch content.SessionStates[sessionID] {
	case types.SessionUnseen:
		if isPageView {
			content.SessionStates[sessionID] = types.SessionBounced
			content.Metrics.Engagement.Bounces++
		} else {
			content.SessionStates[sessionID] = types.SessionEngaged
		}
	case types.SessionBounced:
		content.SessionStates[sessionID] = types.SessionEngaged
		content.Metrics.Engagement.Bounces--
	}
}

// applyInteractionSamples feeds running averages for time-on-page and scroll
// depth. Caller holds the record mutex.
func (s *TrackingService) applyInteractionSamples(content *types.ContentRecord, event events.InteractionEvent) {
	eng := &content.Metrics.Engagement

	if event.Duration > 0 {
		content.TimeSamples++
		eng.AvgTimeOnPage += (float64(event.Duration) - eng.AvgTimeOnPage) / float64(content.TimeSamples)
	}
	if scroll, ok := event.Context.(events.ScrollPayload); ok {
		content.ScrollSamples++
		eng.AvgScrollDepth += (scroll.DepthPercent - eng.AvgScrollDepth) / float64(content.ScrollSamples)
	}
}

// journalEvent appends the event to the persistent journal. Failures are
// logged, not fatal: the in-memory aggregates stay authoritative.
func (s *TrackingService) journalEvent(kind, visitorID, contentID string, payload any, now time.Time) {
	if s.replay || s.journal == nil {
		return
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		s.logger.Ingest().Error("Failed to encode journal payload", "kind", kind, "error", err.Error())
		return
	}
	rec := &journal.JournalRecord{
		ID:        security.GenerateULID(),
		Kind:      kind,
		VisitorID: visitorID,
		ContentID: contentID,
		Payload:   encoded,
		CreatedAt: now,
	}
	if err := s.journal.StoreEvent(rec); err != nil {
		s.logger.Ingest().Error("Journal write failed", "kind", kind, "error", err.Error())
	}
}

func (s *TrackingService) broadcast(eventType string, data map[string]any) {
	if s.replay || s.broadcaster == nil {
		return
	}
	s.broadcaster.Broadcast(eventType, data)
}

func visitorFor(userID, sessionID string) string {
	if userID != "" {
		return userID
	}
	return sessionID
}
