package services

import (
	"time"

	"github.com/sightlinehq/sightline-go/internal/domain/analytics"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/caching/interfaces"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/caching/types"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/observability/logging"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/observability/performance"
	"github.com/sightlinehq/sightline-go/pkg/config"
)

// EngagementInsights is the query payload for one visitor identity. It is
// defined for every identity: never-seen visitors get the neutral defaults
// with Tracked false instead of an error.
type EngagementInsights struct {
	VisitorID  string                         `json:"visitorId"`
	Tracked    bool                           `json:"tracked"`
	Score      analytics.EngagementScore      `json:"score"`
	Segment    analytics.UserSegment          `json:"segment"`
	Prediction analytics.EngagementPrediction `json:"prediction"`
	Behavior   *analytics.UserBehavior        `json:"behavior,omitempty"`
}

// InsightsService answers per-visitor queries: score, segment, prediction,
// and the behavior snapshot, with a short computed-result cache in front.
type InsightsService struct {
	cache       interfaces.Cache
	prediction  *PredictionService
	perfTracker *performance.Tracker
	logger      *logging.ChanneledLogger
}

// NewInsightsService creates a new insights query service.
func NewInsightsService(cache interfaces.Cache, prediction *PredictionService, perfTracker *performance.Tracker, logger *logging.ChanneledLogger) *InsightsService {
	return &InsightsService{
		cache:       cache,
		prediction:  prediction,
		perfTracker: perfTracker,
		logger:      logger,
	}
}

// GetEngagementInsights builds the insights payload for one visitor.
func (s *InsightsService) GetEngagementInsights(visitorID string) EngagementInsights {
	marker := s.perfTracker.StartOperation("insights_build")
	defer marker.Complete()

	now := time.Now().UTC()

	visitor, exists := s.cache.GetVisitor(visitorID)
	if !exists {
		marker.SetSuccess(true)
		return EngagementInsights{
			VisitorID:  visitorID,
			Tracked:    false,
			Score:      analytics.EngagementScore{LastCalculated: now},
			Segment:    analytics.DefaultSegment(),
			Prediction: analytics.DefaultPrediction(now),
		}
	}

	if cached, ok := s.cache.GetInsights(visitorID); ok {
		marker.AddCacheHit()
		marker.SetSuccess(true)
		visitor.Mu.Lock()
		behavior := visitor.Engagement.Behavior.Clone()
		visitor.Mu.Unlock()
		return EngagementInsights{
			VisitorID:  visitorID,
			Tracked:    true,
			Score:      *cached.Score,
			Segment:    *cached.Segment,
			Prediction: *cached.Prediction,
			Behavior:   behavior,
		}
	}
	marker.AddCacheMiss()

	visitor.Mu.Lock()
	score := visitor.Engagement.Score
	segment := visitor.Engagement.Segment
	prediction := s.prediction.Predict(visitor.Engagement, now)
	behavior := visitor.Engagement.Behavior.Clone()
	visitor.Mu.Unlock()

	score.Percentile = s.percentileFor(score.Overall)

	s.cache.SetInsights(visitorID, &types.InsightsCache{
		VisitorID:    visitorID,
		Score:        &score,
		Segment:      &segment,
		Prediction:   &prediction,
		LastComputed: now,
		TTL:          config.InsightsTTL,
	})

	marker.SetSuccess(true)
	return EngagementInsights{
		VisitorID:  visitorID,
		Tracked:    true,
		Score:      score,
		Segment:    segment,
		Prediction: prediction,
		Behavior:   behavior,
	}
}

// percentileFor reports the share of tracked visitors whose overall score is
// strictly below the given score.
func (s *InsightsService) percentileFor(overall float64) float64 {
	total := 0
	below := 0
	s.cache.ForEachVisitor(func(_ string, rec *types.VisitorRecord) {
		rec.Mu.Lock()
		other := rec.Engagement.Score.Overall
		rec.Mu.Unlock()
		total++
		if other < overall {
			below++
		}
	})
	if total <= 1 {
		return 0
	}
	return float64(below) / float64(total) * 100
}
