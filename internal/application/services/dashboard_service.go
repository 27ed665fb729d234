package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/sightlinehq/sightline-go/internal/domain/analytics"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/caching/interfaces"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/caching/types"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/observability/logging"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/observability/performance"
	"github.com/sightlinehq/sightline-go/pkg/config"
	"github.com/sightlinehq/sightline-go/utils"
)

const performerListSize = 5

// ContentPerformer is one row in the top/under performer lists.
type ContentPerformer struct {
	ContentID   string    `json:"contentId"`
	URL         string    `json:"url,omitempty"`
	Performance float64   `json:"performance"`
	Views       int       `json:"views"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// ContentAnalyticsOverview is the timeframe rollup for the dashboard.
type ContentAnalyticsOverview struct {
	Timeframe         string             `json:"timeframe"`
	TotalContent      int                `json:"totalContent"`
	TotalViews        int                `json:"totalViews"`
	UniqueVisitors    int                `json:"uniqueVisitors"`
	Conversions       int                `json:"conversions"`
	AverageEngagement float64            `json:"averageEngagement"`
	TopPerformers     []ContentPerformer `json:"topPerformers"`
	UnderPerformers   []ContentPerformer `json:"underPerformers"`
	TopReferrers      map[string]int     `json:"topReferrers,omitempty"`
	GeneratedAt       time.Time          `json:"generatedAt"`
}

// TrendPoint is one day in a trend series, aggregated from hourly bins.
type TrendPoint struct {
	Date          string  `json:"date"` // 2006-01-02
	Visitors      int     `json:"visitors"`
	PageViews     int     `json:"pageViews"`
	Interactions  int     `json:"interactions"`
	Conversions   int     `json:"conversions"`
	AvgEngagement float64 `json:"avgEngagement"`
}

// AggregatedMetrics bundles the overview aggregates with the segment and
// lifecycle distributions over all tracked visitors.
type AggregatedMetrics struct {
	Timeframe             string                 `json:"timeframe"`
	Overview              *types.OverviewMetrics `json:"overview"`
	SegmentDistribution   map[string]int         `json:"segmentDistribution"`
	LifecycleDistribution map[string]int         `json:"lifecycleDistribution"`
	GeneratedAt           time.Time              `json:"generatedAt"`
}

// DashboardService is the analytics aggregation facade: time-windowed rollups
// over the hourly bins plus performer and distribution queries. Reads only;
// the ingest path owns all writes.
type DashboardService struct {
	cache       interfaces.Cache
	perfTracker *performance.Tracker
	logger      *logging.ChanneledLogger
}

// NewDashboardService creates a new dashboard query service.
func NewDashboardService(cache interfaces.Cache, perfTracker *performance.Tracker, logger *logging.ChanneledLogger) *DashboardService {
	return &DashboardService{
		cache:       cache,
		perfTracker: perfTracker,
		logger:      logger,
	}
}

// Overview computes the dashboard rollup for one timeframe.
func (s *DashboardService) Overview(rawTimeframe string) (*ContentAnalyticsOverview, error) {
	marker := s.perfTracker.StartOperation("dashboard_overview")
	defer marker.Complete()

	tf, err := analytics.ParseTimeframe(rawTimeframe)
	if err != nil {
		marker.SetError(err)
		return nil, err
	}
	now := time.Now().UTC()

	overview, traffic := s.windowAggregates(tf, marker)
	windowStart := now.Add(-time.Duration(tf.Hours()) * time.Hour)
	top, under := s.performers(windowStart)

	result := &ContentAnalyticsOverview{
		Timeframe:         string(tf),
		TotalContent:      overview.ActiveContent,
		TotalViews:        overview.PageViews,
		UniqueVisitors:    overview.UniqueVisitors,
		Conversions:       overview.Conversions,
		AverageEngagement: overview.AvgEngagement,
		TopPerformers:     top,
		UnderPerformers:   under,
		TopReferrers:      traffic.Referrers,
		GeneratedAt:       now,
	}

	marker.SetSuccess(true)
	return result, nil
}

// Trends computes the daily time series for one timeframe from the hourly
// bins. The series is chronological and covers every day in the window, with
// zero-valued points for days without traffic.
func (s *DashboardService) Trends(rawTimeframe string) ([]TrendPoint, error) {
	marker := s.perfTracker.StartOperation("dashboard_trends")
	defer marker.Complete()

	tf, err := analytics.ParseTimeframe(rawTimeframe)
	if err != nil {
		marker.SetError(err)
		return nil, err
	}

	hourKeys := utils.GetHourKeysForTimeRange(tf.Hours())
	bins, missing := s.cache.GetHourlySiteRange(hourKeys)
	marker.AddMetadata("hours", len(hourKeys))
	marker.AddMetadata("missingBins", len(missing))

	type dayAccumulator struct {
		point         TrendPoint
		visitors      map[string]bool
		engagementSum float64
		engagementN   int
	}

	days := make(map[string]*dayAccumulator)
	var order []string
	for _, hourKey := range hourKeys {
		t, err := utils.ParseHourKeyToDate(hourKey)
		if err != nil {
			continue
		}
		date := t.Format("2006-01-02")
		acc, exists := days[date]
		if !exists {
			acc = &dayAccumulator{
				point:    TrendPoint{Date: date},
				visitors: make(map[string]bool),
			}
			days[date] = acc
			order = append(order, date)
		}

		bin, ok := bins[hourKey]
		if !ok || bin.Data == nil {
			continue
		}
		for visitorID := range bin.Data.UniqueVisitors {
			acc.visitors[visitorID] = true
		}
		acc.point.PageViews += bin.Data.PageViews
		acc.point.Interactions += bin.Data.Interactions
		acc.point.Conversions += bin.Data.Conversions
		acc.engagementSum += bin.Data.EngagementSum
		acc.engagementN += bin.Data.EngagementN
	}

	series := make([]TrendPoint, 0, len(order))
	for _, date := range order {
		acc := days[date]
		acc.point.Visitors = len(acc.visitors)
		if acc.engagementN > 0 {
			acc.point.AvgEngagement = acc.engagementSum / float64(acc.engagementN)
		}
		series = append(series, acc.point)
	}

	marker.SetSuccess(true)
	return series, nil
}

// Aggregated bundles the overview aggregates with segment and lifecycle
// distributions.
func (s *DashboardService) Aggregated(rawTimeframe string) (*AggregatedMetrics, error) {
	marker := s.perfTracker.StartOperation("metrics_aggregation")
	defer marker.Complete()

	tf, err := analytics.ParseTimeframe(rawTimeframe)
	if err != nil {
		marker.SetError(err)
		return nil, err
	}

	overview, _ := s.windowAggregates(tf, marker)

	segments := make(map[string]int)
	lifecycles := make(map[string]int)
	s.cache.ForEachVisitor(func(_ string, rec *types.VisitorRecord) {
		rec.Mu.Lock()
		segments[rec.Engagement.Segment.Primary]++
		lifecycles[string(rec.Engagement.Segment.Lifecycle)]++
		rec.Mu.Unlock()
	})

	marker.SetSuccess(true)
	return &AggregatedMetrics{
		Timeframe:             string(tf),
		Overview:              overview,
		SegmentDistribution:   segments,
		LifecycleDistribution: lifecycles,
		GeneratedAt:           time.Now().UTC(),
	}, nil
}

// ContentByID returns the metrics aggregate for one content item. Unknown
// items return ErrUnknownAggregate.
func (s *DashboardService) ContentByID(contentID string) (*analytics.ContentMetrics, error) {
	rec, exists := s.cache.GetContent(contentID)
	if !exists {
		return nil, fmt.Errorf("content %q: %w", contentID, analytics.ErrUnknownAggregate)
	}

	// Deep-copy under the record mutex so the caller gets a stable snapshot
	rec.Mu.Lock()
	snapshot := rec.Metrics.Clone()
	rec.Mu.Unlock()
	return snapshot, nil
}

// windowAggregates sums the site bins for the timeframe, with the computed
// dashboard cache in front.
func (s *DashboardService) windowAggregates(tf analytics.Timeframe, marker *performance.Marker) (*types.OverviewMetrics, *types.TrafficMetrics) {
	if cached, ok := s.cache.GetDashboardData(string(tf)); ok && cached.Data != nil {
		marker.AddCacheHit()
		return cached.Data.Overview, cached.Data.Traffic
	}
	marker.AddCacheMiss()

	hourKeys := utils.GetHourKeysForTimeRange(tf.Hours())
	bins, _ := s.cache.GetHourlySiteRange(hourKeys)

	visitors := make(map[string]bool)
	referrers := make(map[string]int)
	overview := &types.OverviewMetrics{}
	engagementSum := 0.0

	for _, bin := range bins {
		if bin.Data == nil {
			continue
		}
		for visitorID := range bin.Data.UniqueVisitors {
			visitors[visitorID] = true
		}
		overview.PageViews += bin.Data.PageViews
		overview.Sessions += bin.Data.Sessions
		overview.Interactions += bin.Data.Interactions
		overview.Conversions += bin.Data.Conversions
		engagementSum += bin.Data.EngagementSum
		overview.EngagementSamples += bin.Data.EngagementN
		for referrer, count := range bin.Data.Referrers {
			referrers[referrer] += count
		}
	}

	overview.UniqueVisitors = len(visitors)
	overview.TrackedVisitors = s.cache.VisitorCount()
	overview.ActiveContent = s.activeContentCount(time.Now().UTC().Add(-time.Duration(tf.Hours()) * time.Hour))
	if overview.EngagementSamples > 0 {
		overview.AvgEngagement = engagementSum / float64(overview.EngagementSamples)
	}
	if overview.PageViews > 0 {
		overview.ConversionRate = float64(overview.Conversions) / float64(overview.PageViews) * 100
	}

	traffic := &types.TrafficMetrics{
		TopPages:  s.topPages(tf),
		Referrers: referrers,
	}

	s.cache.SetDashboardData(string(tf), &types.DashboardCache{
		Data:         &types.DashboardData{Overview: overview, Traffic: traffic},
		LastComputed: time.Now().UTC(),
		TTL:          config.DashboardTTL,
	})

	s.logger.Analytics().Debug("Dashboard window computed",
		"timeframe", string(tf),
		"hours", len(hourKeys),
		"pageViews", overview.PageViews)
	return overview, traffic
}

// topPages sums in-window content bin views per content id.
func (s *DashboardService) topPages(tf analytics.Timeframe) map[string]int {
	hourKeys := utils.GetHourKeysForTimeRange(tf.Hours())
	pages := make(map[string]int)
	for _, contentID := range s.cache.ContentIDs() {
		bins, _ := s.cache.GetHourlyContentRange(contentID, hourKeys)
		views := 0
		for _, bin := range bins {
			if bin.Data != nil {
				views += bin.Data.Views
			}
		}
		if views > 0 {
			pages[contentID] = views
		}
	}
	return pages
}

func (s *DashboardService) activeContentCount(windowStart time.Time) int {
	count := 0
	s.cache.ForEachContent(func(_ string, rec *types.ContentRecord) {
		rec.Mu.Lock()
		if !rec.Metrics.LastUpdated.Before(windowStart) {
			count++
		}
		rec.Mu.Unlock()
	})
	return count
}

// performers sorts in-window content by performance descending, ties broken
// by most-recent LastUpdated first, and slices the top and bottom five.
func (s *DashboardService) performers(windowStart time.Time) (top, under []ContentPerformer) {
	var all []ContentPerformer
	s.cache.ForEachContent(func(contentID string, rec *types.ContentRecord) {
		rec.Mu.Lock()
		m := rec.Metrics
		if !m.LastUpdated.Before(windowStart) {
			all = append(all, ContentPerformer{
				ContentID:   contentID,
				URL:         m.URL,
				Performance: m.Performance,
				Views:       m.Engagement.Views,
				LastUpdated: m.LastUpdated,
			})
		}
		rec.Mu.Unlock()
	})

	sort.Slice(all, func(i, j int) bool {
		if all[i].Performance != all[j].Performance {
			return all[i].Performance > all[j].Performance
		}
		return all[i].LastUpdated.After(all[j].LastUpdated)
	})

	top = make([]ContentPerformer, 0, performerListSize)
	for i := 0; i < len(all) && i < performerListSize; i++ {
		top = append(top, all[i])
	}

	under = make([]ContentPerformer, 0, performerListSize)
	for i := len(all) - 1; i >= 0 && len(under) < performerListSize; i-- {
		under = append(under, all[i])
	}

	return top, under
}
