// Package types defines cache data structures for behavioral analytics processing.
package types

import (
	"time"

	"github.com/sightlinehq/sightline-go/internal/domain/analytics"
)

// HourlyContentBin contains analytics data for a content item in a specific hour
type HourlyContentBin struct {
	Data       *HourlyContentData `json:"data"`
	ComputedAt time.Time          `json:"computedAt"`
	TTL        time.Duration      `json:"ttl"`
}

// HourlyContentData contains the core content analytics data
type HourlyContentData struct {
	UniqueVisitors map[string]bool `json:"uniqueVisitors"` // Set of visitor IDs
	Views          int             `json:"views"`
	Interactions   int             `json:"interactions"`
	Conversions    int             `json:"conversions"`
	EventCounts    map[string]int  `json:"eventCounts"` // interaction type -> count
}

// NewHourlyContentData creates an empty content bin payload
func NewHourlyContentData() *HourlyContentData {
	return &HourlyContentData{
		UniqueVisitors: make(map[string]bool),
		EventCounts:    make(map[string]int),
	}
}

// HourlySiteBin contains site-wide analytics data for a specific hour
type HourlySiteBin struct {
	Data       *HourlySiteData `json:"data"`
	ComputedAt time.Time       `json:"computedAt"`
	TTL        time.Duration   `json:"ttl"`
}

// HourlySiteData contains the core site analytics data.
type HourlySiteData struct {
	UniqueVisitors map[string]bool `json:"uniqueVisitors"` // Set of visitor IDs
	PageViews      int             `json:"pageViews"`
	Sessions       int             `json:"sessions"`
	Interactions   int             `json:"interactions"`
	Conversions    int             `json:"conversions"`
	EngagementSum  float64         `json:"engagementSum"` // Sum of overall scores recorded this hour
	EngagementN    int             `json:"engagementN"`   // Number of score samples
	Referrers      map[string]int  `json:"referrers"`     // referrer -> page views
}

// NewHourlySiteData creates an empty site bin payload
func NewHourlySiteData() *HourlySiteData {
	return &HourlySiteData{
		UniqueVisitors: make(map[string]bool),
		Referrers:      make(map[string]int),
	}
}

// DashboardCache contains computed dashboard metrics
type DashboardCache struct {
	Data         *DashboardData `json:"data"`
	LastComputed time.Time      `json:"computedAt"`
	TTL          time.Duration  `json:"ttl"`
}

// DashboardData contains high-level dashboard metrics.
type DashboardData struct {
	Overview *OverviewMetrics `json:"overview"`
	Traffic  *TrafficMetrics  `json:"traffic"`
}

// OverviewMetrics contains the raw aggregates needed for an overview dashboard.
type OverviewMetrics struct {
	UniqueVisitors    int     `json:"uniqueVisitors"`
	PageViews         int     `json:"pageViews"`
	Sessions          int     `json:"sessions"`
	Interactions      int     `json:"interactions"`
	Conversions       int     `json:"conversions"`
	AvgEngagement     float64 `json:"avgEngagement"`
	ActiveContent     int     `json:"activeContent"`
	TrackedVisitors   int     `json:"trackedVisitors"`
	ConversionRate    float64 `json:"conversionRate"`
	EngagementSamples int     `json:"engagementSamples"`
}

// TrafficMetrics contains raw traffic aggregations.
type TrafficMetrics struct {
	TopPages  map[string]int `json:"topPages"`
	Referrers map[string]int `json:"referrers"`
}

// InsightsCache holds a computed visitor insights payload with a short TTL
type InsightsCache struct {
	VisitorID    string                          `json:"visitorId"`
	Score        *analytics.EngagementScore      `json:"score"`
	Segment      *analytics.UserSegment          `json:"segment"`
	Prediction   *analytics.EngagementPrediction `json:"prediction"`
	LastComputed time.Time                       `json:"computedAt"`
	TTL          time.Duration                   `json:"ttl"`
}
