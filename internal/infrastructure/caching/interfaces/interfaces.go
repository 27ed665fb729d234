// Package interfaces defines cache operation contracts for the engagement engine.
package interfaces

import (
	"time"

	"github.com/sightlinehq/sightline-go/internal/infrastructure/caching/types"
)

// EngagementCache defines operations for visitor aggregate caching
type EngagementCache interface {
	GetVisitor(visitorID string) (*types.VisitorRecord, bool)
	GetOrCreateVisitor(visitorID string, now time.Time) *types.VisitorRecord
	RemoveVisitor(visitorID string)
	VisitorCount() int
	VisitorIDs() []string
	ForEachVisitor(fn func(visitorID string, rec *types.VisitorRecord))
	PurgeInactiveVisitors(cutoff time.Time) []string
}

// ContentMetricsCache defines operations for content metric caching
type ContentMetricsCache interface {
	GetContent(contentID string) (*types.ContentRecord, bool)
	GetContentByURL(url string) (*types.ContentRecord, bool)
	GetOrCreateContent(contentID, url string, now time.Time) *types.ContentRecord
	ContentCount() int
	ContentIDs() []string
	ForEachContent(fn func(contentID string, rec *types.ContentRecord))
}

// AnalyticsCache defines operations for rollup and computed metric caching
type AnalyticsCache interface {
	GetHourlyContentBin(contentID, hourKey string) (*types.HourlyContentBin, bool)
	SetHourlyContentBin(contentID, hourKey string, bin *types.HourlyContentBin)
	UpdateHourlyContentBin(contentID, hourKey string, update func(*types.HourlyContentData))
	GetHourlyContentRange(contentID string, hourKeys []string) (map[string]*types.HourlyContentBin, []string)
	GetHourlySiteBin(hourKey string) (*types.HourlySiteBin, bool)
	SetHourlySiteBin(hourKey string, bin *types.HourlySiteBin)
	UpdateHourlySiteBin(hourKey string, update func(*types.HourlySiteData))
	GetHourlySiteRange(hourKeys []string) (map[string]*types.HourlySiteBin, []string)
	GetDashboardData(timeframe string) (*types.DashboardCache, bool)
	SetDashboardData(timeframe string, data *types.DashboardCache)
	GetInsights(visitorID string) (*types.InsightsCache, bool)
	SetInsights(visitorID string, cached *types.InsightsCache)
	InvalidateInsights(visitorID string)
	InvalidateComputed()
	PurgeExpiredBins(olderThan string) int
	UpdateLastFullHour(hourKey string)
	GetLastFullHour() string
}

// Cache is the main interface that combines all cache operations
type Cache interface {
	EngagementCache
	ContentMetricsCache
	AnalyticsCache
	Health() map[string]any
}

// ReadOnlyAnalyticsCache prevents query services from writing to cache
type ReadOnlyAnalyticsCache interface {
	GetHourlyContentBin(contentID, hourKey string) (*types.HourlyContentBin, bool)
	GetHourlyContentRange(contentID string, hourKeys []string) (map[string]*types.HourlyContentBin, []string)
	GetHourlySiteBin(hourKey string) (*types.HourlySiteBin, bool)
	GetHourlySiteRange(hourKeys []string) (map[string]*types.HourlySiteBin, []string)
	GetDashboardData(timeframe string) (*types.DashboardCache, bool)
	GetInsights(visitorID string) (*types.InsightsCache, bool)
}

// WriteOnlyAnalyticsCache prevents the ingest path from reading during rollup
type WriteOnlyAnalyticsCache interface {
	UpdateHourlyContentBin(contentID, hourKey string, update func(*types.HourlyContentData))
	UpdateHourlySiteBin(hourKey string, update func(*types.HourlySiteData))
	SetDashboardData(timeframe string, data *types.DashboardCache)
	SetInsights(visitorID string, cached *types.InsightsCache)
	InvalidateComputed()
	PurgeExpiredBins(olderThan string) int
	UpdateLastFullHour(hourKey string)
}
