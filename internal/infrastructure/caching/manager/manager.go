// Package manager provides centralized cache operations by delegating to specialized stores.
package manager

import (
	"time"

	"github.com/sightlinehq/sightline-go/internal/infrastructure/caching/interfaces"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/caching/stores"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/caching/types"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/observability/logging"
)

// Interface assertions to ensure Manager implements all required interfaces.
var (
	_ interfaces.Cache                   = (*Manager)(nil)
	_ interfaces.ReadOnlyAnalyticsCache  = (*Manager)(nil)
	_ interfaces.WriteOnlyAnalyticsCache = (*Manager)(nil)
)

// Manager provides centralized cache operations by delegating to specialized stores.
type Manager struct {
	engagementStore *stores.EngagementStore
	contentStore    *stores.ContentStore
	analyticsStore  *stores.AnalyticsStore
	logger          *logging.ChanneledLogger
}

func NewManager(logger *logging.ChanneledLogger) *Manager {
	if logger != nil {
		logger.Cache().Info("Initializing cache manager", "stores", []string{"engagement", "content", "analytics"})
	}

	return &Manager{
		engagementStore: stores.NewEngagementStore(logger),
		contentStore:    stores.NewContentStore(logger),
		analyticsStore:  stores.NewAnalyticsStore(logger),
		logger:          logger,
	}
}

// =============================================================================
// Engagement Cache Operations
// =============================================================================

func (m *Manager) GetVisitor(visitorID string) (*types.VisitorRecord, bool) {
	return m.engagementStore.Get(visitorID)
}

func (m *Manager) GetOrCreateVisitor(visitorID string, now time.Time) *types.VisitorRecord {
	return m.engagementStore.GetOrCreate(visitorID, now)
}

func (m *Manager) RemoveVisitor(visitorID string) {
	m.engagementStore.Remove(visitorID)
}

func (m *Manager) VisitorCount() int {
	return m.engagementStore.Count()
}

func (m *Manager) VisitorIDs() []string {
	return m.engagementStore.VisitorIDs()
}

func (m *Manager) ForEachVisitor(fn func(visitorID string, rec *types.VisitorRecord)) {
	m.engagementStore.ForEach(fn)
}

func (m *Manager) PurgeInactiveVisitors(cutoff time.Time) []string {
	return m.engagementStore.PurgeInactive(cutoff)
}

// =============================================================================
// Content Metrics Cache Operations
// =============================================================================

func (m *Manager) GetContent(contentID string) (*types.ContentRecord, bool) {
	return m.contentStore.Get(contentID)
}

func (m *Manager) GetContentByURL(url string) (*types.ContentRecord, bool) {
	return m.contentStore.GetByURL(url)
}

func (m *Manager) GetOrCreateContent(contentID, url string, now time.Time) *types.ContentRecord {
	return m.contentStore.GetOrCreate(contentID, url, now)
}

func (m *Manager) ContentCount() int {
	return m.contentStore.Count()
}

func (m *Manager) ContentIDs() []string {
	return m.contentStore.ContentIDs()
}

func (m *Manager) ForEachContent(fn func(contentID string, rec *types.ContentRecord)) {
	m.contentStore.ForEach(fn)
}

// =============================================================================
// Analytics Cache Operations
// =============================================================================

func (m *Manager) GetHourlyContentBin(contentID, hourKey string) (*types.HourlyContentBin, bool) {
	return m.analyticsStore.GetHourlyContentBin(contentID, hourKey)
}

func (m *Manager) SetHourlyContentBin(contentID, hourKey string, bin *types.HourlyContentBin) {
	m.analyticsStore.SetHourlyContentBin(contentID, hourKey, bin)
}

func (m *Manager) UpdateHourlyContentBin(contentID, hourKey string, update func(*types.HourlyContentData)) {
	m.analyticsStore.UpdateHourlyContentBin(contentID, hourKey, update)
}

func (m *Manager) GetHourlyContentRange(contentID string, hourKeys []string) (map[string]*types.HourlyContentBin, []string) {
	return m.analyticsStore.GetHourlyContentRange(contentID, hourKeys)
}

func (m *Manager) GetHourlySiteBin(hourKey string) (*types.HourlySiteBin, bool) {
	return m.analyticsStore.GetHourlySiteBin(hourKey)
}

func (m *Manager) SetHourlySiteBin(hourKey string, bin *types.HourlySiteBin) {
	m.analyticsStore.SetHourlySiteBin(hourKey, bin)
}

func (m *Manager) UpdateHourlySiteBin(hourKey string, update func(*types.HourlySiteData)) {
	m.analyticsStore.UpdateHourlySiteBin(hourKey, update)
}

func (m *Manager) GetHourlySiteRange(hourKeys []string) (map[string]*types.HourlySiteBin, []string) {
	return m.analyticsStore.GetHourlySiteRange(hourKeys)
}

func (m *Manager) GetDashboardData(timeframe string) (*types.DashboardCache, bool) {
	return m.analyticsStore.GetDashboardData(timeframe)
}

func (m *Manager) SetDashboardData(timeframe string, data *types.DashboardCache) {
	m.analyticsStore.SetDashboardData(timeframe, data)
}

func (m *Manager) GetInsights(visitorID string) (*types.InsightsCache, bool) {
	return m.analyticsStore.GetInsights(visitorID)
}

func (m *Manager) SetInsights(visitorID string, cached *types.InsightsCache) {
	m.analyticsStore.SetInsights(visitorID, cached)
}

func (m *Manager) InvalidateInsights(visitorID string) {
	m.analyticsStore.InvalidateInsights(visitorID)
}

func (m *Manager) InvalidateComputed() {
	m.analyticsStore.InvalidateComputed()
}

func (m *Manager) PurgeExpiredBins(olderThan string) int {
	return m.analyticsStore.PurgeExpiredBins(olderThan)
}

func (m *Manager) UpdateLastFullHour(hourKey string) {
	m.analyticsStore.UpdateLastFullHour(hourKey)
}

func (m *Manager) GetLastFullHour() string {
	return m.analyticsStore.GetLastFullHour()
}

// =============================================================================
// Health and Diagnostics
// =============================================================================

// Health returns a status summary across all stores
func (m *Manager) Health() map[string]any {
	return map[string]any{
		"engagement": m.engagementStore.Summary(),
		"content":    m.contentStore.Summary(),
		"analytics":  m.analyticsStore.Summary(),
	}
}
