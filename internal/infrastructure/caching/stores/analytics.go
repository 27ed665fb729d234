// Package stores provides concrete cache store implementations
package stores

import (
	"time"

	"github.com/sightlinehq/sightline-go/internal/infrastructure/caching/types"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/observability/logging"
	"github.com/sightlinehq/sightline-go/pkg/config"
)

// AnalyticsStore implements rollup bin and computed metric caching
type AnalyticsStore struct {
	cache  *types.AnalyticsCache
	logger *logging.ChanneledLogger
}

// NewAnalyticsStore creates a new analytics cache store
func NewAnalyticsStore(logger *logging.ChanneledLogger) *AnalyticsStore {
	if logger != nil {
		logger.Cache().Info("Initializing analytics cache store")
	}
	return &AnalyticsStore{
		cache: &types.AnalyticsCache{
			ContentBins:   make(map[string]*types.HourlyContentBin),
			SiteBins:      make(map[string]*types.HourlySiteBin),
			DashboardData: make(map[string]*types.DashboardCache),
			Insights:      make(map[string]*types.InsightsCache),
			LastUpdated:   time.Now().UTC(),
		},
		logger: logger,
	}
}

// =============================================================================
// Hourly Content Bin Operations
// =============================================================================

// GetHourlyContentBin retrieves an hourly content bin
func (as *AnalyticsStore) GetHourlyContentBin(contentID, hourKey string) (*types.HourlyContentBin, bool) {
	as.cache.Mu.RLock()
	defer as.cache.Mu.RUnlock()

	binKey := contentID + ":" + hourKey
	bin, exists := as.cache.ContentBins[binKey]
	return bin, exists
}

// SetHourlyContentBin stores an hourly content bin
func (as *AnalyticsStore) SetHourlyContentBin(contentID, hourKey string, bin *types.HourlyContentBin) {
	as.cache.Mu.Lock()
	defer as.cache.Mu.Unlock()

	binKey := contentID + ":" + hourKey
	as.cache.ContentBins[binKey] = bin
	as.cache.LastUpdated = time.Now().UTC()
}

// UpdateHourlyContentBin applies a mutation to a content bin, creating the
// bin when absent. The store write lock is held for the whole update.
func (as *AnalyticsStore) UpdateHourlyContentBin(contentID, hourKey string, update func(*types.HourlyContentData)) {
	as.cache.Mu.Lock()
	defer as.cache.Mu.Unlock()

	binKey := contentID + ":" + hourKey
	bin, exists := as.cache.ContentBins[binKey]
	if !exists {
		bin = &types.HourlyContentBin{
			Data:       types.NewHourlyContentData(),
			ComputedAt: time.Now().UTC(),
		}
		as.cache.ContentBins[binKey] = bin
	}

	update(bin.Data)
	bin.ComputedAt = time.Now().UTC()
	as.cache.LastUpdated = bin.ComputedAt
}

// GetHourlyContentRange retrieves multiple hourly content bins
func (as *AnalyticsStore) GetHourlyContentRange(contentID string, hourKeys []string) (map[string]*types.HourlyContentBin, []string) {
	as.cache.Mu.RLock()
	defer as.cache.Mu.RUnlock()

	found := make(map[string]*types.HourlyContentBin)
	missing := make([]string, 0)

	for _, hourKey := range hourKeys {
		binKey := contentID + ":" + hourKey
		if bin, exists := as.cache.ContentBins[binKey]; exists {
			found[hourKey] = bin
		} else {
			missing = append(missing, hourKey)
		}
	}

	return found, missing
}

// =============================================================================
// Hourly Site Bin Operations
// =============================================================================

// GetHourlySiteBin retrieves an hourly site bin
func (as *AnalyticsStore) GetHourlySiteBin(hourKey string) (*types.HourlySiteBin, bool) {
	as.cache.Mu.RLock()
	defer as.cache.Mu.RUnlock()

	bin, exists := as.cache.SiteBins[hourKey]
	return bin, exists
}

// SetHourlySiteBin stores an hourly site bin
func (as *AnalyticsStore) SetHourlySiteBin(hourKey string, bin *types.HourlySiteBin) {
	as.cache.Mu.Lock()
	defer as.cache.Mu.Unlock()

	as.cache.SiteBins[hourKey] = bin
	as.cache.LastUpdated = time.Now().UTC()
}

// UpdateHourlySiteBin applies a mutation to a site bin, creating the bin
// when absent.
func (as *AnalyticsStore) UpdateHourlySiteBin(hourKey string, update func(*types.HourlySiteData)) {
	as.cache.Mu.Lock()
	defer as.cache.Mu.Unlock()

	bin, exists := as.cache.SiteBins[hourKey]
	if !exists {
		bin = &types.HourlySiteBin{
			Data:       types.NewHourlySiteData(),
			ComputedAt: time.Now().UTC(),
		}
		as.cache.SiteBins[hourKey] = bin
	}

	update(bin.Data)
	bin.ComputedAt = time.Now().UTC()
	as.cache.LastUpdated = bin.ComputedAt
}

// GetHourlySiteRange retrieves multiple hourly site bins
func (as *AnalyticsStore) GetHourlySiteRange(hourKeys []string) (map[string]*types.HourlySiteBin, []string) {
	as.cache.Mu.RLock()
	defer as.cache.Mu.RUnlock()

	found := make(map[string]*types.HourlySiteBin)
	missing := make([]string, 0)

	for _, hourKey := range hourKeys {
		if bin, exists := as.cache.SiteBins[hourKey]; exists {
			found[hourKey] = bin
		} else {
			missing = append(missing, hourKey)
		}
	}

	return found, missing
}

// =============================================================================
// Computed Metrics Operations
// =============================================================================

// GetDashboardData retrieves cached dashboard data for a timeframe
func (as *AnalyticsStore) GetDashboardData(timeframe string) (*types.DashboardCache, bool) {
	as.cache.Mu.RLock()
	defer as.cache.Mu.RUnlock()

	cached, exists := as.cache.DashboardData[timeframe]
	if !exists || cached == nil {
		return nil, false
	}

	ttl := cached.TTL
	if ttl == 0 {
		ttl = config.DashboardTTL
	}
	if time.Since(cached.LastComputed) > ttl {
		return nil, false
	}

	return cached, true
}

// SetDashboardData stores computed dashboard data for a timeframe
func (as *AnalyticsStore) SetDashboardData(timeframe string, data *types.DashboardCache) {
	as.cache.Mu.Lock()
	defer as.cache.Mu.Unlock()

	as.cache.DashboardData[timeframe] = data
	as.cache.LastUpdated = time.Now().UTC()
}

// GetInsights retrieves cached visitor insights
func (as *AnalyticsStore) GetInsights(visitorID string) (*types.InsightsCache, bool) {
	as.cache.Mu.RLock()
	defer as.cache.Mu.RUnlock()

	cached, exists := as.cache.Insights[visitorID]
	if !exists || cached == nil {
		return nil, false
	}

	ttl := cached.TTL
	if ttl == 0 {
		ttl = config.InsightsTTL
	}
	if time.Since(cached.LastComputed) > ttl {
		return nil, false
	}

	return cached, true
}

// SetInsights stores computed visitor insights
func (as *AnalyticsStore) SetInsights(visitorID string, cached *types.InsightsCache) {
	as.cache.Mu.Lock()
	defer as.cache.Mu.Unlock()

	as.cache.Insights[visitorID] = cached
	as.cache.LastUpdated = time.Now().UTC()
}

// InvalidateComputed clears computed metrics but keeps raw hourly bins
func (as *AnalyticsStore) InvalidateComputed() {
	as.cache.Mu.Lock()
	defer as.cache.Mu.Unlock()

	as.cache.DashboardData = make(map[string]*types.DashboardCache)
	as.cache.Insights = make(map[string]*types.InsightsCache)
	as.cache.LastUpdated = time.Now().UTC()
}

// InvalidateInsights clears the computed insights for a single visitor
func (as *AnalyticsStore) InvalidateInsights(visitorID string) {
	as.cache.Mu.Lock()
	defer as.cache.Mu.Unlock()

	delete(as.cache.Insights, visitorID)
	as.cache.LastUpdated = time.Now().UTC()
}

// =============================================================================
// Cache Management Operations
// =============================================================================

// PurgeExpiredBins removes hourly bins older than the specified hour key
func (as *AnalyticsStore) PurgeExpiredBins(olderThan string) int {
	as.cache.Mu.Lock()
	defer as.cache.Mu.Unlock()

	purged := 0

	// Purge content bins
	for binKey := range as.cache.ContentBins {
		// Extract hour key from binKey (format: "contentID:hourKey")
		parts := splitBinKey(binKey)
		if len(parts) == 2 && parts[1] < olderThan {
			delete(as.cache.ContentBins, binKey)
			purged++
		}
	}

	// Purge site bins
	for hourKey := range as.cache.SiteBins {
		if hourKey < olderThan {
			delete(as.cache.SiteBins, hourKey)
			purged++
		}
	}

	if purged > 0 {
		as.cache.LastUpdated = time.Now().UTC()
	}
	return purged
}

// UpdateLastFullHour updates the last processed hour
func (as *AnalyticsStore) UpdateLastFullHour(hourKey string) {
	as.cache.Mu.Lock()
	defer as.cache.Mu.Unlock()

	as.cache.LastFullHour = hourKey
	as.cache.LastUpdated = time.Now().UTC()
}

// GetLastFullHour retrieves the last processed hour
func (as *AnalyticsStore) GetLastFullHour() string {
	as.cache.Mu.RLock()
	defer as.cache.Mu.RUnlock()

	return as.cache.LastFullHour
}

// Summary returns cache status summary for debugging
func (as *AnalyticsStore) Summary() map[string]any {
	as.cache.Mu.RLock()
	defer as.cache.Mu.RUnlock()

	return map[string]any{
		"contentBins":  len(as.cache.ContentBins),
		"siteBins":     len(as.cache.SiteBins),
		"dashboards":   len(as.cache.DashboardData),
		"insights":     len(as.cache.Insights),
		"lastFullHour": as.cache.LastFullHour,
		"lastUpdated":  as.cache.LastUpdated,
	}
}

// =============================================================================
// Helper Functions
// =============================================================================

// splitBinKey splits a bin key like "contentID:hourKey" into parts
func splitBinKey(binKey string) []string {
	colonIndex := -1

	// Find the last colon to handle IDs that might contain colons
	for i := len(binKey) - 1; i >= 0; i-- {
		if binKey[i] == ':' {
			colonIndex = i
			break
		}
	}

	if colonIndex == -1 {
		return []string{binKey}
	}

	return []string{binKey[:colonIndex], binKey[colonIndex+1:]}
}
