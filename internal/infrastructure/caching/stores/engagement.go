// Package stores provides concrete cache store implementations
package stores

import (
	"time"

	"github.com/sightlinehq/sightline-go/internal/domain/analytics"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/caching/types"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/observability/logging"
)

// EngagementStore implements visitor aggregate caching operations
type EngagementStore struct {
	cache  *types.EngagementCache
	logger *logging.ChanneledLogger
}

// NewEngagementStore creates a new engagement cache store
func NewEngagementStore(logger *logging.ChanneledLogger) *EngagementStore {
	if logger != nil {
		logger.Cache().Info("Initializing engagement cache store")
	}
	return &EngagementStore{
		cache: &types.EngagementCache{
			Visitors:    make(map[string]*types.VisitorRecord),
			LastUpdated: time.Now().UTC(),
		},
		logger: logger,
	}
}

// Get safely retrieves a visitor record
func (es *EngagementStore) Get(visitorID string) (*types.VisitorRecord, bool) {
	es.cache.Mu.RLock()
	defer es.cache.Mu.RUnlock()
	rec, exists := es.cache.Visitors[visitorID]
	return rec, exists
}

// GetOrCreate returns the record for a visitor, creating an empty aggregate
// when the visitor is seen for the first time.
func (es *EngagementStore) GetOrCreate(visitorID string, now time.Time) *types.VisitorRecord {
	if rec, exists := es.Get(visitorID); exists {
		return rec
	}

	es.cache.Mu.Lock()
	defer es.cache.Mu.Unlock()

	// Re-check under the write lock
	if rec, exists := es.cache.Visitors[visitorID]; exists {
		return rec
	}

	rec := &types.VisitorRecord{
		Engagement: analytics.NewVisitorEngagement(visitorID, now),
		SeenEvents: make(map[string]bool),
	}
	es.cache.Visitors[visitorID] = rec
	es.cache.LastUpdated = time.Now().UTC()

	if es.logger != nil {
		es.logger.Cache().Debug("Visitor record created", "visitorId", visitorID)
	}
	return rec
}

// Remove deletes a visitor record
func (es *EngagementStore) Remove(visitorID string) {
	es.cache.Mu.Lock()
	defer es.cache.Mu.Unlock()
	delete(es.cache.Visitors, visitorID)
	es.cache.LastUpdated = time.Now().UTC()
}

// Count returns the number of tracked visitors
func (es *EngagementStore) Count() int {
	es.cache.Mu.RLock()
	defer es.cache.Mu.RUnlock()
	return len(es.cache.Visitors)
}

// VisitorIDs returns a snapshot of all tracked visitor IDs
func (es *EngagementStore) VisitorIDs() []string {
	es.cache.Mu.RLock()
	defer es.cache.Mu.RUnlock()

	ids := make([]string, 0, len(es.cache.Visitors))
	for id := range es.cache.Visitors {
		ids = append(ids, id)
	}
	return ids
}

// ForEach runs fn against every visitor record. The store lock is held
// read-only during iteration; fn must take the record mutex for mutation.
func (es *EngagementStore) ForEach(fn func(visitorID string, rec *types.VisitorRecord)) {
	es.cache.Mu.RLock()
	snapshot := make(map[string]*types.VisitorRecord, len(es.cache.Visitors))
	for id, rec := range es.cache.Visitors {
		snapshot[id] = rec
	}
	es.cache.Mu.RUnlock()

	for id, rec := range snapshot {
		fn(id, rec)
	}
}

// LastUpdated reports when the store was last written
func (es *EngagementStore) LastUpdated() time.Time {
	es.cache.Mu.RLock()
	defer es.cache.Mu.RUnlock()
	return es.cache.LastUpdated
}

// =============================================================================
// Maintenance Operations
// =============================================================================

// PurgeInactive removes visitors whose last activity predates the cutoff.
// Returns the removed visitor IDs.
func (es *EngagementStore) PurgeInactive(cutoff time.Time) []string {
	es.cache.Mu.Lock()
	defer es.cache.Mu.Unlock()

	var removed []string
	for id, rec := range es.cache.Visitors {
		rec.Mu.Lock()
		inactive := rec.Engagement.Behavior.LastActivity.Before(cutoff)
		rec.Mu.Unlock()
		if inactive {
			delete(es.cache.Visitors, id)
			removed = append(removed, id)
		}
	}

	if len(removed) > 0 {
		es.cache.LastUpdated = time.Now().UTC()
	}
	return removed
}

// Summary returns cache status for debugging
func (es *EngagementStore) Summary() map[string]any {
	es.cache.Mu.RLock()
	defer es.cache.Mu.RUnlock()

	return map[string]any{
		"visitors":    len(es.cache.Visitors),
		"lastUpdated": es.cache.LastUpdated,
	}
}
