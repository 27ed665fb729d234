// Package stores provides concrete cache store implementations
package stores

import (
	"time"

	"github.com/sightlinehq/sightline-go/internal/domain/analytics"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/caching/types"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/observability/logging"
)

// ContentStore implements content metric caching operations
type ContentStore struct {
	cache  *types.ContentCache
	logger *logging.ChanneledLogger
}

// NewContentStore creates a new content cache store
func NewContentStore(logger *logging.ChanneledLogger) *ContentStore {
	if logger != nil {
		logger.Cache().Info("Initializing content cache store")
	}
	return &ContentStore{
		cache: &types.ContentCache{
			Items:       make(map[string]*types.ContentRecord),
			URLToID:     make(map[string]string),
			LastUpdated: time.Now().UTC(),
		},
		logger: logger,
	}
}

// Get safely retrieves a content record by ID
func (cs *ContentStore) Get(contentID string) (*types.ContentRecord, bool) {
	cs.cache.Mu.RLock()
	defer cs.cache.Mu.RUnlock()
	rec, exists := cs.cache.Items[contentID]
	return rec, exists
}

// GetByURL retrieves a content record by its URL
func (cs *ContentStore) GetByURL(url string) (*types.ContentRecord, bool) {
	cs.cache.Mu.RLock()
	defer cs.cache.Mu.RUnlock()

	id, exists := cs.cache.URLToID[url]
	if !exists {
		return nil, false
	}
	rec, exists := cs.cache.Items[id]
	return rec, exists
}

// GetOrCreate returns the record for a content item, creating an empty
// aggregate when the item is seen for the first time.
func (cs *ContentStore) GetOrCreate(contentID, url string, now time.Time) *types.ContentRecord {
	if rec, exists := cs.Get(contentID); exists {
		return rec
	}

	cs.cache.Mu.Lock()
	defer cs.cache.Mu.Unlock()

	// Re-check under the write lock
	if rec, exists := cs.cache.Items[contentID]; exists {
		return rec
	}

	rec := &types.ContentRecord{
		Metrics:       analytics.NewContentMetrics(contentID, url, now),
		Visitors:      make(map[string]bool),
		SessionStates: make(map[string]int),
	}
	cs.cache.Items[contentID] = rec
	if url != "" {
		cs.cache.URLToID[url] = contentID
	}
	cs.cache.LastUpdated = time.Now().UTC()

	if cs.logger != nil {
		cs.logger.Cache().Debug("Content record created", "contentId", contentID, "url", url)
	}
	return rec
}

// Count returns the number of tracked content items
func (cs *ContentStore) Count() int {
	cs.cache.Mu.RLock()
	defer cs.cache.Mu.RUnlock()
	return len(cs.cache.Items)
}

// ContentIDs returns a snapshot of all tracked content IDs
func (cs *ContentStore) ContentIDs() []string {
	cs.cache.Mu.RLock()
	defer cs.cache.Mu.RUnlock()

	ids := make([]string, 0, len(cs.cache.Items))
	for id := range cs.cache.Items {
		ids = append(ids, id)
	}
	return ids
}

// ForEach runs fn against every content record. The store lock is held
// read-only during iteration; fn must take the record mutex for mutation.
func (cs *ContentStore) ForEach(fn func(contentID string, rec *types.ContentRecord)) {
	cs.cache.Mu.RLock()
	snapshot := make(map[string]*types.ContentRecord, len(cs.cache.Items))
	for id, rec := range cs.cache.Items {
		snapshot[id] = rec
	}
	cs.cache.Mu.RUnlock()

	for id, rec := range snapshot {
		fn(id, rec)
	}
}

// LastUpdated reports when the store was last written
func (cs *ContentStore) LastUpdated() time.Time {
	cs.cache.Mu.RLock()
	defer cs.cache.Mu.RUnlock()
	return cs.cache.LastUpdated
}

// Summary returns cache status for debugging
func (cs *ContentStore) Summary() map[string]any {
	cs.cache.Mu.RLock()
	defer cs.cache.Mu.RUnlock()

	return map[string]any{
		"items":       len(cs.cache.Items),
		"urlIndex":    len(cs.cache.URLToID),
		"lastUpdated": cs.cache.LastUpdated,
	}
}
