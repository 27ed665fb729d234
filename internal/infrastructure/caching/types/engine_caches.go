// Package types defines cache data structures for the engagement engine.
package types

import (
	"sync"
	"time"

	"github.com/sightlinehq/sightline-go/internal/domain/analytics"
)

// VisitorRecord holds one visitor's aggregate state. Mutations of the
// embedded aggregate take the record mutex so each visitor has a single
// writer at a time.
type VisitorRecord struct {
	Engagement *analytics.VisitorEngagement
	SeenEvents map[string]bool // event ID -> processed (replay dedup)
	Mu         sync.Mutex      // Exported for access
}

// Per-session engagement states for bounce accounting.
const (
	SessionUnseen  = 0
	SessionBounced = 1 // page view only so far
	SessionEngaged = 2
)

// ContentRecord holds one content item's metric state under its own mutex.
// The auxiliary counters back the running averages and bounce accounting on
// the embedded metrics; they are engine state, not query output.
type ContentRecord struct {
	Metrics       *analytics.ContentMetrics
	Visitors      map[string]bool // visitorId set for unique visitor count
	SessionStates map[string]int  // sessionId -> SessionUnseen/Bounced/Engaged
	TimeSamples   int             // samples behind Engagement.AvgTimeOnPage
	ScrollSamples int             // samples behind Engagement.AvgScrollDepth
	Mu            sync.Mutex      // Exported for access
}

// EngagementCache holds all visitor aggregates
type EngagementCache struct {
	Visitors map[string]*VisitorRecord // visitorId -> record

	// Cache metadata
	LastUpdated time.Time
	Mu          sync.RWMutex // Exported for access
}

// ContentCache holds all content metric aggregates
type ContentCache struct {
	Items   map[string]*ContentRecord // contentId -> record
	URLToID map[string]string         // url -> contentId

	// Cache metadata
	LastUpdated time.Time
	Mu          sync.RWMutex // Exported for access
}

// AnalyticsCache holds rollup bins and computed metrics
type AnalyticsCache struct {
	// Content performance analytics
	ContentBins map[string]*HourlyContentBin // "contentId:hourKey" -> bin

	// Site-wide analytics
	SiteBins map[string]*HourlySiteBin // "hourKey" -> bin

	// Computed metrics (shorter TTL)
	DashboardData map[string]*DashboardCache // timeframe -> cache
	Insights      map[string]*InsightsCache  // visitorId -> cache

	// Cache metadata
	LastFullHour string // Last processed hour key
	LastUpdated  time.Time
	Mu           sync.RWMutex // Exported for access
}
