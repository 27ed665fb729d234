// Package performance provides performance tracking and monitoring capabilities
// for Sightline operations with real-time metrics.
package performance

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Tracker manages performance markers and provides metrics aggregation
type Tracker struct {
	markers    map[string]*Marker     // Active and completed markers by unique ID
	snapshots  []*PerformanceSnapshot // Historical performance snapshots
	alerts     []*PerformanceAlert    // Active performance alerts
	thresholds *AlertThresholds       // Configurable alert thresholds
	mu         sync.RWMutex           // Protects concurrent access
	started    time.Time              // When tracking started
	config     *TrackerConfig         // Tracker configuration
}

// TrackerConfig contains configuration options for the performance tracker
type TrackerConfig struct {
	MaxMarkers       int           `json:"maxMarkers"`       // Maximum number of markers to retain
	MaxSnapshots     int           `json:"maxSnapshots"`     // Maximum number of snapshots to retain
	MaxAlerts        int           `json:"maxAlerts"`        // Maximum number of alerts to retain
	SnapshotInterval time.Duration `json:"snapshotInterval"` // How often to take performance snapshots
	CleanupInterval  time.Duration `json:"cleanupInterval"`  // How often to clean up old data
	EnableAlerts     bool          `json:"enableAlerts"`     // Whether to generate performance alerts
}

// DefaultTrackerConfig returns a sensible default configuration
func DefaultTrackerConfig() *TrackerConfig {
	return &TrackerConfig{
		MaxMarkers:       10000,
		MaxSnapshots:     100,
		MaxAlerts:        500,
		SnapshotInterval: time.Minute * 5,
		CleanupInterval:  time.Minute * 10,
		EnableAlerts:     true,
	}
}

// AlertThresholds defines performance thresholds for generating alerts
type AlertThresholds struct {
	// Response time thresholds
	SlowResponseThreshold     time.Duration `json:"slowResponseThreshold"`     // 500ms
	VerySlowResponseThreshold time.Duration `json:"verySlowResponseThreshold"` // 2s
	CriticalResponseThreshold time.Duration `json:"criticalResponseThreshold"` // 5s

	// Cache performance thresholds
	LowCacheHitRatio      float64 `json:"lowCacheHitRatio"`      // 0.85 (85%)
	CriticalCacheHitRatio float64 `json:"criticalCacheHitRatio"` // 0.70 (70%)

	// Memory thresholds (in bytes)
	HighMemoryUsage     int64 `json:"highMemoryUsage"`     // 500MB
	CriticalMemoryUsage int64 `json:"criticalMemoryUsage"` // 1GB

	// Operation-specific thresholds
	TrackingThreshold       time.Duration `json:"trackingThreshold"`       // 100ms
	ScoringThreshold        time.Duration `json:"scoringThreshold"`        // 200ms
	AnalyticsQueryThreshold time.Duration `json:"analyticsQueryThreshold"` // 1s
	DatabaseQueryThreshold  time.Duration `json:"databaseQueryThreshold"`  // 50ms
}

// DefaultAlertThresholds returns sensible default alert thresholds
func DefaultAlertThresholds() *AlertThresholds {
	return &AlertThresholds{
		SlowResponseThreshold:     time.Millisecond * 500,
		VerySlowResponseThreshold: time.Second * 2,
		CriticalResponseThreshold: time.Second * 5,
		LowCacheHitRatio:          0.85,
		CriticalCacheHitRatio:     0.70,
		HighMemoryUsage:           500 * 1024 * 1024,  // 500MB
		CriticalMemoryUsage:       1024 * 1024 * 1024, // 1GB
		TrackingThreshold:         time.Millisecond * 100,
		ScoringThreshold:          time.Millisecond * 200,
		AnalyticsQueryThreshold:   time.Second * 1,
		DatabaseQueryThreshold:    time.Millisecond * 50,
	}
}

// NewTracker creates a new performance tracker with the given configuration
func NewTracker(config *TrackerConfig) *Tracker {
	if config == nil {
		config = DefaultTrackerConfig()
	}

	return &Tracker{
		markers:    make(map[string]*Marker),
		snapshots:  make([]*PerformanceSnapshot, 0),
		alerts:     make([]*PerformanceAlert, 0),
		thresholds: DefaultAlertThresholds(),
		started:    time.Now(),
		config:     config,
	}
}

// StartOperation creates and tracks a new performance marker for an operation
func (t *Tracker) StartOperation(operation string) *Marker {
	marker := &Marker{
		Operation: operation,
		StartTime: time.Now(),
		Metadata:  make(map[string]any),
		Success:   true, // Assume success until proven otherwise
	}

	// Generate unique ID for this marker
	markerID := fmt.Sprintf("%s_%d", operation, time.Now().UnixNano())

	t.mu.Lock()
	t.markers[markerID] = marker
	t.mu.Unlock()

	return marker
}

// StartOperationWithContext creates a performance marker with context cancellation support
func (t *Tracker) StartOperationWithContext(ctx context.Context, operation string) *Marker {
	marker := t.StartOperation(operation)

	// Monitor context cancellation
	go func() {
		<-ctx.Done()
		if !marker.Completed {
			marker.SetError(ctx.Err())
			marker.Complete()
		}
	}()

	return marker
}

// CompleteOperation manually completes an operation and checks for alerts
func (t *Tracker) CompleteOperation(marker *Marker) {
	if marker == nil || marker.Completed {
		return
	}

	marker.Complete()

	if t.config.EnableAlerts {
		t.checkForAlerts(marker)
	}
}

// checkForAlerts evaluates a completed marker against alert thresholds
func (t *Tracker) checkForAlerts(marker *Marker) {
	if marker == nil || !marker.Completed {
		return
	}

	alerts := t.evaluateThresholds(marker)

	t.mu.Lock()
	for _, alert := range alerts {
		t.alerts = append(t.alerts, alert)

		// Maintain max alerts limit
		if len(t.alerts) > t.config.MaxAlerts {
			t.alerts = t.alerts[len(t.alerts)-t.config.MaxAlerts:]
		}
	}
	t.mu.Unlock()
}

// evaluateThresholds checks a marker against all relevant thresholds
func (t *Tracker) evaluateThresholds(marker *Marker) []*PerformanceAlert {
	var alerts []*PerformanceAlert

	// Check general response time thresholds
	if marker.Duration > t.thresholds.CriticalResponseThreshold {
		alerts = append(alerts, t.createAlert(marker, AlertCritical,
			"Operation exceeded critical response time threshold"))
	} else if marker.Duration > t.thresholds.VerySlowResponseThreshold {
		alerts = append(alerts, t.createAlert(marker, AlertWarning,
			"Operation exceeded slow response time threshold"))
	}

	// Check operation-specific thresholds
	switch {
	case strings.Contains(marker.Operation, "track"):
		if marker.Duration > t.thresholds.TrackingThreshold {
			alerts = append(alerts, t.createAlert(marker, AlertWarning,
				"Tracking operation exceeded threshold"))
		}
	case strings.Contains(marker.Operation, "score"):
		if marker.Duration > t.thresholds.ScoringThreshold {
			alerts = append(alerts, t.createAlert(marker, AlertWarning,
				"Scoring operation exceeded threshold"))
		}
	case strings.Contains(marker.Operation, "analytics"):
		if marker.Duration > t.thresholds.AnalyticsQueryThreshold {
			alerts = append(alerts, t.createAlert(marker, AlertWarning,
				"Analytics query exceeded threshold"))
		}
	}

	// Check cache hit ratio
	if marker.CacheHits+marker.CacheMisses > 0 {
		hitRatio := marker.GetCacheHitRatio()
		if hitRatio < t.thresholds.CriticalCacheHitRatio {
			alerts = append(alerts, t.createAlert(marker, AlertCritical,
				"Cache hit ratio critically low"))
		} else if hitRatio < t.thresholds.LowCacheHitRatio {
			alerts = append(alerts, t.createAlert(marker, AlertWarning,
				"Cache hit ratio below optimal"))
		}
	}

	// Check memory usage
	memoryMB := marker.MemoryUsage / (1024 * 1024)
	if marker.MemoryUsage > t.thresholds.CriticalMemoryUsage {
		alerts = append(alerts, t.createAlert(marker, AlertCritical,
			fmt.Sprintf("Critical memory usage: %d MB", memoryMB)))
	} else if marker.MemoryUsage > t.thresholds.HighMemoryUsage {
		alerts = append(alerts, t.createAlert(marker, AlertWarning,
			fmt.Sprintf("High memory usage: %d MB", memoryMB)))
	}

	return alerts
}

// createAlert creates a new performance alert
func (t *Tracker) createAlert(marker *Marker, severity AlertSeverity, message string) *PerformanceAlert {
	return &PerformanceAlert{
		ID:        fmt.Sprintf("alert_%d", time.Now().UnixNano()),
		Timestamp: time.Now(),
		Severity:  severity,
		Operation: marker.Operation,
		Actual:    marker.Duration,
		Message:   message,
		Metadata: map[string]any{
			"cacheHitRatio": marker.GetCacheHitRatio(),
			"memoryUsageMB": marker.MemoryUsage / (1024 * 1024),
			"success":       marker.Success,
		},
	}
}

// GetMetrics returns all completed performance metrics
func (t *Tracker) GetMetrics() []Marker {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var metrics []Marker
	for _, marker := range t.markers {
		if marker.Completed {
			metrics = append(metrics, *marker)
		}
	}
	return metrics
}

// GetRecentMetrics returns metrics for operations completed within the specified duration
func (t *Tracker) GetRecentMetrics(within time.Duration) []Marker {
	t.mu.RLock()
	defer t.mu.RUnlock()

	cutoff := time.Now().Add(-within)
	var metrics []Marker

	for _, marker := range t.markers {
		if marker.Completed && marker.EndTime.After(cutoff) {
			metrics = append(metrics, *marker)
		}
	}
	return metrics
}

// GetActiveOperations returns currently running operations
func (t *Tracker) GetActiveOperations() []Marker {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var active []Marker
	for _, marker := range t.markers {
		if !marker.Completed {
			m := *marker
			// Calculate current duration for active operations
			m.Duration = time.Since(marker.StartTime)
			active = append(active, m)
		}
	}
	return active
}

// GetAlerts returns all recorded performance alerts
func (t *Tracker) GetAlerts() []*PerformanceAlert {
	t.mu.RLock()
	defer t.mu.RUnlock()

	alerts := make([]*PerformanceAlert, len(t.alerts))
	copy(alerts, t.alerts)
	return alerts
}

// TakeSnapshot creates a point-in-time performance snapshot
func (t *Tracker) TakeSnapshot() *PerformanceSnapshot {
	metrics := t.GetRecentMetrics(time.Minute * 5)
	activeOps := t.GetActiveOperations()

	snapshot := &PerformanceSnapshot{
		Timestamp:           time.Now(),
		ActiveOperations:    len(activeOps),
		CompletedOperations: len(metrics),
		OverallHealth:       t.calculateHealth(metrics, activeOps),
	}

	// Categorize metrics by operation type
	snapshot.Ingest = t.extractIngestMetrics(metrics)
	snapshot.Scoring = t.extractScoringMetrics(metrics)
	snapshot.Analytics = t.extractAnalyticsMetrics(metrics)

	t.mu.Lock()
	t.snapshots = append(t.snapshots, snapshot)

	// Maintain max snapshots limit
	if len(t.snapshots) > t.config.MaxSnapshots {
		t.snapshots = t.snapshots[len(t.snapshots)-t.config.MaxSnapshots:]
	}
	t.mu.Unlock()

	return snapshot
}

// calculateHealth determines overall system health based on recent metrics
func (t *Tracker) calculateHealth(metrics, activeOps []Marker) HealthStatus {
	if len(metrics) == 0 && len(activeOps) == 0 {
		return HealthUnknown
	}

	criticalIssues := 0
	warningIssues := 0
	totalOps := len(metrics) + len(activeOps)

	allOps := append(metrics, activeOps...)

	for _, op := range allOps {
		duration := op.Duration
		if !op.Completed {
			duration = time.Since(op.StartTime)
		}

		if duration > t.thresholds.CriticalResponseThreshold || !op.Success {
			criticalIssues++
		} else if duration > t.thresholds.VerySlowResponseThreshold {
			warningIssues++
		}
	}

	criticalRatio := float64(criticalIssues) / float64(totalOps)
	warningRatio := float64(warningIssues) / float64(totalOps)

	if criticalRatio > 0.1 { // More than 10% critical issues
		return HealthUnhealthy
	} else if criticalRatio > 0.05 || warningRatio > 0.2 { // More than 5% critical or 20% warning
		return HealthDegraded
	}

	return HealthHealthy
}

// extractIngestMetrics filters metrics for event ingestion operations
func (t *Tracker) extractIngestMetrics(metrics []Marker) *IngestPerformanceTracker {
	tracker := &IngestPerformanceTracker{}

	for _, metric := range metrics {
		switch {
		case strings.Contains(metric.Operation, "interaction"):
			tracker.InteractionTracking = latestOf(tracker.InteractionTracking, metric)
		case strings.Contains(metric.Operation, "pageview"):
			tracker.PageViewTracking = latestOf(tracker.PageViewTracking, metric)
		case strings.Contains(metric.Operation, "conversion"):
			tracker.ConversionTracking = latestOf(tracker.ConversionTracking, metric)
		case strings.Contains(metric.Operation, "journal"):
			tracker.EventJournaling = latestOf(tracker.EventJournaling, metric)
		case strings.Contains(metric.Operation, "broadcast"):
			tracker.LiveBroadcast = latestOf(tracker.LiveBroadcast, metric)
		}
	}

	return tracker
}

// extractScoringMetrics filters metrics for score computation operations
func (t *Tracker) extractScoringMetrics(metrics []Marker) *ScoringPerformanceTracker {
	tracker := &ScoringPerformanceTracker{}

	for _, metric := range metrics {
		switch {
		case strings.Contains(metric.Operation, "score:visitor"):
			tracker.VisitorScoring = latestOf(tracker.VisitorScoring, metric)
		case strings.Contains(metric.Operation, "score:content"):
			tracker.ContentScoring = latestOf(tracker.ContentScoring, metric)
		case strings.Contains(metric.Operation, "segment"):
			tracker.Segmentation = latestOf(tracker.Segmentation, metric)
		case strings.Contains(metric.Operation, "predict"):
			tracker.PredictionBuild = latestOf(tracker.PredictionBuild, metric)
		case strings.Contains(metric.Operation, "recommend"):
			tracker.RecommendationScan = latestOf(tracker.RecommendationScan, metric)
		}
	}

	return tracker
}

// extractAnalyticsMetrics filters metrics for analytics operations
func (t *Tracker) extractAnalyticsMetrics(metrics []Marker) *AnalyticsPerformanceTracker {
	tracker := &AnalyticsPerformanceTracker{}

	for _, metric := range metrics {
		switch {
		case strings.Contains(metric.Operation, "dashboard"):
			tracker.DashboardQuery = latestOf(tracker.DashboardQuery, metric)
		case strings.Contains(metric.Operation, "trend"):
			tracker.TrendComputation = latestOf(tracker.TrendComputation, metric)
		case strings.Contains(metric.Operation, "hourly"):
			tracker.HourlyBinProcess = latestOf(tracker.HourlyBinProcess, metric)
		case strings.Contains(metric.Operation, "aggregate"):
			tracker.MetricsAggregation = latestOf(tracker.MetricsAggregation, metric)
		case strings.Contains(metric.Operation, "insights"):
			tracker.InsightsBuild = latestOf(tracker.InsightsBuild, metric)
		}
	}

	return tracker
}

// latestOf keeps whichever marker completed most recently
func latestOf(current *Marker, candidate Marker) *Marker {
	if current == nil || candidate.EndTime.After(current.EndTime) {
		m := candidate
		return &m
	}
	return current
}

// Cleanup removes old markers and snapshots to prevent memory leaks
func (t *Tracker) Cleanup() {
	t.mu.Lock()
	defer t.mu.Unlock()

	// Keep last hour of completed markers
	cutoff := time.Now().Add(-time.Hour)
	for id, marker := range t.markers {
		if marker.Completed && marker.EndTime.Before(cutoff) {
			delete(t.markers, id)
		}
	}

	// Maintain max markers limit
	if len(t.markers) > t.config.MaxMarkers {
		count := 0
		for id := range t.markers {
			if count > t.config.MaxMarkers/2 {
				delete(t.markers, id)
			}
			count++
		}
	}
}

// GetOverallStats returns overall tracker statistics
func (t *Tracker) GetOverallStats() map[string]any {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	activeCount := 0
	completedCount := 0

	for _, marker := range t.markers {
		if marker.Completed {
			completedCount++
		} else {
			activeCount++
		}
	}

	return map[string]any{
		"trackerUptime":       time.Since(t.started),
		"totalMarkers":        len(t.markers),
		"activeOperations":    activeCount,
		"completedOperations": completedCount,
		"totalSnapshots":      len(t.snapshots),
		"totalAlerts":         len(t.alerts),
		"memoryUsageMB":       memStats.Alloc / (1024 * 1024),
		"systemMemoryMB":      memStats.Sys / (1024 * 1024),
	}
}
