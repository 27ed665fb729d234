// Package cleanup provides background worker
package cleanup

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sightlinehq/sightline-go/internal/domain/analytics"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/caching/interfaces"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/caching/types"
	"github.com/sightlinehq/sightline-go/utils"
)

// JournalPurger trims the persistent event journal during cleanup passes.
type JournalPurger interface {
	PurgeEventsBefore(cutoff time.Time) (int64, error)
}

// Worker handles background cache cleanup operations
type Worker struct {
	cache   interfaces.Cache
	journal JournalPurger
	config  *Config
}

// NewWorker creates a new cleanup worker with injected configuration
func NewWorker(cache interfaces.Cache, journal JournalPurger, config *Config) *Worker {
	return &Worker{
		cache:   cache,
		journal: journal,
		config:  config,
	}
}

// Start begins the cleanup worker routine, using the configured interval
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.config.CleanupInterval)
	defer ticker.Stop()

	log.Printf("Cache cleanup worker started (interval: %v, verbose: %v)",
		w.config.CleanupInterval, w.config.VerboseReporting)

	for {
		select {
		case <-ctx.Done():
			log.Println("Cache cleanup worker stopping...")
			return
		case <-ticker.C:
			w.performCleanup(ctx)
		}
	}
}

// performCleanup executes one full cleanup pass
func (w *Worker) performCleanup(ctx context.Context) {
	start := time.Now()
	reporter := NewReporter(w.cache)

	if w.config.VerboseReporting {
		reporter.LogStage("PERIODIC CACHE CLEANUP")
		fmt.Print(reporter.GenerateEngineReport())
	}

	var totalCleaned int

	select {
	case <-ctx.Done():
		return
	default:
	}

	// 1. Rollup bin retention
	totalCleaned += w.purgeExpiredRollups()
	w.cache.UpdateLastFullHour(utils.GetCurrentHourKey())

	// 2. Churn policy for inactive visitors
	totalCleaned += w.applyChurnPolicy(reporter)

	// 3. Journal retention
	if w.journal != nil {
		cutoff := time.Now().UTC().Add(-w.config.RollupRetention)
		if deleted, err := w.journal.PurgeEventsBefore(cutoff); err != nil {
			reporter.LogError("Journal purge failed", err)
		} else {
			totalCleaned += int(deleted)
		}
	}

	duration := time.Since(start)
	if totalCleaned > 0 {
		reporter.LogSuccess("Cache cleanup finished: %d items cleaned in %v", totalCleaned, duration)
	} else if w.config.VerboseReporting {
		reporter.LogInfo("Cache cleanup completed - no expired items found (%v)", duration)
	}
}

// purgeExpiredRollups removes hourly bins outside the retention window
func (w *Worker) purgeExpiredRollups() int {
	cutoff := time.Now().UTC().Add(-w.config.RollupRetention)
	olderThan := utils.HourKeyForTime(cutoff)
	return w.cache.PurgeExpiredBins(olderThan)
}

// applyChurnPolicy demotes long-inactive visitors to the churned lifecycle
// stage. Visitors stay in the cache; only their classification changes.
// Terminal stages (client, advocate) are exempt: a past purchaser keeps
// their standing regardless of inactivity.
func (w *Worker) applyChurnPolicy(reporter *Reporter) int {
	cutoff := time.Now().UTC().Add(-w.config.ChurnWindow)
	churned := 0

	w.cache.ForEachVisitor(func(visitorID string, rec *types.VisitorRecord) {
		rec.Mu.Lock()
		defer rec.Mu.Unlock()

		switch rec.Engagement.Journey.Stage {
		case analytics.StageChurned, analytics.StageClient, analytics.StageAdvocate:
			return
		}
		if rec.Engagement.Behavior.LastActivity.Before(cutoff) {
			rec.Engagement.Journey.Stage = analytics.StageChurned
			rec.Engagement.Segment.Lifecycle = analytics.StageChurned
			rec.Engagement.UpdatedAt = time.Now().UTC()
			churned++
			w.cache.InvalidateInsights(visitorID)
		}
	})

	if churned > 0 && w.config.VerboseReporting {
		reporter.LogStepSuccess("Marked %d visitors as churned", churned)
	}
	return churned
}
