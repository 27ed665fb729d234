package services

import (
	"encoding/json"
	"time"

	"github.com/sightlinehq/sightline-go/internal/domain/events"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/observability/logging"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/observability/performance"
	journal "github.com/sightlinehq/sightline-go/internal/infrastructure/persistence/analytics"
	"github.com/sightlinehq/sightline-go/pkg/config"
)

// HydrationService rebuilds the in-memory aggregates from the event journal
// at startup. Events are replayed through the same tracking path that built
// them, with journaling and broadcasting suppressed so replay is side-effect
// free.
type HydrationService struct {
	tracking    *TrackingService
	journal     *journal.SQLEventRepository
	perfTracker *performance.Tracker
	logger      *logging.ChanneledLogger
}

// NewHydrationService creates a new startup hydration service.
func NewHydrationService(tracking *TrackingService, journalRepo *journal.SQLEventRepository, perfTracker *performance.Tracker, logger *logging.ChanneledLogger) *HydrationService {
	return &HydrationService{
		tracking:    tracking,
		journal:     journalRepo,
		perfTracker: perfTracker,
		logger:      logger,
	}
}

// Hydrate replays the retained journal window in order. Individual decode
// failures are logged and skipped; the replay keeps going.
func (s *HydrationService) Hydrate() error {
	marker := s.perfTracker.StartOperation("journal_hydration")
	defer marker.Complete()

	start := time.Now()
	endTime := start.UTC().Add(time.Hour) // current hour inclusive
	startTime := start.UTC().Add(-config.RollupRetention)

	records, err := s.journal.FindEventsInRange(startTime, endTime, []string{
		journal.KindPageView,
		journal.KindInteraction,
		journal.KindConversion,
		journal.KindWebVitals,
	})
	if err != nil {
		marker.SetError(err)
		return err
	}

	s.tracking.SetReplayMode(true)
	defer s.tracking.SetReplayMode(false)

	replayed := 0
	skipped := 0
	for _, rec := range records {
		if err := s.replayRecord(rec); err != nil {
			skipped++
			s.logger.Startup().Warn("Skipping unreplayable journal record",
				"eventId", rec.ID,
				"kind", rec.Kind,
				"error", err.Error())
			continue
		}
		replayed++
	}

	marker.AddMetadata("replayed", replayed)
	marker.AddMetadata("skipped", skipped)
	marker.SetSuccess(true)

	s.logger.LogStartupPhase("journal_hydration", time.Since(start), true, map[string]any{
		"replayed": replayed,
		"skipped":  skipped,
	})
	return nil
}

func (s *HydrationService) replayRecord(rec *journal.JournalRecord) error {
	switch rec.Kind {
	case journal.KindPageView:
		var pv events.PageViewEvent
		if err := json.Unmarshal(rec.Payload, &pv); err != nil {
			return err
		}
		return s.tracking.TrackPageView(pv)
	case journal.KindInteraction:
		var input EngagementInput
		if err := json.Unmarshal(rec.Payload, &input); err != nil {
			return err
		}
		return s.tracking.TrackEngagement(input)
	case journal.KindConversion:
		var conv events.ConversionEvent
		if err := json.Unmarshal(rec.Payload, &conv); err != nil {
			return err
		}
		return s.tracking.TrackConversion(conv)
	case journal.KindWebVitals:
		var reading events.WebVitalsReading
		if err := json.Unmarshal(rec.Payload, &reading); err != nil {
			return err
		}
		return s.tracking.TrackWebVitals(reading)
	}
	// Unknown kinds are skipped silently so old journals stay replayable
	return nil
}
