// Package analytics provides the concrete SQL-based implementation
// for behavioral event persistence.
//
// PURPOSE: Journal tracking events to the database as they arrive so the
// in-memory engine state can be rebuilt on startup. This is SEPARATE from
// analytics computation, which runs against cached hourly bins.
package analytics

import (
	"fmt"
	"time"

	"github.com/sightlinehq/sightline-go/internal/infrastructure/observability/logging"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/persistence/database"
	"github.com/sightlinehq/sightline-go/pkg/config"
)

// Journaled event kinds.
const (
	KindInteraction = "interaction"
	KindPageView    = "page_view"
	KindConversion  = "conversion"
	KindWebVitals   = "web_vitals"
)

// JournalRecord is the persisted form of a tracking event. The payload is
// the JSON encoding of the original domain event.
type JournalRecord struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	VisitorID string    `json:"visitorId"`
	ContentID string    `json:"contentId"`
	Payload   []byte    `json:"payload"`
	CreatedAt time.Time `json:"createdAt"`
}

// SQLEventRepository handles real-time event journaling to the database.
type SQLEventRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLEventRepository creates a new instance of the repository.
func NewSQLEventRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLEventRepository {
	return &SQLEventRepository{
		db:     db,
		logger: logger,
	}
}

// EnsureSchema creates the events journal table if it does not exist.
func (r *SQLEventRepository) EnsureSchema() error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			visitor_id TEXT,
			content_id TEXT,
			payload TEXT NOT NULL,
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_events_created_at ON events(created_at);
		CREATE INDEX IF NOT EXISTS idx_events_visitor ON events(visitor_id);`

	start := time.Now()
	if _, err := r.db.Exec(ddl); err != nil {
		r.logger.Database().Error("Journal schema creation failed", "error", err.Error())
		return fmt.Errorf("failed to ensure events schema: %w", err)
	}

	r.logger.Database().Info("Journal schema verified", "duration", time.Since(start))
	return nil
}

// StoreEvent saves a tracking event to the journal.
func (r *SQLEventRepository) StoreEvent(rec *JournalRecord) error {
	const query = `
		INSERT INTO events (id, kind, visitor_id, content_id, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	start := time.Now()
	r.logger.Database().Debug("Executing journal insert",
		"eventId", rec.ID,
		"kind", rec.Kind,
		"visitorId", rec.VisitorID,
		"contentId", rec.ContentID)

	_, err := r.db.Exec(
		query,
		rec.ID,
		rec.Kind,
		rec.VisitorID,
		rec.ContentID,
		string(rec.Payload),
		rec.CreatedAt.UTC().Format("2006-01-02 15:04:05"), // SQLite format
	)
	if err != nil {
		r.logger.Database().Error("Journal insert failed",
			"error", err.Error(),
			"eventId", rec.ID,
			"kind", rec.Kind,
			"visitorId", rec.VisitorID)
		return fmt.Errorf("failed to store event: %w", err)
	}

	duration := time.Since(start)
	r.logger.Database().Debug("Journal insert completed",
		"eventId", rec.ID,
		"kind", rec.Kind,
		"duration", duration)
	if duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
	return nil
}

// FindEventsInRange retrieves journaled events for startup hydration.
func (r *SQLEventRepository) FindEventsInRange(startTime, endTime time.Time, kindFilter []string) ([]*JournalRecord, error) {
	if len(kindFilter) == 0 {
		return []*JournalRecord{}, nil
	}

	kindPlaceholders := ""
	for i := range kindFilter {
		if i > 0 {
			kindPlaceholders += ","
		}
		kindPlaceholders += "?"
	}

	query := fmt.Sprintf(`
		SELECT id, kind, visitor_id, content_id, payload, created_at
		FROM events
		WHERE created_at >= ? AND created_at < ? AND kind IN (%s)
		ORDER BY created_at`, kindPlaceholders)

	args := make([]any, 0, 2+len(kindFilter))
	args = append(args, startTime.UTC().Format("2006-01-02 15:04:05"))
	args = append(args, endTime.UTC().Format("2006-01-02 15:04:05"))
	for _, kind := range kindFilter {
		args = append(args, kind)
	}

	start := time.Now()
	r.logger.Database().Debug("Loading journaled events in range",
		"startTime", startTime,
		"endTime", endTime,
		"kindFilter", kindFilter)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.Database().Error("Failed to query journaled events",
			"error", err.Error(),
			"startTime", startTime,
			"endTime", endTime)
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var records []*JournalRecord
	for rows.Next() {
		var rec JournalRecord
		var payload string
		var createdAtStr string
		var visitorID, contentID *string

		err := rows.Scan(&rec.ID, &rec.Kind, &visitorID, &contentID, &payload, &createdAtStr)
		if err != nil {
			// Log warning but continue
			r.logger.Database().Error("Failed to scan journal row", "error", err.Error())
			continue
		}

		rec.CreatedAt, err = r.parseTimestamp(createdAtStr)
		if err != nil {
			// Log warning but continue
			r.logger.Database().Error("Failed to parse journal timestamp", "error", err.Error(), "timestamp", createdAtStr)
			continue
		}

		if visitorID != nil {
			rec.VisitorID = *visitorID
		}
		if contentID != nil {
			rec.ContentID = *contentID
		}
		rec.Payload = []byte(payload)

		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		r.logger.Database().Error("Row iteration error for journaled events", "error", err.Error())
		return nil, err
	}

	duration := time.Since(start)
	r.logger.Database().Info("Journaled events loaded in range",
		"startTime", startTime,
		"endTime", endTime,
		"count", len(records),
		"duration", duration)
	if duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery("BULK_"+query, duration)
	}
	return records, nil
}

// CountEventsInRange returns the journal size for batching decisions.
func (r *SQLEventRepository) CountEventsInRange(startTime, endTime time.Time) (int, error) {
	start := time.Now()
	r.logger.Database().Debug("Counting journaled events in range", "startTime", startTime, "endTime", endTime)

	const query = `SELECT COUNT(*) FROM events WHERE created_at >= ? AND created_at < ?`

	var count int
	err := r.db.QueryRow(query,
		startTime.UTC().Format("2006-01-02 15:04:05"),
		endTime.UTC().Format("2006-01-02 15:04:05")).Scan(&count)
	if err != nil {
		r.logger.Database().Error("Failed to count journaled events", "error", err.Error(), "startTime", startTime, "endTime", endTime)
		return 0, fmt.Errorf("failed to count events: %w", err)
	}

	duration := time.Since(start)
	r.logger.Database().Info("Journal count completed",
		"startTime", startTime,
		"endTime", endTime,
		"count", count,
		"duration", duration)
	if duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}

	return count, nil
}

// PurgeEventsBefore removes journal entries older than the cutoff. Returns
// the number of rows deleted.
func (r *SQLEventRepository) PurgeEventsBefore(cutoff time.Time) (int64, error) {
	const query = `DELETE FROM events WHERE created_at < ?`

	start := time.Now()
	res, err := r.db.Exec(query, cutoff.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		r.logger.Database().Error("Journal purge failed", "error", err.Error(), "cutoff", cutoff)
		return 0, fmt.Errorf("failed to purge events: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		deleted = 0
	}

	duration := time.Since(start)
	r.logger.Database().Info("Journal purge completed",
		"cutoff", cutoff,
		"deleted", deleted,
		"duration", duration)
	if duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
	return deleted, nil
}

// parseTimestamp handles multiple timestamp formats
func (r *SQLEventRepository) parseTimestamp(timestampStr string) (time.Time, error) {
	// Try RFC3339 first
	if t, err := time.Parse(time.RFC3339, timestampStr); err == nil {
		return t, nil
	}

	// Try SQLite format
	if t, err := time.Parse("2006-01-02 15:04:05", timestampStr); err == nil {
		return t, nil
	}

	// Try ISO format with milliseconds
	if t, err := time.Parse("2006-01-02T15:04:05.000Z", timestampStr); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("unable to parse timestamp format: %s", timestampStr)
}
