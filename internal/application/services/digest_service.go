package services

import (
	"fmt"

	"github.com/sightlinehq/sightline-go/internal/domain/analytics"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/caching/interfaces"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/caching/types"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/email"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/email/templates"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/observability/logging"
)

// Timeframe labels for the digest subject and body.
var digestPeriodLabels = map[analytics.Timeframe]string{
	analytics.TimeframeWeek:    "Weekly",
	analytics.TimeframeMonth:   "Monthly",
	analytics.TimeframeQuarter: "Quarterly",
}

// DigestService composes the analytics overview into an HTML digest email.
type DigestService struct {
	dashboard *DashboardService
	cache     interfaces.Cache
	mailer    email.Service
	logger    *logging.ChanneledLogger
}

// NewDigestService creates a new digest service.
func NewDigestService(dashboard *DashboardService, cache interfaces.Cache, mailer email.Service, logger *logging.ChanneledLogger) *DigestService {
	return &DigestService{
		dashboard: dashboard,
		cache:     cache,
		mailer:    mailer,
		logger:    logger,
	}
}

// SendDigest builds the overview for the timeframe and emails it.
func (s *DigestService) SendDigest(toEmail, rawTimeframe string) error {
	if s.mailer == nil {
		return fmt.Errorf("email delivery not configured")
	}

	overview, err := s.dashboard.Overview(rawTimeframe)
	if err != nil {
		return err
	}

	performers := make([]templates.DigestPerformer, 0, len(overview.TopPerformers))
	for _, p := range overview.TopPerformers {
		label := p.URL
		if label == "" {
			label = p.ContentID
		}
		performers = append(performers, templates.DigestPerformer{
			URL:   label,
			Score: p.Performance,
		})
	}

	props := templates.DigestEmailProps{
		PeriodLabel:    digestPeriodLabels[analytics.Timeframe(overview.Timeframe)],
		UniqueVisitors: overview.UniqueVisitors,
		PageViews:      overview.TotalViews,
		Conversions:    overview.Conversions,
		AvgEngagement:  overview.AverageEngagement,
		TopPerformers:  performers,
		AtRiskVisitors: s.atRiskCount(),
	}

	if err := s.mailer.SendDigestEmail(toEmail, props); err != nil {
		s.logger.Email().Error("Digest delivery failed", "to", toEmail, "error", err.Error())
		return err
	}

	s.logger.Email().Info("Digest sent", "to", toEmail, "timeframe", overview.Timeframe)
	return nil
}

// atRiskCount counts visitors whose segment value carries high risk.
func (s *DigestService) atRiskCount() int {
	count := 0
	s.cache.ForEachVisitor(func(_ string, rec *types.VisitorRecord) {
		rec.Mu.Lock()
		if rec.Engagement.Segment.Value.Risk == "high" {
			count++
		}
		rec.Mu.Unlock()
	})
	return count
}
