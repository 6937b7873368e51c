package backend

import (
	"context"
	"time"

	apperrors "github.com/okito/dashboard/internal/platform/errors"
	"github.com/okito/dashboard/internal/rpc"
)

// analyticsDateLayout names the daily buckets of a series.
const analyticsDateLayout = "2006-01-02"

var periodDays = map[string]int{
	rpc.Period7d:  7,
	rpc.Period30d: 30,
	rpc.Period90d: 90,
}

// GetAnalytics summarizes the payments of a project over the trailing
// period. Volume counts confirmed payments only; the series has one bucket
// per UTC day, oldest first.
func (s *Service) GetAnalytics(ctx context.Context, projectID, period string) (rpc.AnalyticsResult, error) {
	days, ok := periodDays[period]
	if !ok {
		return rpc.AnalyticsResult{}, apperrors.WithMetadata(apperrors.CodeInvalidArgument, "period must be one of 7d, 30d, 90d", map[string]string{"Field": "period"})
	}
	s.mu.Lock()
	record, err := s.project(ctx, projectID)
	if err != nil {
		s.mu.Unlock()
		return rpc.AnalyticsResult{}, err
	}
	events := record.events
	s.mu.Unlock()

	today := s.now().UTC().Truncate(24 * time.Hour)
	start := today.AddDate(0, 0, -(days - 1))
	series := make([]rpc.AnalyticsPoint, days)
	for i := range series {
		series[i].Date = start.AddDate(0, 0, i).Format(analyticsDateLayout)
	}

	result := rpc.AnalyticsResult{Period: period}
	for _, event := range events {
		if event.Payment == nil {
			continue
		}
		created := event.CreatedAt.UTC()
		if created.Before(start) || !created.Before(today.Add(24*time.Hour)) {
			continue
		}
		bucket := int(created.Sub(start) / (24 * time.Hour))
		result.PaymentCount++
		series[bucket].Count++
		switch event.Payment.Status {
		case rpc.PaymentConfirmed:
			result.ConfirmedCount++
			result.TotalVolume += event.Payment.Amount
			series[bucket].Volume += event.Payment.Amount
		case rpc.PaymentFailed, rpc.PaymentTimedOut:
			result.FailedCount++
		}
	}
	result.Series = series
	return result, nil
}
