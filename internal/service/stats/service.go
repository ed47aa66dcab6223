package stats

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nkoivu/bossfarm/internal/domain/models"
	"github.com/nkoivu/bossfarm/internal/repository/mongodb"
)

// insightsWindowDays is the default lookback for the insights view.
const insightsWindowDays = 30

// Service loads owner-scoped runs and applies the aggregate functions.
type Service struct {
	runs   mongodb.FarmRunRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a new stats service instance.
func NewService(runs mongodb.FarmRunRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{runs: runs, logger: logger, now: time.Now}
}

// WithClock overrides the time source, for deterministic tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Summary computes the headline stats for a user, optionally narrowed to
// one boss and one calendar month.
func (s *Service) Summary(ctx context.Context, userID, bossID string, year, month int) (models.FarmStats, error) {
	filter := mongodb.RunFilter{UserID: userID, BossID: bossID}
	if year > 0 && month > 0 {
		filter.StartDate, filter.EndDate = MonthWindow(year, month)
	}

	runs, err := s.runs.ListRuns(ctx, filter)
	if err != nil {
		return models.FarmStats{}, fmt.Errorf("load runs for summary: %w", err)
	}

	s.logger.Debug("computed farm summary", zap.String("user_id", userID), zap.Int("runs", len(runs)))
	return Compute(runs), nil
}

// Insights computes the derived session statistics over an explicit date
// range, defaulting to the last 30 days.
func (s *Service) Insights(ctx context.Context, userID, bossID, startDate, endDate string) (models.FarmInsights, error) {
	today := s.now()

	if startDate == "" && endDate == "" {
		endDate = models.Midnight(today).Format(models.DateLayout)
		startDate = models.Midnight(today).AddDate(0, 0, -insightsWindowDays).Format(models.DateLayout)
	}

	runs, err := s.runs.ListRuns(ctx, mongodb.RunFilter{
		UserID:    userID,
		BossID:    bossID,
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		return models.FarmInsights{}, fmt.Errorf("load runs for insights: %w", err)
	}

	return ComputeInsights(runs, today), nil
}

// MonthWindow returns the inclusive first and last days of a calendar
// month. Day zero of the following month resolves to the correct month
// length, leap years included.
func MonthWindow(year, month int) (string, string) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
	return first.Format(models.DateLayout), last.Format(models.DateLayout)
}
