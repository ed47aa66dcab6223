package export

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nkoivu/bossfarm/internal/domain/models"
	"github.com/nkoivu/bossfarm/internal/repository/mongodb"
	"github.com/nkoivu/bossfarm/internal/repository/sheets"
)

const runsExportRange = "FarmRuns!A:I"

// Service appends recorded farm runs to an external spreadsheet as a
// flat backup of the week's activity.
type Service struct {
	runs   mongodb.FarmRunRepository
	sink   sheets.Sink
	logger *zap.Logger
}

// NewService wires a new export service instance.
func NewService(runs mongodb.FarmRunRepository, sink sheets.Sink, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{runs: runs, sink: sink, logger: logger}
}

// ExportWeek writes every run recorded in the seven days up to and
// including the reference day, across all users, one row per run.
func (s *Service) ExportWeek(ctx context.Context, ref time.Time) (int, error) {
	endDate := models.Midnight(ref).Format(models.DateLayout)
	startDate := models.Midnight(ref).AddDate(0, 0, -6).Format(models.DateLayout)

	runs, err := s.runs.ListRuns(ctx, mongodb.RunFilter{StartDate: startDate, EndDate: endDate})
	if err != nil {
		return 0, fmt.Errorf("load runs for export: %w", err)
	}
	if len(runs) == 0 {
		s.logger.Info("no runs to export", zap.String("start", startDate), zap.String("end", endDate))
		return 0, nil
	}

	rows := make([][]interface{}, 0, len(runs))
	for _, run := range runs {
		lootUnits := 0
		for _, line := range run.Loot {
			lootUnits += line.Quantity
		}
		rows = append(rows, []interface{}{
			run.Date,
			run.UserID,
			run.BossID,
			run.Kills,
			run.Chests,
			run.TimeSpent,
			run.TotalEarnings,
			lootUnits,
			run.Notes,
		})
	}

	if err := s.sink.AppendRows(ctx, runsExportRange, rows); err != nil {
		return 0, fmt.Errorf("export runs: %w", err)
	}

	s.logger.Info("weekly export completed", zap.Int("rows", len(rows)), zap.String("start", startDate), zap.String("end", endDate))
	return len(rows), nil
}
