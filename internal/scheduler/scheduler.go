package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/nkoivu/bossfarm/internal/config"
	"github.com/nkoivu/bossfarm/internal/service/expiry"
	"github.com/nkoivu/bossfarm/internal/service/export"
)

// Scheduler manages the recurring background jobs: the daily equipment
// expiry scan and the weekly spreadsheet export.
type Scheduler struct {
	cron      *cron.Cron
	expirySvc *expiry.Service
	exportSvc *export.Service
	cfg       config.JobsConfig
	logger    *zap.Logger
}

// NewScheduler creates a new scheduler instance. The export service may be
// nil when the spreadsheet sink is not configured.
func NewScheduler(cfg config.JobsConfig, expirySvc *expiry.Service, exportSvc *export.Service, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("invalid timezone, falling back to local", zap.String("timezone", cfg.Timezone), zap.Error(err))
		location = time.Local
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(location)),
		expirySvc: expirySvc,
		exportSvc: exportSvc,
		cfg:       cfg,
		logger:    logger,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler")

	if _, err := s.cron.AddFunc(s.cfg.ExpiryCronSchedule, s.runExpiryScan); err != nil {
		s.logger.Error("failed to schedule expiry scan", zap.Error(err))
	}

	if s.exportSvc != nil {
		if _, err := s.cron.AddFunc(s.cfg.ExportCronSchedule, s.runWeeklyExport); err != nil {
			s.logger.Error("failed to schedule weekly export", zap.Error(err))
		}
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) runExpiryScan() {
	s.logger.Info("running equipment expiry scan")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	results, err := s.expirySvc.ScanAndNotify(ctx)
	if err != nil {
		s.logger.Error("expiry scan failed", zap.Error(err))
		return
	}

	notified := 0
	for _, result := range results {
		if result.Success {
			notified++
		} else {
			s.logger.Warn("expiry notification failed for owner",
				zap.String("user_id", result.UserID),
				zap.String("error", result.Error))
		}
	}
	s.logger.Info("expiry scan completed", zap.Int("owners", len(results)), zap.Int("notified", notified))
}

func (s *Scheduler) runWeeklyExport() {
	s.logger.Info("running weekly export")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	rows, err := s.exportSvc.ExportWeek(ctx, time.Now())
	if err != nil {
		s.logger.Error("weekly export failed", zap.Error(err))
		return
	}
	s.logger.Info("weekly export finished", zap.Int("rows", rows))
}
