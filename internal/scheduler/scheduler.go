package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/ranchprice/internal/config"
	"github.com/mamadbah2/ranchprice/internal/domain/models"
)

const snapshotTimeout = 5 * time.Minute

// Snapshotter runs one suggestion pass for a ranch.
type Snapshotter interface {
	Snapshot(ctx context.Context, ranchID string, autoApply bool) (*models.SuggestionReport, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron   *cron.Cron
	svc    Snapshotter
	cfg    config.SnapshotConfig
	logger *zap.Logger
}

// NewScheduler creates a new scheduler instance. Schedules are evaluated in
// the pricing timezone so "every day at 06:00" means ranch time.
func NewScheduler(cfg config.Config, svc Snapshotter, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:   cron.New(cron.WithLocation(cfg.Pricing.Location())),
		svc:    svc,
		cfg:    cfg.Snapshots,
		logger: logger,
	}
}

// Start registers the snapshot job and starts the scheduler. It is a no-op
// when no schedule or ranch is configured.
func (s *Scheduler) Start() error {
	if !s.cfg.Enabled() {
		s.logger.Info("scheduled snapshots disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.runSnapshots); err != nil {
		return fmt.Errorf("schedule snapshots %q: %w", s.cfg.CronSchedule, err)
	}

	s.logger.Info("starting scheduler",
		zap.String("schedule", s.cfg.CronSchedule),
		zap.Strings("ranches", s.cfg.RanchIDs),
		zap.Bool("auto_apply", s.cfg.AutoApply))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runSnapshots() {
	for _, ranchID := range s.cfg.RanchIDs {
		s.snapshot(ranchID)
	}
}

func (s *Scheduler) snapshot(ranchID string) {
	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()

	report, err := s.svc.Snapshot(ctx, ranchID, s.cfg.AutoApply)
	if err != nil {
		s.logger.Error("scheduled snapshot failed", zap.String("ranch_id", ranchID), zap.Error(err))
		return
	}
	if report == nil {
		return
	}

	s.logger.Info("scheduled snapshot completed",
		zap.String("ranch_id", ranchID),
		zap.String("run_id", report.RunID),
		zap.Int("ready", report.Ready),
		zap.Int("missing", report.Missing))
}
