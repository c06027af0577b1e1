package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const scanTimeout = 5 * time.Minute

// Scheduler runs Scan on a cron schedule.
type Scheduler struct {
	cron     *cron.Cron
	service  Service
	schedule string
	logger   *slog.Logger
}

func NewScheduler(service Service, schedule string, logger *slog.Logger) *Scheduler {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	c := cron.New(cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)))

	return &Scheduler{
		cron:     c,
		service:  service,
		schedule: schedule,
		logger:   logger,
	}
}

// Start registers the scan job and starts the cron scheduler.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.runScan); err != nil {
		s.logger.Error("failed to schedule expiry scan", "schedule", s.schedule, "error", err)
		return err
	}
	s.logger.Info("scheduled expiry scan", "schedule", s.schedule)

	s.cron.Start()
	return nil
}

// Stop gracefully stops the cron scheduler.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) runScan() {
	ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
	defer cancel()

	if _, err := s.service.Scan(ctx); err != nil {
		s.logger.Error("expiry scan failed", "error", err)
	}
}
