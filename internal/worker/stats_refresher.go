package worker

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/spec-kit/triage-dashboard/internal/service"
)

// StatsRefresher rewarms the dashboard stats cache on a fixed schedule, so
// polling dashboards read a fresh aggregate without rescanning the store on
// every request.
type StatsRefresher struct {
	stats  *service.StatsService
	cron   *cron.Cron
	logger *zap.Logger
}

// NewStatsRefresher constructs the worker.
func NewStatsRefresher(stats *service.StatsService, logger *zap.Logger) *StatsRefresher {
	return &StatsRefresher{
		stats:  stats,
		cron:   cron.New(),
		logger: logger,
	}
}

// Start schedules the refresh job. Spec accepts cron syntax or @every
// intervals.
func (w *StatsRefresher) Start(ctx context.Context, spec string) error {
	if _, err := w.cron.AddFunc(spec, func() {
		if _, err := w.stats.Refresh(ctx); err != nil {
			w.logger.Warn("stats refresh failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}
	w.cron.Start()
	w.logger.Info("stats refresher started", zap.String("spec", spec))
	return nil
}

// Stop halts the schedule and waits for a running refresh to finish.
func (w *StatsRefresher) Stop() {
	stopCtx := w.cron.Stop()
	<-stopCtx.Done()
}
