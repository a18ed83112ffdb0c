package reminder

import (
	"context"
	"time"

	"github.com/jmhodges/clock"
	"go.uber.org/zap"

	"github.com/016jesus/proyecto-justiconsulta/internal/domain"
	"github.com/016jesus/proyecto-justiconsulta/internal/store"
)

// Scheduler wakes up once per interval, aligned to interval boundaries
// (top of the hour for the default hourly cadence), and runs one batch
// over all enabled configurations. The clock is injected so tests can
// drive time.
type Scheduler struct {
	configs    store.ConfigRepo
	dispatcher *Dispatcher
	log        *zap.Logger
	clk        clock.Clock
	interval   time.Duration
	loc        *time.Location
}

// NewScheduler creates a Scheduler. loc is the zone in which reminder
// hours and delivery windows are interpreted.
func NewScheduler(configs store.ConfigRepo, dispatcher *Dispatcher, log *zap.Logger, clk clock.Clock, interval time.Duration, loc *time.Location) *Scheduler {
	return &Scheduler{
		configs:    configs,
		dispatcher: dispatcher,
		log:        log,
		clk:        clk,
		interval:   interval,
		loc:        loc,
	}
}

// Run blocks until ctx is canceled, running one batch per wake-up.
// A batch missed because the process was down is skipped, not queued.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		now := s.clk.Now()
		wait := nextWake(now, s.interval).Sub(now)

		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopping")
			return
		case <-s.clk.After(wait):
			s.RunBatch(ctx, s.clk.Now().In(s.loc))
		}
	}
}

// RunBatch evaluates every enabled configuration against the single
// instant now and dispatches the due ones. A failure on one user's
// config never aborts the rest of the batch; a failure loading the
// config set aborts the whole batch and is retried on the next wake-up.
func (s *Scheduler) RunBatch(ctx context.Context, now time.Time) {
	configs, err := s.configs.ListEnabled(ctx)
	if err != nil {
		s.log.Error("failed loading enabled configs, batch aborted", zap.Error(err))
		return
	}

	due := 0
	for i := range configs {
		cfg := configs[i]
		if !domain.IsDue(&cfg, now) {
			continue
		}
		due++
		if err := s.dispatcher.Dispatch(ctx, cfg, now); err != nil {
			s.log.Error("reminder dispatch failed",
				zap.Error(err),
				zap.String("user", cfg.UserID))
		}
	}

	s.log.Info("reminder batch finished",
		zap.Time("now", now),
		zap.Int("enabled", len(configs)),
		zap.Int("due", due))
}

// nextWake returns the first interval boundary strictly after now.
func nextWake(now time.Time, interval time.Duration) time.Time {
	return now.Truncate(interval).Add(interval)
}
