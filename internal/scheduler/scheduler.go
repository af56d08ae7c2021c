// Package scheduler wires up the cron job that re-runs the location migration
// on a fixed interval.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Task is one unit of scheduled work. Errors are logged, never fatal; the
// next tick runs regardless.
type Task func(ctx context.Context) error

// Scheduler wraps robfig/cron around a single repeating task.
type Scheduler struct {
	cron   *cron.Cron
	task   Task
	spec   string
	logger *zap.Logger
}

// New creates a Scheduler that fires every interval.
func New(task Task, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		task:   task,
		spec:   fmt.Sprintf("@every %s", interval),
		logger: logger,
	}
}

// Start registers the task and starts the scheduler. The caller is expected
// to run the first pass itself; ticks only cover the repeats.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		if ctx.Err() != nil {
			return
		}
		if err := s.task(ctx); err != nil {
			s.logger.Warn("scheduled run failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", zap.String("spec", s.spec))
	return nil
}

// Stop shuts the scheduler down and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}
