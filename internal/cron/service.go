// Package cron runs housekeeping jobs inside the API process, each on its own interval.
package cron

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/marketplace-backend/pkg/logger"
	"github.com/angelmondragon/marketplace-backend/pkg/metrics"
)

type ServiceParams struct {
	Logger   *logger.Logger
	Registry *Registry
	// Lock defaults to a process-local lock.
	Lock    Lock
	Metrics *metrics.JobMetrics
}

type Service struct {
	logg     *logger.Logger
	registry *Registry
	lock     Lock
	metrics  *metrics.JobMetrics
	now      func() time.Time
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, errors.New("cron: logger required")
	}
	if params.Registry == nil || params.Registry.Len() == 0 {
		return nil, errors.New("cron: no jobs registered")
	}
	lock := params.Lock
	if lock == nil {
		lock = NewLocalLock()
	}
	return &Service{
		logg:     params.Logger,
		registry: params.Registry,
		lock:     lock,
		metrics:  params.Metrics,
		now:      time.Now,
	}, nil
}

// Run wakes at the shortest job interval and runs whatever is due until ctx ends.
func (s *Service) Run(ctx context.Context) error {
	tick := s.registry.tick()
	s.registry.start(s.now())
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"jobs": s.registry.Len(), "tick": tick.String()}), "cron.started")
	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "cron.stopped")
			return ctx.Err()
		case <-ticker.C:
			for _, job := range s.registry.due(s.now()) {
				if ctx.Err() != nil {
					break
				}
				s.runLocked(ctx, job)
			}
		}
	}
}

// RunAll runs every registered job once, ignoring schedules.
func (s *Service) RunAll(ctx context.Context) {
	for _, e := range s.registry.entries {
		s.runLocked(ctx, e.job)
	}
}

// runLocked skips the job when another holder has its lease. Failures are logged and counted;
// one failing job never stops the others.
func (s *Service) runLocked(ctx context.Context, job Job) {
	ctx = s.logg.WithField(ctx, "job", job.Name())

	unlock, ok, err := s.lock.TryLock(ctx, job.Name())
	if err != nil {
		s.logg.Error(ctx, "cron.lock_failed", err)
		return
	}
	if !ok {
		s.logg.Debug(ctx, "cron.skipped_locked")
		return
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			s.logg.Error(ctx, "cron.unlock_failed", err)
		}
	}()

	start := s.now()
	err = job.Run(ctx)
	elapsed := s.now().Sub(start)
	s.metrics.ObserveDuration(job.Name(), elapsed)

	ctx = s.logg.WithField(ctx, "duration_ms", elapsed.Milliseconds())
	if err != nil {
		s.metrics.IncFailure(job.Name())
		s.logg.Error(ctx, "cron.job_failed", err)
		return
	}
	s.metrics.IncSuccess(job.Name())
	s.logg.Debug(ctx, "cron.job_done")
}
