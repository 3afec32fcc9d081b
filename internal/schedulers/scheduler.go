package schedulers

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"web-analytics/internal/shared/loggers"
	"web-analytics/internal/shared/svcerrors"
)

// TaskFunc is one scheduled unit of work. The passed time is the tick that
// triggered the run. Errors are logged and counted; the schedule carries on.
type TaskFunc func(ctx context.Context, now time.Time) error

type task struct {
	name     string
	interval time.Duration
	run      TaskFunc

	// guards against a run overlapping itself when one tick outlasts the
	// interval; overlapped ticks are skipped, not queued
	running sync.Mutex
}

// Scheduler drives the pipeline's periodic work: session sweeps, counter
// eviction, snapshot broadcasts, rollup windows and retention. One goroutine
// per task; tasks never block each other.
type Scheduler struct {
	tasks []*task

	wg       sync.WaitGroup
	stopOnce sync.Once
	stopCh   chan struct{}

	logger loggers.Logger
}

func NewScheduler(logger loggers.Logger) *Scheduler {
	return &Scheduler{
		stopCh: make(chan struct{}),
		logger: logger,
	}
}

// Every registers a task to run each interval. Must be called before Start.
func (s *Scheduler) Every(interval time.Duration, name string, run TaskFunc) {
	s.tasks = append(s.tasks, &task{name: name, interval: interval, run: run})
}

func (s *Scheduler) Start(ctx context.Context) {
	for _, t := range s.tasks {
		s.wg.Add(1)
		go func(t *task) {
			defer s.wg.Done()

			s.runTaskLoop(ctx, t)
		}(t)
	}
}

// Stop halts all task loops and waits for in-flight runs to finish.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	s.wg.Wait()
}

func (s *Scheduler) runTaskLoop(ctx context.Context, t *task) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case now := <-ticker.C:
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()

				s.runTask(ctx, t, now)
			}()
		}
	}
}

func (s *Scheduler) runTask(ctx context.Context, t *task, now time.Time) {
	if !t.running.TryLock() {
		metricTaskSkippedTotal.WithLabelValues(t.name).Inc()
		s.logger.Warn().
			Str(loggers.FieldTask, t.name).
			Msg("previous run still in progress, skipping tick")
		return
	}
	defer t.running.Unlock()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Str(loggers.FieldTask, t.name).
				Bytes(loggers.FieldErrorStack, debug.Stack()).
				Msg("scheduled task panic recovered")

			var panicErr error
			if err, ok := r.(error); ok {
				panicErr = err
			} else {
				panicErr = fmt.Errorf("%v", r)
			}
			svcErr := svcerrors.NewInternalErrorPanic(panicErr)
			metricTaskRunsTotal.WithLabelValues(t.name, svcErr.Code).Inc()
		}
	}()

	taskCtx := s.logger.With().
		Str(loggers.FieldTask, t.name).
		Logger().WithContext(ctx)

	started := time.Now()
	err := t.run(taskCtx, now)
	metricTaskDurationSeconds.WithLabelValues(t.name).Observe(time.Since(started).Seconds())

	if err != nil {
		code := "unknown"
		if svcErr, ok := svcerrors.AsServiceError(err); ok {
			code = svcErr.Code
		}
		metricTaskRunsTotal.WithLabelValues(t.name, code).Inc()
		s.logger.Error().
			Err(err).
			Str(loggers.FieldTask, t.name).
			Msg("scheduled task failed")
		return
	}
	metricTaskRunsTotal.WithLabelValues(t.name, "").Inc()
}
