package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/feedsieve/internal/config"
	"github.com/phrazzld/feedsieve/internal/store"
)

// purgeSweepInterval is how often the stale-item safety valve runs.
const purgeSweepInterval = 24 * time.Hour

// maxErrorBackoff caps the shortened delay used after a failed cycle.
const maxErrorBackoff = time.Minute

// Processor is the engine surface the scheduler drives.
type Processor interface {
	ProcessOne(ctx context.Context) (bool, error)
}

// Scheduler runs processing cycles on a fixed interval from a single
// goroutine. An in-flight cycle is never interrupted; cancellation is
// observed between cycles.
type Scheduler struct {
	processor    Processor
	queue        store.WorkItemStore
	interval     time.Duration
	errorBackoff time.Duration
	purgeAge     time.Duration
	logger       *slog.Logger
}

// NewScheduler creates a scheduler for the given processor. The error
// backoff is a fifth of the processing interval, clamped to one minute,
// so transient queue failures are retried sooner than a full interval.
func NewScheduler(processor Processor, queue store.WorkItemStore, cfg config.QueueConfig, log *slog.Logger) *Scheduler {
	if processor == nil {
		panic("processor cannot be nil")
	}
	if queue == nil {
		panic("queue store cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	interval := cfg.ProcessInterval()
	backoff := interval / 5
	if backoff > maxErrorBackoff {
		backoff = maxErrorBackoff
	}
	if backoff < time.Second {
		backoff = time.Second
	}

	return &Scheduler{
		processor:    processor,
		queue:        queue,
		interval:     interval,
		errorBackoff: backoff,
		purgeAge:     cfg.PurgeAge(),
		logger:       log.With(slog.String("component", "scheduler")),
	}
}

// Run processes the queue until ctx is cancelled. It blocks and should
// be started in its own goroutine. Cancellation is observed only in
// the sleep between cycles: an in-flight cycle runs on a detached
// context so shutdown cannot abort it halfway through its publish and
// ledger writes. The caller waits for Run to return.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("scheduler started",
		slog.Duration("interval", s.interval),
		slog.Duration("error_backoff", s.errorBackoff))

	cycleCtx := context.WithoutCancel(ctx)

	lastPurge := time.Now()
	for {
		delay := s.interval
		if err := s.cycle(cycleCtx); err != nil {
			s.logger.Error("processing cycle failed", slog.String("error", err.Error()))
			delay = s.errorBackoff
		}

		if time.Since(lastPurge) >= purgeSweepInterval {
			s.purgeStale(cycleCtx)
			lastPurge = time.Now()
		}

		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return
		case <-time.After(delay):
		}
	}
}

// cycle runs one ProcessOne call, converting a panic into an error so a
// bug in the pipeline cannot kill the scheduler loop.
func (s *Scheduler) cycle(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("processing cycle panicked: %v", r)
		}
	}()

	processed, err := s.processor.ProcessOne(ctx)
	if err != nil {
		return err
	}
	if processed {
		s.logger.Debug("processing cycle completed")
	}
	return nil
}

// purgeStale deletes pending items older than the configured age.
func (s *Scheduler) purgeStale(ctx context.Context) {
	deleted, err := s.queue.PurgeOlderThan(ctx, s.purgeAge)
	if err != nil {
		s.logger.Error("stale item purge failed", slog.String("error", err.Error()))
		return
	}
	if deleted > 0 {
		s.logger.Warn("stale work items purged",
			slog.Int64("count", deleted),
			slog.Duration("age", s.purgeAge))
	}
}
