package content

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-co-op/gocron/v2"

	"github.com/mlind/docview/internal/logfields"
	"github.com/mlind/docview/internal/retry"
)

// RetrySchedule re-attempts Load on a fixed interval for every container
// whose snapshot is still unset, then stops permanently once the attempt cap
// is reached. It is owned by the caller: explicit Start and Stop, no
// implicit process-global timer.
type RetrySchedule struct {
	co         *Coordinator
	containers []*Container
	policy     retry.Policy
	scheduler  gocron.Scheduler

	mu      sync.Mutex
	ticks   int
	running bool
	done    bool
}

// NewRetrySchedule creates a schedule over the given containers. The
// policy's Initial duration is the tick interval and MaxRetries the attempt
// cap.
func (co *Coordinator) NewRetrySchedule(containers []*Container, policy retry.Policy) *RetrySchedule {
	return &RetrySchedule{co: co, containers: containers, policy: policy}
}

// Start begins ticking. The schedule self-cancels after the attempt cap or
// once every container has a snapshot; Stop cancels it earlier.
func (r *RetrySchedule) Start(ctx context.Context) error {
	if err := r.policy.Validate(); err != nil {
		return fmt.Errorf("invalid retry policy: %w", err)
	}
	s, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create retry scheduler: %w", err)
	}
	r.scheduler = s

	// Singleton mode: a retrieval that outlasts the tick interval must not
	// overlap the next tick, or two loads would race on the same container.
	_, err = s.NewJob(
		gocron.DurationJob(r.policy.Initial),
		gocron.NewTask(func() { r.Tick(ctx) }),
		gocron.WithName("retrieval-retry"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("create retry job: %w", err)
	}
	s.Start()
	return nil
}

// Stop cancels the schedule. Safe to call multiple times and after
// self-cancellation.
func (r *RetrySchedule) Stop() {
	r.mu.Lock()
	r.done = true
	s := r.scheduler
	r.scheduler = nil
	r.mu.Unlock()
	if s != nil {
		if err := s.Shutdown(); err != nil {
			slog.Warn("retry scheduler shutdown failed", "error", err)
		}
	}
}

// Tick performs one retry round: every container without a snapshot is
// loaded again. After the attempt cap the schedule stops permanently and
// containers that still have no snapshot are left showing fallback content.
// A tick arriving while the previous round is still loading is dropped, so
// a container is never loaded by two rounds at once and slow retrievals
// cannot stretch the attempt cap.
func (r *RetrySchedule) Tick(ctx context.Context) {
	r.mu.Lock()
	if r.done || r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.ticks++
	tick := r.ticks
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	pending := r.pending()
	if len(pending) == 0 {
		slog.Debug("all containers rendered, stopping retry schedule")
		r.stopAsync()
		return
	}

	for _, c := range pending {
		r.co.opts.Metrics.IncRetry()
		slog.Debug("retrying document load", logfields.Source(c.SourceID), logfields.Attempt(tick))
		if err := r.co.Load(ctx, c); err != nil {
			// Context canceled: the owner is shutting down.
			r.stopAsync()
			return
		}
	}

	if r.policy.Exhausted(tick) {
		for _, c := range r.pending() {
			r.co.opts.Metrics.IncRetryExhausted()
			slog.Warn("retry attempts exhausted, container keeps fallback content",
				logfields.Source(c.SourceID), logfields.Attempt(tick))
		}
		r.stopAsync()
	}
}

// Exhausted reports whether the schedule has stopped for good.
func (r *RetrySchedule) Exhausted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}

func (r *RetrySchedule) pending() []*Container {
	var pending []*Container
	for _, c := range r.containers {
		if !c.HasSnapshot() {
			pending = append(pending, c)
		}
	}
	return pending
}

// stopAsync marks the schedule done and shuts the scheduler down off the
// tick goroutine (Shutdown waits for running jobs).
func (r *RetrySchedule) stopAsync() {
	r.mu.Lock()
	alreadyDone := r.done
	r.done = true
	s := r.scheduler
	r.scheduler = nil
	r.mu.Unlock()
	if alreadyDone || s == nil {
		return
	}
	go func() {
		if err := s.Shutdown(); err != nil {
			slog.Warn("retry scheduler shutdown failed", "error", err)
		}
	}()
}
