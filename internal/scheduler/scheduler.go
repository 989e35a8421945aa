// Package scheduler runs interval loops and activity-count hooks under one
// supervisor, so that stopping it cancels and joins every task it started.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

type state int

const (
	stateIdle state = iota
	stateRunning
	stateStopped
)

// ErrorHandler receives every error or recovered panic from a task.
type ErrorHandler func(task string, err error)

type hookState struct {
	spec  QueryHook
	count int64
	sem   *semaphore.Weighted
}

// Scheduler owns the periodic loops and hook-triggered tasks of one instance.
type Scheduler struct {
	periodic []Periodic
	hooks    []*hookState
	logger   *slog.Logger
	onError  ErrorHandler

	mu     sync.Mutex
	state  state
	cancel context.CancelFunc
	ctx    context.Context //nolint:containedctx // lifetime of the running scheduler
	group  *errgroup.Group
	done   chan struct{}
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

// WithErrorHandler sets a function called with each task failure, in
// addition to logging it.
func WithErrorHandler(fn ErrorHandler) Option {
	return func(s *Scheduler) { s.onError = fn }
}

// New validates the specs and returns a stopped-but-startable Scheduler.
func New(periodic []Periodic, hooks []QueryHook, opts ...Option) (*Scheduler, error) {
	if err := validate(periodic, hooks); err != nil {
		return nil, err
	}

	s := &Scheduler{
		periodic: append([]Periodic(nil), periodic...),
	}

	for _, h := range hooks {
		hs := &hookState{spec: h}
		if h.MaxInFlight > 0 {
			hs.sem = semaphore.NewWeighted(h.MaxInFlight)
		}

		s.hooks = append(s.hooks, hs)
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s, nil
}

// Start launches one loop per periodic task. The tasks outlive ctx's
// cancellation; only Stop ends them.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case stateRunning:
		return ErrAlreadyStarted
	case stateStopped:
		return ErrStopped
	case stateIdle:
	}

	s.ctx, s.cancel = context.WithCancel(context.WithoutCancel(ctx))
	s.group = &errgroup.Group{}
	s.state = stateRunning

	runCtx := s.ctx

	for _, p := range s.periodic {
		s.group.Go(func() error {
			s.runPeriodic(runCtx, p)

			return nil
		})
	}

	s.logger.Debug("scheduler started", "periodic", len(s.periodic), "hooks", len(s.hooks))

	return nil
}

// Notify records one completed data operation. Every hook's counter is
// incremented; hooks that reach their threshold reset to zero and launch
// their action without blocking the caller. Notify is a no-op unless the
// scheduler is running.
func (s *Scheduler) Notify() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != stateRunning {
		return
	}

	for _, h := range s.hooks {
		h.count++
		if h.count < h.spec.Threshold {
			continue
		}

		h.count = 0
		runCtx := s.ctx

		s.group.Go(func() error {
			s.runHook(runCtx, h)

			return nil
		})
	}
}

// Count returns the current counter of the named hook, or zero for an
// unknown name.
func (s *Scheduler) Count(name string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, h := range s.hooks {
		if h.spec.Name == name {
			return h.count
		}
	}

	return 0
}

// Running reports whether Start has been called and Stop has not.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state == stateRunning
}

// Stop cancels every task and waits until all have returned or ctx is done.
// After Stop no action starts again. It is safe to call Stop more than once;
// later calls wait on the same shutdown.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()

	switch s.state {
	case stateIdle:
		s.state = stateStopped
		s.mu.Unlock()

		return nil
	case stateRunning:
		s.state = stateStopped
		s.cancel()

		done := make(chan struct{})
		s.done = done

		go func() {
			_ = s.group.Wait()

			close(done)
		}()
	case stateStopped:
	}

	done := s.done
	s.mu.Unlock()

	if done == nil {
		return nil
	}

	select {
	case <-done:
		s.logger.Debug("scheduler stopped")

		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrShutdownTimeout, ctx.Err())
	}
}

func (s *Scheduler) runPeriodic(ctx context.Context, p Periodic) {
	if !p.Immediate && !sleep(ctx, p.Interval) {
		return
	}

	for ctx.Err() == nil {
		s.invoke(ctx, p.Name, p.Action)

		if !sleep(ctx, p.Interval) {
			return
		}
	}
}

func (s *Scheduler) runHook(ctx context.Context, h *hookState) {
	if h.sem != nil {
		if err := h.sem.Acquire(ctx, 1); err != nil {
			return
		}
		defer h.sem.Release(1)
	}

	if ctx.Err() != nil {
		return
	}

	s.invoke(ctx, h.spec.Name, h.spec.Action)
}

// invoke runs one action. Errors and panics are reported and swallowed so
// the task keeps its schedule.
func (s *Scheduler) invoke(ctx context.Context, name string, action Action) {
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()

		return action(ctx)
	}()

	if err == nil || ctx.Err() != nil {
		return
	}

	s.logger.Error("scheduled task failed", "task", name, "error", err)

	if s.onError != nil {
		s.onError(name, err)
	}
}

// sleep waits for d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
