package scheduler

import "errors"

// ErrInvalidSpec indicates a periodic task or query hook that cannot be scheduled.
var ErrInvalidSpec = errors.New("invalid scheduler spec")

// ErrAlreadyStarted indicates Start was called on a running scheduler.
var ErrAlreadyStarted = errors.New("scheduler already started")

// ErrStopped indicates Start was called after Stop.
var ErrStopped = errors.New("scheduler stopped")

// ErrShutdownTimeout indicates Stop gave up waiting for tasks to finish.
var ErrShutdownTimeout = errors.New("scheduler shutdown timed out")
