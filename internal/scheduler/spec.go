package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Action is the work a scheduled task performs. The context is cancelled
// when the scheduler stops.
type Action func(ctx context.Context) error

// Periodic runs Action, waits for it to return, then sleeps Interval, until
// the scheduler stops. Runs of one Periodic never overlap.
type Periodic struct {
	Name     string
	Interval time.Duration
	Action   Action
	// Immediate runs the action once at start instead of after the first interval.
	Immediate bool
}

// QueryHook runs Action every Threshold notifications. The counter resets
// the moment the threshold is reached, without waiting for the action.
type QueryHook struct {
	Name      string
	Threshold int64
	Action    Action
	// MaxInFlight bounds concurrent runs of this hook. Zero means unbounded.
	MaxInFlight int64
}

func validate(periodic []Periodic, hooks []QueryHook) error {
	seen := make(map[string]bool, len(periodic)+len(hooks))

	checkName := func(name string) error {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: task without a name", ErrInvalidSpec)
		}

		if seen[name] {
			return fmt.Errorf("%w: duplicate task name %q", ErrInvalidSpec, name)
		}

		seen[name] = true

		return nil
	}

	for _, p := range periodic {
		if err := checkName(p.Name); err != nil {
			return err
		}

		if p.Interval <= 0 {
			return fmt.Errorf("%w: %s: interval must be positive, got %s", ErrInvalidSpec, p.Name, p.Interval)
		}

		if p.Action == nil {
			return fmt.Errorf("%w: %s: nil action", ErrInvalidSpec, p.Name)
		}
	}

	for _, h := range hooks {
		if err := checkName(h.Name); err != nil {
			return err
		}

		if h.Threshold <= 0 {
			return fmt.Errorf("%w: %s: threshold must be positive, got %d", ErrInvalidSpec, h.Name, h.Threshold)
		}

		if h.MaxInFlight < 0 {
			return fmt.Errorf("%w: %s: negative max in flight", ErrInvalidSpec, h.Name)
		}

		if h.Action == nil {
			return fmt.Errorf("%w: %s: nil action", ErrInvalidSpec, h.Name)
		}
	}

	return nil
}
