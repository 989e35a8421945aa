package tracker

import "time"

// SetNow replaces the clock used by RecordApplied.
func (t *Tracker) SetNow(now func() time.Time) {
	t.now = now
}
