// Package debounce provides a cancelable single-pending-call timer.
package debounce

import (
	"sync"
	"time"
)

// Debouncer defers a call until no further calls have been scheduled for
// the configured delay. At most one call is pending at any time: scheduling
// a new call cancels the previous one.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	gen     uint64
	pending bool
}

// New creates a Debouncer with the given quiet period.
func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Delay returns the quiet period.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Do cancels any pending call and schedules fn to run after the quiet
// period. fn runs on its own goroutine.
func (d *Debouncer) Do(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.cancelLocked()
	gen := d.gen
	d.pending = true
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// A timer that fired after being superseded must not run.
		if gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.pending = false
		d.timer = nil
		d.mu.Unlock()

		fn()
	})
}

// Stop cancels the pending call, if any. It reports whether a call was
// pending.
func (d *Debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	wasPending := d.pending
	d.cancelLocked()
	return wasPending
}

// Pending reports whether a call is scheduled and has not yet run.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

func (d *Debouncer) cancelLocked() {
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = false
}
