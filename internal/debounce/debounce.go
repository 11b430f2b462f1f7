// Package debounce schedules one pending call per key after a quiet period.
package debounce

import (
	"strings"
	"sync"
	"time"
)

// Debouncer runs fn with the latest input once no new input has arrived for
// the configured interval. At most one call is pending at any time.
type Debouncer struct {
	interval time.Duration
	fn       func(input string)

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	stopped bool
}

// New returns a Debouncer calling fn after interval of quiet.
func New(interval time.Duration, fn func(input string)) *Debouncer {
	return &Debouncer{interval: interval, fn: fn}
}

// Schedule cancels any pending call and arms a new one for input. It reports
// whether a call was armed; blank input and a stopped Debouncer arm nothing.
func (d *Debouncer) Schedule(input string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.cancelLocked()
	if d.stopped || strings.TrimSpace(input) == "" {
		return false
	}
	gen := d.gen
	d.timer = time.AfterFunc(d.interval, func() {
		d.mu.Lock()
		if d.gen != gen || d.stopped {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.gen++
		d.mu.Unlock()
		d.fn(input)
	})
	return true
}

// Cancel drops the pending call, if any. It reports whether one was dropped.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cancelLocked()
}

// Pending reports whether a call is armed.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels the pending call and refuses further scheduling.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
	d.stopped = true
}

// cancelLocked bumps the generation so that a timer which already fired but
// has not yet taken the lock becomes a no-op.
func (d *Debouncer) cancelLocked() bool {
	d.gen++
	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	return true
}
