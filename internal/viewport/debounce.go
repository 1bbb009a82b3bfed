package viewport

import "time"

// Timer is a pending scheduled call.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d. Implementations must invoke f on the
// goroutine that owns the Controller, typically by posting it back into the
// UI event queue.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Debouncer coalesces bursts of Trigger calls into a single call of fn made
// delay after the last trigger.
type Debouncer struct {
	sched Scheduler
	delay time.Duration
	fn    func()

	timer Timer
	// gen identifies the most recent timer. A callback from an older timer
	// that was already queued when Stop was called is ignored.
	gen uint64
}

// NewDebouncer returns a Debouncer calling fn through sched.
func NewDebouncer(sched Scheduler, delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{sched: sched, delay: delay, fn: fn}
}

// Trigger cancels any pending call and schedules a new one.
func (d *Debouncer) Trigger() {
	d.stop()
	d.gen++
	gen := d.gen
	d.timer = d.sched.AfterFunc(d.delay, func() {
		if gen != d.gen || d.timer == nil {
			return
		}
		d.timer = nil
		d.fn()
	})
}

// Cancel drops the pending call, if any.
func (d *Debouncer) Cancel() {
	d.stop()
	d.gen++
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool { return d.timer != nil }

func (d *Debouncer) stop() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
