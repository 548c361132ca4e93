// Package timer provides cancellable scheduled tasks.
//
// A Task is a handle on a function scheduled to run once after a delay.
// Scheduling a new function on a Task cancels whatever it had pending, so
// a superseded callback never runs, even if its underlying timer had
// already fired. A callback runs with the Task locked: Cancel and Schedule
// wait for a running callback, and a callback must not call back into its
// own Task.
package timer

import (
	"sync"
	"time"
)

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Stopper
}

type Stopper interface {
	Stop() bool
}

// Real schedules on the runtime timers.
type Real struct{}

func (Real) AfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}

// Task is a resettable single-shot timeout.
type Task struct {
	sched Scheduler

	mu      sync.Mutex
	gen     uint64
	pending Stopper
}

func NewTask(s Scheduler) *Task {
	if s == nil {
		s = Real{}
	}
	return &Task{sched: s}
}

// Schedule cancels any pending run and arranges for f to run after d.
func (t *Task) Schedule(d time.Duration, f func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	t.gen++
	gen := t.gen
	t.pending = t.sched.AfterFunc(d, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if gen != t.gen {
			return
		}
		t.pending = nil
		f()
	})
}

// Cancel drops the pending run, if any. It reports whether something was
// pending. If the callback is already running, Cancel returns after it
// finishes.
func (t *Task) Cancel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	wasPending := t.pending != nil
	t.stopLocked()
	t.gen++
	return wasPending
}

func (t *Task) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending != nil
}

func (t *Task) stopLocked() {
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
}
