package timer

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTask_RunsAfterDelay(t *testing.T) {
	m := NewManual()
	task := NewTask(m)

	var runs int
	task.Schedule(time.Second, func() { runs++ })
	assert.True(t, task.Pending())

	m.Advance(999 * time.Millisecond)
	assert.Equal(t, 0, runs)

	m.Advance(time.Millisecond)
	assert.Equal(t, 1, runs)
	assert.False(t, task.Pending())

	m.Advance(time.Hour)
	assert.Equal(t, 1, runs)
}

func TestTask_RescheduleSupersedes(t *testing.T) {
	m := NewManual()
	task := NewTask(m)

	var got []string
	task.Schedule(time.Second, func() { got = append(got, "first") })
	m.Advance(500 * time.Millisecond)
	task.Schedule(time.Second, func() { got = append(got, "second") })

	m.Advance(600 * time.Millisecond)
	assert.Empty(t, got)

	m.Advance(400 * time.Millisecond)
	assert.Equal(t, []string{"second"}, got)
	assert.Equal(t, 0, m.Pending())
}

func TestTask_Cancel(t *testing.T) {
	m := NewManual()
	task := NewTask(m)

	assert.False(t, task.Cancel())

	var runs int
	task.Schedule(time.Second, func() { runs++ })
	assert.True(t, task.Cancel())
	assert.False(t, task.Pending())

	m.Advance(time.Minute)
	assert.Equal(t, 0, runs)
}

// A callback whose timer already fired but lost the race with Cancel must
// not run.
type firedStopper struct{}

func (firedStopper) Stop() bool { return false }

type capturingScheduler struct {
	f func()
}

func (c *capturingScheduler) AfterFunc(_ time.Duration, f func()) Stopper {
	c.f = f
	return firedStopper{}
}

func TestTask_StaleCallbackIgnored(t *testing.T) {
	s := &capturingScheduler{}
	task := NewTask(s)

	var runs int
	task.Schedule(time.Second, func() { runs++ })
	stale := s.f
	task.Cancel()

	stale()
	assert.Equal(t, 0, runs)
}

func TestTask_RealScheduler(t *testing.T) {
	task := NewTask(nil)

	var runs atomic.Int32
	done := make(chan struct{})
	task.Schedule(10*time.Millisecond, func() {
		runs.Add(1)
		close(done)
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		require.FailNow(t, "task did not run")
	}
	assert.Equal(t, int32(1), runs.Load())
}

func TestTask_CancelWaitsForRunningCallback(t *testing.T) {
	s := &capturingScheduler{}
	task := NewTask(s)

	started := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool
	task.Schedule(time.Second, func() {
		close(started)
		<-release
		finished.Store(true)
	})

	fired := make(chan struct{})
	go func() {
		s.f()
		close(fired)
	}()
	<-started

	cancelled := make(chan bool)
	go func() { cancelled <- task.Cancel() }()

	select {
	case <-cancelled:
		require.FailNow(t, "Cancel returned while the callback was running")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	assert.False(t, <-cancelled)
	assert.True(t, finished.Load())
	<-fired
}
