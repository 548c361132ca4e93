package modal

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teakspice-storefront/internal/shop"
	"teakspice-storefront/internal/timer"
)

func TestParse(t *testing.T) {
	for _, p := range All {
		got, err := Parse(string(p))
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}

	_, err := Parse("wishlist")
	var cmdErr *shop.CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, shop.StatusInvalidArgument, cmdErr.Code)
}

func TestOpenClose(t *testing.T) {
	p := New(WithScheduler(timer.NewManual()))

	assert.Equal(t, map[Panel]bool{Cart: false, Confirmation: false, Tracker: false}, p.Snapshot())

	p.Open(Cart)
	p.Open(Tracker)
	assert.True(t, p.IsOpen(Cart))
	assert.True(t, p.IsOpen(Tracker))
	assert.False(t, p.IsOpen(Confirmation))

	p.Close(Cart)
	assert.False(t, p.IsOpen(Cart))
	assert.True(t, p.IsOpen(Tracker))
}

func TestShowConfirmation_AutoDismiss(t *testing.T) {
	clock := timer.NewManual()
	var snaps []map[Panel]bool
	p := New(WithScheduler(clock), WithOnChange(func(s map[Panel]bool) { snaps = append(snaps, s) }))

	p.ShowConfirmation(3 * time.Second)
	assert.True(t, p.IsOpen(Confirmation))

	clock.Advance(2 * time.Second)
	assert.True(t, p.IsOpen(Confirmation))

	clock.Advance(time.Second)
	assert.False(t, p.IsOpen(Confirmation))
	require.Len(t, snaps, 2)
	assert.True(t, snaps[0][Confirmation])
	assert.False(t, snaps[1][Confirmation])
}

func TestManualCloseCancelsAutoDismiss(t *testing.T) {
	clock := timer.NewManual()
	p := New(WithScheduler(clock))

	p.ShowConfirmation(3 * time.Second)
	clock.Advance(time.Second)
	p.Close(Confirmation)

	// Reopened inside the old window: the stale timeout must not close it.
	clock.Advance(time.Second)
	p.Open(Confirmation)
	clock.Advance(5 * time.Second)

	assert.True(t, p.IsOpen(Confirmation))
	assert.Equal(t, 0, clock.Pending())
}

func TestShowConfirmation_ReopenResetsTimer(t *testing.T) {
	clock := timer.NewManual()
	p := New(WithScheduler(clock))

	p.ShowConfirmation(3 * time.Second)
	clock.Advance(2 * time.Second)
	p.ShowConfirmation(3 * time.Second)

	clock.Advance(2 * time.Second)
	assert.True(t, p.IsOpen(Confirmation))

	clock.Advance(time.Second)
	assert.False(t, p.IsOpen(Confirmation))
}

func TestStop(t *testing.T) {
	clock := timer.NewManual()
	p := New(WithScheduler(clock))

	p.ShowConfirmation(time.Second)
	p.Stop()
	clock.Advance(time.Minute)

	assert.True(t, p.IsOpen(Confirmation))
}

type captureScheduler struct {
	f func()
}

func (c *captureScheduler) AfterFunc(_ time.Duration, f func()) timer.Stopper {
	c.f = f
	return firedTimer{}
}

type firedTimer struct{}

func (firedTimer) Stop() bool { return false }

// The dismiss timer fires and stalls before it can close the panel while
// the visitor reopens the confirmation. The reopen must win.
func TestReopenDuringDismissKeepsConfirmationOpen(t *testing.T) {
	sched := &captureScheduler{}
	p := New(WithScheduler(sched))
	p.ShowConfirmation(3 * time.Second)
	require.NotNil(t, sched.f)

	p.mu.Lock()
	fired := make(chan struct{})
	go func() {
		sched.f()
		close(fired)
	}()
	time.Sleep(20 * time.Millisecond)

	reopened := make(chan struct{})
	go func() {
		p.Open(Confirmation)
		close(reopened)
	}()
	time.Sleep(20 * time.Millisecond)
	p.mu.Unlock()

	<-fired
	<-reopened
	assert.True(t, p.IsOpen(Confirmation))
}
