package tracker

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teakspice-storefront/internal/shop"
	"teakspice-storefront/internal/timer"
)

func newTestTracker(t *testing.T, orders ...shop.Order) (*Tracker, *timer.Manual, *[]Status) {
	t.Helper()

	var log shop.OrderLog
	for _, o := range orders {
		log.Append(o)
	}
	clock := timer.NewManual()
	var changes []Status
	tr := New(log.Find,
		WithDelay(time.Second),
		WithScheduler(clock),
		WithOnChange(func(s Status) { changes = append(changes, s) }),
	)
	return tr, clock, &changes
}

func TestNew_StartsIdle(t *testing.T) {
	tr, _, _ := newTestTracker(t)

	s := tr.Status()
	assert.Equal(t, StateIdle, s.State)
	assert.Equal(t, MsgPrompt, s.Message)
	assert.Empty(t, s.Error)
}

func TestLookup_EmptyID(t *testing.T) {
	tr, clock, changes := newTestTracker(t)

	err := tr.Lookup("   ")
	require.True(t, errors.Is(err, ErrEmptyOrderID))

	s := tr.Status()
	assert.Equal(t, StateIdle, s.State)
	assert.Equal(t, MsgEmptyID, s.Error)
	assert.Equal(t, 0, clock.Pending())
	require.Len(t, *changes, 1)
}

func TestLookup_FoundAfterDelay(t *testing.T) {
	order := shop.Order{ID: "abc123", Total: 2400, Items: []shop.LineItem{{Name: "Hoodie", Price: 1200, Quantity: 2}}}
	tr, clock, changes := newTestTracker(t, order)

	require.NoError(t, tr.Lookup("abc123"))

	s := tr.Status()
	assert.Equal(t, StatePending, s.State)
	assert.Equal(t, "abc123", s.OrderID)
	assert.Nil(t, s.Order)

	clock.Advance(999 * time.Millisecond)
	assert.Equal(t, StatePending, tr.Status().State)

	clock.Advance(time.Millisecond)
	s = tr.Status()
	assert.Equal(t, StateFound, s.State)
	require.NotNil(t, s.Order)
	assert.Equal(t, order, *s.Order)
	assert.Equal(t, MsgFound, s.Message)

	states := make([]State, len(*changes))
	for i, c := range *changes {
		states[i] = c.State
	}
	assert.Equal(t, []State{StatePending, StateFound}, states)
}

func TestLookup_NotFound(t *testing.T) {
	tr, clock, _ := newTestTracker(t, shop.Order{ID: "abc123"})

	require.NoError(t, tr.Lookup("000000"))
	clock.Advance(time.Second)

	s := tr.Status()
	assert.Equal(t, StateNotFound, s.State)
	assert.Equal(t, "000000", s.OrderID)
	assert.Equal(t, MsgNotFound, s.Message)
	assert.Nil(t, s.Order)
}

func TestLookup_ResultCapturedAtRequestTime(t *testing.T) {
	var log shop.OrderLog
	clock := timer.NewManual()
	tr := New(log.Find, WithDelay(time.Second), WithScheduler(clock))

	require.NoError(t, tr.Lookup("late"))
	log.Append(shop.Order{ID: "late"})
	clock.Advance(time.Second)

	assert.Equal(t, StateNotFound, tr.Status().State)
}

func TestLookup_LatestRequestSupersedes(t *testing.T) {
	tr, clock, changes := newTestTracker(t, shop.Order{ID: "first"}, shop.Order{ID: "second"})

	require.NoError(t, tr.Lookup("first"))
	clock.Advance(500 * time.Millisecond)
	require.NoError(t, tr.Lookup("missing"))

	clock.Advance(600 * time.Millisecond)
	assert.Equal(t, StatePending, tr.Status().State)
	assert.Equal(t, "missing", tr.Status().OrderID)

	clock.Advance(400 * time.Millisecond)
	assert.Equal(t, StateNotFound, tr.Status().State)

	for _, c := range *changes {
		assert.NotEqual(t, StateFound, c.State, "superseded lookup must not resolve")
	}
}

func TestReset_CancelsPending(t *testing.T) {
	tr, clock, _ := newTestTracker(t, shop.Order{ID: "abc"})

	require.NoError(t, tr.Lookup("abc"))
	tr.Reset()
	assert.Equal(t, StateIdle, tr.Status().State)

	clock.Advance(time.Minute)
	assert.Equal(t, StateIdle, tr.Status().State)
}

func TestEmptyLookup_CancelsPending(t *testing.T) {
	tr, clock, _ := newTestTracker(t, shop.Order{ID: "abc"})

	require.NoError(t, tr.Lookup("abc"))
	require.Error(t, tr.Lookup(""))

	clock.Advance(time.Minute)
	s := tr.Status()
	assert.Equal(t, StateIdle, s.State)
	assert.Equal(t, MsgEmptyID, s.Error)
}

func TestLookup_ConcurrentRequestsResolveLatest(t *testing.T) {
	clock := timer.NewManual()
	tr := New(func(id string) (shop.Order, bool) {
		if strings.HasSuffix(id, "-even") {
			return shop.Order{ID: id}, true
		}
		return shop.Order{}, false
	}, WithDelay(time.Second), WithScheduler(clock))

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			suffix := "odd"
			if i%2 == 0 {
				suffix = "even"
			}
			assert.NoError(t, tr.Lookup(fmt.Sprintf("order-%d-%s", i, suffix)))
		}(i)
	}
	wg.Wait()

	pending := tr.Status()
	require.Equal(t, StatePending, pending.State)
	assert.Equal(t, 1, clock.Pending())

	clock.Advance(time.Second)
	resolved := tr.Status()
	assert.Equal(t, pending.OrderID, resolved.OrderID)
	if strings.HasSuffix(pending.OrderID, "-even") {
		assert.Equal(t, StateFound, resolved.State)
	} else {
		assert.Equal(t, StateNotFound, resolved.State)
	}
}
