// Package tracker implements the order tracker panel: a lookup request
// shows a pending state for a fixed delay before revealing whether the
// order was found.
//
// The lookup itself happens when the request is made; only the reveal is
// delayed. A new request supersedes one still pending, so the panel always
// ends up showing the result of the latest request.
package tracker

import (
	"errors"
	"strings"
	"sync"
	"time"

	"teakspice-storefront/internal/shop"
	"teakspice-storefront/internal/timer"
)

type State string

const (
	StateIdle     State = "idle"
	StatePending  State = "pending"
	StateFound    State = "found"
	StateNotFound State = "not_found"
)

const DefaultDelay = 1500 * time.Millisecond

const (
	MsgPrompt   = "Enter your order number to track it"
	MsgEmptyID  = "Please enter an order number"
	MsgPending  = "Looking up your order..."
	MsgFound    = "Order found"
	MsgNotFound = "No order found with that number"
)

var ErrEmptyOrderID = errors.New(shop.ErrMsgOrderIDMissing)

// Finder resolves an order id. It is called synchronously from Lookup.
type Finder func(orderID string) (shop.Order, bool)

// Status is a point-in-time view of the tracker.
type Status struct {
	State   State       `json:"state"`
	OrderID string      `json:"orderId,omitempty"`
	Order   *shop.Order `json:"order,omitempty"`
	Message string      `json:"message"`
	Error   string      `json:"error,omitempty"`
}

type Tracker struct {
	find     Finder
	delay    time.Duration
	task     *timer.Task
	onChange func(Status)

	// reqMu serializes requests so cancel, pending and schedule of one
	// lookup never interleave with another.
	reqMu sync.Mutex

	mu     sync.Mutex
	status Status
}

type Option func(*Tracker)

func WithDelay(d time.Duration) Option {
	return func(t *Tracker) { t.delay = d }
}

func WithScheduler(s timer.Scheduler) Option {
	return func(t *Tracker) { t.task = timer.NewTask(s) }
}

// WithOnChange registers a hook called after every state transition. It
// runs without the tracker's lock held.
func WithOnChange(f func(Status)) Option {
	return func(t *Tracker) { t.onChange = f }
}

func New(find Finder, opts ...Option) *Tracker {
	t := &Tracker{
		find:   find,
		delay:  DefaultDelay,
		status: idleStatus(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.task == nil {
		t.task = timer.NewTask(nil)
	}
	return t
}

// Lookup starts a tracking request. An empty id leaves the tracker idle
// with an inline error and returns ErrEmptyOrderID.
func (t *Tracker) Lookup(orderID string) error {
	t.reqMu.Lock()
	defer t.reqMu.Unlock()

	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		t.task.Cancel()
		s := idleStatus()
		s.Error = MsgEmptyID
		t.set(s)
		return ErrEmptyOrderID
	}

	order, found := t.find(orderID)
	resolved := Status{State: StateNotFound, OrderID: orderID, Message: MsgNotFound}
	if found {
		resolved = Status{State: StateFound, OrderID: orderID, Order: &order, Message: MsgFound}
	}

	t.task.Cancel()
	t.set(Status{State: StatePending, OrderID: orderID, Message: MsgPending})
	t.task.Schedule(t.delay, func() { t.set(resolved) })
	return nil
}

// Reset cancels any pending reveal and returns to the idle prompt.
func (t *Tracker) Reset() {
	t.reqMu.Lock()
	defer t.reqMu.Unlock()

	t.task.Cancel()
	t.set(idleStatus())
}

// Stop cancels any pending reveal without changing the state.
func (t *Tracker) Stop() {
	t.reqMu.Lock()
	defer t.reqMu.Unlock()

	t.task.Cancel()
}

func (t *Tracker) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

func (t *Tracker) set(s Status) {
	t.mu.Lock()
	t.status = s
	t.mu.Unlock()

	if t.onChange != nil {
		t.onChange(s)
	}
}

func idleStatus() Status {
	return Status{State: StateIdle, Message: MsgPrompt}
}
