// Package session owns the per-visitor storefront state: the cart, the
// order log, the modal panels and the order tracker. Every change is
// published to subscribers so the presentation side can re-render.
package session

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"teakspice-storefront/internal/modal"
	"teakspice-storefront/internal/shop"
	"teakspice-storefront/internal/timer"
	"teakspice-storefront/internal/tracker"
)

type EventKind string

const (
	EventCart    EventKind = "cart"
	EventOrder   EventKind = "order"
	EventTracker EventKind = "tracker"
	EventPanels  EventKind = "panels"
)

// Event carries the state that changed. Only the field matching Kind is set.
type Event struct {
	Kind    EventKind
	Cart    []shop.LineItem
	Order   *shop.Order
	Tracker *tracker.Status
	Panels  map[modal.Panel]bool
}

type Config struct {
	TrackerDelay    time.Duration
	ConfirmationTTL time.Duration
	Scheduler       timer.Scheduler
	NewOrderID      shop.IDFunc
	Now             func() time.Time
}

func (c Config) withDefaults() Config {
	if c.TrackerDelay <= 0 {
		c.TrackerDelay = tracker.DefaultDelay
	}
	if c.ConfirmationTTL <= 0 {
		c.ConfirmationTTL = modal.DefaultConfirmationTTL
	}
	if c.Scheduler == nil {
		c.Scheduler = timer.Real{}
	}
	if c.NewOrderID == nil {
		c.NewOrderID = shop.NewOrderID
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

type Session struct {
	ID string

	cfg     Config
	log     *zap.Logger
	panels  *modal.Panels
	tracker *tracker.Tracker

	mu       sync.Mutex
	cart     shop.Cart
	orders   shop.OrderLog
	lastSeen time.Time

	subsMu  sync.Mutex
	subs    map[int]chan Event
	nextSub int
	closed  bool
}

func New(id string, cfg Config, log *zap.Logger) *Session {
	cfg = cfg.withDefaults()
	if log == nil {
		log = zap.NewNop()
	}

	s := &Session{
		ID:       id,
		cfg:      cfg,
		log:      log.With(zap.String("session_id", id)),
		lastSeen: cfg.Now(),
		subs:     make(map[int]chan Event),
	}
	s.panels = modal.New(
		modal.WithScheduler(cfg.Scheduler),
		modal.WithOnChange(func(p map[modal.Panel]bool) {
			s.publish(Event{Kind: EventPanels, Panels: p})
		}),
	)
	s.tracker = tracker.New(s.FindOrder,
		tracker.WithDelay(cfg.TrackerDelay),
		tracker.WithScheduler(cfg.Scheduler),
		tracker.WithOnChange(func(st tracker.Status) {
			s.publish(Event{Kind: EventTracker, Tracker: &st})
		}),
	)
	return s
}

func (s *Session) AddItem(name string, price int64) ([]shop.LineItem, error) {
	return s.mutateCart(func(c *shop.Cart) error { return c.AddItem(name, price) })
}

func (s *Session) IncreaseQuantity(index int) ([]shop.LineItem, error) {
	return s.mutateCart(func(c *shop.Cart) error { return c.IncreaseQuantity(index) })
}

func (s *Session) DecreaseQuantity(index int) ([]shop.LineItem, error) {
	return s.mutateCart(func(c *shop.Cart) error { return c.DecreaseQuantity(index) })
}

func (s *Session) RemoveItem(index int) ([]shop.LineItem, error) {
	return s.mutateCart(func(c *shop.Cart) error { return c.RemoveItem(index) })
}

func (s *Session) Cart() []shop.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	return s.cart.Items()
}

// Checkout places an order from the current cart. With an empty cart
// nothing happens and ok is false. On success the cart panel closes and the
// confirmation panel opens with its auto-dismiss timeout.
func (s *Session) Checkout() (order shop.Order, ok bool) {
	s.mu.Lock()
	s.touchLocked()
	order, ok = shop.Checkout(&s.cart, &s.orders, s.cfg.NewOrderID, s.cfg.Now())
	s.mu.Unlock()

	if !ok {
		s.log.Debug("checkout skipped, cart is empty")
		return shop.Order{}, false
	}

	s.log.Info("order placed",
		zap.String("order_id", order.ID),
		zap.Int64("total", order.Total),
		zap.Int("lines", len(order.Items)),
	)
	s.publish(Event{Kind: EventCart, Cart: []shop.LineItem{}})
	s.publish(Event{Kind: EventOrder, Order: &order})
	s.panels.Close(modal.Cart)
	s.panels.ShowConfirmation(s.cfg.ConfirmationTTL)
	return order, true
}

func (s *Session) FindOrder(id string) (shop.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders.Find(id)
}

func (s *Session) Orders() []shop.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	return s.orders.List()
}

// TrackOrder starts a tracker lookup; see tracker.Tracker.Lookup.
func (s *Session) TrackOrder(id string) error {
	s.touch()
	err := s.tracker.Lookup(id)
	if err != nil {
		s.log.Debug("tracker lookup rejected", zap.Error(err))
	}
	return err
}

func (s *Session) TrackerStatus() tracker.Status {
	return s.tracker.Status()
}

// OpenPanel shows a panel. Opening the tracker starts it from a fresh
// prompt.
func (s *Session) OpenPanel(p modal.Panel) {
	s.touch()
	if p == modal.Tracker {
		s.tracker.Reset()
	}
	s.panels.Open(p)
}

func (s *Session) ClosePanel(p modal.Panel) {
	s.touch()
	s.panels.Close(p)
}

func (s *Session) Panels() map[modal.Panel]bool {
	return s.panels.Snapshot()
}

// Subscribe returns a channel of change events. Events are dropped for a
// subscriber whose buffer is full. The cancel func unsubscribes and closes
// the channel.
func (s *Session) Subscribe(buffer int) (<-chan Event, func()) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	ch := make(chan Event, buffer)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subsMu.Lock()
			defer s.subsMu.Unlock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}
}

// Close cancels pending timers and ends all subscriptions.
func (s *Session) Close() {
	s.tracker.Stop()
	s.panels.Stop()

	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) mutateCart(f func(*shop.Cart) error) ([]shop.LineItem, error) {
	s.mu.Lock()
	s.touchLocked()
	err := f(&s.cart)
	items := s.cart.Items()
	s.mu.Unlock()

	if err != nil {
		return items, err
	}
	s.publish(Event{Kind: EventCart, Cart: items})
	return items, nil
}

func (s *Session) publish(ev Event) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	for id, ch := range s.subs {
		select {
		case ch <- ev:
		default:
			s.log.Warn("dropping event for slow subscriber",
				zap.Int("subscriber", id),
				zap.String("kind", string(ev.Kind)),
			)
		}
	}
}

func (s *Session) touch() {
	s.mu.Lock()
	s.touchLocked()
	s.mu.Unlock()
}

func (s *Session) touchLocked() {
	s.lastSeen = s.cfg.Now()
}
