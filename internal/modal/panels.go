// Package modal tracks which overlay panels of the storefront are open.
package modal

import (
	"sync"
	"time"

	"teakspice-storefront/internal/shop"
	"teakspice-storefront/internal/timer"
)

type Panel string

const (
	Cart         Panel = "cart"
	Confirmation Panel = "confirmation"
	Tracker      Panel = "tracker"
)

var All = []Panel{Cart, Confirmation, Tracker}

const DefaultConfirmationTTL = 3 * time.Second

// Parse validates a panel name coming from a request.
func Parse(name string) (Panel, error) {
	for _, p := range All {
		if string(p) == name {
			return p, nil
		}
	}
	return "", shop.NewInvalidArgumentf("unknown panel %q", name)
}

// Panels holds open/closed flags for each panel. The confirmation panel can
// close itself after a timeout; any manual close or reopen replaces that
// timeout.
type Panels struct {
	dismiss  *timer.Task
	onChange func(map[Panel]bool)

	mu   sync.Mutex
	open map[Panel]bool
}

type Option func(*Panels)

func WithScheduler(s timer.Scheduler) Option {
	return func(p *Panels) { p.dismiss = timer.NewTask(s) }
}

// WithOnChange registers a hook called with a snapshot after every
// visibility change.
func WithOnChange(f func(map[Panel]bool)) Option {
	return func(p *Panels) { p.onChange = f }
}

func New(opts ...Option) *Panels {
	p := &Panels{open: make(map[Panel]bool, len(All))}
	for _, opt := range opts {
		opt(p)
	}
	if p.dismiss == nil {
		p.dismiss = timer.NewTask(nil)
	}
	return p
}

func (p *Panels) Open(panel Panel) {
	if panel == Confirmation {
		p.dismiss.Cancel()
	}
	p.set(panel, true)
}

func (p *Panels) Close(panel Panel) {
	if panel == Confirmation {
		p.dismiss.Cancel()
	}
	p.set(panel, false)
}

// ShowConfirmation opens the confirmation panel and closes it again after
// ttl unless something else closes or reopens it first.
func (p *Panels) ShowConfirmation(ttl time.Duration) {
	p.set(Confirmation, true)
	if ttl > 0 {
		p.dismiss.Schedule(ttl, func() { p.set(Confirmation, false) })
	} else {
		p.dismiss.Cancel()
	}
}

func (p *Panels) IsOpen(panel Panel) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.open[panel]
}

func (p *Panels) Snapshot() map[Panel]bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

// Stop cancels the pending auto-dismiss.
func (p *Panels) Stop() {
	p.dismiss.Cancel()
}

func (p *Panels) set(panel Panel, open bool) {
	p.mu.Lock()
	p.open[panel] = open
	snap := p.snapshotLocked()
	p.mu.Unlock()

	if p.onChange != nil {
		p.onChange(snap)
	}
}

func (p *Panels) snapshotLocked() map[Panel]bool {
	out := make(map[Panel]bool, len(All))
	for _, panel := range All {
		out[panel] = p.open[panel]
	}
	return out
}
