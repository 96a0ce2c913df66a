// Package lifecycle provides the reusable start/stop/cleanup contract
// shared by every consumer that owns subscriptions as a unit.
//
// A handler is composed from a Base plus an injected install step rather
// than inheriting from a common type: Start runs the install step and
// records the resulting handles, Stop unsubscribes them all and leaves the
// handler reusable, Destroy additionally releases any other owned
// resources. Start and Stop are idempotent.
package lifecycle

import (
	"sync"

	"github.com/dshills/spindle/internal/event"
)

// Handler is the lifecycle contract implemented by every subscription-owning
// consumer.
type Handler interface {
	// Start installs the handler's subscriptions. No-op when already started.
	Start() error

	// Stop removes every installed subscription. No-op when already
	// stopped. The handler remains reusable for a future Start.
	Stop()

	// Destroy stops the handler and releases any other owned resources.
	Destroy()

	// IsActive reports whether the handler is started.
	IsActive() bool
}

// InstallFunc installs a handler's subscriptions on the given dispatcher
// and returns the handles to record.
type InstallFunc func(bus *event.Dispatcher) ([]*event.Subscription, error)

// Reaction pairs an event type with a callback, for handlers that
// subscribe selectively.
type Reaction struct {
	Type event.Type
	Fn   event.ListenerFunc
}

// Reactions builds an InstallFunc that subscribes each reaction in order.
func Reactions(reactions ...Reaction) InstallFunc {
	return func(bus *event.Dispatcher) ([]*event.Subscription, error) {
		subs := make([]*event.Subscription, 0, len(reactions))
		for _, r := range reactions {
			sub, err := bus.Subscribe(r.Type, r.Fn)
			if err != nil {
				for _, s := range subs {
					s.Unsubscribe()
				}
				return nil, err
			}
			subs = append(subs, sub)
		}
		return subs, nil
	}
}

// Wildcard builds an InstallFunc that subscribes the given listener to
// every event type. It is the default install behavior for handlers that
// do not subscribe selectively.
func Wildcard(l event.Listener) InstallFunc {
	return func(bus *event.Dispatcher) ([]*event.Subscription, error) {
		sub, err := bus.SubscribeToAll(l)
		if err != nil {
			return nil, err
		}
		return []*event.Subscription{sub}, nil
	}
}

// Base is the reusable lifecycle component. Concrete handlers hold a Base
// and delegate the Handler interface to it.
type Base struct {
	mu       sync.Mutex
	bus      *event.Dispatcher
	install  InstallFunc
	subs     []*event.Subscription
	cleanups []func()
	started  bool
}

// New creates a lifecycle base bound to the given dispatcher. The install
// step runs on every Start; a nil install installs nothing.
func New(bus *event.Dispatcher, install InstallFunc) *Base {
	return &Base{bus: bus, install: install}
}

// OnDestroy registers a cleanup function run once by Destroy, after Stop.
func (b *Base) OnDestroy(fn func()) {
	if fn == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cleanups = append(b.cleanups, fn)
}

// Start installs the handler's subscriptions and records the handles.
func (b *Base) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.started {
		return nil
	}
	if b.install != nil {
		subs, err := b.install(b.bus)
		if err != nil {
			return err
		}
		b.subs = subs
	}
	b.started = true
	return nil
}

// Stop unsubscribes every recorded handle and clears the record.
func (b *Base) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.started {
		return
	}
	for _, sub := range b.subs {
		sub.Unsubscribe()
	}
	b.subs = nil
	b.started = false
}

// Destroy stops the handler and runs registered cleanups. The cleanup list
// is cleared so a destroyed-and-restarted handler does not re-run stale
// cleanups.
func (b *Base) Destroy() {
	b.Stop()

	b.mu.Lock()
	cleanups := b.cleanups
	b.cleanups = nil
	b.mu.Unlock()

	for _, fn := range cleanups {
		fn()
	}
}

// IsActive reports whether the handler is started.
func (b *Base) IsActive() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.started
}

// Subscriptions returns the currently recorded handles.
func (b *Base) Subscriptions() []*event.Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]*event.Subscription, len(b.subs))
	copy(out, b.subs)
	return out
}
