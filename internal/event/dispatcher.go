package event

import (
	"context"
	"os"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// DefaultHistoryCapacity is the bounded history size used when no capacity
// option is given.
const DefaultHistoryCapacity = 100

// Dispatcher is the registry of subscriptions and the delivery engine.
// Emit is fully synchronous: type-specific listeners run first in
// subscription order, then wildcard listeners in subscription order, each
// isolated from the failures of the others.
type Dispatcher struct {
	registry *registry

	histMu  sync.Mutex
	history *historyBuffer

	log     zerolog.Logger
	verbose atomic.Bool

	// Stats
	emitted        atomic.Uint64
	delivered      atomic.Uint64
	skipped        atomic.Uint64
	listenerErrors atomic.Uint64
	listenerPanics atomic.Uint64
}

// Option configures a Dispatcher.
type Option func(*config)

type config struct {
	historyCapacity int
	logger          zerolog.Logger
	verbose         bool
}

func defaultConfig() config {
	return config{
		historyCapacity: DefaultHistoryCapacity,
		logger:          zerolog.New(os.Stderr).With().Timestamp().Str("component", "dispatcher").Logger(),
	}
}

// WithHistoryCapacity sets the bounded history size.
func WithHistoryCapacity(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.historyCapacity = n
		}
	}
}

// WithLogger sets the logger used for diagnostics and listener failure
// reports.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithLogging sets the initial state of verbose diagnostic output.
func WithLogging(enabled bool) Option {
	return func(c *config) {
		c.verbose = enabled
	}
}

// NewDispatcher creates a dispatcher with the given options.
func NewDispatcher(opts ...Option) *Dispatcher {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	d := &Dispatcher{
		registry: newRegistry(),
		history:  newHistoryBuffer(cfg.historyCapacity),
		log:      cfg.logger,
	}
	d.verbose.Store(cfg.verbose)
	return d
}

// Subscribe registers a listener for the given event type and returns its
// handle. Multiple listeners per type are allowed; delivery follows
// subscription order. Passing TypeWildcard is equivalent to SubscribeToAll.
func (d *Dispatcher) Subscribe(t Type, l Listener) (*Subscription, error) {
	if l == nil {
		return nil, ErrNilListener
	}
	if t == "" {
		return nil, ErrInvalidType
	}

	sub := newSubscription(t, l, d.detach)
	d.registry.add(sub)

	if d.verbose.Load() {
		d.log.Debug().Str("type", string(t)).Str("subscription", sub.ID()).Msg("subscribed")
	}
	return sub, nil
}

// SubscribeFunc is a convenience method for subscribing a plain callback.
func (d *Dispatcher) SubscribeFunc(t Type, fn ListenerFunc) (*Subscription, error) {
	return d.Subscribe(t, fn)
}

// SubscribeToAll registers a wildcard listener notified for every event type.
func (d *Dispatcher) SubscribeToAll(l Listener) (*Subscription, error) {
	return d.Subscribe(TypeWildcard, l)
}

// SubscribeAllFunc is a convenience method for wildcard callback listeners.
func (d *Dispatcher) SubscribeAllFunc(fn ListenerFunc) (*Subscription, error) {
	return d.Subscribe(TypeWildcard, fn)
}

// Unsubscribe removes a subscription. Equivalent to sub.Unsubscribe().
func (d *Dispatcher) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	sub.Unsubscribe()
}

// detach removes a cancelled subscription from the registry. Installed as
// the remove hook on every subscription this dispatcher creates.
func (d *Dispatcher) detach(sub *Subscription) {
	d.registry.remove(sub.ID())
	if d.verbose.Load() {
		d.log.Debug().Str("type", string(sub.Type())).Str("subscription", sub.ID()).Msg("unsubscribed")
	}
}

// Emit appends the event to history and delivers it synchronously: first to
// the listeners registered for the event's exact type, then to wildcard
// listeners, each group in subscription order. Listener failures are
// reported and isolated; Emit never propagates them to the caller.
func (d *Dispatcher) Emit(ctx context.Context, evt Event) {
	d.emitted.Add(1)

	d.histMu.Lock()
	d.history.append(evt)
	d.histMu.Unlock()

	if d.verbose.Load() {
		d.log.Debug().
			Str("type", string(evt.Type)).
			Str("id", evt.ID).
			Str("source", evt.Source).
			Msg("emit")
	}

	d.notify(ctx, evt, d.registry.snapshot(evt.Type))
	d.notify(ctx, evt, d.registry.snapshotWildcard())
}

// notify delivers the event to one phase's snapshot. Subscriptions
// cancelled after the snapshot was taken are skipped, so a listener
// unsubscribing itself or a peer mid-dispatch is safe.
func (d *Dispatcher) notify(ctx context.Context, evt Event, subs []*Subscription) {
	for _, sub := range subs {
		if !sub.IsActive() {
			continue
		}
		d.invoke(ctx, evt, sub)
	}
}

// invoke runs a single listener with panic recovery. A Conditional listener
// declining the event is skipped without counting an attempted delivery.
func (d *Dispatcher) invoke(ctx context.Context, evt Event, sub *Subscription) {
	if c, ok := sub.listener.(Conditional); ok && !c.CanHandle(evt) {
		d.skipped.Add(1)
		return
	}

	defer func() {
		if r := recover(); r != nil {
			d.listenerPanics.Add(1)
			d.log.Error().
				Str("subscription", sub.ID()).
				Str("type", string(evt.Type)).
				Str("event", evt.ID).
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("listener panicked")
		}
	}()

	if err := sub.listener.Handle(ctx, evt); err != nil {
		d.listenerErrors.Add(1)
		lerr := &ListenerError{
			SubscriptionID: sub.ID(),
			EventType:      evt.Type,
			EventID:        evt.ID,
			Err:            err,
		}
		d.log.Error().Err(lerr).Msg("listener failed")
		return
	}

	d.delivered.Add(1)
}

// History returns a snapshot of the bounded event history in emission
// order, oldest first. The returned slice is not a live view.
func (d *Dispatcher) History() []Event {
	d.histMu.Lock()
	defer d.histMu.Unlock()
	return d.history.snapshot()
}

// HistoryLen returns the number of buffered history entries.
func (d *Dispatcher) HistoryLen() int {
	d.histMu.Lock()
	defer d.histMu.Unlock()
	return d.history.len()
}

// ClearHistory empties the event history.
func (d *Dispatcher) ClearHistory() {
	d.histMu.Lock()
	defer d.histMu.Unlock()
	d.history.clear()
}

// SubscriberCount returns the number of registrations for the given type.
// Pass TypeWildcard to count wildcard subscriptions.
func (d *Dispatcher) SubscriberCount(t Type) int {
	return d.registry.count(t)
}

// EventTypes returns every event type with at least one registration,
// excluding the wildcard group.
func (d *Dispatcher) EventTypes() []Type {
	return d.registry.types()
}

// Clear drops all subscriptions, specific and wildcard. Outstanding handles
// become inactive.
func (d *Dispatcher) Clear() {
	d.registry.clear()
	if d.verbose.Load() {
		d.log.Debug().Msg("cleared all subscriptions")
	}
}

// SetLogging toggles verbose internal diagnostic output. It is orthogonal
// to the event logger component; listener failures are reported regardless.
func (d *Dispatcher) SetLogging(enabled bool) {
	d.verbose.Store(enabled)
}

// IsLogging reports whether verbose diagnostics are enabled.
func (d *Dispatcher) IsLogging() bool {
	return d.verbose.Load()
}

// Stats contains dispatcher delivery counters.
type Stats struct {
	// Emitted is the total number of Emit calls.
	Emitted uint64

	// Delivered is the number of successful listener invocations.
	Delivered uint64

	// Skipped is the number of deliveries declined by Conditional listeners.
	Skipped uint64

	// ListenerErrors is the number of listeners that returned errors.
	ListenerErrors uint64

	// ListenerPanics is the number of listeners that panicked.
	ListenerPanics uint64

	// Subscriptions is the current number of registrations, wildcard included.
	Subscriptions int

	// HistoryLen is the current number of buffered history entries.
	HistoryLen int
}

// Stats returns current dispatcher statistics.
func (d *Dispatcher) Stats() Stats {
	d.registry.mu.RLock()
	subs := len(d.registry.byID)
	d.registry.mu.RUnlock()

	return Stats{
		Emitted:        d.emitted.Load(),
		Delivered:      d.delivered.Load(),
		Skipped:        d.skipped.Load(),
		ListenerErrors: d.listenerErrors.Load(),
		ListenerPanics: d.listenerPanics.Load(),
		Subscriptions:  subs,
		HistoryLen:     d.HistoryLen(),
	}
}
