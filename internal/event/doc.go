// Package event provides the Event & Messaging Bus for Spindle.
//
// The dispatcher is the application's "nervous system" - a synchronous,
// in-process publish/subscribe backbone that decouples producers (game
// logic, reel mechanics, UI input) from consumers (UI updaters, animation
// drivers, statistics and debug tooling) without direct dependencies.
//
// # Architecture
//
// The event system consists of a small set of cooperating components:
//
//	┌──────────────────────────────────────────┐
//	│                Dispatcher                 │
//	│  - Subscription registry (type + "*")     │
//	│  - Synchronous, ordered delivery          │
//	│  - Bounded event history                  │
//	│  - Per-listener fault isolation           │
//	└──────────────────────────────────────────┘
//	          │                    │
//	          ▼                    ▼
//	┌─────────────────┐  ┌─────────────────┐
//	│  Subscription    │  │    Listener     │
//	│  - Cancellable   │  │  - ListenerFunc │
//	│    handle        │  │  - Conditional  │
//	└─────────────────┘  └─────────────────┘
//
// # Delivery Contract
//
// Emit is fully synchronous: it returns only after every matched listener
// has run (or failed and been isolated). For a single Emit call the order
// is deterministic: listeners subscribed to the event's exact type run
// first, in subscription order, followed by wildcard listeners, again in
// subscription order. A panic or error inside one listener is caught,
// reported through the dispatcher's logger, and never prevents delivery to
// the remaining listeners or reaches the Emit caller.
//
// Listener sets are snapshotted at the start of each notification phase, so
// a listener may unsubscribe itself or others, or add new subscriptions,
// while delivery for the current event is in progress.
//
// # Basic Usage
//
//	d := event.NewDispatcher(event.WithHistoryCapacity(256))
//
//	sub, err := d.SubscribeFunc("spin.started", func(ctx context.Context, evt event.Event) error {
//	    fmt.Println("spin started:", evt.ID)
//	    return nil
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sub.Unsubscribe()
//
//	d.Emit(ctx, event.NewEvent("spin.started", payload, "game"))
//
// # Event Identity
//
// Every event record is assigned a ULID at creation. IDs are unique for the
// process lifetime and lexicographically sortable by creation order; events
// created within the same millisecond are ordered by the generator's
// monotonic entropy increment.
//
// # Subpackages
//
//   - events: event type vocabulary and typed payload definitions
//   - lifecycle: reusable start/stop contract for subscription-owning consumers
package event
