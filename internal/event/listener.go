package event

import "context"

// Listener consumes events delivered by the dispatcher.
//
// Listeners come in two shapes: a plain callback, expressed as a
// ListenerFunc, or a handler object that may additionally implement
// Conditional to opt out of individual events. The dispatcher branches on
// the Conditional interface at dispatch time; there is no other runtime
// inspection of the listener.
type Listener interface {
	// Handle processes a single event. A returned error is reported and
	// isolated by the dispatcher; it never aborts delivery to other
	// listeners and never reaches the Emit caller.
	Handle(ctx context.Context, evt Event) error
}

// ListenerFunc is a function adapter for Listener. It is the plain-callback
// listener variant.
type ListenerFunc func(ctx context.Context, evt Event) error

// Handle implements the Listener interface.
func (f ListenerFunc) Handle(ctx context.Context, evt Event) error {
	return f(ctx, evt)
}

// Conditional is an optional interface for listeners that accept only some
// events. When CanHandle returns false the dispatcher skips Handle without
// counting an attempted delivery.
type Conditional interface {
	CanHandle(evt Event) bool
}
