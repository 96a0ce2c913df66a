package event

import "errors"

// Sentinel errors for the dispatcher.
var (
	// ErrNilListener is returned when a nil listener is provided.
	ErrNilListener = errors.New("listener cannot be nil")

	// ErrInvalidType is returned when an event type is empty.
	ErrInvalidType = errors.New("invalid event type")
)

// ListenerError wraps an error returned by a listener with delivery context.
type ListenerError struct {
	// SubscriptionID is the ID of the subscription whose listener failed.
	SubscriptionID string

	// EventType is the type of the event being delivered.
	EventType Type

	// EventID is the ID of the event being delivered.
	EventID string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ListenerError) Error() string {
	return "listener error for subscription " + e.SubscriptionID +
		" on event " + string(e.EventType) + " (" + e.EventID + "): " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ListenerError) Unwrap() error {
	return e.Err
}
