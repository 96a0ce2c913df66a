package event

import "time"

// Type identifies the semantic kind of an event, e.g. "spin.started".
// Types use hierarchical dot notation by convention; matching is always
// exact, there is no pattern expansion.
type Type string

// TypeWildcard subscribes a listener to every event type. It is a
// subscription marker only and never a valid event type.
const TypeWildcard Type = "*"

// String returns the type as a string.
func (t Type) String() string {
	return string(t)
}

// Valid reports whether t can be used as an event type.
func (t Type) Valid() bool {
	return t != "" && t != TypeWildcard
}

// Event is an immutable typed message flowing through the dispatcher.
// Events are value objects; they are never mutated after creation.
type Event struct {
	// ID uniquely identifies this event instance. IDs are ULIDs and sort
	// lexicographically by creation order.
	ID string

	// Type is the semantic kind of the event.
	Type Type

	// Timestamp is when the event was created.
	Timestamp time.Time

	// Data is the producer-defined payload. The dispatcher never inspects it.
	Data any

	// Source identifies the module that emitted the event. Diagnostic only.
	Source string
}

// NewEvent creates an event with the given type and payload, assigning its ID
// and timestamp.
func NewEvent(t Type, data any, source string) Event {
	return Event{
		ID:        nextID(),
		Type:      t,
		Timestamp: time.Now(),
		Data:      data,
		Source:    source,
	}
}

// Age returns how long ago the event was created.
func (e Event) Age() time.Duration {
	return time.Since(e.Timestamp)
}
