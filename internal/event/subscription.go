package event

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// subscriptionState tracks the lifecycle of a subscription.
type subscriptionState int32

const (
	subscriptionActive subscriptionState = iota
	subscriptionCancelled
)

// Subscription is a cancellable handle representing one registered
// listener. It is returned by Subscribe and SubscribeToAll and removes
// exactly that registration when unsubscribed.
type Subscription struct {
	id       string
	topic    Type
	listener Listener
	state    atomic.Int32

	// remove is installed by the owning dispatcher and detaches this
	// subscription from its registry.
	remove func(*Subscription)
}

// newSubscription creates an active subscription for the given type.
func newSubscription(t Type, l Listener, remove func(*Subscription)) *Subscription {
	s := &Subscription{
		id:       newSubscriptionID(),
		topic:    t,
		listener: l,
		remove:   remove,
	}
	s.state.Store(int32(subscriptionActive))
	return s
}

// newSubscriptionID returns a unique subscription identifier.
// Falls back to a random UUID if v7 generation fails.
func newSubscriptionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// ID returns the unique subscription identifier.
func (s *Subscription) ID() string {
	return s.id
}

// Type returns the subscribed event type, or TypeWildcard for wildcard
// subscriptions.
func (s *Subscription) Type() Type {
	return s.topic
}

// IsActive reports whether the subscription can still receive events.
func (s *Subscription) IsActive() bool {
	return subscriptionState(s.state.Load()) == subscriptionActive
}

// Unsubscribe removes the registration. It is idempotent: a second call is
// a no-op. It is legal to call Unsubscribe from within a listener currently
// executing for this or any other subscription.
func (s *Subscription) Unsubscribe() {
	if !s.state.CompareAndSwap(int32(subscriptionActive), int32(subscriptionCancelled)) {
		return
	}
	if s.remove != nil {
		s.remove(s)
	}
}
