package event

import "sync"

// registry organizes subscriptions by exact event type plus a wildcard
// group. Listener slices preserve subscription order, which is the
// delivery order for a notification phase.
type registry struct {
	mu       sync.RWMutex
	byType   map[Type][]*Subscription
	wildcard []*Subscription
	byID     map[string]*Subscription
}

func newRegistry() *registry {
	return &registry{
		byType: make(map[Type][]*Subscription),
		byID:   make(map[string]*Subscription),
	}
}

// add appends a subscription to its type group (or the wildcard group).
func (r *registry) add(sub *Subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sub.Type() == TypeWildcard {
		r.wildcard = append(r.wildcard, sub)
	} else {
		r.byType[sub.Type()] = append(r.byType[sub.Type()], sub)
	}
	r.byID[sub.ID()] = sub
}

// remove detaches a subscription. A type group left empty is dropped from
// the map so the registry does not accumulate dead entries.
func (r *registry) remove(subID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.byID[subID]
	if !ok {
		return false
	}
	delete(r.byID, subID)

	if sub.Type() == TypeWildcard {
		r.wildcard = removeSub(r.wildcard, subID)
		return true
	}

	t := sub.Type()
	r.byType[t] = removeSub(r.byType[t], subID)
	if len(r.byType[t]) == 0 {
		delete(r.byType, t)
	}
	return true
}

func removeSub(subs []*Subscription, subID string) []*Subscription {
	for i, s := range subs {
		if s.ID() == subID {
			return append(subs[:i], subs[i+1:]...)
		}
	}
	return subs
}

// snapshot returns a copy of the type group for t, in subscription order.
// The copy makes it safe for listeners to mutate the registry while the
// dispatcher iterates.
func (r *registry) snapshot(t Type) []*Subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	subs := r.byType[t]
	if len(subs) == 0 {
		return nil
	}
	out := make([]*Subscription, len(subs))
	copy(out, subs)
	return out
}

// snapshotWildcard returns a copy of the wildcard group, in subscription order.
func (r *registry) snapshotWildcard() []*Subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.wildcard) == 0 {
		return nil
	}
	out := make([]*Subscription, len(r.wildcard))
	copy(out, r.wildcard)
	return out
}

// count returns the number of registrations for t, or for the wildcard
// group when t is TypeWildcard.
func (r *registry) count(t Type) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if t == TypeWildcard {
		return len(r.wildcard)
	}
	return len(r.byType[t])
}

// types returns every event type with at least one registration. The
// wildcard group is not included.
func (r *registry) types() []Type {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.byType) == 0 {
		return nil
	}
	out := make([]Type, 0, len(r.byType))
	for t := range r.byType {
		out = append(out, t)
	}
	return out
}

// clear drops all subscriptions, specific and wildcard, marking each one
// cancelled so outstanding handles observe the removal.
func (r *registry) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, sub := range r.byID {
		sub.state.Store(int32(subscriptionCancelled))
	}
	r.byType = make(map[Type][]*Subscription)
	r.wildcard = nil
	r.byID = make(map[string]*Subscription)
}
