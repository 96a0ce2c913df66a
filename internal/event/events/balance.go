package events

import "github.com/dshills/spindle/internal/event"

// Balance event types.
const (
	// TypeBalanceChanged is emitted whenever the player balance moves.
	TypeBalanceChanged event.Type = "balance.changed"

	// TypeBetChanged is emitted when the player adjusts the bet.
	TypeBetChanged event.Type = "bet.changed"
)

// BalanceChanged is the payload for TypeBalanceChanged.
type BalanceChanged struct {
	// Previous is the balance before the change.
	Previous int64

	// Current is the balance after the change.
	Current int64

	// Reason describes what moved the balance, e.g. "bet" or "win".
	Reason string
}

// BetChanged is the payload for TypeBetChanged.
type BetChanged struct {
	// Previous is the bet before the change.
	Previous int64

	// Current is the bet after the change.
	Current int64
}
