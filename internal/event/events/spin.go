package events

import "github.com/dshills/spindle/internal/event"

// Spin lifecycle event types.
const (
	// TypeSpinRequested is emitted when the player requests a spin,
	// before the bet is validated.
	TypeSpinRequested event.Type = "spin.requested"

	// TypeSpinStarted is emitted once the bet is accepted and the reels
	// begin spinning.
	TypeSpinStarted event.Type = "spin.started"

	// TypeSpinReelStopped is emitted as each reel settles.
	TypeSpinReelStopped event.Type = "spin.reel.stopped"

	// TypeSpinCompleted is emitted after all reels have settled and the
	// result is evaluated.
	TypeSpinCompleted event.Type = "spin.completed"

	// TypeWinAwarded is emitted when a completed spin pays out.
	TypeWinAwarded event.Type = "win.awarded"
)

// SpinStarted is the payload for TypeSpinStarted.
type SpinStarted struct {
	// Bet is the total wager for this spin.
	Bet int64

	// Lines is the number of active pay lines.
	Lines int
}

// SpinReelStopped is the payload for TypeSpinReelStopped.
type SpinReelStopped struct {
	// Reel is the zero-based reel index.
	Reel int

	// Symbols are the symbol identifiers now visible on the reel.
	Symbols []string
}

// SpinCompleted is the payload for TypeSpinCompleted.
type SpinCompleted struct {
	// TotalWin is the total payout for the spin, zero for a loss.
	TotalWin int64

	// WinningLines are the indexes of pay lines that hit.
	WinningLines []int
}

// WinAwarded is the payload for TypeWinAwarded.
type WinAwarded struct {
	// Amount is the payout credited to the balance.
	Amount int64

	// Multiplier is the applied win multiplier, 1 when none.
	Multiplier int
}
