// Package events defines the event type vocabulary and typed payloads for
// the Spindle dispatcher.
//
// Each event kind has a type constant and, where producers carry structured
// data, a payload struct. Payloads are owned by the producing collaborators
// and treated as opaque by the dispatcher. Events are grouped by source
// module:
//
//   - Game events: application lifecycle
//   - Spin events: spin request/start/stop/completion lifecycle
//   - Balance events: balance and bet changes, win awards
//   - UI events: button presses, panel visibility
//   - Debug events: debug commands, log level changes
//   - System events: error reports from any collaborator
//
// # Usage
//
//	evt := event.NewEvent(events.TypeSpinStarted,
//	    events.SpinStarted{Bet: 50, Lines: 20},
//	    "game",
//	)
//	bus.Emit(ctx, evt)
//
// # Type Naming Convention
//
// Types follow hierarchical dot notation: "spin.started", "balance.changed",
// "ui.button.pressed". Matching in the dispatcher is exact; the hierarchy is
// a naming convention only.
package events
