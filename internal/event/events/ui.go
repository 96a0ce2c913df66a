package events

import "github.com/dshills/spindle/internal/event"

// UI event types.
const (
	// TypeUIButtonPressed is emitted when the player activates a button.
	TypeUIButtonPressed event.Type = "ui.button.pressed"

	// TypeUIPanelOpened is emitted when a panel becomes visible.
	TypeUIPanelOpened event.Type = "ui.panel.opened"

	// TypeUIPanelClosed is emitted when a panel is hidden.
	TypeUIPanelClosed event.Type = "ui.panel.closed"
)

// UIButtonPressed is the payload for TypeUIButtonPressed.
type UIButtonPressed struct {
	// Button is the button identifier, e.g. "spin" or "max-bet".
	Button string
}

// UIPanelChanged is the payload for TypeUIPanelOpened and TypeUIPanelClosed.
type UIPanelChanged struct {
	// Panel is the panel identifier, e.g. "paytable" or "settings".
	Panel string
}
