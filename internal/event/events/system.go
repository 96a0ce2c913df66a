package events

import "github.com/dshills/spindle/internal/event"

// Debug and system event types.
const (
	// TypeDebugCommand is emitted when a debug command is executed.
	TypeDebugCommand event.Type = "debug.command"

	// TypeDebugLogLevelChanged is emitted when the debug log level moves.
	TypeDebugLogLevelChanged event.Type = "debug.loglevel.changed"

	// TypeSystemError is emitted by any collaborator reporting a fault.
	TypeSystemError event.Type = "system.error"
)

// DebugCommand is the payload for TypeDebugCommand.
type DebugCommand struct {
	// Command is the raw command line.
	Command string
}

// SystemError is the payload for TypeSystemError.
type SystemError struct {
	// Component names the collaborator that failed.
	Component string

	// Message describes the failure.
	Message string
}
