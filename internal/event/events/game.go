package events

import "github.com/dshills/spindle/internal/event"

// Game lifecycle event types.
const (
	// TypeGameInitialized is emitted once the game scene is wired and ready.
	TypeGameInitialized event.Type = "game.initialized"

	// TypeGameDestroyed is emitted when the game scene is torn down.
	TypeGameDestroyed event.Type = "game.destroyed"

	// TypeGamePaused is emitted when the game loop is suspended.
	TypeGamePaused event.Type = "game.paused"

	// TypeGameResumed is emitted when the game loop resumes.
	TypeGameResumed event.Type = "game.resumed"
)

// GameInitialized is the payload for TypeGameInitialized.
type GameInitialized struct {
	// Version is the application version string.
	Version string

	// AssetCount is the number of loaded assets.
	AssetCount int
}
