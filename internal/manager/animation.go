package manager

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dshills/spindle/internal/event"
	"github.com/dshills/spindle/internal/event/events"
	"github.com/dshills/spindle/internal/event/lifecycle"
)

// AnimationHandler reacts to the spin lifecycle, tracking which animations
// are currently running. Animation playback itself belongs to an external
// collaborator; this handler only mirrors the stream into queryable state.
type AnimationHandler struct {
	life *lifecycle.Base

	mu     sync.Mutex
	active map[string]time.Time
}

// NewAnimationHandler creates an animation reaction handler bound to the
// dispatcher.
func NewAnimationHandler(bus *event.Dispatcher) *AnimationHandler {
	h := &AnimationHandler{active: make(map[string]time.Time)}
	h.life = lifecycle.New(bus, lifecycle.Reactions(
		lifecycle.Reaction{Type: events.TypeSpinStarted, Fn: h.onSpinStarted},
		lifecycle.Reaction{Type: events.TypeSpinReelStopped, Fn: h.onReelStopped},
		lifecycle.Reaction{Type: events.TypeSpinCompleted, Fn: h.onSpinCompleted},
		lifecycle.Reaction{Type: events.TypeWinAwarded, Fn: h.onWin},
	))
	return h
}

// Start implements lifecycle.Handler.
func (h *AnimationHandler) Start() error { return h.life.Start() }

// Stop implements lifecycle.Handler.
func (h *AnimationHandler) Stop() { h.life.Stop() }

// Destroy implements lifecycle.Handler.
func (h *AnimationHandler) Destroy() { h.life.Destroy() }

// IsActive implements lifecycle.Handler.
func (h *AnimationHandler) IsActive() bool { return h.life.IsActive() }

// Active returns the names of currently running animations, sorted.
func (h *AnimationHandler) Active() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]string, 0, len(h.active))
	for name := range h.active {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// StartedAt returns when the named animation started, if it is running.
func (h *AnimationHandler) StartedAt(name string) (time.Time, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	at, ok := h.active[name]
	return at, ok
}

func (h *AnimationHandler) onSpinStarted(_ context.Context, evt event.Event) error {
	h.mu.Lock()
	h.active["reel-spin"] = evt.Timestamp
	delete(h.active, "win-celebration")
	h.mu.Unlock()
	return nil
}

func (h *AnimationHandler) onReelStopped(_ context.Context, evt event.Event) error {
	p, ok := evt.Data.(events.SpinReelStopped)
	if !ok {
		return nil
	}
	h.mu.Lock()
	h.active[fmt.Sprintf("reel-settle-%d", p.Reel)] = evt.Timestamp
	h.mu.Unlock()
	return nil
}

func (h *AnimationHandler) onSpinCompleted(_ context.Context, _ event.Event) error {
	h.mu.Lock()
	for name := range h.active {
		delete(h.active, name)
	}
	h.mu.Unlock()
	return nil
}

func (h *AnimationHandler) onWin(_ context.Context, evt event.Event) error {
	h.mu.Lock()
	h.active["win-celebration"] = evt.Timestamp
	h.mu.Unlock()
	return nil
}
