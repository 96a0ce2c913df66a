package manager

import (
	"context"
	"sync"

	"github.com/dshills/spindle/internal/event"
	"github.com/dshills/spindle/internal/event/events"
	"github.com/dshills/spindle/internal/event/lifecycle"
)

// UIState is the last-known display state derived from the event stream.
type UIState struct {
	Balance  int64
	Bet      int64
	LastWin  int64
	Spinning bool
	Panels   []string
}

// UIHandler reacts to balance, bet, spin, and panel events, maintaining
// the display state UI collaborators read.
type UIHandler struct {
	life *lifecycle.Base

	mu       sync.Mutex
	balance  int64
	bet      int64
	lastWin  int64
	spinning bool
	panels   map[string]bool
}

// NewUIHandler creates a UI reaction handler bound to the dispatcher.
func NewUIHandler(bus *event.Dispatcher) *UIHandler {
	h := &UIHandler{panels: make(map[string]bool)}
	h.life = lifecycle.New(bus, lifecycle.Reactions(
		lifecycle.Reaction{Type: events.TypeBalanceChanged, Fn: h.onBalance},
		lifecycle.Reaction{Type: events.TypeBetChanged, Fn: h.onBet},
		lifecycle.Reaction{Type: events.TypeSpinStarted, Fn: h.onSpinStarted},
		lifecycle.Reaction{Type: events.TypeSpinCompleted, Fn: h.onSpinCompleted},
		lifecycle.Reaction{Type: events.TypeWinAwarded, Fn: h.onWin},
		lifecycle.Reaction{Type: events.TypeUIPanelOpened, Fn: h.onPanelOpened},
		lifecycle.Reaction{Type: events.TypeUIPanelClosed, Fn: h.onPanelClosed},
	))
	return h
}

// Start implements lifecycle.Handler.
func (h *UIHandler) Start() error { return h.life.Start() }

// Stop implements lifecycle.Handler.
func (h *UIHandler) Stop() { h.life.Stop() }

// Destroy implements lifecycle.Handler.
func (h *UIHandler) Destroy() { h.life.Destroy() }

// IsActive implements lifecycle.Handler.
func (h *UIHandler) IsActive() bool { return h.life.IsActive() }

// State returns a copy of the current display state.
func (h *UIHandler) State() UIState {
	h.mu.Lock()
	defer h.mu.Unlock()

	panels := make([]string, 0, len(h.panels))
	for p := range h.panels {
		panels = append(panels, p)
	}
	return UIState{
		Balance:  h.balance,
		Bet:      h.bet,
		LastWin:  h.lastWin,
		Spinning: h.spinning,
		Panels:   panels,
	}
}

func (h *UIHandler) onBalance(_ context.Context, evt event.Event) error {
	p, ok := evt.Data.(events.BalanceChanged)
	if !ok {
		return nil
	}
	h.mu.Lock()
	h.balance = p.Current
	h.mu.Unlock()
	return nil
}

func (h *UIHandler) onBet(_ context.Context, evt event.Event) error {
	p, ok := evt.Data.(events.BetChanged)
	if !ok {
		return nil
	}
	h.mu.Lock()
	h.bet = p.Current
	h.mu.Unlock()
	return nil
}

func (h *UIHandler) onSpinStarted(_ context.Context, _ event.Event) error {
	h.mu.Lock()
	h.spinning = true
	h.mu.Unlock()
	return nil
}

func (h *UIHandler) onSpinCompleted(_ context.Context, evt event.Event) error {
	h.mu.Lock()
	h.spinning = false
	if p, ok := evt.Data.(events.SpinCompleted); ok {
		h.lastWin = p.TotalWin
	}
	h.mu.Unlock()
	return nil
}

func (h *UIHandler) onWin(_ context.Context, evt event.Event) error {
	p, ok := evt.Data.(events.WinAwarded)
	if !ok {
		return nil
	}
	h.mu.Lock()
	h.lastWin = p.Amount
	h.mu.Unlock()
	return nil
}

func (h *UIHandler) onPanelOpened(_ context.Context, evt event.Event) error {
	p, ok := evt.Data.(events.UIPanelChanged)
	if !ok {
		return nil
	}
	h.mu.Lock()
	h.panels[p.Panel] = true
	h.mu.Unlock()
	return nil
}

func (h *UIHandler) onPanelClosed(_ context.Context, evt event.Event) error {
	p, ok := evt.Data.(events.UIPanelChanged)
	if !ok {
		return nil
	}
	h.mu.Lock()
	delete(h.panels, p.Panel)
	h.mu.Unlock()
	return nil
}
