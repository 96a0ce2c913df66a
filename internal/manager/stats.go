package manager

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/dshills/spindle/internal/event"
	"github.com/dshills/spindle/internal/event/events"
	"github.com/dshills/spindle/internal/event/lifecycle"
)

// StatsSnapshot is a point-in-time view of the statistics handler.
type StatsSnapshot struct {
	Total    uint64
	Errors   uint64
	ByType   map[event.Type]uint64
	BySource map[string]uint64
	FirstAt  time.Time
	LastAt   time.Time
}

// StatsHandler is the statistics/debug handler: a wildcard subscriber that
// counts event traffic by type and source.
type StatsHandler struct {
	life *lifecycle.Base

	mu       sync.Mutex
	total    uint64
	errors   uint64
	byType   map[event.Type]uint64
	bySource map[string]uint64
	firstAt  time.Time
	lastAt   time.Time
}

// NewStatsHandler creates a statistics handler bound to the dispatcher.
func NewStatsHandler(bus *event.Dispatcher) *StatsHandler {
	h := &StatsHandler{
		byType:   make(map[event.Type]uint64),
		bySource: make(map[string]uint64),
	}
	h.life = lifecycle.New(bus, lifecycle.Wildcard(event.ListenerFunc(h.observe)))
	return h
}

// Start implements lifecycle.Handler.
func (h *StatsHandler) Start() error { return h.life.Start() }

// Stop implements lifecycle.Handler.
func (h *StatsHandler) Stop() { h.life.Stop() }

// Destroy implements lifecycle.Handler.
func (h *StatsHandler) Destroy() { h.life.Destroy() }

// IsActive implements lifecycle.Handler.
func (h *StatsHandler) IsActive() bool { return h.life.IsActive() }

func (h *StatsHandler) observe(_ context.Context, evt event.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.total++
	h.byType[evt.Type]++
	if evt.Source != "" {
		h.bySource[evt.Source]++
	}
	if evt.Type == events.TypeSystemError {
		h.errors++
	}
	if h.firstAt.IsZero() {
		h.firstAt = evt.Timestamp
	}
	h.lastAt = evt.Timestamp
	return nil
}

// Snapshot returns a copy of the current counters.
func (h *StatsHandler) Snapshot() StatsSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()

	byType := make(map[event.Type]uint64, len(h.byType))
	for t, n := range h.byType {
		byType[t] = n
	}
	bySource := make(map[string]uint64, len(h.bySource))
	for s, n := range h.bySource {
		bySource[s] = n
	}
	return StatsSnapshot{
		Total:    h.total,
		Errors:   h.errors,
		ByType:   byType,
		BySource: bySource,
		FirstAt:  h.firstAt,
		LastAt:   h.lastAt,
	}
}

// Counts returns occurrence counts per event type.
func (h *StatsHandler) Counts() map[event.Type]int {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make(map[event.Type]int, len(h.byType))
	for t, n := range h.byType {
		out[t] = int(n)
	}
	return out
}

// Reset zeroes all counters.
func (h *StatsHandler) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.total = 0
	h.errors = 0
	h.byType = make(map[event.Type]uint64)
	h.bySource = make(map[string]uint64)
	h.firstAt = time.Time{}
	h.lastAt = time.Time{}
}

// Print writes a formatted summary of the counters to w.
func (h *StatsHandler) Print(w io.Writer) {
	snap := h.Snapshot()

	fmt.Fprintf(w, "events: %d  errors: %d\n", snap.Total, snap.Errors)
	if !snap.FirstAt.IsZero() {
		fmt.Fprintf(w, "window: %s .. %s\n",
			snap.FirstAt.Format(time.RFC3339), snap.LastAt.Format(time.RFC3339))
	}

	types := make([]event.Type, 0, len(snap.ByType))
	for t := range snap.ByType {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	for _, t := range types {
		fmt.Fprintf(w, "  %-28s %d\n", t, snap.ByType[t])
	}

	sources := make([]string, 0, len(snap.BySource))
	for s := range snap.BySource {
		sources = append(sources, s)
	}
	sort.Strings(sources)
	for _, s := range sources {
		fmt.Fprintf(w, "  source %-21s %d\n", s, snap.BySource[s])
	}
}
