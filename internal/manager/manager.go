package manager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dshills/spindle/internal/console"
	"github.com/dshills/spindle/internal/event"
	"github.com/dshills/spindle/internal/event/lifecycle"
	"github.com/dshills/spindle/internal/eventlog"
	"github.com/dshills/spindle/internal/store"
)

// Default handler registry names.
const (
	HandlerUI        = "ui"
	HandlerAnimation = "animation"
	HandlerStats     = "stats"
)

// ErrNoLogger is returned by log operations when advanced logging was not
// requested at Initialize.
var ErrNoLogger = errors.New("event logger not configured")

// Options controls what Initialize constructs.
type Options struct {
	// BusLogging enables the dispatcher's verbose diagnostic output.
	BusLogging bool

	// AdvancedLogging constructs and starts the event logger.
	AdvancedLogging bool

	// LoggerConfig configures the event logger; nil uses defaults.
	LoggerConfig *eventlog.Config

	// LogOutput is the logger's leveled output channel; nil disables output.
	LogOutput *zerolog.Logger

	// LogSink is the logger's persistence sink; nil disables persistence
	// writes even when the config enables them.
	LogSink store.Store

	// Console constructs the introspection surface. Requires
	// AdvancedLogging; ignored otherwise.
	Console bool

	// ConsoleIn and ConsoleOut are the console's reader and writer.
	// Defaults: os.Stdin and os.Stdout.
	ConsoleIn  io.Reader
	ConsoleOut io.Writer
}

// Manager is the composition root: one dispatcher, a named handler
// registry, an optional event logger, and an optional console.
type Manager struct {
	mu          sync.Mutex
	bus         *event.Dispatcher
	handlers    map[string]lifecycle.Handler
	order       []string
	logger      *eventlog.Logger
	cons        *console.Console
	log         zerolog.Logger
	initialized bool
}

// Option configures a Manager at construction.
type Option func(*Manager)

// WithDispatcher uses an existing dispatcher instead of constructing one.
func WithDispatcher(d *event.Dispatcher) Option {
	return func(m *Manager) {
		if d != nil {
			m.bus = d
		}
	}
}

// WithLog sets the manager's own diagnostic logger.
func WithLog(l zerolog.Logger) Option {
	return func(m *Manager) {
		m.log = l
	}
}

// New creates a manager in the uninitialized state.
func New(opts ...Option) *Manager {
	m := &Manager{
		handlers: make(map[string]lifecycle.Handler),
		log:      zerolog.New(os.Stderr).With().Timestamp().Str("component", "manager").Logger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.bus == nil {
		m.bus = event.NewDispatcher()
	}
	return m
}

// Initialize wires and starts the manager exactly once. A repeated call
// logs a warning and is otherwise a no-op.
func (m *Manager) Initialize(ctx context.Context, opts Options) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		m.log.Warn().Msg("manager already initialized, ignoring")
		if m.logger != nil {
			m.logger.Log(eventlog.LevelWarn, "manager already initialized, ignoring", nil)
		}
		return nil
	}

	m.bus.SetLogging(opts.BusLogging)

	if opts.AdvancedLogging {
		cfg := eventlog.DefaultConfig()
		if opts.LoggerConfig != nil {
			cfg = *opts.LoggerConfig
		}
		var logOpts []eventlog.LoggerOption
		if opts.LogOutput != nil {
			logOpts = append(logOpts, eventlog.WithOutput(*opts.LogOutput))
		}
		if opts.LogSink != nil {
			logOpts = append(logOpts, eventlog.WithSink(opts.LogSink))
		}
		m.logger = eventlog.New(m.bus, cfg, logOpts...)
		if err := m.logger.Start(); err != nil {
			return err
		}
	}

	if opts.Console && m.logger != nil {
		in := opts.ConsoleIn
		if in == nil {
			in = os.Stdin
		}
		out := opts.ConsoleOut
		if out == nil {
			out = os.Stdout
		}
		m.cons = console.New(m, in, out)
	}

	defaults := []struct {
		name string
		h    lifecycle.Handler
	}{
		{HandlerUI, NewUIHandler(m.bus)},
		{HandlerAnimation, NewAnimationHandler(m.bus)},
		{HandlerStats, NewStatsHandler(m.bus)},
	}
	for _, d := range defaults {
		if err := m.addLocked(d.name, d.h, true); err != nil {
			return err
		}
	}

	m.initialized = true
	m.log.Debug().Msg("manager initialized")
	return nil
}

// IsInitialized reports whether Initialize has completed.
func (m *Manager) IsInitialized() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.initialized
}

// addLocked registers a handler, replacing and stopping any prior handler
// under the same name. Callers hold mu.
func (m *Manager) addLocked(name string, h lifecycle.Handler, start bool) error {
	if prev, ok := m.handlers[name]; ok {
		prev.Stop()
	} else {
		m.order = append(m.order, name)
	}
	m.handlers[name] = h
	if start {
		return h.Start()
	}
	return nil
}

// AddHandler registers a handler under the given name. An existing handler
// with that name is stopped and replaced. When the manager is already
// initialized the new handler is started immediately.
func (m *Manager) AddHandler(name string, h lifecycle.Handler) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addLocked(name, h, m.initialized)
}

// RemoveHandler stops and discards the named handler.
func (m *Manager) RemoveHandler(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	h, ok := m.handlers[name]
	if !ok {
		return
	}
	h.Stop()
	delete(m.handlers, name)
	for i, n := range m.order {
		if n == name {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// Handler returns the named handler.
func (m *Manager) Handler(name string) (lifecycle.Handler, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	h, ok := m.handlers[name]
	return h, ok
}

// UI returns the default UI reaction handler, nil before Initialize.
func (m *Manager) UI() *UIHandler {
	if h, ok := m.Handler(HandlerUI); ok {
		if ui, ok := h.(*UIHandler); ok {
			return ui
		}
	}
	return nil
}

// Animation returns the default animation handler, nil before Initialize.
func (m *Manager) Animation() *AnimationHandler {
	if h, ok := m.Handler(HandlerAnimation); ok {
		if a, ok := h.(*AnimationHandler); ok {
			return a
		}
	}
	return nil
}

// Stats returns the default statistics handler, nil before Initialize.
func (m *Manager) Stats() *StatsHandler {
	if h, ok := m.Handler(HandlerStats); ok {
		if s, ok := h.(*StatsHandler); ok {
			return s
		}
	}
	return nil
}

// EventLogger returns the event logger, nil unless advanced logging was
// requested at Initialize.
func (m *Manager) EventLogger() *eventlog.Logger {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.logger
}

// Console returns the introspection console, nil unless requested.
func (m *Manager) Console() *console.Console {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cons
}

// Bus returns the owned dispatcher.
func (m *Manager) Bus() *event.Dispatcher {
	return m.bus
}

// Emit is a pass-through to the dispatcher.
func (m *Manager) Emit(ctx context.Context, evt event.Event) {
	m.bus.Emit(ctx, evt)
}

// Subscribe is a pass-through to the dispatcher.
func (m *Manager) Subscribe(t event.Type, l event.Listener) (*event.Subscription, error) {
	return m.bus.Subscribe(t, l)
}

// History is a pass-through to the dispatcher's bounded history.
func (m *Manager) History() []event.Event {
	return m.bus.History()
}

// EventStats returns occurrence counts per type, preferring the statistics
// handler and falling back to the logger's buffer.
func (m *Manager) EventStats() map[event.Type]int {
	if s := m.Stats(); s != nil {
		return s.Counts()
	}
	if l := m.EventLogger(); l != nil {
		return l.EventStats()
	}
	return map[event.Type]int{}
}

// PrintEventStats writes a formatted statistics summary to w.
func (m *Manager) PrintEventStats(w io.Writer) {
	if s := m.Stats(); s != nil {
		s.Print(w)
		return
	}
	busStats := m.bus.Stats()
	fmt.Fprintf(w, "no stats handler registered; dispatcher: emitted %d, delivered %d\n",
		busStats.Emitted, busStats.Delivered)
}

// SetDebugLogLevel sets the logger's severity threshold, clamping
// out-of-range values, and returns the applied level. Without a logger the
// request is noted at warning severity and LevelNone is returned.
func (m *Manager) SetDebugLogLevel(level int) eventlog.Level {
	l := m.EventLogger()
	if l == nil {
		m.log.Warn().Int("level", level).Msg("no event logger, log level ignored")
		return eventlog.LevelNone
	}
	return l.SetLevel(eventlog.Level(level))
}

// ExportLogs returns the logger's serialized buffer snapshot.
func (m *Manager) ExportLogs() ([]byte, error) {
	l := m.EventLogger()
	if l == nil {
		return nil, ErrNoLogger
	}
	return l.Export()
}

// ClearLogs empties the logger's buffer. A no-op without a logger.
func (m *Manager) ClearLogs() {
	if l := m.EventLogger(); l != nil {
		l.ClearLogs()
	}
}

// Destroy stops every handler, stops the logger, closes the console,
// clears the dispatcher's subscriptions and history, and resets the
// initialize guard so the manager can be initialized again.
func (m *Manager) Destroy() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := len(m.order) - 1; i >= 0; i-- {
		if h, ok := m.handlers[m.order[i]]; ok {
			h.Destroy()
		}
	}
	m.handlers = make(map[string]lifecycle.Handler)
	m.order = nil

	if m.logger != nil {
		m.logger.Destroy()
		m.logger = nil
	}
	if m.cons != nil {
		m.cons.Close()
		m.cons = nil
	}

	m.bus.Clear()
	m.bus.ClearHistory()

	m.initialized = false
	m.log.Debug().Msg("manager destroyed")
}
