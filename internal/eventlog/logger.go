// Package eventlog provides the event logger: a lifecycle handler that
// filters, buffers, and optionally prints and persists the event stream.
//
// Once started the logger holds a wildcard subscription on its dispatcher
// and captures every event passing its type filters and severity threshold
// into an independent bounded buffer. Captured entries can be queried,
// aggregated, exported, and snapshotted to a pluggable key-value sink.
// Persistence is best-effort by contract: a failed snapshot write is
// recorded as a warning entry and never reaches the event producer.
package eventlog

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/dshills/spindle/internal/event"
	"github.com/dshills/spindle/internal/event/events"
	"github.com/dshills/spindle/internal/event/lifecycle"
	"github.com/dshills/spindle/internal/store"
)

// DefaultSnapshotName is the sink key used when no name option is given.
const DefaultSnapshotName = "eventlog"

// Logger captures the event stream into a bounded buffer.
type Logger struct {
	life *lifecycle.Base

	// mu guards cfg and entries. The execution model is single-threaded,
	// but queries may come from test helpers and the console adapter.
	mu      sync.Mutex
	cfg     Config
	entries []Entry

	out          zerolog.Logger
	sink         store.Store
	snapshotName string
}

// LoggerOption configures a Logger.
type LoggerOption func(*Logger)

// WithOutput sets the leveled textual output channel.
func WithOutput(out zerolog.Logger) LoggerOption {
	return func(l *Logger) {
		l.out = out
	}
}

// WithSink sets the persistence sink for snapshots.
func WithSink(s store.Store) LoggerOption {
	return func(l *Logger) {
		l.sink = s
	}
}

// WithSnapshotName sets the sink key snapshots are written under.
func WithSnapshotName(name string) LoggerOption {
	return func(l *Logger) {
		if name != "" {
			l.snapshotName = name
		}
	}
}

// New creates a logger bound to the given dispatcher. The logger does not
// capture anything until Start is called.
func New(bus *event.Dispatcher, cfg Config, opts ...LoggerOption) *Logger {
	l := &Logger{
		cfg:          cfg,
		out:          zerolog.Nop(),
		snapshotName: DefaultSnapshotName,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.life = lifecycle.New(bus, lifecycle.Wildcard(event.ListenerFunc(l.capture)))

	if l.cfg.normalize() {
		l.record(newMessageEntry(LevelWarn, "logger config adjusted to nearest valid values", nil))
	}
	return l
}

// Start installs the wildcard subscription and begins capturing.
func (l *Logger) Start() error {
	return l.life.Start()
}

// Stop removes the subscription. The buffer is retained.
func (l *Logger) Stop() {
	l.life.Stop()
}

// Destroy stops the logger and releases owned resources.
func (l *Logger) Destroy() {
	l.life.Destroy()
}

// IsActive reports whether the logger is started.
func (l *Logger) IsActive() bool {
	return l.life.IsActive()
}

// IsLogging reports whether the logger is currently capturing events.
func (l *Logger) IsLogging() bool {
	return l.life.IsActive()
}

// capture is the wildcard listener installed by Start.
func (l *Logger) capture(_ context.Context, evt event.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.cfg.accepts(evt.Type) {
		return nil
	}
	level := eventLevel(evt)
	if !l.retains(level) {
		return nil
	}

	l.append(newEventEntry(level, evt))
	if l.cfg.EnablePersistence {
		l.persistLocked()
	}
	return nil
}

// eventLevel derives the severity of an event entry from its type.
func eventLevel(evt event.Event) Level {
	switch {
	case evt.Type == events.TypeSystemError:
		return LevelError
	case strings.HasPrefix(string(evt.Type), "debug."):
		return LevelDebug
	default:
		return LevelInfo
	}
}

// retains reports whether an entry at the given level passes the threshold.
func (l *Logger) retains(level Level) bool {
	return level > LevelNone && level <= l.cfg.Level
}

// append stores an entry, evicting the oldest past capacity, and emits it
// through the output channel when enabled. Callers hold mu.
func (l *Logger) append(e Entry) {
	l.entries = append(l.entries, e)
	if len(l.entries) > l.cfg.MaxEntries {
		l.entries = l.entries[len(l.entries)-l.cfg.MaxEntries:]
	}

	if !l.cfg.EnableOutput {
		return
	}
	ev := l.out.WithLevel(e.Level.zerologLevel())
	if e.Event != nil {
		ev = ev.Str("type", string(e.Event.Type)).Str("event", e.Event.ID).Str("source", e.Event.Source)
	}
	if len(e.Context) > 0 {
		ev = ev.Interface("context", e.Context)
	}
	msg := e.Message
	if msg == "" && e.Event != nil {
		msg = "event"
	}
	ev.Msg(msg)
}

// record appends an internal entry subject to the level gate. Used for
// logger-originated diagnostics.
func (l *Logger) record(e Entry) {
	if !l.retains(e.Level) {
		return
	}
	l.append(e)
}

// persistLocked writes a best-effort snapshot of the most recent entries to
// the sink. Failures are recorded as warning entries and never propagate.
// Callers hold mu.
func (l *Logger) persistLocked() {
	if l.sink == nil {
		return
	}

	n := len(l.entries)
	if n > l.cfg.SnapshotSize {
		n = l.cfg.SnapshotSize
	}
	blob, err := json.Marshal(snapshot{
		ExportedAt: time.Now(),
		Count:      n,
		Entries:    l.entries[len(l.entries)-n:],
	})
	if err == nil {
		err = l.sink.Put(l.snapshotName, blob)
	}
	if err != nil {
		l.record(newMessageEntry(LevelWarn, "snapshot write failed: "+err.Error(), nil))
	}
}

// Log synthesizes and stores a logger-originated entry outside the event
// stream, subject to the same level gate. An out-of-range level is clamped
// and noted at warning severity.
func (l *Logger) Log(level Level, msg string, ctx map[string]any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !level.Valid() {
		l.record(newMessageEntry(LevelWarn, "log level out of range, clamping", map[string]any{"level": int(level)}))
		level = level.Clamp()
	}
	if !l.retains(level) {
		return
	}
	l.append(newMessageEntry(level, msg, ctx))
	if l.cfg.EnablePersistence {
		l.persistLocked()
	}
}

// Logs returns a snapshot of the full buffer in capture order.
func (l *Logger) Logs() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// LogsByLevel returns buffered entries at exactly the given level.
func (l *Logger) LogsByLevel(level Level) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []Entry
	for _, e := range l.entries {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

// LogsByEventType returns buffered entries that captured an event of the
// given type, in emission order.
func (l *Logger) LogsByEventType(t event.Type) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []Entry
	for _, e := range l.entries {
		if e.Event != nil && e.Event.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// LogsByTimeRange returns buffered entries captured in [start, end].
func (l *Logger) LogsByTimeRange(start, end time.Time) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []Entry
	for _, e := range l.entries {
		if e.Timestamp.Before(start) || e.Timestamp.After(end) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// ClearLogs empties the buffer and, when persistence is enabled, removes
// the persisted snapshot.
func (l *Logger) ClearLogs() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = nil
	if l.cfg.EnablePersistence && l.sink != nil {
		if err := l.sink.Remove(l.snapshotName); err != nil {
			l.record(newMessageEntry(LevelWarn, "snapshot remove failed: "+err.Error(), nil))
		}
	}
}

// snapshot is the serializable form of the buffer.
type snapshot struct {
	ExportedAt time.Time `json:"exported_at"`
	Count      int       `json:"count"`
	Entries    []Entry   `json:"entries"`
}

// Export returns a serializable snapshot of the full buffer.
func (l *Logger) Export() ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return json.Marshal(snapshot{
		ExportedAt: time.Now(),
		Count:      len(l.entries),
		Entries:    l.entries,
	})
}

// EventStats returns occurrence counts per event type over the buffer's
// current contents. Logger-originated entries are not counted.
func (l *Logger) EventStats() map[event.Type]int {
	l.mu.Lock()
	defer l.mu.Unlock()

	stats := make(map[event.Type]int)
	for _, e := range l.entries {
		if e.Event != nil {
			stats[e.Event.Type]++
		}
	}
	return stats
}

// Config returns the current configuration.
func (l *Logger) Config() Config {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cfg
}

// UpdateConfig merges a partial configuration, effective for subsequent
// events only. Out-of-range values clamp with a warning entry; setting both
// include and exclude filters notes that include takes precedence.
func (l *Logger) UpdateConfig(u ConfigUpdate) {
	l.mu.Lock()
	defer l.mu.Unlock()

	u.apply(&l.cfg)
	if l.cfg.normalize() {
		l.record(newMessageEntry(LevelWarn, "logger config adjusted to nearest valid values", nil))
	}
	if len(l.cfg.IncludeTypes) > 0 && len(l.cfg.ExcludeTypes) > 0 {
		l.record(newMessageEntry(LevelWarn, "both include and exclude filters set; include takes precedence", nil))
	}
	if len(l.entries) > l.cfg.MaxEntries {
		l.entries = l.entries[len(l.entries)-l.cfg.MaxEntries:]
	}
}

// SetLevel sets the severity threshold, clamping out-of-range values, and
// returns the applied level.
func (l *Logger) SetLevel(level Level) Level {
	applied := level.Clamp()
	l.UpdateConfig(ConfigUpdate{Level: &applied})
	if applied != level {
		l.Log(LevelWarn, "requested log level out of range, clamped", map[string]any{
			"requested": int(level),
			"applied":   int(applied),
		})
	}
	return applied
}

// Level returns the active severity threshold.
func (l *Logger) Level() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cfg.Level
}
