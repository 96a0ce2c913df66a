package eventlog

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/dshills/spindle/internal/event"
	"github.com/dshills/spindle/internal/event/events"
	"github.com/dshills/spindle/internal/store"
)

func newTestLogger(t *testing.T, cfg Config, opts ...LoggerOption) (*event.Dispatcher, *Logger) {
	t.Helper()

	bus := event.NewDispatcher(event.WithLogger(zerolog.Nop()))
	l := New(bus, cfg, opts...)
	if err := l.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	t.Cleanup(l.Destroy)
	return bus, l
}

func TestLogger_CapturesEventsInOrder(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Level = LevelInfo
	bus, l := newTestLogger(t, cfg)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		bus.Emit(ctx, event.NewEvent("x", i, "test"))
	}

	entries := l.LogsByEventType("x")
	if len(entries) != 3 {
		t.Fatalf("LogsByEventType returned %d entries, want 3", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Event.ID <= entries[i-1].Event.ID {
			t.Error("entries are not in emission order")
		}
	}
}

func TestLogger_IncludeWinsOverExclude(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IncludeTypes = []event.Type{"a"}
	cfg.ExcludeTypes = []event.Type{"a", "b"}
	bus, l := newTestLogger(t, cfg)
	ctx := context.Background()

	bus.Emit(ctx, event.NewEvent("a", nil, "test"))
	bus.Emit(ctx, event.NewEvent("b", nil, "test"))
	bus.Emit(ctx, event.NewEvent("c", nil, "test"))

	if got := len(l.LogsByEventType("a")); got != 1 {
		t.Errorf("type a entries = %d, want 1", got)
	}
	if got := len(l.LogsByEventType("b")) + len(l.LogsByEventType("c")); got != 0 {
		t.Errorf("types outside include retained %d entries, want 0", got)
	}
}

func TestLogger_ExcludeAppliesWhenIncludeEmpty(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ExcludeTypes = []event.Type{"b"}
	bus, l := newTestLogger(t, cfg)
	ctx := context.Background()

	bus.Emit(ctx, event.NewEvent("a", nil, "test"))
	bus.Emit(ctx, event.NewEvent("b", nil, "test"))
	bus.Emit(ctx, event.NewEvent("c", nil, "test"))

	if got := len(l.LogsByEventType("a")); got != 1 {
		t.Errorf("type a entries = %d, want 1", got)
	}
	if got := len(l.LogsByEventType("b")); got != 0 {
		t.Errorf("excluded type retained %d entries, want 0", got)
	}
	if got := len(l.LogsByEventType("c")); got != 1 {
		t.Errorf("type c entries = %d, want 1", got)
	}
}

func TestLogger_LevelThreshold(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Level = LevelError
	bus, l := newTestLogger(t, cfg)
	ctx := context.Background()

	// Routine events derive INFO and fall above the ERROR threshold.
	bus.Emit(ctx, event.NewEvent("spin.started", nil, "test"))
	// System errors derive ERROR and are retained.
	bus.Emit(ctx, event.NewEvent(events.TypeSystemError, nil, "test"))

	entries := l.Logs()
	if len(entries) != 1 {
		t.Fatalf("retained %d entries, want 1", len(entries))
	}
	if entries[0].Level != LevelError {
		t.Errorf("entry level = %s, want ERROR", entries[0].Level)
	}
}

func TestLogger_LevelNoneRetainsNothing(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Level = LevelNone
	bus, l := newTestLogger(t, cfg)
	ctx := context.Background()

	bus.Emit(ctx, event.NewEvent(events.TypeSystemError, nil, "test"))
	l.Log(LevelError, "direct", nil)

	if got := len(l.Logs()); got != 0 {
		t.Errorf("retained %d entries at level NONE, want 0", got)
	}
}

func TestLogger_Log(t *testing.T) {
	_, l := newTestLogger(t, DefaultConfig())

	l.Log(LevelInfo, "hello", map[string]any{"k": "v"})
	l.Log(LevelDebug, "dropped", nil) // above INFO threshold

	entries := l.Logs()
	if len(entries) != 1 {
		t.Fatalf("retained %d entries, want 1", len(entries))
	}
	if entries[0].Message != "hello" || entries[0].Event != nil {
		t.Errorf("unexpected entry: %+v", entries[0])
	}
}

func TestLogger_Log_OutOfRangeClamps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Level = LevelVerbose
	_, l := newTestLogger(t, cfg)

	l.Log(Level(42), "too deep", nil)

	warned := false
	clamped := false
	for _, e := range l.Logs() {
		if e.Level == LevelWarn && strings.Contains(e.Message, "clamping") {
			warned = true
		}
		if e.Level == LevelVerbose && e.Message == "too deep" {
			clamped = true
		}
	}
	if !warned {
		t.Error("expected a warning entry for the out-of-range level")
	}
	if !clamped {
		t.Error("expected the entry to be retained at the clamped level")
	}
}

func TestLogger_MaxEntriesEviction(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxEntries = 3
	bus, l := newTestLogger(t, cfg)
	ctx := context.Background()

	for _, typ := range []event.Type{"a", "b", "c", "d"} {
		bus.Emit(ctx, event.NewEvent(typ, nil, "test"))
	}

	entries := l.Logs()
	if len(entries) != 3 {
		t.Fatalf("buffer size = %d, want 3", len(entries))
	}
	if entries[0].Event.Type != "b" {
		t.Errorf("oldest retained entry = %s, want b", entries[0].Event.Type)
	}
}

func TestLogger_UpdateConfig_NotRetroactive(t *testing.T) {
	bus, l := newTestLogger(t, DefaultConfig())
	ctx := context.Background()

	bus.Emit(ctx, event.NewEvent("a", nil, "test"))

	none := LevelNone
	l.UpdateConfig(ConfigUpdate{Level: &none})
	bus.Emit(ctx, event.NewEvent("a", nil, "test"))

	if got := len(l.LogsByEventType("a")); got != 1 {
		t.Errorf("entries = %d, want 1 (update applies to subsequent events only)", got)
	}
}

func TestLogger_UpdateConfig_ConflictingFiltersWarn(t *testing.T) {
	_, l := newTestLogger(t, DefaultConfig())

	l.UpdateConfig(ConfigUpdate{
		IncludeTypes: []event.Type{"a"},
		ExcludeTypes: []event.Type{"a"},
	})

	found := false
	for _, e := range l.LogsByLevel(LevelWarn) {
		if strings.Contains(e.Message, "include takes precedence") {
			found = true
		}
	}
	if !found {
		t.Error("expected a warning entry about conflicting filters")
	}
}

func TestLogger_UpdateConfig_ShrinkTrimsOldest(t *testing.T) {
	bus, l := newTestLogger(t, DefaultConfig())
	ctx := context.Background()

	for _, typ := range []event.Type{"a", "b", "c"} {
		bus.Emit(ctx, event.NewEvent(typ, nil, "test"))
	}

	two := 2
	l.UpdateConfig(ConfigUpdate{MaxEntries: &two})

	entries := l.Logs()
	if len(entries) != 2 {
		t.Fatalf("buffer size = %d, want 2", len(entries))
	}
	if entries[0].Event.Type != "b" {
		t.Errorf("oldest retained entry = %s, want b", entries[0].Event.Type)
	}
}

func TestLogger_SetLevel_Clamps(t *testing.T) {
	_, l := newTestLogger(t, DefaultConfig())

	if applied := l.SetLevel(Level(99)); applied != LevelVerbose {
		t.Errorf("SetLevel(99) = %s, want VERBOSE", applied)
	}
	if applied := l.SetLevel(Level(-3)); applied != LevelNone {
		t.Errorf("SetLevel(-3) = %s, want NONE", applied)
	}
	if applied := l.SetLevel(LevelDebug); applied != LevelDebug {
		t.Errorf("SetLevel(DEBUG) = %s, want DEBUG", applied)
	}
}

func TestLogger_LogsByTimeRange(t *testing.T) {
	bus, l := newTestLogger(t, DefaultConfig())
	ctx := context.Background()

	bus.Emit(ctx, event.NewEvent("a", nil, "test"))
	entries := l.Logs()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	at := entries[0].Timestamp

	in := l.LogsByTimeRange(at.Add(-time.Second), at.Add(time.Second))
	if len(in) != 1 {
		t.Errorf("in-range query = %d entries, want 1", len(in))
	}
	out := l.LogsByTimeRange(at.Add(time.Second), at.Add(2*time.Second))
	if len(out) != 0 {
		t.Errorf("out-of-range query = %d entries, want 0", len(out))
	}
}

func TestLogger_EventStats(t *testing.T) {
	bus, l := newTestLogger(t, DefaultConfig())
	ctx := context.Background()

	bus.Emit(ctx, event.NewEvent("a", nil, "test"))
	bus.Emit(ctx, event.NewEvent("a", nil, "test"))
	bus.Emit(ctx, event.NewEvent("b", nil, "test"))
	l.Log(LevelInfo, "not an event", nil)

	stats := l.EventStats()
	if stats["a"] != 2 || stats["b"] != 1 {
		t.Errorf("EventStats = %v, want a:2 b:1", stats)
	}
	if len(stats) != 2 {
		t.Errorf("EventStats counted %d types, want 2", len(stats))
	}
}

func TestLogger_Export(t *testing.T) {
	bus, l := newTestLogger(t, DefaultConfig())
	ctx := context.Background()

	bus.Emit(ctx, event.NewEvent("a", map[string]string{"k": "v"}, "test"))

	blob, err := l.Export()
	if err != nil {
		t.Fatalf("Export() failed: %v", err)
	}

	var snap struct {
		Count   int     `json:"count"`
		Entries []Entry `json:"entries"`
	}
	if err := json.Unmarshal(blob, &snap); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if snap.Count != 1 || len(snap.Entries) != 1 {
		t.Errorf("export count = %d entries = %d, want 1/1", snap.Count, len(snap.Entries))
	}
}

func TestLogger_Persistence_WritesSnapshot(t *testing.T) {
	sink := store.NewMemoryStore()
	cfg := DefaultConfig()
	cfg.EnablePersistence = true
	cfg.SnapshotSize = 2
	bus, _ := newTestLogger(t, cfg, WithSink(sink))
	ctx := context.Background()

	bus.Emit(ctx, event.NewEvent("a", nil, "test"))
	bus.Emit(ctx, event.NewEvent("b", nil, "test"))
	bus.Emit(ctx, event.NewEvent("c", nil, "test"))

	blob, err := sink.Get(DefaultSnapshotName)
	if err != nil {
		t.Fatalf("expected persisted snapshot: %v", err)
	}
	var snap struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(blob, &snap); err != nil {
		t.Fatalf("snapshot is not valid JSON: %v", err)
	}
	if snap.Count != 2 {
		t.Errorf("snapshot count = %d, want 2 (most recent K)", snap.Count)
	}
}

func TestLogger_ClearLogs_RemovesSnapshot(t *testing.T) {
	sink := store.NewMemoryStore()
	cfg := DefaultConfig()
	cfg.EnablePersistence = true
	bus, l := newTestLogger(t, cfg, WithSink(sink))
	ctx := context.Background()

	bus.Emit(ctx, event.NewEvent("a", nil, "test"))
	l.ClearLogs()

	if got := len(l.Logs()); got != 0 {
		t.Errorf("buffer size after clear = %d, want 0", got)
	}
	if _, err := sink.Get(DefaultSnapshotName); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected snapshot removed, got err=%v", err)
	}
}

// failingStore rejects every operation.
type failingStore struct{}

func (failingStore) Put(string, []byte) error   { return errors.New("disk on fire") }
func (failingStore) Get(string) ([]byte, error) { return nil, errors.New("disk on fire") }
func (failingStore) Remove(string) error        { return errors.New("disk on fire") }
func (failingStore) Close() error               { return nil }

func TestLogger_PersistenceFailureIsolated(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnablePersistence = true
	bus, l := newTestLogger(t, cfg, WithSink(failingStore{}))
	ctx := context.Background()

	bus.Emit(ctx, event.NewEvent("a", nil, "test")) // must not panic or raise

	if got := len(l.LogsByEventType("a")); got != 1 {
		t.Errorf("in-memory capture stopped on persistence failure: entries = %d, want 1", got)
	}
	warned := false
	for _, e := range l.LogsByLevel(LevelWarn) {
		if strings.Contains(e.Message, "snapshot write failed") {
			warned = true
		}
	}
	if !warned {
		t.Error("expected a warning entry for the failed snapshot write")
	}
}

func TestLogger_StartStop(t *testing.T) {
	bus := event.NewDispatcher(event.WithLogger(zerolog.Nop()))
	l := New(bus, DefaultConfig())
	ctx := context.Background()

	if l.IsLogging() {
		t.Error("expected logger inactive before Start")
	}

	bus.Emit(ctx, event.NewEvent("a", nil, "test")) // before start, not captured
	if err := l.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	bus.Emit(ctx, event.NewEvent("a", nil, "test"))
	l.Stop()
	bus.Emit(ctx, event.NewEvent("a", nil, "test")) // after stop, not captured

	if got := len(l.LogsByEventType("a")); got != 1 {
		t.Errorf("captured %d entries, want 1 (only while started)", got)
	}
	if l.IsLogging() {
		t.Error("expected logger inactive after Stop")
	}
}

func TestLogger_OutputDoesNotBlockCapture(t *testing.T) {
	var sb strings.Builder
	cfg := DefaultConfig()
	cfg.EnableOutput = true
	out := zerolog.New(&sb)
	bus, l := newTestLogger(t, cfg, WithOutput(out))
	ctx := context.Background()

	bus.Emit(ctx, event.NewEvent("a", nil, "test"))

	if got := len(l.Logs()); got != 1 {
		t.Fatalf("captured %d entries, want 1", got)
	}
	if !strings.Contains(sb.String(), `"type":"a"`) {
		t.Errorf("output channel missing event type: %s", sb.String())
	}
}
