package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/dshills/spindle/internal/event"
	"github.com/dshills/spindle/internal/eventlog"
)

// stubController records controller calls and returns canned replies.
type stubController struct {
	emitted    []event.Event
	cleared    int
	levelSet   []int
	exportBlob []byte
	exportErr  error
	history    []event.Event
}

func (s *stubController) Emit(_ context.Context, evt event.Event) {
	s.emitted = append(s.emitted, evt)
}

func (s *stubController) PrintEventStats(w io.Writer) {
	fmt.Fprintln(w, "events: 2  errors: 0")
}

func (s *stubController) SetDebugLogLevel(level int) eventlog.Level {
	s.levelSet = append(s.levelSet, level)
	return eventlog.Level(level).Clamp()
}

func (s *stubController) ExportLogs() ([]byte, error) { return s.exportBlob, s.exportErr }
func (s *stubController) ClearLogs()                  { s.cleared++ }
func (s *stubController) History() []event.Event      { return s.history }

func newTestConsole(ctrl Controller) *Console {
	return New(ctrl, strings.NewReader(""), io.Discard)
}

func TestExecute_Help(t *testing.T) {
	c := newTestConsole(&stubController{})

	reply, exit := c.Execute(context.Background(), "help")
	if exit {
		t.Error("help requested exit")
	}
	for _, cmd := range []string{"stats", "clear", "level", "emit", "export", "history", "quit"} {
		if !strings.Contains(reply, cmd) {
			t.Errorf("help text missing %q", cmd)
		}
	}
}

func TestExecute_Stats(t *testing.T) {
	c := newTestConsole(&stubController{})

	reply, _ := c.Execute(context.Background(), "stats")
	if reply != "events: 2  errors: 0" {
		t.Errorf("stats reply = %q", reply)
	}
}

func TestExecute_Clear(t *testing.T) {
	ctrl := &stubController{}
	c := newTestConsole(ctrl)

	reply, _ := c.Execute(context.Background(), "clear")
	if ctrl.cleared != 1 {
		t.Errorf("ClearLogs called %d times, want 1", ctrl.cleared)
	}
	if reply != "logs cleared" {
		t.Errorf("clear reply = %q", reply)
	}
}

func TestExecute_Level(t *testing.T) {
	ctrl := &stubController{}
	c := newTestConsole(ctrl)
	ctx := context.Background()

	reply, _ := c.Execute(ctx, "level 4")
	if len(ctrl.levelSet) != 1 || ctrl.levelSet[0] != 4 {
		t.Errorf("SetDebugLogLevel calls = %v, want [4]", ctrl.levelSet)
	}
	if !strings.Contains(reply, "DEBUG") {
		t.Errorf("level reply = %q, want the applied level name", reply)
	}

	for _, bad := range []string{"level", "level x", "level 1 2"} {
		reply, _ = c.Execute(ctx, bad)
		if !strings.HasPrefix(reply, "usage:") {
			t.Errorf("Execute(%q) = %q, want usage reply", bad, reply)
		}
	}
	if len(ctrl.levelSet) != 1 {
		t.Errorf("malformed input reached the controller: %v", ctrl.levelSet)
	}
}

func TestExecute_Emit(t *testing.T) {
	ctrl := &stubController{}
	c := newTestConsole(ctrl)
	ctx := context.Background()

	reply, _ := c.Execute(ctx, "emit spin.requested")
	if len(ctrl.emitted) != 1 {
		t.Fatalf("emitted %d events, want 1", len(ctrl.emitted))
	}
	evt := ctrl.emitted[0]
	if evt.Type != "spin.requested" || evt.Source != "console" {
		t.Errorf("emitted event = %+v", evt)
	}
	if !strings.Contains(reply, evt.ID) {
		t.Errorf("emit reply %q missing the event ID", reply)
	}

	reply, _ = c.Execute(ctx, "emit")
	if !strings.HasPrefix(reply, "usage:") {
		t.Errorf("bare emit reply = %q, want usage", reply)
	}
}

func TestExecute_ExportAndFailure(t *testing.T) {
	ctrl := &stubController{exportBlob: []byte(`{"count":0}`)}
	c := newTestConsole(ctrl)
	ctx := context.Background()

	reply, _ := c.Execute(ctx, "export")
	if reply != `{"count":0}` {
		t.Errorf("export reply = %q", reply)
	}

	ctrl.exportErr = errors.New("no logger")
	reply, _ = c.Execute(ctx, "export")
	if !strings.Contains(reply, "export failed") {
		t.Errorf("failing export reply = %q", reply)
	}
}

func TestExecute_History(t *testing.T) {
	ctrl := &stubController{}
	c := newTestConsole(ctrl)
	ctx := context.Background()

	reply, _ := c.Execute(ctx, "history")
	if reply != "history empty" {
		t.Errorf("empty history reply = %q", reply)
	}

	ctrl.history = []event.Event{
		event.NewEvent("spin.started", nil, "game"),
		event.NewEvent("spin.completed", nil, "game"),
	}
	reply, _ = c.Execute(ctx, "history")
	if !strings.Contains(reply, "spin.started") || !strings.Contains(reply, "spin.completed") {
		t.Errorf("history reply missing entries:\n%s", reply)
	}
}

func TestExecute_QuitAndUnknown(t *testing.T) {
	c := newTestConsole(&stubController{})
	ctx := context.Background()

	for _, cmd := range []string{"quit", "exit"} {
		if _, exit := c.Execute(ctx, cmd); !exit {
			t.Errorf("Execute(%q) did not request exit", cmd)
		}
	}

	reply, exit := c.Execute(ctx, "bogus")
	if exit {
		t.Error("unknown command requested exit")
	}
	if !strings.Contains(reply, "unknown command") {
		t.Errorf("unknown command reply = %q", reply)
	}

	if reply, _ := c.Execute(ctx, "   "); reply != "" {
		t.Errorf("blank line reply = %q, want empty", reply)
	}
}

func TestRun_ExecutesUntilQuit(t *testing.T) {
	ctrl := &stubController{}
	var out strings.Builder
	c := New(ctrl, strings.NewReader("emit spin.requested\nquit\n"), &out)

	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if len(ctrl.emitted) != 1 {
		t.Errorf("emitted %d events, want 1", len(ctrl.emitted))
	}
	if !strings.Contains(out.String(), "bye") {
		t.Errorf("output missing quit reply:\n%s", out.String())
	}
}

func TestRun_StopsOnEOF(t *testing.T) {
	c := New(&stubController{}, strings.NewReader(""), io.Discard)

	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run() on EOF failed: %v", err)
	}
}

func TestRun_StopsOnClose(t *testing.T) {
	// A reader that never produces input keeps Run blocked until Close.
	pr, pw := io.Pipe()
	defer pw.Close()
	c := New(&stubController{}, pr, io.Discard)

	done := make(chan error, 1)
	go func() { done <- c.Run(context.Background()) }()

	c.Close()
	c.Close() // idempotent

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() after Close failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after Close")
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	c := New(&stubController{}, pr, io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run() after cancel: err = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after context cancel")
	}
}
