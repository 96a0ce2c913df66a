// Package console provides the interactive introspection surface: a thin
// text-command adapter over the manager's query and control operations. It
// carries no state of its own beyond the reader/writer it is wired to.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/dshills/spindle/internal/event"
	"github.com/dshills/spindle/internal/eventlog"
)

// Controller is the subset of manager operations the console drives.
type Controller interface {
	Emit(ctx context.Context, evt event.Event)
	PrintEventStats(w io.Writer)
	SetDebugLogLevel(level int) eventlog.Level
	ExportLogs() ([]byte, error)
	ClearLogs()
	History() []event.Event
}

// Console reads text commands and maps them 1:1 onto controller calls.
type Console struct {
	ctrl   Controller
	in     io.Reader
	out    io.Writer
	closed atomic.Bool
	done   chan struct{}
}

// New creates a console bound to the controller and the given streams.
func New(ctrl Controller, in io.Reader, out io.Writer) *Console {
	return &Console{
		ctrl: ctrl,
		in:   in,
		out:  out,
		done: make(chan struct{}),
	}
}

// Close stops a running Run loop. Idempotent.
func (c *Console) Close() {
	if c.closed.CompareAndSwap(false, true) {
		close(c.done)
	}
}

// Run reads commands line by line until EOF, Close, or context
// cancellation.
func (c *Console) Run(ctx context.Context) error {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-c.done:
				return
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()

	fmt.Fprint(c.out, "> ")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.done:
			return nil
		case err := <-errc:
			return err
		case line := <-lines:
			reply, exit := c.Execute(ctx, line)
			if reply != "" {
				fmt.Fprintln(c.out, reply)
			}
			if exit {
				c.Close()
				return nil
			}
			fmt.Fprint(c.out, "> ")
		}
	}
}

// Execute runs a single command and returns its textual reply. The second
// return value reports that the console should exit.
func (c *Console) Execute(ctx context.Context, line string) (string, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", false
	}

	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "help":
		return helpText, false

	case "stats":
		var sb strings.Builder
		c.ctrl.PrintEventStats(&sb)
		return strings.TrimRight(sb.String(), "\n"), false

	case "clear":
		c.ctrl.ClearLogs()
		return "logs cleared", false

	case "level":
		if len(args) != 1 {
			return "usage: level <0-5>", false
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return "usage: level <0-5>", false
		}
		applied := c.ctrl.SetDebugLogLevel(n)
		return fmt.Sprintf("log level set to %s", applied), false

	case "emit":
		if len(args) != 1 {
			return "usage: emit <type>", false
		}
		t := event.Type(args[0])
		if !t.Valid() {
			return fmt.Sprintf("invalid event type %q", args[0]), false
		}
		evt := event.NewEvent(t, nil, "console")
		c.ctrl.Emit(ctx, evt)
		return fmt.Sprintf("emitted %s (%s)", t, evt.ID), false

	case "export":
		blob, err := c.ctrl.ExportLogs()
		if err != nil {
			return fmt.Sprintf("export failed: %v", err), false
		}
		return string(blob), false

	case "history":
		return formatHistory(c.ctrl.History()), false

	case "quit", "exit":
		return "bye", true

	default:
		return fmt.Sprintf("unknown command %q (try \"help\")", cmd), false
	}
}

func formatHistory(events []event.Event) string {
	if len(events) == 0 {
		return "history empty"
	}
	var sb strings.Builder
	for _, evt := range events {
		fmt.Fprintf(&sb, "%s  %-28s %s\n", evt.Timestamp.Format("15:04:05.000"), evt.Type, evt.Source)
	}
	return strings.TrimRight(sb.String(), "\n")
}

const helpText = `commands:
  stats        print event statistics
  clear        clear the log buffer
  level <n>    set the debug log level (0=none .. 5=verbose)
  emit <type>  emit an event of the given type
  export       export the log buffer as JSON
  history      show the dispatcher's event history
  help         show this help
  quit         exit the console`
