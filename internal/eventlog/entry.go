package eventlog

import (
	"time"

	"github.com/goccy/go-json"

	"github.com/dshills/spindle/internal/event"
)

// Entry is one captured record in the logger's buffer. Entries are value
// objects and never mutated after creation.
type Entry struct {
	// Timestamp is when the entry was captured.
	Timestamp time.Time `json:"timestamp"`

	// Level is the entry severity.
	Level Level `json:"level"`

	// Event is the originating event, nil for logger-originated entries.
	Event *event.Event `json:"event,omitempty"`

	// Message is optional free text.
	Message string `json:"message,omitempty"`

	// Context carries derived diagnostics such as payload size and event age.
	Context map[string]any `json:"context,omitempty"`
}

// newEventEntry captures an event with derived context.
func newEventEntry(level Level, evt event.Event) Entry {
	now := time.Now()
	ctx := map[string]any{
		"event_age": now.Sub(evt.Timestamp).String(),
	}
	if evt.Data != nil {
		ctx["payload_bytes"] = payloadSize(evt.Data)
	}
	return Entry{
		Timestamp: now,
		Level:     level,
		Event:     &evt,
		Context:   ctx,
	}
}

// newMessageEntry captures a logger-originated message outside the event
// stream.
func newMessageEntry(level Level, msg string, ctx map[string]any) Entry {
	return Entry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   msg,
		Context:   ctx,
	}
}

// payloadSize estimates the serialized size of a payload. Payloads that
// cannot be serialized estimate to zero.
func payloadSize(data any) int {
	b, err := json.Marshal(data)
	if err != nil {
		return 0
	}
	return len(b)
}
