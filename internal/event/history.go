package event

// historyBuffer is a bounded FIFO of recently emitted events. The oldest
// entry is evicted on overflow. It is owned exclusively by the dispatcher.
type historyBuffer struct {
	entries []Event
	head    int
	size    int
}

func newHistoryBuffer(capacity int) *historyBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &historyBuffer{entries: make([]Event, capacity)}
}

// append adds an event, evicting the oldest if the buffer is full.
func (h *historyBuffer) append(evt Event) {
	if h.size < len(h.entries) {
		h.entries[(h.head+h.size)%len(h.entries)] = evt
		h.size++
		return
	}
	h.entries[h.head] = evt
	h.head = (h.head + 1) % len(h.entries)
}

// snapshot returns the buffered events in emission order, oldest first.
func (h *historyBuffer) snapshot() []Event {
	if h.size == 0 {
		return nil
	}
	out := make([]Event, h.size)
	for i := 0; i < h.size; i++ {
		out[i] = h.entries[(h.head+i)%len(h.entries)]
	}
	return out
}

// clear empties the buffer.
func (h *historyBuffer) clear() {
	h.head = 0
	h.size = 0
}

// len returns the number of buffered events.
func (h *historyBuffer) len() int {
	return h.size
}
