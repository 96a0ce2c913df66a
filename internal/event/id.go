package event

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Event IDs must sort lexicographically by creation order across the whole
// process, including events created within the same millisecond. A single
// monotonic ULID generator guarded by a mutex gives strictly increasing IDs:
// same-millisecond ties are broken by the entropy increment.
var idGen = struct {
	sync.Mutex
	entropy *ulid.MonotonicEntropy
}{
	entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
}

// nextID returns a fresh event ID.
func nextID() string {
	idGen.Lock()
	defer idGen.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), idGen.entropy).String()
}
