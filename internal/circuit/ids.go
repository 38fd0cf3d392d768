package circuit

import (
	"fmt"
	"sync/atomic"
)

// Process-wide entity id counter, used when materializing new components and
// wires. The daemon serializes requests today, but the counter is atomic so
// concurrent callers stay safe.
var idCounter atomic.Uint64

// NextID allocates a fresh entity id with the given prefix, e.g. "c17" for
// components or "w42" for wires. Ids are unique per process, not per
// snapshot.
func NextID(prefix string) string {
	return fmt.Sprintf("%s%d", prefix, idCounter.Add(1))
}
