package engine

import (
	"sync/atomic"
	"time"
)

// Clock reads the current time. Durations are measured as differences between
// two readings, so implementations must be monotonic.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now, which carries a monotonic reading.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// sequence numbers entries in discovery order.
//
// Numbers are assigned when a test is discovered, not when it finishes, so
// sorting by sequence restores discovery order whatever the completion order.
type sequence struct {
	seq atomic.Int64
}

// next returns the next sequence number, starting at 1.
func (s *sequence) next() int64 {
	return s.seq.Add(1)
}
