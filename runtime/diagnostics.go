package runtime

import (
	"sync"
	"time"

	"github.com/wippyai/js-runtime/refs"
)

const defaultDiagnosticCapacity = 256

// Diagnostic records one obsolete-reference condition: a resolve against a
// scope/index pair that no longer maps to a live slot.
type Diagnostic struct {
	Time      time.Time
	Ref       refs.Ref
	ContextID int
}

// DiagnosticQueue is a bounded queue of obsolete-reference diagnostics.
// When full, new entries are counted but dropped; resolution itself never
// blocks on the host consuming diagnostics.
type DiagnosticQueue struct {
	mu      sync.Mutex
	items   []Diagnostic
	max     int
	dropped int
}

func newDiagnosticQueue(max int) *DiagnosticQueue {
	if max <= 0 {
		max = defaultDiagnosticCapacity
	}
	return &DiagnosticQueue{max: max}
}

func (q *DiagnosticQueue) push(d Diagnostic) {
	d.Time = time.Now()
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) >= q.max {
		q.dropped++
		return
	}
	q.items = append(q.items, d)
}

// Drain returns and clears all queued diagnostics.
func (q *DiagnosticQueue) Drain() []Diagnostic {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = nil
	return out
}

// Len returns the number of queued diagnostics.
func (q *DiagnosticQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Dropped returns how many diagnostics were discarded because the queue
// was full.
func (q *DiagnosticQueue) Dropped() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}
