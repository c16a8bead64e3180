// Package dedup guards every user-triggered action against re-delivery of
// the same transport event and against two actions from one user running
// at the same time. All state is process-local and lost on restart.
package dedup

import "sync"

// Verdict is the admission decision for one delivery
type Verdict int

const (
	// Accepted means the delivery is new and the user is free; the caller
	// must call Release when done.
	Accepted Verdict = iota
	// Duplicate means this delivery ID was already admitted; drop silently.
	Duplicate
	// Busy means the user already has an action in flight; drop silently.
	Busy
)

// DefaultCapacity bounds the recently-seen delivery ID set. Eviction is
// FIFO: the defense targets near-simultaneous re-delivery, so approximate
// recency is enough.
const DefaultCapacity = 100

// Admitter decides at-most-once processing per delivery ID plus per-user
// mutual exclusion.
type Admitter struct {
	mu       sync.Mutex
	seen     map[string]struct{}
	order    []string
	next     int
	capacity int
	busy     map[int64]bool
}

// NewAdmitter creates an Admitter retaining the given number of recent
// delivery IDs; capacity <= 0 uses DefaultCapacity.
func NewAdmitter(capacity int) *Admitter {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Admitter{
		seen:     make(map[string]struct{}, capacity),
		order:    make([]string, capacity),
		capacity: capacity,
		busy:     make(map[int64]bool),
	}
}

// Admit decides whether to process a delivery. On Accepted the delivery ID
// is recorded and the user is marked busy until Release.
func (a *Admitter) Admit(deliveryID string, userID int64) Verdict {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.seen[deliveryID]; ok {
		return Duplicate
	}
	if a.busy[userID] {
		return Busy
	}

	if evicted := a.order[a.next]; evicted != "" {
		delete(a.seen, evicted)
	}
	a.order[a.next] = deliveryID
	a.next = (a.next + 1) % a.capacity
	a.seen[deliveryID] = struct{}{}

	a.busy[userID] = true
	return Accepted
}

// Release clears the user's busy flag. It must run on every exit path of
// an admitted action; callers defer it immediately after admission.
func (a *Admitter) Release(userID int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.busy, userID)
}
