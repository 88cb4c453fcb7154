// Package usage keeps running token totals for a model service.
package usage

import (
	"sync"

	"github.com/germanamz/modelservice/pkg/providers/model"
)

// Snapshot is a point-in-time copy of a Tracker.
type Snapshot struct {
	Last  model.Usage // Usage of the most recent call.
	Total model.Usage
	Calls int
}

// Tracker accumulates token usage across completion calls in constant
// memory. It is safe for concurrent use; the zero value is ready.
type Tracker struct {
	mu    sync.Mutex
	last  model.Usage
	total model.Usage
	count int
}

// Add records the usage of one call.
func (t *Tracker) Add(u model.Usage) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.last = u
	t.total = t.total.Add(u)
	t.count++
}

// Last returns the most recent usage entry.
// The bool is false when nothing has been recorded.
func (t *Tracker) Last() (model.Usage, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.last, t.count > 0
}

// Total returns the aggregate usage across all calls.
func (t *Tracker) Total() model.Usage {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.total
}

// Count returns the number of recorded calls.
func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.count
}

// Snapshot returns last, total and count read under one lock.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	return Snapshot{Last: t.last, Total: t.total, Calls: t.count}
}

// Reset clears all recorded usage.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.last = model.Usage{}
	t.total = model.Usage{}
	t.count = 0
}
