// Package jobs provides background job processing functionality.
package jobs

import (
	"sync"
	"time"
)

// DefaultSearchDelay is the quiet window after the last keystroke before a
// search fires.
const DefaultSearchDelay = 500 * time.Millisecond

// SearchFunc runs a debounced search. The generation number identifies the
// trigger that scheduled it; callers check Current before applying results so
// a slow response for a superseded query is discarded.
type SearchFunc func(generation uint64, query string)

// SearchDebouncer coalesces rapid search triggers into a single delayed
// execution. Each new trigger cancels the pending timer and advances the
// generation counter.
type SearchDebouncer struct {
	delay time.Duration
	fn    SearchFunc

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	stopped bool
	wg      sync.WaitGroup
}

// NewSearchDebouncer creates a debouncer that invokes fn after delay has
// elapsed without a new trigger.
func NewSearchDebouncer(delay time.Duration, fn SearchFunc) *SearchDebouncer {
	return &SearchDebouncer{
		delay: delay,
		fn:    fn,
	}
}

// Trigger schedules a search for query, superseding any pending one, and
// returns the generation assigned to it.
func (d *SearchDebouncer) Trigger(query string) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return d.gen
	}

	// A pending timer that has not fired yet is cancelled outright.
	if d.timer != nil && d.timer.Stop() {
		d.wg.Done()
	}

	d.gen++
	gen := d.gen
	d.wg.Add(1)
	d.timer = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()
		d.fn(gen, query)
	})
	return gen
}

// Current reports whether generation is still the latest trigger. Results
// carrying a stale generation must be dropped.
func (d *SearchDebouncer) Current(generation uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return generation == d.gen
}

// Stop cancels any pending search and waits for an in-flight one to finish.
// The debouncer accepts no further triggers afterwards.
func (d *SearchDebouncer) Stop() {
	d.mu.Lock()
	d.stopped = true
	if d.timer != nil && d.timer.Stop() {
		d.wg.Done()
	}
	d.mu.Unlock()

	d.wg.Wait()
}
