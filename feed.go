package main

import (
	"sync"
	"time"
)

// changeFeed keeps the most recent guess-counter transitions, oldest
// first. It is fed by a listener subscribed to the game state and read
// by the changes handler, so it takes its own lock.
type changeFeed struct {
	mu      sync.Mutex
	limit   int
	changes []GuessChange
}

func newChangeFeed(limit int) *changeFeed {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	return &changeFeed{limit: limit}
}

// record appends a transition, dropping the oldest entries beyond the
// feed limit.
func (f *changeFeed) record(old, new int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.changes = append(f.changes, GuessChange{Old: old, New: new, At: time.Now().UTC()})
	if len(f.changes) > f.limit {
		f.changes = f.changes[len(f.changes)-f.limit:]
	}
}

// snapshot returns a copy of the recorded transitions.
func (f *changeFeed) snapshot() []GuessChange {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]GuessChange, len(f.changes))
	copy(out, f.changes)
	return out
}

// reset drops all recorded transitions. Used when a new game starts.
func (f *changeFeed) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.changes = nil
}
