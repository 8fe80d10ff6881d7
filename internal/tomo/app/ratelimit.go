package app

import (
	"sync"
	"time"
)

const (
	// DefaultFloodLimit is the maximum number of messages accepted per
	// sender per minute when no explicit limit is configured.
	DefaultFloodLimit = 20

	// defaultFloodWindow is the sliding window duration.
	defaultFloodWindow = time.Minute
)

// FloodLimiter enforces a per-sender sliding-window message limit.
//
// Internally it holds the message timestamps for each sender within the
// current window and prunes stale entries on every Allow call.  This keeps
// memory bounded to O(limit) entries per active sender.
//
// FloodLimiter is safe for concurrent use from multiple goroutines.
type FloodLimiter struct {
	mu       sync.Mutex
	limit    int
	window   time.Duration
	counters map[string][]time.Time // senderID → message timestamps in window
}

// NewFloodLimiter returns a FloodLimiter that allows at most limit messages
// per sender within window.
//
// If limit ≤ 0 it defaults to DefaultFloodLimit.
// If window ≤ 0 it defaults to one minute.
func NewFloodLimiter(limit int, window time.Duration) *FloodLimiter {
	if limit <= 0 {
		limit = DefaultFloodLimit
	}
	if window <= 0 {
		window = defaultFloodWindow
	}
	return &FloodLimiter{
		limit:    limit,
		window:   window,
		counters: make(map[string][]time.Time),
	}
}

// Allow returns true when the sender is permitted to send another message
// and records the current timestamp.  Returns false when the sender has
// exhausted their quota for the current window.
func (r *FloodLimiter) Allow(senderID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-r.window)

	// Prune timestamps that have fallen outside the window.
	existing := r.counters[senderID]
	valid := existing[:0] // reuse backing array
	for _, t := range existing {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}

	if len(valid) >= r.limit {
		r.counters[senderID] = valid
		return false
	}

	r.counters[senderID] = append(valid, now)
	return true
}
