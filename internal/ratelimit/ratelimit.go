// Package ratelimit implements a per-key sliding window log limiter.
package ratelimit

import (
	"sync"
	"time"
)

// SlidingWindow allows at most max requests per key within any window.
type SlidingWindow struct {
	mu     sync.Mutex
	max    int
	window time.Duration
	hits   map[string][]time.Time
	now    func() time.Time
}

// New creates a limiter allowing max requests per window
func New(max int, window time.Duration) *SlidingWindow {
	return &SlidingWindow{
		max:    max,
		window: window,
		hits:   make(map[string][]time.Time),
		now:    time.Now,
	}
}

// Allow records a request for key. When the limit is reached the request is
// not recorded and the time until the oldest hit leaves the window is returned.
func (l *SlidingWindow) Allow(key string) (bool, time.Duration) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	valid := prune(l.hits[key], now.Add(-l.window))
	if len(valid) >= l.max {
		l.hits[key] = valid
		return false, valid[0].Add(l.window).Sub(now)
	}

	l.hits[key] = append(valid, now)
	return true, 0
}

// Remaining returns how many requests key may still make in the current window
func (l *SlidingWindow) Remaining(key string) int {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	left := l.max - len(prune(l.hits[key], now.Add(-l.window)))
	if left < 0 {
		return 0
	}
	return left
}

// Limit returns the configured maximum per window
func (l *SlidingWindow) Limit() int {
	return l.max
}

// Sweep drops keys with no hits inside the window and returns how many were removed
func (l *SlidingWindow) Sweep() int {
	cutoff := l.now().Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, hits := range l.hits {
		valid := prune(hits, cutoff)
		if len(valid) == 0 {
			delete(l.hits, key)
			removed++
			continue
		}
		l.hits[key] = valid
	}
	return removed
}

// prune keeps the hits strictly after cutoff. Hits are stored in order.
func prune(hits []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(hits) && !hits[i].After(cutoff) {
		i++
	}
	if i == 0 {
		return hits
	}
	return append([]time.Time(nil), hits[i:]...)
}
