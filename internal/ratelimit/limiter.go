// Package ratelimit implements the fixed-window request and character
// budgets guarding the bookmark write path.
package ratelimit

import (
	"fmt"
	"sync"
	"time"
)

// Clock supplies the current time, injected so window rollover is
// testable.
type Clock interface {
	Now() time.Time
}

// Config holds the three independent ceilings. Zero values fall back to
// the service defaults.
type Config struct {
	PerMinute   int
	PerDay      int
	CharsPerDay int
}

type bucket struct {
	minuteKey   string
	minuteCount int
	dayKey      string
	dayCount    int
	dayChars    int
}

// Limiter tracks per-identity fixed-window counters. State lives only in
// this process's memory: it is created at startup, lost on restart, and
// not shared across instances. The bucket map is guarded by a single
// mutex so the check and the increment are one critical section under
// parallel requests.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	cfg     Config
	clock   Clock
}

// New creates a Limiter.
func New(cfg Config, clock Clock) *Limiter {
	if cfg.PerMinute <= 0 {
		cfg.PerMinute = 10
	}
	if cfg.PerDay <= 0 {
		cfg.PerDay = 200
	}
	if cfg.CharsPerDay <= 0 {
		cfg.CharsPerDay = 200000
	}
	return &Limiter{
		buckets: make(map[string]*bucket),
		cfg:     cfg,
		clock:   clock,
	}
}

// Allow checks and consumes rate budget for the identity given a request
// of chars characters. The first request from an identity is granted
// unconditionally. A stale minute or day key resets that window's
// counters. Ceilings are checked in order minute, day count, day chars;
// the first violated ceiling supplies the rejection reason and nothing is
// incremented. On acceptance all three counters advance.
func (l *Limiter) Allow(identity string, chars int) (bool, string) {
	now := l.clock.Now().UTC()
	minuteKey := now.Format("2006-01-02:15:04")
	dayKey := now.Format("2006-01-02")

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[identity]
	if !ok {
		l.buckets[identity] = &bucket{
			minuteKey:   minuteKey,
			minuteCount: 1,
			dayKey:      dayKey,
			dayCount:    1,
			dayChars:    chars,
		}
		return true, ""
	}

	if b.minuteKey != minuteKey {
		b.minuteKey = minuteKey
		b.minuteCount = 0
	}
	if b.dayKey != dayKey {
		b.dayKey = dayKey
		b.dayCount = 0
		b.dayChars = 0
	}

	switch {
	case b.minuteCount+1 > l.cfg.PerMinute:
		return false, fmt.Sprintf("rate limit exceeded: at most %d requests per minute", l.cfg.PerMinute)
	case b.dayCount+1 > l.cfg.PerDay:
		return false, fmt.Sprintf("rate limit exceeded: at most %d requests per day", l.cfg.PerDay)
	case b.dayChars+chars > l.cfg.CharsPerDay:
		return false, fmt.Sprintf("rate limit exceeded: at most %d characters per day", l.cfg.CharsPerDay)
	}

	b.minuteCount++
	b.dayCount++
	b.dayChars += chars
	return true, ""
}
