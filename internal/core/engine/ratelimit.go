package engine

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/harulabs/mintgate/internal/core"
)

// Defaults for the eligibility endpoint.
const (
	DefaultMaxRequests = 5
	DefaultWindow      = 60 * time.Second
)

// FixedWindowLimiter counts requests per key in fixed windows. A window
// starts on the first request for a key and is replaced by a fresh one on the
// first request after it expires.
type FixedWindowLimiter struct {
	MaxRequests int
	Window      time.Duration
	Clock       func() time.Time

	mu      sync.Mutex
	records map[string]*core.RateLimitRecord
}

// NewFixedWindowLimiter builds a limiter. Non-positive values fall back to the
// defaults.
func NewFixedWindowLimiter(maxRequests int, window time.Duration) *FixedWindowLimiter {
	if maxRequests <= 0 {
		maxRequests = DefaultMaxRequests
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &FixedWindowLimiter{
		MaxRequests: maxRequests,
		Window:      window,
		records:     make(map[string]*core.RateLimitRecord),
	}
}

// Allow records a request for key and reports whether it may proceed.
// A denied request leaves the record untouched.
func (l *FixedWindowLimiter) Allow(key string) bool {
	if l == nil {
		return true
	}
	key = normalizeLimiterKey(key)
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.records == nil {
		l.records = make(map[string]*core.RateLimitRecord)
	}

	record, ok := l.records[key]
	if !ok {
		l.records[key] = &core.RateLimitRecord{Count: 1, WindowStart: now}
		return true
	}

	if now.Sub(record.WindowStart) > l.Window {
		record.Count = 1
		record.WindowStart = now
		return true
	}

	if record.Count >= l.MaxRequests {
		return false
	}

	record.Count++
	return true
}

// RetryAfter returns how long key must wait before its window expires, or 0
// when the next request would be allowed.
func (l *FixedWindowLimiter) RetryAfter(key string) time.Duration {
	if l == nil {
		return 0
	}
	key = normalizeLimiterKey(key)
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	record, ok := l.records[key]
	if !ok || record.Count < l.MaxRequests {
		return 0
	}
	elapsed := now.Sub(record.WindowStart)
	if elapsed > l.Window {
		return 0
	}
	return l.Window - elapsed
}

// Record returns a copy of the state held for key.
func (l *FixedWindowLimiter) Record(key string) (core.RateLimitRecord, bool) {
	if l == nil {
		return core.RateLimitRecord{}, false
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	record, ok := l.records[normalizeLimiterKey(key)]
	if !ok {
		return core.RateLimitRecord{}, false
	}
	return *record, true
}

// Len returns the number of tracked keys.
func (l *FixedWindowLimiter) Len() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// Sweep drops records whose window has expired and returns how many were
// removed. An expired record would be reset by the next Allow anyway.
func (l *FixedWindowLimiter) Sweep() int {
	if l == nil {
		return 0
	}
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, record := range l.records {
		if now.Sub(record.WindowStart) > l.Window {
			delete(l.records, key)
			removed++
		}
	}
	return removed
}

// Run sweeps expired records every interval until ctx is cancelled.
func (l *FixedWindowLimiter) Run(ctx context.Context, interval time.Duration, onSweep func(removed int)) {
	if l == nil || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := l.Sweep()
			if onSweep != nil {
				onSweep(removed)
			}
		}
	}
}

func (l *FixedWindowLimiter) now() time.Time {
	if l != nil && l.Clock != nil {
		return l.Clock()
	}
	return time.Now().UTC()
}

func normalizeLimiterKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return "unknown"
	}
	return key
}
