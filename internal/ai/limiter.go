package ai

import (
	"errors"
	"sync"
	"time"
)

// ErrRateLimited is returned by Responder.Respond when the call budget is spent.
var ErrRateLimited = errors.New("chat rate limited")

// Limiter enforces global and per-conversation limits on provider calls.
type Limiter struct {
	mu        sync.Mutex
	perMinute []time.Time
	perHour   []time.Time
	maxMinute int
	maxHour   int
	cooldown  time.Duration
	lastByKey map[string]time.Time
}

// DefaultLimiter allows 6 calls a minute, 30 an hour and one every 5s per
// conversation.
func DefaultLimiter() *Limiter {
	return NewLimiter(6, 30, 5*time.Second)
}

func NewLimiter(perMinute, perHour int, cooldown time.Duration) *Limiter {
	return &Limiter{
		maxMinute: perMinute,
		maxHour:   perHour,
		cooldown:  cooldown,
		lastByKey: make(map[string]time.Time),
	}
}

// Allow reports whether a call for key may be made at now.
func (l *Limiter) Allow(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.allow(key, now)
}

// AllowAndRecord reserves a call for key at now when the budget allows it.
func (l *Limiter) AllowAndRecord(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.allow(key, now) {
		return false
	}
	l.record(key, now)
	return true
}

func (l *Limiter) allow(key string, now time.Time) bool {
	if last, ok := l.lastByKey[key]; ok && now.Sub(last) < l.cooldown {
		return false
	}

	l.perMinute = within(l.perMinute, now.Add(-time.Minute))
	l.perHour = within(l.perHour, now.Add(-time.Hour))

	return len(l.perMinute) < l.maxMinute && len(l.perHour) < l.maxHour
}

// Record notes a call for key made at now.
func (l *Limiter) Record(key string, now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record(key, now)
}

func (l *Limiter) record(key string, now time.Time) {
	l.perMinute = append(l.perMinute, now)
	l.perHour = append(l.perHour, now)
	l.lastByKey[key] = now
}

func within(ts []time.Time, cut time.Time) []time.Time {
	out := ts[:0]
	for _, t := range ts {
		if t.After(cut) {
			out = append(out, t)
		}
	}
	return out
}
