// Package security holds the process-scoped mutable state the request layer
// needs: the failed-login throttle and the demo-user session store. Both are
// created at process start and injected into handlers, never reached as
// package globals, so tests can run isolated instances.
package security

import (
	"sync"
	"time"
)

type throttleEntry struct {
	attempts    int
	windowStart time.Time
	lockedUntil time.Time
}

// Throttle counts failures per key (typically a client IP) inside a rolling
// window and locks the key out once the limit is hit. Entries expire on
// access and through Sweep.
type Throttle struct {
	mu      sync.Mutex
	entries map[string]*throttleEntry

	MaxAttempts int
	Window      time.Duration
	Lockout     time.Duration
}

func NewThrottle(maxAttempts int, window, lockout time.Duration) *Throttle {
	return &Throttle{
		entries:     make(map[string]*throttleEntry),
		MaxAttempts: maxAttempts,
		Window:      window,
		Lockout:     lockout,
	}
}

// Allow reports whether the key may attempt right now.
func (t *Throttle) Allow(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[key]
	if !ok {
		return true
	}
	now := time.Now()
	if !e.lockedUntil.IsZero() && now.Before(e.lockedUntil) {
		return false
	}
	if t.expired(e, now) {
		delete(t.entries, key)
		return true
	}
	return true
}

// Fail records a failed attempt; hitting MaxAttempts locks the key for the
// lockout duration.
func (t *Throttle) Fail(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := time.Now()
	e, ok := t.entries[key]
	if !ok || t.expired(e, now) {
		e = &throttleEntry{windowStart: now}
		t.entries[key] = e
	}
	e.attempts++
	if e.attempts >= t.MaxAttempts {
		e.lockedUntil = now.Add(t.Lockout)
	}
}

// Reset clears the key after a successful attempt.
func (t *Throttle) Reset(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, key)
}

// Sweep drops every expired entry. Run it periodically so abandoned keys do
// not accumulate.
func (t *Throttle) Sweep() {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := time.Now()
	for k, e := range t.entries {
		if t.expired(e, now) {
			delete(t.entries, k)
		}
	}
}

// SweepLoop runs Sweep on a ticker until stop closes.
func (t *Throttle) SweepLoop(interval time.Duration, stop <-chan struct{}) {
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for {
		select {
		case <-tick.C:
			t.Sweep()
		case <-stop:
			return
		}
	}
}

func (t *Throttle) expired(e *throttleEntry, now time.Time) bool {
	if !e.lockedUntil.IsZero() {
		return now.After(e.lockedUntil)
	}
	return now.Sub(e.windowStart) > t.Window
}
