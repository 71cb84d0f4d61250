package server

import (
	"context"
	"sync"
	"time"
)

// attemptRecord tracks failures within a sliding window for one client.
type attemptRecord struct {
	count   int
	resetAt time.Time
}

// RateLimiter blocks clients that fail authentication repeatedly. Each
// failure increments a per-IP counter; once maxAttempts is reached within
// the window the IP is blocked until the block duration elapses. A
// successful attempt clears the counter.
//
// Thread Safety: all methods are safe for concurrent use.
type RateLimiter struct {
	mu          sync.RWMutex
	attempts    map[string]attemptRecord
	maxAttempts int
	window      time.Duration
	block       time.Duration
}

// NewRateLimiter creates a limiter allowing maxAttempts failures per
// window before blocking for the block duration.
func NewRateLimiter(maxAttempts int, window, block time.Duration) *RateLimiter {
	return &RateLimiter{
		attempts:    make(map[string]attemptRecord),
		maxAttempts: maxAttempts,
		window:      window,
		block:       block,
	}
}

// Allow reports whether the client may attempt authentication, and the
// remaining block time when it may not.
func (r *RateLimiter) Allow(ip string) (bool, time.Duration) {
	r.mu.RLock()
	record, exists := r.attempts[ip]
	r.mu.RUnlock()

	if !exists || time.Now().After(record.resetAt) {
		return true, 0
	}
	if record.count >= r.maxAttempts {
		return false, time.Until(record.resetAt)
	}
	return true, 0
}

// RecordFailure notes a failed attempt. Hitting the limit extends the
// reset time to the block duration.
func (r *RateLimiter) RecordFailure(ip string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, exists := r.attempts[ip]
	if !exists || time.Now().After(record.resetAt) {
		r.attempts[ip] = attemptRecord{count: 1, resetAt: time.Now().Add(r.window)}
		return
	}

	record.count++
	if record.count >= r.maxAttempts {
		record.resetAt = time.Now().Add(r.block)
	}
	r.attempts[ip] = record
}

// Reset clears the failure count for a client after success.
func (r *RateLimiter) Reset(ip string) {
	r.mu.Lock()
	delete(r.attempts, ip)
	r.mu.Unlock()
}

// StartCleanup prunes expired records every interval until ctx is done.
func (r *RateLimiter) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.cleanup()
			}
		}
	}()
}

func (r *RateLimiter) cleanup() {
	now := time.Now()
	r.mu.Lock()
	for ip, record := range r.attempts {
		if now.After(record.resetAt) {
			delete(r.attempts, ip)
		}
	}
	r.mu.Unlock()
}
