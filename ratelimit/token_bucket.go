// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// TokenBucketConfig sizes the chat-side limiter.
type TokenBucketConfig struct {
	// Rate is how many tokens a session's bucket regains per second -
	// its sustainable questions-per-second.
	Rate float64

	// Capacity is the bucket's ceiling: how many questions a session
	// may fire in one burst after sitting idle.
	Capacity int

	// Config holds the bookkeeping knobs shared by both limiters.
	Config
}

// DefaultTokenBucketConfig allows a chat question every two seconds
// sustained, with bursts of five - a user pasting a few follow-ups at
// once is fine, a loop hammering the runtime is not.
func DefaultTokenBucketConfig() TokenBucketConfig {
	return TokenBucketConfig{
		Rate:     0.5,
		Capacity: 5,
		Config:   DefaultConfig(),
	}
}

// TokenBucket is the chat-side limiter: one continuously refilling
// bucket per session, so bursts of cheap questions pass while a
// sustained flood is held to the configured rate. cmd/finsight wires
// one in front of ProcessChatQuery, keyed by session ID.
type TokenBucket struct {
	config   TokenBucketConfig
	sessions sync.Map // session key -> *chatBucket
	stats    Stats
	done     chan struct{}
}

// chatBucket is one session's token balance. Refill happens lazily on
// access - there is no background ticker per session.
type chatBucket struct {
	mu        sync.Mutex
	available float64
	refilled  time.Time
}

// refill credits the time elapsed since the last access, capped at
// capacity. Callers hold b.mu.
func (b *chatBucket) refill(now time.Time, rate float64, capacity int) {
	b.available += now.Sub(b.refilled).Seconds() * rate
	if b.available > float64(capacity) {
		b.available = float64(capacity)
	}
	b.refilled = now
}

// NewTokenBucket creates a chat limiter. A non-positive Rate falls
// back to DefaultTokenBucketConfig.
func NewTokenBucket(config TokenBucketConfig) *TokenBucket {
	if config.Rate <= 0 {
		config = DefaultTokenBucketConfig()
	}

	tb := &TokenBucket{
		config: config,
		done:   make(chan struct{}),
	}
	if config.CleanupInterval > 0 {
		go tb.dropIdleSessions()
	}
	return tb
}

// Allow reports whether the session may ask one more question now.
func (tb *TokenBucket) Allow(key string) bool {
	return tb.AllowN(key, 1)
}

// AllowN reports whether the session has n tokens to spend now,
// spending them if so.
func (tb *TokenBucket) AllowN(key string, n int) bool {
	if n <= 0 {
		return true
	}

	b := tb.session(key)
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill(time.Now(), tb.config.Rate, tb.config.Capacity)

	if b.available < float64(n) {
		tb.count(&tb.stats.Denied, 1)
		return false
	}
	b.available -= float64(n)
	tb.count(&tb.stats.Allowed, 1)
	return true
}

// Wait blocks until the session has a token or ctx gives up, polling
// at the bucket's own refill cadence.
func (tb *TokenBucket) Wait(ctx context.Context, key string) error {
	retryEvery := time.Duration(1000.0/tb.config.Rate) * time.Millisecond

	for {
		if tb.Allow(key) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryEvery):
		}
	}
}

// Reserve takes a token if one is available, or reports how long the
// session must wait for the bucket to refill one.
func (tb *TokenBucket) Reserve(key string) time.Duration {
	b := tb.session(key)
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill(time.Now(), tb.config.Rate, tb.config.Capacity)

	if b.available >= 1 {
		b.available--
		return 0
	}

	shortfall := 1.0 - b.available
	return time.Duration(shortfall / tb.config.Rate * float64(time.Second))
}

// Stats reports what the limiter has allowed and denied so far.
func (tb *TokenBucket) Stats() Stats {
	stats := Stats{
		Allowed: atomic.LoadInt64(&tb.stats.Allowed),
		Denied:  atomic.LoadInt64(&tb.stats.Denied),
	}
	tb.sessions.Range(func(_, _ interface{}) bool {
		stats.CurrentKeys++
		return true
	})
	return stats
}

// Reset forgets a session's bucket; its next question starts from a
// full burst allowance.
func (tb *TokenBucket) Reset(key string) {
	tb.sessions.Delete(key)
}

// Close stops the idle-session sweeper.
func (tb *TokenBucket) Close() error {
	close(tb.done)
	return nil
}

// session returns the bucket for key, creating it full - a session's
// first question always passes.
func (tb *TokenBucket) session(key string) *chatBucket {
	if v, ok := tb.sessions.Load(key); ok {
		return v.(*chatBucket)
	}

	b := &chatBucket{
		available: float64(tb.config.Capacity),
		refilled:  time.Now(),
	}
	actual, _ := tb.sessions.LoadOrStore(key, b)
	return actual.(*chatBucket)
}

func (tb *TokenBucket) count(counter *int64, n int64) {
	if tb.config.EnableMetrics {
		atomic.AddInt64(counter, n)
	}
}

// dropIdleSessions periodically forgets buckets for sessions that
// have gone quiet, so a long-lived process doesn't accumulate a
// bucket per CLI session ever started.
func (tb *TokenBucket) dropIdleSessions() {
	ticker := time.NewTicker(tb.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-tb.done:
			return
		case <-ticker.C:
			tb.sweepIdle(time.Now())
		}
	}
}

// sweepIdle removes every bucket untouched for two cleanup intervals.
func (tb *TokenBucket) sweepIdle(now time.Time) {
	idleFor := tb.config.CleanupInterval * 2

	var idle []string
	tb.sessions.Range(func(key, value interface{}) bool {
		b := value.(*chatBucket)
		b.mu.Lock()
		if now.Sub(b.refilled) > idleFor {
			idle = append(idle, key.(string))
		}
		b.mu.Unlock()
		return true
	})

	for _, key := range idle {
		tb.sessions.Delete(key)
	}
}
