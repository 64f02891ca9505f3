// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

/*
Package ratelimit provides the per-session traffic shaping finsight's
CLI layers on top of its local LLM runtime.

finsight picks between two algorithms by traffic shape rather than
running both behind a shared distributed backend - there is exactly
one process talking to exactly one local model runtime, so there is
nothing to coordinate across instances:

  - Token Bucket: bursty, cheap traffic. cmd/finsight uses this for
    ProcessChatQuery, since a chat question is inexpensive and users
    ask several in a row.
  - Sliding Window: steady, expensive traffic. cmd/finsight uses this
    for GenerateInsights, since a full run drives twelve agents through
    two model calls each and a session re-running it repeatedly within
    an hour is exactly the load a window is meant to smooth.

Example:

	import "github.com/privatefin/finsight/ratelimit"

	// Token bucket limiter
	limiter := ratelimit.NewTokenBucket(ratelimit.TokenBucketConfig{
	    Rate:     100,  // 100 requests per second
	    Capacity: 200,  // Allow bursts up to 200
	})

	// Check if request is allowed
	if limiter.Allow("session-123") {
	    // Process request
	}

	// Sliding window limiter
	limiter := ratelimit.NewSlidingWindow(ratelimit.SlidingWindowConfig{
	    Limit:  6,            // 6 insights runs
	    Window: time.Hour,    // per session, per hour
	})
*/
package ratelimit

import (
	"context"
	"time"
)

// Limiter defines the interface for rate limiters
type Limiter interface {
	// Allow checks if a request is allowed for the given key
	Allow(key string) bool

	// AllowN checks if N requests are allowed for the given key
	AllowN(key string, n int) bool

	// Wait blocks until a request is allowed
	Wait(ctx context.Context, key string) error

	// Reserve reserves a request and returns time until available
	Reserve(key string) time.Duration

	// Stats returns limiter statistics
	Stats() Stats

	// Reset resets the limiter for a specific key
	Reset(key string)

	// Close closes the limiter and releases resources
	Close() error
}

// Stats holds rate limiter statistics
type Stats struct {
	// Allowed is the number of allowed requests
	Allowed int64

	// Denied is the number of denied requests
	Denied int64

	// CurrentKeys is the number of active keys
	CurrentKeys int

	// TotalKeys is the total number of keys seen
	TotalKeys int64
}

// Config holds common rate limiter configuration
type Config struct {
	// CleanupInterval is how often to clean up expired entries
	CleanupInterval time.Duration

	// EnableMetrics enables metrics collection
	EnableMetrics bool

	// MaxKeys is the maximum number of keys to track (0 = unlimited)
	MaxKeys int
}

// DefaultConfig returns default rate limiter configuration
func DefaultConfig() Config {
	return Config{
		CleanupInterval: 1 * time.Minute,
		EnableMetrics:   true,
		MaxKeys:         10000,
	}
}
