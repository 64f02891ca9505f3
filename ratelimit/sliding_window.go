// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// SlidingWindowConfig sizes the insights-side limiter.
type SlidingWindowConfig struct {
	// Limit is how many runs a session may start inside any trailing
	// Window.
	Limit int

	// Window is the trailing span the limit applies to.
	Window time.Duration

	// Config holds the bookkeeping knobs shared by both limiters.
	Config
}

// DefaultSlidingWindowConfig allows six runs per trailing hour,
// matching the llm.insights_per_hour default: a full insights run
// drives every agent through two model calls, so re-running it more
// often than that is load the window is meant to flatten, not a burst
// to tolerate.
func DefaultSlidingWindowConfig() SlidingWindowConfig {
	return SlidingWindowConfig{
		Limit:  6,
		Window: time.Hour,
		Config: DefaultConfig(),
	}
}

// SlidingWindow is the insights-side limiter: it remembers when each
// session last started the expensive operation and admits a new one
// only while the trailing window holds fewer than the limit. Unlike
// the chat bucket there is no burst allowance - six runs
// back-to-back exhaust the hour exactly as six spread across it do.
// cmd/finsight wires one in front of GenerateInsights, keyed by
// session ID.
type SlidingWindow struct {
	config   SlidingWindowConfig
	sessions sync.Map // session key -> *runLog
	stats    Stats
	done     chan struct{}
}

// runLog is one session's recent start times, oldest first.
type runLog struct {
	mu     sync.Mutex
	starts []time.Time
}

// prune drops starts that have slid out of the window. Callers hold
// l.mu.
func (l *runLog) prune(cutoff time.Time) {
	kept := l.starts[:0]
	for _, s := range l.starts {
		if s.After(cutoff) {
			kept = append(kept, s)
		}
	}
	l.starts = kept
}

// NewSlidingWindow creates an insights limiter. A non-positive Limit
// falls back to DefaultSlidingWindowConfig.
func NewSlidingWindow(config SlidingWindowConfig) *SlidingWindow {
	if config.Limit <= 0 {
		config = DefaultSlidingWindowConfig()
	}

	sw := &SlidingWindow{
		config: config,
		done:   make(chan struct{}),
	}
	if config.CleanupInterval > 0 {
		go sw.dropIdleSessions()
	}
	return sw
}

// Allow reports whether the session may start one more run now.
func (sw *SlidingWindow) Allow(key string) bool {
	return sw.AllowN(key, 1)
}

// AllowN reports whether the session may start n more runs now,
// recording them if so.
func (sw *SlidingWindow) AllowN(key string, n int) bool {
	if n <= 0 {
		return true
	}

	l := sw.session(key)
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	l.prune(now.Add(-sw.config.Window))

	if len(l.starts)+n > sw.config.Limit {
		sw.count(&sw.stats.Denied, int64(n))
		return false
	}
	for i := 0; i < n; i++ {
		l.starts = append(l.starts, now)
	}
	sw.count(&sw.stats.Allowed, int64(n))
	return true
}

// Wait blocks until the session may start a run or ctx gives up. The
// poll interval is the window spread evenly across the limit, floored
// so a tight window doesn't spin.
func (sw *SlidingWindow) Wait(ctx context.Context, key string) error {
	retryEvery := sw.config.Window / time.Duration(sw.config.Limit)
	if retryEvery < 10*time.Millisecond {
		retryEvery = 10 * time.Millisecond
	}

	for {
		if sw.Allow(key) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryEvery):
		}
	}
}

// Reserve records a run if the window has room, or reports how long
// until the oldest recorded run slides out and frees a slot.
func (sw *SlidingWindow) Reserve(key string) time.Duration {
	l := sw.session(key)
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	l.prune(now.Add(-sw.config.Window))

	if len(l.starts) < sw.config.Limit {
		l.starts = append(l.starts, now)
		return 0
	}

	return time.Until(l.starts[0].Add(sw.config.Window))
}

// Stats reports what the limiter has allowed and denied so far.
func (sw *SlidingWindow) Stats() Stats {
	stats := Stats{
		Allowed: atomic.LoadInt64(&sw.stats.Allowed),
		Denied:  atomic.LoadInt64(&sw.stats.Denied),
	}
	sw.sessions.Range(func(_, _ interface{}) bool {
		stats.CurrentKeys++
		return true
	})
	return stats
}

// Reset forgets a session's run history; its next run starts a fresh
// window.
func (sw *SlidingWindow) Reset(key string) {
	sw.sessions.Delete(key)
}

// Close stops the idle-session sweeper.
func (sw *SlidingWindow) Close() error {
	close(sw.done)
	return nil
}

// session returns the run log for key, creating an empty one.
func (sw *SlidingWindow) session(key string) *runLog {
	if v, ok := sw.sessions.Load(key); ok {
		return v.(*runLog)
	}

	actual, _ := sw.sessions.LoadOrStore(key, &runLog{})
	return actual.(*runLog)
}

func (sw *SlidingWindow) count(counter *int64, n int64) {
	if sw.config.EnableMetrics {
		atomic.AddInt64(counter, n)
	}
}

// dropIdleSessions periodically forgets run logs whose every entry
// has slid well past the window.
func (sw *SlidingWindow) dropIdleSessions() {
	ticker := time.NewTicker(sw.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-sw.done:
			return
		case <-ticker.C:
			sw.sweepIdle(time.Now())
		}
	}
}

// sweepIdle removes sessions with no start inside twice the window.
func (sw *SlidingWindow) sweepIdle(now time.Time) {
	cutoff := now.Add(-2 * sw.config.Window)

	var idle []string
	sw.sessions.Range(func(key, value interface{}) bool {
		l := value.(*runLog)
		l.mu.Lock()
		stale := len(l.starts) > 0
		for _, s := range l.starts {
			if s.After(cutoff) {
				stale = false
				break
			}
		}
		l.mu.Unlock()
		if stale {
			idle = append(idle, key.(string))
		}
		return true
	})

	for _, key := range idle {
		sw.sessions.Delete(key)
	}
}
