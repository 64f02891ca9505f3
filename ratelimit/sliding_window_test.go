// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package ratelimit

import (
	"context"
	"testing"
	"time"
)

// insightsLimiter builds a window with no background sweeper, so
// tests control every timing themselves.
func insightsLimiter(limit int, window time.Duration) *SlidingWindow {
	return NewSlidingWindow(SlidingWindowConfig{
		Limit:  limit,
		Window: window,
		Config: Config{EnableMetrics: true},
	})
}

func TestSlidingWindow_AdmitsUpToLimitPerWindow(t *testing.T) {
	sw := insightsLimiter(3, time.Hour)
	defer sw.Close()

	for i := 0; i < 3; i++ {
		if !sw.Allow("session-1") {
			t.Fatalf("run %d should be admitted within the hourly budget", i+1)
		}
	}
	if sw.Allow("session-1") {
		t.Fatal("a fourth run inside the window should be denied")
	}
}

func TestSlidingWindow_NoBurstAllowanceAfterIdling(t *testing.T) {
	// Unlike the chat bucket, idling does not bank extra runs: the
	// budget is the window's count, full stop.
	sw := insightsLimiter(2, 50*time.Millisecond)
	defer sw.Close()

	sw.Allow("session-1")
	sw.Allow("session-1")
	if sw.Allow("session-1") {
		t.Fatal("window should be full")
	}

	time.Sleep(80 * time.Millisecond)

	// The old runs slid out; exactly the limit is available again.
	if !sw.Allow("session-1") || !sw.Allow("session-1") {
		t.Fatal("expired runs should have freed the whole budget")
	}
	if sw.Allow("session-1") {
		t.Fatal("no more than the limit, even after idling")
	}
}

func TestSlidingWindow_SessionsAreIndependent(t *testing.T) {
	sw := insightsLimiter(1, time.Hour)
	defer sw.Close()

	if !sw.Allow("session-1") {
		t.Fatal("session-1's run should be admitted")
	}
	if !sw.Allow("session-2") {
		t.Fatal("session-2 has its own budget")
	}
	if sw.Allow("session-1") {
		t.Fatal("session-1's budget is spent")
	}
}

func TestSlidingWindow_AllowNAtomicBatch(t *testing.T) {
	sw := insightsLimiter(3, time.Hour)
	defer sw.Close()

	if !sw.AllowN("session-1", 3) {
		t.Fatal("a batch equal to the whole budget should pass")
	}
	if sw.AllowN("session-1", 1) {
		t.Fatal("budget is spent")
	}
	if !sw.AllowN("session-1", 0) {
		t.Fatal("a zero-cost check must always pass")
	}
}

func TestSlidingWindow_WaitBlocksUntilSlotFrees(t *testing.T) {
	sw := insightsLimiter(1, 30*time.Millisecond)
	defer sw.Close()

	sw.Allow("session-1")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := sw.Wait(ctx, "session-1"); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
}

func TestSlidingWindow_WaitHonorsCancellation(t *testing.T) {
	sw := insightsLimiter(1, time.Hour)
	defer sw.Close()

	sw.Allow("session-1")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := sw.Wait(ctx, "session-1"); err == nil {
		t.Fatal("Wait should give up when the context does")
	}
}

func TestSlidingWindow_ReserveReportsTimeUntilOldestExpires(t *testing.T) {
	sw := insightsLimiter(1, time.Hour)
	defer sw.Close()

	if d := sw.Reserve("session-1"); d != 0 {
		t.Fatalf("first reserve should be immediate, got %v", d)
	}
	d := sw.Reserve("session-1")
	if d <= 50*time.Minute || d > time.Hour {
		t.Fatalf("full window should report close to the whole hour, got %v", d)
	}
}

func TestSlidingWindow_ResetClearsRunHistory(t *testing.T) {
	sw := insightsLimiter(1, time.Hour)
	defer sw.Close()

	sw.Allow("session-1")
	sw.Reset("session-1")

	if !sw.Allow("session-1") {
		t.Fatal("a reset session starts a fresh window")
	}
}

func TestSlidingWindow_StatsCountDecisions(t *testing.T) {
	sw := insightsLimiter(1, time.Hour)
	defer sw.Close()

	sw.Allow("session-1")
	sw.Allow("session-1")

	stats := sw.Stats()
	if stats.Allowed != 1 || stats.Denied != 1 {
		t.Fatalf("stats = %+v, want one allowed and one denied", stats)
	}
}

func TestSlidingWindow_DefaultMatchesInsightsPerHour(t *testing.T) {
	cfg := DefaultSlidingWindowConfig()
	if cfg.Limit != 6 || cfg.Window != time.Hour {
		t.Fatalf("default = %d per %v, want 6 per hour (the llm.insights_per_hour default)", cfg.Limit, cfg.Window)
	}
}

func TestSlidingWindow_SweepDropsStaleSessions(t *testing.T) {
	sw := insightsLimiter(2, 10*time.Millisecond)
	defer sw.Close()

	sw.Allow("session-1")
	sw.sweepIdle(time.Now().Add(time.Minute))

	if sw.Stats().CurrentKeys != 0 {
		t.Fatal("a session whose runs all predate twice the window should be swept")
	}
}
