// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

// Package resilience provides the fault-tolerance primitives the rest
// of this repository wraps around its two unreliable dependencies: the
// local LLM runtime and the semantic store.
//
//   - Retry: re-attempt a transient failure with backoff
//   - Circuit Breaker: stop hammering a runtime that keeps failing
//   - Bulkhead: bound concurrent LLM calls during an insights fan-out
//   - Timeout: bound a single call that never returns
//
// Retry, used around transient store/runtime failures:
//
//	config := &resilience.RetryConfig{
//	    MaxAttempts: 3,
//	    Backoff:     resilience.ExponentialBackoff(100*time.Millisecond, 2.0, 5*time.Second),
//	    ShouldRetry: resilience.DefaultShouldRetry,
//	}
//
//	err := resilience.Retry(ctx, config, func(ctx context.Context) error {
//	    return callModelRuntime()
//	})
//
// Circuit Breaker, wrapped around every llmclient Complete call by
// llmclient.ResilientProvider:
//
//	cb := resilience.NewCircuitBreaker(&resilience.CircuitBreakerConfig{
//	    MaxFailures:         5,
//	    Timeout:             60 * time.Second,
//	    MaxHalfOpenRequests: 1,
//	})
//
//	err := cb.Execute(ctx, func(ctx context.Context) error {
//	    return callModelRuntime()
//	})
//
// Bulkhead, sized by llm.max_concurrency in the orchestrator so a
// twelve-agent fan-out never exceeds what a local model server can
// actually run at once:
//
//	bulkhead := resilience.NewBulkhead(&resilience.BulkheadConfig{
//	    MaxConcurrent: 1,
//	    Timeout:       30 * time.Minute,
//	})
//
//	err := bulkhead.Execute(ctx, func(ctx context.Context) error {
//	    return runAgent()
//	})
//
// Timeout, bounding a single thinking or chat call:
//
//	err := resilience.WithTimeout(ctx, &resilience.TimeoutConfig{Duration: 120 * time.Second},
//	    func(ctx context.Context) error {
//	        return callModelRuntime()
//	    })
//
// The patterns compose; ResilientProvider nests retry inside the
// breaker inside the per-call timeout:
//
//	err := resilience.WithTimeout(ctx, timeoutConfig, func(ctx context.Context) error {
//	    return cb.Execute(ctx, func(ctx context.Context) error {
//	        return resilience.Retry(ctx, retryConfig, func(ctx context.Context) error {
//	            return callModelRuntime()
//	        })
//	    })
//	})
package resilience
