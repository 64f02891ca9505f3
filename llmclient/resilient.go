// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package llmclient

import (
	"context"
	"errors"
	"time"

	fserrors "github.com/privatefin/finsight/pkg/errors"
	"github.com/privatefin/finsight/resilience"
)

// ResilientProvider wraps a Provider with a circuit breaker,
// retry-with-backoff, and a per-call timeout, so a flaky or
// momentarily overloaded local runtime doesn't fail an agent's
// Complete call on the first connection hiccup and a call that never
// returns doesn't hang an agent forever.
type ResilientProvider struct {
	inner   Provider
	breaker *resilience.CircuitBreaker
	retry   *resilience.RetryConfig

	// ThinkingTimeout bounds a Think=true call (the deep-reasoning
	// thinking and final calls of insights mode); ChatTimeout bounds a
	// Think=false call. A single call that exceeds its timeout is
	// reported as ErrLLMUnavailable - there is no retry of a timed-out
	// call here, since the circuit breaker/retry layer only retries
	// errors returned by the inner provider, and a timeout is raised by
	// this layer itself, outside that retry loop.
	ThinkingTimeout time.Duration
	ChatTimeout     time.Duration
}

// ResilientProviderConfig configures a ResilientProvider. A nil
// Breaker or Retry falls back to resilience's own defaults. Zero
// timeouts disable the timeout layer for that call mode.
type ResilientProviderConfig struct {
	Breaker         *resilience.CircuitBreakerConfig
	Retry           *resilience.RetryConfig
	ThinkingTimeout time.Duration
	ChatTimeout     time.Duration
}

// NewResilientProvider wraps inner with circuit-breaker, retry, and
// timeout protection per cfg.
func NewResilientProvider(inner Provider, cfg ResilientProviderConfig) *ResilientProvider {
	retry := cfg.Retry
	if retry == nil {
		retry = resilience.DefaultRetryConfig()
	}
	return &ResilientProvider{
		inner:           inner,
		breaker:         resilience.NewCircuitBreaker(cfg.Breaker),
		retry:           retry,
		ThinkingTimeout: cfg.ThinkingTimeout,
		ChatTimeout:     cfg.ChatTimeout,
	}
}

// Name returns the wrapped provider's name.
func (p *ResilientProvider) Name() string { return p.inner.Name() }

// CountTokens delegates to the wrapped provider; it performs no I/O
// worth retrying.
func (p *ResilientProvider) CountTokens(text string) int { return p.inner.CountTokens(text) }

// Complete runs req through the circuit breaker and, within it,
// retries transient failures per p.retry before giving up; the whole
// attempt is additionally bounded by the timeout matching req.Think.
func (p *ResilientProvider) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	timeout := p.ChatTimeout
	if req.Think {
		timeout = p.ThinkingTimeout
	}

	var resp *CompletionResponse
	attempt := func(ctx context.Context) error {
		return p.breaker.Execute(ctx, func(ctx context.Context) error {
			return resilience.Retry(ctx, p.retry, func(ctx context.Context) error {
				r, err := p.inner.Complete(ctx, req)
				if err != nil {
					return err
				}
				resp = r
				return nil
			})
		})
	}

	var err error
	if timeout > 0 {
		err = resilience.WithTimeout(ctx, &resilience.TimeoutConfig{Duration: timeout}, attempt)
		if errors.Is(err, resilience.ErrTimeout) {
			err = fserrors.ErrLLMUnavailable.WithDetail("reason", "timeout").Wrap(err)
		}
	} else {
		err = attempt(ctx)
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

var _ Provider = (*ResilientProvider)(nil)
