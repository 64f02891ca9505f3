// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package resilience

import (
	"context"
	"errors"
	"time"
)

// BulkheadConfig sizes the generation budget.
type BulkheadConfig struct {
	// MaxConcurrent is how many calls may run at once.
	MaxConcurrent int

	// Timeout bounds how long a call waits for a slot. Zero means
	// wait until the caller's own context gives up - the right
	// setting for an insights fan-out, whose agents are expected to
	// queue behind one another.
	Timeout time.Duration
}

// DefaultBulkheadConfig admits one call at a time with no wait bound:
// the effective concurrency of a local model server, and the
// llm.max_concurrency default.
func DefaultBulkheadConfig() *BulkheadConfig {
	return &BulkheadConfig{MaxConcurrent: 1}
}

// Bulkhead bounds how many model generations run at once. A local
// runtime genuinely executes one or two generations at a time no
// matter how many requests it accepts, so the orchestrator sizes one
// Bulkhead from llm.max_concurrency and routes the whole agent
// fan-out through it - twelve agents contending for, typically, a
// single slot.
type Bulkhead struct {
	capacity int
	slots    chan struct{}
	waitFor  time.Duration
}

// NewBulkhead builds a bulkhead from config. A nil config gets
// DefaultBulkheadConfig; a non-positive MaxConcurrent is treated as 1.
func NewBulkhead(config *BulkheadConfig) *Bulkhead {
	if config == nil {
		config = DefaultBulkheadConfig()
	}
	capacity := config.MaxConcurrent
	if capacity <= 0 {
		capacity = 1
	}
	return &Bulkhead{
		capacity: capacity,
		slots:    make(chan struct{}, capacity),
		waitFor:  config.Timeout,
	}
}

// Execute waits for a generation slot, runs fn, and releases the
// slot. The wait - not fn itself - is bounded by the configured
// Timeout; once a call holds a slot it runs under the caller's own
// deadline.
func (b *Bulkhead) Execute(ctx context.Context, fn Call) error {
	if err := b.acquire(ctx); err != nil {
		return err
	}
	defer func() { <-b.slots }()

	return fn(ctx)
}

// acquire blocks until a slot frees up, the wait deadline passes, or
// ctx is cancelled. A lapsed wait deadline reports ErrBulkheadFull;
// the caller's own cancellation passes through as its context error.
func (b *Bulkhead) acquire(ctx context.Context) error {
	waitCtx := ctx
	if b.waitFor > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, b.waitFor)
		defer cancel()
	}

	select {
	case b.slots <- struct{}{}:
		return nil
	case <-waitCtx.Done():
		if errors.Is(waitCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return ErrBulkheadFull
		}
		return ctx.Err()
	}
}

// Available reports how many slots are currently free.
func (b *Bulkhead) Available() int {
	return b.capacity - len(b.slots)
}

// InProgress reports how many calls currently hold a slot.
func (b *Bulkhead) InProgress() int {
	return len(b.slots)
}
