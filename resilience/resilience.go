// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package resilience

import (
	"context"
	"errors"
)

// Call is one attempt against a dependency that can fail or hang: in
// this repository, a completion request to the local model runtime or
// a read against the semantic store. A Call must honor ctx
// cancellation, because every pattern in this package gives up on a
// call by cancelling the context it passed in.
type Call func(ctx context.Context) error

var (
	// ErrCircuitBreakerOpen is returned while the breaker is failing
	// fast instead of handing more calls to a runtime that keeps
	// erroring.
	ErrCircuitBreakerOpen = errors.New("resilience: circuit open, model runtime calls are failing fast")

	// ErrMaxAttemptsExceeded is returned when a call kept failing
	// through its whole retry budget.
	ErrMaxAttemptsExceeded = errors.New("resilience: retry budget exhausted")

	// ErrBulkheadFull is returned when a call could not get a
	// generation slot before its wait deadline.
	ErrBulkheadFull = errors.New("resilience: concurrent generation budget exhausted")

	// ErrTimeout is returned when a single call outlived its deadline.
	ErrTimeout = errors.New("resilience: call exceeded its deadline")
)
