// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package resilience

import (
	"context"
	"sync"
	"time"
)

// State is where a CircuitBreaker currently stands.
type State int

const (
	// StateClosed: calls flow through normally.
	StateClosed State = iota

	// StateOpen: calls are rejected without reaching the runtime.
	StateOpen

	// StateHalfOpen: a bounded number of probe calls test whether the
	// runtime has recovered.
	StateHalfOpen
)

// String renders the state the way finsight's structured logs spell
// enum values.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig tunes when the breaker trips and how it probes
// for recovery.
type CircuitBreakerConfig struct {
	// MaxFailures is how many consecutive failures trip the breaker
	// open.
	MaxFailures int

	// Timeout is the cool-off spent open before probing the runtime
	// again.
	Timeout time.Duration

	// MaxHalfOpenRequests bounds how many probe calls may be in
	// flight at once while half-open.
	MaxHalfOpenRequests int

	// OnStateChange, if set, observes every transition.
	OnStateChange func(from, to State)
}

// DefaultCircuitBreakerConfig trips after five consecutive failures
// and probes again after a minute - enough time for a local model
// server to finish restarting or to shed the backlog that made it
// stop answering. One probe at a time: a single half-open generation
// is all the evidence needed from a runtime that serves one request
// anyway.
func DefaultCircuitBreakerConfig() *CircuitBreakerConfig {
	return &CircuitBreakerConfig{
		MaxFailures:         5,
		Timeout:             time.Minute,
		MaxHalfOpenRequests: 1,
	}
}

// CircuitBreaker fails fast once the model runtime has erred on
// enough consecutive calls, instead of queueing more generations
// behind a server that has wedged. llmclient.ResilientProvider wraps
// every Complete call in one.
type CircuitBreaker struct {
	mu                  sync.Mutex
	config              *CircuitBreakerConfig
	state               State
	consecutiveFailures int
	probesInFlight      int
	movedAt             time.Time
}

// NewCircuitBreaker builds a breaker in the closed state. A nil
// config gets DefaultCircuitBreakerConfig.
func NewCircuitBreaker(config *CircuitBreakerConfig) *CircuitBreaker {
	if config == nil {
		config = DefaultCircuitBreakerConfig()
	}
	return &CircuitBreaker{
		config:  config,
		state:   StateClosed,
		movedAt: time.Now(),
	}
}

// Execute runs fn if the breaker admits it, and feeds the outcome
// back into the state machine.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn Call) error {
	if !cb.admit() {
		return ErrCircuitBreakerOpen
	}

	err := fn(ctx)
	cb.observe(err == nil)
	return err
}

// admit decides whether one more call may go out, moving open to
// half-open once the cool-off has elapsed.
func (cb *CircuitBreaker) admit() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return true

	case StateOpen:
		if time.Since(cb.movedAt) < cb.config.Timeout {
			return false
		}
		cb.moveTo(StateHalfOpen)
		cb.probesInFlight = 1
		return true

	case StateHalfOpen:
		if cb.probesInFlight >= cb.config.MaxHalfOpenRequests {
			return false
		}
		cb.probesInFlight++
		return true

	default:
		return false
	}
}

// observe records a call's outcome. A half-open probe decides the
// whole breaker: success closes it, failure reopens it. In the closed
// state only an unbroken run of failures trips it - any success
// resets the count.
func (cb *CircuitBreaker) observe(succeeded bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if succeeded {
		if cb.state == StateHalfOpen {
			cb.moveTo(StateClosed)
			cb.probesInFlight = 0
		}
		cb.consecutiveFailures = 0
		return
	}

	cb.consecutiveFailures++
	switch cb.state {
	case StateHalfOpen:
		cb.moveTo(StateOpen)
		cb.probesInFlight = 0
	case StateClosed:
		if cb.consecutiveFailures >= cb.config.MaxFailures {
			cb.moveTo(StateOpen)
		}
	}
}

// moveTo transitions the state machine; callers hold cb.mu. The
// OnStateChange hook runs on its own goroutine so a slow observer
// (a log write, a metrics push) never blocks a call path.
func (cb *CircuitBreaker) moveTo(next State) {
	prev := cb.state
	cb.state = next
	cb.movedAt = time.Now()

	if cb.config.OnStateChange != nil && prev != next {
		go cb.config.OnStateChange(prev, next)
	}
}

// State reports where the breaker currently stands.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Failures reports the current run of consecutive failures.
func (cb *CircuitBreaker) Failures() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.consecutiveFailures
}

// Reset forces the breaker closed and clears its failure run, for an
// operator who has restarted the runtime and doesn't want to wait out
// the cool-off.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.moveTo(StateClosed)
	cb.consecutiveFailures = 0
	cb.probesInFlight = 0
}
