// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWithTimeout_FastCallPasses(t *testing.T) {
	err := WithTimeout(context.Background(), &TimeoutConfig{Duration: time.Second},
		func(ctx context.Context) error { return nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWithTimeout_HungRuntimeReportsTimeout(t *testing.T) {
	err := WithTimeout(context.Background(), &TimeoutConfig{Duration: 10 * time.Millisecond},
		func(ctx context.Context) error {
			<-ctx.Done() // a generation that only stops when cancelled
			return ctx.Err()
		})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("got %v, want ErrTimeout", err)
	}
}

func TestWithTimeout_CallErrorPassesThrough(t *testing.T) {
	wantErr := errors.New("runtime rejected the request")
	err := WithTimeout(context.Background(), &TimeoutConfig{Duration: time.Second},
		func(ctx context.Context) error { return wantErr })
	if !errors.Is(err, wantErr) {
		t.Fatalf("got %v, want the call's own error", err)
	}
}

func TestWithTimeout_CallerCancellationIsNotATimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()

	err := WithTimeout(ctx, &TimeoutConfig{Duration: time.Minute},
		func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
}

func TestWithTimeout_NilConfigUsesChatDefault(t *testing.T) {
	if d := DefaultTimeoutConfig().Duration; d != 30*time.Second {
		t.Fatalf("default duration = %v, want the 30s chat-call bound", d)
	}
	err := WithTimeout(context.Background(), nil, func(ctx context.Context) error { return nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
