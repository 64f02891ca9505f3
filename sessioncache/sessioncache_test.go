// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package sessioncache

import (
	"context"
	"testing"
	"time"

	"github.com/privatefin/finsight/model"
)

func TestPutThenGetRoundTrips(t *testing.T) {
	c := New(DefaultConfig())
	ctx := context.Background()

	results := map[model.AgentCategory]model.AgentResult{
		model.CategoryExpense: {Category: model.CategoryExpense, FinalAnswer: "ok"},
	}

	c.Put(ctx, "session-1", model.DocumentTransactions, results)

	got, ok := c.Get(ctx, "session-1", model.DocumentTransactions)
	if !ok {
		t.Fatal("expected cached insights to be present")
	}
	if got.Results[model.CategoryExpense].FinalAnswer != "ok" {
		t.Fatalf("unexpected result: %+v", got.Results[model.CategoryExpense])
	}
}

func TestGetMissingReturnsFalse(t *testing.T) {
	c := New(DefaultConfig())
	if _, ok := c.Get(context.Background(), "no-such-session", model.DocumentTransactions); ok {
		t.Fatal("expected absent entry to report not-found")
	}
}

func TestClearWithoutDocTypeRemovesBothSlots(t *testing.T) {
	c := New(DefaultConfig())
	ctx := context.Background()

	c.Put(ctx, "s1", model.DocumentTransactions, map[model.AgentCategory]model.AgentResult{})
	c.Put(ctx, "s1", model.DocumentFinancial, map[model.AgentCategory]model.AgentResult{})

	if err := c.Clear(ctx, "s1", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := c.Get(ctx, "s1", model.DocumentTransactions); ok {
		t.Fatal("transaction insights should be cleared")
	}
	if _, ok := c.Get(ctx, "s1", model.DocumentFinancial); ok {
		t.Fatal("financial insights should be cleared")
	}
}

func TestExpiredEntryReportsAbsent(t *testing.T) {
	c := New(Config{MaxSessions: 10, TTL: 10 * time.Millisecond})
	ctx := context.Background()

	put := c.Put(ctx, "s1", model.DocumentTransactions, map[model.AgentCategory]model.AgentResult{})
	if want := put.GeneratedAt.Add(10 * time.Millisecond); !put.ExpiresAt.Equal(want) {
		t.Fatalf("ExpiresAt = %v, want GeneratedAt + ttl = %v", put.ExpiresAt, want)
	}

	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get(ctx, "s1", model.DocumentTransactions); ok {
		t.Fatal("expected expired entry to report not-found")
	}
}

func TestStatusReflectsCachedSlots(t *testing.T) {
	c := New(DefaultConfig())
	ctx := context.Background()
	c.Put(ctx, "s1", model.DocumentTransactions, map[model.AgentCategory]model.AgentResult{})

	st := c.Status(ctx, "s1")
	if !st.HasTransactionInsights {
		t.Fatal("expected HasTransactionInsights to be true")
	}
	if st.HasFinancialInsights {
		t.Fatal("expected HasFinancialInsights to be false")
	}
	if st.TransactionInsightsUntil == nil || st.TransactionInsightsUntil.Before(time.Now()) {
		t.Fatal("expected a future expiry timestamp")
	}
}
