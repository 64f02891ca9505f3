// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package agents

import (
	"testing"

	"github.com/privatefin/finsight/model"
)

// gosiScenarioTransactions reproduces the fixture verbatim: two GOSI
// debits of 19000 each, one rent debit of 85000, one client credit.
func gosiScenarioTransactions() []model.Transaction {
	return []model.Transaction{
		debit("2024-01-10", "GOSI Monthly", 19000),
		debit("2024-02-10", "GOSI Monthly", 19000),
		debit("2024-02-15", "Office Rent", 85000),
		credit("2024-02-01", "Client INV-7", 520000),
	}
}

func TestReduceExpense_GosiScenario(t *testing.T) {
	out := reduceExpense(ReduceInput{Transactions: gosiScenarioTransactions()})
	if out.NoData {
		t.Fatal("expected data, got NoData")
	}
	categories := out.Analysis["categories"].(map[string]categoryTotal)
	gov := categories["government_compliance"]
	if gov.Total != 38000 {
		t.Errorf("government_compliance total = %v, want 38000", gov.Total)
	}
	op := categories["operational"]
	if op.Total != 85000 {
		t.Errorf("operational total = %v, want 85000", op.Total)
	}
	if out.Analysis["total"].(float64) != 123000 {
		t.Errorf("total = %v, want 123000", out.Analysis["total"])
	}
}

func TestReduceExpense_NoDebitsIsNoData(t *testing.T) {
	out := reduceExpense(ReduceInput{Transactions: []model.Transaction{credit("2026-01-01", "salary", 1000)}})
	if !out.NoData {
		t.Error("expected NoData when there are no debits")
	}
}

func TestReduceExpense_EmptyInputIsNoData(t *testing.T) {
	out := reduceExpense(ReduceInput{})
	if !out.NoData {
		t.Error("expected NoData for empty transaction set")
	}
}

func TestReduceIncome_StabilityScoreWithConsistentSalary(t *testing.T) {
	txs := []model.Transaction{
		credit("2026-01-01", "ACME SALARY", 10000),
		credit("2026-02-01", "ACME SALARY", 10000),
		credit("2026-03-01", "ACME SALARY", 10000),
	}
	out := reduceIncome(ReduceInput{Transactions: txs})
	if out.NoData {
		t.Fatal("expected data")
	}
	score := out.Statistics["stability_score"]
	if score != 100 {
		t.Errorf("stability_score = %v, want 100 for perfectly consistent income", score)
	}
	if out.Statistics["total"] != 30000 {
		t.Errorf("total = %v, want 30000", out.Statistics["total"])
	}
}

func TestReduceIncome_NoCreditsIsNoData(t *testing.T) {
	out := reduceIncome(ReduceInput{Transactions: []model.Transaction{debit("2026-01-01", "rent", 1000)}})
	if !out.NoData {
		t.Error("expected NoData when there are no credits")
	}
}

func TestIsFee_KeywordMatch(t *testing.T) {
	tx := debit("2026-01-01", "ATM withdrawal fee", 20)
	if !isFee(tx) {
		t.Error("expected ATM withdrawal fee to be classified as a fee")
	}
}

func TestIsFee_AmountAndBankToken(t *testing.T) {
	tx := debit("2026-01-01", "Al Rajhi Bank SMS service", 50)
	if !isFee(tx) {
		t.Error("expected typical fee amount + known bank token to be classified as a fee")
	}
}

func TestIsFee_OrdinaryPurchaseIsNotFee(t *testing.T) {
	tx := debit("2026-01-01", "Grocery store purchase", 230)
	if isFee(tx) {
		t.Error("ordinary purchase at a non-typical amount should not be classified as a fee")
	}
}

func TestReduceFee_AnnualizedSavingsFromMonthlyRecurrence(t *testing.T) {
	txs := []model.Transaction{
		debit("2026-01-05", "Monthly account fee", 25),
		debit("2026-02-05", "Monthly account fee", 25),
		debit("2026-03-05", "Monthly account fee", 25),
	}
	out := reduceFee(ReduceInput{Transactions: txs})
	if out.NoData {
		t.Fatal("expected data")
	}
	if out.Statistics["annualized_savings"] != 300 {
		t.Errorf("annualized_savings = %v, want 300 (25*12)", out.Statistics["annualized_savings"])
	}
}

func TestReduceFee_NoFeesIsNoData(t *testing.T) {
	out := reduceFee(ReduceInput{Transactions: []model.Transaction{debit("2026-01-01", "Grocery purchase", 200)}})
	if !out.NoData {
		t.Error("expected NoData when no fee-like transactions are present")
	}
}

func TestCategoryHealth(t *testing.T) {
	cases := []struct {
		pct  float64
		want string
	}{
		{10, "excellent"},
		{20, "excellent"},
		{30, "good"},
		{35, "good"},
		{45, "warning"},
		{50, "warning"},
		{75, "critical"},
	}
	for _, c := range cases {
		if got := categoryHealth(c.pct); got != c.want {
			t.Errorf("categoryHealth(%v) = %q, want %q", c.pct, got, c.want)
		}
	}
}

func TestBudgetHealthScore_BaselineNoCategories(t *testing.T) {
	score := budgetHealthScore(0.20, 0.70, nil)
	if score != 100 {
		t.Errorf("score = %v, want 100 (50 base +30 savings +20 expense ratio)", score)
	}
}

func TestBudgetHealthScore_NegativeSavingsPenalized(t *testing.T) {
	score := budgetHealthScore(-0.10, 1.10, nil)
	if score != 20 {
		t.Errorf("score = %v, want 20 (50 base -20 savings -10 expense ratio)", score)
	}
}

func TestBudgetHealthScore_ClipsAtCeiling(t *testing.T) {
	score := budgetHealthScore(0.50, 0.50, []string{"excellent", "excellent", "excellent", "excellent", "excellent"})
	if score != 100 {
		t.Errorf("score = %v, want 100 (clipped)", score)
	}
}

func TestReduceBudget_NoActivityIsNoData(t *testing.T) {
	out := reduceBudget(ReduceInput{})
	if !out.NoData {
		t.Error("expected NoData with no transactions at all")
	}
}

func TestReduceBudget_NetAndSavingsRate(t *testing.T) {
	txs := []model.Transaction{
		credit("2026-01-01", "salary", 10000),
		debit("2026-01-05", "rent", 6000),
	}
	out := reduceBudget(ReduceInput{Transactions: txs})
	if out.Statistics["net"] != 4000 {
		t.Errorf("net = %v, want 4000", out.Statistics["net"])
	}
	if out.Statistics["savings_rate"] != 40 {
		t.Errorf("savings_rate = %v, want 40 (percent)", out.Statistics["savings_rate"])
	}
}

func TestTrendDirection(t *testing.T) {
	if trendDirection(150) != "increasing" {
		t.Error("slope > 100 should be increasing")
	}
	if trendDirection(-150) != "decreasing" {
		t.Error("slope < -100 should be decreasing")
	}
	if trendDirection(0) != "stable" {
		t.Error("slope near 0 should be stable")
	}
}

func TestReduceTrend_EmptyIsNoData(t *testing.T) {
	out := reduceTrend(ReduceInput{})
	if !out.NoData {
		t.Error("expected NoData for an empty transaction set")
	}
	if out.Analysis["direction"] != "insufficient_data" {
		t.Errorf("direction = %v, want insufficient_data", out.Analysis["direction"])
	}
}

func TestReduceTrend_SingleMonthIsInsufficientButNotNoData(t *testing.T) {
	out := reduceTrend(ReduceInput{Transactions: []model.Transaction{debit("2026-01-05", "rent", 1000)}})
	if out.NoData {
		t.Error("a single transaction is insufficient-data, not no-data")
	}
	if out.Analysis["direction"] != "insufficient_data" {
		t.Errorf("direction = %v, want insufficient_data", out.Analysis["direction"])
	}
}

func TestReduceTrend_IncreasingSpend(t *testing.T) {
	txs := []model.Transaction{
		debit("2026-01-05", "rent", 1000),
		debit("2026-02-05", "rent", 3000),
		debit("2026-03-05", "rent", 6000),
		debit("2026-04-05", "rent", 10000),
	}
	out := reduceTrend(ReduceInput{Transactions: txs})
	if out.Analysis["direction"] != "increasing" {
		t.Errorf("direction = %v, want increasing", out.Analysis["direction"])
	}
}

func TestReduceTransactionSearch_ExactMatchRanksHighest(t *testing.T) {
	txs := []model.Transaction{
		debit("2024-01-10", "GOSI Monthly", 19000),
		debit("2024-02-15", "Office Rent", 85000),
	}
	out := reduceTransactionSearch(ReduceInput{Transactions: txs, Query: "gosi", Now: mustDate("2024-03-01")})
	matches := out.Analysis["matches"].([]rankedTransaction)
	if matches[0].Description != "GOSI Monthly" {
		t.Errorf("top match = %q, want GOSI Monthly", matches[0].Description)
	}
	if matches[0].Relevance <= matches[1].Relevance {
		t.Error("exact substring match should outrank a non-matching transaction")
	}
}

func TestReduceTransactionSearch_EmptyIsNoData(t *testing.T) {
	out := reduceTransactionSearch(ReduceInput{Query: "gosi"})
	if !out.NoData {
		t.Error("expected NoData for an empty transaction set")
	}
}

func TestReduceTransactionSearch_RecencyBoost(t *testing.T) {
	txs := []model.Transaction{
		debit("2026-03-14", "Generic purchase", 100),
		debit("2025-01-01", "Generic purchase", 100),
	}
	out := reduceTransactionSearch(ReduceInput{Transactions: txs, Query: "generic", Now: mustDate("2026-03-15")})
	matches := out.Analysis["matches"].([]rankedTransaction)
	var recent, old rankedTransaction
	for _, m := range matches {
		if m.Date == "2026-03-14" {
			recent = m
		} else {
			old = m
		}
	}
	if recent.Relevance <= old.Relevance {
		t.Error("the transaction within the last 7 days should rank higher than the stale one")
	}
}
