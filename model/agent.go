// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package model

import "time"

// AgentCategory is one of the twelve closed-set analytical agents.
type AgentCategory string

const (
	CategoryExpense           AgentCategory = "expense"
	CategoryIncome            AgentCategory = "income"
	CategoryFee               AgentCategory = "fee"
	CategoryBudget            AgentCategory = "budget"
	CategoryTrend             AgentCategory = "trend"
	CategoryTransactionSearch AgentCategory = "transaction_search"
	CategoryRatio             AgentCategory = "ratio"
	CategoryProfitability     AgentCategory = "profitability"
	CategoryLiquidity         AgentCategory = "liquidity"
	CategoryFinancialTrend    AgentCategory = "financial_trend"
	CategoryRisk              AgentCategory = "risk"
	CategoryEfficiency        AgentCategory = "efficiency"
)

// TransactionCategories lists the six agents that operate over
// Transaction slices, in the canonical ordering the orchestrator
// assembles GenerateInsights results with.
var TransactionCategories = []AgentCategory{
	CategoryExpense, CategoryIncome, CategoryFee,
	CategoryBudget, CategoryTrend, CategoryTransactionSearch,
}

// FinancialCategories lists the six agents that operate over a
// FinancialStatement, in canonical order.
var FinancialCategories = []AgentCategory{
	CategoryRatio, CategoryProfitability, CategoryLiquidity,
	CategoryFinancialTrend, CategoryRisk, CategoryEfficiency,
}

// Mode selects which of the two agent execution patterns produced an
// AgentResult.
type Mode string

const (
	ModeInsights Mode = "insights"
	ModeChat     Mode = "chat"
)

// Source is an exemplar record an AgentResult cites in support of its
// answer - a transaction or line item surfaced from retrieval, never
// the raw model reasoning.
type Source struct {
	Kind    string `json:"kind"`
	Text    string `json:"text"`
	DocHash string `json:"doc_hash"`
}

// AgentResult is the output of a single agent run.
//
// Thinking holds the model's raw reasoning from the thinking call in
// insights mode. It must never be copied into FinalAnswer, logged at
// info level, or serialized into an API response body - see
// orchestrator/redact.go, the single place this invariant is enforced.
type AgentResult struct {
	Category    AgentCategory      `json:"category"`
	FinalAnswer string             `json:"final_answer"`
	Analysis    map[string]any     `json:"analysis"`
	Thinking    string             `json:"-"`
	Mode        Mode               `json:"mode"`
	UsedCache   bool               `json:"used_cache"`
	Sources     []Source           `json:"sources,omitempty"`
	Statistics  map[string]float64 `json:"statistics,omitempty"`
	Err         string             `json:"error,omitempty"`
}

// CachedInsights is the full set of per-category results produced by
// one GenerateInsights run for a (session_id, document_type) pair.
type CachedInsights struct {
	Results     map[AgentCategory]AgentResult `json:"results"`
	GeneratedAt time.Time                     `json:"generated_at"`
	ExpiresAt   time.Time                     `json:"expires_at"`
}

// Expired reports whether these insights are past their TTL as of now.
func (c CachedInsights) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}
