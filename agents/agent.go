// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

/*
Package agents implements the twelve closed-set analytical agents: six
over model.Transaction slices (expense, income, fee, budget, trend,
transaction_search) and six over a model.FinancialStatement (ratio,
profitability, liquidity, financial_trend, risk, efficiency).

All twelve share one execution contract - a two-call thinking/reduction/
final sequence in insights mode, a single no-think call in chat mode -
implemented once in executor.go. Per-agent code supplies only a
deterministic Reduce function and a PromptBuilder; categorize.go and
stats.go hold the shared categorization/statistics helpers the
reducers are built on.
*/
package agents

import (
	"time"

	"github.com/privatefin/finsight/model"
)

// ReduceInput is the pre-retrieved data an agent's Reduce function
// computes over. Exactly one of Transactions or Statement is set,
// matching the agent's document_type.
type ReduceInput struct {
	Transactions []model.Transaction
	Statement    *model.FinancialStatement
	Now          time.Time

	// Query is the raw free-text question, used by reductions whose
	// ranking depends on the literal query text (transaction_search).
	Query string
}

// ReduceOutput is a Reduce function's deterministic result.
type ReduceOutput struct {
	// Analysis is the tabular summary serialized verbatim into
	// AgentResult.Analysis and handed to the final-call prompt.
	Analysis map[string]any

	// Statistics are the numeric headline figures serialized into
	// AgentResult.Statistics.
	Statistics map[string]float64

	// NoData is true when the reduction had nothing to compute over
	// (empty transaction set or empty statement sections); the
	// executor uses this to short-circuit the final LLM call with a
	// deterministic "no data" answer instead of paying for one.
	NoData bool

	// Sources lists the exemplar records the reduction drew its
	// figures from, copied onto the AgentResult unchanged.
	Sources []model.Source
}

// Reducer performs an agent's deterministic computation.
type Reducer func(in ReduceInput) ReduceOutput

// PromptSet is the three prompts an agent's two-call insights sequence
// and one-call chat sequence are built from.
type PromptSet struct {
	// Thinking is the system prompt for the insights-mode thinking
	// call, built from a seven-aspect structure (time period,
	// categories, analysis type, business context, data requirements,
	// open questions, output format).
	Thinking string

	// Final is the system prompt for the insights-mode final call. The
	// executor sends it unchanged; the thinking output and the
	// reduction summary go into the user message.
	Final string

	// Chat is the system prompt for the chat-mode single call. The
	// executor sends it unchanged; the filtered-subset notice or the
	// cached analysis goes into the user message.
	Chat string
}

// PromptBuilder returns the prompt templates for one Execute call,
// keyed by category so shared template helpers can mention the agent's
// own vocabulary.
type PromptBuilder func(category model.AgentCategory) PromptSet

// AgentDefinition is a single category's entry in the Registry: the
// deterministic reduction and the prompt templates that make it a
// uniform agents.Agent.
type AgentDefinition struct {
	Category      model.AgentCategory
	Reduce        Reducer
	BuildPrompts  PromptBuilder
	MaxTokens     int // thinking/final call token budget, insights mode
	ChatMaxTokens int // chat mode token budget
}

// Registry maps every closed-set category to its definition.
type Registry map[model.AgentCategory]AgentDefinition

// NewRegistry builds the full twelve-agent registry.
func NewRegistry() Registry {
	return Registry{
		model.CategoryExpense:           expenseDefinition(),
		model.CategoryIncome:            incomeDefinition(),
		model.CategoryFee:               feeDefinition(),
		model.CategoryBudget:            budgetDefinition(),
		model.CategoryTrend:             trendDefinition(),
		model.CategoryTransactionSearch: transactionSearchDefinition(),
		model.CategoryRatio:             ratioDefinition(),
		model.CategoryProfitability:     profitabilityDefinition(),
		model.CategoryLiquidity:         liquidityDefinition(),
		model.CategoryFinancialTrend:    financialTrendDefinition(),
		model.CategoryRisk:              riskDefinition(),
		model.CategoryEfficiency:        efficiencyDefinition(),
	}
}

// Get returns the definition for category and whether it was found.
func (r Registry) Get(category model.AgentCategory) (AgentDefinition, bool) {
	def, ok := r[category]
	return def, ok
}
