// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package router

import "github.com/privatefin/finsight/model"

// DomainKeywords is the closed vocabulary of Saudi banking/finance
// terms the keyword matcher recognizes, externalized as data so it is
// swappable and tests can assert exact membership.
var DomainKeywords = []string{
	"payroll", "gosi", "qiwa", "sadad", "swift", "atm",
	"salary", "rent", "mada", "vat", "zakat", "iban",
	"mortgage", "loan", "overdraft", "subscription",
}

// RoutingTable maps a classified QueryType to its primary agent
// category, for the types whose agent doesn't depend on document type.
// Kept as a plain map literal rather than a switch so a future
// category can be added or remapped without touching control flow.
// trend_analysis, multi_statement, specific_line_item, and
// general_overview are resolved by RouteAgent instead.
var RoutingTable = map[model.QueryType]model.AgentCategory{
	model.QueryExpense:           model.CategoryExpense,
	model.QueryIncome:            model.CategoryIncome,
	model.QueryFee:               model.CategoryFee,
	model.QueryBudget:            model.CategoryBudget,
	model.QueryTransactionSearch: model.CategoryTransactionSearch,
	model.QueryRatioAnalysis:     model.CategoryRatio,
	model.QueryProfitability:     model.CategoryProfitability,
	model.QueryLiquidity:         model.CategoryLiquidity,
	model.QueryRiskAssessment:    model.CategoryRisk,
	model.QueryEfficiency:        model.CategoryEfficiency,
}

// RouteAgent resolves a query type to its primary agent category for
// docType. trend_analysis splits by document type; multi_statement,
// specific_line_item, and general_overview fall to the conservative
// default, as does any table entry whose agent doesn't apply to
// docType.
func RouteAgent(qt model.QueryType, docType model.DocumentType) model.AgentCategory {
	if qt == model.QueryTrendAnalysis {
		if docType == model.DocumentFinancial {
			return model.CategoryFinancialTrend
		}
		return model.CategoryTrend
	}
	if agent, ok := RoutingTable[qt]; ok && agentAppliesTo(agent, docType) {
		return agent
	}
	return DefaultAgent(docType)
}

// DefaultAgent returns the conservative-default agent category for a
// document type: expense for transactions, ratio for financial. The
// keyword matcher uses it when no trigger matches, and RouteAgent uses
// it for query types with no agent of their own for docType.
func DefaultAgent(docType model.DocumentType) model.AgentCategory {
	if docType == model.DocumentFinancial {
		return model.CategoryRatio
	}
	return model.CategoryExpense
}

// typeTrigger is a single (term, weight) vote toward a QueryType.
// Weight lets a specific domain term (e.g. "gosi", a payroll
// deduction almost always analyzed as an expense) outrank a generic
// lookup verb ("show me", "find") that would otherwise send the query
// to transaction_search regardless of what it's actually asking about.
type typeTrigger struct {
	term   string
	qtype  model.QueryType
	weight int
}

// transactionTriggers votes on a QueryType for transaction queries.
// Domain-specific nouns (weight 3) win over category words (weight 2),
// which win over generic lookup verbs (weight 1).
var transactionTriggers = []typeTrigger{
	{"gosi", model.QueryExpense, 3},
	{"qiwa", model.QueryExpense, 3},
	{"sadad", model.QueryExpense, 3},
	{"rent", model.QueryExpense, 3},
	{"atm", model.QueryFee, 3},
	{"overdraft", model.QueryFee, 3},
	{"salary", model.QueryIncome, 3},
	{"payroll", model.QueryIncome, 3},

	{"expense", model.QueryExpense, 2},
	{"expenses", model.QueryExpense, 2},
	{"spending", model.QueryExpense, 2},
	{"spend", model.QueryExpense, 2},
	{"income", model.QueryIncome, 2},
	{"earnings", model.QueryIncome, 2},
	{"fee", model.QueryFee, 2},
	{"fees", model.QueryFee, 2},
	{"charge", model.QueryFee, 2},
	{"charges", model.QueryFee, 2},
	{"budget", model.QueryBudget, 2},
	{"savings", model.QueryBudget, 2},
	{"trend", model.QueryTrendAnalysis, 2},
	{"trending", model.QueryTrendAnalysis, 2},
	{"over time", model.QueryTrendAnalysis, 2},

	{"find", model.QueryTransactionSearch, 1},
	{"search", model.QueryTransactionSearch, 1},
	{"show me", model.QueryTransactionSearch, 1},
	{"transaction", model.QueryTransactionSearch, 1},
}

var financialTriggers = []typeTrigger{
	{"overleveraged", model.QueryRiskAssessment, 3},
	{"compliance", model.QueryRiskAssessment, 3},
	{"working capital", model.QueryLiquidity, 3},
	{"cash conversion", model.QueryLiquidity, 3},

	{"ratio", model.QueryRatioAnalysis, 2},
	{"ratios", model.QueryRatioAnalysis, 2},
	{"leverage", model.QueryRatioAnalysis, 2},
	{"profitability", model.QueryProfitability, 2},
	{"margin", model.QueryProfitability, 2},
	{"margins", model.QueryProfitability, 2},
	{"profit", model.QueryProfitability, 2},
	{"liquidity", model.QueryLiquidity, 2},
	{"growth", model.QueryTrendAnalysis, 2},
	{"yoy", model.QueryTrendAnalysis, 2},
	{"qoq", model.QueryTrendAnalysis, 2},
	{"risk", model.QueryRiskAssessment, 2},
	{"efficiency", model.QueryEfficiency, 2},
	{"turnover", model.QueryEfficiency, 2},
	{"dso", model.QueryEfficiency, 2},
	{"dio", model.QueryEfficiency, 2},
	{"dpo", model.QueryEfficiency, 2},

	{"trend", model.QueryTrendAnalysis, 1},

	{"line item", model.QuerySpecificLineItem, 3},
	{"across statements", model.QueryMultiStatement, 3},
	{"all statements", model.QueryMultiStatement, 3},
	{"overview", model.QueryGeneralOverview, 1},
	{"overall", model.QueryGeneralOverview, 1},
}

// triggersFor returns the weighted trigger table applicable to docType.
func triggersFor(docType model.DocumentType) []typeTrigger {
	if docType == model.DocumentFinancial {
		return financialTriggers
	}
	return transactionTriggers
}
