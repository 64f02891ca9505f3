// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package agents

import "github.com/privatefin/finsight/model"

func profitabilityDefinition() AgentDefinition {
	return AgentDefinition{
		Category:     model.CategoryProfitability,
		Reduce:       reduceProfitability,
		BuildPrompts: profitabilityPrompts,
	}
}

// Margin health thresholds, counting how many of 4 margin floors are
// met; chosen as round figures.
const (
	grossMarginThreshold = 0.40
	opMarginThreshold    = 0.15
	ebitdaMarginThresh   = 0.20
	netMarginThreshold   = 0.10
)

func reduceProfitability(in ReduceInput) ReduceOutput {
	if statementEmpty(in.Statement) {
		return ReduceOutput{
			NoData: true,
			Analysis: map[string]any{
				"gross_margin": nil, "operating_margin": nil, "ebitda_margin": nil, "net_margin": nil,
				"margin_health": 0, "revenue_growth_yoy": nil,
			},
			Statistics: map[string]float64{},
		}
	}

	is := in.Statement.IncomeStatement

	revenue := currentOf(is, "revenue", "net sales", "total revenue")
	priorRevenue := priorOf(is, "revenue", "net sales", "total revenue")
	cogs := currentOf(is, "cost of goods sold", "cogs", "cost of sales")
	operatingIncome := currentOf(is, "operating income", "ebit")
	ebitda := currentOf(is, "ebitda")
	netIncome := currentOf(is, "net income")

	grossMargin := safeDivide(revenue-cogs, revenue)
	opMargin := safeDivide(operatingIncome, revenue)
	ebitdaMargin := safeDivide(ebitda, revenue)
	netMargin := safeDivide(netIncome, revenue)
	revenueGrowth := safeDivide(revenue-priorRevenue, priorRevenue)

	health := 0
	if grossMargin != nil && *grossMargin >= grossMarginThreshold {
		health++
	}
	if opMargin != nil && *opMargin >= opMarginThreshold {
		health++
	}
	if ebitdaMargin != nil && *ebitdaMargin >= ebitdaMarginThresh {
		health++
	}
	if netMargin != nil && *netMargin >= netMarginThreshold {
		health++
	}

	stats := map[string]float64{"margin_health": float64(health)}
	addIfSet(stats, "net_margin", netMargin)
	addIfSet(stats, "gross_margin", grossMargin)

	return ReduceOutput{
		Analysis: map[string]any{
			"gross_margin":       grossMargin,
			"operating_margin":   opMargin,
			"ebitda_margin":      ebitdaMargin,
			"net_margin":         netMargin,
			"margin_health":      health,
			"revenue_growth_yoy": revenueGrowth,
		},
		Statistics: stats,
	}
}

func profitabilityPrompts(category model.AgentCategory) PromptSet {
	return PromptSet{
		Thinking: "You are reviewing a company's profitability from its income statement. Think through the " +
			"period covered, how margins compare to healthy benchmarks, whether revenue is growing, what " +
			"drives any weakness, open questions, and how to present the profitability picture.",
		Final: "You are the profitability agent. Using the reasoning and the computed margins and margin " +
			"health score provided, give a specific assessment, citing exact margin values from the computed " +
			"summary.",
		Chat: "You are the profitability agent answering a follow-up question about previously analyzed profitability.",
	}
}
