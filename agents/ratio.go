// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package agents

import "github.com/privatefin/finsight/model"

func ratioDefinition() AgentDefinition {
	return AgentDefinition{
		Category:     model.CategoryRatio,
		Reduce:       reduceRatio,
		BuildPrompts: ratioPrompts,
	}
}

func reduceRatio(in ReduceInput) ReduceOutput {
	if statementEmpty(in.Statement) {
		return ReduceOutput{
			NoData: true,
			Analysis: map[string]any{
				"current_ratio": nil, "quick_ratio": nil, "cash_ratio": nil,
				"debt_to_equity": nil, "roa": nil, "roe": nil,
				"interest_coverage": nil, "asset_turnover": nil,
			},
			Statistics: map[string]float64{},
		}
	}

	bs := in.Statement.BalanceSheet
	is := in.Statement.IncomeStatement

	currentAssets := currentOf(bs, "current assets")
	currentLiabilities := currentOf(bs, "current liabilities")
	inventory := currentOf(bs, "inventory")
	cash := currentOf(bs, "cash and cash equivalents", "cash")
	totalLiabilities := currentOf(bs, "total liabilities")
	totalEquity := currentOf(bs, "total equity", "shareholders equity", "stockholders equity")
	totalAssets := currentOf(bs, "total assets")

	netIncome := currentOf(is, "net income")
	operatingIncome := currentOf(is, "operating income", "ebit")
	interestExpense := currentOf(is, "interest expense")
	revenue := currentOf(is, "revenue", "net sales", "total revenue")

	currentRatio := safeDivide(currentAssets, currentLiabilities)
	quickRatio := safeDivide(currentAssets-inventory, currentLiabilities)
	cashRatio := safeDivide(cash, currentLiabilities)
	debtToEquity := safeDivide(totalLiabilities, totalEquity)
	roa := safeDivide(netIncome, totalAssets)
	roe := safeDivide(netIncome, totalEquity)
	interestCoverage := safeDivide(operatingIncome, interestExpense)
	assetTurnover := safeDivide(revenue, totalAssets)

	stats := map[string]float64{}
	addIfSet(stats, "current_ratio", currentRatio)
	addIfSet(stats, "debt_to_equity", debtToEquity)
	addIfSet(stats, "roa", roa)
	addIfSet(stats, "roe", roe)
	addIfSet(stats, "interest_coverage", interestCoverage)

	return ReduceOutput{
		Analysis: map[string]any{
			"current_ratio":     currentRatio,
			"quick_ratio":       quickRatio,
			"cash_ratio":        cashRatio,
			"debt_to_equity":    debtToEquity,
			"roa":               roa,
			"roe":               roe,
			"interest_coverage": interestCoverage,
			"asset_turnover":    assetTurnover,
		},
		Statistics: stats,
	}
}

func addIfSet(stats map[string]float64, key string, v *float64) {
	if v != nil {
		stats[key] = *v
	}
}

func ratioPrompts(category model.AgentCategory) PromptSet {
	return PromptSet{
		Thinking: "You are reviewing a company's financial statement ratios. Think through which period is " +
			"covered, which ratios matter most for this company's apparent profile, what the liquidity and " +
			"leverage figures suggest, what additional context would sharpen the read, open questions, and " +
			"how to present the ratio picture.",
		Final: "You are the ratio agent. Using the reasoning and the computed ratios provided, give a specific " +
			"assessment, citing the exact ratio values from the computed summary; state a ratio as " +
			"unavailable rather than inventing one when it is null.",
		Chat: "You are the ratio agent answering a follow-up question about previously analyzed ratios.",
	}
}
