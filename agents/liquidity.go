// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package agents

import "github.com/privatefin/finsight/model"

func liquidityDefinition() AgentDefinition {
	return AgentDefinition{
		Category:     model.CategoryLiquidity,
		Reduce:       reduceLiquidity,
		BuildPrompts: liquidityPrompts,
	}
}

// liquidityStatus bands a current ratio into an
// excellent/good/fair/poor status.
func liquidityStatus(currentRatio *float64) string {
	if currentRatio == nil {
		return "unknown"
	}
	switch {
	case *currentRatio >= 2.0:
		return "excellent"
	case *currentRatio >= 1.5:
		return "good"
	case *currentRatio >= 1.0:
		return "fair"
	default:
		return "poor"
	}
}

func reduceLiquidity(in ReduceInput) ReduceOutput {
	if statementEmpty(in.Statement) {
		return ReduceOutput{
			NoData: true,
			Analysis: map[string]any{
				"working_capital": 0.0, "cash_conversion_cycle": nil, "status": "unknown",
			},
			Statistics: map[string]float64{},
		}
	}

	bs := in.Statement.BalanceSheet
	is := in.Statement.IncomeStatement

	currentAssets := currentOf(bs, "current assets")
	currentLiabilities := currentOf(bs, "current liabilities")
	receivables := currentOf(bs, "accounts receivable", "receivables")
	payables := currentOf(bs, "accounts payable", "payables")
	inventory := currentOf(bs, "inventory")
	revenue := currentOf(is, "revenue", "net sales", "total revenue")
	cogs := currentOf(is, "cost of goods sold", "cogs", "cost of sales")

	workingCapital := currentAssets - currentLiabilities
	currentRatio := safeDivide(currentAssets, currentLiabilities)

	dso := safeDivide(receivables*365, revenue)
	dio := safeDivide(inventory*365, cogs)
	dpo := safeDivide(payables*365, cogs)

	var ccc *float64
	if dso != nil && dio != nil && dpo != nil {
		v := round2(*dio + *dso - *dpo)
		ccc = &v
	}

	status := liquidityStatus(currentRatio)

	stats := map[string]float64{"working_capital": round2(workingCapital)}
	addIfSet(stats, "cash_conversion_cycle", ccc)
	addIfSet(stats, "current_ratio", currentRatio)

	return ReduceOutput{
		Analysis: map[string]any{
			"working_capital":       round2(workingCapital),
			"current_ratio":         currentRatio,
			"dso":                   dso,
			"dio":                   dio,
			"dpo":                   dpo,
			"cash_conversion_cycle": ccc,
			"status":                status,
		},
		Statistics: stats,
	}
}

func liquidityPrompts(category model.AgentCategory) PromptSet {
	return PromptSet{
		Thinking: "You are reviewing a company's liquidity position. Think through the period covered, " +
			"whether working capital is adequate, how the cash conversion cycle compares to the industry, " +
			"what's driving the status, open questions, and how to present the liquidity picture.",
		Final: "You are the liquidity agent. Using the reasoning and the computed working capital, cash " +
			"conversion cycle, and status band provided, give a specific assessment, citing the exact figures " +
			"and status from the computed summary.",
		Chat: "You are the liquidity agent answering a follow-up question about previously analyzed liquidity.",
	}
}
