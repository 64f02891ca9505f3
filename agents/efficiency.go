// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package agents

import "github.com/privatefin/finsight/model"

func efficiencyDefinition() AgentDefinition {
	return AgentDefinition{
		Category:     model.CategoryEfficiency,
		Reduce:       reduceEfficiency,
		BuildPrompts: efficiencyPrompts,
	}
}

// Efficiency targets: DSO/DIO/DPO benchmarks for a Saudi SME.
const (
	targetDSO           = 45.0
	targetDIO           = 60.0
	targetDPO           = 30.0
	targetAssetTurnover = 1.5
)

func reduceEfficiency(in ReduceInput) ReduceOutput {
	if statementEmpty(in.Statement) {
		return ReduceOutput{
			NoData:     true,
			Analysis:   map[string]any{"score": 0.0, "bottleneck": "none"},
			Statistics: map[string]float64{"score": 0},
		}
	}

	bs := in.Statement.BalanceSheet
	is := in.Statement.IncomeStatement

	receivables := currentOf(bs, "accounts receivable", "receivables")
	payables := currentOf(bs, "accounts payable", "payables")
	inventory := currentOf(bs, "inventory")
	totalAssets := currentOf(bs, "total assets")
	revenue := currentOf(is, "revenue", "net sales", "total revenue")
	cogs := currentOf(is, "cost of goods sold", "cogs", "cost of sales")

	dso := safeDivide(receivables*365, revenue)
	dio := safeDivide(inventory*365, cogs)
	dpo := safeDivide(payables*365, cogs)
	assetTurnover := safeDivide(revenue, totalAssets)

	type component struct {
		name  string
		gap   float64 // distance from target, in target-normalized units; higher = worse
		isBad bool
	}
	var components []component

	if dso != nil {
		gap := (*dso - targetDSO) / targetDSO
		components = append(components, component{"dso", gap, gap > 0})
	}
	if dio != nil {
		gap := (*dio - targetDIO) / targetDIO
		components = append(components, component{"dio", gap, gap > 0})
	}
	if dpo != nil {
		gap := (targetDPO - *dpo) / targetDPO
		components = append(components, component{"dpo", gap, gap > 0})
	}
	if assetTurnover != nil {
		gap := (targetAssetTurnover - *assetTurnover) / targetAssetTurnover
		components = append(components, component{"asset_turnover", gap, gap > 0})
	}

	bottleneck := "none"
	worst := 0.0
	for _, c := range components {
		if c.gap > worst {
			worst = c.gap
			bottleneck = c.name
		}
	}

	score := 100.0
	for _, c := range components {
		if c.isBad {
			score -= Clip(c.gap*25, 0, 25)
		}
	}
	score = Clip(score, 0, 100)

	return ReduceOutput{
		Analysis: map[string]any{
			"dso":            dso,
			"dio":            dio,
			"dpo":            dpo,
			"asset_turnover": assetTurnover,
			"score":          round2(score),
			"bottleneck":     bottleneck,
		},
		Statistics: map[string]float64{"score": round2(score)},
	}
}

func efficiencyPrompts(category model.AgentCategory) PromptSet {
	return PromptSet{
		Thinking: "You are assessing a company's operational efficiency. Think through the period covered, " +
			"which working-capital cycle component lags its target, what is driving the gap, what additional " +
			"data would sharpen the read, open questions, and how to present the bottleneck.",
		Final: "You are the efficiency agent. Using the reasoning and the computed turnover figures, score, " +
			"and identified bottleneck provided, give a specific assessment, citing the bottleneck and score " +
			"from the computed summary.",
		Chat: "You are the efficiency agent answering a follow-up question about a previously analyzed efficiency profile.",
	}
}
