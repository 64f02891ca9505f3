// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package agents

import "github.com/privatefin/finsight/model"

func riskDefinition() AgentDefinition {
	return AgentDefinition{
		Category:     model.CategoryRisk,
		Reduce:       reduceRisk,
		BuildPrompts: riskPrompts,
	}
}

// Risk scoring thresholds.
const (
	highLeverageDebtToEquity = 2.0
	lowInterestCoverage      = 1.5
	lowCurrentRatio          = 1.0
	negativeMarginFloor      = 0.0
)

func reduceRisk(in ReduceInput) ReduceOutput {
	if statementEmpty(in.Statement) {
		return ReduceOutput{
			NoData:     true,
			Analysis:   map[string]any{"score": 1, "early_warnings": []string{}, "compliance": map[string]bool{}},
			Statistics: map[string]float64{"score": 1},
		}
	}

	bs := in.Statement.BalanceSheet
	is := in.Statement.IncomeStatement

	totalLiabilities := currentOf(bs, "total liabilities")
	totalEquity := currentOf(bs, "total equity", "shareholders equity", "stockholders equity")
	currentAssets := currentOf(bs, "current assets")
	currentLiabilities := currentOf(bs, "current liabilities")
	operatingIncome := currentOf(is, "operating income", "ebit")
	interestExpense := currentOf(is, "interest expense")
	netIncome := currentOf(is, "net income")
	revenue := currentOf(is, "revenue", "net sales", "total revenue")

	debtToEquity := safeDivide(totalLiabilities, totalEquity)
	interestCoverage := safeDivide(operatingIncome, interestExpense)
	currentRatio := safeDivide(currentAssets, currentLiabilities)
	netMargin := safeDivide(netIncome, revenue)

	score := 1.0
	var warnings []string

	if debtToEquity != nil && *debtToEquity > highLeverageDebtToEquity {
		score += 3
		warnings = append(warnings, "high_leverage")
	}
	if interestCoverage != nil && *interestCoverage < lowInterestCoverage {
		score += 3
		warnings = append(warnings, "thin_interest_coverage")
	}
	if currentRatio != nil && *currentRatio < lowCurrentRatio {
		score += 2
		warnings = append(warnings, "liquidity_strain")
	}
	if netMargin != nil && *netMargin < negativeMarginFloor {
		score += 1
		warnings = append(warnings, "negative_margin")
	}

	score = Clip(score, 1, 10)

	compliance := map[string]bool{
		"debt_to_equity_within_bound": debtToEquity == nil || *debtToEquity <= highLeverageDebtToEquity,
		"interest_coverage_adequate":  interestCoverage == nil || *interestCoverage >= lowInterestCoverage,
		"liquidity_adequate":          currentRatio == nil || *currentRatio >= lowCurrentRatio,
	}

	return ReduceOutput{
		Analysis: map[string]any{
			"score":             round2(score),
			"early_warnings":    warnings,
			"compliance":        compliance,
			"debt_to_equity":    debtToEquity,
			"interest_coverage": interestCoverage,
		},
		Statistics: map[string]float64{"score": round2(score)},
	}
}

func riskPrompts(category model.AgentCategory) PromptSet {
	return PromptSet{
		Thinking: "You are assessing a company's financial risk. Think through the period covered, whether " +
			"leverage, coverage, and liquidity figures indicate distress, which compliance checks pass or " +
			"fail, what additional data would sharpen the read, open questions, and how to present the risk.",
		Final: "You are the risk agent. Using the reasoning and the computed risk score, early-warning list, " +
			"and compliance checklist provided, give a specific assessment, citing debt-to-equity and " +
			"interest coverage from the computed summary.",
		Chat: "You are the risk agent answering a follow-up question about a previously analyzed risk profile.",
	}
}
