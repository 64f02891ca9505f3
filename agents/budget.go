// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package agents

import "github.com/privatefin/finsight/model"

func budgetDefinition() AgentDefinition {
	return AgentDefinition{
		Category:     model.CategoryBudget,
		Reduce:       reduceBudget,
		BuildPrompts: budgetPrompts,
	}
}

// categoryHealth buckets a category's share of total spend into a
// rating the health-score ladder consumes.
func categoryHealth(percentOfTotal float64) string {
	switch {
	case percentOfTotal <= 20:
		return "excellent"
	case percentOfTotal <= 35:
		return "good"
	case percentOfTotal <= 50:
		return "warning"
	default:
		return "critical"
	}
}

// budgetHealthScore implements the scoring ladder: base 50;
// savings_rate and expense_ratio deltas; +7/+3 per category
// in the favorable/warning bands; clipped to [0, 100].
func budgetHealthScore(savingsRate, expenseRatio float64, categoryRatings []string) float64 {
	score := 50.0

	switch {
	case savingsRate >= 0.20:
		score += 30
	case savingsRate >= 0.10:
		score += 20
	case savingsRate >= 0.05:
		score += 10
	case savingsRate < 0:
		score -= 20
	}

	switch {
	case expenseRatio <= 0.70:
		score += 20
	case expenseRatio <= 0.85:
		score += 10
	case expenseRatio > 1.00:
		score -= 10
	}

	for _, rating := range categoryRatings {
		switch rating {
		case "excellent", "good":
			score += 7
		case "warning":
			score += 3
		}
	}

	return Clip(score, 0, 100)
}

func reduceBudget(in ReduceInput) ReduceOutput {
	var credits, debits float64
	for _, t := range in.Transactions {
		switch t.Direction {
		case model.Credit:
			credits += absAmount(t)
		case model.Debit:
			debits += absAmount(t)
		}
	}

	if credits == 0 && debits == 0 {
		return ReduceOutput{
			NoData:     true,
			Analysis:   map[string]any{"net": 0.0, "savings_rate": 0.0, "health_score": 50.0, "categories": map[string]string{}},
			Statistics: map[string]float64{"net": 0, "savings_rate": 0, "health_score": 50},
		}
	}

	net := credits - debits
	savingsRate := 0.0
	if credits > 0 {
		savingsRate = net / credits
	}
	expenseRatio := 0.0
	if credits > 0 {
		expenseRatio = debits / credits
	}

	sums := make(map[string]float64)
	for _, t := range in.Transactions {
		if t.Direction != model.Debit {
			continue
		}
		sums[CategorizeDescription(t.Description)] += absAmount(t)
	}

	ratings := make(map[string]string, len(sums))
	ratingList := make([]string, 0, len(sums))
	for cat, sum := range sums {
		pct := 0.0
		if debits > 0 {
			pct = 100 * sum / debits
		}
		rating := categoryHealth(pct)
		ratings[cat] = rating
		ratingList = append(ratingList, rating)
	}

	health := budgetHealthScore(savingsRate, expenseRatio, ratingList)

	return ReduceOutput{
		Analysis: map[string]any{
			"net":           round2(net),
			"savings_rate":  round2(savingsRate * 100),
			"expense_ratio": round2(expenseRatio * 100),
			"health_score":  round2(health),
			"categories":    ratings,
		},
		Statistics: map[string]float64{
			"net":          round2(net),
			"savings_rate": round2(savingsRate * 100),
			"health_score": round2(health),
		},
	}
}

func budgetPrompts(category model.AgentCategory) PromptSet {
	return PromptSet{
		Thinking: "You are reviewing a household or business budget from bank statement activity. Think " +
			"through the period, the balance of income to spending, which categories look disciplined or " +
			"overextended, what data would sharpen the read, open questions, and how to present the verdict.",
		Final: "You are the budget agent. Using the reasoning and the computed net, savings rate, expense " +
			"ratio, category ratings, and health score, give a specific verdict on the user's budget, citing " +
			"the health score from the computed summary.",
		Chat: "You are the budget agent answering a follow-up question about a previously analyzed budget.",
	}
}
