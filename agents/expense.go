// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package agents

import (
	"math"
	"sort"

	"github.com/privatefin/finsight/model"
)

func expenseDefinition() AgentDefinition {
	return AgentDefinition{
		Category:     model.CategoryExpense,
		Reduce:       reduceExpense,
		BuildPrompts: expensePrompts,
	}
}

// categoryTotal is one row of the expense breakdown, kept sortable by
// sum for top-N ranking.
type categoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Percent  float64 `json:"percent_of_total"`
	Count    int     `json:"count"`
}

func reduceExpense(in ReduceInput) ReduceOutput {
	debits := make([]model.Transaction, 0, len(in.Transactions))
	for _, t := range in.Transactions {
		if t.Direction == model.Debit {
			debits = append(debits, t)
		}
	}

	if len(debits) == 0 {
		return ReduceOutput{
			NoData: true,
			Analysis: map[string]any{
				"categories": map[string]categoryTotal{},
				"total":      0.0,
			},
			Statistics: map[string]float64{"total": 0},
		}
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	var total float64

	for _, t := range debits {
		cat := CategorizeDescription(t.Description)
		amt := absAmount(t)
		sums[cat] += amt
		counts[cat]++
		total += amt
	}

	categories := make(map[string]categoryTotal, len(sums))
	rows := make([]categoryTotal, 0, len(sums))
	for cat, sum := range sums {
		pct := 0.0
		if total > 0 {
			pct = 100 * sum / total
		}
		row := categoryTotal{Category: cat, Total: round2(sum), Percent: round2(pct), Count: counts[cat]}
		categories[cat] = row
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Total > rows[j].Total })

	stats := map[string]float64{"total": round2(total)}
	for _, r := range rows {
		stats[r.Category+"_total"] = r.Total
	}

	return ReduceOutput{
		Analysis: map[string]any{
			"categories": categories,
			"top":        rows,
			"total":      round2(total),
		},
		Statistics: stats,
	}
}

func expensePrompts(category model.AgentCategory) PromptSet {
	return PromptSet{
		Thinking: "You are a financial analyst reviewing a Saudi bank statement's debit transactions. " +
			"Think through: the time period covered, which spending categories appear, what kind of analysis " +
			"is being asked for, the business or household context implied by the merchants, what additional " +
			"data would sharpen the answer, open questions about intent, and the shape the final answer should take.",
		Final: "You are the expense agent. Using the reasoning and the computed category totals provided, " +
			"write a concise, specific answer about the user's spending. Cite category totals and percentages " +
			"from the computed summary; never invent figures not present there.",
		Chat: "You are the expense agent answering a follow-up question about previously analyzed spending.",
	}
}

func absAmount(t model.Transaction) float64 {
	a := model.SignedAmount(t)
	if a < 0 {
		return -a
	}
	return a
}

// round2 rounds v to two decimal places, the precision every agent's
// SAR-denominated statistic is reported at.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
