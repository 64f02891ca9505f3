// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package agents

import (
	"github.com/privatefin/finsight/model"
)

func incomeDefinition() AgentDefinition {
	return AgentDefinition{
		Category:     model.CategoryIncome,
		Reduce:       reduceIncome,
		BuildPrompts: incomePrompts,
	}
}

func reduceIncome(in ReduceInput) ReduceOutput {
	var credits []model.Transaction
	for _, t := range in.Transactions {
		if t.Direction == model.Credit {
			credits = append(credits, t)
		}
	}

	if len(credits) == 0 {
		return ReduceOutput{
			NoData:     true,
			Analysis:   map[string]any{"total": 0.0, "salary_events": []RecurringSignature{}, "stability_score": 0.0},
			Statistics: map[string]float64{"total": 0, "stability_score": 0},
		}
	}

	var total float64
	for _, t := range credits {
		total += absAmount(t)
	}

	salaryEvents := DetectRecurring(credits, model.Credit)

	monthly := MonthlyTotals(credits, model.Credit)
	values := make([]float64, 0, len(monthly))
	for _, k := range SortedMonthKeys(monthly) {
		values = append(values, monthly[k])
	}

	stability := 0.0
	if len(values) > 0 {
		cv := CoefficientOfVariation(values)
		stability = Clip(100*(1-cv), 0, 100)
	}

	return ReduceOutput{
		Analysis: map[string]any{
			"total":           round2(total),
			"salary_events":   salaryEvents,
			"stability_score": round2(stability),
			"monthly_totals":  monthly,
		},
		Statistics: map[string]float64{"total": round2(total), "stability_score": round2(stability)},
	}
}

func incomePrompts(category model.AgentCategory) PromptSet {
	return PromptSet{
		Thinking: "You are reviewing a Saudi bank statement's credit transactions. Think through the time " +
			"period, the income sources present, whether a recurring salary pattern exists, the stability " +
			"implied by the cadence and amounts, what's missing to be more precise, open questions, and how " +
			"the final answer should be framed.",
		Final: "You are the income agent. Using the reasoning and the computed totals and recurring-salary " +
			"detection provided, answer specifically about the user's income, citing the stability score and " +
			"detected recurring events from the computed summary.",
		Chat: "You are the income agent answering a follow-up question about previously analyzed income.",
	}
}
