// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package agents

import "github.com/privatefin/finsight/model"

func trendDefinition() AgentDefinition {
	return AgentDefinition{
		Category:     model.CategoryTrend,
		Reduce:       reduceTrend,
		BuildPrompts: trendPrompts,
	}
}

// trendDirection classifies a monthly debit-total slope:
// >100 SAR/month is increasing, <-100 is decreasing, else stable.
func trendDirection(slope float64) string {
	switch {
	case slope > 100:
		return "increasing"
	case slope < -100:
		return "decreasing"
	default:
		return "stable"
	}
}

func reduceTrend(in ReduceInput) ReduceOutput {
	if len(in.Transactions) == 0 {
		return ReduceOutput{
			NoData:     true,
			Analysis:   map[string]any{"direction": "insufficient_data", "slope": 0.0, "monthly_totals": map[string]float64{}},
			Statistics: map[string]float64{"slope": 0},
		}
	}

	monthly := MonthlyTotals(in.Transactions, model.Debit)
	keys := SortedMonthKeys(monthly)

	if len(keys) < 2 {
		return ReduceOutput{
			Analysis: map[string]any{
				"direction":      "insufficient_data",
				"slope":          0.0,
				"monthly_totals": monthly,
			},
			Statistics: map[string]float64{"slope": 0},
		}
	}

	values := make([]float64, len(keys))
	for i, k := range keys {
		values[i] = monthly[k]
	}

	slope, intercept := LinearTrend(values)
	direction := trendDirection(slope)

	anomalies := anomalousMonths(keys, values)

	return ReduceOutput{
		Analysis: map[string]any{
			"direction":      direction,
			"slope":          round2(slope),
			"intercept":      round2(intercept),
			"monthly_totals": monthly,
			"anomalies":      anomalies,
		},
		Statistics: map[string]float64{"slope": round2(slope)},
	}
}

// anomalousMonths flags months whose spending z-score exceeds
// AnomalyThreshold.
func anomalousMonths(keys []string, values []float64) []string {
	zs := ZScores(values)
	var out []string
	for i, z := range zs {
		if z > AnomalyThreshold || z < -AnomalyThreshold {
			out = append(out, keys[i])
		}
	}
	return out
}

func trendPrompts(category model.AgentCategory) PromptSet {
	return PromptSet{
		Thinking: "You are reviewing month-over-month spending trends from bank statement activity. Think " +
			"through the period covered, whether spending is rising, falling, or flat, any unusual months, " +
			"what additional periods would sharpen the read, open questions, and how to present the trend.",
		Final: "You are the trend agent. Using the reasoning and the computed monthly totals, slope, and " +
			"direction, describe the trend specifically, citing the direction and slope from the computed " +
			"summary.",
		Chat: "You are the trend agent answering a follow-up question about a previously analyzed trend.",
	}
}
