// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package agents

import (
	"strings"

	"github.com/privatefin/finsight/model"
)

func financialTrendDefinition() AgentDefinition {
	return AgentDefinition{
		Category:     model.CategoryFinancialTrend,
		Reduce:       reduceFinancialTrend,
		BuildPrompts: financialTrendPrompts,
	}
}

// financialPeriods counts how many periods a statement provides: 2
// when both the current and prior period labels are set, otherwise 1.
// The inbound shape carries only current/prior, so the count never
// reaches the >=3 period floor and CAGR stays nil for every
// statement.
func financialPeriods(s *model.FinancialStatement) int {
	if s.CurrentPeriod != "" && s.PriorPeriod != "" {
		return 2
	}
	return 1
}

func reduceFinancialTrend(in ReduceInput) ReduceOutput {
	if statementEmpty(in.Statement) {
		return ReduceOutput{
			NoData:     true,
			Analysis:   map[string]any{"revenue_growth_yoy": nil, "cagr": nil, "seasonal_tags": []string{}},
			Statistics: map[string]float64{},
		}
	}

	is := in.Statement.IncomeStatement
	revenue := currentOf(is, "revenue", "net sales", "total revenue")
	priorRevenue := priorOf(is, "revenue", "net sales", "total revenue")

	growth := safeDivide(revenue-priorRevenue, priorRevenue)
	basis := growthBasis(in.Statement.CurrentPeriod, in.Statement.PriorPeriod)

	var cagr *float64
	periods := financialPeriods(in.Statement)
	if periods >= 3 {
		v := round2(CAGR(priorRevenue, revenue, periods))
		cagr = &v
	}

	tags := seasonalTags(in.Statement.CurrentPeriod)

	stats := map[string]float64{}
	addIfSet(stats, "revenue_growth_"+basis, growth)
	addIfSet(stats, "cagr", cagr)

	return ReduceOutput{
		Analysis: map[string]any{
			"revenue_growth_" + basis: growth,
			"growth_basis":            basis,
			"cagr":                    nullable(cagr),
			"seasonal_tags":           tags,
		},
		Statistics: stats,
	}
}

// growthBasis labels the current-vs-prior growth figure by what the
// two period labels actually compare: different quarters
// (Q3 2025 vs Q2 2025) are quarter-over-quarter; everything else -
// annual labels, or the same quarter across two years - is
// year-over-year.
func growthBasis(current, prior string) string {
	cq, cok := quarterOf(current)
	pq, pok := quarterOf(prior)
	if cok && pok && cq != pq {
		return "qoq"
	}
	return "yoy"
}

func quarterOf(period string) (string, bool) {
	lower := strings.ToLower(period)
	for _, q := range []string{"q1", "q2", "q3", "q4"} {
		if strings.Contains(lower, q) {
			return q, true
		}
	}
	return "", false
}

// seasonalTags flags calendar-quarter labels commonly associated with
// seasonal demand swings in a Saudi retail/consumer business.
func seasonalTags(period string) []string {
	lower := strings.ToLower(period)
	var tags []string
	switch {
	case strings.Contains(lower, "q4"):
		tags = append(tags, "year_end_peak")
	case strings.Contains(lower, "q2"):
		tags = append(tags, "ramadan_eid_window")
	}
	return tags
}

func financialTrendPrompts(category model.AgentCategory) PromptSet {
	return PromptSet{
		Thinking: "You are reviewing a company's financial trend across periods. Think through what periods " +
			"are being compared, whether growth is accelerating or decelerating, seasonal effects that may " +
			"apply, what additional periods would sharpen CAGR, open questions, and how to present the trend.",
		Final: "You are the financial_trend agent. Using the reasoning and the computed YoY growth, CAGR " +
			"(when available), and seasonal tags provided, give a specific assessment, citing the exact " +
			"figures from the computed summary.",
		Chat: "You are the financial_trend agent answering a follow-up question about a previously analyzed trend.",
	}
}
