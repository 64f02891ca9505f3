// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package agents

import (
	"sort"
	"strings"
	"time"

	"github.com/privatefin/finsight/model"
)

func transactionSearchDefinition() AgentDefinition {
	return AgentDefinition{
		Category:     model.CategoryTransactionSearch,
		Reduce:       reduceTransactionSearch,
		BuildPrompts: transactionSearchPrompts,
	}
}

// rankedTransaction is one scored hit in the transaction_search
// reduction's relevance formula: +50 exact substring match,
// +0.5*token_ratio, +20 if within the last 7 days.
type rankedTransaction struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Relevance   float64 `json:"relevance"`
}

func reduceTransactionSearch(in ReduceInput) ReduceOutput {
	if len(in.Transactions) == 0 {
		return ReduceOutput{
			NoData:     true,
			Analysis:   map[string]any{"matches": []rankedTransaction{}},
			Statistics: map[string]float64{"match_count": 0},
		}
	}

	query := strings.ToLower(in.Query)
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	ranked := make([]rankedTransaction, 0, len(in.Transactions))
	for _, t := range in.Transactions {
		relevance := 0.0
		lowerDesc := strings.ToLower(t.Description)

		if query != "" && strings.Contains(lowerDesc, query) {
			relevance += 50
		}
		if query != "" {
			relevance += 0.5 * TokenRatio(query, t.Description)
		}
		if now.Sub(t.Date) <= 7*24*time.Hour && now.Sub(t.Date) >= 0 {
			relevance += 20
		}

		ranked = append(ranked, rankedTransaction{
			Date:        t.Date.Format("2006-01-02"),
			Description: t.Description,
			Amount:      round2(model.SignedAmount(t)),
			Relevance:   round2(relevance),
		})
	}

	sort.Slice(ranked, func(i, j int) bool { return ranked[i].Relevance > ranked[j].Relevance })

	return ReduceOutput{
		Analysis:   map[string]any{"matches": ranked},
		Statistics: map[string]float64{"match_count": float64(len(ranked))},
	}
}

func transactionSearchPrompts(category model.AgentCategory) PromptSet {
	return PromptSet{
		Thinking: "You are searching a Saudi bank statement for transactions matching a user's description. " +
			"Think through what the user is looking for, which fields (merchant, amount, date) are most " +
			"discriminating, what ranking is appropriate, open questions about ambiguous terms, and how to " +
			"present the matches.",
		Final: "You are the transaction_search agent. Using the reasoning and the ranked matches provided, " +
			"list the most relevant transactions specifically, citing dates and amounts from the computed " +
			"summary only.",
		Chat: "You are the transaction_search agent answering a follow-up question about a previous search.",
	}
}
