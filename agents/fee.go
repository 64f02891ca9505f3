// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package agents

import (
	"strings"

	"github.com/privatefin/finsight/model"
)

// FeeKeywords are description terms that, on their own, mark a debit
// as a bank fee.
var FeeKeywords = []string{"fee", "charge", "atm", "overdraft", "service charge", "penalty"}

// TypicalFeeAmounts is the closed set of round SAR amounts chosen to
// match common Saudi retail-bank fee tiers.
var TypicalFeeAmounts = map[float64]bool{15: true, 25: true, 50: true, 75: true, 100: true}

// KnownBankTokens are description substrings identifying the
// transaction as bank-originated, the second half of the "amount in
// typical-fee-set AND known-bank token" heuristic.
var KnownBankTokens = []string{"bank", "snb", "al rajhi", "riyad bank", "sabb", "alinma", "gib"}

func isFee(t model.Transaction) bool {
	lower := strings.ToLower(t.Description)
	for _, kw := range FeeKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	if TypicalFeeAmounts[round2(absAmount(t))] {
		for _, tok := range KnownBankTokens {
			if strings.Contains(lower, tok) {
				return true
			}
		}
	}
	return false
}

func feeDefinition() AgentDefinition {
	return AgentDefinition{
		Category:     model.CategoryFee,
		Reduce:       reduceFee,
		BuildPrompts: feePrompts,
	}
}

func reduceFee(in ReduceInput) ReduceOutput {
	var fees []model.Transaction
	for _, t := range in.Transactions {
		if t.Direction == model.Debit && isFee(t) {
			fees = append(fees, t)
		}
	}

	if len(fees) == 0 {
		return ReduceOutput{
			NoData:     true,
			Analysis:   map[string]any{"total": 0.0, "recurring": []RecurringSignature{}, "annualized_savings": 0.0},
			Statistics: map[string]float64{"total": 0, "annualized_savings": 0},
		}
	}

	var total float64
	for _, t := range fees {
		total += absAmount(t)
	}

	recurring := DetectRecurring(fees, model.Debit)
	var annualizedSavings float64
	for _, r := range recurring {
		if r.Cadence == "monthly" {
			annualizedSavings += r.Amount * 12
		}
	}

	return ReduceOutput{
		Analysis: map[string]any{
			"total":              round2(total),
			"recurring":          recurring,
			"annualized_savings": round2(annualizedSavings),
			"count":              len(fees),
		},
		Statistics: map[string]float64{"total": round2(total), "annualized_savings": round2(annualizedSavings)},
	}
}

func feePrompts(category model.AgentCategory) PromptSet {
	return PromptSet{
		Thinking: "You are reviewing a Saudi bank statement for fee and charge transactions. Think through " +
			"the period covered, which charges are fees versus ordinary spending, whether any fee recurs " +
			"monthly, what could be avoided, open questions about the fee schedule, and how to present savings.",
		Final: "You are the fee agent. Using the reasoning and the computed fee totals and recurring fee " +
			"detection, answer specifically, citing the total fees paid and the annualized savings figure " +
			"from avoiding recurring fees, drawn only from the computed summary.",
		Chat: "You are the fee agent answering a follow-up question about previously analyzed fees.",
	}
}
