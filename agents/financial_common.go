// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package agents

import (
	"strings"

	"github.com/privatefin/finsight/model"
)

// findLineItem returns the first line item among items whose Name
// contains any of substrs, case-insensitively - financial statements
// in the wild don't share one canonical line-item taxonomy, so every
// financial reduction matches on recognizable fragments rather than
// exact keys.
func findLineItem(items []model.FinancialLineItem, substrs ...string) (model.FinancialLineItem, bool) {
	for _, item := range items {
		lower := strings.ToLower(item.Name)
		for _, s := range substrs {
			if strings.Contains(lower, s) {
				return item, true
			}
		}
	}
	return model.FinancialLineItem{}, false
}

// currentOf returns item.Current for the first match, or 0 if absent.
func currentOf(items []model.FinancialLineItem, substrs ...string) float64 {
	item, ok := findLineItem(items, substrs...)
	if !ok {
		return 0
	}
	return item.Current
}

// priorOf returns item.Prior for the first match, or 0 if absent.
func priorOf(items []model.FinancialLineItem, substrs ...string) float64 {
	item, ok := findLineItem(items, substrs...)
	if !ok {
		return 0
	}
	return item.Prior
}

// safeDivide implements the "division by zero -> null, never
// infinity" rule: nil denotes null in the Analysis/JSON output.
func safeDivide(numerator, denominator float64) *float64 {
	if denominator == 0 {
		return nil
	}
	v := round2(numerator / denominator)
	return &v
}

// nullable unwraps a *float64 into an untyped nil when unset, so an
// Analysis map entry compares equal to nil instead of holding a typed
// nil pointer inside the interface.
func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return v
}

// statementEmpty reports whether a statement carries no line items at
// all, the financial-agent equivalent of an empty transaction set.
func statementEmpty(s *model.FinancialStatement) bool {
	if s == nil {
		return true
	}
	return len(s.BalanceSheet) == 0 && len(s.IncomeStatement) == 0 && len(s.CashFlow) == 0 && len(s.Ratios) == 0
}
