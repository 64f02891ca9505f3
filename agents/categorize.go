// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package agents

import "strings"

// categoryRule maps a set of description keywords to an expense
// category label. Externalized as data, evaluated in order - the
// first matching rule wins - so more specific categories can precede
// catch-alls.
type categoryRule struct {
	keywords []string
	category string
}

// UncategorizedBucket is the residual category a debit falls into
// when no rule matches.
const UncategorizedBucket = "uncategorized"

// ExpenseCategoryRules is the closed vocabulary the expense and
// budget agents categorize debit descriptions with.
var ExpenseCategoryRules = []categoryRule{
	{keywords: []string{"gosi", "qiwa", "zakat", "vat", "sadad"}, category: "government_compliance"},
	{keywords: []string{"rent", "lease", "electricity", "water bill", "utility", "utilities"}, category: "operational"},
	{keywords: []string{"salary", "payroll", "wage"}, category: "payroll"},
	{keywords: []string{"swift", "wire transfer", "remittance"}, category: "transfers"},
	{keywords: []string{"atm", "overdraft", "service charge", "bank fee"}, category: "fees"},
	{keywords: []string{"subscription", "netflix", "spotify"}, category: "subscriptions"},
	{keywords: []string{"mada", "pos purchase", "retail"}, category: "retail"},
	{keywords: []string{"mortgage", "loan installment"}, category: "debt_service"},
}

// CategorizeDescription returns the category label for a transaction
// description, matching rules case-insensitively in declared order.
func CategorizeDescription(description string) string {
	lower := strings.ToLower(description)
	for _, rule := range ExpenseCategoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return UncategorizedBucket
}
