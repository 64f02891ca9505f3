// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package model

import (
	"encoding/json"
	"fmt"
	"sort"
)

// StatementKind identifies which section of a parsed financial
// statement a FinancialLineItem was drawn from.
type StatementKind string

const (
	BalanceSheet    StatementKind = "balance_sheet"
	IncomeStatement StatementKind = "income_statement"
	CashFlow        StatementKind = "cash_flow"
	Ratio           StatementKind = "ratio"
)

// FinancialLineItem is a single named measurement from a parsed
// statement, paired across the current and prior period.
type FinancialLineItem struct {
	Name          string        `json:"name"`
	Kind          StatementKind `json:"kind"`
	Section       string        `json:"section"`
	Current       float64       `json:"current"`
	Prior         float64       `json:"prior"`
	PercentChange float64       `json:"percent_change"`
}

// Validate rejects a FinancialLineItem with an empty name or an
// unrecognized Kind.
func (li FinancialLineItem) Validate() error {
	if li.Name == "" {
		return ErrMissingField.WithDetail("field", "name")
	}
	switch li.Kind {
	case BalanceSheet, IncomeStatement, CashFlow, Ratio:
	default:
		return ErrInvalidField.WithDetail("field", "kind").WithDetail("value", string(li.Kind))
	}
	return nil
}

// CanonicalText renders the deterministic text used by the semantic
// store to embed a FinancialLineItem document.
func (li FinancialLineItem) CanonicalText(company, period string) string {
	return fmt.Sprintf("%s %s: %s - %s - %s: Current %.2f, Prior %.2f, Change %.1f%%",
		company, period, li.Kind, li.Section, li.Name, li.Current, li.Prior, li.PercentChange)
}

// FinancialStatement is the Go-native shape of a parsed statement: a
// company identity, the comparison periods it covers, and the four
// line-item sections described in the statement contract.
type FinancialStatement struct {
	Company         string              `json:"company"`
	CurrentPeriod   string              `json:"current_period"`
	PriorPeriod     string              `json:"prior_period"`
	BalanceSheet    []FinancialLineItem `json:"balance_sheet"`
	IncomeStatement []FinancialLineItem `json:"income_statement"`
	CashFlow        []FinancialLineItem `json:"cash_flow"`
	Ratios          []FinancialLineItem `json:"ratios"`
}

// Validate checks that the statement identifies a company and period
// and that every contained line item is itself valid.
func (fs FinancialStatement) Validate() error {
	if fs.Company == "" {
		return ErrMissingField.WithDetail("field", "company")
	}
	if fs.CurrentPeriod == "" {
		return ErrMissingField.WithDetail("field", "current_period")
	}
	for _, items := range [][]FinancialLineItem{fs.BalanceSheet, fs.IncomeStatement, fs.CashFlow, fs.Ratios} {
		for _, li := range items {
			if err := li.Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

// statementJSON is the parser-boundary wire shape of a statement: a
// company_info block, a periods pair, and four sections whose leaves
// are {current, prior} pairs keyed by item name - either directly or
// grouped one level deeper under a section tag. Marshalling back out
// uses the flat struct fields above; the nested map exists only on
// the way in.
type statementJSON struct {
	CompanyInfo     companyInfoJSON            `json:"company_info"`
	Periods         periodsJSON                `json:"periods"`
	BalanceSheet    map[string]json.RawMessage `json:"balance_sheet"`
	IncomeStatement map[string]json.RawMessage `json:"income_statement"`
	CashFlow        map[string]json.RawMessage `json:"cash_flow"`
	Ratios          map[string]json.RawMessage `json:"ratios"`
}

type companyInfoJSON struct {
	Name string `json:"name"`
}

type periodsJSON struct {
	Current string `json:"current"`
	Prior   string `json:"prior"`
}

type periodPairJSON struct {
	Current *float64 `json:"current"`
	Prior   *float64 `json:"prior"`
}

// UnmarshalJSON accepts the nested-map wire shape. Percent changes are
// precomputed here, at the boundary, so every line item carries one
// before it reaches the Indexer.
func (fs *FinancialStatement) UnmarshalJSON(data []byte) error {
	// A statement already in the flat struct shape (e.g. one this
	// package marshalled itself) decodes directly.
	type flatStatement FinancialStatement
	var flat flatStatement
	if err := json.Unmarshal(data, &flat); err == nil && (len(flat.BalanceSheet)+len(flat.IncomeStatement)+len(flat.CashFlow)+len(flat.Ratios)) > 0 {
		*fs = FinancialStatement(flat)
		return nil
	}

	var w statementJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	out := FinancialStatement{
		Company:       w.CompanyInfo.Name,
		CurrentPeriod: w.Periods.Current,
		PriorPeriod:   w.Periods.Prior,
	}

	var err error
	if out.BalanceSheet, err = parseSection(w.BalanceSheet, BalanceSheet, ""); err != nil {
		return err
	}
	if out.IncomeStatement, err = parseSection(w.IncomeStatement, IncomeStatement, ""); err != nil {
		return err
	}
	if out.CashFlow, err = parseSection(w.CashFlow, CashFlow, ""); err != nil {
		return err
	}
	if out.Ratios, err = parseSection(w.Ratios, Ratio, ""); err != nil {
		return err
	}

	*fs = out
	return nil
}

// parseSection walks one section of the nested map. A value holding a
// {current, prior} pair becomes a line item at the current section
// path; any other object recurses one level deeper with its key
// appended to the section tag.
func parseSection(section map[string]json.RawMessage, kind StatementKind, path string) ([]FinancialLineItem, error) {
	names := make([]string, 0, len(section))
	for name := range section {
		names = append(names, name)
	}
	sort.Strings(names)

	var items []FinancialLineItem
	for _, name := range names {
		raw := section[name]

		var pair periodPairJSON
		if err := json.Unmarshal(raw, &pair); err == nil && (pair.Current != nil || pair.Prior != nil) {
			li := FinancialLineItem{Name: name, Kind: kind, Section: path}
			if pair.Current != nil {
				li.Current = *pair.Current
			}
			if pair.Prior != nil {
				li.Prior = *pair.Prior
			}
			if li.Prior != 0 {
				li.PercentChange = (li.Current - li.Prior) / li.Prior * 100
			}
			items = append(items, li)
			continue
		}

		var nested map[string]json.RawMessage
		if err := json.Unmarshal(raw, &nested); err != nil {
			return nil, ErrInvalidField.WithDetail("field", string(kind)+"."+name)
		}
		childPath := name
		if path != "" {
			childPath = path + "." + name
		}
		children, err := parseSection(nested, kind, childPath)
		if err != nil {
			return nil, err
		}
		items = append(items, children...)
	}
	return items, nil
}

// Flatten concatenates every section into a single slice, the shape
// the Indexer hands to IndexFinancialData.
func (fs FinancialStatement) Flatten() []FinancialLineItem {
	out := make([]FinancialLineItem, 0, len(fs.BalanceSheet)+len(fs.IncomeStatement)+len(fs.CashFlow)+len(fs.Ratios))
	out = append(out, fs.BalanceSheet...)
	out = append(out, fs.IncomeStatement...)
	out = append(out, fs.CashFlow...)
	out = append(out, fs.Ratios...)
	return out
}
