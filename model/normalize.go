// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are the formats the Indexer's callers are expected to
// hand in; ISO is tried first since it is both the most common and
// unambiguous.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"02/01/2006",
	"2 January 2006",
	"January 2, 2006",
}

// ParseDate normalizes a date string from any of the supported input
// layouts to a UTC, day-precision time.Time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, ErrInvalidField.WithDetail("field", "date").WithDetail("value", s)
}

// FormatDate renders a time.Time in the canonical day-precision form
// used throughout indexing and display.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// ParseMoney normalizes a monetary string that may carry an "SAR"
// prefix/suffix, thousands separators, or surrounding whitespace into
// a float64. It does not infer sign from Direction; callers combine
// this with SignedAmount where a signed value is needed.
func ParseMoney(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(strings.TrimPrefix(s, "SAR"), "SAR")
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, ErrMissingField.WithDetail("field", "amount")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidField.WithDetail("field", "amount").WithDetail("value", s)
	}
	return v, nil
}

// FormatMoney renders a float64 as a fixed two-decimal SAR amount.
func FormatMoney(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
