// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package router

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/privatefin/finsight/model"
)

var (
	isoDateRe   = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
	slashDateRe = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)
	longDateRe  = regexp.MustCompile(`(?i)\b(\d{1,2})\s+(January|February|March|April|May|June|July|August|September|October|November|December)\b`)

	amountRe = regexp.MustCompile(`(?i)\bSAR\s*([\d,]+(?:\.\d+)?)\b|\b([\d,]+(?:\.\d+)?)\s*SAR\b|\b(?:over|above|more than)\s+([\d,]+(?:\.\d+)?)\b|\b(?:under|below|less than)\s+([\d,]+(?:\.\d+)?)\b`)

	quotedMerchantRe = regexp.MustCompile(`"([^"]+)"`)
	prepMerchantRe   = regexp.MustCompile(`\b(?:at|from|to)\s+([A-Z][A-Za-z0-9&.\-]*(?:\s+[A-Z][A-Za-z0-9&.\-]*)*)`)

	monthNames = map[string]time.Month{
		"january": time.January, "february": time.February, "march": time.March,
		"april": time.April, "may": time.May, "june": time.June,
		"july": time.July, "august": time.August, "september": time.September,
		"october": time.October, "november": time.November, "december": time.December,
	}
)

// ExtractFilters parses a free-text query into structured Filters.
// now anchors relative date expressions ("last month", "yesterday").
func ExtractFilters(query string, now time.Time) model.Filters {
	var f model.Filters

	if dr := extractDateRange(query, now); dr != nil {
		f.Dates = dr
	}
	if ar := extractAmountRange(query); ar != nil {
		f.Amounts = ar
	}
	if m := extractMerchants(query); len(m) > 0 {
		f.Merchants = m
	}
	if k := extractKeywords(query); len(k) > 0 {
		f.Keywords = k
	}
	if strings.Contains(strings.ToLower(query), "credit") {
		f.Type = "credit"
	} else if strings.Contains(strings.ToLower(query), "debit") {
		f.Type = "debit"
	}

	return f
}

func expandToDay(t time.Time) *model.DateRange {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)
	return &model.DateRange{Start: model.FormatDate(start), End: model.FormatDate(end)}
}

func extractDateRange(query string, now time.Time) *model.DateRange {
	lower := strings.ToLower(query)

	switch {
	case strings.Contains(lower, "yesterday"):
		return expandToDay(now.AddDate(0, 0, -1))
	case strings.Contains(lower, "today"):
		return expandToDay(now)
	case strings.Contains(lower, "last month"):
		firstOfThisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		firstOfLastMonth := firstOfThisMonth.AddDate(0, -1, 0)
		return &model.DateRange{Start: model.FormatDate(firstOfLastMonth), End: model.FormatDate(firstOfThisMonth)}
	case strings.Contains(lower, "this month"):
		firstOfThisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		firstOfNextMonth := firstOfThisMonth.AddDate(0, 1, 0)
		return &model.DateRange{Start: model.FormatDate(firstOfThisMonth), End: model.FormatDate(firstOfNextMonth)}
	}

	if m := isoDateRe.FindStringSubmatch(query); m != nil {
		if t, err := model.ParseDate(m[1]); err == nil {
			return expandToDay(t)
		}
	}

	if m := slashDateRe.FindStringSubmatch(query); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if day >= 1 && day <= 31 && month >= 1 && month <= 12 {
			t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
			return expandToDay(t)
		}
	}

	if m := longDateRe.FindStringSubmatch(query); m != nil {
		day, _ := strconv.Atoi(m[1])
		if month, ok := monthNames[strings.ToLower(m[2])]; ok {
			t := time.Date(now.Year(), month, day, 0, 0, 0, 0, time.UTC)
			return expandToDay(t)
		}
	}

	return nil
}

func extractAmountRange(query string) *model.AmountRange {
	lower := strings.ToLower(query)
	m := amountRe.FindStringSubmatch(query)
	if m == nil {
		return nil
	}

	var raw string
	for _, g := range m[1:] {
		if g != "" {
			raw = g
			break
		}
	}
	if raw == "" {
		return nil
	}

	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		return nil
	}

	switch {
	case strings.Contains(lower, "over") || strings.Contains(lower, "above") || strings.Contains(lower, "more than"):
		return &model.AmountRange{Min: v, Max: 1e15}
	case strings.Contains(lower, "under") || strings.Contains(lower, "below") || strings.Contains(lower, "less than"):
		return &model.AmountRange{Min: -1e15, Max: v}
	default:
		// Exact amount match: +/-1 tolerance.
		return &model.AmountRange{Min: v - 1, Max: v + 1}
	}
}

func extractMerchants(query string) []string {
	var merchants []string
	seen := make(map[string]bool)

	for _, m := range quotedMerchantRe.FindAllStringSubmatch(query, -1) {
		if !seen[m[1]] {
			merchants = append(merchants, m[1])
			seen[m[1]] = true
		}
	}
	for _, m := range prepMerchantRe.FindAllStringSubmatch(query, -1) {
		if !seen[m[1]] {
			merchants = append(merchants, m[1])
			seen[m[1]] = true
		}
	}
	return merchants
}

func extractKeywords(query string) []string {
	lower := strings.ToLower(query)
	var found []string
	for _, kw := range DomainKeywords {
		if strings.Contains(lower, kw) {
			found = append(found, kw)
		}
	}
	return found
}
