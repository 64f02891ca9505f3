// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package agents

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/privatefin/finsight/model"
)

// MonthKey buckets a time to its "YYYY-MM" month label.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// MonthlyTotals sums the absolute amounts of txs into month buckets,
// keyed by MonthKey, restricted to the given direction.
func MonthlyTotals(txs []model.Transaction, dir model.Direction) map[string]float64 {
	totals := make(map[string]float64)
	for _, t := range txs {
		if t.Direction != dir {
			continue
		}
		key := MonthKey(t.Date)
		totals[key] += math.Abs(model.SignedAmount(t))
	}
	return totals
}

// SortedMonthKeys returns a map's keys in chronological order, relying
// on "YYYY-MM" sorting lexically.
func SortedMonthKeys(totals map[string]float64) []string {
	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LinearTrend fits a least-squares line to (index, value) pairs over
// ordered monthly totals and reports the slope in SAR/month.
func LinearTrend(orderedValues []float64) (slope, intercept float64) {
	n := len(orderedValues)
	if n < 2 {
		return 0, 0
	}
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}
	intercept, slope = stat.LinearRegression(xs, orderedValues, nil, false)
	return slope, intercept
}

// CoefficientOfVariation returns stddev/mean, or 0 when the mean is 0.
func CoefficientOfVariation(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := stat.Mean(values, nil)
	if mean == 0 {
		return 0
	}
	return stat.StdDev(values, nil) / mean
}

// ZScores returns the z-score of each value against the slice's own
// mean/stddev; a zero-stddev slice (all values equal) returns all
// zeros rather than dividing by zero.
func ZScores(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	mean := stat.Mean(values, nil)
	sd := stat.StdDev(values, nil)
	if sd == 0 {
		return out
	}
	for i, v := range values {
		out[i] = (v - mean) / sd
	}
	return out
}

// AnomalyThreshold is the z-score magnitude that defines an anomaly.
const AnomalyThreshold = 2.5

// RecurringSpacing classifies the day gap between two equal-amount
// transactions into a cadence label (30 days apart -> monthly, 14 days
// apart -> biweekly).
func RecurringSpacing(days int) (label string, recurring bool) {
	switch {
	case days >= 25 && days <= 35:
		return "monthly", true
	case days >= 12 && days <= 16:
		return "biweekly", true
	case days >= 6 && days <= 8:
		return "weekly", true
	default:
		return "", false
	}
}

// RecurringSignature is one detected recurring-payment series.
type RecurringSignature struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Cadence     string  `json:"cadence"`
	Occurrences int     `json:"occurrences"`
}

// DetectRecurring groups txs of the given direction by (rounded
// amount, description) and flags groups whose consecutive date gaps
// all fall into one recognized cadence band.
func DetectRecurring(txs []model.Transaction, dir model.Direction) []RecurringSignature {
	type key struct {
		amount float64
		desc   string
	}
	groups := make(map[key][]model.Transaction)
	for _, t := range txs {
		if t.Direction != dir {
			continue
		}
		k := key{amount: math.Round(math.Abs(model.SignedAmount(t))*100) / 100, desc: t.Description}
		groups[k] = append(groups[k], t)
	}

	var out []RecurringSignature
	for k, group := range groups {
		if len(group) < 2 {
			continue
		}
		sort.Slice(group, func(i, j int) bool { return group[i].Date.Before(group[j].Date) })

		cadences := make(map[string]int)
		for i := 1; i < len(group); i++ {
			days := int(group[i].Date.Sub(group[i-1].Date).Hours() / 24)
			label, ok := RecurringSpacing(days)
			if !ok {
				cadences = nil
				break
			}
			cadences[label]++
		}
		if len(cadences) != 1 {
			continue
		}
		var cadence string
		for c := range cadences {
			cadence = c
		}
		out = append(out, RecurringSignature{
			Description: k.desc,
			Amount:      k.amount,
			Cadence:     cadence,
			Occurrences: len(group),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Description < out[j].Description })
	return out
}

// CAGR computes the compound annual growth rate between first and
// last given n full periods; callers must only invoke it with at
// least 3 periods available.
func CAGR(first, last float64, periods int) float64 {
	if periods < 1 || first <= 0 {
		return 0
	}
	return math.Pow(last/first, 1/float64(periods)) - 1
}

// TokenRatio is a length-normalized common-token overlap ratio between
// two strings, used by the transaction_search agent's fuzzy rank. No
// library in the retrieval pack implements string fuzzy matching, so
// this is a deliberate plain-Go reduction.
func TokenRatio(a, b string) float64 {
	at := tokenize(a)
	bt := tokenize(b)
	if len(at) == 0 || len(bt) == 0 {
		return 0
	}
	bSet := make(map[string]bool, len(bt))
	for _, t := range bt {
		bSet[t] = true
	}
	matches := 0
	for _, t := range at {
		if bSet[t] {
			matches++
		}
	}
	denom := len(at)
	if len(bt) > denom {
		denom = len(bt)
	}
	return float64(matches) / float64(denom)
}

func tokenize(s string) []string {
	var tokens []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			tokens = append(tokens, string(cur))
			cur = cur[:0]
		}
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			cur = append(cur, toLowerRune(r))
		default:
			flush()
		}
	}
	flush()
	return tokens
}

func toLowerRune(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

// Clip bounds v to [min, max].
func Clip(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
