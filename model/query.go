// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package model

// QueryType is the closed set of intent classifications the Query
// Understander may produce.
type QueryType string

const (
	QueryExpense           QueryType = "expense"
	QueryIncome            QueryType = "income"
	QueryFee               QueryType = "fee"
	QueryBudget            QueryType = "budget"
	QueryTransactionSearch QueryType = "transaction_search"
	QueryRatioAnalysis     QueryType = "ratio_analysis"
	QueryProfitability     QueryType = "profitability_analysis"
	QueryLiquidity         QueryType = "liquidity_analysis"
	QueryRiskAssessment    QueryType = "risk_assessment"
	QueryEfficiency        QueryType = "efficiency_analysis"

	// QueryTrendAnalysis covers both transaction spending trends and
	// financial statement trends; the router resolves it to the trend
	// or financial_trend agent by document type.
	QueryTrendAnalysis QueryType = "trend_analysis"

	QueryMultiStatement   QueryType = "multi_statement"
	QuerySpecificLineItem QueryType = "specific_line_item"
	QueryGeneralOverview  QueryType = "general_overview"
)

// QueryTypes is the closed set of wire values a QueryIntent may carry.
var QueryTypes = []QueryType{
	QueryExpense, QueryIncome, QueryFee, QueryBudget,
	QueryTransactionSearch, QueryRatioAnalysis, QueryProfitability,
	QueryLiquidity, QueryRiskAssessment, QueryEfficiency,
	QueryTrendAnalysis, QueryMultiStatement, QuerySpecificLineItem,
	QueryGeneralOverview,
}

// Valid reports whether q is one of the closed-set wire values.
func (q QueryType) Valid() bool {
	for _, known := range QueryTypes {
		if q == known {
			return true
		}
	}
	return false
}

// AmountRange is an inclusive [Min, Max] bound on a Transaction's
// absolute amount - magnitude, not signed value, so a debit's negative
// SignedAmount still matches a filter like "payments over 15000".
type AmountRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DateRange is a half-open [Start, End) window, day precision.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Filters are the structured predicates extracted from a free-text
// query, composed conjunctively during retrieval.
type Filters struct {
	Dates     *DateRange   `json:"dates,omitempty"`
	Amounts   *AmountRange `json:"amounts,omitempty"`
	Merchants []string     `json:"merchants,omitempty"`
	Keywords  []string     `json:"keywords,omitempty"`
	Type      string       `json:"type,omitempty"`
}

// IsEmpty reports whether no predicate was extracted, meaning a chat
// query should fall back to the cached analysis alone rather than
// issuing a filtered retrieval.
func (f Filters) IsEmpty() bool {
	return f.Dates == nil && f.Amounts == nil && len(f.Merchants) == 0 && len(f.Keywords) == 0 && f.Type == ""
}

// Validate rejects filters that cannot shape a retrieval: an inverted
// date range or an inverted amount interval.
func (f Filters) Validate() error {
	if f.Dates != nil && f.Dates.End < f.Dates.Start {
		return ErrInvalidField.WithDetail("field", "filters.dates").WithDetail("reason", "inverted range")
	}
	if f.Amounts != nil && f.Amounts.Max < f.Amounts.Min {
		return ErrInvalidField.WithDetail("field", "filters.amounts").WithDetail("reason", "inverted range")
	}
	return nil
}

// AgentRouting names the primary agent chosen for a query and,
// optionally, a secondary agent worth consulting.
type AgentRouting struct {
	Primary   AgentCategory  `json:"primary"`
	Secondary *AgentCategory `json:"secondary,omitempty"`
}

// QueryIntent is the structured output of the Query Understander.
type QueryIntent struct {
	QueryType    QueryType    `json:"query_type"`
	Filters      Filters      `json:"filters"`
	UploadID     string       `json:"upload_id"`
	AgentRouting AgentRouting `json:"agent_routing"`
	Confidence   float64      `json:"confidence"`
	SearchTerms  []string     `json:"search_terms,omitempty"`
}

// Validate rejects a QueryIntent missing its required upload_id or
// carrying an out-of-range confidence.
func (qi QueryIntent) Validate() error {
	if qi.UploadID == "" {
		return ErrMissingField.WithDetail("field", "upload_id")
	}
	if qi.Confidence < 0 || qi.Confidence > 1 {
		return ErrInvalidField.WithDetail("field", "confidence").WithDetail("value", qi.Confidence)
	}
	if qi.AgentRouting.Primary == "" {
		return ErrMissingField.WithDetail("field", "agent_routing.primary")
	}
	return qi.Filters.Validate()
}
