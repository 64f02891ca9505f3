// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package router

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/privatefin/finsight/llmclient"
	"github.com/privatefin/finsight/model"
	"github.com/privatefin/finsight/observability/logging"
	fserrors "github.com/privatefin/finsight/pkg/errors"
)

// FallbackConfidence is the confidence assigned whenever the keyword
// matcher is authoritative - either because no classifier is
// configured, the classifier call failed, or its output didn't parse.
const FallbackConfidence = 0.5

// ConfidenceFloor is the minimum confidence a classifier-produced
// intent must clear before it is trusted; below it the classifier's
// answer is discarded and the keyword matcher decides at
// FallbackConfidence, so the per-document-type default agent is used
// only when no keyword trigger matches.
const ConfidenceFloor = 0.5

// Config configures a Router.
type Config struct {
	// Classifier is the small, fast model consulted first. Nil means
	// the keyword/regex matcher is used unconditionally.
	Classifier llmclient.Provider

	// ModelID names the model the classifier should run as.
	ModelID string

	// Logger receives a structured warning whenever the classifier
	// call is skipped or its output is discarded.
	Logger logging.Logger

	// Now returns the current time, used to resolve relative date
	// expressions ("last month"). Defaults to time.Now.
	Now func() time.Time
}

// Router implements the Query Understander.
type Router struct {
	classifier llmclient.Provider
	modelID    string
	logger     logging.Logger
	now        func() time.Time
}

// New builds a Router from cfg.
func New(cfg Config) *Router {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewStructuredLogger(logging.LevelInfo)
	}
	return &Router{
		classifier: cfg.Classifier,
		modelID:    cfg.ModelID,
		logger:     logger,
		now:        now,
	}
}

// classifierOutput is the JSON shape the classifier model is asked to
// produce. query_type and agent are validated against the closed sets
// in model before being trusted.
type classifierOutput struct {
	QueryType  string  `json:"query_type"`
	Agent      string  `json:"agent"`
	Confidence float64 `json:"confidence"`
}

// Understand classifies query into a model.QueryIntent, pinning it to
// uploadID. docType selects which trigger table and default agent
// apply. A classifier is tried first; any failure - unavailable model,
// timeout, unparsable output, or a confidence below ConfidenceFloor -
// falls through to the deterministic keyword matcher at
// FallbackConfidence.
func (r *Router) Understand(ctx context.Context, query string, docType model.DocumentType, uploadID string) (model.QueryIntent, error) {
	filters := ExtractFilters(query, r.now())

	if qt, agent, confidence, ok := r.classify(ctx, query, docType); ok && confidence >= ConfidenceFloor {
		intent := model.QueryIntent{
			QueryType:    qt,
			Filters:      filters,
			UploadID:     uploadID,
			AgentRouting: model.AgentRouting{Primary: agent},
			Confidence:   confidence,
			SearchTerms:  extractKeywords(query),
		}
		if err := intent.Validate(); err == nil {
			return intent, nil
		}
	}

	qt, agent := r.keywordClassify(query, docType)
	intent := model.QueryIntent{
		QueryType:    qt,
		Filters:      filters,
		UploadID:     uploadID,
		AgentRouting: model.AgentRouting{Primary: agent},
		Confidence:   FallbackConfidence,
		SearchTerms:  extractKeywords(query),
	}

	if err := intent.Validate(); err != nil {
		return model.QueryIntent{}, fserrors.ErrInvalidQuery.WithDetail("reason", err.Error())
	}
	return intent, nil
}

// classify asks the classifier model for a query_type/agent pair. ok
// is false if no classifier is configured, the call failed, or the
// response didn't decode to a recognized query_type/agent pair.
func (r *Router) classify(ctx context.Context, query string, docType model.DocumentType) (model.QueryType, model.AgentCategory, float64, bool) {
	if r.classifier == nil {
		return "", "", 0, false
	}

	req := &llmclient.CompletionRequest{
		Model: r.modelID,
		Messages: []llmclient.Message{
			{Role: llmclient.RoleSystem, Content: classifierSystemPrompt(docType)},
			{Role: llmclient.RoleUser, Content: query},
		},
		Think:       false,
		Temperature: 0,
	}

	resp, err := r.classifier.Complete(ctx, req)
	if err != nil {
		r.logger.Warn(ctx, "router classifier call failed, falling back to keyword matcher", logging.String("error", err.Error()))
		return "", "", 0, false
	}

	raw := extractJSONObject(resp.Content)
	if raw == "" {
		r.logger.Warn(ctx, "router classifier returned no balanced JSON object, falling back to keyword matcher")
		return "", "", 0, false
	}

	var out classifierOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		r.logger.Warn(ctx, "router classifier JSON did not decode, falling back to keyword matcher", logging.String("error", err.Error()))
		return "", "", 0, false
	}

	qt := model.QueryType(out.QueryType)
	if !qt.Valid() {
		return "", "", 0, false
	}
	agent := model.AgentCategory(out.Agent)
	if !agentAppliesTo(agent, docType) {
		agent = RouteAgent(qt, docType)
	}

	confidence := out.Confidence
	if confidence <= 0 || confidence > 1 {
		confidence = 0
	}

	return qt, agent, confidence, true
}

// keywordClassify scores every trigger applicable to docType against
// the lowercased query and returns the QueryType with the highest
// total weight, or the conservative per-document default if nothing
// matched.
func (r *Router) keywordClassify(query string, docType model.DocumentType) (model.QueryType, model.AgentCategory) {
	lower := strings.ToLower(query)

	scores := make(map[model.QueryType]int)
	for _, trig := range triggersFor(docType) {
		if strings.Contains(lower, trig.term) {
			scores[trig.qtype] += trig.weight
		}
	}

	// Ties break lexically so routing is deterministic for a given query.
	var best model.QueryType
	bestScore := 0
	for qt, score := range scores {
		if score > bestScore || (score == bestScore && score > 0 && qt < best) {
			best = qt
			bestScore = score
		}
	}

	if best == "" {
		return model.QueryGeneralOverview, DefaultAgent(docType)
	}
	return best, RouteAgent(best, docType)
}

// agentAppliesTo reports whether agent is one of the six categories
// applicable to docType.
func agentAppliesTo(agent model.AgentCategory, docType model.DocumentType) bool {
	var set []model.AgentCategory
	if docType == model.DocumentFinancial {
		set = model.FinancialCategories
	} else {
		set = model.TransactionCategories
	}
	for _, c := range set {
		if c == agent {
			return true
		}
	}
	return false
}

// classifierSystemPrompt builds the instruction sent to the small
// classifier model, constraining it to the closed query_type/agent
// vocabulary for docType and asking for a single JSON object.
func classifierSystemPrompt(docType model.DocumentType) string {
	var categories []model.AgentCategory
	if docType == model.DocumentFinancial {
		categories = model.FinancialCategories
	} else {
		categories = model.TransactionCategories
	}

	var b strings.Builder
	b.WriteString("Classify the user's question about their financial data. ")
	b.WriteString("Respond with exactly one JSON object and nothing else: ")
	b.WriteString(`{"query_type": "...", "agent": "...", "confidence": 0.0-1.0}. `)
	b.WriteString("agent must be one of: ")
	for i, c := range categories {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(string(c))
	}
	b.WriteString(".")
	return b.String()
}
