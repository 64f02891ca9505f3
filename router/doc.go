// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

/*
Package router implements the Query Understander: it turns a free-text
question into a model.QueryIntent naming the filters to retrieve with
and the agent category to route to.

A small, fast classifier model is tried first. Its raw text response is
scanned for the first balanced JSON object and decoded; if the model is
unavailable, times out, or returns something that doesn't parse, the
deterministic keyword/regex matcher in keywords.go is authoritative and
the resulting intent is marked with confidence 0.5.

	r := router.New(router.Config{Classifier: provider, ModelID: "router-model"})
	intent, err := r.Understand(ctx, "show me GOSI payments over 15000", model.DocumentTransactions, uploadID)
*/
package router
