// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

/*
Package orchestrator implements the Orchestrator: the entry point for
every analytical request, deciding between insights mode (full cold
analysis over every agent in a document type, writing
the Session Cache) and chat mode (a single agent invocation against
cached context plus an optional filtered retrieval).

It owns the two-mode dispatch, the twelve-way agent fan-out bounded by
an LLM-call bulkhead, the single-retry-then-unfiltered retrieval
fallback, and the one place (redact.go) where a Thinking field is
guaranteed never to reach a log line, a metric label, or a response
body.

	orch := orchestrator.New(orchestrator.Config{
	    Agents:   agents.NewRegistry(),
	    Executor: agents.NewExecutor(provider, cfg.LLM.ReasoningModelID),
	    Router:   router.New(router.Config{Classifier: classifier, ModelID: cfg.LLM.RouterModelID}),
	    Store:    store,
	    Cache:    sessioncache.New(sessioncache.DefaultConfig()),
	})
	results, err := orch.GenerateInsights(ctx, sessionID, uploadID, model.DocumentTransactions)
*/
package orchestrator
