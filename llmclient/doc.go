// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

// Package llmclient abstracts calls to a locally hosted language model.
//
// Every agent in this service issues Complete calls through a Provider
// rather than talking to an HTTP endpoint directly, so the orchestrator
// can wrap calls in a concurrency bulkhead and swap in a MockProvider
// for tests without touching agent code.
//
//	registry := llmclient.NewRegistry()
//	runtime, err := llmclient.NewLocalRuntime(llmclient.LocalRuntimeConfig{
//	    BaseURL: "http://127.0.0.1:8080/v1",
//	    Model:   "llama-3-8b-instruct",
//	})
//	registry.Register("local", runtime)
//	registry.SetDefault(runtime)
//
//	resp, err := runtime.Complete(ctx, &llmclient.CompletionRequest{
//	    Messages: []llmclient.Message{
//	        {Role: llmclient.RoleUser, Content: "Summarize this statement."},
//	    },
//	    Think: true,
//	})
package llmclient
