// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package llmclient

import (
	"context"
)

// MessageRole identifies the sender of a chat message.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

// Message is a single turn in a conversation sent to a model.
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

// CompletionRequest is a request to a locally hosted model runtime.
//
// Think selects the call mode: when true the caller is asking for a
// chain-of-thought capable pass (the deep-insights path runs one Think
// call followed by a final call, also with Think set, over the reduced
// results).
// The full response string, including any reasoning the model chooses
// to emit ahead of its answer, is returned unmodified - callers decide
// what to keep, log, or discard.
type CompletionRequest struct {
	Model       string            `json:"model"`
	Messages    []Message         `json:"messages"`
	MaxTokens   int               `json:"max_tokens,omitempty"`
	Temperature float64           `json:"temperature,omitempty"`
	TopP        float64           `json:"top_p,omitempty"`
	Think       bool              `json:"think,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// CompletionResponse is a model runtime's answer to a CompletionRequest.
type CompletionResponse struct {
	ID           string            `json:"id"`
	Model        string            `json:"model"`
	Content      string            `json:"content"`
	FinishReason string            `json:"finish_reason"`
	Usage        *Usage            `json:"usage,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// Usage reports token accounting for a single completion call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Provider is anything able to run a CompletionRequest against a model.
//
// Implementations must not call out to a cloud LLM API: every document
// a caller sends through this package is expected to stay on the host
// the service runs on, so a Provider either talks to a locally hosted
// OpenAI-API-compatible runtime (llama.cpp, Ollama, vLLM) over loopback
// or is a deterministic stand-in used in tests.
type Provider interface {
	// Name returns the provider's registry name.
	Name() string

	// Complete runs req and returns the model's answer.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// CountTokens estimates the number of tokens text would occupy in
	// this provider's context window.
	CountTokens(text string) int
}
