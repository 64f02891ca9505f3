// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package llmclient

import (
	"context"
	"errors"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	fserrors "github.com/privatefin/finsight/pkg/errors"
)

// LocalRuntime is a Provider backed by any OpenAI-chat-API-compatible
// server reachable over loopback or the local network: llama.cpp's
// server mode, Ollama's OpenAI shim, or vLLM. It never targets
// api.openai.com.
type LocalRuntime struct {
	client  *openai.Client
	model   string
	counter *TokenCounter
}

// LocalRuntimeConfig configures a LocalRuntime.
type LocalRuntimeConfig struct {
	// BaseURL is the runtime's OpenAI-compatible endpoint, e.g.
	// "http://127.0.0.1:8080/v1". Required - there is no default
	// that points at a cloud host.
	BaseURL string

	// APIKey is sent to the local runtime if it checks one. Most local
	// runtimes ignore it; leave empty unless yours requires it.
	APIKey string

	// Model is the model name the runtime should load/serve.
	Model string
}

// NewLocalRuntime constructs a LocalRuntime. It returns an error if
// BaseURL is empty or looks like a cloud OpenAI endpoint, since that
// would silently send financial data off the host.
func NewLocalRuntime(cfg LocalRuntimeConfig) (*LocalRuntime, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("llmclient: LocalRuntime requires a BaseURL pointing at a local model runtime")
	}
	if strings.Contains(strings.ToLower(cfg.BaseURL), "api.openai.com") {
		return nil, errors.New("llmclient: LocalRuntime refuses a cloud OpenAI BaseURL")
	}
	if cfg.Model == "" {
		cfg.Model = os.Getenv("FINSIGHT_LLM_MODEL")
	}
	if cfg.Model == "" {
		return nil, errors.New("llmclient: LocalRuntime requires a Model name")
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = "local"
	}

	clientCfg := openai.DefaultConfig(apiKey)
	clientCfg.BaseURL = cfg.BaseURL

	return &LocalRuntime{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		counter: NewTokenCounter(cfg.Model),
	}, nil
}

// Name returns the provider name.
func (p *LocalRuntime) Name() string {
	return "local"
}

// Complete runs req against the configured local runtime.
func (p *LocalRuntime) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	if req == nil {
		return nil, errors.New("llmclient: completion request is nil")
	}

	messages := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, msg := range req.Messages {
		messages[i] = openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		}
	}

	// The think flag rides on the chat template's soft switch: local
	// reasoning runtimes (Qwen-family served by llama.cpp, Ollama,
	// vLLM) toggle chain-of-thought with a "/think" or "/no_think"
	// marker on the last user turn, and non-reasoning models ignore
	// it. The response comes back as one string either way - nothing
	// here parses reasoning out of it.
	if n := len(messages); n > 0 {
		marker := "/no_think"
		if req.Think {
			marker = "/think"
		}
		messages[n-1].Content += " " + marker
	}

	model := req.Model
	if model == "" {
		model = p.model
	}

	chatReq := openai.ChatCompletionRequest{
		Model:    model,
		Messages: messages,
	}
	if req.MaxTokens > 0 {
		chatReq.MaxTokens = req.MaxTokens
	}
	if req.Temperature > 0 {
		chatReq.Temperature = float32(req.Temperature)
	}
	if req.TopP > 0 {
		chatReq.TopP = float32(req.TopP)
	}

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, convertRuntimeError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, fserrors.ErrLLMInvalidResponse.WithDetail("reason", "no completion choices returned")
	}

	choice := resp.Choices[0]
	return &CompletionResponse{
		ID:           resp.ID,
		Model:        resp.Model,
		Content:      choice.Message.Content,
		FinishReason: string(choice.FinishReason),
		Usage: &Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

// CountTokens estimates token usage via the tiktoken encoder matching
// the configured model, using cl100k_base for model names tiktoken
// doesn't recognize (most local runtimes report their own fine-tuned
// names) and a word-count heuristic only when no encoding loads.
func (p *LocalRuntime) CountTokens(text string) int {
	return p.counter.CountTokens(text)
}

// convertRuntimeError turns transport/API errors from the local runtime
// into the pkg/errors LLM taxonomy, so a caller can branch on category
// and code instead of matching message text, and so a caller higher up
// (ResilientProvider's retry/circuit-breaker, the orchestrator's
// surfaced error) sees the same structured shape regardless of which
// provider produced it.
func convertRuntimeError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case 401:
			return fserrors.ErrLLMConnection.WithDetail("reason", "local runtime rejected API key").Wrap(err)
		case 429:
			return fserrors.ErrLLMRateLimit.Wrap(err)
		case 500, 502, 503:
			return fserrors.ErrLLMConnection.WithDetail("reason", "local runtime unavailable").Wrap(err)
		default:
			return fserrors.ErrLLMInvalidResponse.WithDetail("status_code", apiErr.HTTPStatusCode).Wrap(err)
		}
	}

	return fserrors.ErrLLMConnection.Wrap(err)
}
