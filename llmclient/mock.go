// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package llmclient

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/privatefin/finsight/pkg/errors"
)

// MockProvider is a deterministic Provider for tests: it returns
// pre-scripted responses in order and never touches the network.
type MockProvider struct {
	name      string
	responses []string
	index     int
	mu        sync.Mutex

	// requests records every CompletionRequest passed to Complete, in
	// call order, so a test can assert on what an agent actually sent
	// the model rather than only on the scripted answer coming back.
	requests []*CompletionRequest
}

// NewMockProvider creates a mock provider that answers with responses
// in sequence, one per Complete call.
func NewMockProvider(name string, responses []string) *MockProvider {
	return &MockProvider{
		name:      name,
		responses: responses,
	}
}

// Name returns the provider name.
func (m *MockProvider) Name() string {
	return m.name
}

// Complete returns the next scripted response.
func (m *MockProvider) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)

	if m.index >= len(m.responses) {
		return nil, errors.ErrLLMInvalidResponse.WithMessage("no more mock responses available")
	}

	content := m.responses[m.index]
	m.index++

	return &CompletionResponse{
		ID:           "mock-" + uuid.New().String(),
		Model:        req.Model,
		Content:      content,
		FinishReason: "stop",
		Usage: &Usage{
			PromptTokens:     100,
			CompletionTokens: 50,
			TotalTokens:      150,
		},
	}, nil
}

// CountTokens uses the plain word-count heuristic; precise counts don't
// matter for a mock.
func (m *MockProvider) CountTokens(text string) int {
	return NewSimpleCounter().CountTokens(text)
}

// Requests returns every CompletionRequest this mock has received so
// far, in call order.
func (m *MockProvider) Requests() []*CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*CompletionRequest, len(m.requests))
	copy(out, m.requests)
	return out
}
