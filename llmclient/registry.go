// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package llmclient

import (
	"sync"

	"github.com/privatefin/finsight/pkg/errors"
)

// Registry holds named Providers and a default selection.
//
// A single process typically registers one LocalRuntime plus a
// MockProvider used by its own test suite; the registry exists so the
// orchestrator's wiring code doesn't need to know which.
type Registry struct {
	mu              sync.RWMutex
	providers       map[string]Provider
	defaultProvider Provider
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
	}
}

// Register adds or replaces a provider under name.
func (r *Registry) Register(name string, provider Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.providers[name] = provider
}

// Get retrieves a provider by name.
func (r *Registry) Get(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, ok := r.providers[name]
	if !ok {
		return nil, errors.ErrNotFound.WithDetail("provider", name)
	}

	return provider, nil
}

// SetDefault sets the provider returned by Default.
func (r *Registry) SetDefault(provider Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.defaultProvider = provider
}

// Default returns the registry's default provider, or nil if unset.
func (r *Registry) Default() Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.defaultProvider
}
