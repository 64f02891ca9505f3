// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package semanticstore

import (
	"context"

	"github.com/privatefin/finsight/observability/health"
)

// EmbedderCheck is a health.Checker that verifies the configured
// Embedder can actually produce a vector: embedding generation never
// touches the network, but a misconfigured dimension or a real
// sentence-transformer backend that failed to load a model file would
// otherwise only surface on the first real index call. Wiring this
// into startup makes that failure fatal immediately instead of on the
// first document.
type EmbedderCheck struct {
	embedder Embedder
}

// NewEmbedderCheck returns a startup check for embedder.
func NewEmbedderCheck(embedder Embedder) *EmbedderCheck {
	return &EmbedderCheck{embedder: embedder}
}

// Name returns the name of this health check.
func (c *EmbedderCheck) Name() string {
	return "embedder"
}

// Check embeds a short probe string and verifies the returned vector
// matches the embedder's declared dimensionality.
func (c *EmbedderCheck) Check(ctx context.Context) health.CheckResult {
	vec, err := c.embedder.Embed(ctx, "finsight embedder startup probe")
	if err != nil {
		return health.CheckResult{
			Name:    c.Name(),
			Status:  health.StatusUnhealthy,
			Message: "embedder failed to embed probe text",
			Details: map[string]interface{}{"error": err.Error()},
		}
	}
	if len(vec) != c.embedder.Dimensions() {
		return health.CheckResult{
			Name:    c.Name(),
			Status:  health.StatusUnhealthy,
			Message: "embedder returned a vector of the wrong dimension",
			Details: map[string]interface{}{
				"want": c.embedder.Dimensions(),
				"got":  len(vec),
			},
		}
	}
	return health.CheckResult{
		Name:    c.Name(),
		Status:  health.StatusHealthy,
		Message: "embedder ready",
		Details: map[string]interface{}{"dimensions": len(vec)},
	}
}
