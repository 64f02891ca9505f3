// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package semanticstore

import (
	"context"
	"testing"

	"github.com/privatefin/finsight/observability/health"
)

type brokenEmbedder struct{ dim int }

func (b *brokenEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return make([]float32, b.dim-1), nil
}

func (b *brokenEmbedder) Dimensions() int { return b.dim }

func TestEmbedderCheckHealthyForWorkingEmbedder(t *testing.T) {
	check := NewEmbedderCheck(NewHashEmbedder(32))
	result := check.Check(context.Background())
	if result.Status != health.StatusHealthy {
		t.Fatalf("got status %v, want healthy", result.Status)
	}
}

func TestEmbedderCheckUnhealthyOnDimensionMismatch(t *testing.T) {
	check := NewEmbedderCheck(&brokenEmbedder{dim: 32})
	result := check.Check(context.Background())
	if result.Status != health.StatusUnhealthy {
		t.Fatalf("got status %v, want unhealthy for a dimension mismatch", result.Status)
	}
}
