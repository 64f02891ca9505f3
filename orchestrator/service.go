// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package orchestrator

import (
	"context"

	"github.com/privatefin/finsight/model"
	"github.com/privatefin/finsight/sessioncache"
)

// Service is the core's outbound ABI: the set of operations an
// external transport layer (HTTP/WebSocket, out of scope for this
// repository) would expose to callers. It carries no
// transport concerns of its own - *Orchestrator implements it
// directly, so a thin adapter is all any transport layer needs to add.
type Service interface {
	VerifyUploadIngested(ctx context.Context, uploadID string) (bool, error)
	GenerateInsights(ctx context.Context, sessionID, uploadID string, docType model.DocumentType) (InsightsResult, error)
	ProcessChatQuery(ctx context.Context, sessionID, uploadID string, docType model.DocumentType, query string) (ChatResult, error)
	CacheStatus(ctx context.Context, sessionID string) sessioncache.Status
	InvalidateCache(ctx context.Context, sessionID string, docType model.DocumentType) error
}

var _ Service = (*Orchestrator)(nil)
