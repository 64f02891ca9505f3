// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package orchestrator

import (
	"context"

	"github.com/privatefin/finsight/model"
	"github.com/privatefin/finsight/sessioncache"
)

// InvalidateCache removes cached insights for sessionID. An empty
// docType clears every document type for that session - used both for
// explicit clear_cache calls and for the new-upload invalidation rule:
// cached insights are invalidated on a new upload under the same
// session.
func (o *Orchestrator) InvalidateCache(ctx context.Context, sessionID string, docType model.DocumentType) error {
	if sessionID == "" {
		return model.ErrMissingField.WithDetail("field", "session_id")
	}
	return o.cache.Clear(ctx, sessionID, docType)
}

// CacheStatus reports what is currently cached for sessionID, for the
// cache_status ABI operation.
func (o *Orchestrator) CacheStatus(ctx context.Context, sessionID string) sessioncache.Status {
	return o.cache.Status(ctx, sessionID)
}
