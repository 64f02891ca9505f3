// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

/*
Package semanticstore is the embedding-backed document store for
transactions and financial line items, plus the Indexer that bridges
parsed upload data into it.

Every stored Document carries a model.WorkspaceTag. A Search call
always composes its filters conjunctively with upload_id, so a session
holding several uploads can never have one upload's documents leak
into another's retrieval - implementations that allowed an unscoped
Search would violate that invariant.

Two Store backends are provided: MemoryStore, the default brute-force
cosine-similarity implementation suitable for a single local install,
and QdrantStore, for installs running a local Qdrant vector database.
Both implement Clear by reading then filtering in memory rather than
trusting a backend's native filtered delete.
*/
package semanticstore
