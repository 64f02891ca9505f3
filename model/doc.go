// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

// Package model holds the domain types shared by every component:
// transactions and financial statement line items indexed by the
// semantic store, the workspace tag that scopes retrieval to a single
// upload, and the agent result/cache/query-intent shapes that flow
// between the router, agents, and orchestrator.
//
// The boundary types (Transaction, FinancialLineItem,
// FinancialStatement, WorkspaceTag, Filters, QueryIntent) carry a
// Validate method so boundary input
// (parsed uploads, inbound queries) is rejected with a structured
// pkg/errors value before it reaches a store or an agent, rather than
// failing obscurely deeper in the pipeline.
package model
