// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package orchestrator

import "github.com/privatefin/finsight/model"

// redact returns a copy of result with Thinking cleared. It is the
// single place in this repository that strips hidden reasoning before
// a result crosses into a log field, a metric label, or a response
// body: thinking content must never be included in any
// surface-visible response body or log at info level. Every caller
// that logs, serializes, or otherwise surfaces an AgentResult must
// route it through this function first rather than touching
// AgentResult.Thinking directly.
func redact(result model.AgentResult) model.AgentResult {
	result.Thinking = ""
	return result
}

// redactMap applies redact to every value in results, returning a new
// map; the input is left untouched. The cache receives the redacted
// copy (chat mode only ever needs the analysis and final answer as
// background context), while the caller's in-process return value
// keeps Thinking for the remainder of the run - it still never
// serializes, see AgentResult.Thinking's json:"-" tag.
func redactMap(results map[model.AgentCategory]model.AgentResult) map[model.AgentCategory]model.AgentResult {
	out := make(map[model.AgentCategory]model.AgentResult, len(results))
	for k, v := range results {
		out[k] = redact(v)
	}
	return out
}
