// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package orchestrator

import (
	stderrors "errors"

	"github.com/privatefin/finsight/pkg/errors"
)

// wrapStoreErr normalizes any error from a semanticstore.Store call
// into the stable errors.ErrStoreUnavailable wire code, unless it is
// already a structured *errors.Error (store implementations already
// return ErrStoreUnavailable/ErrInvalidQuery themselves).
func wrapStoreErr(err error) error {
	if err == nil {
		return nil
	}
	var fe *errors.Error
	if stderrors.As(err, &fe) {
		return fe
	}
	return errors.ErrStoreUnavailable.Wrap(err)
}

// wrapLLMErr normalizes an error from agents.Executor.Execute in chat
// mode into the stable errors.ErrLLMUnavailable wire code. The
// executor's only fallible suspension point in chat mode is the
// single LLM call, so any failure there is, by construction, an LLM
// availability problem regardless of the agents.ErrAgentFailure
// wrapper the executor applies for its own (insights-mode) bookkeeping.
func wrapLLMErr(err error) *errors.Error {
	if err == nil {
		return nil
	}
	return errors.ErrLLMUnavailable.Wrap(err)
}
