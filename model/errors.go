// Copyright (C) 2025 finsight authors
// SPDX-License-Identifier: LGPL-3.0-or-later

package model

import "github.com/privatefin/finsight/pkg/errors"

// ErrMissingField indicates a required field was empty or zero-valued.
var ErrMissingField = errors.New(errors.CategoryValidation, "MODEL_MISSING_FIELD", "required field is missing")

// ErrInvalidField indicates a field held a value outside its allowed set.
var ErrInvalidField = errors.New(errors.CategoryValidation, "MODEL_INVALID_FIELD", "field holds an invalid value")
