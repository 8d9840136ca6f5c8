// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package petition

import (
	"errors"

	"github.com/julisha-ke/julisha-api/store"
)

var (
	ErrValidation           = errors.New("validation failed")
	ErrDuplicateSignature   = store.ErrDuplicateSignature
	ErrAlreadySigned        = errors.New("this phone number has already signed the petition")
	ErrInvalidOrExpiredCode = store.ErrInvalidOrExpiredCode
	ErrRateLimited          = errors.New("too many signatures from this network, please try again later")
)

// ValidationError names the offending field. errors.Is(err, ErrValidation)
// holds for every ValidationError.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
