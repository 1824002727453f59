// Package common defines shared constants and sentinel errors used across
// the Cryptora server layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// ErrorInvalidPassword covers both a wrong password and corrupted
	// ciphertext. The two are deliberately indistinguishable to callers.
	ErrorInvalidPassword = errors.New("invalid password")

	// ErrContentConflict signals a content-hash precondition mismatch on a
	// note update. The caller must refetch and retry.
	ErrContentConflict = errors.New("content was modified")

	// Validation errors, raised before any cryptographic work.
	ErrorValidation = errors.New("validation error")
)
