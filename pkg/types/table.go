package types

import "errors"

// Storage operation errors. Write results carry one of these through
// Result.Err so callers can branch with errors.Is.
var (
	ErrNotFound     = errors.New("record not found")
	ErrInvalidKey   = errors.New("invalid record key")
	ErrWriteFailed  = errors.New("failed to persist table")
	ErrUnknownTable = errors.New("unknown table")
)

// Account errors.
var (
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrGoogleAccountLinked = errors.New("account is linked to a different google identity")
)

// ErrLimitReached is returned by callers that enforce per-user CV limits.
var ErrLimitReached = errors.New("limit reached")
