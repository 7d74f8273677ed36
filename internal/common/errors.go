// Package common defines shared constants and sentinel errors used across
// the content store, persistence and API layers. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Store-level errors.
	ErrNotFound  = errors.New("record not found")
	ErrNotLoaded = errors.New("store not loaded")

	// Input validation errors.
	ErrValidation = errors.New("validation error")

	// Persistence-tier errors. Remote failures are absorbed inside the
	// persistence layer and never reach the store; a cache write failure
	// is the only condition fatal to a save.
	ErrRemoteUnavailable = errors.New("remote host unavailable")
	ErrMalformedResponse = errors.New("malformed remote response")
	ErrCacheWrite        = errors.New("cache write failure")
)
