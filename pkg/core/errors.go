package core

import "errors"

// Common errors.
var (
	// ErrInvariantViolation marks a programming error such as a duplicate key
	// reaching a Document Set outside of replace-by-key semantics. Values
	// wrapping it are raised with panic, never returned.
	ErrInvariantViolation = errors.New("invariant violation")
	ErrInvalidKey         = errors.New("invalid document key")
	ErrInvalidPath        = errors.New("invalid resource path")
)
