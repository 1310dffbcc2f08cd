package brief

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a query failed validation.
	ErrValidation = errors.New("validation error")

	// ErrAnonymous indicates the caller has no identity to ask on behalf of.
	ErrAnonymous = errors.New("anonymous caller")

	// ErrStreamClosed indicates an operation on a closed stream.
	ErrStreamClosed = errors.New("stream closed")
)
