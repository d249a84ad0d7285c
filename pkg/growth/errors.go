package growth

import "errors"

var (
	// ErrNotFound covers ids that do not exist and ids owned by someone else.
	ErrNotFound = errors.New("not found")
	// ErrAccessDenied is for callers that already know the resource exists.
	ErrAccessDenied = errors.New("access denied")
	// ErrValidation wraps malformed input: dates, enum values, empty fields.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidTransition is returned for goal/path status moves the state machine forbids.
	ErrInvalidTransition = errors.New("invalid status transition")
)
