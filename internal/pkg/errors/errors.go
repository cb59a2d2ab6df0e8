package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrConflict marks a write that collides with existing state.
	ErrConflict = errors.New("conflict")
	// ErrUnavailable marks an optional dependency that is not configured.
	ErrUnavailable = errors.New("unavailable")
)
