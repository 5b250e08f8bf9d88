package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for malformed input,
	// rejected before any store mutation is attempted.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrDependency is a generic sentinel for store or storage
	// collaborator failures.
	ErrDependency = errors.New("dependency failure")
)
