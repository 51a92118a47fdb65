// Package apperr defines the error kinds shared by the store, resolver and
// service layers. Callers wrap them with fmt.Errorf("...: %w: %w", kind, cause)
// so that errors.Is matches both the kind and the underlying cause.
package apperr

import "errors"

var (
	// ErrIO reports a file that could not be read or written.
	ErrIO = errors.New("i/o error")
	// ErrCorruptConfig reports a config file that exists but does not parse
	// into the expected schema.
	ErrCorruptConfig = errors.New("corrupt config")
	// ErrPathConflict reports something other than a regular file occupying
	// an expected config file location.
	ErrPathConflict = errors.New("path conflict")
	// ErrUnknownPriority reports a priority name missing from the global list.
	ErrUnknownPriority = errors.New("unknown priority")
	// ErrUnresolvedScope reports that no config at all could be resolved.
	ErrUnresolvedScope = errors.New("unresolved scope")
	// ErrNotFound reports a reminder, priority or registration that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput reports a rejected value such as a blank reminder text.
	ErrInvalidInput = errors.New("invalid input")
)
