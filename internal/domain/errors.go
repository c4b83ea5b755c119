package domain

import "errors"

// Sentinel errors - use with errors.Is()
var (
	// ErrValidation indicates invalid or missing input for a unit of work
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates a resource (page, user, channel) was not found
	ErrNotFound = errors.New("not found")

	// ErrUpstream indicates a downstream API call failed. The enclosing
	// job or request is aborted; sibling units keep running.
	ErrUpstream = errors.New("upstream request failed")
)
