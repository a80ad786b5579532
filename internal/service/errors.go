package service

import "errors"

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when a write collides with concurrent state,
	// e.g. a duplicate generated transaction code
	ErrConflict = errors.New("resource conflict")

	// ErrForbidden is returned when the acting user may not perform an action
	ErrForbidden = errors.New("forbidden")
)
