package domain

import "errors"

var (
	// ErrNotFound is returned when no project exists for the given id.
	ErrNotFound = errors.New("project not found")

	// ErrInvalidID is returned when the id is not a well-formed identifier.
	ErrInvalidID = errors.New("invalid project id")

	// ErrValidation is wrapped by all input validation failures so handlers
	// can map them with errors.Is.
	ErrValidation = errors.New("invalid project")
)
