package errors

import "errors"

// Sentinel errors for known conditions.
var (
	// ErrNotFound indicates a target file or recipe does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a write collided with an existing file.
	ErrAlreadyExists = errors.New("already exists")

	// ErrAnchorNotFound indicates a required patch anchor was not found.
	ErrAnchorNotFound = errors.New("anchor not found")

	// ErrAnchorAmbiguous indicates a unique patch anchor matched more than once.
	ErrAnchorAmbiguous = errors.New("anchor ambiguous")

	// ErrGroupNotFound indicates a named dependency group block is missing.
	ErrGroupNotFound = errors.New("group not found")

	// ErrUnresolvedPlaceholder indicates a template referenced an unknown value.
	ErrUnresolvedPlaceholder = errors.New("unresolved placeholder")

	// ErrExternalCommand indicates an external command exited non-zero.
	ErrExternalCommand = errors.New("external command failed")

	// ErrValidation indicates a recipe or configuration failed validation.
	ErrValidation = errors.New("validation error")
)
