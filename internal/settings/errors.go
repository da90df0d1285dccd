package settings

import "errors"

var (
	// ErrUnauthorized is returned when a mutation runs without an authenticated actor.
	ErrUnauthorized = errors.New("Unauthorized") //nolint:staticcheck // shown to users as is
	// ErrNotFound is returned when the referenced history entry does not exist.
	ErrNotFound = errors.New("History entry not found") //nolint:staticcheck // shown to users as is
	// ErrInvalidCategory is returned for a category outside the known set.
	ErrInvalidCategory = errors.New("invalid settings category")
	// ErrInvalidInput is returned when an update request fails validation.
	ErrInvalidInput = errors.New("invalid settings input")
)
