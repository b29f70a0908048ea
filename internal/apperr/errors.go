// Package apperr defines the typed failures reported by noteflow operations.
package apperr

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrValidation     = errors.New("validation failed")
	ErrInvalidSegment = errors.New("invalid segment")
)
