// Package apperr defines sentinel errors shared across Raido layers.
package apperr

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidPath     = errors.New("invalid path")
	ErrDuplicateLine   = errors.New("bookmark already exists on line")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrMalformedState  = errors.New("malformed persisted state")
)
