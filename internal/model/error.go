package model

import (
	"errors"
)

var (
	// ErrValidation marks bad input caught before any backend call.
	ErrValidation = errors.New("validation error")
	// ErrReferential marks a reference to a missing or mistyped entity.
	ErrReferential = errors.New("referential error")
	// ErrBackend marks an opaque failure reported by the backend gateway.
	ErrBackend = errors.New("backend error")
)

// BackendError wraps a gateway failure. Its message is the gateway message verbatim.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return e.Err.Error()
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

func (e *BackendError) Is(target error) bool {
	return target == ErrBackend
}
