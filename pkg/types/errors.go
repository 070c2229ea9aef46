package types

import (
	"errors"
	"fmt"
)

// Error taxonomy sentinels. Store operations tag every failure with exactly
// one of these so callers can branch with errors.Is without string matching.
var (
	// ErrNotFound is returned for unknown document or chunk IDs
	ErrNotFound = errors.New("not found")
	// ErrExtraction is returned when a source document is unreadable or empty
	ErrExtraction = errors.New("extraction failed")
	// ErrEmptyIndex is returned when searching against zero chunks
	ErrEmptyIndex = errors.New("no documents in the index")
	// ErrDimensionMismatch is returned when an embedding's size disagrees with the index
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	// ErrIngest is returned on partial failure during chunk processing
	ErrIngest = errors.New("ingest failed")
	// ErrInvalidInput is returned when a caller-supplied argument is unusable
	ErrInvalidInput = errors.New("invalid input")
	// ErrIO is returned on persistence failures
	ErrIO = errors.New("storage i/o failure")
)

// Error is the structured failure result produced at the boundary of each
// store operation: a taxonomy kind, a human-readable message, and an
// optional cause.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

// NewError builds a tagged operation error.
func NewError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError builds a tagged operation error preserving its cause.
func WrapError(kind error, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes both the taxonomy sentinel and the underlying cause to
// errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}
