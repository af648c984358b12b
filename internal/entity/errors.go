package entity

import (
	"errors"
	"fmt"
)

// Standard errors returned by entity operations.
var (
	// ErrNoLocation indicates a save was requested for a document with
	// no backing location; the shell should offer save-as instead.
	ErrNoLocation = errors.New("document has no location")

	// ErrReadOnly indicates a save was requested for a read-only source.
	ErrReadOnly = errors.New("document is read-only")

	// ErrLoadFailed indicates the initial load could not complete.
	// The entity has been discarded from the registry.
	ErrLoadFailed = errors.New("load failed")

	// ErrTooLarge indicates the source exceeds the configured size
	// limit and was not fetched.
	ErrTooLarge = errors.New("file exceeds size limit")
)

// OpError represents a failed entity operation.
type OpError struct {
	Op  string // Operation that failed (load, save, rename, etc.)
	URI string // Backing location, empty for anonymous documents
	Err error  // Underlying error
}

// Error implements the error interface.
func (e *OpError) Error() string {
	if e.URI == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URI, e.Err)
}

// Unwrap returns the underlying error.
func (e *OpError) Unwrap() error {
	return e.Err
}
