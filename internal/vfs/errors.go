package vfs

import (
	"errors"
	"fmt"
)

// Standard errors returned by source store backends.
var (
	// ErrNotFound indicates the URI does not refer to an existing file.
	ErrNotFound = errors.New("not found")

	// ErrIsDirectory indicates the URI refers to a directory, not a file.
	ErrIsDirectory = errors.New("path is a directory")

	// ErrReadOnly indicates the backend refuses writes to this URI.
	ErrReadOnly = errors.New("file is read-only")

	// ErrNoBackend indicates no backend is registered for the URI's scheme.
	ErrNoBackend = errors.New("no backend for scheme")

	// ErrCrossBackend indicates a rename across different backends.
	ErrCrossBackend = errors.New("rename across backends")
)

// PathError represents an error associated with a URI.
type PathError struct {
	Op  string // Operation that failed (read, write, stat, etc.)
	URI string // File location
	Err error  // Underlying error
}

// Error implements the error interface.
func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URI, e.Err)
}

// Unwrap returns the underlying error.
func (e *PathError) Unwrap() error {
	return e.Err
}

// NewPathError creates a new PathError.
func NewPathError(op, uri string, err error) *PathError {
	return &PathError{Op: op, URI: uri, Err: err}
}

// IsNotFound returns true if the error indicates a missing file.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
