// Package vfs provides the source store abstraction over file backends.
//
// A Store exposes the narrow surface the document lifecycle needs:
// existence, whole-file read/write, stat, rename and delete, keyed by URI.
// The Mux routes URIs to backends by scheme, so local files and remote
// protocols are interchangeable behind the same interface.
package vfs

import (
	"strings"
	"time"
)

// Store is a file backend keyed by URI.
type Store interface {
	// Exists reports whether the URI refers to an existing file.
	Exists(uri string) (bool, error)

	// ReadFile reads the entire file content.
	ReadFile(uri string) ([]byte, error)

	// WriteFile writes data to the file, creating it if necessary.
	WriteFile(uri string, data []byte) error

	// Stat returns file information.
	Stat(uri string) (FileInfo, error)

	// Rename moves a file to a new URI within the same backend.
	Rename(oldURI, newURI string) error

	// Delete removes the file.
	Delete(uri string) error
}

// FileInfo describes a file known to a backend.
type FileInfo struct {
	// URI is the canonical location of the file.
	URI string

	// Name is the display segment of the location.
	Name string

	// Size is the content length in bytes.
	Size int64

	// ModTime is the last modification time, when the backend knows it.
	ModTime time.Time

	// CanWrite reports whether the backend will accept writes.
	CanWrite bool
}

// Scheme extracts the protocol scheme of a URI.
// Plain paths and file:// URIs report the empty scheme.
func Scheme(uri string) string {
	i := strings.Index(uri, "://")
	if i <= 0 {
		return ""
	}
	s := strings.ToLower(uri[:i])
	if s == "file" {
		return ""
	}
	return s
}

// IsRemote reports whether the URI names a network-backed protocol.
func IsRemote(uri string) bool {
	return Scheme(uri) != ""
}

// LocalPath returns the filesystem path of a local URI, stripping an
// optional file:// prefix. Remote URIs pass through unchanged.
func LocalPath(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}
