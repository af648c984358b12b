// Package cache provides the scratch artifact store for open documents.
//
// Each open document owns at most one artifact, keyed by its entity id
// (prefixed with the protocol for remote sources). Artifacts hold the
// in-memory text between saves so unsaved edits survive restarts. Every
// consumer treats cache failures as background I/O failures: logged,
// never fatal.
package cache

import (
	"errors"

	"github.com/sheafdev/sheaf/internal/vfs"
)

// ErrExists is returned by Create when the artifact is already present.
var ErrExists = errors.New("cache artifact exists")

// Store holds cache artifacts under a fixed root on a backend.
type Store struct {
	fs   vfs.Store
	root string
}

// New creates a cache store rooted at root.
func New(fs vfs.Store, root string) *Store {
	return &Store{fs: fs, root: root}
}

// Root returns the cache root location.
func (s *Store) Root() string {
	return s.root
}

func (s *Store) path(key string) string {
	return s.root + "/" + key
}

// Exists reports whether an artifact is present for the key.
func (s *Store) Exists(key string) (bool, error) {
	return s.fs.Exists(s.path(key))
}

// Read returns the artifact content.
func (s *Store) Read(key string) ([]byte, error) {
	return s.fs.ReadFile(s.path(key))
}

// Write stores the artifact content, creating it if necessary.
func (s *Store) Write(key string, data []byte) error {
	return s.fs.WriteFile(s.path(key), data)
}

// Create stores a brand-new artifact. It fails if one already exists.
func (s *Store) Create(key string, data []byte) error {
	ok, err := s.fs.Exists(s.path(key))
	if err != nil {
		return err
	}
	if ok {
		return ErrExists
	}
	return s.fs.WriteFile(s.path(key), data)
}

// Rename moves an artifact to a new key.
// Renaming a missing artifact is a no-op: the document simply has no
// scratch state to carry over.
func (s *Store) Rename(oldKey, newKey string) error {
	ok, err := s.fs.Exists(s.path(oldKey))
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return s.fs.Rename(s.path(oldKey), s.path(newKey))
}

// Delete removes an artifact. Deleting a missing artifact is a no-op.
func (s *Store) Delete(key string) error {
	err := s.fs.Delete(s.path(key))
	if vfs.IsNotFound(err) {
		return nil
	}
	return err
}
