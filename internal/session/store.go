package session

import (
	"github.com/sheafdev/sheaf/internal/vfs"
)

// Store reads and writes the session file on a backend.
type Store struct {
	fs   vfs.Store
	path string
}

// NewStore creates a session store at path.
func NewStore(fs vfs.Store, path string) *Store {
	return &Store{fs: fs, path: path}
}

// Save writes the snapshot.
func (s *Store) Save(snap Snapshot) error {
	data, err := Encode(snap)
	if err != nil {
		return err
	}
	return s.fs.WriteFile(s.path, data)
}

// Load reads the snapshot. A missing session file yields an empty
// snapshot, not an error: first launch has no session.
func (s *Store) Load() (Snapshot, error) {
	ok, err := s.fs.Exists(s.path)
	if err != nil {
		return Snapshot{}, err
	}
	if !ok {
		return Snapshot{}, nil
	}

	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		return Snapshot{}, err
	}
	return Decode(data)
}
