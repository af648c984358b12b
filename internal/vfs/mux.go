package vfs

import "sync"

// Mux routes source store operations to backends by URI scheme.
// The empty scheme covers plain paths and file:// URIs.
//
// Mux is safe for concurrent use.
type Mux struct {
	mu       sync.RWMutex
	backends map[string]Store
}

// NewMux creates a Mux with no backends registered.
func NewMux() *Mux {
	return &Mux{backends: make(map[string]Store)}
}

// Register installs a backend for a scheme, replacing any previous one.
func (m *Mux) Register(scheme string, s Store) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.backends[scheme] = s
}

// Resolve returns the backend serving the URI.
func (m *Mux) Resolve(uri string) (Store, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.backends[Scheme(uri)]
	if !ok {
		return nil, NewPathError("resolve", uri, ErrNoBackend)
	}
	return s, nil
}

// Exists reports whether the URI refers to an existing file.
func (m *Mux) Exists(uri string) (bool, error) {
	s, err := m.Resolve(uri)
	if err != nil {
		return false, err
	}
	return s.Exists(uri)
}

// ReadFile reads the entire file content.
func (m *Mux) ReadFile(uri string) ([]byte, error) {
	s, err := m.Resolve(uri)
	if err != nil {
		return nil, err
	}
	return s.ReadFile(uri)
}

// WriteFile writes data to the file, creating it if necessary.
func (m *Mux) WriteFile(uri string, data []byte) error {
	s, err := m.Resolve(uri)
	if err != nil {
		return err
	}
	return s.WriteFile(uri, data)
}

// Stat returns file information.
func (m *Mux) Stat(uri string) (FileInfo, error) {
	s, err := m.Resolve(uri)
	if err != nil {
		return FileInfo{}, err
	}
	return s.Stat(uri)
}

// Rename moves a file to a new URI.
// Both URIs must resolve to the same backend.
func (m *Mux) Rename(oldURI, newURI string) error {
	oldStore, err := m.Resolve(oldURI)
	if err != nil {
		return err
	}
	newStore, err := m.Resolve(newURI)
	if err != nil {
		return err
	}
	if oldStore != newStore {
		return NewPathError("rename", newURI, ErrCrossBackend)
	}
	return oldStore.Rename(oldURI, newURI)
}

// Delete removes the file.
func (m *Mux) Delete(uri string) error {
	s, err := m.Resolve(uri)
	if err != nil {
		return err
	}
	return s.Delete(uri)
}

// Ensure Mux implements Store.
var _ Store = (*Mux)(nil)
