package vfs

import (
	"sync"
	"time"
)

// Mem implements Store in memory.
// It is primarily used for testing and for staging remote backends.
//
// Mem is safe for concurrent use.
type Mem struct {
	mu    sync.RWMutex
	files map[string]*memFile
}

type memFile struct {
	content  []byte
	modTime  time.Time
	readOnly bool
}

// NewMem creates a new in-memory backend.
func NewMem() *Mem {
	return &Mem{files: make(map[string]*memFile)}
}

// Ensure Mem implements Store.
var _ Store = (*Mem)(nil)

// Exists reports whether the URI exists.
func (m *Mem) Exists(uri string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.files[uri]
	return ok, nil
}

// ReadFile reads the entire file content.
func (m *Mem) ReadFile(uri string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.files[uri]
	if !ok {
		return nil, NewPathError("read", uri, ErrNotFound)
	}

	out := make([]byte, len(f.content))
	copy(out, f.content)
	return out, nil
}

// WriteFile writes data to the file, creating it if necessary.
func (m *Mem) WriteFile(uri string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if f, ok := m.files[uri]; ok && f.readOnly {
		return NewPathError("write", uri, ErrReadOnly)
	}

	content := make([]byte, len(data))
	copy(content, data)
	m.files[uri] = &memFile{content: content, modTime: time.Now()}
	return nil
}

// Stat returns file information.
func (m *Mem) Stat(uri string) (FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.files[uri]
	if !ok {
		return FileInfo{}, NewPathError("stat", uri, ErrNotFound)
	}

	name := uri
	for i := len(uri) - 1; i >= 0; i-- {
		if uri[i] == '/' {
			name = uri[i+1:]
			break
		}
	}

	return FileInfo{
		URI:      uri,
		Name:     name,
		Size:     int64(len(f.content)),
		ModTime:  f.modTime,
		CanWrite: !f.readOnly,
	}, nil
}

// Rename moves a file to a new URI.
func (m *Mem) Rename(oldURI, newURI string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.files[oldURI]
	if !ok {
		return NewPathError("rename", oldURI, ErrNotFound)
	}
	delete(m.files, oldURI)
	m.files[newURI] = f
	return nil
}

// Delete removes the file.
func (m *Mem) Delete(uri string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.files[uri]; !ok {
		return NewPathError("delete", uri, ErrNotFound)
	}
	delete(m.files, uri)
	return nil
}

// SetReadOnly marks an existing file as read-only. Test helper.
func (m *Mem) SetReadOnly(uri string, ro bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if f, ok := m.files[uri]; ok {
		f.readOnly = ro
	}
}
