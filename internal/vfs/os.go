package vfs

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// OS implements Store on the local file system.
// It accepts plain paths and file:// URIs.
type OS struct{}

// NewOS creates a local file system backend.
func NewOS() *OS {
	return &OS{}
}

// Ensure OS implements Store.
var _ Store = (*OS)(nil)

// localPath strips an optional file:// prefix.
func localPath(uri string) string {
	return LocalPath(uri)
}

// Exists reports whether the path exists and is a regular file or directory.
func (o *OS) Exists(uri string) (bool, error) {
	_, err := os.Stat(localPath(uri))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, NewPathError("stat", uri, err)
	}
	return true, nil
}

// ReadFile reads the entire file content.
func (o *OS) ReadFile(uri string) ([]byte, error) {
	data, err := os.ReadFile(localPath(uri))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewPathError("read", uri, ErrNotFound)
		}
		return nil, NewPathError("read", uri, err)
	}
	return data, nil
}

// WriteFile writes data to the file, creating it if necessary.
func (o *OS) WriteFile(uri string, data []byte) error {
	if err := os.WriteFile(localPath(uri), data, 0o644); err != nil {
		return NewPathError("write", uri, err)
	}
	return nil
}

// Stat returns file information.
func (o *OS) Stat(uri string) (FileInfo, error) {
	path := localPath(uri)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return FileInfo{}, NewPathError("stat", uri, ErrNotFound)
		}
		return FileInfo{}, NewPathError("stat", uri, err)
	}
	if info.IsDir() {
		return FileInfo{}, NewPathError("stat", uri, ErrIsDirectory)
	}

	return FileInfo{
		URI:      uri,
		Name:     filepath.Base(path),
		Size:     info.Size(),
		ModTime:  info.ModTime(),
		CanWrite: info.Mode().Perm()&0o200 != 0,
	}, nil
}

// Rename moves a file to a new path.
func (o *OS) Rename(oldURI, newURI string) error {
	if err := os.Rename(localPath(oldURI), localPath(newURI)); err != nil {
		return NewPathError("rename", oldURI, err)
	}
	return nil
}

// Delete removes the file.
func (o *OS) Delete(uri string) error {
	if err := os.Remove(localPath(uri)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewPathError("delete", uri, ErrNotFound)
		}
		return NewPathError("delete", uri, err)
	}
	return nil
}
