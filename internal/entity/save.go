package entity

import (
	"context"

	"github.com/sheafdev/sheaf/internal/event"
	"github.com/sheafdev/sheaf/internal/vfs"
)

// Save writes the current surface text to the backing location.
//
// The cancelable save event fires first; a veto aborts silently. Saving
// a document with no location returns ErrNoLocation so the shell can
// fall back to save-as. On success the unsaved and deleted flags clear
// and the scratch artifact is refreshed to match.
func (f *File) Save(ctx context.Context) error {
	if res := f.dispatch(event.Save, nil); !res.Proceed {
		return nil
	}

	f.mu.RLock()
	uri := f.uri
	readOnly := f.readOnly
	scratch := f.scratchKey()
	snapshot := f.snapshotKey()
	f.mu.RUnlock()

	if uri == "" {
		return &OpError{Op: "save", Err: ErrNoLocation}
	}
	if readOnly {
		return &OpError{Op: "save", URI: uri, Err: ErrReadOnly}
	}

	text := []byte(f.surface.Text())

	f.opMu.Lock()
	err := f.deps.Sources.WriteFile(uri, text)
	f.opMu.Unlock()
	if err != nil {
		return &OpError{Op: "save", URI: uri, Err: err}
	}

	f.mu.Lock()
	f.unsaved = false
	f.deleted = false
	f.mu.Unlock()

	f.syncArtifacts(uri, scratch, snapshot, text)
	return nil
}

// SaveAs writes the current surface text to a new location and adopts
// it as the backing location, recomputing identity.
func (f *File) SaveAs(ctx context.Context, uri string, shell Shell) error {
	if uri == "" {
		return &OpError{Op: "saveas", Err: ErrNoLocation}
	}

	if res := f.dispatch(event.Save, nil); !res.Proceed {
		return nil
	}

	text := []byte(f.surface.Text())

	f.opMu.Lock()
	err := f.deps.Sources.WriteFile(uri, text)
	f.opMu.Unlock()
	if err != nil {
		return &OpError{Op: "saveas", URI: uri, Err: err}
	}

	f.Relocate(uri, shell)

	f.mu.Lock()
	f.unsaved = false
	f.deleted = false
	scratch := f.scratchKey()
	snapshot := f.snapshotKey()
	f.mu.Unlock()

	f.syncArtifacts(uri, scratch, snapshot, text)
	return nil
}

// syncArtifacts refreshes the cache artifacts after a successful save.
// Failures are background I/O failures: logged, never surfaced.
func (f *File) syncArtifacts(uri, scratch, snapshot string, text []byte) {
	if err := f.deps.Cache.Write(scratch, text); err != nil {
		f.deps.logger().Warn("cache write failed", "op", "save", "key", scratch, "error", err)
	}
	if vfs.IsRemote(uri) {
		if err := f.deps.Cache.Write(snapshot, text); err != nil {
			f.deps.logger().Warn("cache write failed", "op", "save", "key", snapshot, "error", err)
		}
	}
}
