package entity

import (
	"context"
	"errors"

	"github.com/sheafdev/sheaf/internal/event"
	"github.com/sheafdev/sheaf/internal/vfs"
)

// loadingPlaceholder is shown in the surface while the fetch is in flight.
const loadingPlaceholder = "loading..."

// Load runs the UNLOADED -> LOADING -> LOADED transition.
//
// The cache artifact wins over the source: unsaved edits survive
// restarts without a full save. A missing source marks the entity
// deleted-and-unsaved instead of failing. Any read failure discards the
// entity from the registry, notifies the user and returns ErrLoadFailed
// wrapped in an OpError. The loadend event fires unconditionally.
//
// Cursor, scroll and fold restoration is deferred through
// Surface.Schedule so it cannot race the surface's own initialization.
func (f *File) Load(ctx context.Context, shell Shell) error {
	f.mu.Lock()
	if f.loaded || f.loading {
		f.mu.Unlock()
		return nil
	}
	f.loading = true
	pending := f.pending
	f.pending = nil
	uri := f.uri
	scratch := f.scratchKey()
	snapshot := f.snapshotKey()
	f.mu.Unlock()

	f.surface.SetReadOnly(true)
	f.dispatch(event.LoadStart, nil)
	f.surface.SetText(loadingPlaceholder)
	defer f.dispatch(event.LoadEnd, nil)

	text, err := f.fetchCandidate(uri, scratch, snapshot)
	if err != nil {
		f.mu.Lock()
		f.loading = false
		f.mu.Unlock()

		f.dispatch(event.LoadError, err)
		shell.Discard(f)
		if f.deps.Notify != nil {
			f.deps.Notify.Notify("could not open " + f.Name())
		}
		f.deps.logger().Error("load failed", "uri", uri, "error", err)
		return &OpError{Op: "load", URI: uri, Err: errors.Join(ErrLoadFailed, err)}
	}

	f.surface.SetText(string(text))

	f.mu.Lock()
	f.loaded = true
	f.loading = false
	readOnly := f.readOnly
	f.mu.Unlock()

	if shell.IsActive(f) {
		f.surface.SetReadOnly(readOnly)
	}

	f.surface.Schedule(func() {
		f.dispatch(event.Load, nil)
		if pending != nil {
			f.surface.RestoreView(pending.View)
			if pending.Editable != nil {
				f.SetEditable(*pending.Editable)
			}
		}
	})

	return nil
}

// fetchCandidate selects the text to install: the scratch artifact if
// one exists, otherwise the source content. A missing source marks the
// entity deleted. Serialized against other entity I/O.
func (f *File) fetchCandidate(uri, scratch, snapshot string) ([]byte, error) {
	f.opMu.Lock()
	defer f.opMu.Unlock()

	var text []byte
	have := false

	ok, err := f.deps.Cache.Exists(scratch)
	if err != nil {
		return nil, err
	}
	if ok {
		text, err = f.deps.Cache.Read(scratch)
		if err != nil {
			return nil, err
		}
		have = true
	}

	if uri != "" {
		exists, err := f.deps.Sources.Exists(uri)
		if err != nil {
			return nil, err
		}
		switch {
		case !exists:
			f.MarkDeleted()
		case !have:
			if f.deps.MaxFileSize > 0 {
				info, serr := f.deps.Sources.Stat(uri)
				if serr == nil && info.Size > f.deps.MaxFileSize {
					return nil, ErrTooLarge
				}
			}
			text, err = f.deps.Sources.ReadFile(uri)
			if err != nil {
				return nil, err
			}
			if vfs.IsRemote(uri) {
				// Remember what the remote held so change detection
				// can compare without re-fetching.
				if cerr := f.deps.Cache.Write(snapshot, text); cerr != nil {
					f.deps.logger().Warn("cache write failed", "op", "snapshot", "key", snapshot, "error", cerr)
				}
			}
		}
	}

	return text, nil
}
