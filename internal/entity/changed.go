package entity

import (
	"context"

	"github.com/sheafdev/sheaf/internal/vfs"
)

// Changed reports whether in-memory content diverges from the last
// known durable state.
//
// While unloaded or loading there is nothing meaningful to compare and
// the answer is false. A document with no location, or a read-only one,
// is unconditionally changed; an anonymous document commits to a real
// id at this point. Otherwise the surface text is compared against the
// source (or, for network-backed protocols, against the snapshot
// artifact) with a length fast path.
//
// Read failures are treated as "not changed" and logged: a transient
// backend error must not trigger unsaved-prompt storms.
func (f *File) Changed(ctx context.Context) bool {
	f.mu.RLock()
	if !f.loaded || f.loading {
		f.mu.RUnlock()
		return false
	}
	uri := f.uri
	readOnly := f.readOnly
	anonymous := f.anonymous
	snapshot := f.snapshotKey()
	f.mu.RUnlock()

	if uri == "" || readOnly {
		if anonymous {
			f.mu.Lock()
			var oldKey, newKey string
			committed := false
			if f.anonymous {
				oldKey, newKey = f.commitIdentity()
				committed = true
			}
			f.mu.Unlock()

			if committed {
				f.moveScratch("commit", oldKey, newKey)
			}
		}
		return true
	}

	text := f.surface.Text()

	f.opMu.Lock()
	var durable []byte
	var err error
	if vfs.IsRemote(uri) {
		durable, err = f.deps.Cache.Read(snapshot)
	} else {
		durable, err = f.deps.Sources.ReadFile(uri)
	}
	f.opMu.Unlock()

	if err != nil {
		f.deps.logger().Warn("change detection read failed", "uri", uri, "error", err)
		return false
	}

	if len(durable) != len(text) {
		return true
	}
	return string(durable) != text
}
