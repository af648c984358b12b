package entity

import (
	"context"

	"github.com/sheafdev/sheaf/internal/event"
	"github.com/sheafdev/sheaf/internal/vfs"
)

// Remove closes the entity and releases its resources.
//
// The sole pristine placeholder refuses silently: the registry never
// goes empty. Unsaved documents ask for confirmation unless forced; a
// decline aborts without error. On proceeding the informational close
// event fires, the surface detaches, the cache artifact is released
// best-effort, and the registry removes the entity and promotes a
// replacement active entity.
func (f *File) Remove(ctx context.Context, shell Shell, force bool) error {
	if shell.SolePlaceholder(f) {
		return nil
	}

	if !force && f.Unsaved() && f.deps.Confirm != nil {
		ok, err := f.deps.Confirm.Confirm(ctx, "Unsaved changes", f.Name()+" has unsaved changes. Close anyway?")
		if err != nil {
			f.deps.logger().Warn("close confirmation failed", "uri", f.URI(), "error", err)
			return nil
		}
		if !ok {
			return nil
		}
	}

	f.dispatch(event.Close, nil)
	f.events.Reset()
	f.surface.Close()

	f.mu.RLock()
	uri := f.uri
	scratch := f.scratchKey()
	snapshot := f.snapshotKey()
	f.mu.RUnlock()

	if err := f.deps.Cache.Delete(scratch); err != nil {
		f.deps.logger().Warn("cache delete failed", "op", "close", "key", scratch, "error", err)
	}
	if vfs.IsRemote(uri) {
		if err := f.deps.Cache.Delete(snapshot); err != nil {
			f.deps.logger().Warn("cache delete failed", "op", "close", "key", snapshot, "error", err)
		}
	}

	shell.CloseEntity(f)
	return nil
}
