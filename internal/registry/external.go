package registry

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/sheafdev/sheaf/internal/entity"
	"github.com/sheafdev/sheaf/internal/vfs"
	"github.com/sheafdev/sheaf/internal/watcher"
)

// HandleExternal applies one filesystem watcher event to the matching
// open entity. Events for locations that are not open are ignored.
func (r *Registry) HandleExternal(ctx context.Context, ev watcher.Event) {
	f := r.byLocalPath(ev.URI)
	if f == nil {
		return
	}

	switch ev.Op {
	case watcher.OpRemoved:
		f.MarkDeleted()
	case watcher.OpModified:
		f.Refresh(ctx)
	}
}

// byLocalPath resolves an entity whose local backing file is path.
// Watcher events carry absolute filesystem paths, while entities may
// hold file:// URIs or relative paths; both sides are normalized
// before comparing.
func (r *Registry) byLocalPath(path string) *entity.File {
	for _, f := range r.All() {
		uri := f.URI()
		if uri == "" || vfs.IsRemote(uri) {
			continue
		}
		local := vfs.LocalPath(uri)
		if local == path {
			return f
		}
		if abs, err := filepath.Abs(local); err == nil && abs == path {
			return f
		}
	}
	return nil
}

// WatchLoop drains a watcher and applies its events until the context
// is canceled or the watcher closes. Meant to run on its own goroutine.
func (r *Registry) WatchLoop(ctx context.Context, w *watcher.Watcher) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.Events():
			if !ok {
				return
			}
			r.HandleExternal(ctx, ev)
		case err, ok := <-w.Errors():
			if !ok {
				return
			}
			log := r.deps.Logger
			if log == nil {
				log = slog.Default()
			}
			log.Warn("watcher error", "error", err)
		}
	}
}
