// Package entity implements the file entity at the core of the document
// lifecycle: identity, load/cache state, unsaved-change detection,
// runnability and the cancelable events that let the shell veto or
// observe each transition.
package entity

import (
	"context"
	"sync"

	"github.com/sheafdev/sheaf/internal/event"
	"github.com/sheafdev/sheaf/internal/mode"
	"github.com/sheafdev/sheaf/internal/vfs"
)

// DefaultName is the display name for brand-new anonymous documents.
const DefaultName = "untitled.txt"

// DefaultEncoding is the text encoding tag applied when none is given.
const DefaultEncoding = "utf-8"

// Options are the construction parameters for a file entity.
type Options struct {
	// ID pins the entity id, for reopening a known document (for
	// example an unsaved buffer restored from a previous session).
	// When empty the id is derived from URI, or freshly generated.
	ID string

	// URI is the backing location. Empty for new documents.
	URI string

	// Name is the display name. Defaults to the URI's name segment,
	// or DefaultName for anonymous documents.
	Name string

	// Text, when non-nil, is installed as the initial buffer content
	// and marks the entity loaded.
	Text *string

	// Unsaved marks the document as diverged from durable state.
	Unsaved bool

	// Encoding is the text encoding tag. Defaults to DefaultEncoding.
	Encoding string

	// ReadOnly forces the source-level read-only flag.
	ReadOnly bool

	// FixedName pins the display name; Rename becomes a no-op.
	// Used by single-document embedding.
	FixedName bool

	// Render asks the registry to activate the entity on open.
	Render bool

	// View state to restore once the load completes.
	CursorRow  int
	CursorCol  int
	ScrollLeft int
	ScrollTop  int
	Folds      []FoldRange

	// Editable, when non-nil, overrides the UI-level editable flag
	// after the load completes.
	Editable *bool
}

func (o Options) hasViewState() bool {
	return o.CursorRow != 0 || o.CursorCol != 0 ||
		o.ScrollLeft != 0 || o.ScrollTop != 0 ||
		len(o.Folds) > 0 || o.Editable != nil
}

// File is one open document. It owns identity, state flags and
// cache/source reconciliation, and emits lifecycle events on its channel.
//
// Field access is guarded by mu; source and cache I/O is serialized by
// opMu so overlapping async operations on the same entity cannot
// interleave. Events are never dispatched while a lock is held.
type File struct {
	deps    Deps
	events  *event.Channel
	surface Surface

	mu   sync.RWMutex
	opMu sync.Mutex

	id        string
	uri       string
	name      string
	encoding  string
	mode      string
	readOnly  bool
	editable  bool
	loaded    bool
	loading   bool
	deleted   bool
	unsaved   bool
	anonymous bool
	fixedName bool

	pending  *PendingState
	runnable *bool

	// handle is the opaque view handle the tab strip correlates by id.
	handle any
}

// New creates a file entity attached to a surface.
func New(opts Options, surface Surface, deps Deps) *File {
	f := &File{
		deps:      deps,
		events:    event.NewChannel(),
		surface:   surface,
		uri:       opts.URI,
		encoding:  opts.Encoding,
		readOnly:  opts.ReadOnly,
		editable:  true,
		unsaved:   opts.Unsaved,
		fixedName: opts.FixedName,
	}

	if f.encoding == "" {
		f.encoding = DefaultEncoding
	}

	switch {
	case opts.ID != "":
		f.id = opts.ID
	case opts.URI != "":
		f.id = HashURI(opts.URI)
	default:
		f.id = NewID()
		f.anonymous = true
	}

	f.name = opts.Name
	if f.name == "" {
		if opts.URI != "" {
			f.name = baseName(opts.URI)
		} else {
			f.name = DefaultName
		}
	}

	if deps.Modes != nil {
		f.mode = deps.Modes.ForPath(f.name)
	}

	if opts.hasViewState() {
		f.pending = &PendingState{
			View: View{
				Row:        opts.CursorRow,
				Col:        opts.CursorCol,
				ScrollLeft: opts.ScrollLeft,
				ScrollTop:  opts.ScrollTop,
				Folds:      opts.Folds,
			},
			Editable: opts.Editable,
		}
	}

	switch {
	case opts.Text != nil:
		// Content supplied up front: nothing left to fetch.
		surface.SetText(*opts.Text)
		f.loaded = true
	case opts.URI == "" && opts.ID == "":
		// Brand-new empty document.
		f.loaded = true
	}

	if f.loaded {
		f.consumePending()
	}

	return f
}

// consumePending applies construction view state for entities that never
// go through the load state machine.
func (f *File) consumePending() {
	f.mu.Lock()
	pending := f.pending
	f.pending = nil
	f.mu.Unlock()

	if pending == nil {
		return
	}
	f.surface.RestoreView(pending.View)
	if pending.Editable != nil {
		f.SetEditable(*pending.Editable)
	}
}

// baseName returns the trailing segment of a URI.
func baseName(uri string) string {
	for i := len(uri) - 1; i >= 0; i-- {
		if uri[i] == '/' || uri[i] == '\\' {
			return uri[i+1:]
		}
	}
	return uri
}

// dispatch routes an event through the entity's channel.
func (f *File) dispatch(name event.Name, payload any) event.Result {
	return f.events.Dispatch(event.New(name, f, payload))
}

// Dispatch emits an event with no payload on the entity's channel.
// The registry uses it for focus/blur bookkeeping.
func (f *File) Dispatch(name event.Name) event.Result {
	return f.dispatch(name, nil)
}

// On registers a listener on the entity's event channel.
func (f *File) On(name event.Name, fn event.Handler) *event.Listener {
	return f.events.On(name, fn)
}

// Off removes a listener.
func (f *File) Off(l *event.Listener) {
	f.events.Off(l)
}

// SetHandler installs the designated handler slot for an event name.
func (f *File) SetHandler(name event.Name, fn event.Handler) {
	f.events.SetHandler(name, fn)
}

// ID returns the entity id. It is never empty.
func (f *File) ID() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.id
}

// URI returns the backing location, empty for anonymous documents.
func (f *File) URI() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.uri
}

// Name returns the display name.
func (f *File) Name() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.name
}

// Encoding returns the text encoding tag.
func (f *File) Encoding() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.encoding
}

// SetEncoding updates the text encoding tag.
func (f *File) SetEncoding(enc string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if enc == "" {
		enc = DefaultEncoding
	}
	f.encoding = enc
}

// Mode returns the current syntax mode identifier.
func (f *File) Mode() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.mode
}

// ReadOnly reports the source-level read-only flag.
func (f *File) ReadOnly() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.readOnly
}

// SetReadOnly forces the source-level read-only flag and mirrors it
// into the surface.
func (f *File) SetReadOnly(ro bool) {
	f.mu.Lock()
	f.readOnly = ro
	f.mu.Unlock()
	f.surface.SetReadOnly(ro)
}

// Editable reports the UI-level editable flag.
func (f *File) Editable() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.editable
}

// SetEditable updates the UI-level editable flag. It is independent of
// the source-level read-only state.
func (f *File) SetEditable(editable bool) {
	f.mu.Lock()
	f.editable = editable
	f.mu.Unlock()
	f.surface.SetEditable(editable)
}

// Loaded reports whether the text has been fetched into the surface.
func (f *File) Loaded() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.loaded
}

// Loading reports whether the async fetch is in flight.
func (f *File) Loading() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.loading
}

// Deleted reports whether the source was detected missing.
func (f *File) Deleted() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.deleted
}

// Unsaved reports whether in-memory content diverges from durable state.
func (f *File) Unsaved() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.unsaved
}

// Anonymous reports whether the entity still carries an uncommitted
// random id.
func (f *File) Anonymous() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.anonymous
}

// MarkDeleted records that the source is gone. A deleted document is
// always unsaved.
func (f *File) MarkDeleted() {
	f.mu.Lock()
	f.deleted = true
	f.unsaved = true
	f.mu.Unlock()
}

// Handle returns the opaque view handle correlated with this entity.
func (f *File) Handle() any {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.handle
}

// SetHandle attaches the opaque view handle for this entity.
func (f *File) SetHandle(h any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handle = h
}

// Surface returns the attached editing surface.
func (f *File) Surface() Surface {
	return f.surface
}

// PendingView returns the captured not-yet-applied view state, if any.
func (f *File) PendingView() *PendingState {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.pending
}

// scratchKey names the cache artifact holding in-memory content.
func (f *File) scratchKey() string {
	return f.id
}

// snapshotKey names the remote-source snapshot artifact. Change
// detection for network-backed protocols compares against this instead
// of re-fetching from the remote.
func (f *File) snapshotKey() string {
	return vfs.Scheme(f.uri) + "-" + f.id
}

// commitIdentity assigns a fresh id to an anonymous document. This is
// the point where an anonymous buffer commits to having real identity.
// Callers must hold mu, and must carry the scratch artifact over with
// moveScratch after releasing it.
func (f *File) commitIdentity() (oldKey, newKey string) {
	oldKey = f.id
	f.id = NewID()
	f.anonymous = false
	return oldKey, f.id
}

// moveScratch carries a scratch artifact to a new key after an identity
// change. Failures are background I/O failures: logged, never surfaced.
// Must be called without mu held.
func (f *File) moveScratch(op, oldKey, newKey string) {
	if err := f.deps.Cache.Rename(oldKey, newKey); err != nil {
		f.deps.logger().Warn("cache rename failed", "op", op, "from", oldKey, "to", newKey, "error", err)
	}
}

// RecordChange reacts to a surface content mutation: it refreshes the
// scratch artifact, recomputes the unsaved flag and emits a change
// event. No-op while the entity is not loaded.
func (f *File) RecordChange(ctx context.Context) {
	f.mu.RLock()
	ready := f.loaded && !f.loading
	key := f.scratchKey()
	f.mu.RUnlock()
	if !ready {
		return
	}

	if err := f.deps.Cache.Write(key, []byte(f.surface.Text())); err != nil {
		f.deps.logger().Warn("cache write failed", "op", "change", "key", key, "error", err)
	}

	changed := f.Changed(ctx)
	f.mu.Lock()
	f.unsaved = changed
	f.mu.Unlock()

	f.dispatch(event.Change, nil)
}

// Refresh re-evaluates the unsaved flag against durable state after an
// external change to the backing file. The surface content is left
// alone; only the flag and its change notification move.
func (f *File) Refresh(ctx context.Context) {
	f.mu.RLock()
	ready := f.loaded && !f.loading
	f.mu.RUnlock()
	if !ready {
		return
	}

	changed := f.Changed(ctx)
	f.mu.Lock()
	f.unsaved = changed
	f.mu.Unlock()

	f.dispatch(event.Change, nil)
}

// SetMode changes the syntax mode. An empty mode re-derives it from the
// display name. The change is announced through the cancelable
// changemode event; a veto leaves the mode untouched.
func (f *File) SetMode(m string) {
	if m == "" && f.deps.Modes != nil {
		m = f.deps.Modes.ForPath(f.Name())
	}
	if m == f.Mode() {
		return
	}

	if res := f.dispatch(event.ChangeMode, m); !res.Proceed {
		return
	}

	f.mu.Lock()
	f.mode = m
	f.mu.Unlock()
}

// Rename changes the display name. The name can diverge from the URI's
// path segment until a relocate reconciles them.
//
// The rename is announced through the cancelable rename event; a veto
// leaves name, id and title unchanged. An anonymous document commits to
// a fresh id here. A changed extension re-derives the syntax mode.
func (f *File) Rename(ctx context.Context, shell Shell, name string) {
	f.mu.RLock()
	same := name == f.name || f.fixedName
	oldExt := mode.Ext(f.name)
	f.mu.RUnlock()
	if same || name == "" {
		return
	}

	if res := f.dispatch(event.Rename, name); !res.Proceed {
		return
	}

	f.mu.Lock()
	var oldKey, newKey string
	committed := false
	if f.anonymous {
		oldKey, newKey = f.commitIdentity()
		committed = true
	}
	f.name = name
	f.mu.Unlock()

	if committed {
		f.moveScratch("rename", oldKey, newKey)
	}

	if shell != nil {
		shell.NotifyRename(f)
	}

	if mode.Ext(name) != oldExt {
		f.InvalidateRunnable()
		if f.deps.Modes != nil {
			f.SetMode(f.deps.Modes.ForPath(name))
		}
	}
}

// Relocate changes the backing location.
//
// An empty URI orphans the document: it is marked deleted-and-unsaved
// and assigned a fresh random id. A non-empty URI is adopted, clearing
// the deleted and read-only flags, and the id becomes the deterministic
// hash of the new location. Either way the shell is notified; this is a
// plain broadcast, not a cancelable event.
func (f *File) Relocate(uri string, shell Shell) {
	f.mu.Lock()
	if uri == f.uri {
		f.mu.Unlock()
		return
	}

	oldKey := f.scratchKey()
	if uri == "" {
		f.uri = ""
		f.deleted = true
		f.unsaved = true
		f.id = NewID()
	} else {
		f.uri = uri
		f.deleted = false
		f.readOnly = false
		f.id = HashURI(uri)
	}
	f.anonymous = false
	f.runnable = nil
	newKey := f.scratchKey()
	f.mu.Unlock()

	f.moveScratch("relocate", oldKey, newKey)

	f.surface.SetReadOnly(f.ReadOnly())

	if shell != nil {
		shell.NotifyRename(f)
	}
}

// MakeActive asks the shell to focus this entity. Idempotent when
// already active.
func (f *File) MakeActive(ctx context.Context, shell Shell) error {
	return shell.Activate(ctx, f)
}
