// Package registry holds the process-wide ordered collection of open
// file entities, with the active-entity pointer and id/uri resolution.
//
// The registry implements entity.Shell: entities receive it explicitly
// for the operations that need cross-entity coordination instead of
// reaching for ambient global state.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sheafdev/sheaf/internal/entity"
	"github.com/sheafdev/sheaf/internal/event"
)

// ErrUnknownID is returned by Reorder when an id does not match any
// open entity.
var ErrUnknownID = errors.New("unknown entity id")

// ErrBadOrder is returned by Reorder when the id sequence is not a
// permutation of the open entities.
var ErrBadOrder = errors.New("order is not a permutation of open entities")

// Registry is the ordered collection of open entities.
//
// The collection always holds at least one entity: closing the last one
// repopulates it with a fresh placeholder. The active entity is always
// a member of the collection.
type Registry struct {
	mu       sync.RWMutex
	deps     entity.Deps
	surfaces func() entity.Surface
	order    []*entity.File
	active   *entity.File
	onRename []func(*entity.File)
}

// New creates a registry seeded with an active placeholder entity.
// surfaces constructs an editing surface for each opened entity.
func New(deps entity.Deps, surfaces func() entity.Surface) *Registry {
	r := &Registry{
		deps:     deps,
		surfaces: surfaces,
	}
	placeholder := entity.New(entity.Options{}, surfaces(), deps)
	r.order = append(r.order, placeholder)
	r.active = placeholder
	placeholder.Surface().SetReadOnly(false)
	return r
}

// Open creates a file entity, or returns (and activates) the existing
// one when the id or uri matches an already-open document. The registry
// never holds two entities with the same id.
func (r *Registry) Open(ctx context.Context, opts entity.Options) (*entity.File, error) {
	id := opts.ID
	if id == "" && opts.URI != "" {
		id = entity.HashURI(opts.URI)
	}

	if id != "" {
		if existing := r.ByID(id); existing != nil {
			if err := r.Activate(ctx, existing); err != nil {
				return existing, err
			}
			return existing, nil
		}
	}
	if opts.URI != "" {
		if existing := r.ByURI(opts.URI); existing != nil {
			if err := r.Activate(ctx, existing); err != nil {
				return existing, err
			}
			return existing, nil
		}
	}

	f := entity.New(opts, r.surfaces(), r.deps)

	r.mu.Lock()
	r.order = append(r.order, f)
	r.mu.Unlock()

	if opts.Render {
		if err := r.Activate(ctx, f); err != nil {
			return f, err
		}
	}
	return f, nil
}

// ByID resolves an entity by id.
func (r *Registry) ByID(id string) *entity.File {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, f := range r.order {
		if f.ID() == id {
			return f
		}
	}
	return nil
}

// ByURI resolves an entity by backing location.
func (r *Registry) ByURI(uri string) *entity.File {
	if uri == "" {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, f := range r.order {
		if f.URI() == uri {
			return f
		}
	}
	return nil
}

// Active returns the active entity, nil only when the collection is
// empty (which only happens transiently during repopulation).
func (r *Registry) Active() *entity.File {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

// All returns the entities in canonical order.
func (r *Registry) All() []*entity.File {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entity.File, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of open entities.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Order returns the canonical id sequence.
func (r *Registry) Order() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, len(r.order))
	for i, f := range r.order {
		ids[i] = f.ID()
	}
	return ids
}

// Reorder rebuilds the canonical ordering from an id sequence, as
// reported by the tab order coordinator after a drag release. The
// sequence must be a permutation of the open entities.
func (r *Registry) Reorder(ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(ids) != len(r.order) {
		return ErrBadOrder
	}

	byID := make(map[string]*entity.File, len(r.order))
	for _, f := range r.order {
		byID[f.ID()] = f
	}

	next := make([]*entity.File, 0, len(ids))
	for _, id := range ids {
		f, ok := byID[id]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownID, id)
		}
		delete(byID, id)
		next = append(next, f)
	}
	if len(byID) != 0 {
		return ErrBadOrder
	}

	r.order = next
	return nil
}

// OnRename registers a callback for the rename-file broadcast: identity
// or location changes on any open entity.
func (r *Registry) OnRename(fn func(*entity.File)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onRename = append(r.onRename, fn)
}

// Shell implementation.

// IsActive reports whether f is the active entity.
func (r *Registry) IsActive(f *entity.File) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active == f
}

// Activate makes f the active entity. Idempotent when already active:
// no duplicate focus/blur events fire. The first activation of an
// unloaded entity starts its load.
func (r *Registry) Activate(ctx context.Context, f *entity.File) error {
	r.mu.Lock()
	if r.active == f {
		r.mu.Unlock()
		return nil
	}
	prev := r.active
	r.active = f
	r.mu.Unlock()

	if prev != nil {
		prev.Surface().SetReadOnly(true)
		prev.Dispatch(event.Blur)
	}
	f.Dispatch(event.Focus)

	if !f.Loaded() {
		return f.Load(ctx, r)
	}

	f.Surface().SetReadOnly(f.ReadOnly())
	return nil
}

// Discard drops a broken entity after a load failure.
func (r *Registry) Discard(f *entity.File) {
	r.detach(f)
}

// CloseEntity removes a closed entity and promotes a replacement.
func (r *Registry) CloseEntity(f *entity.File) {
	r.detach(f)
}

// detach removes f from the collection. If it was active, activation
// passes to the new last entity, or a fresh placeholder when the
// collection would go empty.
func (r *Registry) detach(f *entity.File) {
	r.mu.Lock()
	idx := -1
	for i, cur := range r.order {
		if cur == f {
			idx = i
			break
		}
	}
	if idx < 0 {
		r.mu.Unlock()
		return
	}
	r.order = append(r.order[:idx:idx], r.order[idx+1:]...)

	wasActive := r.active == f
	if wasActive {
		r.active = nil
	}

	var promote *entity.File
	if wasActive {
		if len(r.order) > 0 {
			promote = r.order[len(r.order)-1]
		} else {
			promote = entity.New(entity.Options{}, r.surfaces(), r.deps)
			r.order = append(r.order, promote)
		}
	}
	r.mu.Unlock()

	if promote != nil {
		// Background context: promotion is registry bookkeeping, not a
		// user-cancelable operation.
		_ = r.Activate(context.Background(), promote)
	}
}

// SolePlaceholder reports whether f is the only open entity and still
// the pristine placeholder (anonymous, unedited, nothing to lose).
func (r *Registry) SolePlaceholder(f *entity.File) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order) == 1 && r.order[0] == f &&
		f.Anonymous() && f.URI() == "" && !f.Unsaved()
}

// NotifyRename delivers the rename-file broadcast.
func (r *Registry) NotifyRename(f *entity.File) {
	r.mu.RLock()
	fns := make([]func(*entity.File), len(r.onRename))
	copy(fns, r.onRename)
	r.mu.RUnlock()

	for _, fn := range fns {
		fn(f)
	}
}

// Ensure Registry implements entity.Shell.
var _ entity.Shell = (*Registry)(nil)
