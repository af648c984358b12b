package entity

import (
	"context"
	"log/slog"

	"github.com/sheafdev/sheaf/internal/cache"
	"github.com/sheafdev/sheaf/internal/vfs"
)

// Surface is the editing widget attached to a file entity.
// The lifecycle core never renders; it only pushes text and state into
// the surface and reads text back.
type Surface interface {
	// Text returns the current buffer content.
	Text() string

	// SetText replaces the buffer content.
	SetText(text string)

	// SetReadOnly blocks or unblocks input at the source level.
	SetReadOnly(ro bool)

	// SetEditable blocks or unblocks input at the UI level.
	SetEditable(editable bool)

	// RestoreView applies cursor, scroll and fold state.
	RestoreView(v View)

	// View captures the current cursor, scroll and fold state.
	View() View

	// Schedule runs fn after the surface has settled, on the shell's
	// next scheduling tick. Deferred post-load work goes through here
	// so it cannot race the surface's own initialization.
	Schedule(fn func())

	// Close detaches the surface when the entity is destroyed.
	Close()
}

// View is the restorable portion of a surface's presentation state.
type View struct {
	Row        int
	Col        int
	ScrollLeft int
	ScrollTop  int
	Folds      []FoldRange
}

// FoldRange marks a folded region by line numbers.
type FoldRange struct {
	StartRow int
	EndRow   int
}

// PendingState is view state captured at construction for a not-yet-loaded
// file. It is applied once, after the load completes, then discarded.
type PendingState struct {
	View     View
	Editable *bool
}

// Confirmer asks the user a yes/no question. It suspends until the user
// responds.
type Confirmer interface {
	Confirm(ctx context.Context, title, message string) (bool, error)
}

// Notifier shows a fire-and-forget user-visible message.
type Notifier interface {
	Notify(message string)
}

// ModeResolver maps a file name to a syntax mode identifier.
type ModeResolver interface {
	ForPath(name string) string
}

// RootFinder resolves a URI to an open project root, if any.
type RootFinder interface {
	Find(uri string) (string, bool)
}

// Shell is the cross-entity coordination surface, implemented by the
// registry. It is passed explicitly to the operations that need it;
// entities hold no ambient reference to the collection they live in.
type Shell interface {
	// IsActive reports whether f is the active entity.
	IsActive(f *File) bool

	// Activate makes f the active entity, loading it if necessary.
	Activate(ctx context.Context, f *File) error

	// Discard drops a broken entity after a load failure.
	Discard(f *File)

	// CloseEntity removes a closed entity from the ordered collection
	// and promotes a replacement active entity.
	CloseEntity(f *File)

	// SolePlaceholder reports whether f is the only open entity and is
	// still the pristine placeholder.
	SolePlaceholder(f *File) bool

	// NotifyRename broadcasts an identity or location change to the
	// shell UI. This is a plain notification, not a cancelable event.
	NotifyRename(f *File)
}

// Deps bundles the collaborators a file entity needs.
type Deps struct {
	// Sources is the source store for durable reads and writes.
	Sources vfs.Store

	// Cache is the scratch artifact store.
	Cache *cache.Store

	// Confirm asks for close confirmation. Nil means always proceed.
	Confirm Confirmer

	// Notify surfaces failure messages. Nil drops them.
	Notify Notifier

	// Modes resolves syntax modes. Nil leaves the mode empty.
	Modes ModeResolver

	// Roots resolves open project roots for runnability. Nil means no
	// project rule.
	Roots RootFinder

	// RunExt lists extra runnable extensions (without dot), merged with
	// the built-in allow-list.
	RunExt map[string]bool

	// MaxFileSize caps the source size the loader fetches, in bytes.
	// Zero means no limit.
	MaxFileSize int64

	// Logger receives background failure logs. Nil uses slog.Default.
	Logger *slog.Logger
}

func (d Deps) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}
