package registry

import (
	"context"

	"github.com/sheafdev/sheaf/internal/entity"
	"github.com/sheafdev/sheaf/internal/session"
)

// Snapshot captures the registry state for session persistence.
func (r *Registry) Snapshot() session.Snapshot {
	snap := session.Snapshot{}
	if active := r.Active(); active != nil {
		snap.ActiveID = active.ID()
	}

	for _, f := range r.All() {
		v := f.Surface().View()
		tab := session.Tab{
			ID:         f.ID(),
			URI:        f.URI(),
			Name:       f.Name(),
			Encoding:   f.Encoding(),
			Unsaved:    f.Unsaved(),
			Editable:   f.Editable(),
			Row:        v.Row,
			Col:        v.Col,
			ScrollLeft: v.ScrollLeft,
			ScrollTop:  v.ScrollTop,
		}
		for _, fold := range v.Folds {
			tab.Folds = append(tab.Folds, session.Fold{
				StartRow: fold.StartRow,
				EndRow:   fold.EndRow,
			})
		}
		snap.Tabs = append(snap.Tabs, tab)
	}

	return snap
}

// Restore reopens the entities of a persisted session in order. View
// state rides along as pending load state and is applied when each
// entity loads. The seeded placeholder is dropped once real tabs exist.
func (r *Registry) Restore(ctx context.Context, snap session.Snapshot) error {
	var placeholder *entity.File
	if a := r.Active(); a != nil && r.SolePlaceholder(a) {
		placeholder = a
	}

	for _, t := range snap.Tabs {
		opts := entity.Options{
			ID:         t.ID,
			URI:        t.URI,
			Name:       t.Name,
			Encoding:   t.Encoding,
			Unsaved:    t.Unsaved,
			Render:     t.ID == snap.ActiveID,
			CursorRow:  t.Row,
			CursorCol:  t.Col,
			ScrollLeft: t.ScrollLeft,
			ScrollTop:  t.ScrollTop,
		}
		if !t.Editable {
			editable := false
			opts.Editable = &editable
		}
		for _, fold := range t.Folds {
			opts.Folds = append(opts.Folds, entity.FoldRange{
				StartRow: fold.StartRow,
				EndRow:   fold.EndRow,
			})
		}

		if _, err := r.Open(ctx, opts); err != nil {
			return err
		}
	}

	if placeholder != nil && r.Len() > 1 {
		r.detach(placeholder)
	}
	return nil
}
