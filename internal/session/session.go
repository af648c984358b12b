// Package session persists the open-tab session: which documents are
// open, their canonical order, the active id, and per-tab view state.
// Restoring a session recreates entities whose view state becomes their
// pending load state, applied once the load completes.
package session

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ErrMalformed is returned when a session file is not valid JSON.
var ErrMalformed = errors.New("malformed session file")

// Fold marks a folded region by line numbers.
type Fold struct {
	StartRow int
	EndRow   int
}

// Tab is the persisted state of one open document.
type Tab struct {
	ID       string
	URI      string
	Name     string
	Encoding string
	Unsaved  bool
	Editable bool

	Row        int
	Col        int
	ScrollLeft int
	ScrollTop  int
	Folds      []Fold
}

// Snapshot is the persisted state of the whole registry.
type Snapshot struct {
	ActiveID string
	Tabs     []Tab
}

// Encode serializes a snapshot to JSON.
func Encode(s Snapshot) ([]byte, error) {
	out := []byte(`{}`)
	var err error

	if out, err = sjson.SetBytes(out, "active", s.ActiveID); err != nil {
		return nil, err
	}
	// Materialize the array so an empty session still round-trips.
	if out, err = sjson.SetRawBytes(out, "tabs", []byte(`[]`)); err != nil {
		return nil, err
	}

	for i, t := range s.Tabs {
		p := fmt.Sprintf("tabs.%d", i)
		if out, err = sjson.SetBytes(out, p+".id", t.ID); err != nil {
			return nil, err
		}
		if out, err = sjson.SetBytes(out, p+".uri", t.URI); err != nil {
			return nil, err
		}
		if out, err = sjson.SetBytes(out, p+".name", t.Name); err != nil {
			return nil, err
		}
		if out, err = sjson.SetBytes(out, p+".encoding", t.Encoding); err != nil {
			return nil, err
		}
		if out, err = sjson.SetBytes(out, p+".unsaved", t.Unsaved); err != nil {
			return nil, err
		}
		if out, err = sjson.SetBytes(out, p+".editable", t.Editable); err != nil {
			return nil, err
		}
		if out, err = sjson.SetBytes(out, p+".cursor.row", t.Row); err != nil {
			return nil, err
		}
		if out, err = sjson.SetBytes(out, p+".cursor.col", t.Col); err != nil {
			return nil, err
		}
		if out, err = sjson.SetBytes(out, p+".scroll.left", t.ScrollLeft); err != nil {
			return nil, err
		}
		if out, err = sjson.SetBytes(out, p+".scroll.top", t.ScrollTop); err != nil {
			return nil, err
		}
		for j, fold := range t.Folds {
			fp := fmt.Sprintf("%s.folds.%d", p, j)
			if out, err = sjson.SetBytes(out, fp+".start", fold.StartRow); err != nil {
				return nil, err
			}
			if out, err = sjson.SetBytes(out, fp+".end", fold.EndRow); err != nil {
				return nil, err
			}
		}
	}

	return out, nil
}

// Decode parses a snapshot from JSON.
func Decode(data []byte) (Snapshot, error) {
	if !gjson.ValidBytes(data) {
		return Snapshot{}, ErrMalformed
	}

	root := gjson.ParseBytes(data)
	snap := Snapshot{ActiveID: root.Get("active").String()}

	for _, t := range root.Get("tabs").Array() {
		tab := Tab{
			ID:         t.Get("id").String(),
			URI:        t.Get("uri").String(),
			Name:       t.Get("name").String(),
			Encoding:   t.Get("encoding").String(),
			Unsaved:    t.Get("unsaved").Bool(),
			Editable:   t.Get("editable").Bool(),
			Row:        int(t.Get("cursor.row").Int()),
			Col:        int(t.Get("cursor.col").Int()),
			ScrollLeft: int(t.Get("scroll.left").Int()),
			ScrollTop:  int(t.Get("scroll.top").Int()),
		}
		for _, fd := range t.Get("folds").Array() {
			tab.Folds = append(tab.Folds, Fold{
				StartRow: int(fd.Get("start").Int()),
				EndRow:   int(fd.Get("end").Int()),
			})
		}
		snap.Tabs = append(snap.Tabs, tab)
	}

	return snap, nil
}
