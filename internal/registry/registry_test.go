package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/sheafdev/sheaf/internal/cache"
	"github.com/sheafdev/sheaf/internal/entity"
	"github.com/sheafdev/sheaf/internal/event"
	"github.com/sheafdev/sheaf/internal/mode"
	"github.com/sheafdev/sheaf/internal/taborder"
	"github.com/sheafdev/sheaf/internal/vfs"
)

// testSurface is a minimal recording surface.
type testSurface struct {
	text     string
	readOnly bool
	editable bool
	closed   bool
	view     entity.View
}

func (s *testSurface) Text() string        { return s.text }
func (s *testSurface) SetText(text string) { s.text = text }
func (s *testSurface) SetReadOnly(ro bool) { s.readOnly = ro }
func (s *testSurface) SetEditable(e bool)  { s.editable = e }
func (s *testSurface) RestoreView(v entity.View) {
	s.view = v
}
func (s *testSurface) View() entity.View  { return s.view }
func (s *testSurface) Schedule(fn func()) { fn() }
func (s *testSurface) Close()             { s.closed = true }

type fixture struct {
	sources *vfs.Mem
	reg     *Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	sources := vfs.NewMem()
	deps := entity.Deps{
		Sources: sources,
		Cache:   cache.New(vfs.NewMem(), "cache"),
		Modes:   mode.NewResolver(nil),
	}
	reg := New(deps, func() entity.Surface { return &testSurface{} })
	return &fixture{sources: sources, reg: reg}
}

func (fx *fixture) open(t *testing.T, uri string, render bool) *entity.File {
	t.Helper()
	fx.sources.WriteFile(uri, []byte("content of "+uri))
	f, err := fx.reg.Open(context.Background(), entity.Options{URI: uri, Render: render})
	if err != nil {
		t.Fatalf("Open(%q) error = %v", uri, err)
	}
	return f
}

func TestNewSeedsPlaceholder(t *testing.T) {
	fx := newFixture(t)

	if got := fx.reg.Len(); got != 1 {
		t.Fatalf("Len() = %d, want 1", got)
	}
	active := fx.reg.Active()
	if active == nil {
		t.Fatal("Active() = nil, want seeded placeholder")
	}
	if !active.Anonymous() || active.URI() != "" {
		t.Error("seeded entity is not an anonymous placeholder")
	}
	if !fx.reg.SolePlaceholder(active) {
		t.Error("SolePlaceholder() = false for the seeded entity, want true")
	}
}

func TestOpenDedupesAndActivates(t *testing.T) {
	fx := newFixture(t)

	a := fx.open(t, "/tmp/a.txt", false)
	b := fx.open(t, "/tmp/b.txt", true)

	if fx.reg.Active() != b {
		t.Fatal("rendered open did not activate")
	}

	again, err := fx.reg.Open(context.Background(), entity.Options{URI: "/tmp/a.txt"})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if again != a {
		t.Error("reopening a location created a second entity")
	}
	if fx.reg.Active() != a {
		t.Error("reopening did not activate the existing entity")
	}
	if got := fx.reg.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3 (placeholder plus two documents)", got)
	}
}

func TestOpenDedupesByID(t *testing.T) {
	fx := newFixture(t)
	a := fx.open(t, "/tmp/a.txt", false)

	again, err := fx.reg.Open(context.Background(), entity.Options{ID: a.ID()})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if again != a {
		t.Error("reopening by id created a second entity")
	}
}

func TestByIDAndByURI(t *testing.T) {
	fx := newFixture(t)
	a := fx.open(t, "/tmp/a.txt", false)

	if got := fx.reg.ByID(a.ID()); got != a {
		t.Error("ByID() did not resolve the open entity")
	}
	if got := fx.reg.ByURI("/tmp/a.txt"); got != a {
		t.Error("ByURI() did not resolve the open entity")
	}
	if got := fx.reg.ByID("missing"); got != nil {
		t.Error("ByID() = entity for unknown id, want nil")
	}
	if got := fx.reg.ByURI(""); got != nil {
		t.Error("ByURI(\"\") = entity, want nil")
	}
}

func TestActivateFocusBlur(t *testing.T) {
	fx := newFixture(t)
	a := fx.open(t, "/tmp/a.txt", true)
	b := fx.open(t, "/tmp/b.txt", false)

	var focus, blur int
	b.On(event.Focus, func(ev *event.Event) { focus++ })
	a.On(event.Blur, func(ev *event.Event) { blur++ })

	if err := fx.reg.Activate(context.Background(), b); err != nil {
		t.Fatalf("Activate() error = %v", err)
	}
	if focus != 1 || blur != 1 {
		t.Errorf("focus/blur = %d/%d, want 1/1", focus, blur)
	}

	// Re-activating the active entity fires nothing.
	if err := fx.reg.Activate(context.Background(), b); err != nil {
		t.Fatalf("Activate() error = %v", err)
	}
	if focus != 1 {
		t.Errorf("focus = %d after idempotent activate, want 1", focus)
	}

	if !fx.reg.IsActive(b) || fx.reg.IsActive(a) {
		t.Error("IsActive() does not reflect the activation")
	}
	if surf := a.Surface().(*testSurface); !surf.readOnly {
		t.Error("blurred surface left writable")
	}
}

func TestActivateLoadsOnFirstFocus(t *testing.T) {
	fx := newFixture(t)
	f := fx.open(t, "/tmp/a.txt", false)

	if f.Loaded() {
		t.Fatal("background open loaded eagerly")
	}
	if err := fx.reg.Activate(context.Background(), f); err != nil {
		t.Fatalf("Activate() error = %v", err)
	}
	if !f.Loaded() {
		t.Error("Loaded() = false after first activation, want true")
	}
	if got := f.Surface().(*testSurface).text; got != "content of /tmp/a.txt" {
		t.Errorf("surface text = %q, want source content", got)
	}
}

func TestCloseLastLeavesPlaceholder(t *testing.T) {
	fx := newFixture(t)
	placeholder := fx.reg.Active()
	a := fx.open(t, "/tmp/a.txt", true)

	// Close the seeded placeholder first, then the document.
	fx.reg.CloseEntity(placeholder)
	if err := a.Remove(context.Background(), fx.reg, true); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	if got := fx.reg.Len(); got != 1 {
		t.Fatalf("Len() = %d after closing everything, want 1", got)
	}
	active := fx.reg.Active()
	if active == nil || !fx.reg.SolePlaceholder(active) {
		t.Error("closing the last document did not leave an active placeholder")
	}
}

func TestCloseActivePromotesLast(t *testing.T) {
	fx := newFixture(t)
	a := fx.open(t, "/tmp/a.txt", false)
	b := fx.open(t, "/tmp/b.txt", true)

	if err := b.Remove(context.Background(), fx.reg, true); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	if fx.reg.Active() != a {
		t.Error("closing the active entity did not promote the last remaining one")
	}
	if !a.Loaded() {
		t.Error("promoted entity was not loaded")
	}
}

func TestCloseInactiveKeepsActive(t *testing.T) {
	fx := newFixture(t)
	a := fx.open(t, "/tmp/a.txt", false)
	b := fx.open(t, "/tmp/b.txt", true)

	if err := a.Remove(context.Background(), fx.reg, true); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	if fx.reg.Active() != b {
		t.Error("closing a background entity moved activation")
	}
}

func TestReorder(t *testing.T) {
	fx := newFixture(t)
	fx.open(t, "/tmp/a.txt", false)
	fx.open(t, "/tmp/b.txt", false)

	ids := fx.reg.Order()
	if len(ids) != 3 {
		t.Fatalf("Order() length = %d, want 3", len(ids))
	}

	want := []string{ids[2], ids[0], ids[1]}
	if err := fx.reg.Reorder(want); err != nil {
		t.Fatalf("Reorder() error = %v", err)
	}

	got := fx.reg.Order()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Order()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestReorderRejectsBadSequences(t *testing.T) {
	fx := newFixture(t)
	fx.open(t, "/tmp/a.txt", false)
	ids := fx.reg.Order()

	if err := fx.reg.Reorder(ids[:1]); !errors.Is(err, ErrBadOrder) {
		t.Errorf("Reorder(short) error = %v, want ErrBadOrder", err)
	}

	bad := []string{ids[0], "nope"}
	if err := fx.reg.Reorder(bad); !errors.Is(err, ErrUnknownID) {
		t.Errorf("Reorder(unknown) error = %v, want ErrUnknownID", err)
	}

	dup := []string{ids[0], ids[0]}
	if err := fx.reg.Reorder(dup); err == nil {
		t.Error("Reorder(duplicate) error = nil, want error")
	}

	// Failed reorders leave the order untouched.
	got := fx.reg.Order()
	for i := range ids {
		if got[i] != ids[i] {
			t.Fatalf("Order() changed after failed reorder")
		}
	}
}

func TestReorderFromDragRelease(t *testing.T) {
	fx := newFixture(t)
	fx.open(t, "/tmp/a.txt", false)
	fx.open(t, "/tmp/b.txt", false)

	ids := fx.reg.Order()
	tabs := make([]taborder.Tab, len(ids))
	for i, id := range ids {
		tabs[i] = taborder.Tab{ID: id, Width: 100}
	}

	// Drag the last tab in front of the first one.
	coord := taborder.New(tabs, 0)
	if err := coord.Begin(ids[2], 250); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	coord.Move(10)
	released := coord.Release()

	if err := fx.reg.Reorder(released); err != nil {
		t.Fatalf("Reorder() error = %v", err)
	}

	want := []string{ids[2], ids[0], ids[1]}
	got := fx.reg.Order()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Order()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNotifyRenameBroadcast(t *testing.T) {
	fx := newFixture(t)
	f := fx.open(t, "/tmp/a.txt", true)

	var renamed []*entity.File
	fx.reg.OnRename(func(g *entity.File) { renamed = append(renamed, g) })

	f.Rename(context.Background(), fx.reg, "other.txt")

	if len(renamed) != 1 || renamed[0] != f {
		t.Errorf("rename broadcasts = %v, want one for the renamed entity", renamed)
	}
}
