package entity

import (
	"context"
	"errors"
	"testing"

	"github.com/sheafdev/sheaf/internal/cache"
	"github.com/sheafdev/sheaf/internal/mode"
	"github.com/sheafdev/sheaf/internal/vfs"
)

// fakeSurface records every interaction so tests can assert on the
// exact sequence of pushes.
type fakeSurface struct {
	text      string
	readOnly  bool
	editable  bool
	restored  []View
	scheduled []func()
	closed    bool
}

func (s *fakeSurface) Text() string        { return s.text }
func (s *fakeSurface) SetText(text string) { s.text = text }
func (s *fakeSurface) SetReadOnly(ro bool) { s.readOnly = ro }
func (s *fakeSurface) SetEditable(e bool)  { s.editable = e }
func (s *fakeSurface) RestoreView(v View)  { s.restored = append(s.restored, v) }
func (s *fakeSurface) View() View          { return View{} }
func (s *fakeSurface) Schedule(fn func())  { s.scheduled = append(s.scheduled, fn) }
func (s *fakeSurface) Close()              { s.closed = true }

// runScheduled drains deferred post-load work, standing in for the
// shell's scheduling tick.
func (s *fakeSurface) runScheduled() {
	fns := s.scheduled
	s.scheduled = nil
	for _, fn := range fns {
		fn()
	}
}

// fakeShell records coordination calls.
type fakeShell struct {
	active    *File
	discarded []*File
	closed    []*File
	renamed   []*File
	sole      bool
}

func (sh *fakeShell) IsActive(f *File) bool { return sh.active == f }

func (sh *fakeShell) Activate(ctx context.Context, f *File) error {
	sh.active = f
	return nil
}

func (sh *fakeShell) Discard(f *File)              { sh.discarded = append(sh.discarded, f) }
func (sh *fakeShell) CloseEntity(f *File)          { sh.closed = append(sh.closed, f) }
func (sh *fakeShell) SolePlaceholder(f *File) bool { return sh.sole }
func (sh *fakeShell) NotifyRename(f *File)         { sh.renamed = append(sh.renamed, f) }

type fakeConfirmer struct {
	answer bool
	err    error
	asked  int
}

func (c *fakeConfirmer) Confirm(ctx context.Context, title, message string) (bool, error) {
	c.asked++
	return c.answer, c.err
}

type fakeNotifier struct {
	messages []string
}

func (n *fakeNotifier) Notify(message string) {
	n.messages = append(n.messages, message)
}

// errStore fails every operation. Used to exercise load failure paths.
type errStore struct{}

var errBackend = errors.New("backend down")

func (errStore) Exists(uri string) (bool, error)         { return false, errBackend }
func (errStore) ReadFile(uri string) ([]byte, error)     { return nil, errBackend }
func (errStore) WriteFile(uri string, data []byte) error { return errBackend }
func (errStore) Stat(uri string) (vfs.FileInfo, error)   { return vfs.FileInfo{}, errBackend }
func (errStore) Rename(oldURI, newURI string) error      { return errBackend }
func (errStore) Delete(uri string) error                 { return errBackend }

// env bundles the collaborators most entity tests need.
type env struct {
	sources  *vfs.Mem
	cacheFS  *vfs.Mem
	cache    *cache.Store
	notifier *fakeNotifier
	deps     Deps
}

func newEnv(t *testing.T) *env {
	t.Helper()
	sources := vfs.NewMem()
	cacheFS := vfs.NewMem()
	store := cache.New(cacheFS, "cache")
	notifier := &fakeNotifier{}
	return &env{
		sources:  sources,
		cacheFS:  cacheFS,
		cache:    store,
		notifier: notifier,
		deps: Deps{
			Sources: sources,
			Cache:   store,
			Notify:  notifier,
			Modes:   mode.NewResolver(nil),
		},
	}
}
