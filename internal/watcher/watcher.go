// Package watcher reports external changes to the local files backing
// open documents.
//
// Load-time existence checks remain the authoritative source of the
// deleted flag; the watcher is the live supplement that lets the shell
// react without waiting for the next load or save.
package watcher

import (
	"errors"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Standard errors returned by the watcher.
var (
	// ErrClosed indicates the watcher has been closed.
	ErrClosed = errors.New("watcher closed")

	// ErrNotWatching indicates the path was never watched.
	ErrNotWatching = errors.New("path not watched")
)

// Op describes what happened to a watched file.
type Op uint8

const (
	// OpModified means the file content changed on disk.
	OpModified Op = iota + 1

	// OpRemoved means the file was deleted or renamed away.
	OpRemoved
)

// Event is one external change to a watched file.
type Event struct {
	// URI is the watched location.
	URI string

	// Op is what happened.
	Op Op
}

// Watcher tracks individual files with fsnotify.
type Watcher struct {
	mu    sync.Mutex
	fsw   *fsnotify.Watcher
	paths map[string]bool

	events chan Event
	errors chan error

	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// New creates a watcher and starts its event loop.
func New() (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:     fsw,
		paths:   make(map[string]bool),
		events:  make(chan Event, 64),
		errors:  make(chan error, 16),
		closeCh: make(chan struct{}),
	}

	w.wg.Add(1)
	go w.loop()

	return w, nil
}

// Watch starts tracking a file. Watching the same file twice is a
// no-op.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	if w.paths[abs] {
		return nil
	}
	if err := w.fsw.Add(abs); err != nil {
		return err
	}
	w.paths[abs] = true
	return nil
}

// Unwatch stops tracking a file.
func (w *Watcher) Unwatch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	if !w.paths[abs] {
		return ErrNotWatching
	}
	delete(w.paths, abs)
	return w.fsw.Remove(abs)
}

// Events returns the change channel.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the error channel.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops the watcher and closes its channels.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()

	close(w.events)
	close(w.errors)
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if out, found := convert(ev); found {
				select {
				case w.events <- out:
				default:
					// Channel full, drop. The next load or save
					// re-checks durable state anyway.
				}
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

// convert maps an fsnotify event onto the domain ops.
func convert(ev fsnotify.Event) (Event, bool) {
	switch {
	case ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename):
		return Event{URI: ev.Name, Op: OpRemoved}, true
	case ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create):
		return Event{URI: ev.Name, Op: OpModified}, true
	default:
		return Event{}, false
	}
}
