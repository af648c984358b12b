package entity

import (
	"context"

	"github.com/sheafdev/sheaf/internal/event"
	"github.com/sheafdev/sheaf/internal/mode"
)

// runnableExtensions is the built-in allow-list for previewable files.
var runnableExtensions = map[string]bool{
	"html": true,
	"htm":  true,
	"md":   true,
	"js":   true,
	"svg":  true,
}

// RunCheck is the canrun event payload. Listeners may override the
// runnability decision through its side channel, either with a settled
// boolean or with a deferred computation.
type RunCheck struct {
	set      bool
	value    bool
	deferred func(ctx context.Context) bool
}

// SetResult overrides the runnability decision.
func (rc *RunCheck) SetResult(v bool) {
	rc.set = true
	rc.value = v
	rc.deferred = nil
}

// SetFunc overrides the runnability decision with a computation that is
// resolved when the check completes.
func (rc *RunCheck) SetFunc(fn func(ctx context.Context) bool) {
	rc.set = fn != nil
	rc.deferred = fn
}

func (rc *RunCheck) resolve(ctx context.Context) bool {
	if rc.deferred != nil {
		return rc.deferred(ctx)
	}
	return rc.value
}

// CanRun reports whether a run/preview action is offered for this
// document.
//
// The answer is memoized until InvalidateRunnable; content changes do
// not invalidate it. Listeners on the canrun event may override the
// computed value. Without an override, a document is runnable when its
// location sits in an open project root that carries an index.html, or
// when its name matches the preview extension allow-list.
func (f *File) CanRun(ctx context.Context) bool {
	f.mu.RLock()
	ready := f.loaded && !f.loading
	cached := f.runnable
	f.mu.RUnlock()

	if !ready {
		return false
	}
	if cached != nil {
		return *cached
	}

	check := &RunCheck{}
	res := f.dispatch(event.CanRun, check)

	var v bool
	switch {
	case check.set:
		v = check.resolve(ctx)
	case !res.Proceed:
		v = false
	default:
		v = f.computeRunnable()
	}

	f.mu.Lock()
	f.runnable = &v
	f.mu.Unlock()
	return v
}

func (f *File) computeRunnable() bool {
	uri := f.URI()

	if uri != "" && f.deps.Roots != nil {
		if root, ok := f.deps.Roots.Find(uri); ok {
			if exists, err := f.deps.Sources.Exists(root + "/index.html"); err == nil && exists {
				return true
			}
		}
	}

	ext := mode.Ext(f.Name())
	return runnableExtensions[ext] || f.deps.RunExt[ext]
}

// InvalidateRunnable drops the memoized runnability so the next CanRun
// recomputes it.
func (f *File) InvalidateRunnable() {
	f.mu.Lock()
	f.runnable = nil
	f.mu.Unlock()
}

// Run announces a run/preview request through the cancelable run event
// and reports whether the shell should proceed.
func (f *File) Run(ctx context.Context) bool {
	if !f.CanRun(ctx) {
		return false
	}
	return f.dispatch(event.Run, nil).Proceed
}
