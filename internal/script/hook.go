// Package script hosts the user's optional Lua hook.
//
// The hook file may define a `can_run(path)` function. When present, it
// is consulted through the canrun event's side channel and overrides
// the built-in runnability rules: returning true or false decides,
// returning nil leaves the decision to the defaults.
package script

import (
	"os"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/sheafdev/sheaf/internal/entity"
	"github.com/sheafdev/sheaf/internal/event"
)

// canRunFn is the global the hook file defines.
const canRunFn = "can_run"

// RunHook wraps a loaded Lua state.
//
// gopher-lua states are not goroutine-safe; RunHook serializes access.
type RunHook struct {
	mu sync.Mutex
	l  *lua.LState
}

// New compiles and runs a hook script.
func New(source string) (*RunHook, error) {
	l := lua.NewState()
	if err := l.DoString(source); err != nil {
		l.Close()
		return nil, err
	}
	return &RunHook{l: l}, nil
}

// NewFromFile loads a hook script from disk.
func NewFromFile(path string) (*RunHook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return New(string(data))
}

// Close releases the Lua state.
func (h *RunHook) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.l.Close()
}

// Check asks the hook whether path is runnable. The second return is
// false when the hook does not decide (no function, nil return, or a
// script error).
func (h *RunHook) Check(path string) (bool, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	fn := h.l.GetGlobal(canRunFn)
	if fn.Type() != lua.LTFunction {
		return false, false
	}

	err := h.l.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lua.LString(path))
	if err != nil {
		return false, false
	}

	ret := h.l.Get(-1)
	h.l.Pop(1)

	if ret == lua.LNil {
		return false, false
	}
	return lua.LVAsBool(ret), true
}

// Listener adapts the hook into a canrun event listener. Register it
// on each entity whose runnability the hook should influence.
func (h *RunHook) Listener() event.Handler {
	return func(e *event.Event) {
		check, ok := e.Payload.(*entity.RunCheck)
		if !ok {
			return
		}

		path := ""
		if f, ok := e.Target.(*entity.File); ok {
			path = f.URI()
			if path == "" {
				path = f.Name()
			}
		}

		if v, decided := h.Check(path); decided {
			check.SetResult(v)
		}
	}
}
