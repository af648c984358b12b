package event

import "testing"

func TestDispatchNoHandlers(t *testing.T) {
	c := NewChannel()
	res := c.Dispatch(New(Save, nil, nil))
	if !res.Proceed {
		t.Error("Dispatch with no handlers should proceed")
	}
}

func TestDesignatedHandlerRunsFirst(t *testing.T) {
	c := NewChannel()
	var order []string

	c.On(Rename, func(e *Event) {
		order = append(order, "listener")
	})
	c.SetHandler(Rename, func(e *Event) {
		order = append(order, "handler")
	})

	c.Dispatch(New(Rename, nil, nil))

	if len(order) != 2 || order[0] != "handler" || order[1] != "listener" {
		t.Errorf("dispatch order = %v, want [handler listener]", order)
	}
}

func TestListenerInsertionOrder(t *testing.T) {
	c := NewChannel()
	var order []int

	for i := 0; i < 5; i++ {
		i := i
		c.On(Save, func(e *Event) {
			order = append(order, i)
		})
	}

	c.Dispatch(New(Save, nil, nil))

	for i, got := range order {
		if got != i {
			t.Fatalf("listener %d ran at position %d", got, i)
		}
	}
	if len(order) != 5 {
		t.Fatalf("ran %d listeners, want 5", len(order))
	}
}

func TestPreventDefault(t *testing.T) {
	c := NewChannel()
	ran := 0

	c.On(Rename, func(e *Event) {
		ran++
		e.PreventDefault()
	})
	c.On(Rename, func(e *Event) {
		ran++
	})

	res := c.Dispatch(New(Rename, nil, nil))

	if res.Proceed {
		t.Error("Proceed should be false after PreventDefault")
	}
	// Preventing the default does not stop bubbling.
	if ran != 2 {
		t.Errorf("ran %d listeners, want 2", ran)
	}
}

func TestStopBubbling(t *testing.T) {
	c := NewChannel()
	ran := 0

	c.On(Save, func(e *Event) {
		ran++
		e.StopBubbling()
	})
	c.On(Save, func(e *Event) {
		ran++
	})

	res := c.Dispatch(New(Save, nil, nil))

	if !res.Proceed {
		t.Error("stopping bubbling should not abort the default action")
	}
	if ran != 1 {
		t.Errorf("ran %d listeners, want 1", ran)
	}
}

func TestHandlerStopsBubblingBeforeListeners(t *testing.T) {
	c := NewChannel()
	listenerRan := false

	c.SetHandler(Save, func(e *Event) {
		e.StopBubbling()
	})
	c.On(Save, func(e *Event) {
		listenerRan = true
	})

	c.Dispatch(New(Save, nil, nil))

	if listenerRan {
		t.Error("listener should not run after handler stopped bubbling")
	}
}

func TestOff(t *testing.T) {
	c := NewChannel()
	ran := 0

	l := c.On(Close, func(e *Event) { ran++ })
	c.On(Close, func(e *Event) { ran++ })

	c.Off(l)
	c.Off(l) // second removal is a no-op

	c.Dispatch(New(Close, nil, nil))
	if ran != 1 {
		t.Errorf("ran %d listeners after Off, want 1", ran)
	}
}

func TestSetHandlerReplaceAndClear(t *testing.T) {
	c := NewChannel()
	var got string

	c.SetHandler(Run, func(e *Event) { got = "first" })
	c.SetHandler(Run, func(e *Event) { got = "second" })

	c.Dispatch(New(Run, nil, nil))
	if got != "second" {
		t.Errorf("got %q, want handler replaced by second", got)
	}

	got = ""
	c.SetHandler(Run, nil)
	c.Dispatch(New(Run, nil, nil))
	if got != "" {
		t.Error("cleared handler should not run")
	}
}

func TestReset(t *testing.T) {
	c := NewChannel()
	ran := false
	c.On(Load, func(e *Event) { ran = true })
	c.SetHandler(Load, func(e *Event) { ran = true })

	c.Reset()

	c.Dispatch(New(Load, nil, nil))
	if ran {
		t.Error("Reset should drop all registrations")
	}
}
