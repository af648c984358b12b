package event

import "sync"

// Listener is an active registration on a Channel.
// It is returned by On and passed to Off to remove the registration.
type Listener struct {
	name Name
	fn   Handler
}

// Channel dispatches events for a single file entity.
//
// Each event name has one designated handler slot plus an ordered list of
// listeners. Dispatch invokes the designated handler first; if the event
// still bubbles, listeners run in registration order until one stops
// bubbling. Registration order is stable.
//
// Channel is safe for concurrent registration, though entities drive
// dispatch from the single shell goroutine.
type Channel struct {
	mu        sync.Mutex
	handlers  map[Name]Handler
	listeners map[Name][]*Listener
}

// NewChannel creates an empty channel.
func NewChannel() *Channel {
	return &Channel{
		handlers:  make(map[Name]Handler),
		listeners: make(map[Name][]*Listener),
	}
}

// SetHandler installs the designated handler for an event name,
// replacing any previous one. A nil handler clears the slot.
func (c *Channel) SetHandler(name Name, fn Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if fn == nil {
		delete(c.handlers, name)
		return
	}
	c.handlers[name] = fn
}

// On registers a listener for an event name.
func (c *Channel) On(name Name, fn Handler) *Listener {
	if fn == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	l := &Listener{name: name, fn: fn}
	c.listeners[name] = append(c.listeners[name], l)
	return l
}

// Off removes a listener previously returned by On.
// Removing a listener twice is a no-op.
func (c *Channel) Off(l *Listener) {
	if l == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	list := c.listeners[l.name]
	for i, cur := range list {
		if cur == l {
			c.listeners[l.name] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// Dispatch routes an event through the designated handler and listeners
// and reports whether the default action should proceed.
func (c *Channel) Dispatch(e *Event) Result {
	c.mu.Lock()
	handler := c.handlers[e.Name]
	list := make([]*Listener, len(c.listeners[e.Name]))
	copy(list, c.listeners[e.Name])
	c.mu.Unlock()

	if handler != nil {
		handler(e)
	}

	for _, l := range list {
		if !e.Bubbles() {
			break
		}
		l.fn(e)
	}

	return Result{Proceed: !e.DefaultPrevented()}
}

// Reset drops every handler and listener. Used when an entity is closed.
func (c *Channel) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.handlers = make(map[Name]Handler)
	c.listeners = make(map[Name][]*Listener)
}
