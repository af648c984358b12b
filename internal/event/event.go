// Package event provides the cancelable event channel used by file
// entities to coordinate with the editor shell.
//
// Every mutating operation a collaborator might veto (rename, save, run,
// mode change, runnability check) is announced as an Event. Dispatch
// returns a Result rather than exposing shared mutable flags to callers:
// handlers flip the event's internal prevented/bubbling state, the caller
// only sees whether the default action should proceed.
package event

// Name identifies an event kind on a file entity's channel.
type Name string

// Event names emitted by file entities.
//
// Rename, Save, Run, ChangeMode and CanRun gate subsequent logic; the
// remaining names are informational and their dispatch result is not
// consulted by callers.
const (
	Save       Name = "save"
	Change     Name = "change"
	Focus      Name = "focus"
	Blur       Name = "blur"
	Close      Name = "close"
	Rename     Name = "rename"
	Load       Name = "load"
	LoadError  Name = "loaderror"
	LoadStart  Name = "loadstart"
	LoadEnd    Name = "loadend"
	ChangeMode Name = "changemode"
	Run        Name = "run"
	CanRun     Name = "canrun"
)

// Event carries a single notification through a Channel.
// Handlers may prevent the default action or stop further bubbling;
// the two are distinct concerns.
type Event struct {
	// Name is the event kind.
	Name Name

	// Target is the entity the event was raised on.
	Target any

	// Payload carries event-specific data (nil for most events).
	Payload any

	prevented bool
	bubbles   bool
}

// New creates an event for the given target.
func New(name Name, target, payload any) *Event {
	return &Event{
		Name:    name,
		Target:  target,
		Payload: payload,
		bubbles: true,
	}
}

// PreventDefault marks the default action as aborted.
// Listeners after the current one are still notified unless bubbling
// is also stopped.
func (e *Event) PreventDefault() {
	e.prevented = true
}

// DefaultPrevented reports whether a handler aborted the default action.
func (e *Event) DefaultPrevented() bool {
	return e.prevented
}

// StopBubbling stops notification of further listeners.
// It does not affect the default action.
func (e *Event) StopBubbling() {
	e.bubbles = false
}

// Bubbles reports whether further listeners should still be notified.
func (e *Event) Bubbles() bool {
	return e.bubbles
}

// Result is the outcome of a dispatch.
type Result struct {
	// Proceed is true when no handler prevented the default action.
	Proceed bool
}

// Handler receives a dispatched event.
type Handler func(*Event)
