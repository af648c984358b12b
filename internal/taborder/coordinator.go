// Package taborder reconciles a user-driven tab drag back into the
// registry's canonical ordering.
//
// The coordinator operates purely on opaque view handles (id plus
// horizontal geometry) and never touches the tab strip itself. During
// the drag it reorders optimistically whenever the dragged tab crosses
// a neighbor's midpoint; on release it reports the resulting id
// sequence, which the registry adopts as authoritative. This is a
// manual reconciliation, not a live two-way binding.
package taborder

import (
	"errors"
	"fmt"
)

// ErrUnknownTab is returned when a drag starts on an id the coordinator
// does not know.
var ErrUnknownTab = errors.New("unknown tab")

// ErrDragActive is returned when a drag starts while another is active.
var ErrDragActive = errors.New("drag already active")

// Tab is the opaque view handle for one entity's tab.
type Tab struct {
	// ID correlates the tab with its owning entity.
	ID string

	// Width is the tab's horizontal extent.
	Width float64
}

// Coordinator tracks one press-drag-release gesture over a tab strip.
// It is driven from the shell's single event goroutine and needs no
// locking.
type Coordinator struct {
	tabs   []Tab
	origin float64 // left edge of the strip

	drag       int // index of the dragged tab, -1 when idle
	grabOffset float64
	lastX      float64
}

// New creates a coordinator over the current tab strip state, in visual
// order. origin is the left edge of the first tab.
func New(tabs []Tab, origin float64) *Coordinator {
	c := &Coordinator{
		tabs:   make([]Tab, len(tabs)),
		origin: origin,
		drag:   -1,
	}
	copy(c.tabs, tabs)
	return c
}

// Order returns the current id sequence in visual order.
func (c *Coordinator) Order() []string {
	ids := make([]string, len(c.tabs))
	for i, t := range c.tabs {
		ids[i] = t.ID
	}
	return ids
}

// left returns the laid-out left edge of tab i.
func (c *Coordinator) left(i int) float64 {
	x := c.origin
	for j := 0; j < i; j++ {
		x += c.tabs[j].Width
	}
	return x
}

// midpoint returns the horizontal center of tab i.
func (c *Coordinator) midpoint(i int) float64 {
	return c.left(i) + c.tabs[i].Width/2
}

// Begin starts a drag on the tab with the given id.
func (c *Coordinator) Begin(id string, pointerX float64) error {
	if c.drag >= 0 {
		return ErrDragActive
	}

	for i, t := range c.tabs {
		if t.ID == id {
			c.drag = i
			c.grabOffset = pointerX - c.left(i)
			c.lastX = pointerX
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownTab, id)
}

// Move tracks pointer movement. When the dragged tab's center passes a
// neighboring tab's midpoint it is reinserted on that side of the
// neighbor; the side is decided by the sign of the movement since the
// previous sample. No-op while no drag is active.
func (c *Coordinator) Move(pointerX float64) {
	if c.drag < 0 {
		return
	}

	dx := pointerX - c.lastX
	c.lastX = pointerX

	center := pointerX - c.grabOffset + c.tabs[c.drag].Width/2

	switch {
	case dx > 0:
		for c.drag+1 < len(c.tabs) && center > c.midpoint(c.drag+1) {
			c.tabs[c.drag], c.tabs[c.drag+1] = c.tabs[c.drag+1], c.tabs[c.drag]
			c.drag++
		}
	case dx < 0:
		for c.drag > 0 && center < c.midpoint(c.drag-1) {
			c.tabs[c.drag], c.tabs[c.drag-1] = c.tabs[c.drag-1], c.tabs[c.drag]
			c.drag--
		}
	}
}

// Release ends the gesture and returns the final id sequence. The
// caller hands it to the registry, which makes it canonical.
func (c *Coordinator) Release() []string {
	c.drag = -1
	return c.Order()
}

// Dragging reports whether a gesture is in flight.
func (c *Coordinator) Dragging() bool {
	return c.drag >= 0
}
