// Package input keeps an explicit table of held keys and repeatedly fires
// the handlers bound to them while they stay held.
//
// The table is polled rather than driven by its own goroutine, so handlers
// run on whichever goroutine calls Poll or Tick; for the render window that
// is the GL thread.
package input

import (
	"slices"
	"time"
)

// DefaultInterval is how often handlers repeat while their key is held.
const DefaultInterval = 10 * time.Millisecond

// Key names a physical key, e.g. "KeyW" or "ArrowUp".
type Key string

type Handler func()

type binding struct {
	keys    []Key
	handler Handler
}

type Table struct {
	Interval time.Duration

	held     map[Key]bool
	bindings []binding
	last     time.Time
}

func NewTable() *Table {
	return &Table{
		Interval: DefaultInterval,
		held:     make(map[Key]bool),
	}
}

// WhileHeld binds handler to keys. The handler fires once per tick while any
// of the keys is held.
func (t *Table) WhileHeld(handler Handler, keys ...Key) {
	t.bindings = append(t.bindings, binding{
		keys:    slices.Clone(keys),
		handler: handler,
	})
}

func (t *Table) Press(k Key) {
	t.held[k] = true
}

func (t *Table) Release(k Key) {
	delete(t.held, k)
}

// ReleaseAll forgets every held key, e.g. when the window loses focus.
func (t *Table) ReleaseAll() {
	clear(t.held)
}

func (t *Table) Held(k Key) bool {
	return t.held[k]
}

// Active reports whether any bound key is held.
func (t *Table) Active() bool {
	for _, b := range t.bindings {
		if t.anyHeld(b.keys) {
			return true
		}
	}
	return false
}

// Tick fires every handler with a held key once and returns how many fired.
func (t *Table) Tick() int {
	fired := 0
	for _, b := range t.bindings {
		if t.anyHeld(b.keys) {
			b.handler()
			fired++
		}
	}
	return fired
}

// Poll ticks if at least Interval has passed since the last tick that fired.
func (t *Table) Poll(now time.Time) int {
	if !t.last.IsZero() && now.Sub(t.last) < t.Interval {
		return 0
	}
	fired := t.Tick()
	if fired > 0 {
		t.last = now
	}
	return fired
}

func (t *Table) anyHeld(keys []Key) bool {
	for _, k := range keys {
		if t.held[k] {
			return true
		}
	}
	return false
}
