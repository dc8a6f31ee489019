// Package editmode is the jiggle-mode state machine. It only gates UI
// affordances; deleting an item is a store transform issued by the caller.
package editmode

import (
	"sync"
	"time"
)

// HoldDuration is how long a press must last to enter jiggle mode.
const HoldDuration = 600 * time.Millisecond

type State int

const (
	Normal State = iota
	EditGesture
	Jiggle
)

func (s State) String() string {
	switch s {
	case EditGesture:
		return "edit-gesture"
	case Jiggle:
		return "jiggle"
	}
	return "normal"
}

// Timer is the part of *time.Timer the controller uses.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc satisfies it through a wrapper.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

type Option func(*Controller)

// WithAfterFunc replaces the timer source.
func WithAfterFunc(af AfterFunc) Option {
	return func(c *Controller) { c.after = af }
}

// WithHold overrides HoldDuration.
func WithHold(d time.Duration) Option {
	return func(c *Controller) { c.hold = d }
}

// OnChange registers a callback run after every state change.
func OnChange(f func(State)) Option {
	return func(c *Controller) { c.onChange = f }
}

type Controller struct {
	mu       sync.Mutex
	state    State
	gen      uint64
	timer    Timer
	hold     time.Duration
	after    AfterFunc
	onChange func(State)
}

func New(opts ...Option) *Controller {
	c := &Controller{hold: HoldDuration, after: realAfterFunc}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Press starts the long-press timer. Pressing while jiggling changes nothing.
func (c *Controller) Press() {
	c.mu.Lock()
	if c.state != Normal {
		c.mu.Unlock()
		return
	}
	c.gen++
	gen := c.gen
	c.timer = c.after(c.hold, func() { c.holdElapsed(gen) })
	c.set(EditGesture)
}

// Release ends a press. Released before the hold elapsed, it cancels.
func (c *Controller) Release() {
	c.mu.Lock()
	if c.state != EditGesture {
		c.mu.Unlock()
		return
	}
	c.cancelTimer()
	c.set(Normal)
}

// ClickBackground leaves jiggle mode. Clicks on items go to ClickItem.
func (c *Controller) ClickBackground() {
	c.mu.Lock()
	if c.state != Jiggle {
		c.mu.Unlock()
		return
	}
	c.set(Normal)
}

// ClickItem reports whether a click on a card should navigate.
func (c *Controller) ClickItem() (navigate bool) {
	return c.State() != Jiggle
}

// Escape returns to Normal from any state.
func (c *Controller) Escape() {
	c.mu.Lock()
	c.cancelTimer()
	if c.state == Normal {
		c.mu.Unlock()
		return
	}
	c.set(Normal)
}

// Enter switches to jiggle mode directly, e.g. from a context menu.
func (c *Controller) Enter() {
	c.mu.Lock()
	c.cancelTimer()
	if c.state == Jiggle {
		c.mu.Unlock()
		return
	}
	c.set(Jiggle)
}

// Close makes pending timer callbacks no-ops.
func (c *Controller) Close() {
	c.mu.Lock()
	c.cancelTimer()
	c.mu.Unlock()
}

// ShowDelete reports whether per-item delete affordances are visible.
func (c *Controller) ShowDelete() bool {
	return c.State() == Jiggle
}

func (c *Controller) holdElapsed(gen uint64) {
	c.mu.Lock()
	if gen != c.gen || c.state != EditGesture {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.set(Jiggle)
}

// cancelTimer must be called with mu held.
func (c *Controller) cancelTimer() {
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// set stores s and unlocks mu before notifying.
func (c *Controller) set(s State) {
	c.state = s
	cb := c.onChange
	c.mu.Unlock()
	if cb != nil {
		cb(s)
	}
}
