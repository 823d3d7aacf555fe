// Package irq emulates the interrupt controller of the board.
// Handlers run synchronously on the goroutine that raises the source, which
// plays the part of the interrupt context.
package irq

import (
	"errors"
	"fmt"
	"sync"
)

// Source identifies an interrupt line.
type Source int

const (
	// SourceWDT is the watchdog warn interrupt line.
	SourceWDT Source = 28

	maxSource = 255
)

// Priority is 0 (highest) to MaxPriority (lowest).
type Priority uint8

// MaxPriority is the lowest priority the controller implements (3 bits).
const MaxPriority Priority = 7

// ErrBadParam is returned by Register for an unknown source, out of range
// priority or nil handler.
var ErrBadParam = errors.New("irq: bad parameter")

// Handler is an interrupt service routine.
type Handler func()

type line struct {
	handler    Handler
	priority   Priority
	enabled    bool
	masked     bool
	pending    bool
	dispatched int
}

// Controller routes raised sources to registered handlers.
type Controller struct {
	mu    sync.Mutex
	lines map[Source]*line
}

// NewController returns a controller with no lines registered.
func NewController() *Controller {
	return &Controller{lines: make(map[Source]*line)}
}

// Register installs h for src at priority p. The source starts disabled and unmasked.
func (c *Controller) Register(src Source, p Priority, h Handler) error {
	if src < 0 || src > maxSource {
		return fmt.Errorf("%w: source %d", ErrBadParam, src)
	}
	if p > MaxPriority {
		return fmt.Errorf("%w: priority %d > %d", ErrBadParam, p, MaxPriority)
	}
	if h == nil {
		return fmt.Errorf("%w: nil handler for source %d", ErrBadParam, src)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	l := c.line(src)
	l.handler = h
	l.priority = p
	return nil
}

// line returns the state for src, creating it. Caller holds mu.
func (c *Controller) line(src Source) *line {
	l, ok := c.lines[src]
	if !ok {
		l = &line{}
		c.lines[src] = l
	}
	return l
}

// Enable lets src reach its handler. A request raised while disabled is
// delivered now.
func (c *Controller) Enable(src Source) {
	c.mu.Lock()
	c.line(src).enabled = true
	c.mu.Unlock()
	c.dispatch(src)
}

func (c *Controller) Disable(src Source) {
	c.mu.Lock()
	c.line(src).enabled = false
	c.mu.Unlock()
}

func (c *Controller) Mask(src Source) {
	c.mu.Lock()
	c.line(src).masked = true
	c.mu.Unlock()
}

// Unmask removes the mask on src. A request raised while masked is delivered now.
func (c *Controller) Unmask(src Source) {
	c.mu.Lock()
	c.line(src).masked = false
	c.mu.Unlock()
	c.dispatch(src)
}

// ClearPending drops a request on src that has not been delivered yet.
func (c *Controller) ClearPending(src Source) {
	c.mu.Lock()
	c.line(src).pending = false
	c.mu.Unlock()
}

// Raise requests src. The handler runs before Raise returns when the source
// is registered, enabled and unmasked. Otherwise the request stays pending.
// Raising a source that is already pending has no further effect.
func (c *Controller) Raise(src Source) {
	c.mu.Lock()
	l := c.line(src)
	if l.pending {
		c.mu.Unlock()
		return
	}
	l.pending = true
	c.mu.Unlock()
	c.dispatch(src)
}

// dispatch runs the handler for src if a request is pending and deliverable.
// Entry into the handler acknowledges the request.
func (c *Controller) dispatch(src Source) {
	c.mu.Lock()
	l := c.line(src)
	if !l.pending || !l.enabled || l.masked || l.handler == nil {
		c.mu.Unlock()
		return
	}
	l.pending = false
	l.dispatched++
	h := l.handler
	c.mu.Unlock()

	h()
}

// Pending reports whether src has an undelivered request.
func (c *Controller) Pending(src Source) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.line(src).pending
}

// Dispatched returns how many times the handler for src has run.
func (c *Controller) Dispatched(src Source) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.line(src).dispatched
}

// Priority returns the priority src was registered with.
func (c *Controller) Priority(src Source) Priority {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.line(src).priority
}
