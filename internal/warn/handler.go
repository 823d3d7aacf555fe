package warn

import (
	"sync/atomic"

	"github.com/sweeney/wdt-demo/internal/wdt"
)

// State is the warn interrupt state.
type State string

const (
	// StateArmed: interrupt unmasked, waiting for the count to reach the warn limit.
	StateArmed State = "ARMED"
	// StateLatched: interrupt fired and masked, waiting for the main loop.
	StateLatched State = "LATCHED"
)

// Handler is the warn interrupt service routine and its re-arm step.
type Handler struct {
	flag    *Flag
	block   wdt.InterruptControl
	latched atomic.Bool
	latches atomic.Int64
}

// NewHandler returns a handler that signals through flag and masks block.
func NewHandler(flag *Flag, block wdt.InterruptControl) *Handler {
	return &Handler{flag: flag, block: block}
}

// ISR runs in interrupt context when the count reaches the warn limit.
// It masks the block interrupt so it cannot fire again before the main loop
// has handled this one, then sets the flag.
func (h *Handler) ISR() {
	h.block.MaskInterrupt()
	h.latched.Store(true)
	h.latches.Add(1)
	h.flag.Set()
}

// Rearm clears the block's interrupt request and unmasks it. Called by the
// main loop after it has taken the flag.
func (h *Handler) Rearm() {
	h.block.ClearInterrupt()
	h.latched.Store(false)
	h.block.UnmaskInterrupt()
}

// State returns ARMED or LATCHED.
func (h *Handler) State() State {
	if h.latched.Load() {
		return StateLatched
	}
	return StateArmed
}

// Latches returns how many times ISR has run.
func (h *Handler) Latches() int {
	return int(h.latches.Load())
}
