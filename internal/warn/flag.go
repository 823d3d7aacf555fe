// Package warn handles the watchdog warn interrupt.
// The handler runs in interrupt context and only masks the source and sets a
// Flag. The main loop takes the flag, services the watchdog and re-arms.
package warn

import "sync/atomic"

// Flag is a single-producer, single-consumer latch. The interrupt handler
// sets it, the main loop takes it. Reads and writes are never torn.
type Flag struct {
	v atomic.Bool
}

// Set raises the flag. Called from the interrupt handler only.
func (f *Flag) Set() {
	f.v.Store(true)
}

// IsSet reports the flag without clearing it.
func (f *Flag) IsSet() bool {
	return f.v.Load()
}

// Take clears the flag and reports whether it was set. Called from the main
// loop only.
func (f *Flag) Take() bool {
	return f.v.Swap(false)
}
