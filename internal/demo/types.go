// Package demo runs the watchdog demo: boot blink, arming, and the main-loop
// poll step. It has no goroutines of its own and no sleeps besides the
// injected LED delay.
package demo

import (
	"errors"
	"time"

	"github.com/sweeney/wdt-demo/internal/board"
	"github.com/sweeney/wdt-demo/internal/irq"
)

// EventType is what happened in a boot or poll step.
type EventType string

const (
	EventBoot  EventType = "BOOT"
	EventWarn  EventType = "WARN"
	EventReset EventType = "RESET"
)

// ErrTrap marks a fatal condition: the firmware would halt on an assertion.
var ErrTrap = errors.New("demo: assertion trap")

// DefaultBlink is the LED on and off time of a boot blink.
const DefaultBlink = 200 * time.Millisecond

// Event is emitted by Boot and Poll.
type Event struct {
	Timestamp   time.Time
	Type        EventType
	Mode        string
	ResetReason board.ResetReason // BOOT only
	Blinks      int               // BOOT only
	Detail      string            // RESET only: why the block reset
	LEDOn       bool
	Warns       int
	Services    int
}

// ResetSource is the reset-cause register.
type ResetSource interface {
	ResetReason() board.ResetReason
	ClearResetReason()
}

// Interrupts is the part of the interrupt controller the demo needs.
type Interrupts interface {
	Register(src irq.Source, p irq.Priority, h irq.Handler) error
	Enable(src irq.Source)
}

// Counts are per-boot totals.
type Counts struct {
	Warns    int
	Services int
}
