package demo

import (
	"fmt"
	"log"
	"time"

	"github.com/sweeney/wdt-demo/internal/irq"
	"github.com/sweeney/wdt-demo/internal/wdt"
)

// Mode is one of the two demo behaviours. The daemon picks one at build time.
type Mode interface {
	Name() string

	// Configure sets the limit actions the mode needs on top of base.
	Configure(base wdt.Config) wdt.Config

	arm(d *Demo) error
	poll(d *Demo, now time.Time) ([]Event, error)
}

// WarnPriority is the priority the warn handler is registered at.
const WarnPriority irq.Priority = 0

// InterruptMode raises an interrupt at the warn limit; the main loop toggles
// the LED and services the watchdog, so the system never resets.
type InterruptMode struct{}

func (InterruptMode) Name() string { return "interrupt" }

func (InterruptMode) Configure(base wdt.Config) wdt.Config {
	base.UpperAction = wdt.ActionNone
	base.WarnAction = wdt.ActionInterrupt
	return base
}

func (InterruptMode) arm(d *Demo) error {
	if err := d.irq.Register(irq.SourceWDT, WarnPriority, d.handler.ISR); err != nil {
		return fmt.Errorf("%w: register warn handler: %v", ErrTrap, err)
	}
	d.irq.Enable(irq.SourceWDT)
	d.hw.UnmaskInterrupt()
	return nil
}

func (InterruptMode) poll(d *Demo, now time.Time) ([]Event, error) {
	if !d.flag.Take() {
		return nil, nil
	}

	if err := d.led.Invert(); err != nil {
		log.Printf("led invert error: %v", err)
	}
	d.handler.Rearm()
	if err := d.ctl.Service(); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	d.counts.Warns++

	return []Event{d.event(now, EventWarn)}, nil
}

// ResetMode resets the system at the upper limit. The main loop never
// services, so every boot after the first reports a watchdog reset.
type ResetMode struct{}

func (ResetMode) Name() string { return "reset" }

func (ResetMode) Configure(base wdt.Config) wdt.Config {
	base.UpperAction = wdt.ActionReset
	base.WarnAction = wdt.ActionNone
	return base
}

func (ResetMode) arm(d *Demo) error { return nil }

// poll never services. A warn latch here means the block was configured
// behind our back.
func (ResetMode) poll(d *Demo, now time.Time) ([]Event, error) {
	if d.flag.IsSet() {
		return nil, fmt.Errorf("%w: warn interrupt in reset mode", ErrTrap)
	}
	return nil, nil
}

// ModeByName returns the mode called name.
func ModeByName(name string) (Mode, error) {
	switch name {
	case InterruptMode{}.Name():
		return InterruptMode{}, nil
	case ResetMode{}.Name():
		return ResetMode{}, nil
	}
	return nil, fmt.Errorf("unknown mode %q", name)
}
