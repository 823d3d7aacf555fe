// Package board brings up the emulated microcontroller: host drivers, the
// LED pin, the interrupt controller, the watchdog block and the reset-cause
// register.
package board

import (
	"fmt"
	"log"
	"sync"

	"periph.io/x/host/v3"

	"github.com/sweeney/wdt-demo/internal/irq"
	"github.com/sweeney/wdt-demo/internal/led"
	"github.com/sweeney/wdt-demo/internal/supervisor"
	"github.com/sweeney/wdt-demo/internal/wdt"
)

// ResetReason is the cause of the last system reset.
type ResetReason string

const (
	ResetOther    ResetReason = "OTHER"
	ResetWatchdog ResetReason = "WATCHDOG_RESET"
)

// Options selects the board's peripherals.
type Options struct {
	// LEDChip is the GPIO chip for the LED (e.g. "gpiochip0"). Empty keeps
	// the LED in memory.
	LEDChip string
	LEDLine int

	// Supervisor is a Linux watchdog device path. Empty disables it.
	Supervisor string

	// EnableDelay overrides wdt.DefaultEnableDelay when > 0.
	EnableDelay int
}

// hostInit loads the periph.io host drivers. Replaced in tests.
var hostInit = func() error {
	_, err := host.Init()
	return err
}

// Board holds the peripherals of one boot. Restart replaces IRQ and WDT.
type Board struct {
	LED    led.Pin
	Keeper supervisor.Keeper

	opts   Options
	resets chan string

	mu    sync.Mutex
	irq   *irq.Controller
	wdt   *wdt.SimBlock
	cause ResetReason
	boots int
}

// New brings up the board. Any error is fatal to the caller.
func New(opts Options) (*Board, error) {
	if err := hostInit(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}

	b := &Board{
		opts:   opts,
		resets: make(chan string, 1),
		cause:  ResetOther,
		Keeper: supervisor.Nop{},
	}

	if opts.LEDChip == "" {
		b.LED = led.NewMemPin()
	} else {
		pin, err := led.NewLinePin(opts.LEDChip, opts.LEDLine)
		if err != nil {
			return nil, fmt.Errorf("init led: %w", err)
		}
		b.LED = pin
	}

	if opts.Supervisor != "" {
		dev, err := supervisor.Open(opts.Supervisor)
		if err != nil {
			b.LED.Close()
			return nil, fmt.Errorf("init supervisor: %w", err)
		}
		if status, err := dev.BootStatus(); err != nil {
			log.Printf("supervisor boot status: %v", err)
		} else if supervisor.CardReset(status) {
			b.cause = ResetWatchdog
		}
		b.Keeper = dev
	}

	b.build()
	return b, nil
}

// build creates a fresh interrupt controller and watchdog block. Caller holds
// mu or has exclusive access.
func (b *Board) build() {
	ic := irq.NewController()
	b.irq = ic
	b.wdt = wdt.NewSimBlock(wdt.SimOptions{
		Raise:       func() { ic.Raise(irq.SourceWDT) },
		OnReset:     b.requestReset,
		EnableDelay: b.opts.EnableDelay,
	})
	b.boots++
}

// requestReset runs on the clock goroutine when the watchdog resets the system.
func (b *Board) requestReset(reason string) {
	select {
	case b.resets <- reason:
	default:
	}
}

// Resets delivers a reason each time the watchdog block resets the system.
func (b *Board) Resets() <-chan string {
	return b.resets
}

// Restart emulates a system reset: fresh interrupt controller and watchdog
// block, LED low, reset cause latched to reason. The clock driving the old
// block must be stopped first.
func (b *Board) Restart(reason ResetReason) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.build()
	b.cause = reason
	if err := b.LED.Write(false); err != nil {
		return fmt.Errorf("restart: %w", err)
	}
	return nil
}

// IRQ returns the interrupt controller of the current boot.
func (b *Board) IRQ() *irq.Controller {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.irq
}

// WDT returns the watchdog block of the current boot.
func (b *Board) WDT() *wdt.SimBlock {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.wdt
}

// ResetReason reads the reset-cause register.
func (b *Board) ResetReason() ResetReason {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cause
}

// ClearResetReason clears the reset-cause register.
func (b *Board) ClearResetReason() {
	b.mu.Lock()
	b.cause = ResetOther
	b.mu.Unlock()
}

// Boots returns how many times the board has come out of reset.
func (b *Board) Boots() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.boots
}

// Close releases the LED and stops the supervisor device.
func (b *Board) Close() error {
	var errs []error
	if err := b.Keeper.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := b.LED.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
