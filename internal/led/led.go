// Package led drives a single digital output pin.
// The real pin is a Linux GPIO character device line. MemPin keeps the level
// in memory for boards without an LED and for tests.
package led

import (
	"fmt"
	"time"
)

// Pin is a digital output.
type Pin interface {
	// Write drives the pin high or low.
	Write(high bool) error

	// Invert flips the current output level.
	Invert() error

	// Close drives the pin low and releases it.
	Close() error
}

// Driver blinks and toggles an LED on a Pin.
type Driver struct {
	pin   Pin
	delay func(time.Duration)
	on    bool
}

// NewDriver returns a Driver for pin. delay waits between level changes; nil
// uses time.Sleep.
func NewDriver(pin Pin, delay func(time.Duration)) *Driver {
	if delay == nil {
		delay = time.Sleep
	}
	return &Driver{pin: pin, delay: delay}
}

// Blink drives the pin high for dur, then low for dur.
func (d *Driver) Blink(dur time.Duration) error {
	if err := d.Write(true); err != nil {
		return err
	}
	d.delay(dur)
	if err := d.Write(false); err != nil {
		return err
	}
	d.delay(dur)
	return nil
}

// BlinkN blinks n times.
func (d *Driver) BlinkN(n int, dur time.Duration) error {
	for i := 0; i < n; i++ {
		if err := d.Blink(dur); err != nil {
			return fmt.Errorf("blink %d/%d: %w", i+1, n, err)
		}
	}
	return nil
}

// Write drives the LED on or off.
func (d *Driver) Write(on bool) error {
	if err := d.pin.Write(on); err != nil {
		return fmt.Errorf("led write: %w", err)
	}
	d.on = on
	return nil
}

// Invert toggles the LED.
func (d *Driver) Invert() error {
	if err := d.pin.Invert(); err != nil {
		return fmt.Errorf("led invert: %w", err)
	}
	d.on = !d.on
	return nil
}

// On reports the last level driven.
func (d *Driver) On() bool {
	return d.on
}
