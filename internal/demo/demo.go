package demo

import (
	"fmt"
	"time"

	"github.com/sweeney/wdt-demo/internal/board"
	"github.com/sweeney/wdt-demo/internal/led"
	"github.com/sweeney/wdt-demo/internal/warn"
	"github.com/sweeney/wdt-demo/internal/wdt"
)

// Options configures a Demo.
type Options struct {
	Mode Mode
	// Base carries limits and mode bits; Mode.Configure picks the actions.
	Base wdt.Config
	// Blink is the LED on/off time of a boot blink. Zero uses DefaultBlink.
	Blink time.Duration
	// Delay waits during a blink. Nil uses time.Sleep.
	Delay func(time.Duration)
}

// Demo is the firmware of one boot. Build a new one after every reset.
type Demo struct {
	mode  Mode
	base  wdt.Config
	blink time.Duration

	led     *led.Driver
	hw      wdt.Hardware
	ctl     *wdt.Controller
	irq     Interrupts
	flag    warn.Flag
	handler *warn.Handler

	counts Counts
}

// New returns a Demo driving pin, the watchdog block hw and the interrupt
// controller ic.
func New(opts Options, pin led.Pin, hw wdt.Hardware, ic Interrupts) *Demo {
	if opts.Mode == nil {
		opts.Mode = InterruptMode{}
	}
	if opts.Blink <= 0 {
		opts.Blink = DefaultBlink
	}
	d := &Demo{
		mode:  opts.Mode,
		base:  opts.Base,
		blink: opts.Blink,
		led:   led.NewDriver(pin, opts.Delay),
		hw:    hw,
		ctl:   wdt.NewController(hw),
		irq:   ic,
	}
	d.handler = warn.NewHandler(&d.flag, hw)
	return d
}

// Boot blinks the LED once, or three times after a watchdog reset, clears the
// reset cause, arms the mode and starts the watchdog.
// Errors wrapping ErrTrap are fatal.
func (d *Demo) Boot(rs ResetSource, now time.Time) (Event, error) {
	reason := rs.ResetReason()
	blinks := 1
	if reason == board.ResetWatchdog {
		blinks = 3
	}
	if err := d.led.BlinkN(blinks, d.blink); err != nil {
		return Event{}, fmt.Errorf("boot blink: %w", err)
	}
	rs.ClearResetReason()

	if err := d.mode.arm(d); err != nil {
		return Event{}, err
	}
	if err := d.ctl.Initialize(d.mode.Configure(d.base)); err != nil {
		return Event{}, fmt.Errorf("init watchdog: %w", err)
	}

	ev := d.event(now, EventBoot)
	ev.ResetReason = reason
	ev.Blinks = blinks
	return ev, nil
}

// Poll runs one main-loop iteration. An iteration with nothing to do returns
// no events.
func (d *Demo) Poll(now time.Time) ([]Event, error) {
	return d.mode.poll(d, now)
}

// ResetEvent describes a reset of this boot's watchdog, for the caller to
// publish before it restarts the board.
func (d *Demo) ResetEvent(now time.Time, detail string) Event {
	ev := d.event(now, EventReset)
	ev.Detail = detail
	return ev
}

func (d *Demo) event(now time.Time, t EventType) Event {
	return Event{
		Timestamp: now,
		Type:      t,
		Mode:      d.mode.Name(),
		LEDOn:     d.led.On(),
		Warns:     d.counts.Warns,
		Services:  d.ctl.Services(),
	}
}

// Mode returns the running mode.
func (d *Demo) Mode() Mode {
	return d.mode
}

// Config returns the watchdog configuration this boot runs with.
func (d *Demo) Config() wdt.Config {
	return d.mode.Configure(d.base)
}

// WarnState returns the warn handler state.
func (d *Demo) WarnState() warn.State {
	return d.handler.State()
}

// LEDOn reports the LED level.
func (d *Demo) LEDOn() bool {
	return d.led.On()
}

// Counts returns warns handled and services issued this boot.
func (d *Demo) Counts() Counts {
	return Counts{Warns: d.counts.Warns, Services: d.ctl.Services()}
}
