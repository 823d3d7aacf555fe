// Package wdt contains the watchdog controller and the hardware block it drives.
// The controller owns the unlock/lock discipline around every register write.
// The block itself is an interface so the controller can run against the
// simulated block or a recording fake.
package wdt

import (
	"errors"
	"fmt"
)

// Action is what the block does when the count reaches a limit.
type Action string

const (
	ActionNone      Action = "NONE"
	ActionInterrupt Action = "INTERRUPT"
	ActionReset     Action = "RESET"
)

var (
	ErrInvalidConfig      = errors.New("wdt: invalid config")
	ErrNotInitialized     = errors.New("wdt: controller not initialized")
	ErrAlreadyInitialized = errors.New("wdt: controller already initialized")
)

// Config holds limits and actions for the watchdog block.
// It is built once at startup and passed by value.
type Config struct {
	LowerLimit uint32
	UpperLimit uint32
	WarnLimit  uint32

	LowerAction Action
	UpperAction Action
	WarnAction  Action

	AutoService    bool
	DeepSleepPause bool
	DebugRun       bool
}

// Validate checks limit ordering and that each limit is given an action the
// block supports (lower/upper: NONE or RESET, warn: NONE or INTERRUPT).
// It does not mutate the config.
func (c Config) Validate() error {
	if c.UpperLimit == 0 {
		return fmt.Errorf("%w: upper_limit must be > 0", ErrInvalidConfig)
	}
	if c.LowerLimit > c.WarnLimit {
		return fmt.Errorf("%w: lower_limit %d > warn_limit %d", ErrInvalidConfig, c.LowerLimit, c.WarnLimit)
	}
	if c.WarnLimit > c.UpperLimit {
		return fmt.Errorf("%w: warn_limit %d > upper_limit %d", ErrInvalidConfig, c.WarnLimit, c.UpperLimit)
	}
	if err := checkAction("lower_action", c.LowerAction, ActionNone, ActionReset); err != nil {
		return err
	}
	if err := checkAction("upper_action", c.UpperAction, ActionNone, ActionReset); err != nil {
		return err
	}
	return checkAction("warn_action", c.WarnAction, ActionNone, ActionInterrupt)
}

func checkAction(name string, a Action, allowed ...Action) error {
	for _, ok := range allowed {
		if a == ok {
			return nil
		}
	}
	return fmt.Errorf("%w: %s %q not supported (want one of %v)", ErrInvalidConfig, name, a, allowed)
}

// DemoConfig returns the settings the demo runs with: a 40000 count window
// with no lower limit, auto-service and deep-sleep pause off, and the counter
// kept running under a debugger. Actions are left for the demo mode to pick.
func DemoConfig() Config {
	return Config{
		LowerLimit:  0,
		UpperLimit:  40000,
		WarnLimit:   40000,
		LowerAction: ActionNone,
		UpperAction: ActionNone,
		WarnAction:  ActionNone,
		DebugRun:    true,
	}
}
