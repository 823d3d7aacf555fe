package config

import (
	"fmt"

	"github.com/sweeney/wdt-demo/internal/wdt"
)

// Validate checks configuration correctness.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if err := cfg.WDT().Validate(); err != nil {
		return fmt.Errorf("watchdog: %w", err)
	}

	w := cfg.Watchdog
	if w.ClockHz == 0 {
		return fmt.Errorf("watchdog: clock_hz must be > 0")
	}
	if w.ClockStepMs <= 0 {
		return fmt.Errorf("watchdog: clock_step_ms must be > 0")
	}
	if w.EnableDelay < 0 {
		return fmt.Errorf("watchdog: enable_delay must be >= 0")
	}

	if cfg.LED.BlinkMs <= 0 {
		return fmt.Errorf("led: blink_ms must be > 0")
	}
	if cfg.LED.Chip != "" && cfg.LED.Line < 0 {
		return fmt.Errorf("led: line %d invalid for chip %q", cfg.LED.Line, cfg.LED.Chip)
	}

	// The upper limit must span at least one clock step.
	if w.UpperLimit < stepTicks(w) {
		return fmt.Errorf(
			"watchdog: upper_limit %d shorter than one clock step (%d counts)",
			w.UpperLimit,
			stepTicks(w),
		)
	}

	return nil
}

func stepTicks(w WatchdogConfig) uint32 {
	var acc wdt.ClockAccumulator
	return acc.Ticks(w.ClockHz, (&Config{Watchdog: w}).ClockStep())
}
