// Package config loads the demo's YAML configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/wdt-demo/internal/wdt"
)

type Config struct {
	Watchdog WatchdogConfig `yaml:"watchdog"`
	LED      LEDConfig      `yaml:"led"`

	// Supervisor is a Linux watchdog device kept alive while the demo runs.
	Supervisor string `yaml:"supervisor"`
}

// ---- WATCHDOG ----

type WatchdogConfig struct {
	LowerLimit uint32 `yaml:"lower_limit"`
	UpperLimit uint32 `yaml:"upper_limit"`
	WarnLimit  uint32 `yaml:"warn_limit"`

	// LowerAction is NONE or RESET. Upper and warn actions belong to the
	// build's demo mode.
	LowerAction wdt.Action `yaml:"lower_action"`

	DeepSleepPause bool `yaml:"deep_sleep_pause"`
	DebugRun       bool `yaml:"debug_run"`

	ClockHz     uint32 `yaml:"clock_hz"`
	ClockStepMs int    `yaml:"clock_step_ms"`
	EnableDelay int    `yaml:"enable_delay"`
}

// ---- LED ----

type LEDConfig struct {
	// Chip is the GPIO chip name; empty keeps the LED in memory.
	Chip    string `yaml:"chip"`
	Line    int    `yaml:"line"`
	BlinkMs int    `yaml:"blink_ms"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	base := wdt.DemoConfig()
	return Config{
		Watchdog: WatchdogConfig{
			LowerLimit:     base.LowerLimit,
			UpperLimit:     base.UpperLimit,
			WarnLimit:      base.WarnLimit,
			LowerAction:    base.LowerAction,
			DeepSleepPause: base.DeepSleepPause,
			DebugRun:       base.DebugRun,
			ClockHz:        wdt.DefaultClockHz,
			ClockStepMs:    10,
			EnableDelay:    wdt.DefaultEnableDelay,
		},
		LED: LEDConfig{
			BlinkMs: 200,
		},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default value.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// WDT returns the watchdog configuration with NONE upper and warn actions.
func (c *Config) WDT() wdt.Config {
	return wdt.Config{
		LowerLimit:     c.Watchdog.LowerLimit,
		UpperLimit:     c.Watchdog.UpperLimit,
		WarnLimit:      c.Watchdog.WarnLimit,
		LowerAction:    c.Watchdog.LowerAction,
		UpperAction:    wdt.ActionNone,
		WarnAction:     wdt.ActionNone,
		DeepSleepPause: c.Watchdog.DeepSleepPause,
		DebugRun:       c.Watchdog.DebugRun,
	}
}

// ClockStep returns the clock step as a duration.
func (c *Config) ClockStep() time.Duration {
	return time.Duration(c.Watchdog.ClockStepMs) * time.Millisecond
}

// Blink returns the boot blink time as a duration.
func (c *Config) Blink() time.Duration {
	return time.Duration(c.LED.BlinkMs) * time.Millisecond
}

// Dump renders cfg as YAML.
func Dump(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
