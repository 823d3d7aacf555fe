package wdt

import "runtime"

// Controller configures and services a watchdog block.
// It is used from a single goroutine (the main loop).
type Controller struct {
	hw          Hardware
	initialized bool
	services    int
}

// NewController returns a controller for hw. Nothing is written until Initialize.
func NewController(hw Hardware) *Controller {
	return &Controller{hw: hw}
}

// Initialize applies cfg and starts the counter. An invalid cfg is rejected
// before any register is touched.
//
// Initialize spins until the block reports enabled. A block that never does is
// a dead peripheral and Initialize does not return.
func (c *Controller) Initialize(cfg Config) error {
	if c.initialized {
		return ErrAlreadyInitialized
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	c.hw.Unlock()
	c.hw.Disable()

	c.hw.SetLowerLimit(cfg.LowerLimit)
	c.hw.SetUpperLimit(cfg.UpperLimit)
	c.hw.SetWarnLimit(cfg.WarnLimit)

	c.hw.SetLowerAction(cfg.LowerAction)
	c.hw.SetUpperAction(cfg.UpperAction)
	c.hw.SetWarnAction(cfg.WarnAction)

	c.hw.SetAutoService(cfg.AutoService)
	c.hw.SetDeepSleepPause(cfg.DeepSleepPause)
	c.hw.SetDebugRun(cfg.DebugRun)

	c.hw.Enable()
	for !c.hw.IsEnabled() {
		runtime.Gosched()
	}

	c.hw.Service()
	c.hw.Lock()

	c.initialized = true
	c.services++
	return nil
}

// Service resets the count to zero inside an unlock/lock bracket.
func (c *Controller) Service() error {
	if !c.initialized {
		return ErrNotInitialized
	}
	c.hw.Unlock()
	c.hw.Service()
	c.hw.Lock()
	c.services++
	return nil
}

// Services returns the number of service pulses issued, including the one
// issued by Initialize.
func (c *Controller) Services() int {
	return c.services
}

// Initialized reports whether Initialize has completed.
func (c *Controller) Initialized() bool {
	return c.initialized
}
