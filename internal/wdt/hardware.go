package wdt

// Hardware is the watchdog register block.
// Writes to limit, action, mode, enable and service registers are ignored
// while the block is locked. Interrupt mask and clear are never locked.
type Hardware interface {
	Unlock()
	Lock()

	Enable()
	Disable()
	// IsEnabled reports whether an Enable has taken effect. It may lag the
	// Enable write by a few clock cycles.
	IsEnabled() bool

	SetLowerLimit(count uint32)
	SetUpperLimit(count uint32)
	SetWarnLimit(count uint32)

	SetLowerAction(a Action)
	SetUpperAction(a Action)
	SetWarnAction(a Action)

	SetAutoService(on bool)
	SetDeepSleepPause(on bool)
	SetDebugRun(on bool)

	// Service resets the count to zero.
	Service()

	InterruptControl
}

// InterruptControl is the part of the block the warn handler touches.
type InterruptControl interface {
	MaskInterrupt()
	UnmaskInterrupt()
	ClearInterrupt()
}
