package wdt

import "sync"

// DefaultEnableDelay is how many IsEnabled polls an Enable takes to land.
// The real block needs up to three low-frequency clock cycles.
const DefaultEnableDelay = 3

// SimOptions wires a SimBlock to the rest of the emulated board.
type SimOptions struct {
	// Raise is called, outside the block's lock, when the block asserts its
	// interrupt line. Typically irq.Controller.Raise bound to the WDT source.
	Raise func()
	// OnReset is called, outside the block's lock, when the block resets the system.
	OnReset func(reason string)
	// EnableDelay overrides DefaultEnableDelay when > 0.
	EnableDelay int
}

// SimBlock is a software model of the watchdog block. The count is advanced
// by Advance, usually from RunClock. Safe for concurrent use: the clock
// goroutine plays the interrupt context, the main loop the foreground.
type SimBlock struct {
	mu   sync.Mutex
	opts SimOptions

	locked      bool
	enabled     bool
	enabling    int
	lower       uint32
	upper       uint32
	warn        uint32
	lowerAction Action
	upperAction Action
	warnAction  Action
	autoService bool
	deepSleep   bool
	debugRun    bool

	count     uint32
	window    bool // lower limit check armed; off until the first service after enable
	masked    bool
	pending   bool
	warnFired bool
	halted    bool

	services int
	dropped  int
}

// NewSimBlock returns a block in its power-on state: locked, disabled,
// interrupt masked, count zero.
func NewSimBlock(opts SimOptions) *SimBlock {
	if opts.EnableDelay <= 0 {
		opts.EnableDelay = DefaultEnableDelay
	}
	return &SimBlock{
		opts:        opts,
		locked:      true,
		masked:      true,
		lowerAction: ActionNone,
		upperAction: ActionNone,
		warnAction:  ActionNone,
	}
}

// writable reports whether a protected write may proceed and counts the
// ones that are dropped. Caller holds mu.
func (s *SimBlock) writable() bool {
	if s.locked {
		s.dropped++
		return false
	}
	return true
}

func (s *SimBlock) Unlock() {
	s.mu.Lock()
	s.locked = false
	s.mu.Unlock()
}

func (s *SimBlock) Lock() {
	s.mu.Lock()
	s.locked = true
	s.mu.Unlock()
}

func (s *SimBlock) Enable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.writable() || s.enabled {
		return
	}
	s.enabling = s.opts.EnableDelay
	s.window = false
}

func (s *SimBlock) Disable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.writable() {
		return
	}
	s.enabled = false
	s.enabling = 0
}

func (s *SimBlock) IsEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled && s.enabling > 0 {
		s.enabling--
		if s.enabling == 0 {
			s.enabled = true
		}
	}
	return s.enabled
}

func (s *SimBlock) SetLowerLimit(count uint32) { s.set(func() { s.lower = count }) }
func (s *SimBlock) SetUpperLimit(count uint32) { s.set(func() { s.upper = count }) }
func (s *SimBlock) SetWarnLimit(count uint32)  { s.set(func() { s.warn = count }) }
func (s *SimBlock) SetLowerAction(a Action)    { s.set(func() { s.lowerAction = a }) }
func (s *SimBlock) SetUpperAction(a Action)    { s.set(func() { s.upperAction = a }) }
func (s *SimBlock) SetWarnAction(a Action)     { s.set(func() { s.warnAction = a }) }
func (s *SimBlock) SetAutoService(on bool)     { s.set(func() { s.autoService = on }) }
func (s *SimBlock) SetDeepSleepPause(on bool)  { s.set(func() { s.deepSleep = on }) }
func (s *SimBlock) SetDebugRun(on bool)        { s.set(func() { s.debugRun = on }) }

func (s *SimBlock) set(write func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writable() {
		write()
	}
}

// Service resets the count. Servicing below the lower limit with a RESET
// lower action resets the system.
func (s *SimBlock) Service() {
	s.mu.Lock()
	if !s.writable() || s.halted {
		s.mu.Unlock()
		return
	}
	early := s.enabled && s.window && s.lowerAction == ActionReset && s.count < s.lower
	if early {
		s.halted = true
	} else {
		s.count = 0
		s.warnFired = false
		s.window = s.enabled
		s.services++
	}
	s.mu.Unlock()

	if early {
		s.reset("serviced below lower limit")
	}
}

func (s *SimBlock) MaskInterrupt() {
	s.mu.Lock()
	s.masked = true
	s.mu.Unlock()
}

// UnmaskInterrupt unmasks the warn interrupt. A request still pending
// asserts the line immediately.
func (s *SimBlock) UnmaskInterrupt() {
	s.mu.Lock()
	s.masked = false
	fire := s.pending
	s.mu.Unlock()

	if fire {
		s.raise()
	}
}

func (s *SimBlock) ClearInterrupt() {
	s.mu.Lock()
	s.pending = false
	s.mu.Unlock()
}

// Advance moves the count forward by ticks and runs any limit actions the
// count crosses. A disabled or halted block does not count.
func (s *SimBlock) Advance(ticks uint32) {
	s.mu.Lock()
	if !s.enabled || s.halted || ticks == 0 {
		s.mu.Unlock()
		return
	}

	prev := s.count
	next := prev + ticks
	if next < prev || next > s.upper {
		next = s.upper
	}

	var fire, reset bool
	if s.warnAction == ActionInterrupt && !s.warnFired && next >= s.warn {
		s.warnFired = true
		s.pending = true
		fire = !s.masked
	}

	s.count = next
	if next >= s.upper {
		switch {
		case s.upperAction == ActionReset:
			s.halted = true
			reset = true
		case s.autoService:
			s.count = 0
			s.warnFired = false
			s.services++
		}
	}
	s.mu.Unlock()

	if fire {
		s.raise()
	}
	if reset {
		s.reset("upper limit reached")
	}
}

func (s *SimBlock) raise() {
	if s.opts.Raise != nil {
		s.opts.Raise()
	}
}

func (s *SimBlock) reset(reason string) {
	if s.opts.OnReset != nil {
		s.opts.OnReset(reason)
	}
}

// SimState is a point-in-time copy of the block's registers.
type SimState struct {
	Locked   bool
	Enabled  bool
	Count    uint32
	Masked   bool
	Pending  bool
	Halted   bool
	Services int
	Dropped  int
	Config   Config
}

// State returns a copy of the block's registers.
func (s *SimBlock) State() SimState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SimState{
		Locked:   s.locked,
		Enabled:  s.enabled,
		Count:    s.count,
		Masked:   s.masked,
		Pending:  s.pending,
		Halted:   s.halted,
		Services: s.services,
		Dropped:  s.dropped,
		Config: Config{
			LowerLimit:     s.lower,
			UpperLimit:     s.upper,
			WarnLimit:      s.warn,
			LowerAction:    s.lowerAction,
			UpperAction:    s.upperAction,
			WarnAction:     s.warnAction,
			AutoService:    s.autoService,
			DeepSleepPause: s.deepSleep,
			DebugRun:       s.debugRun,
		},
	}
}

// Count returns the current count.
func (s *SimBlock) Count() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// DroppedWrites returns how many protected writes arrived while locked.
func (s *SimBlock) DroppedWrites() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}
