package wdt

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
)

// FakeBlock is a test double that records every register access in order.
// Protected writes made while locked are recorded with a "!locked" suffix.
type FakeBlock struct {
	mu     sync.Mutex
	calls  []string
	locked bool

	// NeverEnable keeps IsEnabled false until cleared.
	NeverEnable atomic.Bool
}

// NewFakeBlock returns a locked FakeBlock with no recorded calls.
func NewFakeBlock() *FakeBlock {
	return &FakeBlock{locked: true}
}

// Calls returns a copy of the recorded calls.
func (f *FakeBlock) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// Reset forgets recorded calls.
func (f *FakeBlock) Reset() {
	f.mu.Lock()
	f.calls = nil
	f.mu.Unlock()
}

func (f *FakeBlock) record(call string, protected bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if protected && f.locked {
		call += "!locked"
	}
	f.calls = append(f.calls, call)
}

func (f *FakeBlock) Unlock() {
	f.mu.Lock()
	f.locked = false
	f.calls = append(f.calls, "Unlock")
	f.mu.Unlock()
}

func (f *FakeBlock) Lock() {
	f.mu.Lock()
	f.locked = true
	f.calls = append(f.calls, "Lock")
	f.mu.Unlock()
}

func (f *FakeBlock) Enable()  { f.record("Enable", true) }
func (f *FakeBlock) Disable() { f.record("Disable", true) }

func (f *FakeBlock) IsEnabled() bool {
	if f.NeverEnable.Load() {
		runtime.Gosched()
		return false
	}
	f.record("IsEnabled", false)
	return true
}

func (f *FakeBlock) SetLowerLimit(c uint32)    { f.record(fmt.Sprintf("SetLowerLimit(%d)", c), true) }
func (f *FakeBlock) SetUpperLimit(c uint32)    { f.record(fmt.Sprintf("SetUpperLimit(%d)", c), true) }
func (f *FakeBlock) SetWarnLimit(c uint32)     { f.record(fmt.Sprintf("SetWarnLimit(%d)", c), true) }
func (f *FakeBlock) SetLowerAction(a Action)   { f.record(fmt.Sprintf("SetLowerAction(%s)", a), true) }
func (f *FakeBlock) SetUpperAction(a Action)   { f.record(fmt.Sprintf("SetUpperAction(%s)", a), true) }
func (f *FakeBlock) SetWarnAction(a Action)    { f.record(fmt.Sprintf("SetWarnAction(%s)", a), true) }
func (f *FakeBlock) SetAutoService(on bool)    { f.record(fmt.Sprintf("SetAutoService(%t)", on), true) }
func (f *FakeBlock) SetDeepSleepPause(on bool) { f.record(fmt.Sprintf("SetDeepSleepPause(%t)", on), true) }
func (f *FakeBlock) SetDebugRun(on bool)       { f.record(fmt.Sprintf("SetDebugRun(%t)", on), true) }
func (f *FakeBlock) Service()                  { f.record("Service", true) }

func (f *FakeBlock) MaskInterrupt()   { f.record("MaskInterrupt", false) }
func (f *FakeBlock) UnmaskInterrupt() { f.record("UnmaskInterrupt", false) }
func (f *FakeBlock) ClearInterrupt()  { f.record("ClearInterrupt", false) }
