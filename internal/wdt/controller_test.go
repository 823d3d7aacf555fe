package wdt

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func interruptConfig() Config {
	cfg := DemoConfig()
	cfg.WarnAction = ActionInterrupt
	return cfg
}

func TestInitializeSequence(t *testing.T) {
	f := NewFakeBlock()
	c := NewController(f)

	if err := c.Initialize(interruptConfig()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"Unlock",
		"Disable",
		"SetLowerLimit(0)",
		"SetUpperLimit(40000)",
		"SetWarnLimit(40000)",
		"SetLowerAction(NONE)",
		"SetUpperAction(NONE)",
		"SetWarnAction(INTERRUPT)",
		"SetAutoService(false)",
		"SetDeepSleepPause(false)",
		"SetDebugRun(true)",
		"Enable",
		"IsEnabled",
		"Service",
		"Lock",
	}
	got := f.Calls()
	if len(got) != len(want) {
		t.Fatalf("calls: got %d %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("call %d: got %q, want %q", i, got[i], want[i])
		}
	}
	if !c.Initialized() {
		t.Error("expected Initialized() after Initialize")
	}
	if c.Services() != 1 {
		t.Errorf("Services: got %d, want 1", c.Services())
	}
}

func TestInitializeRejectsInvalidConfig(t *testing.T) {
	f := NewFakeBlock()
	c := NewController(f)

	cfg := interruptConfig()
	cfg.WarnLimit = cfg.UpperLimit + 1

	err := c.Initialize(cfg)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if calls := f.Calls(); len(calls) != 0 {
		t.Errorf("expected no hardware access, got %v", calls)
	}
	if c.Initialized() {
		t.Error("controller should not be initialized")
	}
}

func TestInitializeTwice(t *testing.T) {
	c := NewController(NewFakeBlock())
	if err := c.Initialize(interruptConfig()); err != nil {
		t.Fatalf("first Initialize: %v", err)
	}
	if err := c.Initialize(interruptConfig()); !errors.Is(err, ErrAlreadyInitialized) {
		t.Errorf("expected ErrAlreadyInitialized, got %v", err)
	}
}

func TestServiceBeforeInitialize(t *testing.T) {
	f := NewFakeBlock()
	c := NewController(f)

	if err := c.Service(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
	if calls := f.Calls(); len(calls) != 0 {
		t.Errorf("expected no hardware access, got %v", calls)
	}
}

func TestServiceBracketedByUnlockLock(t *testing.T) {
	f := NewFakeBlock()
	c := NewController(f)
	if err := c.Initialize(interruptConfig()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	f.Reset()

	for i := 0; i < 3; i++ {
		if err := c.Service(); err != nil {
			t.Fatalf("Service %d: %v", i, err)
		}
	}

	got := f.Calls()
	want := []string{"Unlock", "Service", "Lock", "Unlock", "Service", "Lock", "Unlock", "Service", "Lock"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("calls: got %v, want %v", got, want)
	}
	if c.Services() != 4 {
		t.Errorf("Services: got %d, want 4", c.Services())
	}
}

func TestEnabledBeforeFirstService(t *testing.T) {
	f := NewFakeBlock()
	c := NewController(f)
	if err := c.Initialize(interruptConfig()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	enabledAt, serviceAt := -1, -1
	for i, call := range f.Calls() {
		if call == "IsEnabled" && enabledAt < 0 {
			enabledAt = i
		}
		if call == "Service" && serviceAt < 0 {
			serviceAt = i
		}
	}
	if enabledAt < 0 || serviceAt < 0 || enabledAt > serviceAt {
		t.Errorf("expected IsEnabled (at %d) before first Service (at %d)", enabledAt, serviceAt)
	}
}

func TestNoWriteWhileLocked(t *testing.T) {
	f := NewFakeBlock()
	c := NewController(f)
	if err := c.Initialize(interruptConfig()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	for i := 0; i < 10; i++ {
		c.Service()
	}
	for _, call := range f.Calls() {
		if strings.HasSuffix(call, "!locked") {
			t.Errorf("write while locked: %s", call)
		}
	}
}

func TestInitializeBlocksUntilEnabled(t *testing.T) {
	f := NewFakeBlock()
	f.NeverEnable.Store(true)
	c := NewController(f)

	done := make(chan error, 1)
	go func() { done <- c.Initialize(interruptConfig()) }()

	select {
	case err := <-done:
		t.Fatalf("Initialize returned before block enabled: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	f.NeverEnable.Store(false)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Initialize did not return after block enabled")
	}
}

func TestControllerWithSimBlock(t *testing.T) {
	b := NewSimBlock(SimOptions{})
	c := NewController(b)
	if err := c.Initialize(interruptConfig()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	st := b.State()
	if !st.Enabled {
		t.Error("expected block enabled")
	}
	if !st.Locked {
		t.Error("expected block locked after Initialize")
	}
	if st.Dropped != 0 {
		t.Errorf("dropped writes: got %d, want 0", st.Dropped)
	}
	if st.Config != interruptConfig() {
		t.Errorf("config readback: got %+v, want %+v", st.Config, interruptConfig())
	}

	b.Advance(12345)
	if err := c.Service(); err != nil {
		t.Fatalf("Service: %v", err)
	}
	if b.Count() != 0 {
		t.Errorf("count after service: got %d, want 0", b.Count())
	}
}
