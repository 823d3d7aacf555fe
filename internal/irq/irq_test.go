package irq

import (
	"errors"
	"testing"
)

func TestRegisterBadParams(t *testing.T) {
	c := NewController()
	noop := func() {}

	if err := c.Register(-1, 0, noop); !errors.Is(err, ErrBadParam) {
		t.Errorf("negative source: expected ErrBadParam, got %v", err)
	}
	if err := c.Register(maxSource+1, 0, noop); !errors.Is(err, ErrBadParam) {
		t.Errorf("source out of range: expected ErrBadParam, got %v", err)
	}
	if err := c.Register(SourceWDT, MaxPriority+1, noop); !errors.Is(err, ErrBadParam) {
		t.Errorf("priority out of range: expected ErrBadParam, got %v", err)
	}
	if err := c.Register(SourceWDT, 0, nil); !errors.Is(err, ErrBadParam) {
		t.Errorf("nil handler: expected ErrBadParam, got %v", err)
	}
	if err := c.Register(SourceWDT, 0, noop); err != nil {
		t.Errorf("valid registration: unexpected error %v", err)
	}
	if c.Priority(SourceWDT) != 0 {
		t.Errorf("Priority: got %d, want 0", c.Priority(SourceWDT))
	}
}

func TestRaiseDispatchesWhenEnabled(t *testing.T) {
	c := NewController()
	calls := 0
	c.Register(SourceWDT, 0, func() { calls++ })
	c.Enable(SourceWDT)

	c.Raise(SourceWDT)
	if calls != 1 {
		t.Fatalf("calls: got %d, want 1", calls)
	}
	if c.Pending(SourceWDT) {
		t.Error("request should be acknowledged on handler entry")
	}
	if c.Dispatched(SourceWDT) != 1 {
		t.Errorf("Dispatched: got %d, want 1", c.Dispatched(SourceWDT))
	}
}

func TestRaiseWhileDisabledStaysPending(t *testing.T) {
	c := NewController()
	calls := 0
	c.Register(SourceWDT, 0, func() { calls++ })

	c.Raise(SourceWDT)
	c.Raise(SourceWDT)
	if calls != 0 {
		t.Fatalf("handler ran while disabled")
	}
	if !c.Pending(SourceWDT) {
		t.Fatal("expected pending request")
	}

	c.Enable(SourceWDT)
	if calls != 1 {
		t.Errorf("calls after enable: got %d, want 1", calls)
	}
}

func TestMaskHoldsRequest(t *testing.T) {
	c := NewController()
	calls := 0
	c.Register(SourceWDT, 0, func() { calls++ })
	c.Enable(SourceWDT)
	c.Mask(SourceWDT)

	c.Raise(SourceWDT)
	if calls != 0 {
		t.Fatal("handler ran while masked")
	}

	c.ClearPending(SourceWDT)
	c.Unmask(SourceWDT)
	if calls != 0 {
		t.Errorf("cleared request was delivered")
	}

	c.Mask(SourceWDT)
	c.Raise(SourceWDT)
	c.Unmask(SourceWDT)
	if calls != 1 {
		t.Errorf("calls after unmask: got %d, want 1", calls)
	}
}

func TestHandlerMayRaiseAgain(t *testing.T) {
	c := NewController()
	calls := 0
	c.Register(SourceWDT, 0, func() {
		calls++
		if calls < 3 {
			c.Raise(SourceWDT)
		}
	})
	c.Enable(SourceWDT)

	c.Raise(SourceWDT)
	if calls != 3 {
		t.Errorf("calls: got %d, want 3", calls)
	}
}
