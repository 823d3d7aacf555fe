package status

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/sweeney/wdt-demo/internal/board"
	"github.com/sweeney/wdt-demo/internal/warn"
	"github.com/sweeney/wdt-demo/internal/wdt"
)

var testCfg = Config{Mode: "interrupt", PollMs: 10, HeartbeatMs: 900000, Broker: "tcp://localhost:1883", HTTPPort: ":8080"}

func TestNewTracker(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := NewTracker(start, "sess", testCfg)

	snap := tr.Snapshot()
	if !snap.StartTime.Equal(start) {
		t.Errorf("StartTime: got %v, want %v", snap.StartTime, start)
	}
	if snap.Session != "sess" || snap.Config != testCfg {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
	if snap.Boots != 0 || snap.BootUptime() != 0 {
		t.Errorf("no boot yet: boots=%d uptime=%v", snap.Boots, snap.BootUptime())
	}
	if snap.Now.Before(start) {
		t.Error("Now should be set at snapshot time")
	}
}

func TestBootedAndUpdate(t *testing.T) {
	tr := NewTracker(time.Now(), "", testCfg)

	tr.Booted(time.Now(), Boot{ResetReason: board.ResetOther, WarnState: warn.StateArmed})
	tr.Update(Boot{Warns: 3, Services: 4, LEDOn: true})
	if snap := tr.Snapshot(); snap.Boots != 1 || snap.TotalWarns != 3 || !snap.LEDOn {
		t.Errorf("first boot: %+v", snap)
	}

	tr.RecordReset()
	tr.Booted(time.Now(), Boot{ResetReason: board.ResetWatchdog})
	tr.Update(Boot{ResetReason: board.ResetWatchdog, Warns: 2})

	snap := tr.Snapshot()
	if snap.Boots != 2 || snap.Resets != 1 {
		t.Errorf("boots=%d resets=%d", snap.Boots, snap.Resets)
	}
	if snap.Warns != 2 || snap.TotalWarns != 5 {
		t.Errorf("warns=%d total=%d, want 2 and 5", snap.Warns, snap.TotalWarns)
	}
	if snap.ResetReason != board.ResetWatchdog {
		t.Errorf("ResetReason: got %s", snap.ResetReason)
	}
}

func TestSetMQTTConnected(t *testing.T) {
	tr := NewTracker(time.Now(), "", testCfg)
	tr.SetMQTTConnected(true)
	if !tr.Snapshot().MQTTConnected {
		t.Error("expected connected")
	}
	tr.SetMQTTConnected(false)
	if tr.Snapshot().MQTTConnected {
		t.Error("expected disconnected")
	}
}

func TestTrackerConcurrentAccess(t *testing.T) {
	tr := NewTracker(time.Now(), "", testCfg)
	tr.Booted(time.Now(), Boot{})

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tr.Update(Boot{Warns: j})
				tr.SetMQTTConnected(j%2 == n%2)
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = FormatJSON(tr.Snapshot())
			}
		}()
	}
	wg.Wait()
}

func TestFormatJSON(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Boot: Boot{
			ResetReason: board.ResetWatchdog,
			Watchdog:    wdt.DemoConfig(),
			WarnState:   warn.StateArmed,
			LEDOn:       true,
			Warns:       4,
			Services:    5,
			Count:       1234,
		},
		Session:   "abc",
		Boots:     2,
		Resets:    1,
		StartTime: start,
		BootTime:  start.Add(30 * time.Second),
		Now:       start.Add(90 * time.Second),
		Config:    testCfg,
	}

	var parsed StatusJSON
	if err := json.Unmarshal(FormatJSON(snap), &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	s := parsed.Status
	if s.Event != "" || s.Reason != "" {
		t.Errorf("web status should have no event: %+v", s)
	}
	if s.Mode != "interrupt" || s.ResetReason != "WATCHDOG_RESET" || s.WarnState != "ARMED" || s.LED != "ON" {
		t.Errorf("unexpected state: %+v", s)
	}
	if s.UptimeSeconds != 90 || s.BootUptimeSeconds != 60 {
		t.Errorf("uptime=%d boot=%d", s.UptimeSeconds, s.BootUptimeSeconds)
	}
	if s.Counts.Boots != 2 || s.Counts.Resets != 1 || s.Counts.Warns != 4 || s.Counts.Services != 5 {
		t.Errorf("counts: %+v", s.Counts)
	}
	if s.Watchdog.UpperLimit != 40000 || s.Watchdog.Count != 1234 || s.Watchdog.UpperAction != "NONE" {
		t.Errorf("watchdog: %+v", s.Watchdog)
	}
}

func TestFormatJSONUnknownFields(t *testing.T) {
	var parsed StatusJSON
	if err := json.Unmarshal(FormatJSON(Snapshot{}), &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Status.Mode != "UNKNOWN" || parsed.Status.WarnState != "UNKNOWN" || parsed.Status.ResetReason != "UNKNOWN" {
		t.Errorf("empty fields should read UNKNOWN: %+v", parsed.Status)
	}
}

func TestFormatStatusEvent(t *testing.T) {
	snap := Snapshot{Config: testCfg, Boots: 1}

	var parsed StatusJSON
	if err := json.Unmarshal(FormatStatusEvent(snap, "SHUTDOWN", "SIGTERM"), &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Status.Event != "SHUTDOWN" || parsed.Status.Reason != "SIGTERM" {
		t.Errorf("event=%q reason=%q", parsed.Status.Event, parsed.Status.Reason)
	}
	if parsed.Status.Counts.Boots != 1 {
		t.Errorf("boots: got %d", parsed.Status.Counts.Boots)
	}
}
