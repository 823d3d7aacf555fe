package mqtt

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/wdt-demo/internal/board"
	"github.com/sweeney/wdt-demo/internal/demo"
)

func TestFormatPayloadWarn(t *testing.T) {
	event := demo.Event{
		Timestamp: time.Date(2026, 3, 4, 9, 15, 0, 0, time.UTC),
		Type:      demo.EventWarn,
		Mode:      "interrupt",
		LEDOn:     true,
		Warns:     7,
		Services:  8,
	}

	payload, err := FormatPayload(event, "abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed Payload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	w := parsed.Watchdog
	if w.Timestamp != "2026-03-04T09:15:00Z" {
		t.Errorf("unexpected timestamp: %s", w.Timestamp)
	}
	if w.Event != "WARN" || w.Mode != "interrupt" || w.Session != "abc" {
		t.Errorf("unexpected header: %+v", w)
	}
	if w.LED != "ON" || w.Warns != 7 || w.Services != 8 {
		t.Errorf("unexpected counters: %+v", w)
	}
	if strings.Contains(string(payload), "reset_reason") || strings.Contains(string(payload), "blinks") {
		t.Errorf("warn payload should omit boot fields: %s", payload)
	}
}

func TestFormatPayloadBoot(t *testing.T) {
	event := demo.Event{
		Timestamp:   time.Now(),
		Type:        demo.EventBoot,
		Mode:        "reset",
		ResetReason: board.ResetWatchdog,
		Blinks:      3,
	}

	payload, err := FormatPayload(event, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed Payload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Watchdog.ResetReason != "WATCHDOG_RESET" || parsed.Watchdog.Blinks != 3 {
		t.Errorf("unexpected boot fields: %+v", parsed.Watchdog)
	}
	if parsed.Watchdog.LED != "OFF" {
		t.Errorf("LED: got %s, want OFF", parsed.Watchdog.LED)
	}
	if strings.Contains(string(payload), "session") {
		t.Errorf("empty session should be omitted: %s", payload)
	}
}

func TestFormatPayloadNonUTC(t *testing.T) {
	loc := time.FixedZone("EST", -5*60*60)
	event := demo.Event{
		Timestamp: time.Date(2026, 3, 4, 4, 15, 0, 0, loc),
		Type:      demo.EventReset,
		Detail:    "upper limit",
	}

	payload, err := FormatPayload(event, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var parsed Payload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Watchdog.Timestamp != "2026-03-04T09:15:00Z" {
		t.Errorf("timestamp should be UTC: %s", parsed.Watchdog.Timestamp)
	}
	if parsed.Watchdog.Detail != "upper limit" {
		t.Errorf("detail: got %q", parsed.Watchdog.Detail)
	}
}

func TestFormatSystemPayload(t *testing.T) {
	payload, err := FormatSystemPayload(SystemEvent{
		Timestamp: time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed SystemPayload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.System.Event != "SHUTDOWN" || parsed.System.Reason != "SIGTERM" {
		t.Errorf("unexpected payload: %+v", parsed.System)
	}
}

func TestFormatSystemPayloadRaw(t *testing.T) {
	raw := []byte(`{"system":{"event":"HEARTBEAT"}}`)
	payload, err := FormatSystemPayload(SystemEvent{Event: "ignored", RawPayload: raw})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(payload) != string(raw) {
		t.Errorf("got %s, want raw payload", payload)
	}
}

func TestFakePublisher(t *testing.T) {
	fake := NewFakePublisher()
	fake.Session = "s1"

	if err := fake.Publish(demo.Event{Type: demo.EventBoot}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := fake.PublishSystem(SystemEvent{Event: "STARTUP"}); err != nil {
		t.Fatalf("PublishSystem: %v", err)
	}

	if got := fake.EventTypes(); len(got) != 1 || got[0] != demo.EventBoot {
		t.Errorf("events: %v", got)
	}
	if got := fake.SystemEventNames(); len(got) != 1 || got[0] != "STARTUP" {
		t.Errorf("system events: %v", got)
	}
	if !strings.Contains(string(fake.Payloads[0]), `"session":"s1"`) {
		t.Errorf("payload missing session: %s", fake.Payloads[0])
	}
	if !fake.IsConnected() {
		t.Error("fake should start connected")
	}

	fake.PublishError = errors.New("broker down")
	if err := fake.Publish(demo.Event{Type: demo.EventWarn}); err == nil {
		t.Error("expected publish error")
	}
	if len(fake.Events) != 1 {
		t.Errorf("failed publish was recorded: %d events", len(fake.Events))
	}

	fake.Close()
	if !fake.Closed {
		t.Error("expected Closed")
	}
	fake.Reset()
	if len(fake.Events) != 0 || fake.Closed || fake.PublishError != nil {
		t.Error("Reset did not clear state")
	}
}

func TestPublisherInterfaces(t *testing.T) {
	var _ Publisher = (*RealPublisher)(nil)
	var _ ConnectionStatus = (*RealPublisher)(nil)
	var _ Publisher = (*FakePublisher)(nil)
	var _ ConnectionStatus = (*FakePublisher)(nil)
}
