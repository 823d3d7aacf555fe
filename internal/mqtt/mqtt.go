// Package mqtt publishes watchdog demo events, with an abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/wdt-demo/internal/demo"
)

// Topic is the MQTT topic for watchdog events (BOOT, WARN, RESET).
const Topic = "wdt/demo/events"

// TopicSystem is the MQTT topic for daemon lifecycle events.
const TopicSystem = "wdt/demo/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a watchdog event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event demo.Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a lifecycle event (STARTUP, SHUTDOWN, HEARTBEAT, RECONNECTED).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string
	Reason     string // e.g. "SIGTERM" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool
}

// Payload is the MQTT message payload for a watchdog event.
type Payload struct {
	Watchdog WatchdogPayload `json:"watchdog"`
}

// WatchdogPayload contains the event details.
type WatchdogPayload struct {
	Timestamp   string `json:"timestamp"`
	Event       string `json:"event"`
	Mode        string `json:"mode"`
	Session     string `json:"session,omitempty"`
	ResetReason string `json:"reset_reason,omitempty"`
	Blinks      int    `json:"blinks,omitempty"`
	Detail      string `json:"detail,omitempty"`
	LED         string `json:"led"`
	Warns       int    `json:"warns"`
	Services    int    `json:"services"`
}

// FormatPayload creates the JSON payload for a watchdog event. session ties
// events to one daemon run; empty omits it.
func FormatPayload(event demo.Event, session string) ([]byte, error) {
	led := "OFF"
	if event.LEDOn {
		led = "ON"
	}
	payload := Payload{
		Watchdog: WatchdogPayload{
			Timestamp:   event.Timestamp.UTC().Format(time.RFC3339),
			Event:       string(event.Type),
			Mode:        event.Mode,
			Session:     session,
			ResetReason: string(event.ResetReason),
			Blinks:      event.Blinks,
			Detail:      event.Detail,
			LED:         led,
			Warns:       event.Warns,
			Services:    event.Services,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload is the payload for simple system events (LWT, RECONNECTED)
// that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly.
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
