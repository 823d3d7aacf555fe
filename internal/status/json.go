package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event             string       `json:"event,omitempty"`
	Reason            string       `json:"reason,omitempty"`
	Mode              string       `json:"mode"`
	Session           string       `json:"session"`
	ResetReason       string       `json:"reset_reason"`
	WarnState         string       `json:"warn_state"`
	LED               string       `json:"led"`
	UptimeSeconds     int64        `json:"uptime_seconds"`
	BootUptimeSeconds int64        `json:"boot_uptime_seconds"`
	StartTime         string       `json:"start_time"`
	Timestamp         string       `json:"timestamp"`
	MQTT              MQTTStatus   `json:"mqtt"`
	Counts            CountsJSON   `json:"counts"`
	Watchdog          WatchdogJSON `json:"watchdog"`
	Config            ConfigJSON   `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of daemon counters.
type CountsJSON struct {
	Boots      int `json:"boots"`
	Resets     int `json:"resets"`
	Warns      int `json:"warns"`
	TotalWarns int `json:"total_warns"`
	Services   int `json:"services"`
}

// WatchdogJSON is the watchdog configuration of the current boot.
type WatchdogJSON struct {
	Count       uint32 `json:"count"`
	LowerLimit  uint32 `json:"lower_limit"`
	UpperLimit  uint32 `json:"upper_limit"`
	WarnLimit   uint32 `json:"warn_limit"`
	LowerAction string `json:"lower_action"`
	UpperAction string `json:"upper_action"`
	WarnAction  string `json:"warn_action"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs      int64  `json:"poll_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Broker      string `json:"broker"`
	HTTPPort    string `json:"http_port"`
	Supervisor  string `json:"supervisor,omitempty"`
}

func orUnknown(s string) string {
	if s == "" {
		return "UNKNOWN"
	}
	return s
}

func buildInner(snap Snapshot) StatusInner {
	led := "OFF"
	if snap.LEDOn {
		led = "ON"
	}
	w := snap.Watchdog

	return StatusInner{
		Mode:              orUnknown(snap.Config.Mode),
		Session:           snap.Session,
		ResetReason:       orUnknown(string(snap.ResetReason)),
		WarnState:         orUnknown(string(snap.WarnState)),
		LED:               led,
		UptimeSeconds:     int64(snap.Uptime().Truncate(time.Second).Seconds()),
		BootUptimeSeconds: int64(snap.BootUptime().Truncate(time.Second).Seconds()),
		StartTime:         snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:         snap.Now.UTC().Format(time.RFC3339),
		MQTT:              MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Boots:      snap.Boots,
			Resets:     snap.Resets,
			Warns:      snap.Warns,
			TotalWarns: snap.TotalWarns,
			Services:   snap.Services,
		},
		Watchdog: WatchdogJSON{
			Count:       snap.Count,
			LowerLimit:  w.LowerLimit,
			UpperLimit:  w.UpperLimit,
			WarnLimit:   w.WarnLimit,
			LowerAction: orUnknown(string(w.LowerAction)),
			UpperAction: orUnknown(string(w.UpperAction)),
			WarnAction:  orUnknown(string(w.WarnAction)),
		},
		Config: ConfigJSON{
			PollMs:      snap.Config.PollMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Broker:      snap.Config.Broker,
			HTTPPort:    snap.Config.HTTPPort,
			Supervisor:  snap.Config.Supervisor,
		},
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
