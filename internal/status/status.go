// Package status provides a thread-safe status tracker for the wdt-demo daemon.
// It is read by the HTTP handlers and the heartbeat publisher.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/wdt-demo/internal/board"
	"github.com/sweeney/wdt-demo/internal/warn"
	"github.com/sweeney/wdt-demo/internal/wdt"
)

// Config contains daemon configuration for display.
type Config struct {
	Mode        string
	PollMs      int64
	HeartbeatMs int64
	Broker      string
	HTTPPort    string
	Supervisor  string
}

// Boot is the per-boot state the run loop reports.
type Boot struct {
	ResetReason board.ResetReason
	Watchdog    wdt.Config
	WarnState   warn.State
	LEDOn       bool
	Warns       int
	Services    int
	Count       uint32 // watchdog counter at the last tick
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Boot
	Session       string
	Boots         int
	Resets        int
	TotalWarns    int
	StartTime     time.Time
	BootTime      time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// BootUptime returns the duration since the last emulated reset.
func (s Snapshot) BootUptime() time.Duration {
	if s.BootTime.IsZero() {
		return 0
	}
	return s.Now.Sub(s.BootTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu        sync.RWMutex
	snap      Snapshot
	prevWarns int // warns carried over from earlier boots
}

// NewTracker creates a Tracker with the given start time, session id and config.
func NewTracker(startTime time.Time, session string, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Session:   session,
			Config:    cfg,
		},
	}
}

// Booted records a new boot. Called once per boot, before the first Update.
func (t *Tracker) Booted(at time.Time, boot Boot) {
	t.mu.Lock()
	t.prevWarns = t.snap.TotalWarns
	t.snap.Boots++
	t.snap.BootTime = at
	t.snap.Boot = boot
	t.mu.Unlock()
}

// Update replaces the per-boot state. Called from runLoop on every tick.
func (t *Tracker) Update(boot Boot) {
	t.mu.Lock()
	t.snap.Boot = boot
	t.snap.TotalWarns = t.prevWarns + boot.Warns
	t.mu.Unlock()
}

// RecordReset counts a watchdog reset.
func (t *Tracker) RecordReset() {
	t.mu.Lock()
	t.snap.Resets++
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
