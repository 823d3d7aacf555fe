// Command wdt-demo runs the watchdog timer demo on an emulated board and
// publishes boot, warn and reset events to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofrs/uuid"

	"github.com/sweeney/wdt-demo/internal/board"
	"github.com/sweeney/wdt-demo/internal/config"
	"github.com/sweeney/wdt-demo/internal/demo"
	"github.com/sweeney/wdt-demo/internal/mqtt"
	"github.com/sweeney/wdt-demo/internal/status"
	"github.com/sweeney/wdt-demo/internal/supervisor"
	"github.com/sweeney/wdt-demo/internal/wdt"
	"github.com/sweeney/wdt-demo/internal/web"
)

type flags struct {
	configPath  string
	broker      string
	httpAddr    string
	poll        time.Duration
	heartbeat   time.Duration
	supervisor  string
	printConfig bool
}

func main() {
	var f flags
	flag.StringVar(&f.configPath, "config", "", "YAML config file (empty uses built-in defaults)")
	flag.StringVar(&f.broker, "broker", "tcp://localhost:1883", "MQTT broker address (empty to disable)")
	flag.StringVar(&f.httpAddr, "http", ":8080", "HTTP status address (empty to disable)")
	flag.DurationVar(&f.poll, "poll", 10*time.Millisecond, "Main loop polling interval")
	flag.DurationVar(&f.heartbeat, "heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	flag.StringVar(&f.supervisor, "supervisor", "", "Linux watchdog device to keep alive, e.g. /dev/watchdog (overrides config)")
	flag.BoolVar(&f.printConfig, "print-config", false, "Print the effective config and exit")

	flag.Parse()

	if err := run(f); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func loadConfig(f flags) (*config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
	}
	if f.supervisor != "" {
		cfg.Supervisor = f.supervisor
	}
	if err := config.Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func run(f flags) error {
	if f.poll <= 0 {
		return fmt.Errorf("poll must be > 0")
	}
	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}

	if f.printConfig {
		out, err := config.Dump(cfg)
		if err != nil {
			return err
		}
		fmt.Printf("# mode: %s\n%s", buildMode.Name(), out)
		return nil
	}

	session, err := uuid.NewV4()
	if err != nil {
		return fmt.Errorf("session id: %w", err)
	}

	b, err := board.New(board.Options{
		LEDChip:     cfg.LED.Chip,
		LEDLine:     cfg.LED.Line,
		Supervisor:  cfg.Supervisor,
		EnableDelay: cfg.Watchdog.EnableDelay,
	})
	if err != nil {
		return fmt.Errorf("init board: %w", err)
	}
	defer b.Close()

	var publisher mqtt.Publisher = nopPublisher{}
	var conn mqtt.ConnectionStatus = nopPublisher{}
	if f.broker != "" {
		p, err := mqtt.NewRealPublisher(mqtt.RealOptions{Broker: f.broker, Session: session.String()})
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		defer p.Close()
		publisher, conn = p, p
	}

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), session.String(), status.Config{
		Mode:        buildMode.Name(),
		PollMs:      f.poll.Milliseconds(),
		HeartbeatMs: f.heartbeat.Milliseconds(),
		Broker:      f.broker,
		HTTPPort:    f.httpAddr,
		Supervisor:  cfg.Supervisor,
	})
	tracker.SetMQTTConnected(conn.IsConnected())

	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	if f.httpAddr != "" {
		srv := web.New(f.httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", f.httpAddr)
	}

	log.Printf("started: mode=%s session=%s poll=%v broker=%s heartbeat=%v",
		buildMode.Name(), session, f.poll, f.broker, f.heartbeat)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	out := outputs{
		pub:       publisher,
		conn:      conn,
		tracker:   tracker,
		heartbeat: f.heartbeat,
		now:       time.Now,
	}
	opts := demo.Options{Mode: buildMode, Base: cfg.WDT(), Blink: cfg.Blink()}

	for {
		bt, err := bootBoard(b, opts, out)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		clockDone := make(chan struct{})
		go func() {
			defer close(clockDone)
			wdt.RunClock(ctx, bt.block, cfg.Watchdog.ClockHz, cfg.ClockStep())
		}()

		ticker := time.NewTicker(f.poll)
		reason, err := runLoop(bt, out, ticker.C, sigCh)
		ticker.Stop()
		cancel()
		<-clockDone

		if err != nil || reason == "" {
			return err
		}

		log.Printf("watchdog reset (%s), restarting board", reason)
		if err := b.Restart(board.ResetWatchdog); err != nil {
			return err
		}
	}
}

// boot is one run of the firmware, from reset to the next reset.
type boot struct {
	demo   *demo.Demo
	block  *wdt.SimBlock
	resets <-chan string
	keeper supervisor.Keeper
	reason board.ResetReason
}

// outputs are the sinks that outlive a boot.
type outputs struct {
	pub       mqtt.Publisher
	conn      mqtt.ConnectionStatus
	tracker   *status.Tracker
	heartbeat time.Duration
	now       func() time.Time
}

// bootBoard runs the boot sequence on the board's current peripherals and
// publishes the BOOT event. An error here is fatal.
func bootBoard(b *board.Board, opts demo.Options, out outputs) (boot, error) {
	d := demo.New(opts, b.LED, b.WDT(), b.IRQ())
	ev, err := d.Boot(b, out.now())
	if err != nil {
		return boot{}, fmt.Errorf("boot %d: %w", b.Boots(), err)
	}

	bt := boot{
		demo:   d,
		block:  b.WDT(),
		resets: b.Resets(),
		keeper: b.Keeper,
		reason: ev.ResetReason,
	}
	log.Printf("boot %d: mode=%s reset_reason=%s blinks=%d", b.Boots(), ev.Mode, ev.ResetReason, ev.Blinks)
	out.tracker.Booted(ev.Timestamp, bt.state())
	if err := bt.keeper.Keepalive(); err != nil {
		log.Printf("supervisor keepalive error: %v", err)
	}
	if err := out.pub.Publish(ev); err != nil {
		log.Printf("publish error: %v", err)
	}
	return bt, nil
}

func (bt boot) state() status.Boot {
	c := bt.demo.Counts()
	return status.Boot{
		ResetReason: bt.reason,
		Watchdog:    bt.demo.Config(),
		WarnState:   bt.demo.WarnState(),
		LEDOn:       bt.demo.LEDOn(),
		Warns:       c.Warns,
		Services:    c.Services,
		Count:       bt.block.Count(),
	}
}

// runLoop is the main loop of one boot. It returns the reset reason when the
// watchdog resets the board, or "" on shutdown.
func runLoop(bt boot, out outputs, tick <-chan time.Time, sig <-chan os.Signal) (string, error) {
	lastHeartbeat := out.now()

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			out.tracker.Update(bt.state())
			out.tracker.SetMQTTConnected(out.conn.IsConnected())
			snap := out.tracker.Snapshot()
			event := mqtt.SystemEvent{
				Timestamp:  out.now(),
				Event:      "SHUTDOWN",
				Reason:     signalName,
				Retained:   true,
				RawPayload: status.FormatStatusEvent(snap, "SHUTDOWN", signalName),
			}
			if err := out.pub.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return "", nil

		case reason := <-bt.resets:
			ev := bt.demo.ResetEvent(out.now(), reason)
			log.Printf("event: %s (%s) warns=%d services=%d", ev.Type, reason, ev.Warns, ev.Services)
			out.tracker.RecordReset()
			if err := out.pub.Publish(ev); err != nil {
				log.Printf("publish error: %v", err)
			}
			return reason, nil

		case <-tick:
			t := out.now()
			events, err := bt.demo.Poll(t)
			if err != nil {
				return "", fmt.Errorf("poll: %w", err)
			}

			for _, ev := range events {
				log.Printf("event: %s led=%s warns=%d", ev.Type, onOff(ev.LEDOn), ev.Warns)
				if err := bt.keeper.Keepalive(); err != nil {
					log.Printf("supervisor keepalive error: %v", err)
				}
				if err := out.pub.Publish(ev); err != nil {
					log.Printf("publish error: %v", err)
					// Don't crash on publish failure
				}
			}

			out.tracker.Update(bt.state())
			out.tracker.SetMQTTConnected(out.conn.IsConnected())

			if out.heartbeat > 0 && t.Sub(lastHeartbeat) >= out.heartbeat {
				lastHeartbeat = t
				snap := out.tracker.Snapshot()
				log.Printf("heartbeat: boots=%d resets=%d warns=%d services=%d",
					snap.Boots, snap.Resets, snap.TotalWarns, snap.Services)
				hb := mqtt.SystemEvent{
					Timestamp:  t,
					Event:      "HEARTBEAT",
					RawPayload: status.FormatStatusEvent(snap, "HEARTBEAT", ""),
				}
				if err := out.pub.PublishSystem(hb); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}
		}
	}
}

func onOff(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}

// nopPublisher stands in when no broker is configured.
type nopPublisher struct{}

func (nopPublisher) Publish(demo.Event) error             { return nil }
func (nopPublisher) PublishSystem(mqtt.SystemEvent) error { return nil }
func (nopPublisher) Close() error                         { return nil }
func (nopPublisher) IsConnected() bool                    { return false }
