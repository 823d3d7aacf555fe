package web

import (
	"fmt"
	"html/template"
	"io"
	"log"
	"time"

	"github.com/sweeney/wdt-demo/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"orUnknown": func(s string) string {
		if s == "" {
			return "UNKNOWN"
		}
		return s
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="5">
<title>Watchdog Demo</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.armed { color: green; }
.latched { color: orange; font-weight: bold; }
.wdt-reset { color: red; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Watchdog Demo ({{orUnknown .Config.Mode}} mode)</h1>

<h2>Boot</h2>
<table>
<tr><th>Boot</th><td>{{.Boots}}</td></tr>
<tr><th>Reset reason</th><td id="reset-reason" class="{{if eq (printf "%s" .ResetReason) "WATCHDOG_RESET"}}wdt-reset{{end}}">{{orUnknown (printf "%s" .ResetReason)}}</td></tr>
<tr><th>Warn handler</th><td id="warn-state" class="{{if eq (printf "%s" .WarnState) "LATCHED"}}latched{{else}}armed{{end}}">{{orUnknown (printf "%s" .WarnState)}}</td></tr>
<tr><th>LED</th><td id="led" class="{{if .LEDOn}}on{{else}}off{{end}}">{{if .LEDOn}}ON{{else}}OFF{{end}}</td></tr>
<tr><th>Boot uptime</th><td>{{uptime .BootUptime}}</td></tr>
</table>

<h2>Watchdog</h2>
<table>
<tr><th>Count</th><td>{{.Count}}</td></tr>
<tr><th>Warn limit</th><td>{{.Watchdog.WarnLimit}} ({{orUnknown (printf "%s" .Watchdog.WarnAction)}})</td></tr>
<tr><th>Upper limit</th><td>{{.Watchdog.UpperLimit}} ({{orUnknown (printf "%s" .Watchdog.UpperAction)}})</td></tr>
<tr><th>Lower limit</th><td>{{.Watchdog.LowerLimit}} ({{orUnknown (printf "%s" .Watchdog.LowerAction)}})</td></tr>
</table>

<h2>Counts</h2>
<table>
<tr><th>Warns (this boot)</th><td>{{.Warns}}</td></tr>
<tr><th>Warns (total)</th><td>{{.TotalWarns}}</td></tr>
<tr><th>Services</th><td>{{.Services}}</td></tr>
<tr><th>Watchdog resets</th><td>{{.Resets}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
<tr><th>Session</th><td>{{.Session}}</td></tr>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
{{if .Config.Supervisor}}<tr><th>Supervisor</th><td>{{.Config.Supervisor}}</td></tr>{{end}}
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() methods but the template needs Duration fields.
	data := struct {
		status.Snapshot
		Uptime     time.Duration
		BootUptime time.Duration
	}{
		Snapshot:   snap,
		Uptime:     snap.Uptime(),
		BootUptime: snap.BootUptime(),
	}
	if err := indexTmpl.Execute(w, data); err != nil {
		log.Printf("web: render: %v", err)
	}
}
