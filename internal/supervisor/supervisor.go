// Package supervisor keeps an external Linux watchdog device alive while the
// demo's own watchdog is being serviced. If the demo hangs, the device resets
// the host.
package supervisor

import "errors"

// ErrUnsupported is returned on platforms without /dev/watchdog.
var ErrUnsupported = errors.New("supervisor: watchdog device not supported on this platform")

// Bits of the boot status word (linux/watchdog.h).
const (
	statusOverheat  = 0x0001
	statusFanFault  = 0x0002
	statusCardReset = 0x0020
)

// Keeper is what the main loop pets after each service.
type Keeper interface {
	Keepalive() error
	Close() error
}

// CardReset reports whether a boot status word says the last reboot was
// caused by the watchdog.
func CardReset(status int) bool {
	return status&statusCardReset != 0
}

// Nop is a Keeper that does nothing. Used when no device is configured.
type Nop struct{}

func (Nop) Keepalive() error { return nil }
func (Nop) Close() error     { return nil }
