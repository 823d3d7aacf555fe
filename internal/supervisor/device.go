//go:build linux

package supervisor

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// Device is an open Linux watchdog device. Opening it starts the timer.
type Device struct {
	f    *os.File
	path string
}

// Open opens the watchdog device at path (usually /dev/watchdog).
func Open(path string) (*Device, error) {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("open watchdog %s: %w", path, err)
	}
	return &Device{f: f, path: path}, nil
}

// Keepalive restarts the device timer.
func (d *Device) Keepalive() error {
	if _, err := d.f.Write([]byte{'k'}); err != nil {
		return fmt.Errorf("keepalive %s: %w", d.path, err)
	}
	return nil
}

// BootStatus returns the device's boot status word.
func (d *Device) BootStatus() (int, error) {
	v, err := unix.IoctlGetInt(int(d.f.Fd()), unix.WDIOC_GETBOOTSTATUS)
	if err != nil {
		return 0, fmt.Errorf("boot status %s: %w", d.path, err)
	}
	return v, nil
}

// Timeout returns the device's configured timeout.
func (d *Device) Timeout() (time.Duration, error) {
	v, err := unix.IoctlGetInt(int(d.f.Fd()), unix.WDIOC_GETTIMEOUT)
	if err != nil {
		return 0, fmt.Errorf("timeout %s: %w", d.path, err)
	}
	return time.Duration(v) * time.Second, nil
}

// Close writes the magic close character so the driver stops the timer,
// then closes the device.
func (d *Device) Close() error {
	if _, err := d.f.Write([]byte{'V'}); err != nil {
		d.f.Close()
		return fmt.Errorf("magic close %s: %w", d.path, err)
	}
	return d.f.Close()
}
