//go:build !linux

package supervisor

import "time"

// Device is not available on non-Linux platforms.
type Device struct{}

// Open returns ErrUnsupported on non-Linux platforms.
func Open(path string) (*Device, error) {
	return nil, ErrUnsupported
}

func (d *Device) Keepalive() error                { return ErrUnsupported }
func (d *Device) BootStatus() (int, error)        { return 0, ErrUnsupported }
func (d *Device) Timeout() (time.Duration, error) { return 0, ErrUnsupported }
func (d *Device) Close() error                    { return nil }
