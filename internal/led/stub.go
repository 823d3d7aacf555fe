//go:build !linux

package led

import "errors"

// LinePin is not available on non-Linux platforms.
type LinePin struct{}

// NewLinePin returns an error on non-Linux platforms.
func NewLinePin(chipName string, offset int) (*LinePin, error) {
	return nil, errors.New("led: gpio not supported on this platform (requires Linux)")
}

func (p *LinePin) Write(high bool) error {
	return errors.New("led: gpio not supported")
}

func (p *LinePin) Invert() error {
	return errors.New("led: gpio not supported")
}

func (p *LinePin) Close() error {
	return nil
}
