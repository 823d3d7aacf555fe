package led

import "errors"

// MemPin is an output pin that only exists in memory. It records every level
// it is driven to.
type MemPin struct {
	// Levels holds every level written, in order (including inversions).
	Levels []bool

	// Inverts counts calls to Invert.
	Inverts int

	// Closed tracks if Close was called.
	Closed bool

	// WriteError, if set, is returned by Write and Invert.
	WriteError error

	high bool
}

// NewMemPin returns a low MemPin.
func NewMemPin() *MemPin {
	return &MemPin{}
}

func (p *MemPin) Write(high bool) error {
	if p.WriteError != nil {
		return p.WriteError
	}
	if p.Closed {
		return errors.New("led: pin closed")
	}
	p.high = high
	p.Levels = append(p.Levels, high)
	return nil
}

func (p *MemPin) Invert() error {
	if err := p.Write(!p.high); err != nil {
		return err
	}
	p.Inverts++
	return nil
}

func (p *MemPin) Close() error {
	p.high = false
	p.Closed = true
	return nil
}

// High reports the current level.
func (p *MemPin) High() bool {
	return p.high
}

// Pulses counts low-to-high transitions.
func (p *MemPin) Pulses() int {
	n := 0
	prev := false
	for _, l := range p.Levels {
		if l && !prev {
			n++
		}
		prev = l
	}
	return n
}

// Reset forgets recorded levels.
func (p *MemPin) Reset() {
	p.Levels = nil
	p.Inverts = 0
}
