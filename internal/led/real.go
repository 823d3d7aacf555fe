//go:build linux

package led

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// Consumer is the label the line is requested under.
const Consumer = "wdt-demo"

// LinePin drives an LED on a GPIO character device line.
type LinePin struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
	high bool
}

// NewLinePin requests offset on chipName (e.g. "gpiochip0") as an output, driven low.
func NewLinePin(chipName string, offset int) (*LinePin, error) {
	chip, err := gpiocdev.NewChip(chipName, gpiocdev.WithConsumer(Consumer))
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", chipName, err)
	}

	line, err := chip.RequestLine(offset, gpiocdev.AsOutput(0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request LED line %d: %w", offset, err)
	}

	return &LinePin{chip: chip, line: line}, nil
}

func (p *LinePin) Write(high bool) error {
	v := 0
	if high {
		v = 1
	}
	if err := p.line.SetValue(v); err != nil {
		return fmt.Errorf("set LED line: %w", err)
	}
	p.high = high
	return nil
}

func (p *LinePin) Invert() error {
	return p.Write(!p.high)
}

// Close drives the line low, returns it to an input and releases the chip.
func (p *LinePin) Close() error {
	var errs []error

	if p.line != nil {
		if err := p.line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("drive LED low: %w", err))
		}
		if err := p.line.Reconfigure(gpiocdev.AsInput); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure LED line: %w", err))
		}
		if err := p.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close LED line: %w", err))
		}
	}
	if p.chip != nil {
		if err := p.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
