package wdt

import (
	"context"
	"time"
)

// DefaultClockHz is the low-frequency clock that drives the watchdog count.
const DefaultClockHz = 32768

// Ticker is what RunClock advances. *SimBlock satisfies it.
type Ticker interface {
	Advance(ticks uint32)
}

// RunClock advances t at hz counts per second, in steps of step, until ctx
// is done. Fractional counts carry over between steps.
func RunClock(ctx context.Context, t Ticker, hz uint32, step time.Duration) {
	ticker := time.NewTicker(step)
	defer ticker.Stop()

	var acc ClockAccumulator
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Advance(acc.Ticks(hz, step))
		}
	}
}

// ClockAccumulator converts elapsed wall time into whole clock counts,
// carrying the remainder so no counts are lost to rounding.
type ClockAccumulator struct {
	rem uint64 // count*nanoseconds not yet converted
}

// Ticks returns the whole counts elapsed in d at hz.
func (a *ClockAccumulator) Ticks(hz uint32, d time.Duration) uint32 {
	if d <= 0 {
		return 0
	}
	a.rem += uint64(hz) * uint64(d)
	n := a.rem / uint64(time.Second)
	a.rem %= uint64(time.Second)
	return uint32(n)
}
