package simloop

import (
	"time"

	channerics "github.com/niceyeti/channerics/channels"
)

// Ticker is the injected clock the loop waits on between ticks, following
// spec.md §9's trait-driven abstraction: a real time-based implementation
// for production, a manually-driven one for deterministic tests.
type Ticker interface {
	C() <-chan time.Time
}

// realTicker drives ticks at a fixed wall-clock period using channerics, the
// same primitive server.go uses for its websocket ping ticker.
type realTicker struct {
	c <-chan time.Time
}

// NewRealTicker returns a Ticker that fires every period until done closes.
func NewRealTicker(done <-chan struct{}, period time.Duration) Ticker {
	return &realTicker{c: channerics.NewTicker(done, period)}
}

func (t *realTicker) C() <-chan time.Time {
	return t.c
}

// ManualTicker is a test-controlled Ticker: nothing fires until Tick is
// called, one tick per call.
type ManualTicker struct {
	c chan time.Time
}

// NewManualTicker returns a Ticker driven entirely by calls to Tick.
func NewManualTicker() *ManualTicker {
	return &ManualTicker{c: make(chan time.Time, 1)}
}

func (t *ManualTicker) C() <-chan time.Time {
	return t.c
}

// Tick fires one tick. It blocks only if a previous tick hasn't yet been
// consumed by the loop, which would indicate a test driving ticks faster
// than the loop can process them.
func (t *ManualTicker) Tick() {
	t.c <- time.Time{}
}
