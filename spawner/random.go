package spawner

import (
	"math/rand"
	"time"
)

// Random is the single capability the Spawner draws every stochastic
// decision from: spawn timing, station/passenger kind, position and line
// colour are all derived from repeated draws of Float64, so that every
// draw in the simulation passes through one injection seam.
type Random interface {
	// Float64 returns a value uniformly distributed in [0,1).
	Float64() float64
}

// realRandom wraps a seeded math/rand source.
type realRandom struct {
	r *rand.Rand
}

// NewRandom returns a Random backed by a time-seeded math/rand source.
func NewRandom() Random {
	return &realRandom{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (rr *realRandom) Float64() float64 {
	return rr.r.Float64()
}

// Always1Random is a deterministic Random that always draws the maximum
// value. Since a spawn is indicated by "draw < probability" and every
// probability this package computes is well under 1, Always1Random never
// indicates a spawn -- it is the stand-in used by scenario tests that
// exercise trains or lines and want the Spawner to stay quiet. Where a
// draw instead selects from a weighted distribution, always drawing the
// maximum deterministically selects that distribution's last bucket.
type Always1Random struct{}

func (Always1Random) Float64() float64 { return 1 }
