// Package spawner implements the tick-scale stochastic processes that
// populate a running world: new stations, new passengers, the weekly line
// bonus, and station overcrowding accounting. It draws every random
// decision through an injected Random, never math/rand directly.
package spawner

import "metroloop/worldmodel"

const (
	// stationMinGap is the minimum number of ticks between spawn attempts
	// of the same kind (station or, independently, per-station passenger).
	stationMinGap = 30
	spawnBase     = 5e-5
	spawnRate     = 5e-6

	// maxLinesPerPlayer bounds how many lines the weekly bonus will grant.
	maxLinesPerPlayer = 7

	// overcrowdingThreshold is the queue length beyond which a station's
	// overcrowding timer starts running.
	overcrowdingThreshold = 12
	// timeToBlow is the overcrowding-timer value at which a station's
	// congestion ends the game.
	timeToBlow = 1350
)

// Spawner owns the tick counters driving station spawn, per-station
// passenger spawn and the weekly line bonus. It holds no world state of
// its own beyond those counters.
type Spawner struct {
	rnd Random

	ticksSinceLastStation int
	ticksSinceLastWeek    int
	passengerTicks        map[worldmodel.StationID]int
}

// NewSpawner returns a Spawner drawing randomness from rnd.
func NewSpawner(rnd Random) *Spawner {
	return &Spawner{
		rnd:            rnd,
		passengerTicks: make(map[worldmodel.StationID]int),
	}
}

// Step runs one tick of every stochastic process against w, and reports
// whether any station's overcrowding timer has reached timeToBlow. It is a
// convenience wrapper over Spawn followed immediately by UpdateOvercrowding;
// callers that need the Train Controller to run between the two (so that
// boarding/delivery this tick is reflected in the overcrowding check) should
// call Spawn and UpdateOvercrowding separately instead.
func (s *Spawner) Step(w *worldmodel.World, connectedPlayers []worldmodel.PlayerID) (gameOver bool) {
	s.Spawn(w, connectedPlayers)
	return s.UpdateOvercrowding(w)
}

// Spawn runs station spawn, per-station passenger spawn and the weekly line
// bonus against w.
func (s *Spawner) Spawn(w *worldmodel.World, connectedPlayers []worldmodel.PlayerID) {
	s.spawnStation(w)
	s.spawnPassengers(w)
	s.weeklyBonus(w, connectedPlayers)
}

// spawnDraw reports whether a spawn attempt at the given gap age (ticks
// since the last spawn of this kind) succeeds, per the shared probability
// schedule: base + rate * (age - stationMinGap).
func (s *Spawner) spawnDraw(age int) bool {
	prob := spawnBase + spawnRate*float64(age-stationMinGap)
	return s.rnd.Float64() < prob
}

func (s *Spawner) spawnStation(w *worldmodel.World) {
	s.ticksSinceLastStation++
	if s.ticksSinceLastStation <= stationMinGap {
		return
	}
	if !s.spawnDraw(s.ticksSinceLastStation) {
		return
	}
	s.ticksSinceLastStation = 0

	pos := randomPoint(s.rnd, w.MinBound, w.MaxBound)
	if w.IsValidStationPos(pos) {
		w.AddStation(randomStationKind(s.rnd), pos)
	}
}

func (s *Spawner) spawnPassengers(w *worldmodel.World) {
	for i := range w.Stations {
		station := &w.Stations[i]
		age := s.passengerTicks[station.ID] + 1
		s.passengerTicks[station.ID] = age
		if age <= stationMinGap {
			continue
		}
		if !s.spawnDraw(age) {
			continue
		}
		s.passengerTicks[station.ID] = 0

		kind := randomStationKind(s.rnd)
		if kind == station.Kind {
			continue
		}
		station.EnqueuePassenger(kind)
	}
}

func (s *Spawner) weeklyBonus(w *worldmodel.World, connectedPlayers []worldmodel.PlayerID) {
	s.ticksSinceLastWeek++
	if s.ticksSinceLastWeek < w.TicksPerWeek {
		return
	}
	s.ticksSinceLastWeek = 0

	for _, player := range connectedPlayers {
		if len(w.LinesOwnedBy(player)) < maxLinesPerPlayer {
			w.AddLine(player, randomColor(s.rnd))
		}
	}
}

// UpdateOvercrowding runs the per-station overcrowding accounting against w,
// reporting whether any station's timer has reached timeToBlow.
func (s *Spawner) UpdateOvercrowding(w *worldmodel.World) bool {
	gameOver := false
	for i := range w.Stations {
		station := &w.Stations[i]
		if len(station.Queue) <= overcrowdingThreshold {
			station.OvercrowdTicks = 0
			continue
		}
		station.OvercrowdTicks++
		if station.OvercrowdTicks >= timeToBlow {
			gameOver = true
		}
	}
	return gameOver
}

// OvercrowdedStation returns the id of the first station whose overcrowding
// timer has reached timeToBlow, for a caller that needs to report which
// station ended the game.
func OvercrowdedStation(w *worldmodel.World) (worldmodel.StationID, bool) {
	for i := range w.Stations {
		if w.Stations[i].OvercrowdTicks >= timeToBlow {
			return w.Stations[i].ID, true
		}
	}
	return 0, false
}

// randomStationKind picks a station kind from the distribution
// {Circle: 0.4, Square: 0.3, Triangle: 0.3}.
func randomStationKind(r Random) worldmodel.StationKind {
	draw := r.Float64()
	switch {
	case draw < 0.4:
		return worldmodel.Circle
	case draw < 0.7:
		return worldmodel.Square
	default:
		return worldmodel.Triangle
	}
}

// randomPoint samples a point uniformly within [min,max] on each axis.
func randomPoint(r Random, min, max worldmodel.Point) worldmodel.Point {
	return worldmodel.Point{
		X: min.X + r.Float64()*(max.X-min.X),
		Y: min.Y + r.Float64()*(max.Y-min.Y),
	}
}

// randomColor samples an RGB triple uniformly.
func randomColor(r Random) worldmodel.Color {
	return worldmodel.Color{
		R: uint8(r.Float64() * 255),
		G: uint8(r.Float64() * 255),
		B: uint8(r.Float64() * 255),
	}
}
