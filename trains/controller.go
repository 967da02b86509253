// Package trains implements the per-tick train movement, arrival, dwell and
// boarding state machine. It operates entirely over *worldmodel.World.
package trains

import (
	"math"

	"metroloop/router"
	"metroloop/worldmodel"
)

// DwellTicks is the pause a train takes at a station after a passenger
// transaction, before it is eligible to act again at that stop.
const DwellTicks = 30

// Controller steps every train in a world forward by one tick.
type Controller struct{}

// NewController returns a Controller. It holds no state of its own.
func NewController() *Controller {
	return &Controller{}
}

// Step runs step -> arrival handling -> destination selection for every
// train in the world, in index order.
func (c *Controller) Step(w *worldmodel.World) {
	for i := range w.Trains {
		train := &w.Trains[i]
		stepMotion(train)
		handleArrival(w, train)
		if train.Dwell == nil {
			selectDestination(w, train)
		}
	}
}

// stepMotion advances a non-dwelling train toward its heading. Motion is
// stepped independently per axis, which means diagonal motion covers
// sqrt(2) times the per-axis speed in one tick -- a documented quirk of the
// original simulation, preserved rather than corrected.
func stepMotion(t *worldmodel.Train) {
	if t.Dwell != nil {
		return
	}
	dx := t.Heading.X - t.Pos.X
	dy := t.Heading.Y - t.Pos.Y
	d := math.Hypot(dx, dy)
	switch {
	case d == 0:
		return
	case d <= t.Speed:
		t.Pos = t.Heading
	default:
		t.Pos.X += signOf(dx) * t.Speed
		t.Pos.Y += signOf(dy) * t.Speed
	}
}

func signOf(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// atStation reports whether the train's position coincides with either
// endpoint of its current edge.
func atStation(w *worldmodel.World, t *worldmodel.Train) (worldmodel.StationID, bool) {
	originStation, ok := w.Station(t.Between.Origin)
	if ok && t.Pos == originStation.Pos {
		return t.Between.Origin, true
	}
	nextStation, ok := w.Station(t.Between.Next)
	if ok && t.Pos == nextStation.Pos {
		return t.Between.Next, true
	}
	return 0, false
}

// handleArrival decrements any active dwell counter, then -- once the train
// is transfer-eligible (counter hit zero) or idle-at-station (no counter,
// sitting exactly on a station) -- performs at most one passenger
// transaction: deliver, board, or change.
func handleArrival(w *worldmodel.World, t *worldmodel.Train) {
	if t.Dwell != nil {
		*t.Dwell--
		if *t.Dwell > 0 {
			return
		}
		t.Dwell = nil
	}

	stationID, idle := atStation(w, t)
	if !idle {
		return
	}

	station, _ := w.Station(stationID)
	acted := deliver(w, t, station) || board(w, t, station) || change(w, t, station, stationID)
	if acted {
		d := DwellTicks
		t.Dwell = &d
	} else {
		t.Dwell = nil
	}
}

// deliver removes one passenger aboard matching station's kind, crediting
// the owning player with a point.
func deliver(w *worldmodel.World, t *worldmodel.Train, station *worldmodel.Station) bool {
	if !router.SelfDeliverable(t, station) {
		return false
	}
	t.RemovePassenger(station.Kind)
	line, ok := w.Line(t.Line)
	if ok {
		w.AddScore(line.Owner, 1)
	}
	return true
}

// board moves one boardable waiting passenger from the station queue onto
// the train, if there is room.
func board(w *worldmodel.World, t *worldmodel.Train, station *worldmodel.Station) bool {
	if !t.HasRoom() {
		return false
	}
	kind, ok := router.BoardableKind(w, t, station)
	if !ok {
		return false
	}
	station.RemoveFromQueue(kind)
	t.Passengers = append(t.Passengers, kind)
	return true
}

// change removes one passenger aboard who cannot reach their destination by
// remaining on this line, but can via a transfer onto another line meeting
// this station, enqueuing them here to wait for it.
func change(w *worldmodel.World, t *worldmodel.Train, station *worldmodel.Station, stationID worldmodel.StationID) bool {
	kind, ok := router.DeliverableFromTrain(w, t, stationID)
	if !ok {
		return false
	}
	if router.ReachableAheadOnLine(w, t)[kind] {
		return false // reachable by simply staying aboard; no need to change
	}
	t.RemovePassenger(kind)
	station.EnqueuePassenger(kind)
	return true
}

// selectDestination runs only once the train has reached its current
// heading: it either continues along the current edge's tail, transitions
// to the line's next edge, wraps a closed loop, or reverses at a terminus.
func selectDestination(w *worldmodel.World, t *worldmodel.Train) {
	if t.Pos != t.Heading {
		return
	}

	target := t.Between.Next
	if !t.Forward {
		target = t.Between.Origin
	}
	targetStation, ok := w.Station(target)
	if !ok {
		return
	}
	if t.Heading != targetStation.Pos {
		t.Heading = targetStation.Pos
		return
	}

	line, ok := w.Line(t.Line)
	if !ok || len(line.Edges) == 0 {
		return
	}

	// Between always names the natural (origin, dest) of whichever edge the
	// train currently occupies -- never swapped for direction, per the
	// invariant that it equals (origin, destination) of some edge of the
	// line. Forward alone decides whether the train is travelling that
	// edge's origin->dest (true) or dest->origin (false).
	if next, found := nextEdgeFrom(line, target, t.Forward); found {
		t.Between = worldmodel.Between{Origin: next.Origin, Next: next.Dest}
		t.Heading = next.Via
		return
	}

	if t.Forward && line.IsClosedLoopAt(target) {
		wrapEdge := line.Edges[0]
		t.Between = worldmodel.Between{Origin: wrapEdge.Origin, Next: wrapEdge.Dest}
		t.Heading = wrapEdge.Via
		return
	}

	// End of line: flip direction and retrace the current edge's via point.
	// Between is left as-is; only the direction flag and heading change.
	t.Forward = !t.Forward
	currentEdge, _ := edgeBetween(line, t.Between.Origin, t.Between.Next)
	t.Heading = currentEdge.Via
}

// nextEdgeFrom finds the edge beginning at station in the direction of
// travel: the edge whose Origin is station for forward travel, or whose
// Dest is station for reverse travel (the edge traversed backward begins,
// in the direction of travel, at its Dest).
func nextEdgeFrom(line *worldmodel.Line, station worldmodel.StationID, forward bool) (worldmodel.Edge, bool) {
	if forward {
		for _, e := range line.Edges {
			if e.Origin == station {
				return e, true
			}
		}
		return worldmodel.Edge{}, false
	}
	for _, e := range line.Edges {
		if e.Dest == station {
			return e, true
		}
	}
	return worldmodel.Edge{}, false
}

func edgeBetween(line *worldmodel.Line, a, b worldmodel.StationID) (worldmodel.Edge, bool) {
	for _, e := range line.Edges {
		if e.Origin == a && e.Dest == b {
			return e, true
		}
	}
	return worldmodel.Edge{}, false
}
