package worldmodel

// Station is a stop a line can serve. Its queue holds the kinds of waiting
// passengers in arrival order; a passenger never waits at a station whose
// kind matches its own.
type Station struct {
	ID             StationID
	Kind           StationKind
	Pos            Point
	Queue          []StationKind
	OvercrowdTicks int
}

// EnqueuePassenger appends a waiting passenger of the given kind.
func (s *Station) EnqueuePassenger(kind StationKind) {
	s.Queue = append(s.Queue, kind)
}

// RemoveFromQueue removes the first queued passenger of kind, returning
// whether one was found.
func (s *Station) RemoveFromQueue(kind StationKind) bool {
	for i, k := range s.Queue {
		if k == kind {
			s.Queue = append(s.Queue[:i], s.Queue[i+1:]...)
			return true
		}
	}
	return false
}

func (s Station) clone() Station {
	out := s
	out.Queue = append([]StationKind(nil), s.Queue...)
	return out
}

// AddStation appends a new station and returns its id.
func (w *World) AddStation(kind StationKind, pos Point) StationID {
	id := StationID(len(w.Stations))
	w.Stations = append(w.Stations, Station{ID: id, Kind: kind, Pos: pos})
	return id
}

// Station looks up a station by id.
func (w *World) Station(id StationID) (*Station, bool) {
	if id < 0 || int(id) >= len(w.Stations) {
		return nil, false
	}
	return &w.Stations[id], true
}

// IsValidStationPos is true iff p is within world bounds and at least two
// station diameters from every existing station.
func (w *World) IsValidStationPos(p Point) bool {
	if p.X < w.MinBound.X || p.X > w.MaxBound.X || p.Y < w.MinBound.Y || p.Y > w.MaxBound.Y {
		return false
	}
	minDist := 2 * w.StationDiameter
	for i := range w.Stations {
		if p.dist(w.Stations[i].Pos) < minDist {
			return false
		}
	}
	return true
}
