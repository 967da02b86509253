package worldmodel

// Color is a line's display colour.
type Color struct {
	R, G, B uint8
}

// Edge is one segment of a line: origin, destination and the L-bend via
// point realizing the 45-degree-then-axis-aligned path between them.
type Edge struct {
	Origin StationID
	Dest   StationID
	Via    Point
}

// Line is an owned, ordered chain of edges. Consecutive edges chain:
// edge[i].Dest == edge[i+1].Origin.
type Line struct {
	ID    LineID
	Owner PlayerID
	Color Color
	Edges []Edge
}

// isClosedLoop is true when the line's first edge starts where its last
// edge ends.
func (l *Line) isClosedLoop() bool {
	if len(l.Edges) == 0 {
		return false
	}
	return l.Edges[0].Origin == l.Edges[len(l.Edges)-1].Dest
}

// IsClosedLoopAt reports whether the line is a closed loop (first edge's
// origin equals last edge's destination) and that shared station is the
// one given.
func (l *Line) IsClosedLoopAt(station StationID) bool {
	if !l.isClosedLoop() {
		return false
	}
	return l.Edges[0].Origin == station
}

// hasStationAsOrigin reports whether station appears as any edge's origin.
func (l *Line) hasStationAsOrigin(station StationID) bool {
	for _, e := range l.Edges {
		if e.Origin == station {
			return true
		}
	}
	return false
}

func (l Line) clone() Line {
	out := l
	out.Edges = append([]Edge(nil), l.Edges...)
	return out
}

// AddLine appends a new, empty line owned by player.
func (w *World) AddLine(owner PlayerID, color Color) LineID {
	id := LineID(len(w.Lines))
	w.Lines = append(w.Lines, Line{ID: id, Owner: owner, Color: color})
	return id
}

// Line looks up a line by id.
func (w *World) Line(id LineID) (*Line, bool) {
	if id < 0 || int(id) >= len(w.Lines) {
		return nil, false
	}
	return &w.Lines[id], true
}

// LinesOwnedBy returns the ids of every line owned by player, in creation order.
func (w *World) LinesOwnedBy(player PlayerID) []LineID {
	var out []LineID
	for i := range w.Lines {
		if w.Lines[i].Owner == player {
			out = append(out, w.Lines[i].ID)
		}
	}
	return out
}

// StartNewLine finds the first line owned by player with zero edges and
// appends a single edge (origin, via, destination). Returns false and does
// nothing if the player has no empty line slot.
func (w *World) StartNewLine(player PlayerID, origin, destination StationID) (LineID, bool) {
	if _, ok := w.Station(origin); !ok {
		return 0, false
	}
	if _, ok := w.Station(destination); !ok {
		return 0, false
	}
	for i := range w.Lines {
		line := &w.Lines[i]
		if line.Owner != player || len(line.Edges) != 0 {
			continue
		}
		originStation, _ := w.Station(origin)
		destStation, _ := w.Station(destination)
		via := GetViaPointBetween(originStation.Pos, destStation.Pos)
		line.Edges = append(line.Edges, Edge{Origin: origin, Dest: destination, Via: via})
		return line.ID, true
	}
	return 0, false
}

// InsertBeforeLine extends line at its start with a new edge (station ->
// old first origin). No-op (returns false) if the line is empty, already a
// closed loop, or station already appears as an origin on the line.
func (w *World) InsertBeforeLine(line LineID, station StationID) bool {
	l, ok := w.Line(line)
	if !ok || len(l.Edges) == 0 || l.isClosedLoop() {
		return false
	}
	if l.hasStationAsOrigin(station) {
		return false
	}
	stationEntity, ok := w.Station(station)
	if !ok {
		return false
	}
	firstOrigin, ok := w.Station(l.Edges[0].Origin)
	if !ok {
		return false
	}
	via := GetViaPointBetween(stationEntity.Pos, firstOrigin.Pos)
	newEdge := Edge{Origin: station, Dest: l.Edges[0].Origin, Via: via}
	l.Edges = append([]Edge{newEdge}, l.Edges...)
	return true
}

// InsertAfterLine extends line at its end with a new edge (old last
// destination -> station). No-op (returns false) if the line is empty,
// already a closed loop, or station already appears as a destination on the
// line; the line's first origin is accepted, which closes the loop.
func (w *World) InsertAfterLine(line LineID, station StationID) bool {
	l, ok := w.Line(line)
	if !ok || len(l.Edges) == 0 || l.isClosedLoop() {
		return false
	}
	for _, e := range l.Edges {
		if e.Dest == station {
			return false
		}
	}
	stationEntity, ok := w.Station(station)
	if !ok {
		return false
	}
	lastDest, ok := w.Station(l.Edges[len(l.Edges)-1].Dest)
	if !ok {
		return false
	}
	via := GetViaPointBetween(lastDest.Pos, stationEntity.Pos)
	newEdge := Edge{Origin: l.Edges[len(l.Edges)-1].Dest, Dest: station, Via: via}
	l.Edges = append(l.Edges, newEdge)
	return true
}
