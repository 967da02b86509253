// Package router answers read-only reachability questions for the train
// controller: which passengers, if any, transfer between a train and a
// station right now. It holds no state; each passenger query returns at most
// one match, ties broken by first-found order during the underlying
// expansion.
package router

import "metroloop/worldmodel"

// SelfDeliverable reports whether the train carries a passenger of the
// station's own kind.
func SelfDeliverable(t *worldmodel.Train, station *worldmodel.Station) bool {
	for _, kind := range t.Passengers {
		if kind == station.Kind {
			return true
		}
	}
	return false
}

// BoardableKind returns the first waiting passenger kind at station that
// the train's line will eventually deliver -- either at a station reachable
// ahead on the line in the train's current direction, or at a station
// reachable via a transfer onto another line at one of those ahead-stops.
// This is the bounded two-hop search spec.md describes.
func BoardableKind(w *worldmodel.World, t *worldmodel.Train, station *worldmodel.Station) (worldmodel.StationKind, bool) {
	reachable := reachableAheadWithTransfers(w, t)
	for _, kind := range station.Queue {
		if reachable[kind] {
			return kind, true
		}
	}
	return 0, false
}

// DeliverableFromTrain returns the first passenger kind aboard the train
// whose destination kind is reachable either ahead on the current line, via
// a transfer at one of those ahead-stops, or via a transfer onto another
// line meeting the train at station right now.
func DeliverableFromTrain(w *worldmodel.World, t *worldmodel.Train, at worldmodel.StationID) (worldmodel.StationKind, bool) {
	reachable := reachableAheadWithTransfers(w, t)
	mergeOtherLinesAt(w, at, t.Line, reachable)
	for _, kind := range t.Passengers {
		if reachable[kind] {
			return kind, true
		}
	}
	return 0, false
}

// ReachableAheadOnLine returns the kinds of the stations the train will
// visit by simply continuing on its current line, with no transfer at all.
func ReachableAheadOnLine(w *worldmodel.World, t *worldmodel.Train) map[worldmodel.StationKind]bool {
	return kindsOf(w, stopsAheadOf(w, t))
}

// reachableAheadWithTransfers is the ahead-on-line set, widened by one hop
// through every other line meeting any of those ahead-stops.
func reachableAheadWithTransfers(w *worldmodel.World, t *worldmodel.Train) map[worldmodel.StationKind]bool {
	ahead := stopsAheadOf(w, t)
	kinds := kindsOf(w, ahead)
	for _, stop := range ahead {
		mergeOtherLinesAt(w, stop, t.Line, kinds)
	}
	return kinds
}

// stopsAheadOf lists the stations the train will visit on its current line,
// starting from (and including) its current target, in travel order. It
// stops once it would repeat a stop (a closed loop wrapping around).
func stopsAheadOf(w *worldmodel.World, t *worldmodel.Train) []worldmodel.StationID {
	line, ok := w.Line(t.Line)
	if !ok || len(line.Edges) == 0 {
		return nil
	}

	var stops []worldmodel.StationID
	seen := make(map[worldmodel.StationID]bool)
	if t.Forward {
		cur := t.Between.Next
		for !seen[cur] {
			stops = append(stops, cur)
			seen[cur] = true
			idx := indexOfEdgeOriginatingAt(line, cur)
			if idx == -1 {
				break
			}
			cur = line.Edges[idx].Dest
		}
	} else {
		cur := t.Between.Origin
		for !seen[cur] {
			stops = append(stops, cur)
			seen[cur] = true
			idx := indexOfEdgeEndingAt(line, cur)
			if idx == -1 {
				break
			}
			cur = line.Edges[idx].Origin
		}
	}
	return stops
}

func indexOfEdgeOriginatingAt(line *worldmodel.Line, station worldmodel.StationID) int {
	for i, e := range line.Edges {
		if e.Origin == station {
			return i
		}
	}
	return -1
}

func indexOfEdgeEndingAt(line *worldmodel.Line, station worldmodel.StationID) int {
	for i, e := range line.Edges {
		if e.Dest == station {
			return i
		}
	}
	return -1
}

func kindsOf(w *worldmodel.World, stops []worldmodel.StationID) map[worldmodel.StationKind]bool {
	kinds := make(map[worldmodel.StationKind]bool, len(stops))
	for _, stop := range stops {
		if station, ok := w.Station(stop); ok {
			kinds[station.Kind] = true
		}
	}
	return kinds
}

// mergeOtherLinesAt adds to kinds the station-kinds of every edge on every
// line other than except that serves station, i.e. a rider could transfer
// there.
func mergeOtherLinesAt(w *worldmodel.World, station worldmodel.StationID, except worldmodel.LineID, kinds map[worldmodel.StationKind]bool) {
	for li := range w.Lines {
		line := &w.Lines[li]
		if line.ID == except || !lineServesStation(line, station) {
			continue
		}
		for _, e := range line.Edges {
			if s, ok := w.Station(e.Origin); ok {
				kinds[s.Kind] = true
			}
			if s, ok := w.Station(e.Dest); ok {
				kinds[s.Kind] = true
			}
		}
	}
}

func lineServesStation(line *worldmodel.Line, station worldmodel.StationID) bool {
	for _, e := range line.Edges {
		if e.Origin == station || e.Dest == station {
			return true
		}
	}
	return false
}
