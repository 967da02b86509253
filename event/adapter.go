package event

import "metroloop/worldmodel"

// DefaultTrainSpeed is the speed assigned to a train placed on a newly
// started line. spec.md leaves the default unspecified; this value keeps
// trains moving at a pace comparable to the worked examples (speeds 5-10
// over a few-hundred-unit world).
const DefaultTrainSpeed = 5

// Apply routes action into world mutations on player's behalf. Every
// line-mutating action is rejected unless player owns the line (the
// ownership check the source lacked). Unknown or reserved actions, and
// actions that fail their target's validity rules, are silent no-ops.
func Apply(w *worldmodel.World, player worldmodel.PlayerID, action PlayerAction) {
	switch action.Kind {
	case StartGame:
		// Ignored here: StartGame only has effect in Lobby mode, handled
		// by the simulation loop before actions reach the adapter.
	case NewLine:
		lineID, ok := w.StartNewLine(player, action.Origin, action.Destination)
		if ok {
			w.AddTrain(lineID, DefaultTrainSpeed)
		}
	case InsertAtLineBeginning:
		applyIfOwned(w, player, action.Line, func() bool {
			return w.InsertBeforeLine(action.Line, action.Station)
		})
	case InsertAtLineEnd:
		applyIfOwned(w, player, action.Line, func() bool {
			return w.InsertAfterLine(action.Line, action.Station)
		})
	case InsertBetweenStations:
		// Reserved: accepted and decoded, but has no effect on the world.
	}
}

func applyIfOwned(w *worldmodel.World, player worldmodel.PlayerID, line worldmodel.LineID, fn func() bool) {
	l, ok := w.Line(line)
	if !ok || l.Owner != player {
		return
	}
	fn()
}
