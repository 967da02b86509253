package worldmodel

// Player is a connected (or previously connected) participant. Its score
// survives disconnection, keyed by PlayerID in World.Players.
type Player struct {
	ID    PlayerID
	Score int
}

// World is the entire state of one running game: every station, line,
// train and player score. All mutation happens on the simulation thread;
// a World escapes to other goroutines only via Clone.
type World struct {
	Stations []Station
	Lines    []Line
	Trains   []Train
	Players  map[PlayerID]*Player

	MinBound, MaxBound Point
	StationDiameter    float64
	TicksPerWeek       int
	Tick               int64
}

// NewWorld builds an empty world with the given bounds and station size.
func NewWorld(minBound, maxBound Point, stationDiameter float64, ticksPerWeek int) *World {
	return &World{
		Players:         make(map[PlayerID]*Player),
		MinBound:        minBound,
		MaxBound:        maxBound,
		StationDiameter: stationDiameter,
		TicksPerWeek:    ticksPerWeek,
	}
}

// EnsurePlayer returns the player's record, creating one with a zero score
// if this is the first time player has been seen.
func (w *World) EnsurePlayer(player PlayerID) *Player {
	if p, ok := w.Players[player]; ok {
		return p
	}
	p := &Player{ID: player}
	w.Players[player] = p
	return p
}

// AddScore increments player's score by delta. Scores never decrease, so
// delta must be non-negative; callers only ever award points.
func (w *World) AddScore(player PlayerID, delta int) {
	w.EnsurePlayer(player).Score += delta
}

// Clone deep-copies the world so it can be handed to a goroutine outside
// the simulation thread (the outbound snapshot fan-out) without racing the
// next tick's mutations.
func (w *World) Clone() *World {
	out := &World{
		Stations:        make([]Station, len(w.Stations)),
		Lines:           make([]Line, len(w.Lines)),
		Trains:          make([]Train, len(w.Trains)),
		Players:         make(map[PlayerID]*Player, len(w.Players)),
		MinBound:        w.MinBound,
		MaxBound:        w.MaxBound,
		StationDiameter: w.StationDiameter,
		TicksPerWeek:    w.TicksPerWeek,
		Tick:            w.Tick,
	}
	for i := range w.Stations {
		out.Stations[i] = w.Stations[i].clone()
	}
	for i := range w.Lines {
		out.Lines[i] = w.Lines[i].clone()
	}
	for i := range w.Trains {
		out.Trains[i] = w.Trains[i].clone()
	}
	for id, p := range w.Players {
		cp := *p
		out.Players[id] = &cp
	}
	return out
}
