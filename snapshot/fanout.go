package snapshot

import "metroloop/worldmodel"

// outboxCapacity bounds each player's pending-update buffer. A full outbox
// means the client's write pump is not draining fast enough; rather than
// block the simulation tick on a slow client, the update is dropped.
const outboxCapacity = 8

// FanOut distributes StateUpdates to every registered player, the reverse of
// fanning N input channels into one: one update in, broadcast out to N
// per-player channels, each served independently and non-blockingly so that
// one slow or disconnected player cannot stall the others or the tick loop
// that publishes into it.
type FanOut struct {
	outboxes map[worldmodel.PlayerID]chan StateUpdate
	dropped  map[worldmodel.PlayerID]int
}

// NewFanOut returns an empty FanOut.
func NewFanOut() *FanOut {
	return &FanOut{
		outboxes: make(map[worldmodel.PlayerID]chan StateUpdate),
		dropped:  make(map[worldmodel.PlayerID]int),
	}
}

// Register opens an outbox for player and returns the channel its connection
// handler should drain. Registering an already-registered player replaces
// its outbox.
func (f *FanOut) Register(player worldmodel.PlayerID) <-chan StateUpdate {
	ch := make(chan StateUpdate, outboxCapacity)
	f.outboxes[player] = ch
	return ch
}

// Unregister closes and removes player's outbox. Safe to call on a player
// that was never registered.
func (f *FanOut) Unregister(player worldmodel.PlayerID) {
	if ch, ok := f.outboxes[player]; ok {
		close(ch)
		delete(f.outboxes, player)
	}
	delete(f.dropped, player)
}

// Dropped reports how many updates have been dropped for player due to a
// full outbox, for diagnostics.
func (f *FanOut) Dropped(player worldmodel.PlayerID) int {
	return f.dropped[player]
}

// Send delivers update to player's outbox, dropping it rather than blocking
// if the outbox is full.
func (f *FanOut) Send(player worldmodel.PlayerID, update StateUpdate) {
	ch, ok := f.outboxes[player]
	if !ok {
		return
	}
	select {
	case ch <- update:
	default:
		f.dropped[player]++
	}
}

// Broadcast delivers update to every registered player's outbox.
func (f *FanOut) Broadcast(update StateUpdate) {
	for player := range f.outboxes {
		f.Send(player, update)
	}
}

// PublishLobbyCount broadcasts the current lobby size to every registered
// player.
func (f *FanOut) PublishLobbyCount(count int) {
	f.Broadcast(StateUpdate{Kind: LobbyCountKind, LobbyCount: count})
}

// PublishYou tells player its own assigned id.
func (f *FanOut) PublishYou(player worldmodel.PlayerID) {
	f.Send(player, StateUpdate{Kind: YouKind, PlayerID: player})
}

// PublishGameState broadcasts a full world snapshot to every registered
// player. The snapshot is taken from a clone of w, so it shares no memory
// with the world the next tick mutates.
func (f *FanOut) PublishGameState(w *worldmodel.World) {
	state := NewGameState(w.Clone())
	f.Broadcast(StateUpdate{Kind: GameStateKind, GameState: &state})
}

// PublishGameOver broadcasts the station whose overcrowding ended the game.
func (f *FanOut) PublishGameOver(station worldmodel.StationID) {
	f.Broadcast(StateUpdate{Kind: GameOverKind, OvercrowdedStation: station})
}
