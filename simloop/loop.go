// Package simloop drives the fixed-tick simulation: input drain, update,
// output, wait, exactly as spec.md §4.5 lays out, over a Lobby/Game mode
// split.
package simloop

import (
	"context"
	"log"

	"metroloop/event"
	"metroloop/snapshot"
	"metroloop/spawner"
	"metroloop/trains"
	"metroloop/worldmodel"
)

// Mode is the loop's current phase.
type Mode int

const (
	Lobby Mode = iota
	Game
)

// InputKind discriminates Input.
type InputKind int

const (
	Connect InputKind = iota
	Disconnect
	Action
)

// Input is one event the network layer has queued for the loop: a
// connection, a disconnection, or a decoded player action. The network
// layer assigns PlayerID on Connect.
type Input struct {
	Kind   InputKind
	Player worldmodel.PlayerID
	Action event.PlayerAction
}

// seedStation is one of the three stations the world starts with on
// StartGame.
type seedStation struct {
	kind worldmodel.StationKind
	pos  worldmodel.Point
}

var seedStations = []seedStation{
	{worldmodel.Circle, worldmodel.Point{X: 10, Y: -30}},
	{worldmodel.Square, worldmodel.Point{X: -45, Y: 70}},
	{worldmodel.Triangle, worldmodel.Point{X: 300, Y: 30}},
}

const initialPassengerCount = 15

// Loop owns the mode, the world, and every per-tick collaborator. All of it
// runs on whatever goroutine calls Run; nothing here is safe to touch from
// another goroutine while Run is active.
type Loop struct {
	world      *worldmodel.World
	mode       Mode
	fanOut     *snapshot.FanOut
	controller *trains.Controller
	spawn      *spawner.Spawner
	inputs     <-chan Input

	connected []worldmodel.PlayerID
}

// NewLoop returns a Loop in Lobby mode, reading inputs from in.
func NewLoop(world *worldmodel.World, fanOut *snapshot.FanOut, spawn *spawner.Spawner, in <-chan Input) *Loop {
	return &Loop{
		world:      world,
		mode:       Lobby,
		fanOut:     fanOut,
		controller: trains.NewController(),
		spawn:      spawn,
		inputs:     in,
	}
}

// Mode reports the loop's current phase.
func (l *Loop) Mode() Mode {
	return l.mode
}

// Run drives the tick loop until ctx is cancelled or the ticker's channel
// is closed.
func (l *Loop) Run(ctx context.Context, ticker Ticker) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ticker.C():
			if !ok {
				return
			}
			l.tick()
		}
	}
}

// tick runs one full input -> update -> output cycle.
func (l *Loop) tick() {
	l.drainInputs()
	if l.mode == Game {
		l.spawn.Spawn(l.world, l.connected)
		l.controller.Step(l.world)
		if l.spawn.UpdateOvercrowding(l.world) {
			l.publishGameOver()
		}
		l.world.Tick++
	}
	l.publish()
}

// drainInputs consumes every input queued since the last tick, without
// blocking for more.
func (l *Loop) drainInputs() {
	for {
		select {
		case in := <-l.inputs:
			l.handleInput(in)
		default:
			return
		}
	}
}

func (l *Loop) handleInput(in Input) {
	switch in.Kind {
	case Connect:
		l.connect(in.Player)
	case Disconnect:
		l.disconnect(in.Player)
	case Action:
		l.handleAction(in.Player, in.Action)
	}
}

// connect records a newly connected player and acknowledges its identity.
// The outbox itself is registered by whoever owns the connection (the
// network layer), before the Connect input reaches the loop, so that the
// channel the connection reads from is the same one the loop publishes to.
func (l *Loop) connect(player worldmodel.PlayerID) {
	l.world.EnsurePlayer(player)
	l.connected = append(l.connected, player)
	l.fanOut.PublishYou(player)
}

func (l *Loop) disconnect(player worldmodel.PlayerID) {
	for i, p := range l.connected {
		if p == player {
			l.connected = append(l.connected[:i], l.connected[i+1:]...)
			break
		}
	}
	l.fanOut.Unregister(player)
}

func (l *Loop) handleAction(player worldmodel.PlayerID, action event.PlayerAction) {
	if l.mode == Lobby {
		if action.Kind == event.StartGame {
			l.startGame()
		}
		return
	}
	event.Apply(l.world, player, action)
}

// startGame transitions Lobby -> Game: reseeds the world, gives every
// connected player one empty line, and primes the first station's queue.
func (l *Loop) startGame() {
	l.mode = Game
	for _, s := range seedStations {
		l.world.AddStation(s.kind, s.pos)
	}
	for _, player := range l.connected {
		l.world.AddLine(player, worldmodel.Color{})
	}
	first, ok := l.world.Station(0)
	if ok {
		for i := 0; i < initialPassengerCount; i++ {
			first.EnqueuePassenger(worldmodel.Circle)
		}
	}
}

// publish sends this tick's output to every connected player: lobby count
// in Lobby mode, a full world snapshot in Game mode.
func (l *Loop) publish() {
	switch l.mode {
	case Lobby:
		l.fanOut.PublishLobbyCount(len(l.connected))
	case Game:
		l.fanOut.PublishGameState(l.world)
	}
}

func (l *Loop) publishGameOver() {
	station, ok := spawner.OvercrowdedStation(l.world)
	if !ok {
		return
	}
	l.fanOut.PublishGameOver(station)
	log.Printf("simloop: station %d overcrowded, ending game", station)
}
