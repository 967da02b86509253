// Package snapshot defines the outbound tagged-union wire type and the
// per-tick fan-out that pushes one update to every connected player.
package snapshot

import (
	"encoding/json"
	"fmt"

	"metroloop/worldmodel"
)

// Kind discriminates the StateUpdate tagged union.
type Kind int

const (
	LobbyCountKind Kind = iota
	YouKind
	GameStateKind
	GameOverKind
)

// GameState is the full-world payload of a GameState update.
type GameState struct {
	Stations []worldmodel.Station
	Lines    []worldmodel.Line
	Trains   []worldmodel.Train
	Scores   map[worldmodel.PlayerID]int
}

// NewGameState snapshots w into the wire-shaped GameState payload.
func NewGameState(w *worldmodel.World) GameState {
	scores := make(map[worldmodel.PlayerID]int, len(w.Players))
	for id, p := range w.Players {
		scores[id] = p.Score
	}
	return GameState{
		Stations: w.Stations,
		Lines:    w.Lines,
		Trains:   w.Trains,
		Scores:   scores,
	}
}

// StateUpdate is one server-to-client message. Only the field relevant to
// Kind is meaningful.
type StateUpdate struct {
	Kind Kind

	LobbyCount         int
	PlayerID           worldmodel.PlayerID
	GameState          *GameState
	OvercrowdedStation worldmodel.StationID
}

// MarshalJSON encodes the single-key tagged-union wire form, e.g.
// {"LobbyCount":2}, {"You":{"PlayerId":7}}, {"GameState":{...}}.
func (u StateUpdate) MarshalJSON() ([]byte, error) {
	switch u.Kind {
	case LobbyCountKind:
		return json.Marshal(map[string]int{"LobbyCount": u.LobbyCount})
	case YouKind:
		return json.Marshal(map[string]any{
			"You": map[string]int{"PlayerId": int(u.PlayerID)},
		})
	case GameStateKind:
		if u.GameState == nil {
			return nil, fmt.Errorf("snapshot: GameState update with nil payload")
		}
		return json.Marshal(map[string]any{"GameState": u.GameState})
	case GameOverKind:
		return json.Marshal(map[string]any{
			"GameOver": map[string]int{"StationId": int(u.OvercrowdedStation)},
		})
	default:
		return nil, fmt.Errorf("snapshot: unknown update kind %v", u.Kind)
	}
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (u *StateUpdate) UnmarshalJSON(data []byte) error {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}
	if len(envelope) != 1 {
		return fmt.Errorf("snapshot: expected exactly one update key, got %d", len(envelope))
	}

	for key, payload := range envelope {
		switch key {
		case "LobbyCount":
			var count int
			if err := json.Unmarshal(payload, &count); err != nil {
				return fmt.Errorf("snapshot: LobbyCount: %w", err)
			}
			u.Kind = LobbyCountKind
			u.LobbyCount = count
			return nil
		case "You":
			var you struct {
				PlayerId worldmodel.PlayerID
			}
			if err := json.Unmarshal(payload, &you); err != nil {
				return fmt.Errorf("snapshot: You: %w", err)
			}
			u.Kind = YouKind
			u.PlayerID = you.PlayerId
			return nil
		case "GameState":
			var gs GameState
			if err := json.Unmarshal(payload, &gs); err != nil {
				return fmt.Errorf("snapshot: GameState: %w", err)
			}
			u.Kind = GameStateKind
			u.GameState = &gs
			return nil
		case "GameOver":
			var over struct {
				StationId worldmodel.StationID
			}
			if err := json.Unmarshal(payload, &over); err != nil {
				return fmt.Errorf("snapshot: GameOver: %w", err)
			}
			u.Kind = GameOverKind
			u.OvercrowdedStation = over.StationId
			return nil
		default:
			return fmt.Errorf("snapshot: unknown update key %q", key)
		}
	}
	return nil
}
