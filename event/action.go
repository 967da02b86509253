// Package event defines the inbound action vocabulary clients send and
// applies it to a world, subject to ownership rules.
package event

import (
	"encoding/json"
	"fmt"

	"metroloop/worldmodel"
)

// Kind discriminates the PlayerAction tagged union.
type Kind int

const (
	StartGame Kind = iota
	NewLine
	InsertAtLineBeginning
	InsertAtLineEnd
	InsertBetweenStations
)

func (k Kind) String() string {
	switch k {
	case StartGame:
		return "StartGame"
	case NewLine:
		return "NewLine"
	case InsertAtLineBeginning:
		return "InsertAtLineBeginning"
	case InsertAtLineEnd:
		return "InsertAtLineEnd"
	case InsertBetweenStations:
		return "InsertBetweenStations"
	default:
		return "Unknown"
	}
}

// PlayerAction is one client-to-server command. Only the fields relevant
// to Kind are meaningful.
type PlayerAction struct {
	Kind Kind

	Line                 worldmodel.LineID
	Origin, Destination  worldmodel.StationID
	Station              worldmodel.StationID
	A, Mid, B            worldmodel.StationID
}

// UnmarshalJSON decodes the single-key tagged-union wire form, e.g.
// {"NewLine":[{"StationId":3},{"StationId":5}]} or {"StartGame":null}.
func (a *PlayerAction) UnmarshalJSON(data []byte) error {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}
	if len(envelope) != 1 {
		return fmt.Errorf("event: expected exactly one action key, got %d", len(envelope))
	}

	for key, payload := range envelope {
		switch key {
		case "StartGame":
			a.Kind = StartGame
			return nil
		case "NewLine":
			ids, err := decodeIDArray(payload, "StationId", "StationId")
			if err != nil {
				return fmt.Errorf("event: NewLine: %w", err)
			}
			a.Kind = NewLine
			a.Origin = worldmodel.StationID(ids[0])
			a.Destination = worldmodel.StationID(ids[1])
			return nil
		case "InsertAtLineBeginning":
			ids, err := decodeIDArray(payload, "LineId", "StationId")
			if err != nil {
				return fmt.Errorf("event: InsertAtLineBeginning: %w", err)
			}
			a.Kind = InsertAtLineBeginning
			a.Line = worldmodel.LineID(ids[0])
			a.Station = worldmodel.StationID(ids[1])
			return nil
		case "InsertAtLineEnd":
			ids, err := decodeIDArray(payload, "LineId", "StationId")
			if err != nil {
				return fmt.Errorf("event: InsertAtLineEnd: %w", err)
			}
			a.Kind = InsertAtLineEnd
			a.Line = worldmodel.LineID(ids[0])
			a.Station = worldmodel.StationID(ids[1])
			return nil
		case "InsertBetweenStations":
			ids, err := decodeIDArray(payload, "LineId", "StationId", "StationId", "StationId")
			if err != nil {
				return fmt.Errorf("event: InsertBetweenStations: %w", err)
			}
			a.Kind = InsertBetweenStations
			a.Line = worldmodel.LineID(ids[0])
			a.A = worldmodel.StationID(ids[1])
			a.Mid = worldmodel.StationID(ids[2])
			a.B = worldmodel.StationID(ids[3])
			return nil
		default:
			return fmt.Errorf("event: unknown action key %q", key)
		}
	}
	return nil
}

// MarshalJSON encodes back to the same tagged-union wire form.
func (a PlayerAction) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case StartGame:
		return []byte(`{"StartGame":null}`), nil
	case NewLine:
		return json.Marshal(map[string]any{
			"NewLine": []map[string]int{
				{"StationId": int(a.Origin)},
				{"StationId": int(a.Destination)},
			},
		})
	case InsertAtLineBeginning:
		return json.Marshal(map[string]any{
			"InsertAtLineBeginning": []map[string]int{
				{"LineId": int(a.Line)},
				{"StationId": int(a.Station)},
			},
		})
	case InsertAtLineEnd:
		return json.Marshal(map[string]any{
			"InsertAtLineEnd": []map[string]int{
				{"LineId": int(a.Line)},
				{"StationId": int(a.Station)},
			},
		})
	case InsertBetweenStations:
		return json.Marshal(map[string]any{
			"InsertBetweenStations": []map[string]int{
				{"LineId": int(a.Line)},
				{"StationId": int(a.A)},
				{"StationId": int(a.Mid)},
				{"StationId": int(a.B)},
			},
		})
	default:
		return nil, fmt.Errorf("event: unknown action kind %v", a.Kind)
	}
}

// decodeIDArray decodes payload as an array of single-key objects, one per
// expected key, in order, and returns the decoded integer values.
func decodeIDArray(payload json.RawMessage, expectedKeys ...string) ([]int, error) {
	var items []map[string]int
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, err
	}
	if len(items) != len(expectedKeys) {
		return nil, fmt.Errorf("expected %d fields, got %d", len(expectedKeys), len(items))
	}
	out := make([]int, len(items))
	for i, key := range expectedKeys {
		v, ok := items[i][key]
		if !ok {
			return nil, fmt.Errorf("expected key %q at position %d", key, i)
		}
		out[i] = v
	}
	return out, nil
}
