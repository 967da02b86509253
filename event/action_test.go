package event

import (
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"metroloop/worldmodel"
)

func TestUnmarshalPlayerAction(t *testing.T) {
	Convey("StartGame decodes from a null payload", t, func() {
		var a PlayerAction
		So(json.Unmarshal([]byte(`{"StartGame":null}`), &a), ShouldBeNil)
		So(a.Kind, ShouldEqual, StartGame)
	})

	Convey("NewLine decodes origin and destination station ids", t, func() {
		var a PlayerAction
		So(json.Unmarshal([]byte(`{"NewLine":[{"StationId":3},{"StationId":5}]}`), &a), ShouldBeNil)
		So(a.Kind, ShouldEqual, NewLine)
		So(a.Origin, ShouldEqual, worldmodel.StationID(3))
		So(a.Destination, ShouldEqual, worldmodel.StationID(5))
	})

	Convey("InsertAtLineEnd decodes line and station ids", t, func() {
		var a PlayerAction
		So(json.Unmarshal([]byte(`{"InsertAtLineEnd":[{"LineId":1},{"StationId":9}]}`), &a), ShouldBeNil)
		So(a.Kind, ShouldEqual, InsertAtLineEnd)
		So(a.Line, ShouldEqual, worldmodel.LineID(1))
		So(a.Station, ShouldEqual, worldmodel.StationID(9))
	})

	Convey("InsertBetweenStations decodes all four ids", t, func() {
		var a PlayerAction
		So(json.Unmarshal([]byte(`{"InsertBetweenStations":[{"LineId":2},{"StationId":1},{"StationId":4},{"StationId":6}]}`), &a), ShouldBeNil)
		So(a.Kind, ShouldEqual, InsertBetweenStations)
		So(a.Line, ShouldEqual, worldmodel.LineID(2))
		So(a.A, ShouldEqual, worldmodel.StationID(1))
		So(a.Mid, ShouldEqual, worldmodel.StationID(4))
		So(a.B, ShouldEqual, worldmodel.StationID(6))
	})

	Convey("an unknown action key is a decode error", t, func() {
		var a PlayerAction
		err := json.Unmarshal([]byte(`{"Teleport":null}`), &a)
		So(err, ShouldNotBeNil)
	})

	Convey("a malformed NewLine payload is a decode error", t, func() {
		var a PlayerAction
		err := json.Unmarshal([]byte(`{"NewLine":[{"StationId":3}]}`), &a)
		So(err, ShouldNotBeNil)
	})
}

func TestPlayerActionRoundTrip(t *testing.T) {
	Convey("Given a NewLine action", t, func() {
		a := PlayerAction{Kind: NewLine, Origin: 3, Destination: 5}

		Convey("marshalling then unmarshalling yields an equal value", func() {
			data, err := json.Marshal(a)
			So(err, ShouldBeNil)

			var out PlayerAction
			So(json.Unmarshal(data, &out), ShouldBeNil)
			So(out, ShouldResemble, a)
		})
	})
}
