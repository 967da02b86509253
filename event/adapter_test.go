package event

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"metroloop/worldmodel"
)

func newAdapterTestWorld() *worldmodel.World {
	return worldmodel.NewWorld(worldmodel.Point{-1000, -1000}, worldmodel.Point{1000, 1000}, 10, 4200)
}

func TestApplyNewLine(t *testing.T) {
	Convey("Given a player with one empty line", t, func() {
		w := newAdapterTestWorld()
		a := w.AddStation(worldmodel.Circle, worldmodel.Point{0, 0})
		b := w.AddStation(worldmodel.Square, worldmodel.Point{100, 100})
		w.AddLine(1, worldmodel.Color{})

		Convey("NewLine lays an edge and spawns a train", func() {
			Apply(w, 1, PlayerAction{Kind: NewLine, Origin: a, Destination: b})

			line, _ := w.Line(0)
			So(len(line.Edges), ShouldEqual, 1)
			So(len(w.Trains), ShouldEqual, 1)
		})
	})
}

func TestApplyInsertRejectsNonOwner(t *testing.T) {
	Convey("Given a line owned by player 1", t, func() {
		w := newAdapterTestWorld()
		a := w.AddStation(worldmodel.Circle, worldmodel.Point{0, 0})
		b := w.AddStation(worldmodel.Square, worldmodel.Point{100, 100})
		c := w.AddStation(worldmodel.Triangle, worldmodel.Point{200, 200})
		w.AddLine(1, worldmodel.Color{})
		line, _ := w.StartNewLine(1, a, b)

		Convey("InsertAtLineEnd from a different player is a silent no-op", func() {
			Apply(w, 2, PlayerAction{Kind: InsertAtLineEnd, Line: line, Station: c})

			l, _ := w.Line(line)
			So(len(l.Edges), ShouldEqual, 1)
		})

		Convey("InsertAtLineEnd from the owner succeeds", func() {
			Apply(w, 1, PlayerAction{Kind: InsertAtLineEnd, Line: line, Station: c})

			l, _ := w.Line(line)
			So(len(l.Edges), ShouldEqual, 2)
		})
	})
}

func TestApplyInsertBetweenStationsIsNoOp(t *testing.T) {
	Convey("Given a line owned by player 1", t, func() {
		w := newAdapterTestWorld()
		a := w.AddStation(worldmodel.Circle, worldmodel.Point{0, 0})
		b := w.AddStation(worldmodel.Square, worldmodel.Point{100, 100})
		w.AddLine(1, worldmodel.Color{})
		line, _ := w.StartNewLine(1, a, b)

		Convey("InsertBetweenStations leaves the line unchanged", func() {
			Apply(w, 1, PlayerAction{Kind: InsertBetweenStations, Line: line, A: a, Mid: 0, B: b})

			l, _ := w.Line(line)
			So(len(l.Edges), ShouldEqual, 1)
		})
	})
}
