package spawner

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"metroloop/worldmodel"
)

// constRandom always returns the same draw; handy for pinning a spawn
// probability check to always-succeed (0) or always-fail (1, same as
// Always1Random).
type constRandom float64

func (c constRandom) Float64() float64 { return float64(c) }

func newTestWorld() *worldmodel.World {
	return worldmodel.NewWorld(worldmodel.Point{-500, -500}, worldmodel.Point{500, 500}, 10, 4200)
}

func TestStationSpawnSuppressedByAlways1Random(t *testing.T) {
	Convey("Given a Spawner backed by Always1Random", t, func() {
		w := newTestWorld()
		s := NewSpawner(Always1Random{})

		Convey("no station is ever spawned, however many ticks run", func() {
			for i := 0; i < 200; i++ {
				s.Step(w, nil)
			}
			So(len(w.Stations), ShouldEqual, 0)
		})
	})
}

func TestStationSpawnOnceGapExceeded(t *testing.T) {
	Convey("Given a Spawner that always draws the minimum (spawn-indicating) value", t, func() {
		w := newTestWorld()
		s := NewSpawner(constRandom(0))

		Convey("no station spawns before the minimum gap elapses", func() {
			for i := 0; i < stationMinGap; i++ {
				s.spawnStation(w)
			}
			So(len(w.Stations), ShouldEqual, 0)
		})

		Convey("a station spawns on the first tick past the minimum gap", func() {
			for i := 0; i < stationMinGap+1; i++ {
				s.spawnStation(w)
			}
			So(len(w.Stations), ShouldEqual, 1)
			// constRandom(0) also selects the first distribution bucket for
			// kind, and the world's min corner for position.
			So(w.Stations[0].Kind, ShouldEqual, worldmodel.Circle)
			So(w.Stations[0].Pos, ShouldResemble, w.MinBound)
		})
	})
}

func TestPassengerSpawnDiscardsSameKind(t *testing.T) {
	Convey("Given a Circle station and a Spawner that always draws the minimum value", t, func() {
		w := newTestWorld()
		w.AddStation(worldmodel.Circle, worldmodel.Point{0, 0})
		s := NewSpawner(constRandom(0))

		Convey("the spawned passenger, always Circle by the draw, is discarded as a same-kind match", func() {
			for i := 0; i < stationMinGap+1; i++ {
				s.spawnPassengers(w)
			}
			So(len(w.Stations[0].Queue), ShouldEqual, 0)
		})
	})
}

func TestPassengerSpawnEnqueuesDifferentKind(t *testing.T) {
	Convey("Given a Square station and a Spawner that always draws the minimum value", t, func() {
		w := newTestWorld()
		w.AddStation(worldmodel.Square, worldmodel.Point{0, 0})
		s := NewSpawner(constRandom(0))

		// constRandom(0) always indicates a spawn and always selects
		// Circle, which differs from the station's own Square kind.
		Convey("a Circle passenger is enqueued once the gap elapses", func() {
			for i := 0; i < stationMinGap+1; i++ {
				s.spawnPassengers(w)
			}
			So(w.Stations[0].Queue, ShouldResemble, []worldmodel.StationKind{worldmodel.Circle})
		})
	})
}

func TestWeeklyBonus(t *testing.T) {
	Convey("Given two players, one already at the line cap", t, func() {
		w := newTestWorld()
		s := NewSpawner(Always1Random{})
		for i := 0; i < maxLinesPerPlayer; i++ {
			w.AddLine(1, worldmodel.Color{})
		}
		w.AddLine(2, worldmodel.Color{})

		Convey("after a full week, only the player under the cap gains a line", func() {
			for i := 0; i < w.TicksPerWeek; i++ {
				s.weeklyBonus(w, []worldmodel.PlayerID{1, 2})
			}
			So(len(w.LinesOwnedBy(1)), ShouldEqual, maxLinesPerPlayer)
			So(len(w.LinesOwnedBy(2)), ShouldEqual, 2)
		})
	})
}

func TestOvercrowding(t *testing.T) {
	Convey("Given a station whose queue exceeds the overcrowding threshold", t, func() {
		w := newTestWorld()
		a := w.AddStation(worldmodel.Circle, worldmodel.Point{0, 0})
		station, _ := w.Station(a)
		for i := 0; i < overcrowdingThreshold+1; i++ {
			station.EnqueuePassenger(worldmodel.Square)
		}
		s := NewSpawner(Always1Random{})

		Convey("its overcrowding timer counts up and game-over triggers at timeToBlow", func() {
			var gameOver bool
			for i := 0; i < timeToBlow; i++ {
				gameOver = s.Step(w, nil)
			}
			So(station.OvercrowdTicks, ShouldEqual, timeToBlow)
			So(gameOver, ShouldBeTrue)
		})

		Convey("the timer resets once the queue drops back under the threshold", func() {
			s.UpdateOvercrowding(w)
			station.Queue = station.Queue[:overcrowdingThreshold]
			s.UpdateOvercrowding(w)
			So(station.OvercrowdTicks, ShouldEqual, 0)
		})
	})
}
