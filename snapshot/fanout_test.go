package snapshot

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"metroloop/worldmodel"
)

func TestFanOutRegisterAndSend(t *testing.T) {
	Convey("Given a FanOut with one registered player", t, func() {
		f := NewFanOut()
		outbox := f.Register(1)

		Convey("PublishYou delivers only to that player", func() {
			f.PublishYou(1)

			update := <-outbox
			So(update.Kind, ShouldEqual, YouKind)
			So(update.PlayerID, ShouldEqual, worldmodel.PlayerID(1))
		})

		Convey("Broadcast reaches the registered player and nobody else", func() {
			f.PublishLobbyCount(3)

			update := <-outbox
			So(update.Kind, ShouldEqual, LobbyCountKind)
			So(update.LobbyCount, ShouldEqual, 3)
		})

		Convey("Unregister closes the outbox", func() {
			f.Unregister(1)
			_, open := <-outbox
			So(open, ShouldBeFalse)
		})

		Convey("Send to an unregistered player is a silent no-op", func() {
			f.Send(99, StateUpdate{Kind: LobbyCountKind, LobbyCount: 1})
			So(len(outbox), ShouldEqual, 0)
		})
	})
}

func TestFanOutDropsOnFullOutbox(t *testing.T) {
	Convey("Given a player whose outbox is full", t, func() {
		f := NewFanOut()
		f.Register(1)
		for i := 0; i < outboxCapacity; i++ {
			f.PublishLobbyCount(i)
		}

		Convey("one more publish is dropped rather than blocking", func() {
			f.PublishLobbyCount(99)
			So(f.Dropped(1), ShouldEqual, 1)
		})
	})
}

func TestFanOutBroadcastToMultiplePlayers(t *testing.T) {
	Convey("Given three registered players", t, func() {
		f := NewFanOut()
		a := f.Register(1)
		b := f.Register(2)
		c := f.Register(3)

		Convey("PublishGameOver reaches all three", func() {
			f.PublishGameOver(7)

			for _, ch := range []<-chan StateUpdate{a, b, c} {
				update := <-ch
				So(update.Kind, ShouldEqual, GameOverKind)
				So(update.OvercrowdedStation, ShouldEqual, worldmodel.StationID(7))
			}
		})
	})
}

func TestFanOutPublishGameState(t *testing.T) {
	Convey("Given a world and a registered player", t, func() {
		w := worldmodel.NewWorld(worldmodel.Point{0, 0}, worldmodel.Point{100, 100}, 10, 4200)
		w.AddStation(worldmodel.Circle, worldmodel.Point{10, 10})
		f := NewFanOut()
		outbox := f.Register(1)

		Convey("PublishGameState delivers a snapshot of the world", func() {
			f.PublishGameState(w)

			update := <-outbox
			So(update.Kind, ShouldEqual, GameStateKind)
			So(len(update.GameState.Stations), ShouldEqual, 1)
		})
	})
}
