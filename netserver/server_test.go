package netserver

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	. "github.com/smartystreets/goconvey/convey"

	"metroloop/event"
	"metroloop/simloop"
	"metroloop/snapshot"
)

func dialTestServer(t *testing.T, httpServer *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(httpServer.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dialing test server: %v", err)
	}
	return conn
}

func recvInput(t *testing.T, inputs chan simloop.Input) simloop.Input {
	t.Helper()
	select {
	case in := <-inputs:
		return in
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for simloop input")
		return simloop.Input{}
	}
}

func TestServeWebsocketConnectAndDisconnect(t *testing.T) {
	Convey("Given a running netserver", t, func() {
		inputs := make(chan simloop.Input, 8)
		fanOut := snapshot.NewFanOut()
		srv := NewServer(fanOut, inputs, "")
		httpServer := httptest.NewServer(srv.Handler())
		defer httpServer.Close()

		Convey("dialing /ws posts a Connect input for the assigned player", func() {
			conn := dialTestServer(t, httpServer)

			in := recvInput(t, inputs)
			So(in.Kind, ShouldEqual, simloop.Connect)

			Convey("a published update for that player arrives over the socket", func() {
				fanOut.PublishLobbyCount(1)

				var got snapshot.StateUpdate
				So(conn.ReadJSON(&got), ShouldBeNil)
				So(got.Kind, ShouldEqual, snapshot.LobbyCountKind)
				So(got.LobbyCount, ShouldEqual, 1)

				Convey("closing the connection posts a Disconnect input", func() {
					conn.Close()

					out := recvInput(t, inputs)
					So(out.Kind, ShouldEqual, simloop.Disconnect)
					So(out.Player, ShouldEqual, in.Player)
				})
			})
		})
	})
}

func TestServeWebsocketDecodesAction(t *testing.T) {
	Convey("Given a running netserver with a connected client", t, func() {
		inputs := make(chan simloop.Input, 8)
		fanOut := snapshot.NewFanOut()
		srv := NewServer(fanOut, inputs, "")
		httpServer := httptest.NewServer(srv.Handler())
		defer httpServer.Close()

		conn := dialTestServer(t, httpServer)
		connectIn := recvInput(t, inputs)

		Convey("sending a StartGame action decodes and posts it as an Action input", func() {
			So(conn.WriteJSON(event.PlayerAction{Kind: event.StartGame}), ShouldBeNil)

			actionIn := recvInput(t, inputs)
			So(actionIn.Kind, ShouldEqual, simloop.Action)
			So(actionIn.Player, ShouldEqual, connectIn.Player)
			So(actionIn.Action.Kind, ShouldEqual, event.StartGame)
		})
	})
}

func TestShutdownIfMurderableTerminatesListener(t *testing.T) {
	Convey("Given a server configured with a shutdown host", t, func() {
		srv := NewServer(snapshot.NewFanOut(), make(chan simloop.Input, 1), "203.0.113.9")
		cancelled := false
		srv.cancelListener = func() { cancelled = true }

		Convey("a failed handshake from that host cancels the listener", func() {
			req := httptest.NewRequest("GET", "/ws", nil)
			req.RemoteAddr = "203.0.113.9:54321"
			srv.shutdownIfMurderable(req)
			So(cancelled, ShouldBeTrue)
		})

		Convey("a failed handshake from a different host leaves the listener running", func() {
			req := httptest.NewRequest("GET", "/ws", nil)
			req.RemoteAddr = "198.51.100.2:54321"
			srv.shutdownIfMurderable(req)
			So(cancelled, ShouldBeFalse)
		})
	})
}

func TestShutdownIfMurderableDisabledByDefault(t *testing.T) {
	Convey("Given a server with no shutdown host configured", t, func() {
		srv := NewServer(snapshot.NewFanOut(), make(chan simloop.Input, 1), "")
		cancelled := false
		srv.cancelListener = func() { cancelled = true }

		Convey("a failed handshake from anywhere is a no-op", func() {
			req := httptest.NewRequest("GET", "/ws", nil)
			req.RemoteAddr = "127.0.0.1:54321"
			srv.shutdownIfMurderable(req)
			So(cancelled, ShouldBeFalse)
		})
	})
}
