// Package netserver exposes the simulation over a websocket: one player per
// connection, a read-pump decoding inbound actions and a write-pump draining
// the player's outbound snapshot channel, generalized from server.go's
// single-client prototype to many concurrent connections.
package netserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	channerics "github.com/niceyeti/channerics/channels"
	"golang.org/x/sync/errgroup"

	"metroloop/event"
	"metroloop/simloop"
	"metroloop/snapshot"
	"metroloop/worldmodel"
)

var upgrader = websocket.Upgrader{}

const (
	writeWait        = 1 * time.Second
	maxMessageSize   = 8192
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	closeGracePeriod = 10 * time.Second
)

// Server upgrades /ws connections into simulation players.
type Server struct {
	router       *mux.Router
	fanOut       *snapshot.FanOut
	inputs       chan<- simloop.Input
	shutdownHost string

	mu             sync.Mutex
	nextPlayer     worldmodel.PlayerID
	cancelListener context.CancelFunc
}

// NewServer builds a Server routing /ws to websocket upgrades. Serving the
// front-end itself is webui's job, mounted separately by the caller (the two
// may share an address or not, per config.Config's listen/front-end split).
//
// shutdownHost, if non-empty, is the peer address a failed handshake must
// come from to terminate the listener -- an in-process test affordance, not
// a protocol feature. Pass "" to disable it.
func NewServer(fanOut *snapshot.FanOut, inputs chan<- simloop.Input, shutdownHost string) *Server {
	s := &Server{
		router:       mux.NewRouter(),
		fanOut:       fanOut,
		inputs:       inputs,
		shutdownHost: shutdownHost,
	}
	s.router.HandleFunc("/ws", s.serveWebsocket)
	return s
}

// Handler returns the server's routed http.Handler, for use with
// httptest.NewServer in tests or a caller that wants to embed it in a
// larger mux.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled -- either by the caller, or by
// the loopback-shutdown affordance in serveWebsocket -- then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.mu.Lock()
	s.cancelListener = cancel
	s.mu.Unlock()

	httpServer := &http.Server{Addr: addr, Handler: s.router}

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("netserver: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-runCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), closeGracePeriod)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// allocatePlayer assigns the next PlayerID, wrapping at 16 bits per
// worldmodel.PlayerID's own documented range.
func (s *Server) allocatePlayer() worldmodel.PlayerID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextPlayer
	s.nextPlayer++
	return id
}

// shutdownIfMurderable terminates the listener if a failed handshake came
// from the configured shutdownHost. This is the process-side shutdown
// signal: an in-process test affordance, not a protocol feature.
func (s *Server) shutdownIfMurderable(r *http.Request) {
	if s.shutdownHost == "" {
		return
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if host != s.shutdownHost {
		return
	}
	s.mu.Lock()
	cancel := s.cancelListener
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (s *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		log.Println("netserver: upgrade:", err)
		s.shutdownIfMurderable(r)
		return
	}
	defer closeWebsocket(ws)

	player := s.allocatePlayer()
	outbox := s.fanOut.Register(player)
	s.inputs <- simloop.Input{Kind: simloop.Connect, Player: player}
	defer func() {
		s.fanOut.Unregister(player)
		s.inputs <- simloop.Input{Kind: simloop.Disconnect, Player: player}
	}()

	connCtx, cancel := context.WithCancel(r.Context())
	defer cancel()

	var g errgroup.Group
	g.Go(func() error {
		defer cancel()
		return s.readPump(connCtx, ws, player)
	})
	g.Go(func() error {
		defer cancel()
		return s.writePump(connCtx, ws, outbox)
	})
	if err := g.Wait(); err != nil {
		log.Printf("netserver: connection for player %d closed: %v", player, err)
	}
}

// readPump decodes one PlayerAction per inbound message and posts it as
// simloop input. A read error (including the client's close handshake)
// ends the pump; its caller cancels the sibling write pump in turn.
func (s *Server) readPump(ctx context.Context, ws *websocket.Conn, player worldmodel.PlayerID) error {
	ws.SetReadLimit(maxMessageSize)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		_, data, err := ws.ReadMessage()
		if err != nil {
			if isClosure(err) {
				return nil
			}
			return err
		}

		var action event.PlayerAction
		if err := json.Unmarshal(data, &action); err != nil {
			log.Printf("netserver: player %d sent a malformed action, dropping: %v", player, err)
			continue
		}
		s.inputs <- simloop.Input{Kind: simloop.Action, Player: player, Action: action}
	}
}

// writePump drains outbox and pushes each update to the client, running the
// ping/pong liveness handshake alongside it.
func (s *Server) writePump(ctx context.Context, ws *websocket.Conn, outbox <-chan snapshot.StateUpdate) error {
	lastPong := time.Now()
	pong := make(chan struct{}, 1)
	ws.SetPongHandler(func(string) error {
		select {
		case pong <- struct{}{}:
		default:
		}
		return nil
	})

	pinger := channerics.NewTicker(ctx.Done(), pingPeriod)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-pinger:
			if time.Since(lastPong) > pingPeriod*2 {
				return fmt.Errorf("no pong within %s, closing", pingPeriod*2)
			}
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				if isError(err) {
					return err
				}
				return nil
			}
		case <-pong:
			lastPong = time.Now()
		case update, ok := <-outbox:
			if !ok {
				return nil
			}
			if err := ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return err
			}
			if err := ws.WriteJSON(update); err != nil {
				if isError(err) {
					return err
				}
				return nil
			}
		}
	}
}

func isError(err error) bool {
	return err != nil && websocket.IsUnexpectedCloseError(
		err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway)
}

func isClosure(err error) bool {
	return err != nil && websocket.IsCloseError(
		err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway)
}

func closeWebsocket(ws *websocket.Conn) {
	_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
	_ = ws.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	ws.Close()
}
