/*
Metroloop is a small realtime transit simulation: passengers spawn at
stations, lines carry trains between them, and connected players build out
the network by drawing new lines and extending existing ones. The simulation
runs on a single cooperative tick loop; players interact with it entirely
over a websocket.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"metroloop/config"
	"metroloop/netserver"
	"metroloop/simloop"
	"metroloop/snapshot"
	"metroloop/spawner"
	"metroloop/webui"
	"metroloop/worldmodel"
)

const shutdownGracePeriod = 10 * time.Second

var (
	configPath   *string
	listenAddr   *string
	frontEndAddr *string
)

func init() {
	configPath = flag.String("config", "./config.yaml", "path to the server config file")
	listenAddr = flag.String("listen", "", "websocket listen address, overrides config")
	frontEndAddr = flag.String("frontend", "", "front-end listen address, overrides config")
	flag.Parse()
}

func runApp() error {
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *listenAddr != "" {
		cfg.ListenAddr = *listenAddr
	}
	if *frontEndAddr != "" {
		cfg.FrontEndAddr = *frontEndAddr
	}

	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()
	go waitForShutdownSignal(appCancel)

	world := worldmodel.NewWorld(
		worldmodel.Point{X: cfg.MinBoundX, Y: cfg.MinBoundY},
		worldmodel.Point{X: cfg.MaxBoundX, Y: cfg.MaxBoundY},
		cfg.StationDiameter,
		cfg.TicksPerWeek,
	)

	fanOut := snapshot.NewFanOut()
	spawn := spawner.NewSpawner(spawner.NewRandom())
	inputs := make(chan simloop.Input, 256)
	loop := simloop.NewLoop(world, fanOut, spawn, inputs)

	netServer := netserver.NewServer(fanOut, inputs, cfg.ShutdownHost)
	wsURL := "ws://" + cfg.ListenAddr + "/ws"

	errs := make(chan error, 3)
	go func() { errs <- loopRun(appCtx, loop, cfg.TickRate) }()

	if cfg.FrontEndAddr == "" || cfg.FrontEndAddr == cfg.ListenAddr {
		// Share one listener: mount the page alongside /ws.
		mux := http.NewServeMux()
		mux.Handle("/ws", netServer.Handler())
		mux.Handle("/", webui.Handler(wsURL))
		go func() { errs <- serveAndWait(appCtx, cfg.ListenAddr, mux) }()
		return <-errs
	}

	frontEnd := &http.Server{Addr: cfg.FrontEndAddr, Handler: webui.Handler(wsURL)}
	go func() { errs <- netServer.Run(appCtx, cfg.ListenAddr) }()
	go func() { errs <- runFrontEnd(appCtx, frontEnd) }()

	return <-errs
}

// serveAndWait runs an http.Server on addr until ctx is cancelled, then
// shuts it down gracefully.
func serveAndWait(ctx context.Context, addr string, handler http.Handler) error {
	httpServer := &http.Server{Addr: addr, Handler: handler}
	return runFrontEnd(ctx, httpServer)
}

func runFrontEnd(ctx context.Context, httpServer *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func loopRun(ctx context.Context, loop *simloop.Loop, tickRate int) error {
	period := time.Second / time.Duration(tickRate)
	ticker := simloop.NewRealTicker(ctx.Done(), period)
	loop.Run(ctx, ticker)
	return nil
}

func waitForShutdownSignal(cancel context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	cancel()
}

func main() {
	if err := runApp(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
