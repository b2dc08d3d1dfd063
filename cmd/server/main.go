// Command server runs the digital-twin home service: the twin state with
// its sensor simulator, the 2D-to-3D mesh generation API and the websocket
// event push.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/twinforge/twinmesh/internal/config"
	"github.com/twinforge/twinmesh/internal/logger"
	"github.com/twinforge/twinmesh/pkg/csg"
	"github.com/twinforge/twinmesh/pkg/csg/sdfcsg"
	"github.com/twinforge/twinmesh/pkg/plan"
	"github.com/twinforge/twinmesh/pkg/store"
	"github.com/twinforge/twinmesh/pkg/twin"
	"github.com/twinforge/twinmesh/pkg/ws"
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.LogFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	var st store.Store
	if cfg.Database.Path != "" {
		sqlite, err := store.OpenSQLite(cfg.Database.Path)
		if err != nil {
			log.Error("opening database failed, falling back to memory store",
				zap.String("path", cfg.Database.Path), zap.Error(err))
		} else {
			st = sqlite
			defer sqlite.Close()
		}
	}
	if st == nil {
		st = store.NewMemory()
	}

	var carver csg.Carver = csg.Unavailable{}
	if cfg.Mesh.EnableCSG {
		carver = sdfcsg.New()
	}

	hub := ws.NewHub()
	svc := twin.New(twin.Options{
		Store:       st,
		Carver:      carver,
		Broadcaster: hub,
		Interval:    cfg.Simulation.Interval,
		DefaultParams: plan.Params{
			WallHeight:    cfg.Mesh.WallHeight,
			WallThickness: cfg.Mesh.WallThickness,
		},
		Logger: log,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      newRouter(svc, hub, log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr), zap.Bool("csg", cfg.Mesh.EnableCSG))
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	case sig := <-stop:
		log.Info("shutting down", zap.String("signal", sig.String()))
		svc.StopSimulation()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("shutdown did not complete cleanly", zap.Error(err))
		}
	}
}
