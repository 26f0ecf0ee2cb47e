package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/meltforce/repbook/internal/config"
	"github.com/meltforce/repbook/internal/controller"
	"github.com/meltforce/repbook/internal/localstate"
	"github.com/meltforce/repbook/internal/server"
	"github.com/meltforce/repbook/internal/storage"
	"github.com/meltforce/repbook/internal/suggest"
	"github.com/meltforce/repbook/internal/syncer"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// initSession primes the controller for serving. History comes first: the
// template load that follows pre-fills logged values from prior sessions,
// so an empty cache at that point would leave every set blank. Then a saved
// snapshot replays the week/day selection and the logged workout data;
// without one we load the default day's template. Every step is best-effort:
// a fresh offline boot still comes up serving the blank structure.
func initSession(ctx context.Context, ctrl *controller.Controller, local controller.StateStore, log *slog.Logger) {
	if err := ctrl.RefreshHistory(ctx); err != nil {
		log.Warn("initial history fetch failed", "error", err)
	}
	if snap, err := local.Load(); err == nil && snap != nil {
		if err := ctrl.LoadWeekDay(ctx); err != nil {
			log.Warn("restoring week/day failed", "error", err)
		}
		if err := ctrl.PopulateLoggedInfo(ctx); err != nil {
			log.Warn("restoring workout data failed", "error", err)
		}
	} else {
		if err := ctrl.LoadTemplate(ctx); err != nil {
			log.Warn("initial template load failed", "error", err)
		}
	}
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("RepBook starting", "version", Version)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Run migrations. Tolerated offline: the local queue covers us until
	// the database is reachable again.
	dsn := cfg.Database.DSN()
	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		if *migrateOnly {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		log.Warn("migration failed, continuing offline", "error", err)
	} else {
		log.Info("migrations applied")
	}

	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	// Connect database
	ctx := context.Background()
	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Open local durable state
	local, err := localstate.Open(cfg.State.Dir, cfg.State.Owner)
	if err != nil {
		log.Error("failed to open local state", "error", err)
		os.Exit(1)
	}
	defer local.Close()

	notify := controller.LogNotifier{Log: log}
	ctrl := controller.New(db, local, cfg.State.Owner, notify, log)
	engine := syncer.New(db, local, ctrl, notify, log)

	// Connectivity monitor drives both the controller's online flag and the
	// sync engine; any transition to online triggers a queue drain.
	monitor := syncer.NewMonitor(
		db.Ping,
		time.Duration(cfg.Sync.ProbeIntervalSeconds)*time.Second,
		func(online bool) {
			ctrl.SetOnline(online)
			engine.SetOnline(online)
		},
		func(ctx context.Context) {
			if _, err := engine.Drain(ctx); err != nil {
				log.Warn("queue drain failed", "error", err)
			}
		},
		log,
	)
	go monitor.Run(ctx)

	initSession(ctx, ctrl, local, log)

	var suggester server.Suggester
	if cfg.Suggest.Endpoint != "" {
		suggester = suggest.NewClient(cfg.Suggest.Endpoint, cfg.Suggest.APIKey)
	}

	srv := server.New(ctrl, engine, db, suggester, cfg.Auth.APIKey, log)

	// Start server — tsnet or plain HTTP
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
