package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/meltforce/repbook/internal/config"
	"github.com/meltforce/repbook/internal/mcp"
	"github.com/meltforce/repbook/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// repbook-mcp serves the workout data over MCP on stdio. Two modes:
//
//	--server URL  proxy to a running repbook REST API (e.g. over Tailscale)
//	--config PATH connect straight to the database
func main() {
	serverURL := flag.String("server", "", "base URL of a running repbook server (remote mode)")
	configPath := flag.String("config", "config.yaml", "path to config file (direct database mode)")
	owner := flag.String("owner", "", "state owner (overrides config)")
	flag.Parse()

	// Logs go to stderr: stdout is the MCP transport.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	var ds mcp.DataSource
	stateOwner := *owner

	if *serverURL != "" {
		ds = mcp.NewHTTPClient(*serverURL)
		if stateOwner == "" {
			stateOwner = "local"
		}
	} else {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		db, err := storage.New(context.Background(), cfg.Database.DSN())
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		ds = db
		if stateOwner == "" {
			stateOwner = cfg.State.Owner
		}
	}

	s := mcp.New(ds, stateOwner, Version, log)
	if err := server.ServeStdio(s); err != nil {
		log.Error("mcp server stopped", "error", err)
		os.Exit(1)
	}
}
