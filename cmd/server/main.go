package main

import (
	"log/slog"
	"os"

	httpapi "sweeper-royale/internal/api/http"
	"sweeper-royale/internal/api/ws"
	"sweeper-royale/internal/config"
	"sweeper-royale/internal/room"
	"sweeper-royale/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	mem := store.NewMemoryStore()
	hub := ws.NewHub()
	reg := room.NewRegistry(mem, cfg, hub)
	// Hub and registry reference each other; bind the handler side late.
	hub.SetHandler(reg)

	r := httpapi.SetupRouter(reg, hub, cfg)

	slog.Info("listening", "addr", cfg.Server.Addr)
	if err := r.Run(cfg.Server.Addr); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}
