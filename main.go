package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/trainerlab/pokevault/pokevault"
	"github.com/trainerlab/pokevault/pokevault/logger"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	customHandler := logger.NewHandler()
	slog.SetDefault(slog.New(customHandler))

	slog.Info("Starting PokeVault client core",
		slog.String("version", version),
		slog.String("commit", commit))

	path := flag.String("config", "config.toml", "path to config")
	username := flag.String("username", "", "trainer to hydrate on startup")
	flag.Parse()

	cfg, err := pokevault.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}
	slog.Info("Configuration loaded successfully")

	setupStart := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	app := pokevault.New(*cfg, version, commit)
	if err := app.Setup(ctx); err != nil {
		slog.Error("Setup failed",
			slog.Any("error", err),
			slog.Duration("attempted_for", time.Since(setupStart)))
		os.Exit(-1)
	}
	slog.Info("Setup complete",
		slog.Int("catalog_variants", app.Catalog.Len()),
		slog.Duration("took", time.Since(setupStart)))

	if *username != "" {
		if err := app.HydrateUser(ctx, *username); err != nil {
			slog.Error("Hydration failed",
				slog.String("username", *username),
				slog.Any("error", err))
			os.Exit(-1)
		}
		slog.Info("Collection hydrated",
			slog.String("username", *username),
			slog.Int("instances", app.Ledger.Len()))
	}

	app.Start()
	logger.LogSystem("PokeVault ready")

	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s

	slog.Info("Shutting down...")
	app.Shutdown(10 * time.Second)
}
