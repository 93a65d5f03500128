package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fmk-dating/internal/app"
	"fmk-dating/internal/cache"
	"fmk-dating/internal/config"
	"fmk-dating/internal/db"
	"fmk-dating/internal/logger"
	"fmk-dating/internal/server"
	"fmk-dating/internal/service/action"
	"fmk-dating/internal/service/authsvc"
	"fmk-dating/internal/service/chat"
	"fmk-dating/internal/service/match"
	"fmk-dating/internal/service/user"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	logg := logger.L()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		logg.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		logg.Error("failed to connect to redis", "err", err)
		return
	}

	appCtx := app.New(database, redisCache, logg, cfg)

	registrars := []server.Registrar{
		authsvc.NewRegistrar(appCtx),
		user.NewRegistrar(appCtx),
		action.NewRegistrar(appCtx),
		match.NewRegistrar(appCtx),
		chat.NewRegistrar(appCtx),
	}

	if cfg.App.ENV == "development" {
		if err := db.SeedDemoData(database); err != nil {
			logg.Error("failed to seed", "err", err)
		}
	}

	httpServer := server.NewHTTPServer(cfg, registrars...)

	go func() {
		if err := httpServer.Start(); err != nil {
			logg.Error("HTTP server stopped", "err", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	logg.Info("received signal, shutting down", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logg.Error("HTTP server shutdown error", "err", err)
	}
}
