package main

import (
	"context"
	"fmt"

	"github.com/mizulegendsstudios/mizu-notes-sub000/internal/config"
	myHTTP "github.com/mizulegendsstudios/mizu-notes-sub000/internal/handler/http"
	"github.com/mizulegendsstudios/mizu-notes-sub000/internal/logger"
	"github.com/mizulegendsstudios/mizu-notes-sub000/internal/server"
	"github.com/mizulegendsstudios/mizu-notes-sub000/internal/service"
	"github.com/mizulegendsstudios/mizu-notes-sub000/internal/store"
	"github.com/mizulegendsstudios/mizu-notes-sub000/internal/sync"
	"github.com/mizulegendsstudios/mizu-notes-sub000/internal/workers"
	"github.com/mizulegendsstudios/mizu-notes-sub000/internal/ws"
	"github.com/mizulegendsstudios/mizu-notes-sub000/migrations"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("mizu-notes-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storages, db, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer func() { _ = db.Close() }()

	if err = migrations.Migrate(ctx, db.DB); err != nil {
		log.Fatal().Err(err).Msg("error applying migrations")
	}

	services := service.NewServices(storages, cfg, log)

	registry := ws.NewRegistry(log)
	engine := sync.NewEngine(services.NoteService, registry, cfg.Sync.QueueSize, cfg.Sync.OperationTimeout, log)
	dispatcher := ws.NewDispatcher(services.AuthService, services.NoteService, engine, registry, log)
	wsHandler := ws.NewHandler(dispatcher, registry, log)

	handler := myHTTP.NewHandler(services, engine, wsHandler, log)

	background := workers.NewWorkers(engine)
	background.Run(ctx)

	srv, err := server.NewServer(handler.Init(), cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
