package main

import (
	"context"
	"github.com/caarlos0/env/v6"
	"go.uber.org/zap"
	"log"
	"social-media-api/internal/server"
	"social-media-api/internal/service"
	"social-media-api/internal/storage"
	"social-media-api/internal/storage/memory"
	"time"
)

type store interface {
	storage.AccountStore
	storage.MessageStore
}

// envConfig defines fields used for parsing from environment variables
type envConfig struct {
	Storage        string        `env:"STORAGE" envDefault:"postgres"`
	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"30s"`
	MaxConns       int32         `env:"DB_MAX_CONNS" envDefault:"0"`
	Server         server.EnvConfig
	DB             storage.Config
}

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("zap.NewDevelopment: %v", err)
	}
	defer logger.Sync()

	sugar := logger.Sugar()
	sugar.Info("Application is starting")

	cfg := envConfig{}
	if err := env.Parse(&cfg); err != nil {
		sugar.Fatalf("Cannot parse env config: %v", err)
	}

	serverOpts := []server.Option{
		server.WithEnvConfig(cfg.Server),
		server.ReadTimeout(5 * time.Second),
		server.WriteTimeout(10 * time.Second),
	}

	var st store
	switch cfg.Storage {
	case "memory":
		sugar.Warn("Using in-memory storage, data is lost on exit")
		st = memory.New()
	case "postgres":
		pg, err := storage.New(context.Background(), sugar, cfg.DB,
			storage.ConnectionTimeout(cfg.ConnectTimeout),
			storage.MaxConns(cfg.MaxConns),
		)
		if err != nil {
			sugar.Fatalf("Cannot create Store instance: %v", err)
		}

		if err := pg.Migrate(context.Background()); err != nil {
			sugar.Fatalf("Cannot migrate database: %v", err)
		}

		serverOpts = append(serverOpts, server.RegisterAfterShutdown(func() {
			sugar.Info("Closing store")
			pg.Close()
			sugar.Info("Store is closed")
		}))
		st = pg
	default:
		sugar.Fatalf("Unknown STORAGE %q, expected postgres or memory", cfg.Storage)
	}

	accounts := service.NewAccountService(sugar, st)
	messages := service.NewMessageService(sugar, st, st)

	srv, err := server.NewServer(sugar, accounts, messages, serverOpts...)
	if err != nil {
		sugar.Fatalf("Cannot create Server instance: %v", err)
	}

	if err := srv.Start(); err != nil {
		sugar.Fatalf("Cannot start http srv: %v", err)
	}
}
