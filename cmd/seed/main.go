package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/casalink-ph/casalink-backend/internal/bootstrap"
	"github.com/casalink-ph/casalink-backend/internal/bus"
	"github.com/casalink-ph/casalink-backend/internal/store"
	"github.com/casalink-ph/casalink-backend/pkg/config"
	"github.com/casalink-ph/casalink-backend/pkg/db"
	"github.com/casalink-ph/casalink-backend/pkg/logger"
)

// Seeds the default accounts and demo listing, then exits. Safe to run
// repeatedly; populated collections are left alone.
func main() {
	logg := logger.New(logger.Options{ServiceName: "seed"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	collections := store.NewPersistent(dbClient.DB(), bus.New(), logg)
	if err := bootstrap.Run(context.Background(), collections, cfg.Password, logg); err != nil {
		logg.Error(context.Background(), "failed to seed default data", err)
		os.Exit(1)
	}

	logg.Info(context.Background(), "seed complete")
}
