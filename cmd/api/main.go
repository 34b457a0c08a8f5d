package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/casalink-ph/casalink-backend/api/routes"
	"github.com/casalink-ph/casalink-backend/internal/appointments"
	"github.com/casalink-ph/casalink-backend/internal/auth"
	"github.com/casalink-ph/casalink-backend/internal/bootstrap"
	"github.com/casalink-ph/casalink-backend/internal/bus"
	"github.com/casalink-ph/casalink-backend/internal/notifications"
	"github.com/casalink-ph/casalink-backend/internal/officemeets"
	"github.com/casalink-ph/casalink-backend/internal/properties"
	"github.com/casalink-ph/casalink-backend/internal/reviews"
	"github.com/casalink-ph/casalink-backend/internal/session"
	"github.com/casalink-ph/casalink-backend/internal/store"
	"github.com/casalink-ph/casalink-backend/internal/trips"
	"github.com/casalink-ph/casalink-backend/internal/users"
	"github.com/casalink-ph/casalink-backend/pkg/config"
	"github.com/casalink-ph/casalink-backend/pkg/db"
	"github.com/casalink-ph/casalink-backend/pkg/logger"
	"github.com/casalink-ph/casalink-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	changeBus := bus.New()
	var busImpl bus.Bus = changeBus
	var redisP redis.Pinger
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		relay := bus.NewRelay(changeBus, redisClient, cfg.Bus.Channel, logg)
		go relay.Run(context.Background())
		busImpl = relay
		redisP = redisClient
	}

	collections := store.NewPersistent(dbClient.DB(), busImpl, logg)
	sessionCell := session.NewCell(collections)

	authService, err := auth.NewService(collections, sessionCell, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}
	userService, err := users.NewService(collections, sessionCell, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}
	propertyService, err := properties.NewService(collections)
	if err != nil {
		logg.Error(context.Background(), "failed to create properties service", err)
		os.Exit(1)
	}
	notificationService, err := notifications.NewService(collections)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}
	appointmentService, err := appointments.NewService(collections, propertyService, notificationService)
	if err != nil {
		logg.Error(context.Background(), "failed to create appointments service", err)
		os.Exit(1)
	}
	officeMeetService, err := officemeets.NewService(collections, notificationService)
	if err != nil {
		logg.Error(context.Background(), "failed to create office meets service", err)
		os.Exit(1)
	}
	tripService, err := trips.NewService(collections, propertyService)
	if err != nil {
		logg.Error(context.Background(), "failed to create trips service", err)
		os.Exit(1)
	}
	reviewService, err := reviews.NewService(collections)
	if err != nil {
		logg.Error(context.Background(), "failed to create reviews service", err)
		os.Exit(1)
	}

	if err := bootstrap.Run(context.Background(), collections, cfg.Password, logg); err != nil {
		logg.Error(context.Background(), "failed to seed default data", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisP,
			authService,
			userService,
			propertyService,
			appointmentService,
			officeMeetService,
			tripService,
			reviewService,
			notificationService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
