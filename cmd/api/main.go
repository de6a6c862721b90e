package main

import (
	"context"
	"fmt"
	"time"

	"message-api/config"
	"message-api/internal/events"
	"message-api/internal/handler"
	"message-api/internal/middleware"
	"message-api/internal/redis"
	"message-api/internal/repository"
	"message-api/internal/repository/memstore"
	"message-api/internal/server"
	"message-api/internal/services"
	"message-api/internal/websocket"
	"message-api/pkg/database"
	"message-api/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	l := logger.New(cfg.LogMode)
	logger.SetGlobalLogger(l)

	if err := run(cfg, l); err != nil {
		l.Logger.Fatal("server exited", zap.Error(err))
	}
	l.Sync()
}

// run wires the stores, event feed and HTTP server, then serves until a
// shutdown signal. Startup failures are returned, not logged.
func run(cfg *config.Config, l *logger.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	checks := map[string]server.HealthCheck{}

	var store repository.Store
	switch cfg.StoreBackend {
	case "memory":
		l.Warnf("Using in-memory store; data is lost on restart")
		store = memstore.New()
	default:
		db, err := database.Connect(cfg)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer func() {
			if err := database.Close(db); err != nil {
				l.Errorf("Failed to close database: %v", err)
			}
		}()

		if err := repository.InitSchema(db); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
		l.Infof("Database connected and schema applied")

		store = repository.NewStore(db)
		checks["database"] = func(ctx context.Context) error {
			return database.HealthCheck(ctx, db)
		}
	}

	hub := websocket.NewHub()
	go hub.Run(ctx)

	// Without Redis, events go straight to the local hub and writes are not limited.
	var sink events.Sink = hub
	var limiter middleware.WriteLimiter

	if cfg.RedisEnabled {
		client := redis.NewClient(redis.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer client.Close()

		if err := redis.Ping(ctx, client); err != nil {
			return fmt.Errorf("connect redis at %s:%s: %w", cfg.RedisHost, cfg.RedisPort, err)
		}
		l.Infof("Redis connected at %s:%s", cfg.RedisHost, cfg.RedisPort)

		limiter = redis.NewRateLimiter(client, redis.RateLimitConfig{
			WriteLimit:  cfg.RateLimitWrites,
			WriteWindow: time.Duration(cfg.RateLimitWindowSec) * time.Second,
		})
		sink = redis.NewPublisher(client)

		bridge := websocket.NewRedisBridge(redis.NewSubscriber(client), hub)
		go func() {
			if err := bridge.Run(ctx); err != nil {
				l.Errorf("Redis bridge stopped: %v", err)
			}
		}()

		checks["redis"] = func(ctx context.Context) error {
			return redis.Ping(ctx, client)
		}
	}

	publisher := events.NewChannelPublisher(sink, events.NewFeedChannelResolver())

	messageService := services.NewMessageService(store, publisher, l)
	userService := services.NewUserService(store)

	srv := server.New(cfg, l)
	srv.SetupRoutes(&server.Handlers{
		Message:   handler.NewMessageHandler(messageService),
		User:      handler.NewUserHandler(userService),
		WebSocket: websocket.NewHandler(hub, l),
	}, limiter, checks)

	return srv.Start()
}
