package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"photobook/internal/booking"
	"photobook/internal/clock"
	"photobook/internal/config"
	"photobook/internal/db"
	"photobook/internal/logger"
	"photobook/internal/notify"
	"photobook/internal/photographer"
	"photobook/internal/reminder"
	"photobook/internal/server"
	"photobook/internal/user"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// @title Photobook API
// @version 1.0
// @description API for booking photography sessions.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init("development", "info")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Env, cfg.LogLevel)
	defer logger.Sync()
	logger.Info("Starting photobook", "env", cfg.Env)

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connected")

	if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatalf("Failed to connect to redis: %v", err)
	}

	clk := clock.NewSystem()

	// Notifications: producers push to Redis, the worker fans out to the
	// inbox table and, when the broker is reachable, to RabbitMQ.
	queue := notify.NewQueue(rdb)
	inbox := notify.NewInboxRepository(database)
	deliverers := []notify.Deliverer{inbox}

	publisher, err := notify.DialAMQP(cfg.RabbitMQURL)
	if err != nil {
		logger.Warn("RabbitMQ unavailable, events will only reach the inbox", "error", err)
	} else {
		defer publisher.Close()
		deliverers = append(deliverers, publisher)
	}

	worker := notify.NewWorker(rdb, cfg.NotificationTries, deliverers...)
	go worker.Start(ctx)

	// Reminders.
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
	asynqClient := asynq.NewClient(redisOpt)
	defer asynqClient.Close()
	inspector := asynq.NewInspector(redisOpt)
	defer inspector.Close()

	userRepo := user.NewRepository(database)
	photographerRepo := photographer.NewRepository(database)
	bookingRepo := booking.NewRepository(database)

	scheduler := reminder.NewScheduler(asynqClient, inspector, cfg.ReminderLeadTime, clk)
	bookingService := booking.NewService(bookingRepo, photographerRepo, queue, scheduler, clk)

	reminderServer := reminder.NewServer(redisOpt)
	if err := reminderServer.Start(reminder.NewMux(reminder.NewHandler(bookingRepo, queue))); err != nil {
		logger.Fatalf("Failed to start reminder worker: %v", err)
	}

	srv := server.New(cfg, server.Handlers{
		User:         user.NewHandler(user.NewService(userRepo, cfg.JWTSecret)),
		Photographer: photographer.NewHandler(photographer.NewService(photographerRepo)),
		Booking:      booking.NewHandler(bookingService, clk),
		Notification: notify.NewHandler(inbox, clk),
	},
		server.Check{Name: "postgres", Ping: database.PingContext},
		server.Check{Name: "redis", Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
	)

	serverErrChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}

	cancel()
	reminderServer.Shutdown()

	logger.Info("Server stopped")
}
