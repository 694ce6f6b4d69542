package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	_ "contacts_api/docs"
	"contacts_api/internal/config"
	"contacts_api/internal/handlers"
	"contacts_api/internal/logger"
	"contacts_api/internal/mailer"
	"contacts_api/internal/repository"
	"contacts_api/internal/repository/db"
	"contacts_api/internal/server"
	"contacts_api/internal/service"
)

const defaultConfigPath = "configs/config.yml"

const shutdownTimeout = 10 * time.Second

// @title           Contacts API
// @version         1.0
// @description     Per-user contact management with JWT auth and birthday reminders.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	configPath := flag.String("config", defaultConfigPath, "path to config file")
	flag.Parse()

	// load config first; the log level comes from it
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.New(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.New(cfg.LogLevel)

	// open DB
	database, err := db.Open(cfg.DB)
	if err != nil {
		log.Fatalw("failed to init postgres", "err", err)
	}
	defer func() {
		if cerr := database.Close(); cerr != nil {
			log.Errorw("failed to close postgres", "err", cerr)
		}
	}()

	// optional redis-backed user cache
	rdb := openRedis(cfg.Redis, log)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	// wire dependencies
	repos := repository.NewRepository(database, rdb, cfg.Redis.UserTTL)
	services := service.NewService(repos, cfg, mailer.New(cfg.Mail), log)
	apiHandler := handlers.NewHandler(services, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// start birthday reminder loop
	if cfg.Reminder.Enabled {
		go services.Reminder.Run(ctx, cfg.Reminder.Interval)
	}

	// start HTTP server
	srv := &server.Server{}
	go func() {
		if err := srv.Run(cfg.Port, apiHandler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
	log.Infow("server started", "port", cfg.Port)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

// openRedis connects the user cache when an address is configured.
// Auth works without redis, so a failed ping only logs a warning.
func openRedis(cfg config.Redis, log *logger.Logger) *redis.Client {
	if cfg.Addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warnw("redis unreachable, user cache disabled", "addr", cfg.Addr, "err", err)
		_ = client.Close()
		return nil
	}
	return client
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
