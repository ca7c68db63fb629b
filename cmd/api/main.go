package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"todo-api/internal/auth"
	"todo-api/internal/config"
	"todo-api/internal/database"
	"todo-api/internal/domain"
	"todo-api/internal/repository"
	"todo-api/internal/server"
	"todo-api/internal/service"
)

func gracefulShutdown(apiServer *http.Server, dbService database.Service, log *slog.Logger, done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info("shutting down gracefully, press Ctrl+C again to force")
	stop()

	// Give in-flight requests five seconds to finish.
	ctxTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctxTimeout); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	if dbService != nil {
		if err := dbService.Close(); err != nil {
			log.Error("closing database connection pool", "error", err)
		}
	}

	log.Info("server exiting")
	done <- true
}

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("loading configuration", "error", err)
		os.Exit(1)
	}

	dbService, err := database.New(cfg)
	if err != nil {
		log.Error("connecting to database", "error", err)
		os.Exit(1)
	}
	gormDB := dbService.GetDB()

	if err := gormDB.AutoMigrate(&domain.User{}, &domain.AuthToken{}, &domain.Todo{}); err != nil {
		log.Error("running database auto-migration", "error", err)
		os.Exit(1)
	}

	userRepo := repository.NewGormUserRepository(gormDB)
	todoRepo := repository.NewGormTodoRepository(gormDB)

	codec := auth.NewCodec([]byte(cfg.JWTSecret), cfg.TokenTTL)
	accountService := service.NewAccountService(userRepo, codec, log)
	todoService := service.NewTodoService(todoRepo, log)

	apiServer := server.NewServer(cfg, log, accountService, todoService, dbService)

	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, dbService, log, done)

	log.Info("starting server", "addr", apiServer.Addr)
	err = apiServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("http server error", "error", err)
		os.Exit(1)
	}

	<-done
	log.Info("graceful shutdown complete")
}
