package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"todo-api/internal/config"
	"todo-api/internal/database"
	"todo-api/internal/service"
)

type Server struct {
	log      *slog.Logger
	accounts service.AccountService
	todos    service.TodoService
	db       database.Service
}

// NewServer builds the http.Server for the API with the configured port and
// the usual timeouts.
func NewServer(cfg *config.Config, log *slog.Logger, accounts service.AccountService, todos service.TodoService, dbService database.Service) *http.Server {
	appServer := &Server{
		log:      log,
		accounts: accounts,
		todos:    todos,
		db:       dbService,
	}

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      appServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
