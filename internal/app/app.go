// Package app initializes and orchestrates the main components of the
// application: configuration, database, review engine, and the embedded
// review server.
package app

import (
	"context"
	"log/slog"

	"github.com/prlocal/prlocal/internal/config"
	"github.com/prlocal/prlocal/internal/db"
	"github.com/prlocal/prlocal/internal/gitops"
	"github.com/prlocal/prlocal/internal/review"
	"github.com/prlocal/prlocal/internal/server"
	"github.com/prlocal/prlocal/internal/storage"
)

// App holds the main application components. CLI commands reach the review
// engine through Service and Watcher; serve runs the embedded Server.
type App struct {
	Cfg     *config.Config
	Logger  *slog.Logger
	Store   storage.Store
	Git     gitops.Git
	Service *review.Service
	Watcher *review.Watcher

	ctx    context.Context
	server *server.Server
	dbConn *db.DB
}

// NewApp assembles the application from its wired dependencies.
func NewApp(
	ctx context.Context,
	cfg *config.Config,
	dbConn *db.DB,
	store storage.Store,
	git gitops.Git,
	svc *review.Service,
	watcher *review.Watcher,
	srv *server.Server,
	logger *slog.Logger,
) *App {
	return &App{
		Cfg:     cfg,
		Logger:  logger,
		Store:   store,
		Git:     git,
		Service: svc,
		Watcher: watcher,
		ctx:     ctx,
		server:  srv,
		dbConn:  dbConn,
	}
}

// StartServer runs the embedded review server and blocks until shutdown.
func (a *App) StartServer() error {
	a.Logger.Info("starting review server", "port", a.Cfg.Server.Port, "database", a.Cfg.DatabasePath)
	return a.server.Start()
}

// StopServer gracefully shuts down the review server.
func (a *App) StopServer() error {
	return a.server.Stop()
}
