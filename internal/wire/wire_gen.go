// Code generated manually. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package wire

import (
	"context"
	"fmt"

	"github.com/prlocal/prlocal/internal/app"
	"github.com/prlocal/prlocal/internal/config"
	"github.com/prlocal/prlocal/internal/db"
	"github.com/prlocal/prlocal/internal/review"
	"github.com/prlocal/prlocal/internal/server"
	"github.com/prlocal/prlocal/internal/storage"
)

// InitializeApp creates and wires all application dependencies.
func InitializeApp(ctx context.Context) (*app.App, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	loggerConfig := provideLoggerConfig(cfg)
	logWriter := provideLogWriter(cfg)
	slogLogger := provideSlogLogger(loggerConfig, logWriter)

	databasePath := provideDatabasePath(cfg)
	dbConn, dbCleanup, err := db.NewDatabase(databasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := storage.NewStore(provideSQLX(dbConn))
	gitClient := provideGitClient(slogLogger)
	svc := review.NewService(store, gitClient, slogLogger)
	watcher := review.NewWatcher(store, slogLogger)
	srv := server.NewServer(ctx, cfg, svc, slogLogger)

	application := app.NewApp(ctx, cfg, dbConn, store, gitClient, svc, watcher, srv, slogLogger)

	cleanup := func() {
		dbCleanup()
	}

	return application, cleanup, nil
}
