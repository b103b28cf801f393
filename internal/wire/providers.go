package wire

import (
	"io"
	"log/slog"
	"os"

	"github.com/google/wire"
	"github.com/jmoiron/sqlx"

	"github.com/prlocal/prlocal/internal/app"
	"github.com/prlocal/prlocal/internal/config"
	"github.com/prlocal/prlocal/internal/db"
	"github.com/prlocal/prlocal/internal/gitops"
	"github.com/prlocal/prlocal/internal/logger"
	"github.com/prlocal/prlocal/internal/review"
	"github.com/prlocal/prlocal/internal/server"
	"github.com/prlocal/prlocal/internal/storage"
)

var AppSet = wire.NewSet(
	app.NewApp,
	server.NewServer,
	config.LoadConfig,
	db.NewDatabase,
	storage.NewStore,
	review.NewService,
	review.NewWatcher,
	provideGitClient,
	provideDatabasePath,
	provideLoggerConfig,
	provideLogWriter,
	provideSlogLogger,
	provideSQLX,
)

func provideGitClient(logger *slog.Logger) gitops.Git {
	return gitops.NewClient(logger)
}

func provideDatabasePath(cfg *config.Config) string {
	return cfg.DatabasePath
}

func provideLoggerConfig(cfg *config.Config) logger.Config {
	return cfg.Logging
}

func provideLogWriter(cfg *config.Config) io.Writer {
	switch cfg.Logging.Output {
	case "stdout":
		return os.Stdout
	case "file":
		f, err := os.OpenFile("prlocal.log", os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
		if err != nil {
			// A typed-nil *os.File is a non-nil io.Writer, so returning it
			// would bypass the logger's own fallback.
			return os.Stderr
		}
		return f
	default:
		return os.Stderr
	}
}

func provideSlogLogger(loggerConfig logger.Config, writer io.Writer) *slog.Logger {
	return logger.NewLogger(loggerConfig, writer)
}

func provideSQLX(dbConn *db.DB) *sqlx.DB {
	return dbConn.DB
}
