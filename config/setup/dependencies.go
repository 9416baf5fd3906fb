package setup

import (
	"context"
	"log/slog"
	"os"

	"callerinfo/app"
	"callerinfo/config"
	"callerinfo/database"
	"callerinfo/store"
)

// NewLogger builds the process logger: JSON in production, text otherwise
func NewLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level:     parseLogLevel(cfg.LogLevel),
		AddSource: cfg.Env == "development",
	}

	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// InitDatabase initializes the SQLite database and runs migrations
func InitDatabase(dbPath string, logger *slog.Logger) (*database.DB, error) {
	db, err := database.New(dbPath)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("database initialized", "path", dbPath)
	return db, nil
}

// InitApp wires the store and its main loop around an open database
func InitApp(db *database.DB, cfg *config.Config, logger *slog.Logger) *app.App {
	repo := database.NewRepository(db)

	loop := store.NewLoop(cfg.MainLoopBuffer)
	st := store.New(repo,
		store.WithLogger(logger),
		store.WithMainLoop(loop),
		store.WithConcurrency(cfg.WorkerConcurrency),
	)
	logger.Info("record store initialized", "concurrency", cfg.WorkerConcurrency)

	return app.New(repo, st, loop, logger)
}

// Shutdown drains the store, stops the main loop and closes the database
func Shutdown(ctx context.Context, application *app.App, db *database.DB, logger *slog.Logger) {
	logger.Info("shutting down services...")

	if application != nil {
		if err := application.Store.Close(ctx); err != nil {
			logger.Error("record store did not drain", "error", err)
		} else {
			logger.Info("record store drained")
		}
		if application.MainLoop != nil {
			application.MainLoop.Stop()
		}
	}

	if db != nil {
		db.Close()
		logger.Info("database closed")
	}
}
