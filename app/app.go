package app

import (
	"log/slog"

	"callerinfo/database"
	"callerinfo/services"
	"callerinfo/store"
	"callerinfo/validator"
)

// App holds all application dependencies
// This struct is the central point for dependency injection
type App struct {
	Repo        *database.Repository
	Store       *store.Store
	MainLoop    *store.Loop
	CallService *services.CallService
	Validator   *validator.Validator
	Logger      *slog.Logger
}

// New creates a new App instance with all dependencies
func New(repo *database.Repository, st *store.Store, loop *store.Loop, logger *slog.Logger) *App {
	return &App{
		Repo:        repo,
		Store:       st,
		MainLoop:    loop,
		CallService: services.NewCallService(st, logger),
		Validator:   validator.New(),
		Logger:      logger,
	}
}
