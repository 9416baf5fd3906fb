package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"callerinfo/config/setup"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Example: "  callerinfo serve\n" +
			"  PORT=8080 DB_PATH=/var/lib/callerinfo.db callerinfo serve",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadRuntime()
			if err != nil {
				return err
			}

			db, err := setup.InitDatabase(cfg.DBPath, logger)
			if err != nil {
				return err
			}

			application := setup.InitApp(db, cfg, logger)

			fiberApp := setup.NewFiberApp(cfg, logger)
			setup.ApplyMiddleware(fiberApp, cfg, logger)
			setup.RegisterRoutes(fiberApp, application, cfg.APIToken)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info("starting server", "port", cfg.Port, "env", cfg.Env)

			listenErr := make(chan error, 1)
			go func() {
				if err := fiberApp.Listen(":" + cfg.Port); err != nil {
					listenErr <- err
				}
				stop()
			}()

			// The main loop runs here until a signal arrives or the listener dies.
			if err := application.MainLoop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("main loop stopped", "error", err)
			}

			logger.Info("shutting down server gracefully")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := fiberApp.ShutdownWithContext(shutdownCtx); err != nil {
				logger.Error("server forced to shutdown", "error", err)
			}
			setup.Shutdown(shutdownCtx, application, db, logger)

			logger.Info("server stopped")

			select {
			case err := <-listenErr:
				return err
			default:
				return nil
			}
		},
	}
}
