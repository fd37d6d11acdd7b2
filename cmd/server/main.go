package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"league-ladder/internal/config"
	"league-ladder/internal/constants"
	fxmodules "league-ladder/internal/fx"
	"league-ladder/internal/scheduler"
	"league-ladder/internal/server"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.Invoke(runServer),
	).Run()
}

func runServer(
	lc fx.Lifecycle,
	admin *server.Admin,
	trigger *scheduler.CronTrigger,
	cfg *config.Config,
	db *sql.DB,
	logger zerolog.Logger,
) {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: admin.Handler(),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info().Str("addr", srv.Addr).Msg("server starting")
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal().Err(err).Msg("server failed")
				}
			}()
			trigger.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()

			if err := trigger.Stop(shutdownCtx); err != nil {
				logger.Warn().Err(err).Msg("cron trigger did not stop in time")
			}

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("server shutdown failed")
				return err
			}

			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
			}
			logger.Info().Msg("server stopped gracefully")
			return nil
		},
	})
}
