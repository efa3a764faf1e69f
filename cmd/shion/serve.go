package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"shion/internal/config"
	"shion/internal/constants"
	fxmodules "shion/internal/fx"
	"shion/internal/server"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fx.New(
			fxmodules.Module,
			fx.Invoke(runServer),
		).Run()
	},
}

func runServer(
	lc fx.Lifecycle,
	ratingServer *server.RatingServer,
	cfg *config.Config,
	db *sql.DB,
	logger zerolog.Logger,
) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           ratingServer.Handler(),
		ReadHeaderTimeout: constants.RequestTimeout,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info().Str("addr", srv.Addr).Msg("server starting")
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal().Err(err).Msg("server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()

			// drain in-flight requests before the database goes away
			shutdownErr := srv.Shutdown(shutdownCtx)
			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
			}
			if shutdownErr != nil {
				logger.Error().Err(shutdownErr).Msg("server shutdown failed")
				return shutdownErr
			}
			logger.Info().Msg("server stopped gracefully")
			return nil
		},
	})
}
