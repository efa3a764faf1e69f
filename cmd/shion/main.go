// Command shion runs the match rating service and its maintenance jobs.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"shion/internal/constants"
	fxmodules "shion/internal/fx"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

var dbPath string

var rootCmd = &cobra.Command{
	Use:   "shion",
	Short: "Team match rating service",
	Long:  "Ingest finished team matches and keep Weng-Lin skill ratings for every player.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// the flag wins over DB_PATH from the environment or .env
		if cmd.Flags().Changed("db") {
			return os.Setenv("DB_PATH", dbPath)
		}
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "shion.db", "path to SQLite database (overrides DB_PATH)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(reprocessCmd)
	rootCmd.AddCommand(backfillStatsCmd)
	rootCmd.AddCommand(backfillCountriesCmd)
	rootCmd.AddCommand(fixMatchesCmd)
	rootCmd.AddCommand(leaderboardCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// populate builds the dependency graph without the HTTP server, fills targets
// and starts the app. The returned func stops it and closes the database.
func populate(ctx context.Context, targets ...interface{}) (func(), error) {
	var sqlDB *sql.DB
	app := fx.New(
		fxmodules.Core,
		fx.NopLogger,
		fx.Populate(append(targets, &sqlDB)...),
	)
	if err := app.Err(); err != nil {
		return nil, fmt.Errorf("failed to build application: %w", err)
	}
	if err := app.Start(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to start application: %w", err)
	}
	return func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()
		app.Stop(stopCtx)
		sqlDB.Close()
	}, nil
}
