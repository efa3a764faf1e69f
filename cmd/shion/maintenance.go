package main

import (
	"fmt"

	"shion/internal/service"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var reprocessCmd = &cobra.Command{
	Use:   "reprocess",
	Short: "Reset all ratings and replay every match in chronological order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var reprocessor *service.Reprocessor
		var logger zerolog.Logger
		closeDB, err := populate(cmd.Context(), &reprocessor, &logger)
		if err != nil {
			return err
		}
		defer closeDB()

		report, err := reprocessor.ReprocessAll(cmd.Context())
		if err != nil {
			return fmt.Errorf("reprocess: %w", err)
		}
		logger.Info().
			Int("processed", len(report.Processed)).
			Int("skipped", len(report.Skipped)).
			Ints64("skipped_ids", report.Skipped).
			Msg("reprocessing finished")
		return nil
	},
}

var backfillStatsCmd = &cobra.Command{
	Use:   "backfill-stats",
	Short: "Create default stats for players that have none",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var maintenance *service.MaintenanceService
		var logger zerolog.Logger
		closeDB, err := populate(cmd.Context(), &maintenance, &logger)
		if err != nil {
			return err
		}
		defer closeDB()

		n, err := maintenance.BackfillStats(cmd.Context())
		if err != nil {
			return fmt.Errorf("backfill stats: %w", err)
		}
		logger.Info().Int("players", n).Msg("stats backfill finished")
		return nil
	},
}

var backfillCountriesCmd = &cobra.Command{
	Use:   "backfill-countries",
	Short: "Fill unknown player countries from the AGDB directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var maintenance *service.MaintenanceService
		var logger zerolog.Logger
		closeDB, err := populate(cmd.Context(), &maintenance, &logger)
		if err != nil {
			return err
		}
		defer closeDB()

		n, err := maintenance.BackfillCountries(cmd.Context())
		if err != nil {
			return fmt.Errorf("backfill countries: %w", err)
		}
		logger.Info().Int("players", n).Msg("country backfill finished")
		return nil
	},
}

var fixMatchesCmd = &cobra.Command{
	Use:   "fix-matches",
	Short: "Delete matches with uneven teams or too few frags",
	Long:  "Delete matches with uneven teams or where both teams scored too few frags. Run reprocess afterwards to rebuild ratings.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var maintenance *service.MaintenanceService
		var logger zerolog.Logger
		closeDB, err := populate(cmd.Context(), &maintenance, &logger)
		if err != nil {
			return err
		}
		defer closeDB()

		deleted, err := maintenance.FixMatches(cmd.Context())
		if err != nil {
			return fmt.Errorf("fix matches: %w", err)
		}
		logger.Info().Int("deleted", len(deleted)).Ints64("match_ids", deleted).Msg("match cleanup finished")
		return nil
	},
}
