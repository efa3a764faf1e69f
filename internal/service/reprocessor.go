package service

import (
	"context"
	"fmt"

	"shion/internal/rating"
	"shion/internal/repository"

	"github.com/rs/zerolog"
)

type Report struct {
	Processed []int64
	Skipped   []int64
}

// Reprocessor rebuilds every rating from the stored match history.
type Reprocessor struct {
	store     *repository.Store
	processor *MatchProcessor
	engine    rating.Config
	logger    zerolog.Logger
}

func NewReprocessor(store *repository.Store, processor *MatchProcessor, engine rating.Config, logger zerolog.Logger) *Reprocessor {
	return &Reprocessor{store: store, processor: processor, engine: engine, logger: logger}
}

// ReprocessAll resets all stats and record ratings, then replays every match oldest first, one at a time.
// A match that fails is logged and skipped. Cancelling ctx stops the replay between
// matches and returns what was done so far.
func (r *Reprocessor) ReprocessAll(ctx context.Context) (Report, error) {
	var report Report

	err := r.store.InTx(ctx, func(tx *repository.Store) error {
		if _, err := tx.History.DeleteAll(ctx); err != nil {
			return err
		}
		// skipped matches must not keep values from an earlier run
		if _, err := tx.Records.ResetRatings(ctx); err != nil {
			return err
		}
		_, err := tx.Stats.ResetAll(ctx, r.engine.Initial())
		return err
	})
	if err != nil {
		return report, fmt.Errorf("failed to reset ratings: %w", err)
	}

	matches, err := r.store.Matches.ListChronological(ctx)
	if err != nil {
		return report, err
	}

	r.logger.Info().Int("matches", len(matches)).Msg("reprocessing match history")

	for _, m := range matches {
		if err := ctx.Err(); err != nil {
			r.logger.Warn().Err(err).Int("processed", len(report.Processed)).Msg("reprocessing interrupted")
			return report, err
		}

		if err := r.processor.Process(ctx, m.ID); err != nil {
			r.logger.Warn().Err(err).Int64("match_id", m.ID).Msg("skipping match")
			report.Skipped = append(report.Skipped, m.ID)
			continue
		}
		report.Processed = append(report.Processed, m.ID)
	}

	r.logger.Info().
		Int("processed", len(report.Processed)).
		Int("skipped", len(report.Skipped)).
		Msg("reprocessing completed")

	return report, nil
}
