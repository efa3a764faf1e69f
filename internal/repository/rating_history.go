package repository

import (
	"context"
	"database/sql"
	"fmt"

	"shion/internal/db"
	"shion/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type RatingHistoryRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewRatingHistoryRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *RatingHistoryRepository {
	return &RatingHistoryRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *RatingHistoryRepository) WithTx(tx *sql.Tx) *RatingHistoryRepository {
	return &RatingHistoryRepository{
		queries: r.queries.WithTx(tx),
		db:      r.db,
		logger:  r.logger,
	}
}

func (r *RatingHistoryRepository) Insert(ctx context.Context, capture domain.RatingCapture) error {
	id := capture.ID
	if id == "" {
		var err error
		id, err = gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate nanoid: %w", err)
		}
	}

	err := r.queries.InsertRatingHistory(ctx, db.InsertRatingHistoryParams{
		ID:          id,
		PlayerID:    capture.PlayerID,
		MatchID:     capture.MatchID,
		Rating:      capture.Rating,
		Uncertainty: capture.Uncertainty,
		CapturedAt:  capture.CapturedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to insert rating capture for player %d: %w", capture.PlayerID, err)
	}
	return nil
}

// GetByPlayer returns the player's captures oldest first.
func (r *RatingHistoryRepository) GetByPlayer(ctx context.Context, playerID int64) ([]domain.RatingCapture, error) {
	records, err := r.queries.GetRatingHistoryByPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rating history of player %d: %w", playerID, err)
	}

	result := make([]domain.RatingCapture, len(records))
	for i, h := range records {
		result[i] = domain.RatingCapture{
			ID:          h.ID,
			PlayerID:    h.PlayerID,
			MatchID:     h.MatchID,
			Rating:      h.Rating,
			Uncertainty: h.Uncertainty,
			CapturedAt:  h.CapturedAt,
		}
	}
	return result, nil
}

func (r *RatingHistoryRepository) DeleteAll(ctx context.Context) (int64, error) {
	n, err := r.queries.DeleteAllRatingHistory(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete rating history: %w", err)
	}
	return n, nil
}
