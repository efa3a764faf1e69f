package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shion/internal/db"
	"shion/internal/domain"
	"shion/internal/rating"

	"github.com/rs/zerolog"
)

type StatsRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewStatsRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *StatsRepository {
	return &StatsRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *StatsRepository) WithTx(tx *sql.Tx) *StatsRepository {
	return &StatsRepository{
		queries: r.queries.WithTx(tx),
		db:      r.db,
		logger:  r.logger,
	}
}

// StatsIncrement is what a single processed match contributes to a player's stats.
// Rating and Uncertainty replace the stored values; the counters are added.
type StatsIncrement struct {
	PlayerID    int64
	Rating      float64
	Uncertainty float64
	Wins        int64
	Losses      int64
	Frags       int64
	Deaths      int64
	UpdatedAt   time.Time
}

func toDomainStats(s db.PlayerStat) domain.PlayerStats {
	return domain.PlayerStats{
		PlayerID:    s.PlayerID,
		Rating:      s.Rating,
		Uncertainty: s.Uncertainty,
		Wins:        s.Wins,
		Losses:      s.Losses,
		TotalFrags:  s.TotalFrags,
		TotalDeaths: s.TotalDeaths,
		UpdatedAt:   s.UpdatedAt,
	}
}

// Get returns nil without an error when the player has no stats row yet.
func (r *StatsRepository) Get(ctx context.Context, playerID int64) (*domain.PlayerStats, error) {
	stats, err := r.queries.GetStatsByPlayerID(ctx, playerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stats of player %d: %w", playerID, err)
	}
	s := toDomainStats(stats)
	return &s, nil
}

func (r *StatsRepository) Apply(ctx context.Context, inc StatsIncrement) error {
	err := r.queries.UpsertStats(ctx, db.UpsertStatsParams{
		PlayerID:    inc.PlayerID,
		Rating:      inc.Rating,
		Uncertainty: inc.Uncertainty,
		Wins:        inc.Wins,
		Losses:      inc.Losses,
		TotalFrags:  inc.Frags,
		TotalDeaths: inc.Deaths,
		UpdatedAt:   inc.UpdatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to upsert stats of player %d: %w", inc.PlayerID, err)
	}
	return nil
}

// CreateDefault is a no-op for players that already have stats.
func (r *StatsRepository) CreateDefault(ctx context.Context, playerID int64, initial rating.Rating) error {
	err := r.queries.CreateDefaultStats(ctx, db.CreateDefaultStatsParams{
		PlayerID:    playerID,
		Rating:      initial.Mu,
		Uncertainty: initial.Sigma,
		UpdatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to create default stats of player %d: %w", playerID, err)
	}
	return nil
}

func (r *StatsRepository) ResetAll(ctx context.Context, initial rating.Rating) (int64, error) {
	n, err := r.queries.ResetAllStats(ctx, db.ResetAllStatsParams{
		Rating:      initial.Mu,
		Uncertainty: initial.Sigma,
		UpdatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to reset stats: %w", err)
	}
	r.logger.Info().Int64("rows", n).Msg("player stats reset to defaults")
	return n, nil
}

// Leaderboard returns players with their stats, best rating first.
func (r *StatsRepository) Leaderboard(ctx context.Context, limit, offset int) ([]domain.Player, error) {
	rows, err := r.queries.GetLeaderboard(ctx, db.GetLeaderboardParams{
		Limit:  int64(limit),
		Offset: int64(offset),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	result := make([]domain.Player, len(rows))
	for i, row := range rows {
		result[i] = toDomainPlayer(row.Player)
		result[i].Stats = toDomainStats(row.PlayerStat)
	}
	return result, nil
}
