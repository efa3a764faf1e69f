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

type PlayerRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewPlayerRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *PlayerRepository {
	return &PlayerRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *PlayerRepository) WithTx(tx *sql.Tx) *PlayerRepository {
	return &PlayerRepository{
		queries: r.queries.WithTx(tx),
		db:      r.db,
		logger:  r.logger,
	}
}

func toDomainPlayer(p db.Player) domain.Player {
	return domain.Player{
		ID:             p.ID,
		SteamID:        p.SteamID,
		SteamName:      p.SteamName,
		SteamAvatarURL: p.SteamAvatarUrl,
		Country:        p.Country,
		CreatedAt:      p.CreatedAt,
	}
}

func toDomainPlayers(players []db.Player) []domain.Player {
	result := make([]domain.Player, len(players))
	for i, p := range players {
		result[i] = toDomainPlayer(p)
	}
	return result
}

func (r *PlayerRepository) GetByID(ctx context.Context, id int64) (*domain.Player, error) {
	player, err := r.queries.GetPlayerByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player %d: %w", id, err)
	}
	p := toDomainPlayer(player)
	return &p, nil
}

func (r *PlayerRepository) GetBySteamID(ctx context.Context, steamID string) (*domain.Player, error) {
	player, err := r.queries.GetPlayerBySteamID(ctx, steamID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player %s: %w", steamID, err)
	}
	p := toDomainPlayer(player)
	return &p, nil
}

// CreateWithStats inserts the player and its initial stats row in one transaction.
func (r *PlayerRepository) CreateWithStats(ctx context.Context, player *domain.Player, initial rating.Rating) (*domain.Player, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	now := time.Now().UTC()
	country := player.Country
	if country == "" {
		country = domain.UnknownCountry
	}

	created, err := qtx.CreatePlayer(ctx, db.CreatePlayerParams{
		SteamID:        player.SteamID,
		SteamName:      player.SteamName,
		SteamAvatarUrl: player.SteamAvatarURL,
		Country:        country,
		CreatedAt:      now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create player %s: %w", player.SteamID, err)
	}

	err = qtx.CreateDefaultStats(ctx, db.CreateDefaultStatsParams{
		PlayerID:    created.ID,
		Rating:      initial.Mu,
		Uncertainty: initial.Sigma,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create stats for player %d: %w", created.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit player %s: %w", player.SteamID, err)
	}

	r.logger.Debug().Int64("player_id", created.ID).Str("steam_id", created.SteamID).Msg("player created")

	result := toDomainPlayer(created)
	result.Stats = domain.PlayerStats{
		PlayerID:    created.ID,
		Rating:      initial.Mu,
		Uncertainty: initial.Sigma,
		UpdatedAt:   now,
	}
	return &result, nil
}

func (r *PlayerRepository) Search(ctx context.Context, query string, limit int) ([]domain.Player, error) {
	searchPattern := "%" + query + "%"
	players, err := r.queries.SearchPlayers(ctx, db.SearchPlayersParams{
		SteamName: searchPattern,
		SteamID:   searchPattern,
		Limit:     int64(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search players: %w", err)
	}
	return toDomainPlayers(players), nil
}

func (r *PlayerRepository) ListByCountry(ctx context.Context, country string) ([]domain.Player, error) {
	players, err := r.queries.ListPlayersByCountry(ctx, country)
	if err != nil {
		return nil, fmt.Errorf("failed to list players for country %s: %w", country, err)
	}
	return toDomainPlayers(players), nil
}

func (r *PlayerRepository) ListWithoutStats(ctx context.Context) ([]domain.Player, error) {
	players, err := r.queries.ListPlayersWithoutStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players without stats: %w", err)
	}
	return toDomainPlayers(players), nil
}

func (r *PlayerRepository) UpdateCountry(ctx context.Context, id int64, country string) error {
	r.logger.Debug().Int64("player_id", id).Str("country", country).Msg("updating player country")
	err := r.queries.UpdatePlayerCountry(ctx, db.UpdatePlayerCountryParams{
		Country: country,
		ID:      id,
	})
	if err != nil {
		return fmt.Errorf("failed to update country of player %d: %w", id, err)
	}
	return nil
}
